package form

import (
	"context"
	"errors"

	"github.com/nickpending/donations/internal/api"
)

// State is the lifecycle position of the create form
type State int

const (
	StateClosed State = iota
	StateOpen
	StateSubmitting
)

func (s State) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateSubmitting:
		return "submitting"
	default:
		return "closed"
	}
}

var (
	// ErrNotOpen is returned when submitting a form that is not showing
	ErrNotOpen = errors.New("form is not open")
	// ErrSubmitPending is returned when a submission is already in flight
	ErrSubmitPending = errors.New("submission already in progress")
)

// SubmitFunc performs the create call
type SubmitFunc func(ctx context.Context, request api.CreateDonationItemRequest) (*api.DonationItem, error)

// Flow drives the create form: Closed -> Open -> Submitting -> Closed on
// success, or back to Open with values intact on failure.
type Flow struct {
	state     State
	data      Data
	errs      Errors
	touched   map[Field]bool
	existing  []string
	currency  string
	submitErr error
}

// NewFlow creates a closed form that prices items in currency
func NewFlow(currency string) *Flow {
	if currency == "" {
		currency = DefaultCurrency
	}
	return &Flow{
		currency: currency,
		errs:     Errors{},
		touched:  map[Field]bool{},
	}
}

// Open shows the form. existing is the full list of item names used for the uniqueness check.
func (f *Flow) Open(existing []string) {
	if f.state == StateSubmitting {
		return
	}
	f.state = StateOpen
	f.existing = existing
	f.submitErr = nil
}

// Close hides the form and resets every field
func (f *Flow) Close() {
	f.state = StateClosed
	f.reset()
}

func (f *Flow) reset() {
	f.data = Data{}
	f.errs = Errors{}
	f.touched = map[Field]bool{}
	f.submitErr = nil
}

// SetExisting replaces the names used for the uniqueness check and revalidates the name
func (f *Flow) SetExisting(existing []string) {
	f.existing = existing
	if f.touched[FieldName] {
		f.revalidate(FieldName)
	}
}

// SetField updates one value and validates it immediately
func (f *Flow) SetField(field Field, value string) {
	if f.state == StateSubmitting {
		return
	}
	f.data = f.data.With(field, value)
	f.touched[field] = true
	f.revalidate(field)
}

func (f *Flow) revalidate(field Field) {
	if msg := ValidateField(field, f.data, f.existing); msg != "" {
		f.errs[field] = msg
	} else {
		delete(f.errs, field)
	}
}

// State returns the lifecycle state
func (f *Flow) State() State {
	return f.state
}

// IsOpen reports whether the form is showing, including while submitting
func (f *Flow) IsOpen() bool {
	return f.state != StateClosed
}

// IsSubmitting reports whether a submission is pending
func (f *Flow) IsSubmitting() bool {
	return f.state == StateSubmitting
}

// Data returns the current values
func (f *Flow) Data() Data {
	return f.data
}

// Currency returns the currency applied to prices
func (f *Flow) Currency() string {
	return f.currency
}

// Errors returns the validation messages of fields the user has edited
func (f *Flow) Errors() Errors {
	out := make(Errors, len(f.errs))
	for k, v := range f.errs {
		out[k] = v
	}
	return out
}

// FieldError returns the message for one field or ""
func (f *Flow) FieldError(field Field) string {
	return f.errs[field]
}

// CanSubmit reports whether the form is open, fully valid and not pending
func (f *Flow) CanSubmit() bool {
	return f.state == StateOpen && len(Validate(f.data, f.existing)) == 0
}

// SubmitError returns the last failed submission, if any
func (f *Flow) SubmitError() error {
	return f.submitErr
}

// DismissError clears the submission failure notice
func (f *Flow) DismissError() {
	f.submitErr = nil
}

// BeginSubmit validates every field and moves to Submitting. On a validation
// failure all field errors become visible and the state stays Open.
func (f *Flow) BeginSubmit() (api.CreateDonationItemRequest, error) {
	switch f.state {
	case StateClosed:
		return api.CreateDonationItemRequest{}, ErrNotOpen
	case StateSubmitting:
		return api.CreateDonationItemRequest{}, ErrSubmitPending
	}

	request, err := BuildRequest(f.data, f.existing, f.currency)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			for _, field := range Fields {
				f.touched[field] = true
			}
			f.errs = verr.Fields
		}
		return api.CreateDonationItemRequest{}, err
	}

	f.state = StateSubmitting
	f.submitErr = nil
	return request, nil
}

// Settle records the outcome of a submission started with BeginSubmit
func (f *Flow) Settle(err error) {
	if f.state != StateSubmitting {
		return
	}
	if err != nil {
		f.state = StateOpen
		f.submitErr = err
		return
	}
	f.state = StateClosed
	f.reset()
}

// Submit runs BeginSubmit, the create call and Settle in sequence
func (f *Flow) Submit(ctx context.Context, submit SubmitFunc) (*api.DonationItem, error) {
	request, err := f.BeginSubmit()
	if err != nil {
		return nil, err
	}
	item, err := submit(ctx, request)
	f.Settle(err)
	if err != nil {
		return nil, err
	}
	return item, nil
}
