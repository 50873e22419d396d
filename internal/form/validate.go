// Package form validates and submits the create-donation-item form.
package form

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/nickpending/donations/internal/api"
)

// DefaultCurrency is used when no currency is configured
const DefaultCurrency = "GBP"

// MaxNameLength is the longest accepted item name
const MaxNameLength = 200

// Field identifies one form input
type Field string

const (
	FieldName       Field = "name"
	FieldLocationID Field = "locationId"
	FieldThemeID    Field = "themeId"
	FieldPrice      Field = "price"
)

// Fields lists the inputs in display order
var Fields = []Field{FieldName, FieldLocationID, FieldThemeID, FieldPrice}

// Field error messages
const (
	ErrNameRequired     = "Name is required"
	ErrNameLength       = "Name must be between 1-200 characters"
	ErrNameUnique       = "Name must be unique"
	ErrLocationRequired = "Location is required"
	ErrThemeRequired    = "Theme is required"
	ErrPricePositive    = "Price must be greater than 0"
)

// Data holds the raw form values
type Data struct {
	Name       string `json:"name"`
	LocationID string `json:"locationId"`
	ThemeID    string `json:"themeId"`
	Price      string `json:"price"`
}

// Get returns the value of field
func (d Data) Get(field Field) string {
	switch field {
	case FieldName:
		return d.Name
	case FieldLocationID:
		return d.LocationID
	case FieldThemeID:
		return d.ThemeID
	case FieldPrice:
		return d.Price
	}
	return ""
}

// With returns a copy of d with field replaced
func (d Data) With(field Field, value string) Data {
	switch field {
	case FieldName:
		d.Name = value
	case FieldLocationID:
		d.LocationID = value
	case FieldThemeID:
		d.ThemeID = value
	case FieldPrice:
		d.Price = value
	}
	return d
}

// Errors maps a field to its validation message. Empty means valid.
type Errors map[Field]string

// ValidationError is returned when form data fails validation
type ValidationError struct {
	Fields Errors
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		fields = append(fields, string(f))
	}
	sort.Strings(fields)

	msgs := make([]string, 0, len(fields))
	for _, f := range fields {
		msgs = append(msgs, f+": "+e.Fields[Field(f)])
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// ValidateName checks presence, length and case-insensitive uniqueness against existing
func ValidateName(name string, existing []string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ErrNameRequired
	}
	if len([]rune(trimmed)) > MaxNameLength {
		return ErrNameLength
	}
	for _, other := range existing {
		if strings.EqualFold(strings.TrimSpace(other), trimmed) {
			return ErrNameUnique
		}
	}
	return ""
}

// ValidateLocation requires a selected location id
func ValidateLocation(id string) string {
	if strings.TrimSpace(id) == "" {
		return ErrLocationRequired
	}
	return ""
}

// ValidateTheme requires a selected theme id
func ValidateTheme(id string) string {
	if strings.TrimSpace(id) == "" {
		return ErrThemeRequired
	}
	return ""
}

// ValidatePrice accepts an empty value or a number greater than zero
func ValidatePrice(price string) string {
	trimmed := strings.TrimSpace(price)
	if trimmed == "" {
		return ""
	}
	amount, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return ErrPricePositive
	}
	return ""
}

// ValidateField runs the validator for one field
func ValidateField(field Field, data Data, existing []string) string {
	switch field {
	case FieldName:
		return ValidateName(data.Name, existing)
	case FieldLocationID:
		return ValidateLocation(data.LocationID)
	case FieldThemeID:
		return ValidateTheme(data.ThemeID)
	case FieldPrice:
		return ValidatePrice(data.Price)
	}
	return ""
}

// Validate checks every field and returns the failures
func Validate(data Data, existing []string) Errors {
	errs := Errors{}
	for _, field := range Fields {
		if msg := ValidateField(field, data, existing); msg != "" {
			errs[field] = msg
		}
	}
	return errs
}

// BuildRequest validates data and converts it into a create request.
// The price object is only included when the price field is non-empty.
func BuildRequest(data Data, existing []string, currency string) (api.CreateDonationItemRequest, error) {
	if errs := Validate(data, existing); len(errs) > 0 {
		return api.CreateDonationItemRequest{}, &ValidationError{Fields: errs}
	}
	if currency == "" {
		currency = DefaultCurrency
	}

	request := api.CreateDonationItemRequest{
		Name:     strings.TrimSpace(data.Name),
		Location: strings.TrimSpace(data.LocationID),
		Theme:    strings.TrimSpace(data.ThemeID),
	}
	if price := strings.TrimSpace(data.Price); price != "" {
		amount, _ := strconv.ParseFloat(price, 64)
		request.Price = &api.PriceInput{
			Amount:       amount,
			CurrencyCode: currency,
		}
	}
	return request, nil
}
