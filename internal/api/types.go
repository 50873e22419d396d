package api

// Status is the workflow state of a donation item
type Status struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Location is where a donation item is delivered
type Location struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Theme groups donation items by cause
type Theme struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Price is a monetary amount with the server's display text
type Price struct {
	Amount       float64 `json:"amount"`
	CurrencyCode string  `json:"currencyCode"`
	Text         string  `json:"text,omitempty"`
}

// ReferenceType identifies the external system an item is linked to
type ReferenceType struct {
	ID string `json:"id"`
}

// Reference links a donation item to an external system
type Reference struct {
	Type ReferenceType `json:"type"`
}

// DonationItem represents a donation item from the API
type DonationItem struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Reference *Reference `json:"reference,omitempty"`
	Price     *Price     `json:"price,omitempty"`
	Status    Status     `json:"status"`
	Location  *Location  `json:"location,omitempty"`
	Theme     *Theme     `json:"theme,omitempty"`
}

// ReferenceID returns the external reference or "" when the item has none
func (d DonationItem) ReferenceID() string {
	if d.Reference == nil {
		return ""
	}
	return d.Reference.Type.ID
}

// LocationName returns the location display name or ""
func (d DonationItem) LocationName() string {
	if d.Location == nil {
		return ""
	}
	return d.Location.Name
}

// ThemeName returns the theme display name or ""
func (d DonationItem) ThemeName() string {
	if d.Theme == nil {
		return ""
	}
	return d.Theme.Name
}

// PriceInput is the price part of a create request. The server fills in the text.
type PriceInput struct {
	Amount       float64 `json:"amount"`
	CurrencyCode string  `json:"currencyCode"`
}

// CreateDonationItemRequest represents a request to create a donation item
type CreateDonationItemRequest struct {
	Name     string      `json:"name"`
	Location string      `json:"location"`
	Theme    string      `json:"theme"`
	Price    *PriceInput `json:"price,omitempty"`
}
