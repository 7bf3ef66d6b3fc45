// Package customer implements customer identity provisioning: account
// creation coordinated with the remote profile service, email confirmation,
// and password login.
package customer

import "time"

// Customer is the public summary of a provisioned identity record.
type Customer struct {
	ID                string    `json:"id"`
	Email             string    `json:"email"`
	Created           time.Time `json:"created"`
	ConfirmEmailToken string    `json:"confirmEmailToken,omitempty"`
}

// AuthData is the transient outcome of a successful login, consumed by the
// token-issuing layer upstream.
type AuthData struct {
	UserID         string `json:"userId"`
	EmailConfirmed bool   `json:"emailConfirmed"`
}

// CreateCustomerRequest carries the provisioning input for the variants that
// create a remote profile alongside the identity record.
type CreateCustomerRequest struct {
	Email         string `json:"email"`
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	PhoneNumber   string `json:"phoneNumber"`
	StreetAddress string `json:"streetAddress"`
	PostalCode    string `json:"postalCode"`
	City          string `json:"city"`
}
