package customer

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound indicates no identity record exists for the given key.
	ErrNotFound = errors.New("identity not found")
	// ErrEmailTaken indicates the email uniqueness constraint rejected an insert.
	ErrEmailTaken = errors.New("email already registered")
	// ErrTokenInvalid indicates a confirmation token failed verification.
	ErrTokenInvalid = errors.New("confirmation token invalid")
	// ErrBadCredentials indicates password verification failed.
	ErrBadCredentials = errors.New("credentials do not match")
)

// Identity is the stored authentication record for one customer. Credential
// material stays inside the store and is never exposed here.
type Identity struct {
	ID             string
	Email          string
	EmailConfirmed bool
	Created        time.Time
}

// Store is the identity store collaborator. It is the single source of truth
// for account existence and owns all credential material.
type Store interface {
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	FindByEmail(ctx context.Context, email string) (*Identity, error)
	// GenerateConfirmationToken returns a URL-safe single-use token that is
	// embedded verbatim in confirmation links and validated by ConfirmEmail.
	GenerateConfirmationToken(ctx context.Context, identityID string) (string, error)
	ConfirmEmail(ctx context.Context, identityID, token string) error
	VerifyPassword(ctx context.Context, email, password string) error
	Begin(ctx context.Context) (Tx, error)
}

// Tx scopes identity writes to a single transaction so a failed remote
// profile call can undo the local insert.
type Tx interface {
	CreateRecord(ctx context.Context, email, password string) (string, error)
	FindByID(ctx context.Context, id string) (*Identity, error)
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// ProfileRequest is the logical request sent to the remote profile service.
type ProfileRequest struct {
	UserID        string `json:"userId"`
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	Email         string `json:"email"`
	PhoneNumber   string `json:"phoneNumber"`
	StreetAddress string `json:"streetAddress"`
	PostalCode    string `json:"postalCode"`
	City          string `json:"city"`
}

// ProfileCreator is the remote profile collaborator. The call is all or
// nothing: transport errors and succeeded=false are the same failure.
type ProfileCreator interface {
	CreateProfile(ctx context.Context, req ProfileRequest) (bool, error)
}

// Notifier delivers the confirmation token to the customer out of band.
// Delivery is best effort and never changes an operation result.
type Notifier interface {
	SendConfirmationEmail(ctx context.Context, email, token string) error
}
