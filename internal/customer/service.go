package customer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/brightcart/identity/internal/platform/result"
)

const msgEmailTaken = "Customer with given email adress already exists."

// Service orchestrates the provisioning saga and the credential flows. It
// holds no state of its own; all persistence goes through the injected store.
type Service struct {
	logger   *slog.Logger
	store    Store
	profiles ProfileCreator
	notifier Notifier
}

// NewService constructs a Service. notifier may be nil when confirmation
// emails are not dispatched.
func NewService(logger *slog.Logger, store Store, profiles ProfileCreator, notifier Notifier) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger, store: store, profiles: profiles, notifier: notifier}
}

// provisionOptions selects which optional steps of the saga run. The three
// public create operations differ only in this configuration.
type provisionOptions struct {
	op         string
	password   string
	profile    *CreateCustomerRequest
	issueToken bool
}

// CreateCustomer provisions an identity record plus a remote profile, without
// credentials. Used by internal flows that set a password later.
func (s *Service) CreateCustomer(ctx context.Context, req *CreateCustomerRequest) result.Result[*Customer] {
	if req == nil {
		return result.BadRequest[*Customer]("Request cannot be null.")
	}
	return s.provision(ctx, req.Email, provisionOptions{op: "CreateCustomer", profile: req})
}

// CreateCustomerWithPassword provisions an identity record with credentials
// plus a remote profile.
func (s *Service) CreateCustomerWithPassword(ctx context.Context, req *CreateCustomerRequest, password string) result.Result[*Customer] {
	if req == nil {
		return result.BadRequest[*Customer]("Request cannot be null.")
	}
	return s.provision(ctx, req.Email, provisionOptions{op: "CreateCustomerWithPassword", password: password, profile: req})
}

// CreateCustomerWithPasswordWithoutProfile provisions an identity record with
// credentials only and issues an email confirmation token for it.
func (s *Service) CreateCustomerWithPasswordWithoutProfile(ctx context.Context, email, password string) result.Result[*Customer] {
	if strings.TrimSpace(email) == "" || strings.TrimSpace(password) == "" {
		return result.BadRequest[*Customer]("Parameters cannot be null.")
	}
	return s.provision(ctx, email, provisionOptions{op: "CreateCustomerWithPasswordWithoutProfile", password: password, issueToken: true})
}

// provision runs the shared saga protocol: duplicate check, transactional
// identity insert, optional remote profile creation with rollback on failure,
// commit, optional confirmation token issuance. The identity record and the
// profile record live in independent stores; the local transaction held open
// across the remote call is what makes the pair appear atomic to the caller.
// A commit failure after a successful remote call can still leave an orphaned
// profile behind; that residual window is the profile service's to reconcile.
func (s *Service) provision(ctx context.Context, email string, opts provisionOptions) result.Result[*Customer] {
	email = normalizeEmail(email)

	exists, err := s.store.ExistsByEmail(ctx, email)
	if err != nil {
		s.logger.Error("existence check failed", slog.String("op", opts.op), slog.Any("error", err))
		return s.opError(opts.op)
	}
	if exists {
		return result.AlreadyExists[*Customer](msgEmailTaken)
	}

	tx, err := s.store.Begin(ctx)
	if err != nil {
		s.logger.Error("begin tx failed", slog.String("op", opts.op), slog.Any("error", err))
		return s.opError(opts.op)
	}

	id, err := tx.CreateRecord(ctx, email, opts.password)
	if err != nil {
		s.rollback(ctx, tx, opts.op)
		if errors.Is(err, ErrEmailTaken) {
			// A racing request won the insert; the unique constraint is the
			// real guard, the pre-check above is only the fast path.
			return result.AlreadyExists[*Customer](msgEmailTaken)
		}
		s.logger.Error("create identity failed", slog.String("op", opts.op), slog.Any("error", err))
		return result.InternalServerError[*Customer](fmt.Sprintf("Failed creating customer with email %s. Rolling back.", email))
	}

	rec, err := tx.FindByID(ctx, id)
	if err != nil {
		s.rollback(ctx, tx, opts.op)
		s.logger.Error("read back identity failed", slog.String("op", opts.op), slog.Any("error", err))
		return result.InternalServerError[*Customer]("Failed retrieving customer entity after creation. Rolling back.")
	}

	if opts.profile != nil {
		ok, err := s.profiles.CreateProfile(ctx, ProfileRequest{
			UserID:        rec.ID,
			FirstName:     opts.profile.FirstName,
			LastName:      opts.profile.LastName,
			Email:         email,
			PhoneNumber:   opts.profile.PhoneNumber,
			StreetAddress: opts.profile.StreetAddress,
			PostalCode:    opts.profile.PostalCode,
			City:          opts.profile.City,
		})
		if err != nil || !ok {
			s.rollback(ctx, tx, opts.op)
			s.logger.Error("remote profile creation failed", slog.String("op", opts.op), slog.Any("error", err))
			return result.InternalServerError[*Customer]("Failed creating customer profile. Rolling back.")
		}
	}

	if err := tx.Commit(ctx); err != nil {
		s.rollback(ctx, tx, opts.op)
		s.logger.Error("commit failed", slog.String("op", opts.op), slog.Any("error", err))
		return s.opError(opts.op)
	}

	cust := &Customer{ID: rec.ID, Email: rec.Email, Created: rec.Created}

	if opts.issueToken {
		token, err := s.store.GenerateConfirmationToken(ctx, rec.ID)
		if err != nil {
			// The record is already committed at this point; the caller gets
			// an error and can request a fresh token through support flows.
			s.logger.Error("issue confirmation token failed", slog.String("op", opts.op), slog.Any("error", err))
			return s.opError(opts.op)
		}
		cust.ConfirmEmailToken = token

		if s.notifier != nil {
			if err := s.notifier.SendConfirmationEmail(ctx, rec.Email, token); err != nil {
				s.logger.Warn("confirmation email dispatch failed", slog.String("email", rec.Email), slog.Any("error", err))
			}
		}
	}

	return result.Created(cust)
}

// ValidateEmailToken checks a previously issued confirmation token and marks
// the record confirmed on success.
func (s *Service) ValidateEmailToken(ctx context.Context, email, token string) result.Result[bool] {
	email = normalizeEmail(email)

	rec, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return result.NotFound[bool](fmt.Sprintf("Customer with email %s not found.", email))
		}
		s.logger.Error("find by email failed", slog.String("op", "ValidateEmailToken"), slog.Any("error", err))
		return result.InternalServerError[bool]("Unexpected error occurred in ValidateEmailToken.")
	}

	if err := s.store.ConfirmEmail(ctx, rec.ID, token); err != nil {
		return result.Unauthorized[bool]("Token failed validation.")
	}
	return result.Ok(true)
}

// Login verifies credentials and returns session data for the token issuer.
// Every failure path returns the same message so callers cannot probe which
// emails are registered.
func (s *Service) Login(ctx context.Context, email, password string) result.Result[*AuthData] {
	email = normalizeEmail(email)

	if err := s.store.VerifyPassword(ctx, email, password); err != nil {
		return result.Unauthorized[*AuthData]("Customer authentication failed.")
	}

	rec, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		return result.Unauthorized[*AuthData]("Customer authentication failed.")
	}
	return result.Ok(&AuthData{UserID: rec.ID, EmailConfirmed: rec.EmailConfirmed})
}

func (s *Service) rollback(ctx context.Context, tx Tx, op string) {
	if err := tx.Rollback(ctx); err != nil {
		s.logger.Warn("rollback failed", slog.String("op", op), slog.Any("error", err))
	}
}

func (s *Service) opError(op string) result.Result[*Customer] {
	return result.InternalServerError[*Customer](fmt.Sprintf("Unexpected error occurred in %s.", op))
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
