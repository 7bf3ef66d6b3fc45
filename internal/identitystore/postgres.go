// Package identitystore provides the PostgreSQL-backed identity store
// collaborator. It owns all credential material: password hashes and
// confirmation-token hashes never leave this package.
package identitystore

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"github.com/brightcart/identity/internal/customer"
	"github.com/brightcart/identity/internal/platform/db"
)

const uniqueViolationCode = "23505"

const tokenBytes = 32

// Postgres implements customer.Store over a pgx connection pool.
type Postgres struct {
	pool     *pgxpool.Pool
	tokenTTL time.Duration
}

// NewPostgres constructs the store. tokenTTL bounds confirmation token
// validity; zero falls back to 24h.
func NewPostgres(pool *pgxpool.Pool, tokenTTL time.Duration) *Postgres {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &Postgres{pool: pool, tokenTTL: tokenTTL}
}

// ExistsByEmail reports whether an identity record exists for the email.
func (p *Postgres) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := p.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM identities WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("identitystore: exists by email: %w", err)
	}
	return exists, nil
}

// FindByEmail returns the identity record for the email, or
// customer.ErrNotFound.
func (p *Postgres) FindByEmail(ctx context.Context, email string) (*customer.Identity, error) {
	return scanIdentity(p.pool.QueryRow(ctx,
		`SELECT id, email, email_confirmed, created_at FROM identities WHERE email = $1`, email))
}

// Begin opens the local transaction the provisioning saga runs under.
func (p *Postgres) Begin(ctx context.Context) (customer.Tx, error) {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("identitystore: begin: %w", err)
	}
	return &pgTx{tx: tx}, nil
}

// VerifyPassword compares the stored bcrypt hash against the candidate.
// Records created without a password never verify.
func (p *Postgres) VerifyPassword(ctx context.Context, email, password string) error {
	var hash *string
	err := p.pool.QueryRow(ctx, `SELECT password_hash FROM identities WHERE email = $1`, email).Scan(&hash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return customer.ErrBadCredentials
		}
		return fmt.Errorf("identitystore: verify password: %w", err)
	}
	if hash == nil {
		return customer.ErrBadCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(*hash), []byte(password)) != nil {
		return customer.ErrBadCredentials
	}
	return nil
}

// GenerateConfirmationToken issues a fresh single-use token for the identity,
// invalidating any previous unused token. The raw token is returned once;
// only its bcrypt hash is stored. URL-safe encoding keeps the token stable
// inside confirmation links.
func (p *Postgres) GenerateConfirmationToken(ctx context.Context, identityID string) (string, error) {
	raw := make([]byte, tokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("identitystore: token entropy: %w", err)
	}
	token := base64.RawURLEncoding.EncodeToString(raw)

	hash, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("identitystore: hash token: %w", err)
	}

	err = db.WithTx(ctx, p.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`UPDATE email_confirmation_tokens SET used_at = NOW() WHERE identity_id = $1 AND used_at IS NULL`,
			identityID); err != nil {
			return fmt.Errorf("identitystore: invalidate tokens: %w", err)
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO email_confirmation_tokens (identity_id, token_hash, expires_at) VALUES ($1, $2, $3)`,
			identityID, string(hash), time.Now().UTC().Add(p.tokenTTL)); err != nil {
			return fmt.Errorf("identitystore: insert token: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return token, nil
}

// ConfirmEmail validates the token against the latest unused, unexpired hash
// for the identity and marks the record confirmed. Tokens are single use.
func (p *Postgres) ConfirmEmail(ctx context.Context, identityID, token string) error {
	return db.WithTx(ctx, p.pool, func(tx pgx.Tx) error {
		var tokenID int64
		var tokenHash string
		err := tx.QueryRow(ctx,
			`SELECT id, token_hash FROM email_confirmation_tokens
			 WHERE identity_id = $1 AND used_at IS NULL AND expires_at > NOW()
			 ORDER BY created_at DESC LIMIT 1`, identityID).Scan(&tokenID, &tokenHash)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return customer.ErrTokenInvalid
			}
			return fmt.Errorf("identitystore: load token: %w", err)
		}
		if bcrypt.CompareHashAndPassword([]byte(tokenHash), []byte(token)) != nil {
			return customer.ErrTokenInvalid
		}
		if _, err := tx.Exec(ctx,
			`UPDATE email_confirmation_tokens SET used_at = NOW() WHERE id = $1`, tokenID); err != nil {
			return fmt.Errorf("identitystore: mark token used: %w", err)
		}
		if _, err := tx.Exec(ctx,
			`UPDATE identities SET email_confirmed = TRUE WHERE id = $1`, identityID); err != nil {
			return fmt.Errorf("identitystore: confirm email: %w", err)
		}
		return nil
	})
}

// DeleteExpiredTokens removes used and expired confirmation tokens. Run
// periodically by the worker.
func (p *Postgres) DeleteExpiredTokens(ctx context.Context) (int64, error) {
	tag, err := p.pool.Exec(ctx,
		`DELETE FROM email_confirmation_tokens WHERE expires_at < NOW() OR used_at IS NOT NULL`)
	if err != nil {
		return 0, fmt.Errorf("identitystore: delete expired tokens: %w", err)
	}
	return tag.RowsAffected(), nil
}

type pgTx struct {
	tx pgx.Tx
}

// CreateRecord inserts a new identity record and returns its assigned ID.
// A unique-constraint violation on email surfaces as customer.ErrEmailTaken
// so racing duplicate requests map to Conflict instead of InternalError.
func (t *pgTx) CreateRecord(ctx context.Context, email, password string) (string, error) {
	id := uuid.NewString()

	var hash *string
	if password != "" {
		h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return "", fmt.Errorf("identitystore: hash password: %w", err)
		}
		s := string(h)
		hash = &s
	}

	_, err := t.tx.Exec(ctx,
		`INSERT INTO identities (id, email, password_hash) VALUES ($1, $2, $3)`, id, email, hash)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return "", customer.ErrEmailTaken
		}
		return "", fmt.Errorf("identitystore: insert identity: %w", err)
	}
	return id, nil
}

func (t *pgTx) FindByID(ctx context.Context, id string) (*customer.Identity, error) {
	return scanIdentity(t.tx.QueryRow(ctx,
		`SELECT id, email, email_confirmed, created_at FROM identities WHERE id = $1`, id))
}

func (t *pgTx) Commit(ctx context.Context) error {
	if err := t.tx.Commit(ctx); err != nil {
		return fmt.Errorf("identitystore: commit: %w", err)
	}
	return nil
}

func (t *pgTx) Rollback(ctx context.Context) error {
	err := t.tx.Rollback(ctx)
	if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return fmt.Errorf("identitystore: rollback: %w", err)
	}
	return nil
}

func scanIdentity(row pgx.Row) (*customer.Identity, error) {
	var rec customer.Identity
	err := row.Scan(&rec.ID, &rec.Email, &rec.EmailConfirmed, &rec.Created)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, customer.ErrNotFound
		}
		return nil, fmt.Errorf("identitystore: scan identity: %w", err)
	}
	return &rec, nil
}
