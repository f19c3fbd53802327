package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/avelaro/shortly/internal/account"
	"github.com/avelaro/shortly/internal/shortlink"
	"github.com/avelaro/shortly/internal/verification"
)

// uniqueViolation is the Postgres error code for unique constraint failures.
const uniqueViolation = "23505"

func constraintViolated(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return pgErr.ConstraintName == constraint
	}

	return false
}

// PostgresAccountStore is a pgx implementation of account.Repository.
type PostgresAccountStore struct {
	pool *pgxpool.Pool
}

// NewPostgresAccountStore creates a Postgres-backed account store.
func NewPostgresAccountStore(pool *pgxpool.Pool) *PostgresAccountStore {
	return &PostgresAccountStore{pool: pool}
}

func (p *PostgresAccountStore) Create(ctx context.Context, a *account.Account) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}

	query := `
		INSERT INTO accounts (id, first_name, last_name, email, username, password_hash, email_verified)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := p.pool.Exec(ctx, query,
		a.ID, a.FirstName, a.LastName, a.Email, a.Username, a.PasswordHash, a.EmailVerified,
	)
	if err != nil {
		switch {
		case constraintViolated(err, "accounts_email_key"):
			return account.ErrEmailTaken
		case constraintViolated(err, "accounts_username_key"):
			return account.ErrUsernameTaken
		}

		return err
	}

	return nil
}

func (p *PostgresAccountStore) GetByEmail(ctx context.Context, email string) (*account.Account, error) {
	return p.getBy(ctx, "email", email)
}

func (p *PostgresAccountStore) GetByUsername(ctx context.Context, username string) (*account.Account, error) {
	return p.getBy(ctx, "username", username)
}

func (p *PostgresAccountStore) getBy(ctx context.Context, column, value string) (*account.Account, error) {
	query := `
		SELECT id, first_name, last_name, email, username, password_hash, email_verified
		FROM accounts
		WHERE ` + column + ` = $1
	`

	var a account.Account

	err := p.pool.QueryRow(ctx, query, value).Scan(
		&a.ID, &a.FirstName, &a.LastName, &a.Email, &a.Username, &a.PasswordHash, &a.EmailVerified,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, account.ErrNotFound
		}

		return nil, err
	}

	return &a, nil
}

func (p *PostgresAccountStore) SetEmailVerified(ctx context.Context, email string) error {
	tag, err := p.pool.Exec(ctx, `UPDATE accounts SET email_verified = TRUE WHERE email = $1`, email)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return account.ErrNotFound
	}

	return nil
}

func (p *PostgresAccountStore) Delete(ctx context.Context, id string) error {
	// Owned short links go with the account via ON DELETE CASCADE.
	_, err := p.pool.Exec(ctx, `DELETE FROM accounts WHERE id = $1`, id)

	return err
}

var _ account.Repository = (*PostgresAccountStore)(nil)

// PostgresVerificationStore is a pgx implementation of
// verification.Repository.
type PostgresVerificationStore struct {
	pool *pgxpool.Pool
}

// NewPostgresVerificationStore creates a Postgres-backed verification store.
func NewPostgresVerificationStore(pool *pgxpool.Pool) *PostgresVerificationStore {
	return &PostgresVerificationStore{pool: pool}
}

func (p *PostgresVerificationStore) GetByEmail(ctx context.Context, email string) (*verification.Request, error) {
	return p.getBy(ctx, "email", email)
}

func (p *PostgresVerificationStore) GetByToken(ctx context.Context, token string) (*verification.Request, error) {
	return p.getBy(ctx, "token", token)
}

func (p *PostgresVerificationStore) getBy(ctx context.Context, column, value string) (*verification.Request, error) {
	query := `
		SELECT email, token, issued_at
		FROM email_verifications
		WHERE ` + column + ` = $1
	`

	var req verification.Request

	err := p.pool.QueryRow(ctx, query, value).Scan(&req.Email, &req.Token, &req.IssuedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, verification.ErrNotFound
		}

		return nil, err
	}

	return &req, nil
}

func (p *PostgresVerificationStore) Upsert(ctx context.Context, req *verification.Request) error {
	query := `
		INSERT INTO email_verifications (email, token, issued_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO UPDATE SET token = EXCLUDED.token, issued_at = EXCLUDED.issued_at
	`

	_, err := p.pool.Exec(ctx, query, req.Email, req.Token, req.IssuedAt)

	return err
}

func (p *PostgresVerificationStore) DeleteByEmail(ctx context.Context, email string) error {
	_, err := p.pool.Exec(ctx, `DELETE FROM email_verifications WHERE email = $1`, email)

	return err
}

var _ verification.Repository = (*PostgresVerificationStore)(nil)

// PostgresLinkStore is a pgx implementation of shortlink.Repository.
type PostgresLinkStore struct {
	pool *pgxpool.Pool
}

// NewPostgresLinkStore creates a Postgres-backed short link store.
func NewPostgresLinkStore(pool *pgxpool.Pool) *PostgresLinkStore {
	return &PostgresLinkStore{pool: pool}
}

func (p *PostgresLinkStore) Create(ctx context.Context, link *shortlink.ShortLink) error {
	query := `
		INSERT INTO short_links (code, long_url, short_url, owner_id)
		VALUES ($1, $2, $3, $4)
	`

	_, err := p.pool.Exec(ctx, query, link.Code, link.LongURL, link.ShortURL, link.OwnerID)
	if err != nil {
		switch {
		case constraintViolated(err, "short_links_pkey"):
			return shortlink.ErrCodeExists
		case constraintViolated(err, "short_links_long_url_owner_id_key"):
			return shortlink.ErrDuplicateURL
		}

		return err
	}

	return nil
}

func (p *PostgresLinkStore) GetByLongURL(ctx context.Context, longURL, ownerID string) (*shortlink.ShortLink, error) {
	query := `
		SELECT code, long_url, short_url, owner_id
		FROM short_links
		WHERE long_url = $1 AND owner_id = $2
	`

	return p.scanOne(p.pool.QueryRow(ctx, query, longURL, ownerID))
}

func (p *PostgresLinkStore) GetByCode(ctx context.Context, code, ownerID string) (*shortlink.ShortLink, error) {
	query := `
		SELECT code, long_url, short_url, owner_id
		FROM short_links
		WHERE code = $1 AND owner_id = $2
	`

	return p.scanOne(p.pool.QueryRow(ctx, query, code, ownerID))
}

func (p *PostgresLinkStore) scanOne(row pgx.Row) (*shortlink.ShortLink, error) {
	var link shortlink.ShortLink

	err := row.Scan(&link.Code, &link.LongURL, &link.ShortURL, &link.OwnerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shortlink.ErrNotFound
		}

		return nil, err
	}

	return &link, nil
}

func (p *PostgresLinkStore) ListByOwner(ctx context.Context, ownerID string) ([]shortlink.ShortLink, error) {
	query := `
		SELECT code, long_url, short_url, owner_id
		FROM short_links
		WHERE owner_id = $1
		ORDER BY code
	`

	rows, err := p.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []shortlink.ShortLink

	for rows.Next() {
		var link shortlink.ShortLink

		if err := rows.Scan(&link.Code, &link.LongURL, &link.ShortURL, &link.OwnerID); err != nil {
			return nil, err
		}

		links = append(links, link)
	}

	return links, rows.Err()
}

func (p *PostgresLinkStore) DeleteByCode(ctx context.Context, code, ownerID string) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM short_links WHERE code = $1 AND owner_id = $2`, code, ownerID)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return shortlink.ErrNotFound
	}

	return nil
}

func (p *PostgresLinkStore) Resolve(ctx context.Context, code string) (string, error) {
	var longURL string

	err := p.pool.QueryRow(ctx, `SELECT long_url FROM short_links WHERE code = $1`, code).Scan(&longURL)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", shortlink.ErrNotFound
		}

		return "", err
	}

	return longURL, nil
}

var _ shortlink.Repository = (*PostgresLinkStore)(nil)
