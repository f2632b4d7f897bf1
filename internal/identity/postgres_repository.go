package identity

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/crbuilding/server/internal/config"
)

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db     *sql.DB
	ownsDB bool
}

const queryTimeout = 5 * time.Second

// NewPostgresRepository creates a PostgreSQL-backed user repository.
func NewPostgresRepository(connectionString string, poolConfig config.PostgresPoolConfig) (*PostgresRepository, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("open postgres connection: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	config.ApplyPostgresPoolSettings(db, poolConfig)

	return &PostgresRepository{db: db, ownsDB: true}, nil
}

// NewPostgresRepositoryWithDB creates a repository sharing an existing connection pool.
func NewPostgresRepositoryWithDB(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db, ownsDB: false}
}

// FindByEmail retrieves a user by normalized email.
func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	const query = `
		SELECT id, name, email, password_hash, verified,
		       COALESCE(otp, ''), COALESCE(otp_expires, 'epoch'::timestamptz),
		       COALESCE(verification_token, ''), COALESCE(token_expires, 'epoch'::timestamptz),
		       created_at, updated_at
		FROM users
		WHERE email = $1`

	var user User
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.Verified,
		&user.OTP, &user.OTPExpires, &user.VerificationToken, &user.TokenExpires,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return User{}, ErrUserNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("query user: %w", err)
	}
	return user, nil
}

// Upsert replaces the account stored under user.Email, creating it if absent.
func (r *PostgresRepository) Upsert(ctx context.Context, user User) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	const query = `
		INSERT INTO users (id, name, email, password_hash, verified, otp, otp_expires,
		                   verification_token, token_expires, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, NULLIF($8, ''), $9, $10, $11)
		ON CONFLICT (email) DO UPDATE SET
			id = EXCLUDED.id,
			name = EXCLUDED.name,
			password_hash = EXCLUDED.password_hash,
			verified = EXCLUDED.verified,
			otp = EXCLUDED.otp,
			otp_expires = EXCLUDED.otp_expires,
			verification_token = EXCLUDED.verification_token,
			token_expires = EXCLUDED.token_expires,
			updated_at = EXCLUDED.updated_at`

	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Name, user.Email, user.PasswordHash, user.Verified,
		user.OTP, nullableTime(user.OTPExpires), user.VerificationToken, nullableTime(user.TokenExpires),
		user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	return nil
}

// Update rewrites an existing account.
func (r *PostgresRepository) Update(ctx context.Context, user User) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	const query = `
		UPDATE users SET
			name = $2,
			password_hash = $3,
			verified = $4,
			otp = NULLIF($5, ''),
			otp_expires = $6,
			verification_token = NULLIF($7, ''),
			token_expires = $8,
			updated_at = $9
		WHERE email = $1`

	result, err := r.db.ExecContext(ctx, query,
		user.Email, user.Name, user.PasswordHash, user.Verified,
		user.OTP, nullableTime(user.OTPExpires), user.VerificationToken, nullableTime(user.TokenExpires),
		user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// Close closes the connection pool if this repository owns it.
func (r *PostgresRepository) Close() error {
	if r.ownsDB {
		return r.db.Close()
	}
	return nil
}

// nullableTime maps zero times to NULL so expiry checks stay unambiguous.
func nullableTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t, Valid: true}
}
