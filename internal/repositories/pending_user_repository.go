package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"secularai/internal/models"
)

type PendingUserRepository interface {
	// Replace purges any pending rows for the same email or username
	// and inserts the new one, atomically.
	Replace(p *models.PendingUser) error
	GetByEmail(email string) (*models.PendingUser, error)
	GetByEmailAndCode(email, code string) (*models.PendingUser, error)
	// GetByIdentifier matches either username or email; used by login
	// to detect unverified accounts.
	GetByIdentifier(identifier string) (*models.PendingUser, error)
	UpdateCode(id int, code string, expiresAt time.Time) error
	Delete(id int) error
}

type pendingUserRepository struct {
	DB *sql.DB
}

func NewPendingUserRepository(db *sql.DB) PendingUserRepository {
	return &pendingUserRepository{DB: db}
}

const pendingColumns = `id, username, email, COALESCE(full_name, ''), password_hash, otp_code, expires_at`

func scanPending(row *sql.Row) (*models.PendingUser, error) {
	p := &models.PendingUser{}
	err := row.Scan(&p.ID, &p.Username, &p.Email, &p.FullName, &p.PasswordHash, &p.OTPCode, &p.ExpiresAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("pending_user scan: %w", err)
	}
	return p, nil
}

func (r *pendingUserRepository) Replace(p *models.PendingUser) error {
	tx, err := r.DB.Begin()
	if err != nil {
		return fmt.Errorf("pending_user replace begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM pending_users WHERE email = $1 OR username = $2`, p.Email, p.Username); err != nil {
		return fmt.Errorf("pending_user purge: %w", err)
	}
	const ins = `
		INSERT INTO pending_users (username, email, full_name, password_hash, otp_code, expires_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6)
		RETURNING id
	`
	if err := tx.QueryRow(ins, p.Username, p.Email, p.FullName, p.PasswordHash, p.OTPCode, p.ExpiresAt).Scan(&p.ID); err != nil {
		return fmt.Errorf("pending_user insert: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("pending_user replace commit: %w", err)
	}
	return nil
}

func (r *pendingUserRepository) GetByEmail(email string) (*models.PendingUser, error) {
	q := `SELECT ` + pendingColumns + ` FROM pending_users WHERE email = $1 LIMIT 1`
	return scanPending(r.DB.QueryRow(q, email))
}

func (r *pendingUserRepository) GetByEmailAndCode(email, code string) (*models.PendingUser, error) {
	q := `SELECT ` + pendingColumns + ` FROM pending_users WHERE email = $1 AND otp_code = $2 LIMIT 1`
	return scanPending(r.DB.QueryRow(q, email, code))
}

func (r *pendingUserRepository) GetByIdentifier(identifier string) (*models.PendingUser, error) {
	q := `SELECT ` + pendingColumns + ` FROM pending_users WHERE username = $1 OR email = $1 LIMIT 1`
	return scanPending(r.DB.QueryRow(q, identifier))
}

func (r *pendingUserRepository) UpdateCode(id int, code string, expiresAt time.Time) error {
	_, err := r.DB.Exec(`UPDATE pending_users SET otp_code = $1, expires_at = $2 WHERE id = $3`, code, expiresAt, id)
	if err != nil {
		return fmt.Errorf("pending_user update code: %w", err)
	}
	return nil
}

func (r *pendingUserRepository) Delete(id int) error {
	_, err := r.DB.Exec(`DELETE FROM pending_users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pending_user delete: %w", err)
	}
	return nil
}
