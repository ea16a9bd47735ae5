package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"secularai/internal/models"
)

type PasswordResetRepository interface {
	// Replace keeps at most one live reset request per email.
	Replace(email, code string, expiresAt time.Time) error
	GetByEmailAndCode(email, code string) (*models.PasswordReset, error)
	Delete(id int) error
}

type passwordResetRepository struct {
	DB *sql.DB
}

func NewPasswordResetRepository(db *sql.DB) PasswordResetRepository {
	return &passwordResetRepository{DB: db}
}

func (r *passwordResetRepository) Replace(email, code string, expiresAt time.Time) error {
	tx, err := r.DB.Begin()
	if err != nil {
		return fmt.Errorf("password_reset replace begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM password_resets WHERE email = $1`, email); err != nil {
		return fmt.Errorf("password_reset purge: %w", err)
	}
	if _, err := tx.Exec(
		`INSERT INTO password_resets (email, otp_code, expires_at) VALUES ($1, $2, $3)`,
		email, code, expiresAt,
	); err != nil {
		return fmt.Errorf("password_reset insert: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("password_reset replace commit: %w", err)
	}
	return nil
}

func (r *passwordResetRepository) GetByEmailAndCode(email, code string) (*models.PasswordReset, error) {
	const q = `
		SELECT id, email, otp_code, expires_at
		FROM password_resets
		WHERE email = $1 AND otp_code = $2
		LIMIT 1
	`
	pr := &models.PasswordReset{}
	err := r.DB.QueryRow(q, email, code).Scan(&pr.ID, &pr.Email, &pr.OTPCode, &pr.ExpiresAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("password_reset scan: %w", err)
	}
	return pr, nil
}

func (r *passwordResetRepository) Delete(id int) error {
	_, err := r.DB.Exec(`DELETE FROM password_resets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("password_reset delete: %w", err)
	}
	return nil
}
