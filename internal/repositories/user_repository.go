package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"secularai/internal/models"
)

// ErrDuplicate marks a uniqueness violation on identity fields.
var ErrDuplicate = errors.New("duplicate identity")

type UserRepository interface {
	GetByUsername(username string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	// CreateFromPending promotes a pending registration in one
	// transaction: insert the account, delete the pending row.
	CreateFromPending(p *models.PendingUser) (*models.User, error)
	UpdatePassword(userID int, passwordHash string) error
}

type userRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{DB: db}
}

const userColumns = `id, username, email, COALESCE(full_name, ''), password_hash, created_at`

func scanUser(row *sql.Row) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.FullName, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("user scan: %w", err)
	}
	return u, nil
}

func (r *userRepository) GetByUsername(username string) (*models.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return scanUser(r.DB.QueryRow(q, username))
}

func (r *userRepository) GetByEmail(email string) (*models.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.DB.QueryRow(q, email))
}

func (r *userRepository) CreateFromPending(p *models.PendingUser) (*models.User, error) {
	tx, err := r.DB.Begin()
	if err != nil {
		return nil, fmt.Errorf("user promote begin: %w", err)
	}
	defer tx.Rollback()

	u := &models.User{
		Username:     p.Username,
		Email:        p.Email,
		FullName:     p.FullName,
		PasswordHash: p.PasswordHash,
	}
	const ins = `
		INSERT INTO users (username, email, full_name, password_hash)
		VALUES ($1, $2, NULLIF($3, ''), $4)
		RETURNING id, created_at
	`
	if err := tx.QueryRow(ins, p.Username, p.Email, p.FullName, p.PasswordHash).Scan(&u.ID, &u.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("user promote insert: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM pending_users WHERE id = $1`, p.ID); err != nil {
		return nil, fmt.Errorf("user promote cleanup: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("user promote commit: %w", err)
	}
	return u, nil
}

func (r *userRepository) UpdatePassword(userID int, passwordHash string) error {
	_, err := r.DB.Exec(`UPDATE users SET password_hash = $1 WHERE id = $2`, passwordHash, userID)
	if err != nil {
		return fmt.Errorf("user update password: %w", err)
	}
	return nil
}

// 23505 = unique_violation
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
