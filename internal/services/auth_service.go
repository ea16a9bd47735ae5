package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"secularai/internal/models"
	"secularai/internal/repositories"
	"secularai/internal/utils"
)

const (
	registrationCodeTTL = 3 * time.Minute
	resetCodeTTL        = 5 * time.Minute
)

// AuthService drives the identity-verification state machine:
// registration -> one-time code -> account, and the password-reset loop.
type AuthService interface {
	Register(req *models.RegisterRequest) error
	VerifyOTP(email, code string) error
	ResendVerification(email string) error
	// Login resolves the account and checks the password. Token
	// issuance stays in the handler layer.
	Login(identifier, password string) (*models.User, error)
	GetUserByUsername(username string) (*models.User, error)
	ForgotPassword(email string) error
	ResetPassword(email, code, newPassword string) error
}

type authService struct {
	users   repositories.UserRepository
	pending repositories.PendingUserRepository
	resets  repositories.PasswordResetRepository
	emails  EmailService
}

func NewAuthService(
	users repositories.UserRepository,
	pending repositories.PendingUserRepository,
	resets repositories.PasswordResetRepository,
	emails EmailService,
) AuthService {
	return &authService{
		users:   users,
		pending: pending,
		resets:  resets,
		emails:  emails,
	}
}

// dispatchCode fires the delivery gateway after the triggering row is
// already committed. Failures are logged and swallowed: the code can
// always be resent.
func (s *authService) dispatchCode(email, code string) {
	if s.emails == nil {
		return
	}
	go func() {
		if err := s.emails.SendOTP(email, code); err != nil {
			log.Printf("[auth][email] failed to send code to %s: %v", email, err)
		}
	}()
}

func (s *authService) Register(req *models.RegisterRequest) error {
	email := strings.TrimSpace(strings.ToLower(req.Email))
	username := strings.TrimSpace(req.Username)
	if email == "" || username == "" || req.Password == "" {
		return fmt.Errorf("username, email and password are required")
	}

	if u, err := s.users.GetByEmail(email); err != nil {
		return err
	} else if u != nil {
		return ErrEmailTaken
	}
	if u, err := s.users.GetByUsername(username); err != nil {
		return err
	} else if u != nil {
		return ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	code := utils.GenerateOTP()
	p := &models.PendingUser{
		Username:     username,
		Email:        email,
		FullName:     strings.TrimSpace(req.FullName),
		PasswordHash: string(hash),
		OTPCode:      code,
		ExpiresAt:    time.Now().Add(registrationCodeTTL),
	}
	// purges any stale pending rows for this email or username
	if err := s.pending.Replace(p); err != nil {
		return err
	}

	s.dispatchCode(email, code)
	log.Printf("[auth][register] pending created email=%s expires=%s", email, p.ExpiresAt.Format(time.RFC3339))
	return nil
}

func (s *authService) VerifyOTP(email, code string) error {
	email = strings.TrimSpace(strings.ToLower(email))
	p, err := s.pending.GetByEmailAndCode(email, strings.TrimSpace(code))
	if err != nil {
		return err
	}
	if p == nil {
		return ErrInvalidCode
	}
	if time.Now().After(p.ExpiresAt) {
		// no resurrection: the caller must register again
		if err := s.pending.Delete(p.ID); err != nil {
			log.Printf("[auth][verify] delete expired pending id=%d: %v", p.ID, err)
		}
		return ErrCodeExpired
	}

	if _, err := s.users.CreateFromPending(p); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			// lost a race with a concurrent registration
			return ErrAccountExists
		}
		return err
	}
	log.Printf("[auth][verify] account created email=%s username=%s", p.Email, p.Username)
	return nil
}

func (s *authService) ResendVerification(email string) error {
	email = strings.TrimSpace(strings.ToLower(email))
	p, err := s.pending.GetByEmail(email)
	if err != nil {
		return err
	}
	if p == nil {
		return ErrNoPending
	}

	code := utils.GenerateOTP()
	if err := s.pending.UpdateCode(p.ID, code, time.Now().Add(registrationCodeTTL)); err != nil {
		return err
	}
	s.dispatchCode(email, code)
	return nil
}

func (s *authService) Login(identifier, password string) (*models.User, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return nil, ErrBadCredentials
	}

	// an unverified registration blocks login outright, regardless of
	// the supplied password
	if p, err := s.pending.GetByIdentifier(identifier); err != nil {
		return nil, err
	} else if p != nil {
		return nil, ErrNotVerified
	}

	user, err := s.users.GetByUsername(identifier)
	if err != nil {
		return nil, err
	}
	if user == nil {
		user, err = s.users.GetByEmail(strings.ToLower(identifier))
		if err != nil {
			return nil, err
		}
	}
	if user == nil {
		return nil, ErrBadCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrBadCredentials
	}
	log.Printf("[auth][login] success username=%s", user.Username)
	return user, nil
}

func (s *authService) GetUserByUsername(username string) (*models.User, error) {
	return s.users.GetByUsername(username)
}

func (s *authService) ForgotPassword(email string) error {
	email = strings.TrimSpace(strings.ToLower(email))
	user, err := s.users.GetByEmail(email)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrNoAccount
	}

	code := utils.GenerateOTP()
	if err := s.resets.Replace(email, code, time.Now().Add(resetCodeTTL)); err != nil {
		return err
	}
	s.dispatchCode(email, code)
	log.Printf("[auth][forgot] reset code issued email=%s", email)
	return nil
}

func (s *authService) ResetPassword(email, code, newPassword string) error {
	email = strings.TrimSpace(strings.ToLower(email))
	if strings.TrimSpace(newPassword) == "" {
		return fmt.Errorf("new password is required")
	}

	// wrong code and expired code are deliberately indistinguishable here
	pr, err := s.resets.GetByEmailAndCode(email, strings.TrimSpace(code))
	if err != nil {
		return err
	}
	if pr == nil || time.Now().After(pr.ExpiresAt) {
		return ErrResetInvalid
	}

	user, err := s.users.GetByEmail(email)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrNoAccount
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.UpdatePassword(user.ID, string(hash)); err != nil {
		return err
	}
	if err := s.resets.Delete(pr.ID); err != nil {
		log.Printf("[auth][reset] delete used reset id=%d: %v", pr.ID, err)
	}
	log.Printf("[auth][reset] password updated email=%s", email)
	return nil
}
