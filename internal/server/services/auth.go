// Package services contains server-side business logic. This file implements
// AuthService, which handles registration, email verification codes, login
// and session token issuance.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sarkie/sarkie-backend/internal/common"
	"github.com/sarkie/sarkie-backend/internal/dbx"
	"github.com/sarkie/sarkie-backend/internal/logging"
	"github.com/sarkie/sarkie-backend/internal/server/auth"
	"github.com/sarkie/sarkie-backend/internal/server/config"
	"github.com/sarkie/sarkie-backend/internal/server/mailer"
	"github.com/sarkie/sarkie-backend/internal/server/models"
	"github.com/sarkie/sarkie-backend/internal/server/repositories/repomanager"
)

const (
	verificationCodeDigits  = 6
	verificationMailSubject = "Your Verification Code"
)

// LoginResult is returned on successful login.
type LoginResult struct {
	User  *models.User
	Token string
}

type AuthService struct {
	db                          *sql.DB
	repomanager                 repomanager.RepositoryManager
	mailer                      mailer.Sender
	logger                      logging.Logger
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
	verificationCodeTTL         time.Duration
	mailFrom                    string
	now                         func() time.Time
	generateCode                func(digits int) (string, error)
}

func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, sender mailer.Sender, cfg *config.Config, logger logging.Logger) *AuthService {
	return &AuthService{
		db:                          db,
		repomanager:                 m,
		mailer:                      sender,
		logger:                      logger,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
		verificationCodeTTL:         cfg.VerificationCodeTTL,
		mailFrom:                    cfg.Sender(),
		now:                         time.Now,
		generateCode:                common.GenerateNumericCode,
	}
}

// WithClock replaces the time source used for code expiry.
func (s *AuthService) WithClock(now func() time.Time) *AuthService {
	s.now = now
	return s
}

// Register creates an unverified account. No verification code is sent.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return nil, common.NewValidationError("All fields are required.")
	}

	repo := s.repomanager.Users(s.db)
	if _, err := repo.GetByEmail(ctx, email); err == nil {
		return nil, common.ErrUserExists
	} else if !errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("error searching user: %w", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	u, err := repo.Create(ctx, &models.User{Name: name, Email: email, PasswordHash: hash})
	if err != nil {
		if errors.Is(err, common.ErrUserExists) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	s.logger.Info(ctx, "user registered", "user_id", u.ID)
	return u, nil
}

// SendVerificationCode issues a fresh code for an unverified account,
// replacing any earlier one, and mails it.
func (s *AuthService) SendVerificationCode(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return common.NewValidationError("Email is required.")
	}

	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("error searching user: %w", err)
	}
	if user.Verified {
		return common.ErrAlreadyVerified
	}

	code, err := s.generateCode(verificationCodeDigits)
	if err != nil {
		return fmt.Errorf("error generating code: %w", err)
	}

	vc := &models.VerificationCode{Email: email, Code: code, ExpiresAt: s.now().Add(s.verificationCodeTTL)}
	if err := s.repomanager.VerificationCodes(s.db).Upsert(ctx, vc); err != nil {
		return fmt.Errorf("error storing code: %w", err)
	}

	msg := mailer.Message{
		From:    s.mailFrom,
		To:      email,
		Subject: verificationMailSubject,
		Body: fmt.Sprintf("Your verification code is: %s. It expires in %d minutes.",
			code, int(s.verificationCodeTTL.Minutes())),
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("error sending verification code: %w", err)
	}

	s.logger.Info(ctx, "verification code sent", "user_id", user.ID)
	return nil
}

// VerifyCode checks code against the stored one and, on success, deletes it
// and marks the account verified in one transaction. A code is still valid at
// exactly its expiry instant.
func (s *AuthService) VerifyCode(ctx context.Context, email, code string) error {
	email = normalizeEmail(email)
	code = strings.TrimSpace(code)
	if email == "" || code == "" {
		return common.NewValidationError("Email and code are required.")
	}

	stored, err := s.repomanager.VerificationCodes(s.db).Find(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrNoVerificationCode
		}
		return fmt.Errorf("error searching code: %w", err)
	}

	if s.now().After(stored.ExpiresAt) {
		return common.ErrCodeExpired
	}
	if code != stored.Code {
		return common.ErrInvalidCode
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.VerificationCodes(tx).Delete(ctx, email); err != nil {
			return fmt.Errorf("error deleting code: %w", err)
		}
		if err := s.repomanager.Users(tx).MarkVerified(ctx, email); err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				// code row without an account
				return fmt.Errorf("failed to update user verification status: %w", common.ErrorInternal)
			}
			return fmt.Errorf("error marking user verified: %w", err)
		}
		return nil
	})
}

// Login checks credentials and issues a session token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, common.NewValidationError("Email and password are required.")
	}

	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, fmt.Errorf("error searching user: %w", err)
	}

	if !user.Verified {
		return nil, common.ErrNotVerified
	}

	ok, err := auth.CheckPassword(user.PasswordHash, password)
	if err != nil {
		return nil, fmt.Errorf("error checking password: %w", err)
	}
	if !ok {
		return nil, common.ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(user.ID, user.Email, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, fmt.Errorf("error generating token: %w", err)
	}

	return &LoginResult{User: user, Token: token}, nil
}

// Authenticate parses a session token and returns its claims.
func (s *AuthService) Authenticate(token string) (*auth.Claims, error) {
	return auth.ParseToken(token, s.jwtSecret)
}

// Me returns the account behind an authenticated session.
func (s *AuthService) Me(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error searching user: %w", err)
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
