// Package auth implements signup, login, logout and password change on top of
// the token service, the password hasher and the user store.
package auth

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"

	coreauth "profile-service/internal/core/auth"
	"profile-service/internal/domain"
	"profile-service/pkg/utils"
)

type Tokens interface {
	Issue(uid string) (string, error)
	Validate(token string) (string, error)
}

type SignupInput struct {
	Email    string
	Password string
	Name     string
}

type Service struct {
	users  domain.UserRepository
	hasher coreauth.Hasher
	tokens Tokens
	log    *zap.Logger
	newID  func() string

	dummyOnce   sync.Once
	dummyDigest string
}

func NewService(users domain.UserRepository, hasher coreauth.Hasher, tokens Tokens, l *zap.Logger) *Service {
	if l == nil {
		l = zap.NewNop()
	}
	return &Service{users: users, hasher: hasher, tokens: tokens, log: l, newID: utils.NewID}
}

// Signup creates an active user. The email pre-check only saves a hash; the
// store's unique index is what actually rejects duplicates.
func (s *Service) Signup(ctx context.Context, in SignupInput) (u *domain.User, err error) {
	defer func() { observe("signup", err) }()
	email := strings.TrimSpace(in.Email)
	name := strings.TrimSpace(in.Name)
	if email == "" || name == "" || in.Password == "" {
		return nil, domain.NewError(domain.CodeValidation, "email, password and name are required")
	}

	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailTaken
	}

	digest, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, domain.WrapError(domain.CodeValidation, "password cannot be hashed", err)
	}
	u = &domain.User{
		ID:           s.newID(),
		Email:        email,
		PasswordHash: digest,
		Name:         name,
		IsActive:     true,
	}
	if err := s.users.Insert(ctx, u); err != nil {
		if domain.IsDomainError(err, domain.CodeDuplicateEmail) {
			s.log.Info("signup lost email race", zap.String("email", email))
		}
		return nil, err
	}
	s.log.Info("user signed up", zap.String("user_id", u.ID))
	return u, nil
}

// Login returns ErrInvalidCredentials for an unknown email, a wrong password and
// an inactive account alike.
func (s *Service) Login(ctx context.Context, email, password string) (tok string, err error) {
	defer func() { observe("login", err) }()
	u, err := s.users.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return "", err
	}
	if u == nil {
		// burn the same bcrypt time as a real comparison
		s.hasher.Verify(password, s.dummy())
		s.log.Info("login rejected", zap.String("reason", "unknown email"))
		return "", domain.ErrInvalidCredentials
	}
	if !s.hasher.Verify(password, u.PasswordHash) {
		s.log.Info("login rejected", zap.String("reason", "bad password"), zap.String("user_id", u.ID))
		return "", domain.ErrInvalidCredentials
	}
	if !u.IsActive {
		s.log.Info("login rejected", zap.String("reason", "inactive"), zap.String("user_id", u.ID))
		return "", domain.ErrInvalidCredentials
	}

	tok, err = s.tokens.Issue(u.ID)
	if err != nil {
		return "", domain.WrapError(domain.CodeInternal, "issue token failed", err)
	}
	s.log.Info("user logged in", zap.String("user_id", u.ID))
	return tok, nil
}

// Authenticate resolves a bearer token to an active user. A valid token whose
// subject no longer exists is ErrUserNotFound.
func (s *Service) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	uid, err := s.validate(token)
	if err != nil {
		return nil, err
	}
	u, err := s.users.FindByID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if u == nil {
		s.log.Warn("token subject has no user record", zap.String("user_id", uid))
		return nil, domain.ErrUserNotFound
	}
	if !u.IsActive {
		s.log.Info("token rejected", zap.String("reason", "inactive"), zap.String("user_id", uid))
		return nil, domain.ErrUnauthenticated
	}
	return u, nil
}

// Logout only checks that the token still validates; tokens are not revocable.
func (s *Service) Logout(_ context.Context, token string) error {
	uid, err := s.validate(token)
	if err != nil {
		return err
	}
	s.log.Info("user logged out", zap.String("user_id", uid))
	return nil
}

// ChangePassword leaves the stored digest untouched unless oldPassword verifies.
func (s *Service) ChangePassword(ctx context.Context, caller *domain.User, oldPassword, newPassword string) (err error) {
	defer func() { observe("change_password", err) }()
	if newPassword == "" {
		return domain.NewError(domain.CodeValidation, "new password is required")
	}
	if !s.hasher.Verify(oldPassword, caller.PasswordHash) {
		s.log.Info("password change rejected", zap.String("user_id", caller.ID))
		return domain.ErrOldPasswordIncorrect
	}
	digest, err := s.hasher.Hash(newPassword)
	if err != nil {
		return domain.WrapError(domain.CodeValidation, "password cannot be hashed", err)
	}
	updated := *caller
	updated.PasswordHash = digest
	if err := s.users.Update(ctx, &updated); err != nil {
		return err
	}
	*caller = updated
	s.log.Info("password changed", zap.String("user_id", caller.ID))
	return nil
}

func (s *Service) validate(token string) (string, error) {
	uid, err := s.tokens.Validate(token)
	if err == nil {
		return uid, nil
	}
	kind := "malformed"
	switch {
	case errors.Is(err, coreauth.ErrTokenExpired):
		kind = "expired"
	case errors.Is(err, coreauth.ErrTokenSignatureInvalid):
		kind = "signature_invalid"
	}
	s.log.Debug("token rejected", zap.String("kind", kind), zap.Error(err))
	return "", domain.WrapError(domain.CodeUnauthenticated, domain.ErrUnauthenticated.Message, err)
}

func (s *Service) dummy() string {
	s.dummyOnce.Do(func() {
		s.dummyDigest, _ = s.hasher.Hash("dummy-password-for-timing")
	})
	return s.dummyDigest
}
