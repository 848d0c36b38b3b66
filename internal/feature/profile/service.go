// Package profile lets an authenticated user read, edit and deactivate their
// own record.
package profile

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"profile-service/internal/domain"
)

// UpdateInput is a partial update: nil fields are left as they are.
type UpdateInput struct {
	Name *string
	Bio  *string
}

type Service struct {
	users domain.UserRepository
	log   *zap.Logger
}

func NewService(users domain.UserRepository, l *zap.Logger) *Service {
	if l == nil {
		l = zap.NewNop()
	}
	return &Service{users: users, log: l}
}

func (s *Service) Read(_ context.Context, caller *domain.User) domain.Profile {
	return caller.Profile()
}

func (s *Service) Update(ctx context.Context, caller *domain.User, in UpdateInput) (domain.Profile, error) {
	if in.Name == nil && in.Bio == nil {
		return caller.Profile(), nil
	}
	updated := *caller
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return domain.Profile{}, domain.NewError(domain.CodeValidation, "name must not be empty")
		}
		updated.Name = name
	}
	if in.Bio != nil {
		bio := *in.Bio
		updated.Bio = &bio
	}
	if err := s.users.Update(ctx, &updated); err != nil {
		return domain.Profile{}, err
	}
	*caller = updated
	s.log.Info("profile updated", zap.String("user_id", caller.ID),
		zap.Bool("name", in.Name != nil), zap.Bool("bio", in.Bio != nil))
	return caller.Profile(), nil
}

// SoftDelete deactivates the caller. The record is kept and never reactivated.
func (s *Service) SoftDelete(ctx context.Context, caller *domain.User) (domain.Profile, error) {
	updated := *caller
	updated.IsActive = false
	if err := s.users.Update(ctx, &updated); err != nil {
		return domain.Profile{}, err
	}
	*caller = updated
	s.log.Info("user deactivated", zap.String("user_id", caller.ID))
	return caller.Profile(), nil
}
