package repo

import (
	"context"
	"time"

	"go.uber.org/zap"

	"profile-service/internal/core/cache"
	"profile-service/internal/domain"
)

// cachedUser keeps the digest, unlike domain.Profile, because Authenticate
// hands the cached record to ChangePassword.
type cachedUser struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	Name         string    `json:"name"`
	Bio          *string   `json:"bio"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CachedUserRepo caches FindByID lookups in redis and drops the entry on every write.
type CachedUserRepo struct {
	next  domain.UserRepository
	cache *cache.Cache
	ttl   time.Duration
	log   *zap.Logger
}

func NewCachedUserRepo(next domain.UserRepository, c *cache.Cache, ttl time.Duration, l *zap.Logger) *CachedUserRepo {
	if l == nil {
		l = zap.NewNop()
	}
	return &CachedUserRepo{next: next, cache: c, ttl: ttl, log: l}
}

func userKey(id string) string { return "user:id:" + id }

func (r *CachedUserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	cu, err := cache.GetOrLoadJSON(r.cache, ctx, userKey(id), r.ttl, func(ctx context.Context) (*cachedUser, error) {
		u, err := r.next.FindByID(ctx, id)
		if err != nil || u == nil {
			return nil, err
		}
		return &cachedUser{
			ID: u.ID, Email: u.Email, PasswordHash: u.PasswordHash, Name: u.Name, Bio: u.Bio,
			IsActive: u.IsActive, CreatedAt: u.CreatedAt, UpdatedAt: u.UpdatedAt,
		}, nil
	})
	if err != nil || cu == nil {
		return nil, err
	}
	return &domain.User{
		ID: cu.ID, Email: cu.Email, PasswordHash: cu.PasswordHash, Name: cu.Name, Bio: cu.Bio,
		IsActive: cu.IsActive, CreatedAt: cu.CreatedAt, UpdatedAt: cu.UpdatedAt,
	}, nil
}

func (r *CachedUserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.next.FindByEmail(ctx, email)
}

func (r *CachedUserRepo) Insert(ctx context.Context, u *domain.User) error {
	if err := r.next.Insert(ctx, u); err != nil {
		return err
	}
	r.invalidate(ctx, u.ID)
	return nil
}

func (r *CachedUserRepo) Update(ctx context.Context, u *domain.User) error {
	if err := r.next.Update(ctx, u); err != nil {
		return err
	}
	r.invalidate(ctx, u.ID)
	return nil
}

func (r *CachedUserRepo) invalidate(ctx context.Context, id string) {
	if err := r.cache.Invalidate(ctx, userKey(id)); err != nil {
		r.log.Warn("user cache invalidation failed", zap.String("user_id", id), zap.Error(err))
	}
}
