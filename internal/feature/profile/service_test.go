package profile

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"profile-service/internal/domain"
	"profile-service/internal/testkit"
)

func ptr(s string) *string { return &s }

func seed(t *testing.T) (*Service, domain.UserRepository, *domain.User) {
	t.Helper()
	users := testkit.NewUserRepo(t)
	u := &domain.User{ID: "u1", Email: "a@x.com", PasswordHash: "$2a$04$digest", Name: "Ann", Bio: ptr("hello"), IsActive: true}
	require.NoError(t, users.Insert(context.Background(), u))
	return NewService(users, zap.NewNop()), users, u
}

func TestReadExcludesDigest(t *testing.T) {
	s, _, u := seed(t)
	p := s.Read(context.Background(), u)
	assert.Equal(t, domain.Profile{ID: "u1", Email: "a@x.com", Name: "Ann", Bio: ptr("hello")}, p)
}

func TestUpdatePartial(t *testing.T) {
	ctx := context.Background()
	s, users, u := seed(t)

	p, err := s.Update(ctx, u, UpdateInput{Bio: ptr("x")})
	require.NoError(t, err)
	assert.Equal(t, "Ann", p.Name)
	assert.Equal(t, "x", *p.Bio)

	p, err = s.Update(ctx, u, UpdateInput{})
	require.NoError(t, err)
	assert.Equal(t, "Ann", p.Name)
	assert.Equal(t, "x", *p.Bio)

	p, err = s.Update(ctx, u, UpdateInput{Name: ptr("Bob")})
	require.NoError(t, err)
	assert.Equal(t, "Bob", p.Name)
	assert.Equal(t, "x", *p.Bio)

	stored, err := users.FindByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Bob", stored.Name)
	assert.Equal(t, "x", *stored.Bio)
	assert.Equal(t, "$2a$04$digest", stored.PasswordHash)
}

func TestUpdateRejectsBlankName(t *testing.T) {
	s, _, u := seed(t)
	_, err := s.Update(context.Background(), u, UpdateInput{Name: ptr("   ")})
	assert.True(t, domain.IsDomainError(err, domain.CodeValidation))
	assert.Equal(t, "Ann", u.Name)
}

func TestUpdateEmptyBioIsStored(t *testing.T) {
	ctx := context.Background()
	s, users, u := seed(t)

	_, err := s.Update(ctx, u, UpdateInput{Bio: ptr("")})
	require.NoError(t, err)
	stored, err := users.FindByID(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, stored.Bio)
	assert.Equal(t, "", *stored.Bio)
}

func TestSoftDelete(t *testing.T) {
	ctx := context.Background()
	s, users, u := seed(t)

	p, err := s.SoftDelete(ctx, u)
	require.NoError(t, err)
	assert.Equal(t, "u1", p.ID)
	assert.False(t, u.IsActive)

	stored, err := users.FindByID(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.False(t, stored.IsActive)
	assert.Equal(t, "Ann", stored.Name)
}

type downRepo struct{ domain.UserRepository }

func (downRepo) Update(context.Context, *domain.User) error {
	return domain.WrapError(domain.CodeStoreUnavailable, "store unavailable", errors.New("down"))
}

func TestStoreFailureLeavesCallerUntouched(t *testing.T) {
	s := NewService(downRepo{}, nil)
	u := &domain.User{ID: "u1", Name: "Ann", IsActive: true}

	_, err := s.Update(context.Background(), u, UpdateInput{Name: ptr("Bob")})
	assert.True(t, domain.IsDomainError(err, domain.CodeStoreUnavailable))
	assert.Equal(t, "Ann", u.Name)

	_, err = s.SoftDelete(context.Background(), u)
	assert.Error(t, err)
	assert.True(t, u.IsActive)
}
