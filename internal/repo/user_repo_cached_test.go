package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"profile-service/internal/core/cache"
	"profile-service/internal/domain"
	"profile-service/internal/repo"
	"profile-service/internal/testkit"
)

func newCachedRepo(t *testing.T) *repo.CachedUserRepo {
	t.Helper()
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond, MaxRetries: -1})
	c := cache.NewWithClient(rdb, "test:", nil)
	t.Cleanup(func() { _ = c.Close() })
	return repo.NewCachedUserRepo(testkit.NewUserRepo(t), c, time.Minute, nil)
}

func TestCachedRepoPassesThroughWhenRedisDown(t *testing.T) {
	ctx := context.Background()
	r := newCachedRepo(t)
	var _ domain.UserRepository = r

	bio := "x"
	u := newUser("id-1", "a@x.com")
	u.Bio = &bio
	require.NoError(t, r.Insert(ctx, u))

	got, err := r.FindByID(ctx, "id-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "a@x.com", got.Email)
	assert.Equal(t, "$2a$04$digest", got.PasswordHash)
	require.NotNil(t, got.Bio)
	assert.Equal(t, "x", *got.Bio)

	got.IsActive = false
	require.NoError(t, r.Update(ctx, got))
	again, err := r.FindByID(ctx, "id-1")
	require.NoError(t, err)
	assert.False(t, again.IsActive)

	byEmail, err := r.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "id-1", byEmail.ID)

	missing, err := r.FindByID(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestCachedRepoPropagatesDuplicate(t *testing.T) {
	ctx := context.Background()
	r := newCachedRepo(t)
	require.NoError(t, r.Insert(ctx, newUser("id-1", "a@x.com")))

	err := r.Insert(ctx, newUser("id-2", "a@x.com"))
	assert.Equal(t, domain.CodeDuplicateEmail, domain.CodeOf(err))
}

// gatedRepo pauses FindByID after the row is read until release is closed.
type gatedRepo struct {
	domain.UserRepository
	read    chan struct{}
	release chan struct{}
}

func (g *gatedRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	u, err := g.UserRepository.FindByID(ctx, id)
	if g.read != nil {
		close(g.read)
		<-g.release
		g.read = nil
	}
	return u, err
}

func newLiveCachedRepo(t *testing.T, next domain.UserRepository) (*repo.CachedUserRepo, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := cache.NewWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "test:", nil)
	t.Cleanup(func() { _ = c.Close() })
	return repo.NewCachedUserRepo(next, c, time.Minute, nil), mr
}

func TestCachedRepoServesHitsAndInvalidatesOnWrite(t *testing.T) {
	ctx := context.Background()
	store := testkit.NewUserRepo(t)
	r, mr := newLiveCachedRepo(t, store)

	require.NoError(t, r.Insert(ctx, newUser("id-1", "a@x.com")))
	_, err := r.FindByID(ctx, "id-1")
	require.NoError(t, err)
	assert.True(t, mr.Exists("test:user:id:id-1"))

	// a write behind the cache's back is not seen until invalidation
	direct := newUser("id-1", "a@x.com")
	direct.Name = "Direct"
	require.NoError(t, store.Update(ctx, direct))
	hit, err := r.FindByID(ctx, "id-1")
	require.NoError(t, err)
	assert.Equal(t, "A", hit.Name)

	hit.Name = "Bob"
	require.NoError(t, r.Update(ctx, hit))
	assert.False(t, mr.Exists("test:user:id:id-1"))

	fresh, err := r.FindByID(ctx, "id-1")
	require.NoError(t, err)
	assert.Equal(t, "Bob", fresh.Name)
}

func TestCachedRepoCachesMissingID(t *testing.T) {
	ctx := context.Background()
	r, mr := newLiveCachedRepo(t, testkit.NewUserRepo(t))

	u, err := r.FindByID(ctx, "id-1")
	require.NoError(t, err)
	assert.Nil(t, u)
	raw, err := mr.Get("test:user:id:id-1")
	require.NoError(t, err)
	assert.Equal(t, "null", raw)

	require.NoError(t, r.Insert(ctx, newUser("id-1", "a@x.com")))
	u, err = r.FindByID(ctx, "id-1")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "a@x.com", u.Email)
}

func TestCachedRepoDeactivationDuringLoad(t *testing.T) {
	ctx := context.Background()
	store := testkit.NewUserRepo(t)
	require.NoError(t, store.Insert(ctx, newUser("id-1", "a@x.com")))

	gated := &gatedRepo{UserRepository: store, read: make(chan struct{}), release: make(chan struct{})}
	r, mr := newLiveCachedRepo(t, gated)
	read := gated.read

	loaded := make(chan *domain.User)
	go func() {
		u, _ := r.FindByID(ctx, "id-1")
		loaded <- u
	}()

	<-read
	deactivated := newUser("id-1", "a@x.com")
	deactivated.IsActive = false
	require.NoError(t, r.Update(ctx, deactivated))
	close(gated.release)
	require.NotNil(t, <-loaded)

	assert.False(t, mr.Exists("test:user:id:id-1"))
	u, err := r.FindByID(ctx, "id-1")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.False(t, u.IsActive)
}
