package repo

import (
	"context"
	"errors"
	"strings"

	mysqldrv "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"profile-service/internal/domain"
	"profile-service/internal/feature/user"
)

var ErrDuplicateEmail = domain.NewError(domain.CodeDuplicateEmail, "email already registered")

type UserRepo struct{ db *gorm.DB }

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{db: db} }

func (r *UserRepo) Migrate(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&user.Model{})
}

func (r *UserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *UserRepo) first(ctx context.Context, query string, arg string) (*domain.User, error) {
	var m user.Model
	err := r.db.WithContext(ctx).Where(query, arg).Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, unavailable(err)
	}
	return m.ToDomain(), nil
}

// Insert relies on the unique index on email; a violation yields ErrDuplicateEmail.
func (r *UserRepo) Insert(ctx context.Context, u *domain.User) error {
	m := user.FromDomain(u)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return classifyWriteError(err)
	}
	u.CreatedAt, u.UpdatedAt = m.CreatedAt, m.UpdatedAt
	return nil
}

// Update writes every mutable column, zero values included. Last write wins.
func (r *UserRepo) Update(ctx context.Context, u *domain.User) error {
	m := user.FromDomain(u)
	err := r.db.WithContext(ctx).
		Model(m).
		Select("email", "password", "name", "bio", "is_active", "updated_at").
		Updates(m).Error
	if err != nil {
		return classifyWriteError(err)
	}
	u.UpdatedAt = m.UpdatedAt
	return nil
}

func classifyWriteError(err error) error {
	if isDupKey(err) {
		return domain.WrapError(ErrDuplicateEmail.Code, ErrDuplicateEmail.Message, err)
	}
	return unavailable(err)
}

func unavailable(err error) error {
	return domain.WrapError(domain.CodeStoreUnavailable, "store unavailable", err)
}

func isDupKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	var myErr *mysqldrv.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1062
	}
	// sqlite reports constraint failures only through the message
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key")
}
