// Package testkit holds fixtures shared by package tests.
package testkit

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"profile-service/internal/core/database"
	"profile-service/internal/repo"
)

// NewDB opens a private in-memory sqlite database with the users table migrated.
// One connection keeps the database alive for the life of the test.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := database.NewGorm(database.Opts{
		Driver:       "sqlite",
		DSN:          ":memory:",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
		LogLevel:     "silent",
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })
	if err := repo.NewUserRepo(db).Migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// NewUserRepo returns a gorm user repository over a fresh NewDB.
func NewUserRepo(t testing.TB) *repo.UserRepo {
	t.Helper()
	return repo.NewUserRepo(NewDB(t))
}
