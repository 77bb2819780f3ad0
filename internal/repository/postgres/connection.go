package postgres

import (
	"sync"

	"github.com/mkline/member-portal/internal/domain"
	"github.com/mkline/member-portal/internal/repository"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	connectOnce sync.Once
	sharedDB    *gorm.DB
	connectErr  error
)

// Connect opens the shared database handle. Concurrent first callers are
// serialized by the once guard so only a single connection pool is ever
// created; later callers reuse it.
func Connect(databaseURL string) (*gorm.DB, error) {
	connectOnce.Do(func() {
		sharedDB, connectErr = open(databaseURL)
	})
	return sharedDB, connectErr
}

func open(databaseURL string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
		// Surface unique-index violations as gorm.ErrDuplicatedKey so the
		// email constraint can be matched without driver-specific checks.
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&domain.User{}); err != nil {
		return nil, err
	}

	return db, nil
}

func NewRepositories(db *gorm.DB) *repository.Repositories {
	return &repository.Repositories{
		User: NewUserRepository(db),
	}
}
