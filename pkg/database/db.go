package database

import (
	"fmt"
	"sync"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Options holds the postgres connection settings.
type Options struct {
	Host     string
	User     string
	Password string
	Name     string
	Port     string
	SSLMode  string
	Debug    bool
}

var (
	DB   *gorm.DB
	once sync.Once
	err  error
)

// Connect opens the shared gorm handle once; later calls return the same handle.
func Connect(opts Options) (*gorm.DB, error) {
	once.Do(func() {
		sslMode := opts.SSLMode
		if sslMode == "" {
			sslMode = "disable"
		}

		dsn := fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
			opts.Host, opts.User, opts.Password, opts.Name, opts.Port, sslMode,
		)

		DB, err = Open(postgres.Open(dsn), opts.Debug)
	})

	return DB, err
}

// Open wraps gorm.Open with the settings every store handle in this service uses.
func Open(dialector gorm.Dialector, debug bool) (*gorm.DB, error) {
	level := logger.Warn
	if debug {
		level = logger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError:         true,
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(level),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	return db, nil
}
