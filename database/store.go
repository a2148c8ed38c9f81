package database

import (
	"context"
	"time"

	"no-homers/logging"

	"github.com/cockroachdb/errors"
)

// Config selects and configures a storage backend
type Config struct {
	Driver      string
	PostgresURL string
	AutoMigrate bool
	Host        string
	Port        string
	Username    string
	Password    string
	Database    string
	Timeout     time.Duration
}

func (c Config) timeout() time.Duration {
	if c.Timeout <= 0 {
		return MediumTimeout
	}
	return c.Timeout
}

// Store bundles the repositories of one backend
type Store struct {
	Picks PickRepository
	Lines LinesRepository
	Users UserRepository

	closer func() error
	pinger func(context.Context) error
}

// Close releases the backend connection
func (s *Store) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer()
}

// Ping checks that the backend is reachable
func (s *Store) Ping(ctx context.Context) error {
	if s.pinger == nil {
		return nil
	}
	return s.pinger(ctx)
}

// Open connects to the configured backend and wires its repositories
func Open(ctx context.Context, config Config) (*Store, error) {
	logger := logging.WithPrefix("Store")

	switch config.Driver {
	case "postgres":
		db, err := NewPostgresConnection(ctx, config)
		if err != nil {
			return nil, err
		}
		if config.AutoMigrate {
			if err := db.Migrate(); err != nil {
				_ = db.Close()
				return nil, err
			}
		}
		logger.Info("Using postgres store")
		return &Store{
			Picks:  NewPostgresPickRepository(db),
			Lines:  NewPostgresLinesRepository(db),
			Users:  NewPostgresUserRepository(db),
			closer: db.Close,
			pinger: db.TestConnection,
		}, nil

	case "mongo":
		db, err := NewMongoConnection(ctx, config)
		if err != nil {
			return nil, err
		}
		users := NewMongoUserRepository(db)
		if err := users.EnsureIndexes(); err != nil {
			logger.Warnf("Could not create user indexes: %v", err)
		}
		logger.Info("Using mongo store")
		return &Store{
			Picks:  NewMongoPickRepository(db),
			Lines:  NewMongoLinesRepository(db),
			Users:  users,
			closer: db.Close,
			pinger: db.TestConnection,
		}, nil

	case "memory", "":
		mem := NewMemoryStore()
		logger.Warn("Using in-memory store, data is lost on restart")
		return &Store{
			Picks: mem,
			Lines: mem,
			Users: mem,
		}, nil
	}

	return nil, errors.Newf("unknown database driver %q", config.Driver)
}
