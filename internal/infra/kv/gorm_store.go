package kv

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"
	"time"

	"rewards/internal/errors"

	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	dbPoolMonitorInterval       = 5 * time.Second
	dbPoolWarnDurationThreshold = 50 * time.Millisecond
)

// kvEntry is the single table backing the postgres driver.
type kvEntry struct {
	Key       string    `gorm:"column:key;primaryKey"`
	Value     []byte    `gorm:"column:value;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

func (kvEntry) TableName() string {
	return "kv_entries"
}

type gormStore struct {
	db            *gorm.DB
	sqlDB         *sql.DB
	logger        *slog.Logger
	cancelMonitor context.CancelFunc
}

// OpenPostgres connects through GORM, migrates kv_entries and starts the pool monitor.
func OpenPostgres(ctx context.Context, dsn string, debug bool, logger *slog.Logger) (Store, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, errors.New("postgres dsn is empty")
	}

	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 newGormSlogLogger(logger, debug),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create PostgreSQL client")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get PostgreSQL sql.DB")
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()

		return nil, errors.Wrap(err, "failed to ping PostgreSQL")
	}

	store, err := NewGormStore(ctx, db, logger)
	if err != nil {
		_ = sqlDB.Close()

		return nil, err
	}

	return store, nil
}

// NewGormStore migrates kv_entries on an open connection.
func NewGormStore(ctx context.Context, db *gorm.DB, logger *slog.Logger) (Store, error) {
	if err := db.WithContext(ctx).AutoMigrate(&kvEntry{}); err != nil {
		return nil, errors.Wrap(err, "migrate kv_entries")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get sql.DB")
	}

	componentLogger := logger.With("component", "kv.postgres")
	monitorCtx, cancel := context.WithCancel(context.Background())
	go monitorDBPool(monitorCtx, componentLogger, sqlDB, dbPoolMonitorInterval)

	return &gormStore{
		db:            db,
		sqlDB:         sqlDB,
		logger:        componentLogger,
		cancelMonitor: cancel,
	}, nil
}

func (s *gormStore) Get(ctx context.Context, key string) ([]byte, error) {
	var entry kvEntry
	err := s.db.WithContext(ctx).Where("key = ?", key).Take(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "postgres get %s", key)
	}

	return entry.Value, nil
}

func (s *gormStore) Put(ctx context.Context, key string, value []byte) error {
	entry := kvEntry{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return errors.Wrapf(err, "postgres put %s", key)
	}

	return nil
}

func (s *gormStore) Delete(ctx context.Context, key string) error {
	if err := s.db.WithContext(ctx).Where("key = ?", key).Delete(&kvEntry{}).Error; err != nil {
		return errors.Wrapf(err, "postgres delete %s", key)
	}

	return nil
}

func (s *gormStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	err := s.db.WithContext(ctx).Model(&kvEntry{}).
		Where("starts_with(key, ?)", prefix).
		Order("key").
		Pluck("key", &keys).Error
	if err != nil {
		return nil, errors.Wrapf(err, "postgres keys %s", prefix)
	}

	return keys, nil
}

func (s *gormStore) Close() error {
	s.cancelMonitor()

	return errors.WithStack(s.sqlDB.Close())
}

func monitorDBPool(ctx context.Context, logger *slog.Logger, sqlDB *sql.DB, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	prev := sqlDB.Stats()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cur := sqlDB.Stats()
			waitDelta := cur.WaitCount - prev.WaitCount
			waitDurationDelta := cur.WaitDuration - prev.WaitDuration

			if waitDelta > 0 {
				attrs := []slog.Attr{
					slog.Int64("waitCountDelta", waitDelta),
					slog.Duration("avgWait", waitDurationDelta/time.Duration(waitDelta)),
					slog.Int("openConns", cur.OpenConnections),
					slog.Int("inUseConns", cur.InUse),
				}
				if waitDurationDelta >= dbPoolWarnDurationThreshold {
					logger.LogAttrs(ctx, slog.LevelWarn, "Postgres pool wait detected", attrs...)
				} else {
					logger.LogAttrs(ctx, slog.LevelDebug, "Postgres pool wait observed", attrs...)
				}
			}

			prev = cur
		}
	}
}
