package tokenstore

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/jrsteele09/reposcribe/internal/errors"
	zlog "github.com/rs/zerolog/log"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

const sqliteFileName = "reposcribe.db"

// KVEntry is one row of the local key/value table.
type KVEntry struct {
	Name      string `gorm:"primaryKey;size:120"`
	Value     string
	UpdatedAt time.Time
}

func (KVEntry) TableName() string { return "kv_entries" }

var _ Store = (*SQLiteStore)(nil)

// SQLiteStore keeps the token in a one-table SQLite database.
type SQLiteStore struct {
	db  *gorm.DB
	key string
}

// NewSQLiteStore opens (or creates) <folder>/reposcribe.db and migrates it.
func NewSQLiteStore(folder, key string) (*SQLiteStore, error) {
	if err := os.MkdirAll(folder, 0o700); err != nil {
		return nil, errors.Wrapf(err, "[tokenstore NewSQLiteStore] create folder")
	}
	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=5000", filepath.Join(folder, sqliteFileName))

	gormLogger := logger.New(
		log.New(loggerWriter{}, "", 0),
		logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		},
	)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormLogger})
	if err != nil {
		return nil, errors.Wrapf(err, "[tokenstore NewSQLiteStore] open sqlite")
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrapf(err, "[tokenstore NewSQLiteStore] get sql db")
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&KVEntry{}); err != nil {
		return nil, errors.Wrapf(err, "[tokenstore NewSQLiteStore] auto migrate")
	}
	return &SQLiteStore{db: db, key: key}, nil
}

func (s *SQLiteStore) Get() (string, error) {
	var entry KVEntry
	err := s.db.Where("name = ?", s.key).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", errors.ErrTokenNotFound
	}
	if err != nil {
		return "", errors.Wrapf(err, "[tokenstore SQLiteStore] get")
	}
	if entry.Value == "" {
		return "", errors.ErrTokenNotFound
	}
	return entry.Value, nil
}

func (s *SQLiteStore) Set(token string) error {
	if token == "" {
		return errors.ErrEmptyToken
	}
	entry := KVEntry{Name: s.key, Value: token, UpdatedAt: time.Now()}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return errors.Wrapf(err, "[tokenstore SQLiteStore] set")
	}
	return nil
}

func (s *SQLiteStore) Clear() error {
	if err := s.db.Where("name = ?", s.key).Delete(&KVEntry{}).Error; err != nil {
		return errors.Wrapf(err, "[tokenstore SQLiteStore] clear")
	}
	return nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// loggerWriter routes gorm's logger through zerolog.
type loggerWriter struct{}

func (loggerWriter) Write(p []byte) (int, error) {
	zlog.Warn().Str("component", "sqlite").Msg(string(p))
	return len(p), nil
}
