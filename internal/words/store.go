package words

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/multierr"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Word is one row of the catalog table.
type Word struct {
	ID   uint   `gorm:"primaryKey"`
	Text string `gorm:"uniqueIndex;not null;size:64"`
}

// Store reads the catalog from Postgres. Rooms only ever see the loaded
// slice; nothing about a game is written back.
type Store struct {
	db *gorm.DB
}

func Open(dsn string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to word database: %w", err)
	}
	return &Store{db: db}, nil
}

func NewStore(db *gorm.DB) *Store { return &Store{db: db} }

func (s *Store) Migrate(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(&Word{})
}

// Seed inserts the given words, ignoring ones already present.
func (s *Store) Seed(ctx context.Context, words []string) error {
	rows := make([]Word, 0, len(words))
	for _, w := range words {
		if w = strings.TrimSpace(w); w != "" {
			rows = append(rows, Word{Text: w})
		}
	}
	if len(rows) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(rows, 100).Error
}

func (s *Store) All(ctx context.Context) ([]string, error) {
	var out []string
	err := s.db.WithContext(ctx).Model(&Word{}).Order("id").Pluck("text", &out).Error
	if err != nil {
		return nil, fmt.Errorf("load words: %w", err)
	}
	if len(out) == 0 {
		return nil, ErrEmptyCatalog
	}
	return out, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Load opens dsn, makes sure the table exists and is seeded, and returns the
// catalog.
func Load(ctx context.Context, dsn string, seed []string) (catalog []string, err error) {
	s, err := Open(dsn)
	if err != nil {
		return nil, err
	}
	defer func() { err = multierr.Append(err, s.Close()) }()

	if err := s.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("migrate words: %w", err)
	}
	if err := s.Seed(ctx, seed); err != nil {
		return nil, fmt.Errorf("seed words: %w", err)
	}
	return s.All(ctx)
}
