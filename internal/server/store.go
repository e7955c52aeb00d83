package server

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/faizmokh/angkat/internal/workout"
)

// row is the persisted shape of a workout. Date is the primary key, exactly
// as the wire protocol treats it.
type row struct {
	Date        string `gorm:"primaryKey"`
	ID          string
	Exercise    string `gorm:"not null"`
	Progression string `gorm:"default:''"`
	Sets        int64  `gorm:"not null"`
	Reps        int64  `gorm:"not null"`
	Weight      int64  `gorm:"default:0"`
	Difficulty  string `gorm:"not null"`
	Notes       string `gorm:"default:''"`
}

func (row) TableName() string {
	return "workouts"
}

// Store persists workouts in SQLite through gorm.
type Store struct {
	db *gorm.DB
}

// OpenStore opens (creating if needed) the database at path and migrates the schema.
func OpenStore(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// SQLite takes one writer at a time; a single connection queues
	// requests instead of failing them with SQLITE_BUSY.
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&row{}); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Add inserts a validated record. A record with the same date is a conflict.
func (s *Store) Add(ctx context.Context, record workout.Record) error {
	r, err := toRow(record)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing row
		err := tx.Where("date = ?", r.Date).First(&existing).Error
		switch {
		case err == nil:
			return ErrDuplicate
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}
		return tx.Create(&r).Error
	})
	return duplicate(err)
}

// duplicate maps a primary key violation onto ErrDuplicate.
func duplicate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	return err
}

// Get loads the record stored under date.
func (s *Store) Get(ctx context.Context, date string) (workout.Record, error) {
	var r row
	if err := s.db.WithContext(ctx).Where("date = ?", date).First(&r).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return workout.Record{}, ErrNotFound
		}
		return workout.Record{}, err
	}
	return fromRow(r), nil
}

// Update replaces the record stored under date. The replacement may carry a
// different date, which moves the key.
func (s *Store) Update(ctx context.Context, date string, record workout.Record) error {
	r, err := toRow(record)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("date = ?", date).Delete(&row{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		if r.Date != date {
			var existing row
			err := tx.Where("date = ?", r.Date).First(&existing).Error
			switch {
			case err == nil:
				return ErrDuplicate
			case !errors.Is(err, gorm.ErrRecordNotFound):
				return err
			}
		}
		return tx.Create(&r).Error
	})
	return duplicate(err)
}

// Delete removes the record stored under date. Deleting a missing date succeeds.
func (s *Store) Delete(ctx context.Context, date string) error {
	return s.db.WithContext(ctx).Where("date = ?", date).Delete(&row{}).Error
}

// List returns up to limit records, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]workout.Record, error) {
	var rows []row
	if err := s.db.WithContext(ctx).Order("date DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}

	records := make([]workout.Record, 0, len(rows))
	for _, r := range rows {
		records = append(records, fromRow(r))
	}
	return records, nil
}

func toRow(record workout.Record) (row, error) {
	date, err := workout.NormalizeTimestamp(record.Date)
	if err != nil {
		return row{}, fmt.Errorf("%w: date %q", ErrInvalidRecord, record.Date)
	}
	difficulty, err := ParseDifficulty(record.Difficulty)
	if err != nil {
		return row{}, err
	}
	for name, count := range map[string]workout.Count{"sets": record.Sets, "reps": record.Reps, "weight": record.Weight} {
		if !count.Valid {
			return row{}, fmt.Errorf("%w: %s is not a number", ErrInvalidRecord, name)
		}
	}

	return row{
		Date:        date,
		ID:          record.ID,
		Exercise:    record.Exercise,
		Progression: record.Progression,
		Sets:        record.Sets.Value,
		Reps:        record.Reps.Value,
		Weight:      record.Weight.Value,
		Difficulty:  string(difficulty),
		Notes:       record.Notes,
	}, nil
}

func fromRow(r row) workout.Record {
	return workout.Record{
		ID:          r.ID,
		Date:        r.Date,
		Exercise:    r.Exercise,
		Progression: r.Progression,
		Sets:        workout.Int(r.Sets),
		Reps:        workout.Int(r.Reps),
		Weight:      workout.Int(r.Weight),
		Difficulty:  r.Difficulty,
		Notes:       r.Notes,
	}
}
