// Package sqlite stores records in a local SQLite file through gorm, for
// single-shop installs that run without a database server.
package sqlite

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"tailor-backend/internal/store"
)

// recordRow is the gorm model behind every collection. Seq keeps insertion order.
type recordRow struct {
	Seq        int64     `gorm:"primaryKey;autoIncrement"`
	Collection string    `gorm:"size:64;not null;uniqueIndex:idx_records_collection_id"`
	RecordID   string    `gorm:"column:id;size:64;not null;uniqueIndex:idx_records_collection_id"`
	Data       string    `gorm:"type:text;not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (recordRow) TableName() string { return "records" }

func (r recordRow) record() store.Record {
	return store.Record{
		ID:        r.RecordID,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
		Data:      json.RawMessage(r.Data),
	}
}

type Store struct {
	db   *gorm.DB
	inTx bool
}

// Open opens (or creates) the database at dsn and migrates the records table.
// SQLite allows one writer, so the pool is capped at one connection.
func Open(dsn string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dsn, err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&recordRow{}); err != nil {
		return nil, fmt.Errorf("migrate sqlite: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) List(ctx context.Context, coll string) ([]store.Record, error) {
	var rows []recordRow
	err := s.db.WithContext(ctx).
		Where("collection = ?", coll).
		Order("seq").
		Find(&rows).Error
	if err != nil {
		return nil, store.Wrap("list", coll, "", err)
	}
	out := make([]store.Record, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.record())
	}
	return out, nil
}

// ListWhere selects records by a top-level JSON field using SQLite's JSON1
// functions.
func (s *Store) ListWhere(ctx context.Context, coll, field, value string) ([]store.Record, error) {
	var rows []recordRow
	err := s.db.WithContext(ctx).
		Where("collection = ? AND json_extract(data, ?) = ?", coll, "$."+field, value).
		Order("seq").
		Find(&rows).Error
	if err != nil {
		return nil, store.Wrap("list", coll, "", err)
	}
	out := make([]store.Record, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.record())
	}
	return out, nil
}

func (s *Store) Get(ctx context.Context, coll, id string) (store.Record, error) {
	row, err := s.find(s.db.WithContext(ctx), coll, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return store.Record{}, store.NotFound("get", coll, id)
	}
	if err != nil {
		return store.Record{}, store.Wrap("get", coll, id, err)
	}
	return row.record(), nil
}

func (s *Store) Put(ctx context.Context, coll, id string, data json.RawMessage) (store.Record, error) {
	var row recordRow
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		row, err = s.find(tx, coll, id)
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			row = recordRow{Collection: coll, RecordID: id, Data: string(data)}
			return tx.Create(&row).Error
		case err != nil:
			return err
		}
		row.Data = string(data)
		return tx.Save(&row).Error
	})
	if err != nil {
		return store.Record{}, store.Wrap("put", coll, id, err)
	}
	return row.record(), nil
}

func (s *Store) Append(ctx context.Context, coll string, data json.RawMessage) (store.Record, error) {
	row := recordRow{Collection: coll, RecordID: uuid.NewString(), Data: string(data)}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return store.Record{}, store.Wrap("append", coll, row.RecordID, err)
	}
	return row.record(), nil
}

func (s *Store) Remove(ctx context.Context, coll, id string) error {
	res := s.db.WithContext(ctx).
		Where("collection = ? AND id = ?", coll, id).
		Delete(&recordRow{})
	if res.Error != nil {
		return store.Wrap("remove", coll, id, res.Error)
	}
	if res.RowsAffected == 0 {
		return store.NotFound("remove", coll, id)
	}
	return nil
}

// InTx runs fn in a gorm transaction. Nested calls join the outer one.
func (s *Store) InTx(ctx context.Context, fn func(ctx context.Context, tx store.Store) error) error {
	if s.inTx {
		return fn(ctx, s)
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, &Store{db: tx, inTx: true})
	})
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Store) find(db *gorm.DB, coll, id string) (recordRow, error) {
	var row recordRow
	err := db.Where("collection = ? AND id = ?", coll, id).First(&row).Error
	return row, err
}
