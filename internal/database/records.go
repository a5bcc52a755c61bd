package database

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Record is a row of one of the store's tables.
type Record interface {
	TableName() string
}

// Sized records report how many payload bytes they carry so the store can
// enforce its quota before writing.
type Sized interface {
	PayloadSize() int
}

// Declared secondary indexes per table, keyed by index name.
const (
	IndexDate    = "date"
	IndexEntryID = "entryId"
)

var indexColumns = map[string]map[string]string{
	"entries": {IndexDate: "date"},
	"photos":  {IndexEntryID: "entry_id"},
	"audios":  {IndexEntryID: "entry_id"},
}

// Tables lists every table in the order ClearAll wipes them: children first.
var Tables = []string{"audios", "photos", "entries", "settings"}

// Put inserts or overwrites rec by primary key in a single-table transaction.
func (d *Database) Put(ctx context.Context, rec Record) error {
	table := rec.TableName()
	if err := d.requireTable(ctx, table); err != nil {
		return err
	}

	if s, ok := rec.(Sized); ok && d.maxPayloadBytes > 0 && s.PayloadSize() > d.maxPayloadBytes {
		return fmt.Errorf("put %s (%d bytes, limit %d): %w", table, s.PayloadSize(), d.maxPayloadBytes, ErrQuotaExceeded)
	}

	err := d.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Save(rec).Error
	})
	if err != nil {
		return fmt.Errorf("put %s: %w: %w", table, ErrWriteFailed, err)
	}
	return nil
}

// Get looks a record up by primary key. A missing record is not an error:
// it returns nil, nil.
func Get[T Record](ctx context.Context, d *Database, key any) (*T, error) {
	var rec T
	if err := d.requireTable(ctx, rec.TableName()); err != nil {
		return nil, err
	}

	err := d.DB.WithContext(ctx).Where("id = ?", key).Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", rec.TableName(), err)
	}
	return &rec, nil
}

// GetAll returns every record of the table in no particular order.
func GetAll[T Record](ctx context.Context, d *Database) ([]T, error) {
	var zero T
	if err := d.requireTable(ctx, zero.TableName()); err != nil {
		return nil, err
	}

	var recs []T
	if err := d.DB.WithContext(ctx).Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("get all %s: %w", zero.TableName(), err)
	}
	return recs, nil
}

// GetByIndex returns the records whose indexed field equals key. Only the
// index declared for the table is accepted.
func GetByIndex[T Record](ctx context.Context, d *Database, index string, key any) ([]T, error) {
	var zero T
	table := zero.TableName()
	if err := d.requireTable(ctx, table); err != nil {
		return nil, err
	}

	column, ok := indexColumns[table][index]
	if !ok {
		return nil, fmt.Errorf("%s.%s: %w", table, index, ErrUnknownIndex)
	}

	var recs []T
	if err := d.DB.WithContext(ctx).Where(column+" = ?", key).Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("get %s by %s: %w", table, index, err)
	}
	return recs, nil
}

// ClearAll wipes every table. A failing table does not stop the others; all
// failures are joined into the returned error.
func (d *Database) ClearAll(ctx context.Context) error {
	var errs []error
	for _, table := range Tables {
		if err := d.clearTable(ctx, table); err != nil {
			d.logger.Warn("failed to clear table", "table", table, "error", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (d *Database) clearTable(ctx context.Context, table string) error {
	if err := d.requireTable(ctx, table); err != nil {
		return err
	}
	if err := d.DB.WithContext(ctx).Exec("DELETE FROM " + table).Error; err != nil {
		return fmt.Errorf("clear %s: %w: %w", table, ErrWriteFailed, err)
	}
	return nil
}

// DeleteOrphanAttachments removes photos and audios whose entry does not
// exist. Entries are only written after their attachments, so a failed
// submission can leave such rows behind.
func (d *Database) DeleteOrphanAttachments(ctx context.Context) (int64, error) {
	var deleted int64
	for _, table := range []string{"photos", "audios"} {
		if err := d.requireTable(ctx, table); err != nil {
			return deleted, err
		}
		result := d.DB.WithContext(ctx).Exec(
			"DELETE FROM " + table + " WHERE entry_id NOT IN (SELECT id FROM entries)",
		)
		if result.Error != nil {
			return deleted, fmt.Errorf("delete orphan %s: %w", table, result.Error)
		}
		deleted += result.RowsAffected
	}
	return deleted, nil
}
