package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/arloliu/simtrace/catalog"
)

// Tx writes trace rows inside one transaction.
type Tx struct {
	ctx context.Context
	tx  *sql.Tx
}

// WithTx runs fn in a transaction, committing if fn returns nil and rolling
// back otherwise.
func (s *Store) WithTx(ctx context.Context, fn func(*Tx) error) error {
	if err := s.check(ctx); err != nil {
		return err
	}
	if s.readOnly {
		return errors.New("store is read-only")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(&Tx{ctx: ctx, tx: tx}); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

func (t *Tx) exec(what, query string, args ...any) error {
	if _, err := t.tx.ExecContext(t.ctx, query, args...); err != nil {
		return fmt.Errorf("insert %s: %w", what, err)
	}

	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}

	return 0
}

// InsertElement inserts an element tree node.
func (t *Tx) InsertElement(e catalog.ElementRow) error {
	return t.exec("element", `INSERT INTO ElementTreeNodes (Id, ParentID, Name) VALUES (?, ?, ?)`,
		e.ID, e.ParentID, e.Name)
}

// InsertCollectable inserts a collectable tree node.
func (t *Tx) InsertCollectable(c catalog.CollectableRow) error {
	return t.exec("collectable", `
		INSERT INTO CollectableTreeNodes (Id, ElementTreeNodeID, ClockID, DataType, AutoCollected)
		VALUES (?, ?, ?, ?, ?)`,
		c.ID, c.ElementID, c.ClockID, c.DataType, boolInt(c.AutoCollected))
}

// InsertStructField appends a field to a struct layout.
func (t *Tx) InsertStructField(f catalog.StructFieldRow) error {
	return t.exec("struct field", `
		INSERT INTO StructFields (StructName, FieldName, FieldType, FormatCode, IsAutoColorizeKey, IsDisplayedByDefault)
		VALUES (?, ?, ?, ?, ?, ?)`,
		f.StructName, f.FieldName, f.FieldType, f.FormatCode, boolInt(f.AutoColorizeKey), boolInt(f.DisplayedByDefault))
}

// InsertEnumValue inserts one enumerator.
func (t *Tx) InsertEnumValue(e catalog.EnumRow) error {
	return t.exec("enum value", `INSERT INTO EnumDefns (EnumName, EnumValStr, EnumValBlob, IntType) VALUES (?, ?, ?, ?)`,
		e.EnumName, e.Name, e.Value, e.IntType)
}

// InsertString inserts an interned string.
func (t *Tx) InsertString(s catalog.StringRow) error {
	return t.exec("string", `INSERT INTO StringMap (IntVal, String) VALUES (?, ?)`, int64(s.ID), s.String)
}

// InsertClock inserts a clock.
func (t *Tx) InsertClock(c catalog.ClockRow) error {
	return t.exec("clock", `INSERT INTO Clocks (Id, Name, Period) VALUES (?, ?, ?)`, c.ID, c.Name, c.Period)
}

// SetGlobals replaces the CollectionGlobals row.
func (t *Tx) SetGlobals(heartbeat int, timeType string) error {
	if err := t.exec("globals", `DELETE FROM CollectionGlobals`); err != nil {
		return err
	}

	return t.exec("globals", `INSERT INTO CollectionGlobals (Heartbeat, TimeType) VALUES (?, ?)`, heartbeat, timeType)
}

// InsertRecord inserts the record of one tick.
func (t *Tx) InsertRecord(tick int64, data []byte, compressed bool) error {
	if data == nil {
		data = []byte{}
	}

	return t.exec("record", `INSERT INTO CollectionRecords (Tick, Data, IsCompressed) VALUES (?, ?, ?)`,
		tick, data, boolInt(compressed))
}

// InsertQueueMaxSize records a container's high-water mark.
func (t *Tx) InsertQueueMaxSize(q catalog.QueueMaxSizeRow) error {
	return t.exec("queue max size", `INSERT INTO QueueMaxSizes (CollectableTreeNodeID, MaxSize) VALUES (?, ?)`,
		q.ElementID, q.MaxSize)
}
