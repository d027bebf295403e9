package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/arloliu/simtrace/catalog"
)

// Record is one row of CollectionRecords.
//
// Data is only valid for the duration of the ScanRecords callback that
// receives it.
type Record struct {
	Tick         int64
	Data         []byte
	IsCompressed bool
}

// LoadCatalogRows reads every metadata table in one pass.
func (s *Store) LoadCatalogRows(ctx context.Context) (catalog.Rows, error) {
	var rows catalog.Rows
	if err := s.check(ctx); err != nil {
		return rows, err
	}

	err := s.queryEach(ctx, `SELECT Id, ParentID, Name FROM ElementTreeNodes ORDER BY Id`,
		func(r *sql.Rows) error {
			var e catalog.ElementRow
			if err := r.Scan(&e.ID, &e.ParentID, &e.Name); err != nil {
				return err
			}
			rows.Elements = append(rows.Elements, e)

			return nil
		})
	if err != nil {
		return rows, fmt.Errorf("load element tree: %w", err)
	}

	err = s.queryEach(ctx, `SELECT Id, ElementTreeNodeID, ClockID, DataType, AutoCollected FROM CollectableTreeNodes ORDER BY Id`,
		func(r *sql.Rows) error {
			var (
				c    catalog.CollectableRow
				auto int64
			)
			if err := r.Scan(&c.ID, &c.ElementID, &c.ClockID, &c.DataType, &auto); err != nil {
				return err
			}
			c.AutoCollected = auto != 0
			rows.Collectables = append(rows.Collectables, c)

			return nil
		})
	if err != nil {
		return rows, fmt.Errorf("load collectables: %w", err)
	}

	err = s.queryEach(ctx, `SELECT StructName, FieldName, FieldType, FormatCode, IsAutoColorizeKey, IsDisplayedByDefault FROM StructFields ORDER BY rowid`,
		func(r *sql.Rows) error {
			var (
				f                   catalog.StructFieldRow
				colorize, displayed int64
			)
			if err := r.Scan(&f.StructName, &f.FieldName, &f.FieldType, &f.FormatCode, &colorize, &displayed); err != nil {
				return err
			}
			f.AutoColorizeKey = colorize != 0
			f.DisplayedByDefault = displayed != 0
			rows.StructFields = append(rows.StructFields, f)

			return nil
		})
	if err != nil {
		return rows, fmt.Errorf("load struct fields: %w", err)
	}

	err = s.queryEach(ctx, `SELECT EnumName, EnumValStr, EnumValBlob, IntType FROM EnumDefns ORDER BY rowid`,
		func(r *sql.Rows) error {
			var e catalog.EnumRow
			if err := r.Scan(&e.EnumName, &e.Name, &e.Value, &e.IntType); err != nil {
				return err
			}
			rows.Enums = append(rows.Enums, e)

			return nil
		})
	if err != nil {
		return rows, fmt.Errorf("load enums: %w", err)
	}

	err = s.queryEach(ctx, `SELECT IntVal, String FROM StringMap`,
		func(r *sql.Rows) error {
			var sr catalog.StringRow
			if err := r.Scan(&sr.ID, &sr.String); err != nil {
				return err
			}
			rows.Strings = append(rows.Strings, sr)

			return nil
		})
	if err != nil {
		return rows, fmt.Errorf("load strings: %w", err)
	}

	err = s.queryEach(ctx, `SELECT Id, Name, Period FROM Clocks ORDER BY Id`,
		func(r *sql.Rows) error {
			var c catalog.ClockRow
			if err := r.Scan(&c.ID, &c.Name, &c.Period); err != nil {
				return err
			}
			rows.Clocks = append(rows.Clocks, c)

			return nil
		})
	if err != nil {
		return rows, fmt.Errorf("load clocks: %w", err)
	}

	err = s.queryEach(ctx, `SELECT CollectableTreeNodeID, MaxSize FROM QueueMaxSizes`,
		func(r *sql.Rows) error {
			var q catalog.QueueMaxSizeRow
			if err := r.Scan(&q.ElementID, &q.MaxSize); err != nil {
				return err
			}
			rows.QueueMaxSizes = append(rows.QueueMaxSizes, q)

			return nil
		})
	if err != nil {
		return rows, fmt.Errorf("load queue max sizes: %w", err)
	}

	return rows, nil
}

// Heartbeat returns the trace's heartbeat, or DefaultHeartbeat if the trace
// does not record one.
func (s *Store) Heartbeat(ctx context.Context) (int, error) {
	if err := s.check(ctx); err != nil {
		return 0, err
	}

	var hb int
	err := s.db.QueryRowContext(ctx, `SELECT Heartbeat FROM CollectionGlobals LIMIT 1`).Scan(&hb)
	if errors.Is(err, sql.ErrNoRows) {
		return DefaultHeartbeat, nil
	}
	if err != nil {
		return 0, fmt.Errorf("load heartbeat: %w", err)
	}

	return hb, nil
}

// Ticks returns every distinct tick with a record, ascending.
func (s *Store) Ticks(ctx context.Context) ([]int64, error) {
	if err := s.check(ctx); err != nil {
		return nil, err
	}

	var ticks []int64
	err := s.queryEach(ctx, `SELECT DISTINCT Tick FROM CollectionRecords ORDER BY Tick`,
		func(r *sql.Rows) error {
			var t int64
			if err := r.Scan(&t); err != nil {
				return err
			}
			ticks = append(ticks, t)

			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("load ticks: %w", err)
	}

	return ticks, nil
}

// ScanRecords calls fn for every record with from <= Tick <= to in ascending
// tick order. A negative bound leaves that side open.
//
// The Data slice passed to fn is reused between calls; fn must copy anything it
// retains. Scanning stops at the first error returned by fn.
func (s *Store) ScanRecords(ctx context.Context, from, to int64, fn func(Record) error) error {
	if err := s.check(ctx); err != nil {
		return err
	}

	query := `SELECT Tick, Data, IsCompressed FROM CollectionRecords`
	var (
		where []string
		args  []any
	)
	if from >= 0 {
		where = append(where, "Tick >= ?")
		args = append(args, from)
	}
	if to >= 0 {
		where = append(where, "Tick <= ?")
		args = append(args, to)
	}
	for i, w := range where {
		if i == 0 {
			query += " WHERE " + w
		} else {
			query += " AND " + w
		}
	}
	query += " ORDER BY Tick, rowid"

	return s.queryEach(ctx, query, func(r *sql.Rows) error {
		var (
			rec        Record
			data       sql.RawBytes
			compressed int64
		)
		if err := r.Scan(&rec.Tick, &data, &compressed); err != nil {
			return err
		}
		rec.Data = data
		rec.IsCompressed = compressed != 0

		return fn(rec)
	}, args...)
}

func (s *Store) queryEach(ctx context.Context, query string, fn func(*sql.Rows) error, args ...any) error {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		if err := fn(rows); err != nil {
			return err
		}
	}

	return rows.Err()
}
