// Package store reads simtrace databases.
//
// A trace is a SQLite file holding the element tree and type metadata next to
// one CollectionRecords row per tick. Store exposes the metadata as
// catalog.Rows and streams tick records in ascending tick order; it knows
// nothing about the record format itself.
//
// The write half (Tx) exists for fixtures and tools that synthesize traces;
// traces produced by the simulator are only ever opened read-only.
package store
