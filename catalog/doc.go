// Package catalog holds the metadata of a simtrace database: the element tree,
// which elements are collected and how, struct layouts, enum tables and the
// interned string table.
//
// A Catalog is built once from the raw table rows with New and is immutable
// afterwards; it is safe to share between any number of concurrent queries.
//
// # Type Tags
//
// Each collected element declares its type with a small grammar stored in the
// DataType column:
//
//	uint32_t                       scalar primitive
//	Stage                          enum (an EnumDefns name)
//	InstInfo                       struct (a StructFields name)
//	InstInfo_contig_capacity32     contiguous container of InstInfo, capacity 32
//	InstInfo_sparse_capacity64     sparse container of InstInfo, capacity 64
//
// The grammar is parsed exactly once, at load time, into a TypeTag.
package catalog
