package catalog

// ElementRow is one row of ElementTreeNodes.
type ElementRow struct {
	ID       int64
	ParentID int64
	Name     string
}

// CollectableRow is one row of CollectableTreeNodes.
type CollectableRow struct {
	ID            int64
	ElementID     int64
	ClockID       int64
	DataType      string
	AutoCollected bool
}

// StructFieldRow is one row of StructFields. Rows of one struct must be given
// in declared field order.
type StructFieldRow struct {
	StructName         string
	FieldName          string
	FieldType          string
	FormatCode         int
	AutoColorizeKey    bool
	DisplayedByDefault bool
}

// EnumRow is one row of EnumDefns. Value holds the enumerator as raw
// little-endian bytes of IntType.
type EnumRow struct {
	EnumName string
	Name     string
	Value    []byte
	IntType  string
}

// StringRow is one row of StringMap.
type StringRow struct {
	ID     uint32
	String string
}

// ClockRow is one row of Clocks.
type ClockRow struct {
	ID     int64
	Name   string
	Period int64
}

// QueueMaxSizeRow is one row of QueueMaxSizes. The CollectableTreeNodeID
// column holds the container's element id, the same id that prefixes its
// updates in tick records.
type QueueMaxSizeRow struct {
	ElementID int64
	MaxSize   int
}

// Rows is the complete metadata of a trace as read from the store.
type Rows struct {
	Elements      []ElementRow
	Collectables  []CollectableRow
	StructFields  []StructFieldRow
	Enums         []EnumRow
	Strings       []StringRow
	Clocks        []ClockRow
	QueueMaxSizes []QueueMaxSizeRow
}
