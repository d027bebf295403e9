package catalog

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/arloliu/simtrace/encoding"
	"github.com/arloliu/simtrace/errs"
	"github.com/arloliu/simtrace/format"
	"github.com/arloliu/simtrace/internal/collision"
	"github.com/arloliu/simtrace/internal/hash"
)

// ElementNode is one node of the element tree.
type ElementNode struct {
	ID       int64
	ParentID int64
	Name     string
}

// Collectable is a tracked element: an element node whose values are logged.
//
// ElementID doubles as the uint16 collectable id that prefixes each of the
// element's updates inside a tick record.
type Collectable struct {
	ID            int64
	ElementID     int64
	Path          string
	Tag           TypeTag
	AutoCollected bool
	ClockID       int64
	// Width is the encoded width of one value; for containers, of one element.
	Width int
}

// Clock is a simulation clock domain.
type Clock struct {
	ID     int64
	Name   string
	Period int64
}

// Catalog is the immutable metadata of a trace.
type Catalog struct {
	rootID   int64
	nodes    map[int64]*ElementNode
	children map[int64][]int64
	paths    map[int64]string

	// hashIndex resolves path hashes to element ids. Paths whose hash is shared
	// with another path live in exactIndex instead.
	hashIndex  map[uint64]int64
	exactIndex map[string]int64

	collectables map[int64]*Collectable // by element id
	structs      map[string]*encoding.StructLayout
	enums        map[string]*encoding.EnumTable
	strings      encoding.StringTable
	clocks       map[int64]Clock
	queueMax     map[int64]int // by element id
}

// New builds a catalog from the raw table rows.
//
// Loading happens in dependency order: strings and enums, then struct layouts
// (which reference enums and strings), then the element tree and path index,
// and finally collectables (whose type tags reference all of the above).
//
// Returns an error wrapping one of the errs sentinels if the metadata is
// inconsistent: unknown field or data types, a tree without exactly one root,
// duplicate paths, or references to unknown elements.
func New(rows Rows) (*Catalog, error) {
	c := &Catalog{
		nodes:        make(map[int64]*ElementNode, len(rows.Elements)),
		children:     make(map[int64][]int64),
		paths:        make(map[int64]string, len(rows.Elements)),
		hashIndex:    make(map[uint64]int64, len(rows.Elements)),
		exactIndex:   make(map[string]int64),
		collectables: make(map[int64]*Collectable, len(rows.Collectables)),
		structs:      make(map[string]*encoding.StructLayout),
		enums:        make(map[string]*encoding.EnumTable),
		strings:      make(encoding.StringTable, len(rows.Strings)),
		clocks:       make(map[int64]Clock, len(rows.Clocks)),
		queueMax:     make(map[int64]int),
	}

	for _, s := range rows.Strings {
		c.strings[s.ID] = s.String
	}
	if err := c.loadEnums(rows.Enums); err != nil {
		return nil, err
	}
	if err := c.loadStructs(rows.StructFields); err != nil {
		return nil, err
	}
	if err := c.loadTree(rows.Elements); err != nil {
		return nil, err
	}
	for _, clk := range rows.Clocks {
		c.clocks[clk.ID] = Clock(clk)
	}
	if err := c.loadCollectables(rows.Collectables); err != nil {
		return nil, err
	}
	c.loadQueueMaxSizes(rows.QueueMaxSizes)

	return c, nil
}

func (c *Catalog) loadEnums(rows []EnumRow) error {
	for _, r := range rows {
		table, ok := c.enums[r.EnumName]
		if !ok {
			base, ok := format.ParsePrimitive(r.IntType)
			if !ok {
				return fmt.Errorf("%w: enum %q declares %q", errs.ErrInvalidEnumType, r.EnumName, r.IntType)
			}

			var err error
			table, err = encoding.NewEnumTable(r.EnumName, base)
			if err != nil {
				return err
			}
			c.enums[r.EnumName] = table
		} else if base, _ := format.ParsePrimitive(r.IntType); base != table.Base() {
			return fmt.Errorf("%w: enum %q declares both %s and %q",
				errs.ErrInvalidEnumType, r.EnumName, table.Base(), r.IntType)
		}

		if err := table.AddBlob(r.Value, r.Name); err != nil {
			return err
		}
	}

	return nil
}

func (c *Catalog) loadStructs(rows []StructFieldRow) error {
	for _, r := range rows {
		layout, ok := c.structs[r.StructName]
		if !ok {
			layout = &encoding.StructLayout{Name: r.StructName}
			c.structs[r.StructName] = layout
		}
		layout.Fields = append(layout.Fields, encoding.FieldDescriptor{
			Name:               r.FieldName,
			Type:               r.FieldType,
			Display:            format.DisplayFormat(r.FormatCode), //nolint:gosec
			DisplayedByDefault: r.DisplayedByDefault,
			AutoColorizeKey:    r.AutoColorizeKey,
		})
	}

	for _, layout := range c.structs {
		if err := layout.Resolve(c.enums, c.strings); err != nil {
			return err
		}
	}

	return nil
}

func (c *Catalog) loadTree(rows []ElementRow) error {
	c.rootID = 0
	for i := range rows {
		node := ElementNode(rows[i])
		c.nodes[node.ID] = &node
		if node.ParentID == 0 {
			if c.rootID != 0 {
				return fmt.Errorf("%w: %d and %d", errs.ErrMultipleRoots, c.rootID, node.ID)
			}
			c.rootID = node.ID
		} else {
			c.children[node.ParentID] = append(c.children[node.ParentID], node.ID)
		}
	}
	if c.rootID == 0 {
		return errs.ErrMissingRoot
	}

	for _, ids := range c.children {
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	}

	tracker := collision.NewTracker()
	hashes := make(map[int64]uint64, len(c.nodes))
	for id := range c.nodes {
		if id == c.rootID {
			continue
		}

		path, err := c.buildPath(id)
		if err != nil {
			return err
		}
		h := hash.ID(path)
		if err := tracker.Track(path, h); err != nil {
			return err
		}
		c.paths[id] = path
		hashes[id] = h
	}

	for id, h := range hashes {
		if tracker.Collided(h) {
			c.exactIndex[c.paths[id]] = id
		} else {
			c.hashIndex[h] = id
		}
	}

	return nil
}

// buildPath joins node names from below the root down to id.
func (c *Catalog) buildPath(id int64) (string, error) {
	var names []string
	cur := id
	for cur != c.rootID {
		node, ok := c.nodes[cur]
		if !ok {
			return "", fmt.Errorf("%w: element %d is not reachable from the root", errs.ErrMissingRoot, id)
		}
		names = append(names, node.Name)
		cur = node.ParentID
		if len(names) > len(c.nodes) {
			return "", fmt.Errorf("%w: cycle at element %d", errs.ErrMissingRoot, id)
		}
	}

	for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
	}

	return strings.Join(names, "."), nil
}

func (c *Catalog) loadCollectables(rows []CollectableRow) error {
	isEnum := func(name string) bool {
		_, ok := c.enums[name]
		return ok
	}
	isStruct := func(name string) bool {
		_, ok := c.structs[name]
		return ok
	}

	for _, r := range rows {
		path, ok := c.paths[r.ElementID]
		if !ok {
			return fmt.Errorf("%w: collectable %d references element %d",
				errs.ErrUnknownPath, r.ID, r.ElementID)
		}
		if r.ElementID > math.MaxUint16 {
			return fmt.Errorf("%w: element id %d of %q does not fit a record header",
				errs.ErrInvalidDataType, r.ElementID, path)
		}

		tag, err := parseTypeTag(r.DataType, isEnum, isStruct)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}

		var width int
		switch tag.Kind {
		case KindScalar:
			width = tag.Primitive.Width()
		case KindEnum:
			width = c.enums[tag.Name].Width()
		default:
			width = c.structs[tag.Name].Width()
		}

		c.collectables[r.ElementID] = &Collectable{
			ID:            r.ID,
			ElementID:     r.ElementID,
			Path:          path,
			Tag:           tag,
			AutoCollected: r.AutoCollected,
			ClockID:       r.ClockID,
			Width:         width,
		}
	}

	return nil
}

// loadQueueMaxSizes records container high-water marks by element id. Rows
// naming an element that is not a tracked container are kept but never
// looked up; see UntrackedQueueMaxSizes.
func (c *Catalog) loadQueueMaxSizes(rows []QueueMaxSizeRow) {
	for _, r := range rows {
		c.queueMax[r.ElementID] = r.MaxSize
	}
}
