package catalog

import (
	"fmt"
	"sort"

	"github.com/arloliu/simtrace/encoding"
	"github.com/arloliu/simtrace/errs"
	"github.com/arloliu/simtrace/internal/hash"
)

// Resolve returns the element id of a dotted path.
func (c *Catalog) Resolve(path string) (int64, error) {
	if id, ok := c.hashIndex[hash.ID(path)]; ok && c.paths[id] == path {
		return id, nil
	}
	if id, ok := c.exactIndex[path]; ok {
		return id, nil
	}

	return 0, fmt.Errorf("%w: %q", errs.ErrUnknownPath, path)
}

// Path returns the dotted path of an element.
func (c *Catalog) Path(id int64) (string, bool) {
	p, ok := c.paths[id]
	return p, ok
}

// Root returns the synthetic root node.
func (c *Catalog) Root() ElementNode {
	return *c.nodes[c.rootID]
}

// Node returns an element node by id.
func (c *Catalog) Node(id int64) (ElementNode, bool) {
	n, ok := c.nodes[id]
	if !ok {
		return ElementNode{}, false
	}

	return *n, true
}

// Children returns the ids of an element's children in ascending order.
func (c *Catalog) Children(id int64) []int64 {
	return append([]int64(nil), c.children[id]...)
}

// Collectable returns the tracked element with the given element id.
func (c *Catalog) Collectable(id int64) (*Collectable, error) {
	col, ok := c.collectables[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", errs.ErrUnknownCollectable, id)
	}

	return col, nil
}

// CollectableByPath resolves path and returns its tracked element.
func (c *Catalog) CollectableByPath(path string) (*Collectable, error) {
	id, err := c.Resolve(path)
	if err != nil {
		return nil, err
	}
	col, err := c.Collectable(id)
	if err != nil {
		return nil, fmt.Errorf("%q: %w", path, err)
	}

	return col, nil
}

// Collectables returns every tracked element ordered by element id.
func (c *Catalog) Collectables() []*Collectable {
	out := make([]*Collectable, 0, len(c.collectables))
	for _, col := range c.collectables {
		out = append(out, col)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ElementID < out[j].ElementID })

	return out
}

// TypeTag returns the type tag of a tracked element.
func (c *Catalog) TypeTag(id int64) (TypeTag, error) {
	col, err := c.Collectable(id)
	if err != nil {
		return TypeTag{}, err
	}

	return col.Tag, nil
}

// Tracked reports whether an element is collected.
func (c *Catalog) Tracked(id int64) bool {
	_, ok := c.collectables[id]
	return ok
}

// ElementWidth returns the encoded width of one value of a tracked element.
func (c *Catalog) ElementWidth(id int64) (int, error) {
	col, err := c.Collectable(id)
	if err != nil {
		return 0, err
	}

	return col.Width, nil
}

// StructLayout returns a struct layout by struct name.
func (c *Catalog) StructLayout(name string) (*encoding.StructLayout, error) {
	l, ok := c.structs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", errs.ErrUnknownStruct, name)
	}

	return l, nil
}

// EnumTable returns an enum table by enum name.
func (c *Catalog) EnumTable(name string) (*encoding.EnumTable, error) {
	t, ok := c.enums[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", errs.ErrUnknownEnum, name)
	}

	return t, nil
}

// InternString returns the interned string with the given id.
func (c *Catalog) InternString(id uint32) (string, error) {
	return c.strings.Lookup(id)
}

// Strings returns the interned string table. The table must not be modified.
func (c *Catalog) Strings() encoding.StringTable {
	return c.strings
}

// Clock returns a clock by id.
func (c *Catalog) Clock(id int64) (Clock, bool) {
	clk, ok := c.clocks[id]
	return clk, ok
}

// UntrackedQueueMaxSizes returns the element ids that have a recorded
// high-water mark but are not tracked containers, in ascending order.
func (c *Catalog) UntrackedQueueMaxSizes() []int64 {
	var ids []int64
	for id := range c.queueMax {
		if col, ok := c.collectables[id]; ok && col.Tag.IsContainer() {
			continue
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	return ids
}

// QueueMaxSize returns the recorded high-water mark of a container element.
func (c *Catalog) QueueMaxSize(id int64) (int, bool) {
	n, ok := c.queueMax[id]
	return n, ok
}

// TrackedPaths returns the paths of all tracked elements, sorted.
func (c *Catalog) TrackedPaths() []string {
	return c.pathsWhere(func(*Collectable) bool { return true })
}

// ScalarPaths returns the sorted paths of tracked primitive and enum elements.
func (c *Catalog) ScalarPaths() []string {
	return c.pathsWhere(func(col *Collectable) bool {
		return col.Tag.Kind == KindScalar || col.Tag.Kind == KindEnum
	})
}

// StructPaths returns the sorted paths of tracked single-struct elements.
func (c *Catalog) StructPaths() []string {
	return c.pathsWhere(func(col *Collectable) bool { return col.Tag.Kind == KindStruct })
}

// ContainerPaths returns the sorted paths of tracked containers.
func (c *Catalog) ContainerPaths() []string {
	return c.pathsWhere(func(col *Collectable) bool { return col.Tag.IsContainer() })
}

func (c *Catalog) pathsWhere(keep func(*Collectable) bool) []string {
	var out []string
	for _, col := range c.collectables {
		if keep(col) {
			out = append(out, col.Path)
		}
	}
	sort.Strings(out)

	return out
}
