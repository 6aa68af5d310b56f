package content

import (
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("not found")

// Entry is anything a Catalog can address by id.
type Entry interface {
	EntryID() int
}

// Catalog is an immutable ordered collection. Slice order, not id order,
// defines adjacency.
type Catalog[T Entry] struct {
	items []T
	index map[int]int
}

func NewCatalog[T Entry](items []T) (*Catalog[T], error) {
	c := &Catalog[T]{
		items: append([]T(nil), items...),
		index: make(map[int]int, len(items)),
	}
	for i, it := range c.items {
		id := it.EntryID()
		if _, ok := c.index[id]; ok {
			return nil, fmt.Errorf("duplicate id %d", id)
		}
		c.index[id] = i
	}
	return c, nil
}

func (c *Catalog[T]) Len() int {
	if c == nil {
		return 0
	}
	return len(c.items)
}

// All returns a copy of the entries in catalog order.
func (c *Catalog[T]) All() []T {
	if c == nil {
		return nil
	}
	return append([]T(nil), c.items...)
}

func (c *Catalog[T]) First() (T, bool) {
	var zero T
	if c.Len() == 0 {
		return zero, false
	}
	return c.items[0], true
}

func (c *Catalog[T]) FindByID(id int) (T, error) {
	var zero T
	i := c.IndexOf(id)
	if i < 0 {
		return zero, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	return c.items[i], nil
}

// IndexOf returns the position of id, or -1 when absent.
func (c *Catalog[T]) IndexOf(id int) int {
	if c == nil {
		return -1
	}
	i, ok := c.index[id]
	if !ok {
		return -1
	}
	return i
}

func (c *Catalog[T]) Next(id int) (T, bool) {
	var zero T
	i := c.IndexOf(id)
	if i < 0 || i+1 >= len(c.items) {
		return zero, false
	}
	return c.items[i+1], true
}

func (c *Catalog[T]) HasNext(id int) bool {
	_, ok := c.Next(id)
	return ok
}

func (c *Catalog[T]) Previous(id int) (T, bool) {
	var zero T
	i := c.IndexOf(id)
	if i <= 0 {
		return zero, false
	}
	return c.items[i-1], true
}

func (c *Catalog[T]) HasPrevious(id int) bool {
	_, ok := c.Previous(id)
	return ok
}
