package models

import "sort"

// Catalog is the id → record mapping produced by one run. It remembers the
// position at which each id was first stored; a later Put for the same id
// replaces the record in place (last write wins).
type Catalog struct {
	order []string
	byID  map[string]*ItemRecord
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{byID: make(map[string]*ItemRecord)}
}

// Put stores rec under rec.ID and returns the record it replaced, if any.
func (c *Catalog) Put(rec *ItemRecord) (replaced *ItemRecord) {
	prev, ok := c.byID[rec.ID]
	if !ok {
		c.order = append(c.order, rec.ID)
	}
	c.byID[rec.ID] = rec
	return prev
}

// Get returns the record stored under id.
func (c *Catalog) Get(id string) (*ItemRecord, bool) {
	rec, ok := c.byID[id]
	return rec, ok
}

// Len reports the number of distinct ids.
func (c *Catalog) Len() int {
	return len(c.order)
}

// Records returns the records in first-insertion order.
func (c *Catalog) Records() []*ItemRecord {
	out := make([]*ItemRecord, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out
}

// SortedIDs returns every id in lexicographic order.
func (c *Catalog) SortedIDs() []string {
	ids := append([]string(nil), c.order...)
	sort.Strings(ids)
	return ids
}
