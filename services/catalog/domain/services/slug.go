package services

import (
	"fmt"
	"regexp"
	"strings"
)

var nonAlnumRun = regexp.MustCompile(`[^0-9a-z]+`)

// Slugify lower-cases name, collapses every run of non-alphanumeric
// characters into "_" and prefixes the result with prefix unless it already
// starts with it. An empty slug becomes "item".
func Slugify(name, prefix string) string {
	safe := strings.Trim(nonAlnumRun.ReplaceAllString(strings.ToLower(name), "_"), "_")
	if safe == "" {
		safe = "item"
	}
	if prefix == "" || strings.HasPrefix(safe, prefix) {
		return safe
	}
	return prefix + "_" + safe
}

// Origin identifies the workbook row that produced an identifier.
type Origin struct {
	Sheet string
	Row   int
	Name  string
}

func (o Origin) String() string {
	return fmt.Sprintf("%s row %d (%q)", o.Sheet, o.Row, o.Name)
}

// Allocator hands out identifiers for a single run. It memoizes slugs so the
// same (prefix, name) always yields the same id, and remembers which row
// claimed each id. Create one per run; it is not safe for concurrent use.
type Allocator struct {
	slugs  map[slugKey]string
	owners map[string]Origin
}

type slugKey struct {
	prefix string
	name   string
}

// NewAllocator returns an empty allocator.
func NewAllocator() *Allocator {
	return &Allocator{
		slugs:  make(map[slugKey]string),
		owners: make(map[string]Origin),
	}
}

// Slug returns the memoized slug for name under prefix.
func (a *Allocator) Slug(name, prefix string) string {
	key := slugKey{prefix: prefix, name: name}
	if id, ok := a.slugs[key]; ok {
		return id
	}
	id := Slugify(name, prefix)
	a.slugs[key] = id
	return id
}

// Claim records origin as the owner of id. When id was already claimed it
// returns the previous owner and true; the new origin becomes the owner.
func (a *Allocator) Claim(id string, origin Origin) (previous Origin, collided bool) {
	previous, collided = a.owners[id]
	a.owners[id] = origin
	return previous, collided
}
