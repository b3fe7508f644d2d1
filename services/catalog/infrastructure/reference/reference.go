// Package reference loads cached reference-service payloads used to fill gaps
// in workbook rows.
package reference

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tidwall/gjson"
)

// ErrInvalidPayload indicates a file that is not a JSON array or object.
var ErrInvalidPayload = errors.New("invalid reference payload")

// Entry is the subset of a reference payload the importer can use.
type Entry struct {
	Name        string
	Description string
	Location    string
	SellValue   int
}

// Index looks entries up by name, case-insensitively. A nil Index is empty.
type Index struct {
	byName map[string]Entry
}

// NewIndex builds an index from entries. Later entries win on name clashes.
func NewIndex(entries []Entry) *Index {
	idx := &Index{byName: make(map[string]Entry, len(entries))}
	for _, e := range entries {
		key := nameKey(e.Name)
		if key == "" {
			continue
		}
		idx.byName[key] = e
	}
	return idx
}

// Lookup returns the entry for name.
func (i *Index) Lookup(name string) (Entry, bool) {
	if i == nil {
		return Entry{}, false
	}
	e, ok := i.byName[nameKey(name)]
	return e, ok
}

// Len reports how many names are indexed.
func (i *Index) Len() int {
	if i == nil {
		return 0
	}
	return len(i.byName)
}

// FileError reports a payload file that could not be used.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string { return fmt.Sprintf("%s: %v", e.Path, e.Err) }
func (e *FileError) Unwrap() error { return e.Err }

// LoadDir indexes every *.json file in dir, in file-name order. Unusable
// files are skipped and returned as FileErrors; the error return is only set
// when dir itself cannot be listed.
func LoadDir(dir string) (*Index, []*FileError, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, nil, err
	}
	if _, err := os.Stat(dir); err != nil {
		return nil, nil, fmt.Errorf("reference dir: %w", err)
	}
	sort.Strings(paths)

	var (
		entries []Entry
		skipped []*FileError
	)
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			skipped = append(skipped, &FileError{Path: p, Err: err})
			continue
		}
		parsed, err := Parse(data)
		if err != nil {
			skipped = append(skipped, &FileError{Path: p, Err: err})
			continue
		}
		entries = append(entries, parsed...)
	}
	return NewIndex(entries), skipped, nil
}

// Parse reads one payload. It accepts an array of entries, a single entry
// object carrying a "name", or an object keyed by entity name.
func Parse(data []byte) ([]Entry, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrInvalidPayload
	}
	root := gjson.ParseBytes(data)

	var entries []Entry
	switch {
	case root.IsArray():
		root.ForEach(func(_, v gjson.Result) bool {
			if v.IsObject() {
				entries = append(entries, parseEntry("", v))
			}
			return true
		})
	case root.IsObject() && root.Get("name").Type == gjson.String:
		entries = append(entries, parseEntry("", root))
	case root.IsObject():
		root.ForEach(func(k, v gjson.Result) bool {
			if v.IsObject() {
				entries = append(entries, parseEntry(k.String(), v))
			}
			return true
		})
	default:
		return nil, ErrInvalidPayload
	}
	return entries, nil
}

func parseEntry(key string, v gjson.Result) Entry {
	e := Entry{
		Name:     strings.TrimSpace(v.Get("name").String()),
		Location: strings.TrimSpace(v.Get("location").String()),
	}
	if e.Name == "" {
		e.Name = strings.TrimSpace(key)
	}

	e.Description = strings.TrimSpace(v.Get("description").String())
	if e.Description == "" {
		e.Description = strings.TrimSpace(v.Get("catchphrases.0").String())
	}

	if sell := v.Get("sell_nook"); sell.Exists() && sell.Int() > 0 {
		e.SellValue = int(sell.Int())
	} else if sell := v.Get("sell"); sell.Exists() {
		e.SellValue = int(sell.Int())
	}
	return e
}

func nameKey(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
