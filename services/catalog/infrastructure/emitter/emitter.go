// Package emitter turns a finished catalog into the two generated documents
// and writes them to disk.
package emitter

import (
	"github.com/seanwirkus/Animal-Crossing-CE/pkg/datatree"
	"github.com/seanwirkus/Animal-Crossing-CE/services/catalog/domain/models"
)

// Documents holds the rendered output of one run. Luau is nil when the
// literal-table module was not requested.
type Documents struct {
	JSON []byte
	Luau []byte
}

// RecordNode maps one record onto the shared tree, fields in catalog order.
func RecordNode(rec *models.ItemRecord) datatree.Node {
	seasons := make([]string, 0, len(rec.SeasonTags))
	for _, s := range rec.SeasonTags {
		seasons = append(seasons, string(s))
	}

	windows := make([]datatree.Node, 0, len(rec.TimeWindows))
	for _, w := range rec.TimeWindows {
		windows = append(windows, windowNode(w))
	}

	requirements := datatree.Null()
	if len(rec.Requirements) > 0 {
		requirements = datatree.Strings(rec.Requirements)
	}

	return datatree.Map(
		datatree.F("id", datatree.String(rec.ID)),
		datatree.F("name", datatree.String(rec.Name)),
		datatree.F("category", datatree.String(string(rec.Category))),
		datatree.F("baseValue", datatree.Int(int64(rec.BaseValue))),
		datatree.F("rarity", datatree.String(string(rec.Rarity))),
		datatree.F("description", datatree.String(rec.Description)),
		datatree.F("seasonTags", datatree.Strings(seasons)),
		datatree.F("timeWindows", datatree.List(windows...)),
		datatree.F("requirements", requirements),
	)
}

// windowNode writes the all-day window with integer hours, as the catalog has
// always published it; parsed windows keep their fractional form.
func windowNode(w models.TimeWindow) datatree.Node {
	if w.StartHour == 0 && w.EndHour == 24 {
		return datatree.Map(
			datatree.F("startHour", datatree.Int(0)),
			datatree.F("endHour", datatree.Int(24)),
		)
	}
	return datatree.Map(
		datatree.F("startHour", datatree.Float(w.StartHour)),
		datatree.F("endHour", datatree.Float(w.EndHour)),
	)
}

// CatalogTree maps the whole catalog, keyed by id in insertion order.
func CatalogTree(cat *models.Catalog) datatree.Node {
	records := cat.Records()
	fields := make([]datatree.Field, 0, len(records))
	for _, rec := range records {
		fields = append(fields, datatree.F(rec.ID, RecordNode(rec)))
	}
	return datatree.Map(fields...)
}

// Render produces the JSON interchange document and, when withLuau is set,
// the sparse Luau module with ids sorted.
func Render(cat *models.Catalog, withLuau bool) (Documents, error) {
	tree := CatalogTree(cat)

	jsonDoc, err := datatree.RenderJSON(tree)
	if err != nil {
		return Documents{}, err
	}
	docs := Documents{JSON: jsonDoc}
	if withLuau {
		docs.Luau = datatree.RenderLuau(tree, datatree.LuauOptions{
			SortRootKeys: true,
			OmitEmpty:    true,
		})
	}
	return docs, nil
}
