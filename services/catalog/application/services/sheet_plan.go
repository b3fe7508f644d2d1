package services

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	pkgvalidator "github.com/seanwirkus/Animal-Crossing-CE/pkg/validator"
	"github.com/seanwirkus/Animal-Crossing-CE/services/catalog/domain/models"
	domainsvcs "github.com/seanwirkus/Animal-Crossing-CE/services/catalog/domain/services"
)

// SheetSpec says how one workbook sheet maps onto the catalog.
type SheetSpec struct {
	Sheet    string          `yaml:"sheet"    json:"sheet"    validate:"required"`
	Category models.Category `yaml:"category" json:"category" validate:"required"`
	// Prefix is prepended to every id from the sheet. Defaults to the
	// lower-cased category.
	Prefix string `yaml:"prefix" json:"prefix" validate:"omitempty,max=32"`
	// Required makes a sheet that yields no records fatal for the run.
	Required bool `yaml:"required" json:"required"`
}

// SheetPlan is the ordered list of sheets a run reads. Later sheets win id
// collisions.
type SheetPlan struct {
	Sheets []SheetSpec `yaml:"sheets" json:"sheets" validate:"required,min=1,dive"`
}

// DefaultSheetPlan reads fish then insects.
func DefaultSheetPlan() SheetPlan {
	return SheetPlan{Sheets: []SheetSpec{
		{Sheet: "Fish", Category: models.CategoryFish, Prefix: "fish"},
		{Sheet: "Insects", Category: models.CategoryBug, Prefix: "bug"},
	}}
}

// LoadSheetPlan reads a YAML sheet plan from path.
func LoadSheetPlan(path string) (SheetPlan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return SheetPlan{}, fmt.Errorf("read sheet plan: %w", err)
	}
	return ParseSheetPlan(data)
}

// ParseSheetPlan decodes and validates a YAML sheet plan. Unknown keys are
// rejected so a typo cannot silently drop a setting.
func ParseSheetPlan(data []byte) (SheetPlan, error) {
	var plan SheetPlan
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&plan); err != nil {
		return SheetPlan{}, fmt.Errorf("decode sheet plan: %w", err)
	}
	for i := range plan.Sheets {
		if plan.Sheets[i].Prefix == "" && plan.Sheets[i].Category != "" {
			plan.Sheets[i].Prefix = domainsvcs.Slugify(string(plan.Sheets[i].Category), "")
		}
	}
	if err := pkgvalidator.Validate(&plan); err != nil {
		return SheetPlan{}, fmt.Errorf("invalid sheet plan: %s", pkgvalidator.Summary(err))
	}
	return plan, nil
}
