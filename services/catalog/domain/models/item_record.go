package models

// Rarity is a tier derived purely from a record's base value.
type Rarity string

const (
	RarityCommon    Rarity = "Common"
	RarityUncommon  Rarity = "Uncommon"
	RarityRare      Rarity = "Rare"
	RarityUltraRare Rarity = "UltraRare"
)

// Season is a calendar season bucket.
type Season string

const (
	SeasonWinter Season = "Winter"
	SeasonSpring Season = "Spring"
	SeasonSummer Season = "Summer"
	SeasonAutumn Season = "Autumn"
)

// Category is the coarse classification assigned per source sheet.
type Category string

const (
	CategoryFish Category = "Fish"
	CategoryBug  Category = "Bug"
)

// TimeWindow is a period of the day in fractional hours. StartHour greater
// than EndHour means the window spans midnight.
type TimeWindow struct {
	StartHour float64 `json:"startHour" validate:"gte=0,lte=24"`
	EndHour   float64 `json:"endHour"   validate:"gte=0,lte=24"`
}

// ItemRecord is the normalized catalog entity built from one workbook row.
// Construct it with NewItemRecord; treat it as read-only afterwards.
type ItemRecord struct {
	ID           string       `json:"id"           validate:"required"`
	Name         string       `json:"name"         validate:"required"`
	Category     Category     `json:"category"     validate:"required"`
	BaseValue    int          `json:"baseValue"    validate:"gte=0"`
	Rarity       Rarity       `json:"rarity"       validate:"oneof=Common Uncommon Rare UltraRare"`
	Description  string       `json:"description"`
	SeasonTags   []Season     `json:"seasonTags"   validate:"unique,dive,oneof=Winter Spring Summer Autumn"`
	TimeWindows  []TimeWindow `json:"timeWindows"  validate:"dive"`
	Requirements []string     `json:"requirements" validate:"omitempty,unique"`
}

// RecordInput carries the derived values used to build an ItemRecord.
type RecordInput struct {
	ID           string
	Name         string
	Category     Category
	BaseValue    int
	Rarity       Rarity
	Description  string
	SeasonTags   []Season
	TimeWindows  []TimeWindow
	Requirements []string
}

// NewItemRecord builds a record that owns its slices, so later changes to
// the input cannot leak into the catalog. Nil season and window slices become
// empty; nil requirements stay nil because absence is meaningful.
func NewItemRecord(in RecordInput) *ItemRecord {
	rec := &ItemRecord{
		ID:          in.ID,
		Name:        in.Name,
		Category:    in.Category,
		BaseValue:   in.BaseValue,
		Rarity:      in.Rarity,
		Description: in.Description,
		SeasonTags:  append([]Season{}, in.SeasonTags...),
		TimeWindows: append([]TimeWindow{}, in.TimeWindows...),
	}
	if in.Requirements != nil {
		rec.Requirements = append([]string{}, in.Requirements...)
	}
	return rec
}
