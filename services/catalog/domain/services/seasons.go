package services

import "github.com/seanwirkus/Animal-Crossing-CE/services/catalog/domain/models"

// monthSeason maps a 1-based month number to its season.
var monthSeason = map[int]models.Season{
	1:  models.SeasonWinter,
	2:  models.SeasonWinter,
	3:  models.SeasonSpring,
	4:  models.SeasonSpring,
	5:  models.SeasonSpring,
	6:  models.SeasonSummer,
	7:  models.SeasonSummer,
	8:  models.SeasonSummer,
	9:  models.SeasonAutumn,
	10: models.SeasonAutumn,
	11: models.SeasonAutumn,
	12: models.SeasonWinter,
}

// MonthCell pairs a month number with its raw cell.
type MonthCell struct {
	Month int
	Value any
}

// SeasonTags returns the seasons in which the record is available, ordered
// by the first qualifying month in the order given (January first for
// workbook rows), never alphabetically.
func SeasonTags(months []MonthCell) []models.Season {
	tags := []models.Season{}
	seen := make(map[models.Season]bool)
	for _, m := range months {
		if CellText(m.Value) == "" {
			continue
		}
		season, ok := monthSeason[m.Month]
		if !ok || seen[season] {
			continue
		}
		seen[season] = true
		tags = append(tags, season)
	}
	return tags
}
