package services

import "strings"

// LocationKeyword pairs a phrase found in "where/how" text with its tag.
type LocationKeyword struct {
	Phrase string
	Tag    string
}

// locationKeywords is scanned in full for every record. Specific phrases are
// listed before their generalizations; both match when both are present.
var locationKeywords = []LocationKeyword{
	{"Sea (raining)", "LocationSeaRain"},
	{"Sea (rainy days)", "LocationSeaRain"},
	{"Sea (rainy day)", "LocationSeaRain"},
	{"Sea (rain)", "LocationSeaRain"},
	{"Sea (rainstorm)", "LocationSeaRain"},
	{"Sea", "LocationSea"},
	{"River (Mouth)", "LocationRiverMouth"},
	{"River (Clifftop)", "LocationRiverClifftop"},
	{"River (Clifftop) (rainy days)", "LocationRiverClifftopRain"},
	{"River (Clifftop) (rainy day)", "LocationRiverClifftopRain"},
	{"River (Clifftop)", "LocationRiverClifftop"},
	{"River (raining)", "LocationRiverRain"},
	{"River (rainy days)", "LocationRiverRain"},
	{"River (rainy day)", "LocationRiverRain"},
	{"River (rainstorm)", "LocationRiverRain"},
	{"River", "LocationRiver"},
	{"Pond", "LocationPond"},
	{"Lake", "LocationLake"},
	{"Pier", "LocationPier"},
	{"Harbor", "LocationHarbor"},
	{"Clifftop", "LocationCliff"},
	{"On trees (any kind)", "LocationTree"},
	{"On trees (hardwood)", "LocationTreeHardwood"},
	{"On trees (cedar)", "LocationTreeCedar"},
	{"On coconut trees", "LocationTreePalm"},
	{"On palm trees", "LocationTreePalm"},
	{"On tree stumps", "LocationTreeStump"},
	{"On flowers", "LocationFlower"},
	{"On white flowers", "LocationFlowerWhite"},
	{"On pink flowers", "LocationFlowerPink"},
	{"Flying near flowers", "LocationFlyingFlower"},
	{"Flying", "LocationAir"},
	{"Underground", "LocationUnderground"},
	{"On rocks", "LocationRock"},
	{"On beach rocks", "LocationBeachRock"},
	{"On rotten turnips", "LocationRottenTurnip"},
	{"On rotten fruit", "LocationRottenFruit"},
	{"On fallen fruit", "LocationGroundFruit"},
	{"Shaking trees", "LocationTreeShake"},
	{"Hitting rocks", "LocationRockHit"},
	{"Near trash", "LocationTrash"},
	{"On villagers", "LocationVillager"},
	{"On flowers (rain)", "LocationFlowerRain"},
	{"Snowballs", "LocationSnowball"},
	{"Hot spring", "LocationHotSpring"},
	{"Any river", "LocationRiver"},
	{"Any except rain", "LocationDry"},
	{"Any weather", "LocationAnyWeather"},
}

// LocationKeywords returns a copy of the keyword table in scan order.
func LocationKeywords() []LocationKeyword {
	return append([]LocationKeyword(nil), locationKeywords...)
}

// LocationTags returns every tag whose phrase occurs in text (case-insensitive),
// in table order with duplicates collapsed. It returns nil, not an empty
// slice, when text is empty or nothing matched.
func LocationTags(text string) []string {
	haystack := strings.ToLower(CleanText(text))
	if haystack == "" {
		return nil
	}

	var tags []string
	seen := make(map[string]bool)
	for _, kw := range locationKeywords {
		if !strings.Contains(haystack, strings.ToLower(kw.Phrase)) {
			continue
		}
		if seen[kw.Tag] {
			continue
		}
		seen[kw.Tag] = true
		tags = append(tags, kw.Tag)
	}
	return tags
}
