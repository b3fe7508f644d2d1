package services

import "github.com/seanwirkus/Animal-Crossing-CE/services/catalog/domain/models"

type rarityThreshold struct {
	min   int
	label models.Rarity
}

// rarityThresholds must stay ascending.
var rarityThresholds = []rarityThreshold{
	{0, models.RarityCommon},
	{1_000, models.RarityUncommon},
	{3_000, models.RarityRare},
	{8_000, models.RarityUltraRare},
}

// ClassifyRarity returns the label of the last threshold not above baseValue.
// Values below every threshold are Common.
func ClassifyRarity(baseValue int) models.Rarity {
	label := models.RarityCommon
	for _, t := range rarityThresholds {
		if baseValue < t.min {
			break
		}
		label = t.label
	}
	return label
}
