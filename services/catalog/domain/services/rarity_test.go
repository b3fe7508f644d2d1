package services

import (
	"testing"

	"github.com/seanwirkus/Animal-Crossing-CE/services/catalog/domain/models"
)

func TestClassifyRarity(t *testing.T) {
	tests := []struct {
		value int
		want  models.Rarity
	}{
		{0, models.RarityCommon},
		{1, models.RarityCommon},
		{999, models.RarityCommon},
		{1000, models.RarityUncommon},
		{2999, models.RarityUncommon},
		{3000, models.RarityRare},
		{7999, models.RarityRare},
		{8000, models.RarityUltraRare},
		{15000, models.RarityUltraRare},
		{-5, models.RarityCommon},
	}
	for _, tt := range tests {
		if got := ClassifyRarity(tt.value); got != tt.want {
			t.Errorf("ClassifyRarity(%d) = %s, want %s", tt.value, got, tt.want)
		}
	}
}

func TestClassifyRarity_Monotonic(t *testing.T) {
	rank := map[models.Rarity]int{
		models.RarityCommon:    0,
		models.RarityUncommon:  1,
		models.RarityRare:      2,
		models.RarityUltraRare: 3,
	}
	prev := 0
	for v := 0; v <= 10000; v += 7 {
		r := rank[ClassifyRarity(v)]
		if r < prev {
			t.Fatalf("rarity decreased at %d", v)
		}
		prev = r
	}
}
