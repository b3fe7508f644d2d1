package models

import "testing"

func TestNewItemRecord(t *testing.T) {
	in := RecordInput{
		ID:          "fish_bitterling",
		Name:        "Bitterling",
		Category:    CategoryFish,
		BaseValue:   900,
		Rarity:      RarityCommon,
		SeasonTags:  []Season{SeasonWinter},
		TimeWindows: []TimeWindow{{StartHour: 0, EndHour: 24}},
	}

	t.Run("copies slices", func(t *testing.T) {
		rec := NewItemRecord(in)
		in.SeasonTags[0] = SeasonSummer
		in.TimeWindows[0].EndHour = 4
		if rec.SeasonTags[0] != SeasonWinter {
			t.Fatalf("season leaked from input: %v", rec.SeasonTags)
		}
		if rec.TimeWindows[0].EndHour != 24 {
			t.Fatalf("window leaked from input: %v", rec.TimeWindows)
		}
	})

	t.Run("nil sets become empty", func(t *testing.T) {
		rec := NewItemRecord(RecordInput{ID: "bug_ant", Name: "Ant", Category: CategoryBug})
		if rec.SeasonTags == nil || len(rec.SeasonTags) != 0 {
			t.Fatalf("expected empty non-nil seasons, got %#v", rec.SeasonTags)
		}
		if rec.TimeWindows == nil || len(rec.TimeWindows) != 0 {
			t.Fatalf("expected empty non-nil windows, got %#v", rec.TimeWindows)
		}
	})

	t.Run("nil requirements stay nil", func(t *testing.T) {
		rec := NewItemRecord(RecordInput{ID: "bug_ant"})
		if rec.Requirements != nil {
			t.Fatalf("expected nil requirements, got %#v", rec.Requirements)
		}
		rec = NewItemRecord(RecordInput{ID: "bug_ant", Requirements: []string{"LocationRock"}})
		if len(rec.Requirements) != 1 {
			t.Fatalf("expected one requirement, got %#v", rec.Requirements)
		}
	})
}

func TestCatalog_LastWriteWins(t *testing.T) {
	c := NewCatalog()
	first := NewItemRecord(RecordInput{ID: "fish_koi", Name: "Koi"})
	other := NewItemRecord(RecordInput{ID: "fish_carp", Name: "Carp"})
	second := NewItemRecord(RecordInput{ID: "fish_koi", Name: "Koi (dup)"})

	if prev := c.Put(first); prev != nil {
		t.Fatalf("unexpected replaced record: %v", prev)
	}
	c.Put(other)
	if prev := c.Put(second); prev != first {
		t.Fatalf("expected first record to be replaced, got %v", prev)
	}

	if c.Len() != 2 {
		t.Fatalf("expected 2 ids, got %d", c.Len())
	}
	got, ok := c.Get("fish_koi")
	if !ok || got.Name != "Koi (dup)" {
		t.Fatalf("expected later record to win, got %+v", got)
	}

	recs := c.Records()
	if recs[0].ID != "fish_koi" || recs[1].ID != "fish_carp" {
		t.Fatalf("expected first-insertion order, got %s, %s", recs[0].ID, recs[1].ID)
	}

	ids := c.SortedIDs()
	if ids[0] != "fish_carp" || ids[1] != "fish_koi" {
		t.Fatalf("expected sorted ids, got %v", ids)
	}
}
