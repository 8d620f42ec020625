package matching

import (
	"testing"

	"venti-agent/internal/domain"
)

func limaProfile() domain.Profile {
	return domain.Profile{
		Name:     "Valeria",
		Location: domain.UserLocation{City: "Lima", Country: "Perú"},
		Preferences: domain.Preferences{
			Interests: []string{"tech"},
			Tags:      []string{"ai"},
		},
	}
}

func TestScoreAdditive(t *testing.T) {
	event := domain.CatalogEvent{
		ID:       "evt-001",
		Title:    "AI Summit Lima",
		Category: "tech",
		Tags:     []string{"ai"},
		Location: domain.EventLocation{Venue: "Centro de Convenciones", City: "Lima"},
	}

	// 10 (tag) + 20 (category) + 20 (city)
	if got := Score(event, limaProfile(), ""); got != 50 {
		t.Fatalf("expected score 50, got %d", got)
	}
}

func TestScoreTagCap(t *testing.T) {
	event := domain.CatalogEvent{
		Tags: []string{"a", "b", "c", "d", "e", "f", "g"},
	}
	profile := domain.Profile{
		Preferences: domain.Preferences{Tags: []string{"a", "b", "c", "d", "e", "f", "g"}},
	}
	// 7 matching tags must still contribute only 50
	if got := Score(event, profile, ""); got != 50 {
		t.Fatalf("expected capped tag score 50, got %d", got)
	}
}

func TestScoreCaseInsensitive(t *testing.T) {
	event := domain.CatalogEvent{
		Category: "TECH",
		Tags:     []string{"AI"},
		Location: domain.EventLocation{City: "LIMA"},
	}
	if got := Score(event, limaProfile(), ""); got != 50 {
		t.Fatalf("expected score 50 with mixed case, got %d", got)
	}
}

func TestScoreIntentSingleBonus(t *testing.T) {
	event := domain.CatalogEvent{
		Title:       "Noche de jazz",
		Description: "jazz en vivo",
		Category:    "jazz",
		Tags:        []string{"jazz"},
	}
	profile := domain.Profile{}
	// intent hits title, description, category and tag; still a single +10
	if got := Score(event, profile, "jazz"); got != 10 {
		t.Fatalf("expected single intent bonus 10, got %d", got)
	}
	if got := Score(event, profile, ""); got != 0 {
		t.Fatalf("expected 0 without intent, got %d", got)
	}
}

func TestScoreIntentTagSubstring(t *testing.T) {
	event := domain.CatalogEvent{Tags: []string{"jazz"}}
	// the event tag appears inside the intent
	if got := Score(event, domain.Profile{}, "quiero música jazz en vivo"); got != 10 {
		t.Fatalf("expected 10 via tag-in-intent, got %d", got)
	}
}

func TestMatchFiltersZeroAndSorts(t *testing.T) {
	events := []domain.CatalogEvent{
		{ID: "low", Tags: []string{"ai"}},
		{ID: "none", Category: "cooking"},
		{ID: "high", Category: "tech", Tags: []string{"ai"}, Location: domain.EventLocation{City: "Lima"}},
	}

	got := Match(events, limaProfile(), "")
	if len(got) != 2 {
		t.Fatalf("expected 2 events, got %d", len(got))
	}
	if got[0].ID != "high" || got[1].ID != "low" {
		t.Fatalf("unexpected order: %s, %s", got[0].ID, got[1].ID)
	}
	for i := 1; i < len(got); i++ {
		if got[i].MatchScore > got[i-1].MatchScore {
			t.Fatalf("scores not non-increasing at %d", i)
		}
	}
}

func TestMatchStableOnTies(t *testing.T) {
	events := []domain.CatalogEvent{
		{ID: "first", Tags: []string{"ai"}},
		{ID: "second", Tags: []string{"ai"}},
		{ID: "third", Tags: []string{"ai"}},
	}
	got := Match(events, limaProfile(), "")
	if len(got) != 3 {
		t.Fatalf("expected 3 events, got %d", len(got))
	}
	if got[0].ID != "first" || got[1].ID != "second" || got[2].ID != "third" {
		t.Fatalf("catalog order not preserved on equal scores: %v", []string{got[0].ID, got[1].ID, got[2].ID})
	}
}

func TestMatchDeterministic(t *testing.T) {
	events := []domain.CatalogEvent{
		{ID: "a", Tags: []string{"ai"}, Category: "tech"},
		{ID: "b", Location: domain.EventLocation{City: "Lima"}},
	}
	first := Match(events, limaProfile(), "ai")
	for i := 0; i < 5; i++ {
		again := Match(events, limaProfile(), "ai")
		if len(again) != len(first) {
			t.Fatalf("run %d: length changed", i)
		}
		for j := range again {
			if again[j].ID != first[j].ID || again[j].MatchScore != first[j].MatchScore {
				t.Fatalf("run %d: output differs at %d", i, j)
			}
		}
	}
}

func TestScoreBounds(t *testing.T) {
	event := domain.CatalogEvent{
		Title:    "todo",
		Category: "tech",
		Tags:     []string{"a", "b", "c", "d", "e", "f"},
		Location: domain.EventLocation{City: "Lima"},
	}
	profile := domain.Profile{
		Location: domain.UserLocation{City: "Lima"},
		Preferences: domain.Preferences{
			Interests: []string{"tech"},
			Tags:      []string{"a", "b", "c", "d", "e", "f"},
		},
	}
	got := Score(event, profile, "todo")
	if got < 0 || got > 100 {
		t.Fatalf("score out of bounds: %d", got)
	}
	if got != 100 {
		t.Fatalf("expected clamp to 100, got %d", got)
	}
}
