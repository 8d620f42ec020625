// Package matching scores catalog events against a user profile and an
// optional free-text intent. It is pure: for a fixed event slice, profile
// and intent the result is exactly reproducible.
package matching

import (
	"sort"
	"strings"

	"venti-agent/internal/domain"
)

const (
	tagPoints      = 10
	tagPointsCap   = 50
	interestPoints = 20
	cityPoints     = 20
	intentPoints   = 10
	maxScore       = 100
)

// Score computes the additive match score for one event. Zero means no
// signal matched at all.
func Score(event domain.CatalogEvent, profile domain.Profile, intent string) int {
	score := 0

	// Tag overlap, capped at 5 matching tags
	tagScore := 0
	for _, tag := range event.Tags {
		for _, pTag := range profile.Preferences.Tags {
			if strings.EqualFold(tag, pTag) {
				tagScore += tagPoints
				break
			}
		}
	}
	if tagScore > tagPointsCap {
		tagScore = tagPointsCap
	}
	score += tagScore

	// Interest/category match, single fixed bonus
	for _, interest := range profile.Preferences.Interests {
		if strings.EqualFold(interest, event.Category) {
			score += interestPoints
			break
		}
	}

	// Location match
	if strings.EqualFold(event.Location.City, profile.Location.City) {
		score += cityPoints
	}

	// Intent keyword match, single fixed bonus regardless of how many signals hit
	if intent != "" && intentMatches(event, intent) {
		score += intentPoints
	}

	if score > maxScore {
		score = maxScore
	}
	return score
}

func intentMatches(event domain.CatalogEvent, intent string) bool {
	intentLower := strings.ToLower(intent)
	if strings.Contains(strings.ToLower(event.Title), intentLower) ||
		strings.Contains(strings.ToLower(event.Description), intentLower) ||
		strings.Contains(strings.ToLower(event.Category), intentLower) {
		return true
	}
	for _, tag := range event.Tags {
		if strings.Contains(intentLower, strings.ToLower(tag)) {
			return true
		}
	}
	return false
}

// Match scores every event and returns the ones with a positive score,
// sorted by score descending. Ties keep catalog order.
func Match(events []domain.CatalogEvent, profile domain.Profile, intent string) []domain.ScoredEvent {
	var out []domain.ScoredEvent
	for _, event := range events {
		score := Score(event, profile, intent)
		if score == 0 {
			continue
		}
		out = append(out, domain.ScoredEvent{CatalogEvent: event, MatchScore: score})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].MatchScore > out[j].MatchScore
	})
	return out
}
