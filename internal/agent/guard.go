package agent

import (
	"regexp"

	"venti-agent/internal/catalog"
	"venti-agent/internal/domain"
	"venti-agent/internal/matching"
)

// hallucinationPatterns flag text that enumerates specific events or claims
// match percentages. Best-effort: false negatives are acceptable, a false
// positive on legitimate numbered text is a known tradeoff.
var hallucinationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?im)^\s*\d+\.\s*\*\*.+\*\*`),     // "1. **Jazz Night**"
	regexp.MustCompile(`(?i)\(match:\s*\d{1,3}\s*%\s*\)`), // "(Match: 85%)"
	regexp.MustCompile(`(?i)\(\s*\d{1,3}\s*%\s*match\)`),  // "(85% match)"
}

// Guard is the deterministic safety net that runs when no tool produced
// options: if the text looks like a fabricated event listing, it replaces
// the missing options with real catalog matches.
type Guard struct {
	catalog catalog.Repository
}

func NewGuard(cat catalog.Repository) *Guard {
	return &Guard{catalog: cat}
}

// Detect reports whether the text matches any fabrication pattern.
func (g *Guard) Detect(text string) bool {
	for _, p := range hallucinationPatterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}

// Rescue bypasses the model entirely: it matches the catalog with the
// original user message as intent and builds options the same way
// suggest_events would.
func (g *Guard) Rescue(profile domain.Profile, userMessage string) []domain.Option {
	scored := matching.Match(g.catalog.All(), profile, userMessage)
	if len(scored) > MaxOptions {
		scored = scored[:MaxOptions]
	}
	options := make([]domain.Option, 0, len(scored))
	for _, e := range scored {
		options = append(options, domain.OptionFromScored(e))
	}
	return options
}
