package match

import (
	"log/slog"
	"strings"

	"RecipeImageScanner/internal/ports"
)

// minAcceptScore is the similarity a card must exceed to be accepted. Titles
// on third-party sites rarely match exactly (pluralization, subtitles, brand
// prefixes), so the threshold is loose, but it still rejects unrelated
// recipes.
const minAcceptScore = 0.3

// titleStrategy locates a card's display title; attr empty means visible
// text. Strategies run in order and the first non-empty result wins.
type titleStrategy struct {
	selector string
	attr     string
}

var titleStrategies = []titleStrategy{
	{selector: "a[title]", attr: "title"},
	{selector: "h3", attr: ""},
	{selector: "h2", attr: ""},
	{selector: "[class*=title]", attr: ""},
}

// Candidate pairs a search-result card with its similarity score against the
// target title. It is transient: the card handle dies with the rendered page.
type Candidate struct {
	Card  ports.Element
	Score float64
}

// Selector picks the best-matching result card for a recipe title.
type Selector struct {
	threshold float64
	logger    *slog.Logger
}

// NewSelector builds a selector with the fixed acceptance threshold.
func NewSelector(logger *slog.Logger) *Selector {
	return &Selector{threshold: minAcceptScore, logger: logger}
}

// Select scores every card against the target title and returns the best one,
// provided its score exceeds the threshold. Cards without extractable titles
// are skipped silently. Ties keep the first card encountered.
func (s *Selector) Select(targetTitle string, cards []ports.Element) (Candidate, bool) {
	target := strings.ToLower(Normalize(targetTitle))

	var best Candidate
	found := false
	for _, card := range cards {
		text := cardTitle(card)
		if text == "" {
			continue
		}

		score := Score(target, strings.ToLower(Normalize(text)))
		if !found || score > best.Score {
			best = Candidate{Card: card, Score: score}
			found = true
		}
	}

	if !found || best.Score <= s.threshold {
		if s.logger != nil {
			s.logger.Debug("no card accepted", "title", targetTitle, "cards", len(cards))
		}
		return Candidate{}, false
	}

	return best, true
}

// cardTitle extracts a card's display title through the strategy list.
func cardTitle(card ports.Element) string {
	for _, st := range titleStrategies {
		var text string
		if st.attr != "" {
			text, _ = card.Attr(st.selector, st.attr)
		} else {
			text = card.Text(st.selector)
		}
		if trimmed := strings.TrimSpace(text); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
