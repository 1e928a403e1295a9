package detect

import (
	"math"
	"regexp"
	"strings"
)

// Pre-compiled structural detectors (compiled once, used per message).
var (
	reURL       = regexp.MustCompile(`https?://[^\s]+`)
	rePhoneRun  = regexp.MustCompile(`[+]?[0-9]{10,12}`)
	reUPIHandle = regexp.MustCompile(`[a-zA-Z0-9._-]+@[a-zA-Z]+`)
)

// Signal is the outcome of scoring one message.
type Signal struct {
	IsScam        bool
	Score         int
	Keywords      []string   // deduplicated hit keywords, insertion order
	CategoriesHit []Category // distinct categories triggered by this message
}

// Score analyzes text for scam indicators with combo scoring. History, when
// supplied, contributes cross-turn boosts. The threshold is deliberately
// permissive: a single matched keyword marks the message.
func Score(text string, history []string) Signal {
	textLower := strings.ToLower(text)

	var (
		keywords []string
		score    int
		hit      = map[Category]bool{}
		hitOrder []Category
	)

	markCategory := func(c Category) {
		if !hit[c] {
			hit[c] = true
			hitOrder = append(hitOrder, c)
		}
	}
	addKeyword := func(kw string) {
		for _, existing := range keywords {
			if existing == kw {
				return
			}
		}
		keywords = append(keywords, kw)
	}

	for _, cat := range Categories {
		for _, phrase := range cat.Phrases {
			if strings.Contains(textLower, phrase) {
				addKeyword(phrase)
				score += cat.Weight
				markCategory(cat.Name)
			}
		}
	}

	if reURL.MatchString(textLower) {
		addKeyword(MarkerURL)
		score += 2
		markCategory(CategoryAction)
	}
	if rePhoneRun.MatchString(text) {
		addKeyword(MarkerPhone)
		score++
	}
	if reUPIHandle.MatchString(textLower) {
		addKeyword(MarkerUPI)
		score += 2
		markCategory(CategoryFinancial)
	}

	for _, combo := range ComboBonuses {
		if hit[combo.A] && hit[combo.B] {
			score += combo.Bonus
		}
	}

	if len(history) > 0 {
		score += historyBoost(history)
	}

	return Signal{
		IsScam:        score >= 1,
		Score:         score,
		Keywords:      keywords,
		CategoriesHit: hitOrder,
	}
}

// historyBoost rewards persistence across the transcript: repeated financial
// pressure and multi-category campaigns outrank one-off messages.
func historyBoost(history []string) int {
	joined := strings.ToLower(strings.Join(history, " "))

	boost := 0
	financial := categoryByName(CategoryFinancial)
	mentions := 0
	for _, phrase := range financial.Phrases {
		if strings.Contains(joined, phrase) {
			mentions++
		}
	}
	if mentions >= 2 {
		boost += 2
	}

	distinct := 0
	for _, cat := range Categories {
		for _, phrase := range cat.Phrases {
			if strings.Contains(joined, phrase) {
				distinct++
				break
			}
		}
	}
	switch {
	case distinct >= 3:
		boost += 3
	case distinct == 2:
		boost += 2
	}
	return boost
}

// Confidence maps a raw score plus evidence densities to [0.05, 0.99].
// A zero score always yields the floor regardless of other inputs.
func Confidence(score, keywordCount, categoriesHit, historyLen int) float64 {
	if score == 0 {
		return 0.05
	}

	keywordFactor := math.Min(float64(keywordCount)/10.0, 1.0)
	diversityFactor := math.Min(float64(categoriesHit)/5.0, 1.0)
	depthFactor := math.Min(float64(historyLen)/8.0, 1.0)
	scoreSigmoid := 1.0 / (1.0 + math.Exp(-0.5*(float64(score)-5)))

	confidence := 0.40*scoreSigmoid +
		0.25*keywordFactor +
		0.20*diversityFactor +
		0.15*depthFactor

	confidence = math.Max(0.05, math.Min(0.99, confidence))
	return math.Round(confidence*1000) / 1000
}

// SuspiciousKeywords returns phrase hits for text, capped at max entries.
// Used to seed the intelligence report's keyword field.
func SuspiciousKeywords(text string, max int) []string {
	textLower := strings.ToLower(text)
	var found []string
	for _, cat := range Categories {
		for _, phrase := range cat.Phrases {
			if !strings.Contains(textLower, phrase) {
				continue
			}
			dup := false
			for _, f := range found {
				if f == phrase {
					dup = true
					break
				}
			}
			if !dup {
				found = append(found, phrase)
				if len(found) >= max {
					return found
				}
			}
		}
	}
	return found
}
