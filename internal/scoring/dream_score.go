package scoring

import (
	"strings"
	"time"

	"github.com/dreamnet/dreamnet-backend/internal/types"
)

// Dream score is the sum of four sub-scores, each clamped to [0, 25], so the
// total never leaves [0, 100]. Missing fields score zero rather than erroring.

const (
	subScoreCap           = 25
	uniquenessScale       = 0.25
	originalityBase       = 10
	commonWordPenalty     = 2
	innovativeWordBonus   = 3
	lengthTermDivisor     = 100
	lengthTermCap         = 5
	viewWeight            = 0.1
	likeWeight            = 0.5
	commentWeight         = 1.0
	pointsPerContributor  = 3
	pointsPerEdit         = 2
	editPointsCap         = 20
	recentEditBonus       = 5
	recentEditWindowDays  = 30
)

var commonWords = []string{"app", "website", "platform", "simple", "basic"}

var innovativeWords = []string{"novel", "unique", "innovative", "original", "first"}

// CalculateDreamScore computes the composite community score and its
// per-component breakdown.
func CalculateDreamScore(dream *types.Dream, now time.Time) (int, types.ScoreBreakdown) {
	breakdown := types.ScoreBreakdown{
		Originality:   originalityScore(dream),
		Traction:      tractionScore(dream),
		Collaboration: collaborationScore(dream),
		Updates:       updatesScore(dream, now),
	}
	total := breakdown.Originality + breakdown.Traction + breakdown.Collaboration + breakdown.Updates
	return total, breakdown
}

func originalityScore(dream *types.Dream) int {
	if dream.UniquenessScore != nil {
		return clamp(int(float64(*dream.UniquenessScore)*uniquenessScale), 0, subScoreCap)
	}

	// Fallback heuristic when no uniqueness score was precomputed.
	text := searchText(dream)
	score := originalityBase
	for _, word := range commonWords {
		if strings.Contains(text, word) {
			score -= commonWordPenalty
		}
	}
	for _, word := range innovativeWords {
		if strings.Contains(text, word) {
			score += innovativeWordBonus
		}
	}
	lengthTerm := len(dream.Description) / lengthTermDivisor
	if lengthTerm > lengthTermCap {
		lengthTerm = lengthTermCap
	}
	return clamp(score+lengthTerm, 0, subScoreCap)
}

func tractionScore(dream *types.Dream) int {
	weighted := float64(dream.Views)*viewWeight +
		float64(dream.Likes)*likeWeight +
		float64(dream.Comments)*commentWeight
	return clamp(int(weighted), 0, subScoreCap)
}

func collaborationScore(dream *types.Dream) int {
	return clamp(len(dream.Contributors)*pointsPerContributor, 0, subScoreCap)
}

func updatesScore(dream *types.Dream, now time.Time) int {
	score := dream.EditCount * pointsPerEdit
	if score > editPointsCap {
		score = editPointsCap
	}
	if dream.EditCount > 0 && now.Sub(dream.LastUpdated) <= recentEditWindowDays*24*time.Hour {
		score += recentEditBonus
	}
	return clamp(score, 0, subScoreCap)
}
