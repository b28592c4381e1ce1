package scoring

import (
	"strings"

	"github.com/dreamnet/dreamnet-backend/internal/types"
)

// The "AI" score is deterministic keyword-substring matching over the dream
// text, not a model call. Rules live in tables so weights can be tuned in one
// place instead of scattered conditionals.

type keywordRule struct {
	Keyword string
	Points  int
	Tag     string
}

const (
	urgencyBonus   = 20
	urgencyTrigger = 5
	originBonus    = 10
	bonusOrigin    = "flutterbye"
	impactPoints   = 10
	techPoints     = 3
	maxAIScore     = 100
)

var impactKeywords = []keywordRule{
	{Keyword: "ai", Points: impactPoints, Tag: "impact:ai"},
	{Keyword: "health", Points: impactPoints, Tag: "impact:health"},
	{Keyword: "education", Points: impactPoints, Tag: "impact:education"},
	{Keyword: "climate", Points: impactPoints, Tag: "impact:climate"},
	{Keyword: "community", Points: impactPoints, Tag: "impact:community"},
	{Keyword: "accessibility", Points: impactPoints, Tag: "impact:accessibility"},
	{Keyword: "sustainability", Points: impactPoints, Tag: "impact:sustainability"},
	{Keyword: "justice", Points: impactPoints, Tag: "impact:justice"},
}

var techKeywords = []keywordRule{
	{Keyword: "blockchain", Points: techPoints, Tag: "tech:blockchain"},
	{Keyword: "crypto", Points: techPoints, Tag: "tech:crypto"},
	{Keyword: "nft", Points: techPoints, Tag: "tech:nft"},
	{Keyword: "defi", Points: techPoints, Tag: "tech:defi"},
	{Keyword: "web3", Points: techPoints, Tag: "tech:web3"},
	{Keyword: "token", Points: techPoints, Tag: "tech:token"},
	{Keyword: "dao", Points: techPoints, Tag: "tech:dao"},
	{Keyword: "smart contract", Points: techPoints, Tag: "tech:smart-contract"},
	{Keyword: "metaverse", Points: techPoints, Tag: "tech:metaverse"},
	{Keyword: "protocol", Points: techPoints, Tag: "tech:protocol"},
	{Keyword: "solana", Points: techPoints, Tag: "tech:solana"},
}

// flatBonuses award once per group when any word in the group matches.
var flatBonuses = []struct {
	Words  []string
	Points int
	Tag    string
}{
	{Words: []string{"innovative", "revolutionary", "breakthrough"}, Points: 8, Tag: "innovation"},
	{Words: []string{"technology"}, Points: 6, Tag: "technology"},
	{Words: []string{"future", "next-gen", "tomorrow"}, Points: 4, Tag: "future"},
	{Words: []string{"complex", "advanced", "sophisticated"}, Points: 3, Tag: "complexity"},
}

// CalculateAIScore scores a dream from its urgency, origin and text content.
// Matching is case-insensitive substring search over title, description and
// tags. The result is clamped to [0, 100].
func CalculateAIScore(dream *types.Dream) (int, []string) {
	score := 0
	tags := []string{}

	if dream.Urgency == urgencyTrigger {
		score += urgencyBonus
	}
	if strings.EqualFold(dream.Origin, bonusOrigin) {
		score += originBonus
		tags = append(tags, "origin:"+bonusOrigin)
	}

	text := searchText(dream)

	for _, rule := range impactKeywords {
		if strings.Contains(text, rule.Keyword) {
			score += rule.Points
			tags = append(tags, rule.Tag)
		}
	}
	for _, rule := range techKeywords {
		if strings.Contains(text, rule.Keyword) {
			score += rule.Points
			tags = append(tags, rule.Tag)
		}
	}
	for _, bonus := range flatBonuses {
		for _, word := range bonus.Words {
			if strings.Contains(text, word) {
				score += bonus.Points
				tags = append(tags, bonus.Tag)
				break
			}
		}
	}

	return clamp(score, 0, maxAIScore), tags
}

func searchText(dream *types.Dream) string {
	parts := []string{dream.Title, dream.Description}
	parts = append(parts, dream.Tags...)
	return strings.ToLower(strings.Join(parts, " "))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
