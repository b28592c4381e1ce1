package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/dreamnet/dreamnet-backend/internal/types"
)

func TestCalculateAIScoreKeywordMatching(t *testing.T) {
	dream := &types.Dream{
		Title:       "AI Blockchain Tool",
		Description: "",
	}

	score, tags := CalculateAIScore(dream)

	// "ai" is an impact keyword and "blockchain" a tech keyword, both
	// matched as case-insensitive substrings.
	assert.Contains(t, tags, "impact:ai")
	assert.Contains(t, tags, "tech:blockchain")
	assert.GreaterOrEqual(t, score, impactPoints+techPoints)
}

func TestCalculateAIScoreBonuses(t *testing.T) {
	tests := []struct {
		name  string
		dream types.Dream
		want  int
	}{
		{
			name:  "empty dream scores zero",
			dream: types.Dream{},
			want:  0,
		},
		{
			name:  "max urgency",
			dream: types.Dream{Urgency: 5, Title: "zzz", Description: "zzz"},
			want:  20,
		},
		{
			name:  "flutterbye origin",
			dream: types.Dream{Origin: "flutterbye", Title: "zzz"},
			want:  10,
		},
		{
			name:  "origin match is case-insensitive",
			dream: types.Dream{Origin: "Flutterbye", Title: "zzz"},
			want:  10,
		},
		{
			name:  "technology flat bonus",
			dream: types.Dream{Title: "a technology project"},
			want:  6,
		},
		{
			name:  "innovation flat bonus awarded once per group",
			dream: types.Dream{Title: "revolutionary breakthrough"},
			want:  8,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, _ := CalculateAIScore(&tt.dream)
			assert.Equal(t, tt.want, score)
		})
	}
}

func TestCalculateAIScoreClampedToHundred(t *testing.T) {
	dream := &types.Dream{
		Urgency:     5,
		Origin:      "flutterbye",
		Title:       "innovative revolutionary technology for the future",
		Description: "ai health education climate community accessibility sustainability justice blockchain crypto nft defi web3 token dao smart contract metaverse protocol solana complex advanced",
	}

	score, _ := CalculateAIScore(dream)
	assert.Equal(t, 100, score)
}

func TestCalculateAIScoreMatchesTags(t *testing.T) {
	dream := &types.Dream{
		Title: "untitled",
		Tags:  datatypes.JSONSlice[string]{"climate", "DeFi"},
	}

	score, tags := CalculateAIScore(dream)
	assert.Contains(t, tags, "impact:climate")
	assert.Contains(t, tags, "tech:defi")
	assert.Equal(t, impactPoints+techPoints, score)
}

func TestCalculateDreamScoreSubScoreBounds(t *testing.T) {
	now := time.Now().UTC()
	huge := &types.Dream{
		Views:       100000,
		Likes:       100000,
		Comments:    100000,
		EditCount:   500,
		LastUpdated: now,
	}
	huge.Contributors = make(datatypes.JSONSlice[types.Contributor], 40)

	total, breakdown := CalculateDreamScore(huge, now)

	for name, sub := range map[string]int{
		"originality":   breakdown.Originality,
		"traction":      breakdown.Traction,
		"collaboration": breakdown.Collaboration,
		"updates":       breakdown.Updates,
	} {
		assert.GreaterOrEqual(t, sub, 0, name)
		assert.LessOrEqual(t, sub, 25, name)
	}
	assert.GreaterOrEqual(t, total, 0)
	assert.LessOrEqual(t, total, 100)
}

func TestCalculateDreamScoreOriginality(t *testing.T) {
	now := time.Now().UTC()

	uniqueness := 80
	precomputed := &types.Dream{UniquenessScore: &uniqueness}
	_, breakdown := CalculateDreamScore(precomputed, now)
	assert.Equal(t, 20, breakdown.Originality)

	over := 200
	clamped := &types.Dream{UniquenessScore: &over}
	_, breakdown = CalculateDreamScore(clamped, now)
	assert.Equal(t, 25, breakdown.Originality)

	// Fallback heuristic: common words pull the base down, innovative
	// words push it up.
	common := &types.Dream{Title: "a simple basic app"}
	_, commonBreakdown := CalculateDreamScore(common, now)
	novel := &types.Dream{Title: "a novel and unique approach"}
	_, novelBreakdown := CalculateDreamScore(novel, now)
	assert.Less(t, commonBreakdown.Originality, novelBreakdown.Originality)
}

func TestCalculateDreamScoreTraction(t *testing.T) {
	now := time.Now().UTC()
	dream := &types.Dream{Views: 50, Likes: 10, Comments: 5}

	_, breakdown := CalculateDreamScore(dream, now)
	// 50*0.1 + 10*0.5 + 5*1.0 = 15
	assert.Equal(t, 15, breakdown.Traction)
}

func TestCalculateDreamScoreCollaboration(t *testing.T) {
	now := time.Now().UTC()
	dream := &types.Dream{}
	dream.Contributors = datatypes.JSONSlice[types.Contributor]{
		{Wallet: "0xaaa", Role: types.RoleBuilder},
		{Wallet: "0xbbb", Role: types.RoleArtist},
		{Wallet: "0xccc", Role: types.RoleCoder},
	}

	_, breakdown := CalculateDreamScore(dream, now)
	assert.Equal(t, 9, breakdown.Collaboration)
}

func TestCalculateDreamScoreUpdates(t *testing.T) {
	now := time.Now().UTC()

	recent := &types.Dream{EditCount: 3, LastUpdated: now.Add(-24 * time.Hour)}
	_, breakdown := CalculateDreamScore(recent, now)
	assert.Equal(t, 11, breakdown.Updates)

	stale := &types.Dream{EditCount: 3, LastUpdated: now.Add(-60 * 24 * time.Hour)}
	_, breakdown = CalculateDreamScore(stale, now)
	assert.Equal(t, 6, breakdown.Updates)

	capped := &types.Dream{EditCount: 50, LastUpdated: now}
	_, breakdown = CalculateDreamScore(capped, now)
	require.Equal(t, 25, breakdown.Updates)
}
