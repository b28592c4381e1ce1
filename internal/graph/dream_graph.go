package graph

import (
	"context"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/dreamnet/dreamnet-backend/internal/logger"
	"github.com/dreamnet/dreamnet-backend/internal/types"
)

// SyncDream mirrors a dream and its creator wallet into neo4j. A nil
// client is a no-op so callers never need to check whether mirroring is
// configured.
func SyncDream(ctx context.Context, client *Client, log *logger.Logger, dream *types.Dream) error {
	if client == nil || dream == nil {
		return nil
	}
	now := time.Now().UTC().Format(time.RFC3339)

	dreamNode := map[string]any{
		"id":          dream.ID.String(),
		"title":       dream.Title,
		"status":      string(dream.DreamStatus),
		"dream_score": dream.DreamScore,
		"evolved":     dream.Evolved,
		"synced_at":   now,
	}
	if dream.AIScore != nil {
		dreamNode["ai_score"] = *dream.AIScore
	}

	session := client.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: client.Database,
	})
	defer session.Close(ctx)

	initSchema(ctx, session, log)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		if res, err := tx.Run(ctx, `
MERGE (w:Wallet {address: $wallet})
SET w.synced_at = $synced_at
WITH w
MERGE (d:Dream {id: $dream.id})
SET d += $dream
MERGE (w)-[e:DREAMED]->(d)
SET e.synced_at = $synced_at
`, map[string]any{
			"wallet":    dream.Wallet,
			"dream":     dreamNode,
			"synced_at": now,
		}); err != nil {
			return nil, err
		} else if _, err := res.Consume(ctx); err != nil {
			return nil, err
		}

		for _, tag := range dream.Tags {
			if tag == "" {
				continue
			}
			if res, err := tx.Run(ctx, `
MATCH (d:Dream {id: $dream_id})
MERGE (t:Tag {name: $tag})
MERGE (d)-[e:TAGGED]->(t)
SET e.synced_at = $synced_at
`, map[string]any{
				"dream_id":  dream.ID.String(),
				"tag":       tag,
				"synced_at": now,
			}); err != nil {
				return nil, err
			} else if _, err := res.Consume(ctx); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	return err
}

// SyncCocoon mirrors a cocoon, its parent dream edge, and contributor
// wallets into neo4j.
func SyncCocoon(ctx context.Context, client *Client, log *logger.Logger, cocoon *types.Cocoon) error {
	if client == nil || cocoon == nil {
		return nil
	}
	now := time.Now().UTC().Format(time.RFC3339)

	cocoonNode := map[string]any{
		"id":          cocoon.ID.String(),
		"title":       cocoon.Title,
		"stage":       string(cocoon.Stage),
		"dream_score": cocoon.DreamScore,
		"minted":      cocoon.Minted,
		"synced_at":   now,
	}

	contributorRels := make([]map[string]any, 0, len(cocoon.Contributors))
	for _, contributor := range cocoon.Contributors {
		contributorRels = append(contributorRels, map[string]any{
			"wallet":    contributor.Wallet,
			"role":      string(contributor.Role),
			"joined_at": contributor.JoinedAt,
			"synced_at": now,
		})
	}

	session := client.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: client.Database,
	})
	defer session.Close(ctx)

	initSchema(ctx, session, log)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		if res, err := tx.Run(ctx, `
MERGE (d:Dream {id: $dream_id})
WITH d
MERGE (c:Cocoon {id: $cocoon.id})
SET c += $cocoon
MERGE (d)-[e:EVOLVED_INTO]->(c)
SET e.synced_at = $synced_at
WITH c
MERGE (w:Wallet {address: $creator})
MERGE (w)-[o:CREATED]->(c)
SET o.synced_at = $synced_at
`, map[string]any{
			"dream_id":  cocoon.DreamID.String(),
			"cocoon":    cocoonNode,
			"creator":   cocoon.CreatorWallet,
			"synced_at": now,
		}); err != nil {
			return nil, err
		} else if _, err := res.Consume(ctx); err != nil {
			return nil, err
		}

		if len(contributorRels) > 0 {
			if res, err := tx.Run(ctx, `
MATCH (c:Cocoon {id: $cocoon_id})
UNWIND $contributors AS row
MERGE (w:Wallet {address: row.wallet})
MERGE (w)-[e:CONTRIBUTES_TO]->(c)
SET e.role = row.role,
    e.joined_at = row.joined_at,
    e.synced_at = row.synced_at
`, map[string]any{
				"cocoon_id":    cocoon.ID.String(),
				"contributors": contributorRels,
			}); err != nil {
				return nil, err
			} else if _, err := res.Consume(ctx); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	return err
}

// Best-effort schema init.
func initSchema(ctx context.Context, session neo4j.SessionWithContext, log *logger.Logger) {
	stmts := []string{
		`CREATE CONSTRAINT wallet_address_unique IF NOT EXISTS FOR (w:Wallet) REQUIRE w.address IS UNIQUE`,
		`CREATE CONSTRAINT dream_id_unique IF NOT EXISTS FOR (d:Dream) REQUIRE d.id IS UNIQUE`,
		`CREATE CONSTRAINT cocoon_id_unique IF NOT EXISTS FOR (c:Cocoon) REQUIRE c.id IS UNIQUE`,
		`CREATE CONSTRAINT tag_name_unique IF NOT EXISTS FOR (t:Tag) REQUIRE t.name IS UNIQUE`,
	}
	for _, q := range stmts {
		if res, err := session.Run(ctx, q, nil); err != nil {
			if log != nil {
				log.Warn("neo4j schema init failed (continuing)", "error", err)
			}
		} else {
			_, _ = res.Consume(ctx)
		}
	}
}
