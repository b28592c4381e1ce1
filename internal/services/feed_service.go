package services

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/dreamnet/dreamnet-backend/internal/logger"
	"github.com/dreamnet/dreamnet-backend/internal/repos"
	"github.com/dreamnet/dreamnet-backend/internal/types"
)

// GardenFeedItem is the public projection of a dream for the garden view.
type GardenFeedItem struct {
	Dream      *types.Dream       `json:"dream"`
	Stage      *types.CocoonStage `json:"stage,omitempty"`
	Minted     bool               `json:"minted"`
	DreamScore int                `json:"dream_score"`
}

type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

type DashboardMetrics struct {
	DreamsPending   int64 `json:"dreams_pending"`
	DreamsApproved  int64 `json:"dreams_approved"`
	DreamsRejected  int64 `json:"dreams_rejected"`
	DreamsEvolved   int64 `json:"dreams_evolved"`
	CocoonsActive   int64 `json:"cocoons_active"`
	CocoonsComplete int64 `json:"cocoons_complete"`
	CocoonsArchived int64 `json:"cocoons_archived"`
	BadgeTokens     int64 `json:"badge_tokens"`
	MintTokens      int64 `json:"mint_tokens"`
	VoteTokens      int64 `json:"vote_tokens"`
}

type FeedService interface {
	GardenFeed(ctx context.Context) ([]GardenFeedItem, error)
	TagCloud(ctx context.Context) ([]TagCount, error)
	Metrics(ctx context.Context) (*DashboardMetrics, error)
}

type feedService struct {
	db         *gorm.DB
	log        *logger.Logger
	dreamRepo  repos.DreamRepo
	cocoonRepo repos.CocoonRepo
	tokenRepo  repos.DreamTokenRepo
}

func NewFeedService(db *gorm.DB, log *logger.Logger, dreamRepo repos.DreamRepo, cocoonRepo repos.CocoonRepo, tokenRepo repos.DreamTokenRepo) FeedService {
	serviceLog := log.With("service", "FeedService")
	return &feedService{
		db:         db,
		log:        serviceLog,
		dreamRepo:  dreamRepo,
		cocoonRepo: cocoonRepo,
		tokenRepo:  tokenRepo,
	}
}

// GardenFeed returns approved and evolved dreams, highest score first, with
// cocoon stage joined in where one exists.
func (fs *feedService) GardenFeed(ctx context.Context) ([]GardenFeedItem, error) {
	var (
		approved []*types.Dream
		evolved  []*types.Dream
		cocoons  []*types.Cocoon
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		approved, err = fs.dreamRepo.GetByStatus(gctx, nil, types.DreamApproved)
		return err
	})
	g.Go(func() error {
		var err error
		evolved, err = fs.dreamRepo.GetByStatus(gctx, nil, types.DreamEvolved)
		return err
	})
	g.Go(func() error {
		var err error
		cocoons, err = fs.cocoonRepo.GetAll(gctx, nil)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	stageByDream := make(map[string]*types.Cocoon, len(cocoons))
	for _, cocoon := range cocoons {
		stageByDream[cocoon.DreamID.String()] = cocoon
	}

	items := make([]GardenFeedItem, 0, len(approved)+len(evolved))
	for _, dream := range append(approved, evolved...) {
		item := GardenFeedItem{Dream: dream, DreamScore: dream.DreamScore}
		if cocoon, ok := stageByDream[dream.ID.String()]; ok {
			stage := cocoon.Stage
			item.Stage = &stage
			item.Minted = cocoon.Minted
		}
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].DreamScore > items[j].DreamScore
	})
	return items, nil
}

func (fs *feedService) TagCloud(ctx context.Context) ([]TagCount, error) {
	dreams, err := fs.dreamRepo.GetAll(ctx, nil)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, dream := range dreams {
		for _, tag := range dream.Tags {
			counts[tag]++
		}
	}

	tags := make([]TagCount, 0, len(counts))
	for tag, n := range counts {
		tags = append(tags, TagCount{Tag: tag, Count: n})
	}
	sort.Slice(tags, func(i, j int) bool {
		if tags[i].Count != tags[j].Count {
			return tags[i].Count > tags[j].Count
		}
		return tags[i].Tag < tags[j].Tag
	})
	return tags, nil
}

// Metrics gathers dashboard counts with one query per counter, fanned out
// concurrently.
func (fs *feedService) Metrics(ctx context.Context) (*DashboardMetrics, error) {
	metrics := &DashboardMetrics{}
	g, gctx := errgroup.WithContext(ctx)

	count := func(dst *int64, fetch func() (int64, error)) {
		g.Go(func() error {
			n, err := fetch()
			if err != nil {
				return err
			}
			*dst = n
			return nil
		})
	}

	count(&metrics.DreamsPending, func() (int64, error) { return fs.dreamRepo.CountByStatus(gctx, nil, types.DreamPending) })
	count(&metrics.DreamsApproved, func() (int64, error) { return fs.dreamRepo.CountByStatus(gctx, nil, types.DreamApproved) })
	count(&metrics.DreamsRejected, func() (int64, error) { return fs.dreamRepo.CountByStatus(gctx, nil, types.DreamRejected) })
	count(&metrics.DreamsEvolved, func() (int64, error) { return fs.dreamRepo.CountByStatus(gctx, nil, types.DreamEvolved) })
	count(&metrics.BadgeTokens, func() (int64, error) { return fs.tokenRepo.CountByPurpose(gctx, nil, types.PurposeBadge) })
	count(&metrics.MintTokens, func() (int64, error) { return fs.tokenRepo.CountByPurpose(gctx, nil, types.PurposeMint) })
	count(&metrics.VoteTokens, func() (int64, error) { return fs.tokenRepo.CountByPurpose(gctx, nil, types.PurposeVote) })

	stageCount := func(dst *int64, stage types.CocoonStage) {
		g.Go(func() error {
			cocoons, err := fs.cocoonRepo.GetByStage(gctx, nil, stage)
			if err != nil {
				return err
			}
			*dst = int64(len(cocoons))
			return nil
		})
	}
	stageCount(&metrics.CocoonsActive, types.StageActive)
	stageCount(&metrics.CocoonsComplete, types.StageComplete)
	stageCount(&metrics.CocoonsArchived, types.StageArchived)

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return metrics, nil
}
