package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/dreamnet/dreamnet-backend/internal/graph"
	"github.com/dreamnet/dreamnet-backend/internal/logger"
	"github.com/dreamnet/dreamnet-backend/internal/platform/apierr"
	"github.com/dreamnet/dreamnet-backend/internal/repos"
	"github.com/dreamnet/dreamnet-backend/internal/types"
	"github.com/dreamnet/dreamnet-backend/internal/webhook"
)

// MintScoreThreshold is the minimum dream score for the NFT mint gate.
const MintScoreThreshold = 80

type CocoonService interface {
	Get(ctx context.Context, cocoonID uuid.UUID) (*types.Cocoon, error)
	GetByDream(ctx context.Context, dreamID uuid.UUID) (*types.Cocoon, error)
	List(ctx context.Context, stage types.CocoonStage) ([]*types.Cocoon, error)
	Logs(ctx context.Context, cocoonID uuid.UUID) ([]*types.CocoonLog, error)

	// CreateFromDream evolves an approved dream into a seedling cocoon.
	CreateFromDream(ctx context.Context, dreamID uuid.UUID) (*types.Cocoon, error)
	// EvolveDream is the public evolution path: it additionally enforces
	// the minimum-score gate before delegating to CreateFromDream.
	EvolveDream(ctx context.Context, dreamID uuid.UUID) (*types.Cocoon, error)

	UpdateStage(ctx context.Context, cocoonID uuid.UUID, newStage types.CocoonStage, adminWallet, notes string) (*types.Cocoon, error)
	// ForceStage bypasses the transition table. It is the only bypass and
	// every use is audited with is_override=true.
	ForceStage(ctx context.Context, cocoonID uuid.UUID, newStage types.CocoonStage, adminWallet, notes string) (*types.Cocoon, error)

	UpdateScore(ctx context.Context, cocoonID uuid.UUID, score int) (*types.Cocoon, error)
	AppendEvolutionNote(ctx context.Context, cocoonID uuid.UUID, note string) (*types.Cocoon, error)

	CheckAndMintNFT(ctx context.Context, cocoonID uuid.UUID) (bool, error)
}

type cocoonService struct {
	db            *gorm.DB
	log           *logger.Logger
	dreamRepo     repos.DreamRepo
	cocoonRepo    repos.CocoonRepo
	cocoonLogRepo repos.CocoonLogRepo
	chainRepo     repos.EvolutionChainRepo
	tokenService  TokenService
	notifier      NotifierService
	webhooks      *webhook.Notifier
	graph         *graph.Client
	publicURL     string
}

func NewCocoonService(
	db *gorm.DB,
	log *logger.Logger,
	dreamRepo repos.DreamRepo,
	cocoonRepo repos.CocoonRepo,
	cocoonLogRepo repos.CocoonLogRepo,
	chainRepo repos.EvolutionChainRepo,
	tokenService TokenService,
	notifier NotifierService,
	webhooks *webhook.Notifier,
	graphClient *graph.Client,
	publicURL string,
) CocoonService {
	serviceLog := log.With("service", "CocoonService")
	return &cocoonService{
		db:            db,
		log:           serviceLog,
		dreamRepo:     dreamRepo,
		cocoonRepo:    cocoonRepo,
		cocoonLogRepo: cocoonLogRepo,
		chainRepo:     chainRepo,
		tokenService:  tokenService,
		notifier:      notifier,
		webhooks:      webhooks,
		graph:         graphClient,
		publicURL:     publicURL,
	}
}

func (cs *cocoonService) mirrorGraph(ctx context.Context, cocoon *types.Cocoon) {
	if err := graph.SyncCocoon(ctx, cs.graph, cs.log, cocoon); err != nil {
		cs.log.Warn("neo4j cocoon sync failed (continuing)", "error", err, "cocoonID", cocoon.ID)
	}
}

func (cs *cocoonService) Get(ctx context.Context, cocoonID uuid.UUID) (*types.Cocoon, error) {
	cocoon, err := cs.cocoonRepo.GetByID(ctx, nil, cocoonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("cocoon_not_found", err)
		}
		return nil, err
	}
	return cocoon, nil
}

func (cs *cocoonService) GetByDream(ctx context.Context, dreamID uuid.UUID) (*types.Cocoon, error) {
	cocoon, err := cs.cocoonRepo.GetByDreamID(ctx, nil, dreamID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("cocoon_not_found", err)
		}
		return nil, err
	}
	return cocoon, nil
}

func (cs *cocoonService) List(ctx context.Context, stage types.CocoonStage) ([]*types.Cocoon, error) {
	if stage == "" {
		return cs.cocoonRepo.GetAll(ctx, nil)
	}
	if !types.IsValidCocoonStage(stage) {
		return nil, apierr.BadRequest("invalid_stage", fmt.Errorf("unknown cocoon stage %q", stage))
	}
	return cs.cocoonRepo.GetByStage(ctx, nil, stage)
}

func (cs *cocoonService) Logs(ctx context.Context, cocoonID uuid.UUID) ([]*types.CocoonLog, error) {
	return cs.cocoonLogRepo.GetByCocoonID(ctx, nil, cocoonID)
}

func (cs *cocoonService) CreateFromDream(ctx context.Context, dreamID uuid.UUID) (*types.Cocoon, error) {
	var cocoon *types.Cocoon
	err := cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dream, err := cs.dreamRepo.GetByID(ctx, tx, dreamID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierr.NotFound("dream_not_found", err)
			}
			return err
		}
		if dream.DreamStatus != types.DreamApproved {
			return apierr.Conflict("dream_not_approved", fmt.Errorf("dream %s has status %s", dreamID, dream.DreamStatus))
		}
		if _, err := cs.cocoonRepo.GetByDreamID(ctx, tx, dreamID); err == nil {
			return apierr.Conflict("cocoon_exists", fmt.Errorf("dream %s already evolved", dreamID))
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		cocoon = &types.Cocoon{
			DreamID:       dream.ID,
			Title:         dream.Title,
			Description:   dream.Description,
			CreatorWallet: dream.Wallet,
			Stage:         types.StageSeedling,
			Tags:          dream.Tags,
			DreamScore:    dream.DreamScore,
			Contributors:  dream.Contributors,
		}
		if _, err := cs.cocoonRepo.Create(ctx, tx, cocoon); err != nil {
			return err
		}

		dream.DreamStatus = types.DreamEvolved
		dream.Evolved = true
		if _, err := cs.dreamRepo.Update(ctx, tx, dream); err != nil {
			return err
		}

		now := time.Now().UTC()
		chain, err := cs.chainRepo.GetByDreamID(ctx, tx, dreamID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			chain = &types.EvolutionChain{DreamID: dreamID}
			if _, err := cs.chainRepo.Create(ctx, tx, chain); err != nil {
				return err
			}
		} else if err != nil {
			return err
		}
		chain.CocoonID = &cocoon.ID
		chain.CurrentStage = types.ChainStageName(types.StageSeedling)
		chain.EvolvedAt = &now
		if _, err := cs.chainRepo.Update(ctx, tx, chain); err != nil {
			return err
		}

		log := &types.CocoonLog{
			CocoonID:    cocoon.ID,
			NewStage:    types.StageSeedling,
			AdminWallet: dream.Wallet,
			Notes:       "cocoon created from dream",
		}
		_, err = cs.cocoonLogRepo.Create(ctx, tx, log)
		return err
	})
	if err != nil {
		return nil, err
	}

	cs.notifier.CocoonCreated(ctx, cocoon)
	cs.log.Info("Cocoon created", "cocoonID", cocoon.ID, "dreamID", dreamID)
	cs.mirrorGraph(ctx, cocoon)
	return cocoon, nil
}

func (cs *cocoonService) EvolveDream(ctx context.Context, dreamID uuid.UUID) (*types.Cocoon, error) {
	dream, err := cs.dreamRepo.GetByID(ctx, nil, dreamID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("dream_not_found", err)
		}
		return nil, err
	}
	if dream.DreamScore < EvolveScoreThreshold {
		return nil, apierr.Conflict("score_too_low",
			fmt.Errorf("dream score %d is below the evolution threshold of %d", dream.DreamScore, EvolveScoreThreshold))
	}
	return cs.CreateFromDream(ctx, dreamID)
}

func (cs *cocoonService) UpdateStage(ctx context.Context, cocoonID uuid.UUID, newStage types.CocoonStage, adminWallet, notes string) (*types.Cocoon, error) {
	return cs.changeStage(ctx, cocoonID, newStage, adminWallet, notes, false)
}

func (cs *cocoonService) ForceStage(ctx context.Context, cocoonID uuid.UUID, newStage types.CocoonStage, adminWallet, notes string) (*types.Cocoon, error) {
	cs.log.Warn("Stage override requested", "cocoonID", cocoonID, "newStage", newStage, "admin", adminWallet)
	return cs.changeStage(ctx, cocoonID, newStage, adminWallet, notes, true)
}

// changeStage runs the full stage pipeline in one transaction: validate the
// transition, write the stage, audit it, mirror the evolution chain, and mint
// milestone tokens. Webhook and notification fan-out happens after commit and
// is best-effort.
func (cs *cocoonService) changeStage(ctx context.Context, cocoonID uuid.UUID, newStage types.CocoonStage, adminWallet, notes string, override bool) (*types.Cocoon, error) {
	if !types.IsValidCocoonStage(newStage) {
		return nil, apierr.BadRequest("invalid_stage", fmt.Errorf("unknown cocoon stage %q", newStage))
	}

	var (
		cocoon   *types.Cocoon
		previous types.CocoonStage
	)
	err := cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		cocoon, err = cs.cocoonRepo.GetByID(ctx, tx, cocoonID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierr.NotFound("cocoon_not_found", err)
			}
			return err
		}

		previous = cocoon.Stage
		if previous == newStage {
			return apierr.Conflict("stage_unchanged", fmt.Errorf("cocoon already in stage %s", newStage))
		}
		if !override && !types.CanTransition(previous, newStage) {
			return apierr.Conflict("invalid_transition", fmt.Errorf("transition %s -> %s is not allowed", previous, newStage))
		}

		cocoon.Stage = newStage
		if _, err := cs.cocoonRepo.Update(ctx, tx, cocoon); err != nil {
			return err
		}

		log := &types.CocoonLog{
			CocoonID:      cocoon.ID,
			PreviousStage: previous,
			NewStage:      newStage,
			AdminWallet:   adminWallet,
			IsOverride:    override,
			Notes:         notes,
		}
		if _, err := cs.cocoonLogRepo.Create(ctx, tx, log); err != nil {
			return err
		}

		if err := cs.mirrorChain(ctx, tx, cocoon, newStage); err != nil {
			return err
		}

		return cs.mintMilestoneTokens(ctx, tx, cocoon, newStage)
	})
	if err != nil {
		return nil, err
	}

	cs.log.Info("Cocoon stage updated", "cocoonID", cocoonID, "from", previous, "to", newStage, "override", override)
	cs.notifier.CocoonStageUpdated(ctx, cocoon, previous)
	cs.mirrorGraph(ctx, cocoon)

	if newStage == types.StageActive {
		cs.fireActiveWebhook(ctx, cocoon)
	}
	if newStage == types.StageComplete {
		if _, err := cs.CheckAndMintNFT(ctx, cocoon.ID); err != nil {
			cs.log.Warn("NFT mint check failed after completion", "cocoonID", cocoon.ID, "error", err)
		}
	}

	return cocoon, nil
}

func (cs *cocoonService) mirrorChain(ctx context.Context, tx *gorm.DB, cocoon *types.Cocoon, newStage types.CocoonStage) error {
	chain, err := cs.chainRepo.GetByDreamID(ctx, tx, cocoon.DreamID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	chain.CurrentStage = types.ChainStageName(newStage)
	if newStage == types.StageComplete {
		now := time.Now().UTC()
		chain.CompletedAt = &now
	}
	_, err = cs.chainRepo.Update(ctx, tx, chain)
	return err
}

// milestoneTokenRules maps a stage to the token purpose minted for the
// creator on entering it.
var milestoneTokenRules = map[types.CocoonStage]types.TokenPurpose{
	types.StageActive:        types.PurposeBadge,
	types.StageMetamorphosis: types.PurposeVote,
	types.StageEmergence:     types.PurposeMint,
	types.StageComplete:      types.PurposeMint,
}

func (cs *cocoonService) mintMilestoneTokens(ctx context.Context, tx *gorm.DB, cocoon *types.Cocoon, newStage types.CocoonStage) error {
	purpose, ok := milestoneTokenRules[newStage]
	if !ok {
		return nil
	}

	token := &types.DreamToken{
		DreamID:      cocoon.DreamID,
		CocoonID:     &cocoon.ID,
		HolderWallet: cocoon.CreatorWallet,
		Purpose:      purpose,
		Milestone:    string(newStage),
	}
	if _, err := cs.tokenService.Mint(ctx, tx, token); err != nil {
		return err
	}

	// Completion additionally awards a badge to every contributor.
	if newStage == types.StageComplete {
		for _, contributor := range cocoon.Contributors {
			badge := &types.DreamToken{
				DreamID:      cocoon.DreamID,
				CocoonID:     &cocoon.ID,
				HolderWallet: contributor.Wallet,
				Purpose:      types.PurposeBadge,
				Milestone:    string(newStage),
			}
			if _, err := cs.tokenService.Mint(ctx, tx, badge); err != nil {
				return err
			}
		}
	}
	return nil
}

func (cs *cocoonService) fireActiveWebhook(ctx context.Context, cocoon *types.Cocoon) {
	if cs.webhooks == nil {
		return
	}
	cs.webhooks.NotifyCocoonActive(ctx, webhook.CocoonActiveNotification{
		CocoonTitle:     cocoon.Title,
		DreamName:       cocoon.Title,
		Creator:         cocoon.CreatorWallet,
		Score:           cocoon.DreamScore,
		Tags:            cocoon.Tags,
		ContributionURL: fmt.Sprintf("%s/dreams/%s", cs.publicURL, cocoon.DreamID),
	})
}

func (cs *cocoonService) UpdateScore(ctx context.Context, cocoonID uuid.UUID, score int) (*types.Cocoon, error) {
	if score < 0 || score > 100 {
		return nil, apierr.BadRequest("invalid_score", fmt.Errorf("score %d out of range [0,100]", score))
	}

	var cocoon *types.Cocoon
	err := cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		cocoon, err = cs.cocoonRepo.GetByID(ctx, tx, cocoonID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierr.NotFound("cocoon_not_found", err)
			}
			return err
		}
		cocoon.DreamScore = score
		_, err = cs.cocoonRepo.Update(ctx, tx, cocoon)
		return err
	})
	if err != nil {
		return nil, err
	}
	return cocoon, nil
}

func (cs *cocoonService) AppendEvolutionNote(ctx context.Context, cocoonID uuid.UUID, note string) (*types.Cocoon, error) {
	if note == "" {
		return nil, apierr.BadRequest("empty_note", errors.New("note is required"))
	}

	var cocoon *types.Cocoon
	err := cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		cocoon, err = cs.cocoonRepo.GetByID(ctx, tx, cocoonID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierr.NotFound("cocoon_not_found", err)
			}
			return err
		}
		cocoon.EvolutionNotes = append(cocoon.EvolutionNotes, note)
		_, err = cs.cocoonRepo.Update(ctx, tx, cocoon)
		return err
	})
	if err != nil {
		return nil, err
	}
	return cocoon, nil
}

// CheckAndMintNFT runs the mint gate: not already minted, score at or above
// the threshold, stage complete. The minted flag is flipped with a guarded
// UPDATE so concurrent callers mint at most once.
func (cs *cocoonService) CheckAndMintNFT(ctx context.Context, cocoonID uuid.UUID) (bool, error) {
	cocoon, err := cs.cocoonRepo.GetByID(ctx, nil, cocoonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, apierr.NotFound("cocoon_not_found", err)
		}
		return false, err
	}

	if cocoon.Minted {
		cs.log.Info("NFT mint skipped: already minted", "cocoonID", cocoonID)
		return false, nil
	}
	if cocoon.DreamScore < MintScoreThreshold {
		cs.log.Info("NFT mint skipped: score below threshold", "cocoonID", cocoonID, "score", cocoon.DreamScore)
		cs.notifier.ScoreInsufficient(ctx, cocoon)
		return false, nil
	}
	if cocoon.Stage != types.StageComplete {
		cs.log.Info("NFT mint skipped: cocoon not complete", "cocoonID", cocoonID, "stage", cocoon.Stage)
		return false, nil
	}

	won, err := cs.cocoonRepo.MarkMinted(ctx, nil, cocoonID)
	if err != nil {
		return false, err
	}
	if !won {
		cs.log.Info("NFT mint skipped: lost mint race", "cocoonID", cocoonID)
		return false, nil
	}

	metadata := simulatedNFTMetadata(cocoon)
	raw, err := json.Marshal(metadata)
	if err == nil {
		if err := cs.cocoonRepo.UpdateFields(ctx, nil, cocoonID, map[string]any{"metadata": datatypes.JSON(raw)}); err != nil {
			cs.log.Warn("Failed to persist NFT metadata", "cocoonID", cocoonID, "error", err)
		}
	}

	cs.log.Info("NFT minted", "cocoonID", cocoonID, "tokenId", metadata["token_id"], "contract", metadata["contract_address"])
	cocoon.Minted = true
	cs.notifier.NFTMinted(ctx, cocoon, metadata)
	return true, nil
}

// simulatedNFTMetadata fabricates chain-shaped metadata. There is no real
// blockchain interaction anywhere in this service.
func simulatedNFTMetadata(cocoon *types.Cocoon) map[string]any {
	tokenID, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		tokenID = big.NewInt(0)
	}
	contract := make([]byte, 20)
	_, _ = rand.Read(contract)

	return map[string]any{
		"token_id":         tokenID.Int64(),
		"contract_address": "0x" + hex.EncodeToString(contract),
		"name":             cocoon.Title,
		"dream_score":      cocoon.DreamScore,
		"minted_at":        time.Now().UTC().Format(time.RFC3339),
	}
}
