package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jashan-dhillon/mira-matching/internal/matching"
	"github.com/jashan-dhillon/mira-matching/internal/model"
	"github.com/jashan-dhillon/mira-matching/internal/repository"
	"github.com/pgvector/pgvector-go"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Mailer sends panel invitations. Notification failures are logged, never
// propagated into the matching flow.
type Mailer interface {
	SendPanelInvite(to, expertName, itemTitle string) error
}

type MatchingUsecase struct {
	itemRepo      *repository.ItemRepository
	expertRepo    *repository.ExpertRepository
	candidateRepo *repository.CandidateRepository
	panelRepo     *repository.PanelRepository
	runRepo       *repository.MatchRunRepository
	engine        *matching.Engine
	embedder      matching.EmbeddingSource
	mailer        Mailer
	logger        *zap.Logger
}

func NewMatchingUsecase(
	itemRepo *repository.ItemRepository,
	expertRepo *repository.ExpertRepository,
	candidateRepo *repository.CandidateRepository,
	panelRepo *repository.PanelRepository,
	runRepo *repository.MatchRunRepository,
	engine *matching.Engine,
	embedder matching.EmbeddingSource,
	mailer Mailer,
	logger *zap.Logger,
) *MatchingUsecase {
	return &MatchingUsecase{
		itemRepo:      itemRepo,
		expertRepo:    expertRepo,
		candidateRepo: candidateRepo,
		panelRepo:     panelRepo,
		runRepo:       runRepo,
		engine:        engine,
		embedder:      embedder,
		mailer:        mailer,
		logger:        logger,
	}
}

// CalculateScores starts a batch scoring run for every expert against the
// item and returns the run ID immediately; scoring continues in the
// background and the run record tracks its status.
func (uc *MatchingUsecase) CalculateScores(itemID string, weights *matching.Weights, useSemantic bool) (string, error) {
	item, experts, candidates, err := uc.loadMatchInputs(itemID)
	if err != nil {
		return "", err
	}

	run := &model.MatchRun{
		ItemID:      item.ID,
		Status:      "processing",
		UseSemantic: useSemantic,
		Results:     "[]",
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if err := uc.runRepo.CreateRun(run); err != nil {
		return "", err
	}

	go uc.executeRun(run, item, experts, candidates, weights, useSemantic)

	return run.ID.String(), nil
}

func (uc *MatchingUsecase) executeRun(run *model.MatchRun, item *model.Item, experts []model.Expert, candidates []model.Candidate, weights *matching.Weights, useSemantic bool) {
	ctx := context.Background()

	results := uc.engine.ScoreBatch(ctx,
		item.ToProfile(), expertProfiles(experts), candidateProfiles(candidates),
		resolveWeights(weights), useSemantic)

	payload, err := json.Marshal(results)
	if err != nil {
		run.Status = "failed"
		run.Error = err.Error()
		run.UpdatedAt = time.Now()
		_ = uc.runRepo.UpdateRun(run)
		return
	}

	run.Results = string(payload)
	run.Status = "completed"
	run.UpdatedAt = time.Now()
	if err := uc.runRepo.UpdateRun(run); err != nil {
		uc.logger.Error("persist match run failed",
			zap.String("run_id", run.ID.String()),
			zap.Error(err))
	}
}

// GetRun returns a scoring run by ID.
func (uc *MatchingUsecase) GetRun(id string) (*model.MatchRun, error) {
	return uc.runRepo.FindRunByID(id)
}

// GeneratePanel scores all experts and composes a category-balanced panel of
// the requested size. The composed panel is persisted and invitations are
// sent to selected experts on a best-effort basis.
func (uc *MatchingUsecase) GeneratePanel(itemID string, panelSize int, weights *matching.Weights, useSemantic bool) (*matching.Panel, error) {
	item, experts, candidates, err := uc.loadMatchInputs(itemID)
	if err != nil {
		return nil, err
	}

	panel := uc.engine.Compose(context.Background(),
		item.ToProfile(), expertProfiles(experts), candidateProfiles(candidates),
		panelSize, resolveWeights(weights), useSemantic)

	if err := uc.persistPanel(item, panel); err != nil {
		return nil, err
	}

	go uc.notifyPanel(experts, panel, item.Title)

	return panel, nil
}

func (uc *MatchingUsecase) persistPanel(item *model.Item, panel *matching.Panel) error {
	slots, err := json.Marshal(panel.Slots)
	if err != nil {
		return fmt.Errorf("marshal panel slots: %w", err)
	}
	scored, err := json.Marshal(panel.AllScored)
	if err != nil {
		return fmt.Errorf("marshal scored experts: %w", err)
	}
	target, err := json.Marshal(panel.Target)
	if err != nil {
		return fmt.Errorf("marshal target composition: %w", err)
	}

	record := &model.Panel{
		ItemID:       item.ID,
		Slots:        string(slots),
		AllScored:    string(scored),
		Target:       string(target),
		Size:         panel.Size,
		AverageScore: panel.AverageScore,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	return uc.panelRepo.CreatePanel(record)
}

func (uc *MatchingUsecase) notifyPanel(experts []model.Expert, panel *matching.Panel, itemTitle string) {
	if uc.mailer == nil {
		return
	}

	emails := make(map[string]string, len(experts))
	for _, e := range experts {
		emails[e.ID.String()] = e.Email
	}

	for _, slot := range panel.Slots {
		to := emails[slot.ExpertID]
		if to == "" {
			continue
		}
		if err := uc.mailer.SendPanelInvite(to, slot.ExpertName, itemTitle); err != nil {
			uc.logger.Warn("panel invite failed",
				zap.String("expert_id", slot.ExpertID),
				zap.Error(err))
		}
	}
}

// ScoreBreakdown computes a single expert-item score with per-component
// interpretations. Unlike batch runs, contract violations fail this call.
func (uc *MatchingUsecase) ScoreBreakdown(itemID, expertID string, useSemantic bool) (*model.Item, *matching.ScoreResult, map[string]string, error) {
	item, err := uc.itemRepo.FindItemByID(itemID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("item %s: %w", itemID, err)
	}
	expert, err := uc.expertRepo.FindExpertByID(expertID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("expert %s: %w", expertID, err)
	}
	candidates, err := uc.candidateRepo.FindByItem(itemID)
	if err != nil {
		return nil, nil, nil, err
	}

	result, err := uc.engine.Score(context.Background(),
		item.ToProfile(), expert.ToProfile(), candidateProfiles(candidates),
		matching.DefaultWeights(), useSemantic)
	if err != nil {
		return nil, nil, nil, err
	}

	return item, result, matching.InterpretScores(result.Components), nil
}

// ValidatePanel checks a stored panel against a target composition.
func (uc *MatchingUsecase) ValidatePanel(panelID string, requirements map[string]int) (*matching.ValidationResult, error) {
	slots, _, err := uc.loadPanelDocs(panelID)
	if err != nil {
		return nil, err
	}

	var target matching.Composition
	if len(requirements) > 0 {
		target = matching.Composition{}
		for name, count := range requirements {
			category, err := matching.ParseCategory(name)
			if err != nil {
				return nil, err
			}
			target[category] = count
		}
	}

	result := matching.Validate(slots, target)
	return &result, nil
}

// SuggestReplacements returns up to three same-category alternatives for one
// panel member, from the ranking computed when the panel was composed.
func (uc *MatchingUsecase) SuggestReplacements(panelID, expertID string) ([]matching.ScoreResult, error) {
	slots, scored, err := uc.loadPanelDocs(panelID)
	if err != nil {
		return nil, err
	}
	return matching.SuggestReplacements(slots, expertID, scored), nil
}

func (uc *MatchingUsecase) loadPanelDocs(panelID string) ([]matching.PanelSlot, []matching.ScoreResult, error) {
	record, err := uc.panelRepo.FindPanelByID(panelID)
	if err != nil {
		return nil, nil, fmt.Errorf("panel %s: %w", panelID, err)
	}

	var slots []matching.PanelSlot
	if err := json.Unmarshal([]byte(record.Slots), &slots); err != nil {
		return nil, nil, fmt.Errorf("decode panel slots: %w", err)
	}
	var scored []matching.ScoreResult
	if err := json.Unmarshal([]byte(record.AllScored), &scored); err != nil {
		return nil, nil, fmt.Errorf("decode scored experts: %w", err)
	}
	return slots, scored, nil
}

// embeddingRefreshConcurrency bounds parallel embedding requests so a refresh
// does not hammer the backend.
const embeddingRefreshConcurrency = 4

// UpdateEmbeddings recomputes and stores embeddings for every item, expert,
// and candidate. Vectors are replaced wholesale, never mutated in place.
// Returns the number of records refreshed.
func (uc *MatchingUsecase) UpdateEmbeddings(ctx context.Context) (int, error) {
	if uc.embedder == nil {
		return 0, fmt.Errorf("embedding refresh: %w", matching.ErrUnavailable)
	}

	items, err := uc.itemRepo.GetItems()
	if err != nil {
		return 0, err
	}
	experts, err := uc.expertRepo.GetExperts()
	if err != nil {
		return 0, err
	}
	candidates, err := uc.candidateRepo.GetCandidates()
	if err != nil {
		return 0, err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(embeddingRefreshConcurrency)

	updated := make(chan int, len(items)+len(experts)+len(candidates))

	for i := range items {
		item := &items[i]
		g.Go(func() error {
			emb, err := uc.embedder.Embed(ctx, matching.ItemText(item.ToProfile()))
			if err != nil {
				return fmt.Errorf("item %s: %w", item.ID, err)
			}
			item.Embedding = pgvector.NewVector(emb)
			if err := uc.itemRepo.UpdateItem(item); err != nil {
				return err
			}
			updated <- 1
			return nil
		})
	}
	for i := range experts {
		expert := &experts[i]
		g.Go(func() error {
			emb, err := uc.embedder.Embed(ctx, matching.ExpertText(expert.ToProfile()))
			if err != nil {
				return fmt.Errorf("expert %s: %w", expert.ID, err)
			}
			expert.Embedding = pgvector.NewVector(emb)
			if err := uc.expertRepo.UpdateExpert(expert); err != nil {
				return err
			}
			updated <- 1
			return nil
		})
	}
	for i := range candidates {
		cand := &candidates[i]
		g.Go(func() error {
			emb, err := uc.embedder.Embed(ctx, matching.CandidateText(cand.ToProfile()))
			if err != nil {
				return fmt.Errorf("candidate %s: %w", cand.ID, err)
			}
			cand.Embedding = pgvector.NewVector(emb)
			if err := uc.candidateRepo.UpdateCandidate(cand); err != nil {
				return err
			}
			updated <- 1
			return nil
		})
	}

	err = g.Wait()
	close(updated)

	var count int
	for range updated {
		count++
	}
	return count, err
}

func (uc *MatchingUsecase) loadMatchInputs(itemID string) (*model.Item, []model.Expert, []model.Candidate, error) {
	item, err := uc.itemRepo.FindItemByID(itemID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("item %s: %w", itemID, err)
	}
	experts, err := uc.expertRepo.GetExperts()
	if err != nil {
		return nil, nil, nil, err
	}
	if len(experts) == 0 {
		return nil, nil, nil, fmt.Errorf("no experts available")
	}
	candidates, err := uc.candidateRepo.FindByItem(itemID)
	if err != nil {
		return nil, nil, nil, err
	}
	return item, experts, candidates, nil
}

func resolveWeights(w *matching.Weights) matching.Weights {
	if w == nil {
		return matching.DefaultWeights()
	}
	return *w
}

func expertProfiles(experts []model.Expert) []matching.Expert {
	profiles := make([]matching.Expert, len(experts))
	for i, e := range experts {
		profiles[i] = e.ToProfile()
	}
	return profiles
}

func candidateProfiles(candidates []model.Candidate) []matching.Candidate {
	profiles := make([]matching.Candidate, len(candidates))
	for i, c := range candidates {
		profiles[i] = c.ToProfile()
	}
	return profiles
}
