package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/jashan-dhillon/mira-matching/internal/matching"
	"github.com/jashan-dhillon/mira-matching/internal/model"
	"github.com/jashan-dhillon/mira-matching/internal/util"
	"github.com/pgvector/pgvector-go"
)

// ListItems returns all stored job openings.
func (uc *MatchingUsecase) ListItems() ([]model.Item, error) {
	return uc.itemRepo.GetItems()
}

// ListExperts returns all stored expert profiles.
func (uc *MatchingUsecase) ListExperts() ([]model.Expert, error) {
	return uc.expertRepo.GetExperts()
}

// GetPanel returns a stored panel record.
func (uc *MatchingUsecase) GetPanel(id string) (*model.Panel, error) {
	return uc.panelRepo.FindPanelByID(id)
}

// GetPanelsByItem returns the panels composed for one item.
func (uc *MatchingUsecase) GetPanelsByItem(itemID string) ([]model.Panel, error) {
	return uc.panelRepo.FindPanelsByItem(itemID)
}

// RegisterExpert validates and stores a new expert profile. The embedding is
// computed immediately when the embedding source is up; otherwise the profile
// is stored without one and picked up by the next UpdateEmbeddings run.
func (uc *MatchingUsecase) RegisterExpert(ctx context.Context, expert *model.Expert) error {
	category, err := matching.ParseCategory(expert.Category)
	if err != nil {
		return err
	}
	expert.Category = string(category)
	expert.CreatedAt = time.Now()
	expert.UpdatedAt = time.Now()

	if uc.embedder != nil {
		if emb, err := uc.embedder.Embed(ctx, matching.ExpertText(expert.ToProfile())); err == nil {
			expert.Embedding = pgvector.NewVector(emb)
		}
	}

	return uc.expertRepo.CreateExpert(expert)
}

// RegisterCandidate stores a new applicant for an item.
func (uc *MatchingUsecase) RegisterCandidate(ctx context.Context, cand *model.Candidate) error {
	cand.CreatedAt = time.Now()
	cand.UpdatedAt = time.Now()

	if uc.embedder != nil {
		if emb, err := uc.embedder.Embed(ctx, matching.CandidateText(cand.ToProfile())); err == nil {
			cand.Embedding = pgvector.NewVector(emb)
		}
	}

	return uc.candidateRepo.CreateCandidate(cand)
}

// SearchExpertsForItem returns the experts nearest to an item's embedding, a
// coarse vector-distance prefilter that skips full engine scoring.
func (uc *MatchingUsecase) SearchExpertsForItem(itemID string, topK int) ([]model.Expert, error) {
	item, err := uc.itemRepo.FindItemByID(itemID)
	if err != nil {
		return nil, fmt.Errorf("item %s: %w", itemID, err)
	}
	if len(item.Embedding.Slice()) == 0 {
		return nil, fmt.Errorf("item %s has no embedding: %w", itemID, matching.ErrUnavailable)
	}
	if topK < 1 {
		topK = 10
	}
	return uc.expertRepo.SearchExperts(item.Embedding, topK)
}

// ImportItemRows stores job openings parsed from an advertisement PDF. Rows
// whose item number is already stored are skipped, so re-uploading the same
// advertisement is harmless. Embeddings are not computed here; callers refresh
// them via UpdateEmbeddings once the intake is complete.
func (uc *MatchingUsecase) ImportItemRows(rows []util.ItemRow, organization string) ([]model.Item, error) {
	items := make([]model.Item, 0, len(rows))
	for _, row := range rows {
		if _, err := uc.itemRepo.FindItemByNo(row.ItemNo); err == nil {
			continue
		}
		item := model.Item{
			ItemNo:                 row.ItemNo,
			Discipline:             row.Discipline,
			EssentialQualification: row.EssentialQualification,
			GateCode:               row.GateCode,
			Organization:           organization,
			CreatedAt:              time.Now(),
			UpdatedAt:              time.Now(),
		}
		if err := uc.itemRepo.CreateItem(&item); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}
