package repository

import (
	"github.com/jashan-dhillon/mira-matching/internal/model"
	"gorm.io/gorm"
)

type CandidateRepository struct {
	db *gorm.DB
}

func NewCandidateRepository(db *gorm.DB) *CandidateRepository {
	return &CandidateRepository{db}
}

func (r *CandidateRepository) CreateCandidate(cand *model.Candidate) error {
	return r.db.Create(cand).Error
}

func (r *CandidateRepository) UpdateCandidate(cand *model.Candidate) error {
	return r.db.Save(cand).Error
}

func (r *CandidateRepository) GetCandidates() ([]model.Candidate, error) {
	var candidates []model.Candidate
	err := r.db.Find(&candidates).Error
	return candidates, err
}

// FindByItem returns the candidates who applied to a given item.
func (r *CandidateRepository) FindByItem(itemID string) ([]model.Candidate, error) {
	var candidates []model.Candidate
	err := r.db.Find(&candidates, "applied_item_id = ?", itemID).Error
	return candidates, err
}
