package repository

import (
	"github.com/jashan-dhillon/mira-matching/internal/model"
	"gorm.io/gorm"
)

type MatchRunRepository struct {
	db *gorm.DB
}

func NewMatchRunRepository(db *gorm.DB) *MatchRunRepository {
	return &MatchRunRepository{db}
}

func (r *MatchRunRepository) CreateRun(run *model.MatchRun) error {
	return r.db.Create(run).Error
}

func (r *MatchRunRepository) UpdateRun(run *model.MatchRun) error {
	return r.db.Save(run).Error
}

func (r *MatchRunRepository) FindRunByID(id string) (*model.MatchRun, error) {
	var run model.MatchRun
	err := r.db.First(&run, "id = ?", id).Error
	return &run, err
}
