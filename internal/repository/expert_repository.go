package repository

import (
	"github.com/jashan-dhillon/mira-matching/internal/model"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type ExpertRepository struct {
	db *gorm.DB
}

func NewExpertRepository(db *gorm.DB) *ExpertRepository {
	return &ExpertRepository{db}
}

func (r *ExpertRepository) CreateExpert(expert *model.Expert) error {
	return r.db.Create(expert).Error
}

func (r *ExpertRepository) UpdateExpert(expert *model.Expert) error {
	return r.db.Save(expert).Error
}

func (r *ExpertRepository) FindExpertByID(id string) (*model.Expert, error) {
	var e model.Expert
	err := r.db.First(&e, "id = ?", id).Error
	return &e, err
}

func (r *ExpertRepository) GetExperts() ([]model.Expert, error) {
	var experts []model.Expert
	err := r.db.Find(&experts).Error
	return experts, err
}

// SearchExperts returns the experts nearest to the given embedding, using the
// pgvector distance operator. A coarse prefilter before full engine scoring.
func (r *ExpertRepository) SearchExperts(embedding pgvector.Vector, topK int) ([]model.Expert, error) {
	var experts []model.Expert

	err := r.db.Raw(`
        SELECT *, embedding <-> ? AS distance
        FROM experts
        ORDER BY embedding <-> ?
        LIMIT ?
    `, embedding, embedding, topK).Scan(&experts).Error

	return experts, err
}
