package repository

import (
	"github.com/jashan-dhillon/mira-matching/internal/model"
	"gorm.io/gorm"
)

type PanelRepository struct {
	db *gorm.DB
}

func NewPanelRepository(db *gorm.DB) *PanelRepository {
	return &PanelRepository{db}
}

func (r *PanelRepository) CreatePanel(panel *model.Panel) error {
	return r.db.Create(panel).Error
}

func (r *PanelRepository) FindPanelByID(id string) (*model.Panel, error) {
	var p model.Panel
	err := r.db.First(&p, "id = ?", id).Error
	return &p, err
}

func (r *PanelRepository) FindPanelsByItem(itemID string) ([]model.Panel, error) {
	var panels []model.Panel
	err := r.db.Find(&panels, "item_id = ?", itemID).Error
	return panels, err
}
