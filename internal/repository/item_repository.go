package repository

import (
	"github.com/jashan-dhillon/mira-matching/internal/model"
	"gorm.io/gorm"
)

type ItemRepository struct {
	db *gorm.DB
}

func NewItemRepository(db *gorm.DB) *ItemRepository {
	return &ItemRepository{db}
}

func (r *ItemRepository) CreateItem(item *model.Item) error {
	return r.db.Create(item).Error
}

func (r *ItemRepository) UpdateItem(item *model.Item) error {
	return r.db.Save(item).Error
}

func (r *ItemRepository) FindItemByID(id string) (*model.Item, error) {
	var item model.Item
	err := r.db.First(&item, "id = ?", id).Error
	return &item, err
}

func (r *ItemRepository) FindItemByNo(itemNo string) (*model.Item, error) {
	var item model.Item
	err := r.db.First(&item, "item_no = ?", itemNo).Error
	return &item, err
}

func (r *ItemRepository) GetItems() ([]model.Item, error) {
	var items []model.Item
	err := r.db.Find(&items).Error
	return items, err
}
