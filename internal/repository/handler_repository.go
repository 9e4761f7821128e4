package repository

import (
	"errors"

	"github.com/liberhite/Aplikasipengajuan/internal/model"
	"gorm.io/gorm"
)

// HandlerRepository is the data access contract for staff accounts.
// Workload writes go through UpdateWorkload only, and only the workload
// ledger calls it.
type HandlerRepository interface {
	Save(h *model.HandlerModel) error
	FindByEmail(email string) (*model.HandlerModel, error)
	FindAll() ([]model.HandlerModel, error)
	FindActivePP() ([]model.HandlerModel, error)
	UpdateWorkload(email string, workload int) error
}

type handlerRepository struct {
	db *gorm.DB
}

// NewHandlerRepository creates the gorm-backed handler repository.
func NewHandlerRepository(db *gorm.DB) HandlerRepository {
	return &handlerRepository{db: db}
}

func (r *handlerRepository) Save(h *model.HandlerModel) error {
	return r.db.Save(h).Error
}

func (r *handlerRepository) FindByEmail(email string) (*model.HandlerModel, error) {
	var h model.HandlerModel
	if err := r.db.Where("email = ?", email).First(&h).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &h, nil
}

func (r *handlerRepository) FindAll() ([]model.HandlerModel, error) {
	var list []model.HandlerModel
	err := r.db.Order("email").Find(&list).Error
	return list, err
}

// FindActivePP returns the assignment-eligible handlers in a stable order.
// The selector tie-breaks on this order.
func (r *handlerRepository) FindActivePP() ([]model.HandlerModel, error) {
	var list []model.HandlerModel
	err := r.db.
		Where("role = ? AND status = ?", model.RolePP, model.HandlerAktif).
		Order("email").
		Find(&list).Error
	return list, err
}

func (r *handlerRepository) UpdateWorkload(email string, workload int) error {
	res := r.db.Model(&model.HandlerModel{}).
		Where("email = ?", email).
		Update("workload", workload)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
