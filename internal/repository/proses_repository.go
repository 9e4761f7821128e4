package repository

import (
	"errors"

	"github.com/liberhite/Aplikasipengajuan/internal/model"
	"gorm.io/gorm"
)

// ProsesRepository is the data access contract for processing records.
// The engine only creates the empty record; later workflow fills it.
type ProsesRepository interface {
	Save(p *model.ProsesModel) error
	FindByNomor(nomor string) (*model.ProsesModel, error)
	FindAll() ([]model.ProsesModel, error)
}

type prosesRepository struct {
	db *gorm.DB
}

// NewProsesRepository creates the gorm-backed proses repository.
func NewProsesRepository(db *gorm.DB) ProsesRepository {
	return &prosesRepository{db: db}
}

func (r *prosesRepository) Save(p *model.ProsesModel) error {
	return r.db.Save(p).Error
}

func (r *prosesRepository) FindByNomor(nomor string) (*model.ProsesModel, error) {
	var p model.ProsesModel
	if err := r.db.Where("nomor_proses = ?", nomor).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *prosesRepository) FindAll() ([]model.ProsesModel, error) {
	var list []model.ProsesModel
	err := r.db.Find(&list).Error
	return list, err
}
