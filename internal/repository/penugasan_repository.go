package repository

import (
	"errors"

	"github.com/liberhite/Aplikasipengajuan/internal/model"
	"gorm.io/gorm"
)

// PenugasanRepository is the data access contract for assignment records.
// Records are append-only except for the AKTIF -> DIGANTI supersede.
type PenugasanRepository interface {
	Save(a *model.PenugasanModel) error
	FindByNomor(nomor string) ([]model.PenugasanModel, error)
	FindAktifByNomor(nomor string) (*model.PenugasanModel, error)
	FindAll() ([]model.PenugasanModel, error)
	MarkDiganti(id string) error
}

type penugasanRepository struct {
	db *gorm.DB
}

// NewPenugasanRepository creates the gorm-backed penugasan repository.
func NewPenugasanRepository(db *gorm.DB) PenugasanRepository {
	return &penugasanRepository{db: db}
}

func (r *penugasanRepository) Save(a *model.PenugasanModel) error {
	return r.db.Save(a).Error
}

func (r *penugasanRepository) FindByNomor(nomor string) ([]model.PenugasanModel, error) {
	var list []model.PenugasanModel
	err := r.db.Where("nomor_proses = ?", nomor).Order("timestamp").Find(&list).Error
	return list, err
}

func (r *penugasanRepository) FindAktifByNomor(nomor string) (*model.PenugasanModel, error) {
	var a model.PenugasanModel
	err := r.db.
		Where("nomor_proses = ? AND status = ?", nomor, model.PenugasanAktif).
		First(&a).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *penugasanRepository) FindAll() ([]model.PenugasanModel, error) {
	var list []model.PenugasanModel
	err := r.db.Order("timestamp").Find(&list).Error
	return list, err
}

func (r *penugasanRepository) MarkDiganti(id string) error {
	res := r.db.Model(&model.PenugasanModel{}).
		Where("id = ?", id).
		Update("status", model.PenugasanDiganti)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
