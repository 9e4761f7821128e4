package repository

import (
	"errors"
	"time"

	"github.com/liberhite/Aplikasipengajuan/internal/model"
	"gorm.io/gorm"
)

// PengajuanRepository is the data access contract for submissions.
type PengajuanRepository interface {
	Save(p *model.PengajuanModel) error
	FindByNomor(nomor string) (*model.PengajuanModel, error)
	FindAll() ([]model.PengajuanModel, error)
	FindByPPK(emailPPK string) ([]model.PengajuanModel, error)
	ListNomor() ([]string, error)
	UpdateAssignment(nomor, emailPP, namaPP string, at time.Time) error
}

type pengajuanRepository struct {
	db *gorm.DB
}

// NewPengajuanRepository creates the gorm-backed pengajuan repository.
func NewPengajuanRepository(db *gorm.DB) PengajuanRepository {
	return &pengajuanRepository{db: db}
}

func (r *pengajuanRepository) Save(p *model.PengajuanModel) error {
	return r.db.Save(p).Error
}

func (r *pengajuanRepository) FindByNomor(nomor string) (*model.PengajuanModel, error) {
	var p model.PengajuanModel
	if err := r.db.Where("nomor_proses = ?", nomor).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *pengajuanRepository) FindAll() ([]model.PengajuanModel, error) {
	var list []model.PengajuanModel
	err := r.db.Order("tanggal DESC").Find(&list).Error
	return list, err
}

func (r *pengajuanRepository) FindByPPK(emailPPK string) ([]model.PengajuanModel, error) {
	var list []model.PengajuanModel
	err := r.db.Where("email_ppk = ?", emailPPK).Order("tanggal DESC").Find(&list).Error
	return list, err
}

// ListNomor returns every nomor proses, the snapshot the sequence
// allocator scans.
func (r *pengajuanRepository) ListNomor() ([]string, error) {
	var nomor []string
	err := r.db.Model(&model.PengajuanModel{}).Pluck("nomor_proses", &nomor).Error
	return nomor, err
}

func (r *pengajuanRepository) UpdateAssignment(nomor, emailPP, namaPP string, at time.Time) error {
	res := r.db.Model(&model.PengajuanModel{}).
		Where("nomor_proses = ?", nomor).
		Updates(map[string]interface{}{
			"email_pp":    emailPP,
			"nama_pp":     namaPP,
			"last_update": at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
