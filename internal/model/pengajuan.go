package model

import (
	"errors"
	"time"
)

// Pengajuan status values.
const (
	PengajuanDiproses = "DIPROSES"
	PengajuanSelesai  = "SELESAI"
	PengajuanDitolak  = "DITOLAK"
)

// PengajuanModel is a procurement submission. NomorProses is the per-year
// sequential case number, format PR-NNN/YYYY.
type PengajuanModel struct {
	NomorProses    string    `gorm:"primaryKey;type:varchar(32)" json:"nomor_proses"`
	Tanggal        time.Time `gorm:"not null" json:"tanggal"`
	NamaPaket      string    `gorm:"type:varchar(255);not null" json:"nama_paket"`
	UraianPekerjaan string   `gorm:"type:text" json:"uraian_pekerjaan"`
	EmailPPK       string    `gorm:"type:varchar(128);not null;index" json:"email_ppk"`
	NamaPPK        string    `gorm:"type:varchar(128)" json:"nama_ppk"`
	Satker         string    `gorm:"type:varchar(128)" json:"satker"`
	JenisPengadaan string    `gorm:"type:varchar(64)" json:"jenis_pengadaan"`
	HPSNominal     float64   `gorm:"type:numeric" json:"hps_nominal"`
	JangkaWaktu    string    `gorm:"type:varchar(64)" json:"jangka_waktu"`
	NotaDinasURL   string    `gorm:"type:text" json:"nota_dinas_url"`
	HPSURL         string    `gorm:"type:text" json:"hps_url"`
	KontrakURL     string    `gorm:"type:text" json:"kontrak_url"`
	SpesifikasiURL string    `gorm:"type:text" json:"spesifikasi_url"`
	Status         string    `gorm:"type:varchar(32);not null;index" json:"status"`
	EmailPP        string    `gorm:"type:varchar(128);index" json:"email_pp"`
	NamaPP         string    `gorm:"type:varchar(128)" json:"nama_pp"`
	LastUpdate     time.Time `gorm:"not null" json:"last_update"`
	PDFURL         string    `gorm:"type:text" json:"pdf_url"`
}

// TableName keeps the legacy sheet name.
func (PengajuanModel) TableName() string {
	return "pengajuan"
}

// Validate checks the fields the engine depends on.
func (p *PengajuanModel) Validate() error {
	if p.NomorProses == "" {
		return errors.New("nomor proses is required")
	}
	if p.NamaPaket == "" {
		return errors.New("nama paket is required")
	}
	if p.EmailPPK == "" {
		return errors.New("email PPK is required")
	}
	if p.Status == "" {
		return errors.New("status is required")
	}
	return nil
}
