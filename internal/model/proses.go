package model

import "errors"

// Proses lifecycle states. Later states are written by the processing
// workflow, not by the assignment engine.
const (
	ProsesMenunggu = "MENUNGGU_PROSES"
)

// ProsesModel is the processing record created empty at submission time,
// one-to-one with a pengajuan, and filled by the handler later.
type ProsesModel struct {
	ID             string `gorm:"primaryKey;type:varchar(64)" json:"id"`
	NomorProses    string `gorm:"type:varchar(32);not null;uniqueIndex" json:"nomor_proses"`
	HasilNego      string `gorm:"type:text" json:"hasil_nego"`
	HargaRealisasi string `gorm:"type:varchar(64)" json:"harga_realisasi"`
	NamaPerusahaan string `gorm:"type:varchar(255)" json:"nama_perusahaan"`
	NPWP           string `gorm:"type:varchar(32)" json:"npwp"`
	NoKontrak      string `gorm:"type:varchar(64)" json:"no_kontrak"`
	Status         string `gorm:"type:varchar(32);not null" json:"status"`
}

// TableName keeps the legacy sheet name.
func (ProsesModel) TableName() string {
	return "proses_pp"
}

// Validate checks the fields the engine depends on.
func (p *ProsesModel) Validate() error {
	if p.ID == "" {
		return errors.New("proses ID is required")
	}
	if p.NomorProses == "" {
		return errors.New("nomor proses is required")
	}
	if p.Status == "" {
		return errors.New("status is required")
	}
	return nil
}
