package model

import (
	"errors"
	"time"
)

// Penugasan lifecycle states. A record is never deleted; reassignment
// supersedes the old AKTIF record with DIGANTI.
const (
	PenugasanAktif   = "AKTIF"
	PenugasanDiganti = "DIGANTI"
)

// PenugasanModel is one assignment of a pengajuan to a handler. At most one
// record per nomor proses is AKTIF at any time.
type PenugasanModel struct {
	ID          string    `gorm:"primaryKey;type:varchar(64)" json:"id"`
	NomorProses string    `gorm:"type:varchar(32);not null;index" json:"nomor_proses"`
	NIP         string    `gorm:"type:varchar(32)" json:"nip"`
	Nama        string    `gorm:"type:varchar(128)" json:"nama"`
	Email       string    `gorm:"type:varchar(128);not null;index" json:"email"`
	Timestamp   time.Time `gorm:"not null" json:"timestamp"`
	Status      string    `gorm:"type:varchar(16);not null;index" json:"status"`
}

// TableName keeps the legacy sheet name.
func (PenugasanModel) TableName() string {
	return "penugasan_pp"
}

// Validate checks the fields the engine depends on.
func (a *PenugasanModel) Validate() error {
	if a.ID == "" {
		return errors.New("penugasan ID is required")
	}
	if a.NomorProses == "" {
		return errors.New("nomor proses is required")
	}
	if a.Email == "" {
		return errors.New("email is required")
	}
	if a.Status != PenugasanAktif && a.Status != PenugasanDiganti {
		return errors.New("invalid penugasan status")
	}
	return nil
}
