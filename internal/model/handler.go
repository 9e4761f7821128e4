package model

import "errors"

// Handler account states and roles.
const (
	HandlerAktif    = "AKTIF"
	HandlerNonaktif = "NONAKTIF"

	RolePP  = "PP"
	RolePPK = "PPK"
)

// HandlerModel is a staff account from the legacy Users sheet. Rows with
// Role == PP and Status == AKTIF are eligible for assignment. Workload is
// the number of AKTIF penugasan held; only the workload ledger writes it.
type HandlerModel struct {
	Email        string `gorm:"primaryKey;type:varchar(128)" json:"email"`
	Nama         string `gorm:"type:varchar(128);not null" json:"nama"`
	NIP          string `gorm:"type:varchar(32)" json:"nip"`
	Role         string `gorm:"type:varchar(16);not null;index" json:"role"`
	Satker       string `gorm:"type:varchar(128)" json:"satker"`
	PasswordHash string `gorm:"type:varchar(128)" json:"-"`
	Status       string `gorm:"type:varchar(16);not null;index" json:"status"`
	Workload     int    `gorm:"not null;default:0" json:"workload"`
}

// TableName keeps the legacy sheet name.
func (HandlerModel) TableName() string {
	return "users"
}

// Eligible reports whether the handler can receive new assignments.
func (h *HandlerModel) Eligible() bool {
	return h.Role == RolePP && h.Status == HandlerAktif
}

// Validate checks the fields the engine depends on.
func (h *HandlerModel) Validate() error {
	if h.Email == "" {
		return errors.New("email is required")
	}
	if h.Role == "" {
		return errors.New("role is required")
	}
	if h.Workload < 0 {
		return errors.New("workload must not be negative")
	}
	return nil
}
