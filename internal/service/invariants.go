package service

import (
	"context"
	"fmt"

	"github.com/liberhite/Aplikasipengajuan/internal/model"
)

// CheckConsistency verifies the cross-table invariants the engine
// maintains and returns one message per violation. An empty slice means
// the four tables are mutually consistent. The four tables are correlated
// only by shared keys, so the checker is the practical way to assert order
// survived concurrency, and tests lean on it.
//
// Checked:
//   - every nomor proses is unique;
//   - each pengajuan has at most one AKTIF penugasan, and if it has any
//     penugasan at all, exactly one is AKTIF;
//   - every penugasan references an existing pengajuan;
//   - each pengajuan has exactly one proses record;
//   - every handler's workload equals its AKTIF penugasan count.
func (s *pengajuanService) CheckConsistency(ctx context.Context) ([]string, error) {
	var violations []string

	pengajuan, err := s.pengajuan.FindAll()
	if err != nil {
		return nil, storeErr("list pengajuan", err)
	}
	penugasan, err := s.penugasan.FindAll()
	if err != nil {
		return nil, storeErr("list penugasan", err)
	}
	proses, err := s.proses.FindAll()
	if err != nil {
		return nil, storeErr("list proses", err)
	}
	handlers, err := s.handlers.FindAll()
	if err != nil {
		return nil, storeErr("list handlers", err)
	}

	known := make(map[string]int, len(pengajuan))
	for _, p := range pengajuan {
		known[p.NomorProses]++
	}
	for nomor, n := range known {
		if n > 1 {
			violations = append(violations, fmt.Sprintf("nomor proses %s appears %d times", nomor, n))
		}
	}

	aktifPerCase := make(map[string]int)
	aktifPerHandler := make(map[string]int)
	anyPerCase := make(map[string]int)
	for _, a := range penugasan {
		if _, ok := known[a.NomorProses]; !ok {
			violations = append(violations, fmt.Sprintf("penugasan %s references unknown nomor %s", a.ID, a.NomorProses))
		}
		anyPerCase[a.NomorProses]++
		if a.Status == model.PenugasanAktif {
			aktifPerCase[a.NomorProses]++
			aktifPerHandler[a.Email]++
		}
	}
	for nomor := range anyPerCase {
		if aktifPerCase[nomor] != 1 {
			violations = append(violations, fmt.Sprintf("nomor %s has %d AKTIF penugasan, want 1", nomor, aktifPerCase[nomor]))
		}
	}

	prosesPerCase := make(map[string]int)
	for _, p := range proses {
		prosesPerCase[p.NomorProses]++
	}
	for nomor := range known {
		if prosesPerCase[nomor] != 1 {
			violations = append(violations, fmt.Sprintf("nomor %s has %d proses records, want 1", nomor, prosesPerCase[nomor]))
		}
	}

	for _, h := range handlers {
		if h.Workload != aktifPerHandler[h.Email] {
			violations = append(violations, fmt.Sprintf(
				"handler %s workload %d does not match %d AKTIF penugasan",
				h.Email, h.Workload, aktifPerHandler[h.Email]))
		}
	}

	return violations, nil
}
