package service_test

import (
	"context"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/liberhite/Aplikasipengajuan/internal/lock"
	"github.com/liberhite/Aplikasipengajuan/internal/model"
	"github.com/liberhite/Aplikasipengajuan/internal/service"
	"github.com/liberhite/Aplikasipengajuan/internal/store"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	svc   service.PengajuanService
	repos *store.Repositories
	locks *lock.Registry
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repos := store.NewRepositories(store.NewMemory())
	locks := lock.NewRegistry(5 * time.Second)
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	svc := service.NewPengajuanService(
		repos.Pengajuan, repos.Handler, repos.Penugasan, repos.Proses, locks, logger,
	)
	service.SetNow(svc, func() time.Time {
		return time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	})
	return &fixture{svc: svc, repos: repos, locks: locks}
}

func (f *fixture) seedPP(t *testing.T, email string, workload int) {
	t.Helper()
	require.NoError(t, f.repos.Handler.Save(&model.HandlerModel{
		Email:    email,
		Nama:     "PP " + email,
		NIP:      "NIP-" + email,
		Role:     model.RolePP,
		Status:   model.HandlerAktif,
		Workload: workload,
	}))
}

func submitReq(paket string) *service.SubmitRequest {
	return &service.SubmitRequest{
		Tanggal:        "2025-05-01",
		NamaPaket:      paket,
		EmailPPK:       "ppk@kemenkeu.go.id",
		NamaPPK:        "PPK Satu",
		Satker:         "Setjen",
		JenisPengadaan: "Barang",
		HPSNominal:     150000000,
		JangkaWaktu:    "30 hari",
	}
}

// TestSubmit_AssignsLeastLoaded routes a submission to the handler with
// the smaller workload: with workloads 2 and 1 the second handler wins
// and its workload becomes 2.
func TestSubmit_AssignsLeastLoaded(t *testing.T) {
	f := newFixture(t)
	f.seedPP(t, "a@kemenkeu.go.id", 2)
	f.seedPP(t, "b@kemenkeu.go.id", 1)

	res, err := f.svc.Submit(context.Background(), submitReq("Pengadaan ATK"))
	require.NoError(t, err)
	assert.Equal(t, "b@kemenkeu.go.id", res.AssignedPP.Email)
	assert.Equal(t, "PR-001/2025", res.NomorProses)

	h, err := f.repos.Handler.FindByEmail("b@kemenkeu.go.id")
	require.NoError(t, err)
	assert.Equal(t, 2, h.Workload)

	p, err := f.repos.Pengajuan.FindByNomor(res.NomorProses)
	require.NoError(t, err)
	assert.Equal(t, model.PengajuanDiproses, p.Status)
	assert.Equal(t, "b@kemenkeu.go.id", p.EmailPP)

	a, err := f.repos.Penugasan.FindAktifByNomor(res.NomorProses)
	require.NoError(t, err)
	assert.Equal(t, "b@kemenkeu.go.id", a.Email)

	pr, err := f.repos.Proses.FindByNomor(res.NomorProses)
	require.NoError(t, err)
	assert.Equal(t, model.ProsesMenunggu, pr.Status)
}

// TestSubmit_AllocatesAfterGaps verifies allocation continues from the
// maximum existing suffix of the year.
func TestSubmit_AllocatesAfterGaps(t *testing.T) {
	f := newFixture(t)
	f.seedPP(t, "a@kemenkeu.go.id", 0)
	for _, nomor := range []string{"PR-007/2025", "PR-013/2025"} {
		require.NoError(t, f.repos.Pengajuan.Save(&model.PengajuanModel{
			NomorProses: nomor,
			Tanggal:     time.Now(),
			NamaPaket:   "seed",
			EmailPPK:    "ppk@kemenkeu.go.id",
			Status:      model.PengajuanDiproses,
			LastUpdate:  time.Now(),
		}))
	}

	next, err := f.svc.NextNomorProses(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "PR-014/2025", next)

	res, err := f.svc.Submit(context.Background(), submitReq("Pengadaan Laptop"))
	require.NoError(t, err)
	assert.Equal(t, "PR-014/2025", res.NomorProses)
}

// TestSubmit_ExplicitNomor verifies an externally supplied nomor is kept
// and duplicates are rejected before any write.
func TestSubmit_ExplicitNomor(t *testing.T) {
	f := newFixture(t)
	f.seedPP(t, "a@kemenkeu.go.id", 0)

	req := submitReq("Pengadaan ATK")
	req.NomorProses = "PR-042/2025"
	res, err := f.svc.Submit(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "PR-042/2025", res.NomorProses)

	dup := submitReq("Pengadaan ATK lagi")
	dup.NomorProses = "PR-042/2025"
	_, err = f.svc.Submit(context.Background(), dup)
	assert.ErrorIs(t, err, service.ErrValidation)

	all, err := f.repos.Pengajuan.FindAll()
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

// TestSubmit_NoEligibleHandler verifies an empty handler pool aborts with
// zero rows written anywhere.
func TestSubmit_NoEligibleHandler(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Submit(context.Background(), submitReq("Pengadaan ATK"))
	assert.ErrorIs(t, err, service.ErrNoEligibleHandler)

	pengajuan, err := f.repos.Pengajuan.FindAll()
	require.NoError(t, err)
	assert.Empty(t, pengajuan)
	penugasan, err := f.repos.Penugasan.FindAll()
	require.NoError(t, err)
	assert.Empty(t, penugasan)
	proses, err := f.repos.Proses.FindAll()
	require.NoError(t, err)
	assert.Empty(t, proses)
}

// TestSubmit_Validation verifies malformed payloads are rejected.
func TestSubmit_Validation(t *testing.T) {
	f := newFixture(t)
	f.seedPP(t, "a@kemenkeu.go.id", 0)

	req := submitReq("Pengadaan ATK")
	req.Tanggal = "01-05-2025"
	_, err := f.svc.Submit(context.Background(), req)
	assert.ErrorIs(t, err, service.ErrValidation)

	req = submitReq("Pengadaan ATK")
	req.NomorProses = "PR-1/25"
	_, err = f.svc.Submit(context.Background(), req)
	assert.ErrorIs(t, err, service.ErrValidation)

	req = submitReq("")
	_, err = f.svc.Submit(context.Background(), req)
	assert.ErrorIs(t, err, service.ErrValidation)
}

// TestSubmit_Concurrent verifies the serialization guarantees: N
// concurrent submits yield N distinct case numbers, nobody's workload
// exceeds ceil(N/poolSize), and the four tables stay mutually consistent.
func TestSubmit_Concurrent(t *testing.T) {
	f := newFixture(t)
	const pool = 4
	const n = 20
	for i := 0; i < pool; i++ {
		f.seedPP(t, fmt.Sprintf("pp%d@kemenkeu.go.id", i), 0)
	}

	var mu sync.Mutex
	assigned := make(map[string]struct{}, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			res, err := f.svc.Submit(context.Background(), submitReq(fmt.Sprintf("Paket %d", i)))
			if err != nil {
				t.Errorf("submit %d: %v", i, err)
				return
			}
			mu.Lock()
			assigned[res.NomorProses] = struct{}{}
			mu.Unlock()
		}(i)
	}
	wg.Wait()

	assert.Len(t, assigned, n, "case numbers must be distinct")

	ceiling := (n + pool - 1) / pool
	handlers, err := f.repos.Handler.FindAll()
	require.NoError(t, err)
	total := 0
	for _, h := range handlers {
		assert.LessOrEqual(t, h.Workload, ceiling, "handler %s over ceiling", h.Email)
		total += h.Workload
	}
	assert.Equal(t, n, total)

	violations, err := f.svc.CheckConsistency(context.Background())
	require.NoError(t, err)
	assert.Empty(t, violations)
}

// TestReassign_SwapsAktif verifies the full reassignment contract: pointer
// update, AKTIF -> DIGANTI supersede, new AKTIF record, and the workload
// moving from the old handler to the new one.
func TestReassign_SwapsAktif(t *testing.T) {
	f := newFixture(t)
	f.seedPP(t, "old@kemenkeu.go.id", 0)

	res, err := f.svc.Submit(context.Background(), submitReq("Pengadaan ATK"))
	require.NoError(t, err)
	require.Equal(t, "old@kemenkeu.go.id", res.AssignedPP.Email)
	f.seedPP(t, "new@kemenkeu.go.id", 0)

	summary, err := f.svc.Reassign(context.Background(), res.NomorProses, "new@kemenkeu.go.id")
	require.NoError(t, err)
	assert.Equal(t, "new@kemenkeu.go.id", summary.Email)
	assert.Equal(t, 1, summary.Workload)

	p, err := f.repos.Pengajuan.FindByNomor(res.NomorProses)
	require.NoError(t, err)
	assert.Equal(t, "new@kemenkeu.go.id", p.EmailPP)

	history, err := f.repos.Penugasan.FindByNomor(res.NomorProses)
	require.NoError(t, err)
	require.Len(t, history, 2)
	aktif, err := f.repos.Penugasan.FindAktifByNomor(res.NomorProses)
	require.NoError(t, err)
	assert.Equal(t, "new@kemenkeu.go.id", aktif.Email)

	oldPP, err := f.repos.Handler.FindByEmail("old@kemenkeu.go.id")
	require.NoError(t, err)
	assert.Equal(t, 0, oldPP.Workload)
	newPP, err := f.repos.Handler.FindByEmail("new@kemenkeu.go.id")
	require.NoError(t, err)
	assert.Equal(t, 1, newPP.Workload)

	violations, err := f.svc.CheckConsistency(context.Background())
	require.NoError(t, err)
	assert.Empty(t, violations)
}

// TestReassign_UnknownNomor verifies the NotFound error.
func TestReassign_UnknownNomor(t *testing.T) {
	f := newFixture(t)
	f.seedPP(t, "a@kemenkeu.go.id", 0)

	_, err := f.svc.Reassign(context.Background(), "PR-404/2025", "a@kemenkeu.go.id")
	assert.ErrorIs(t, err, service.ErrPengajuanNotFound)
}

// TestReassign_UnknownHandler verifies nothing changes when the target
// handler does not exist.
func TestReassign_UnknownHandler(t *testing.T) {
	f := newFixture(t)
	f.seedPP(t, "old@kemenkeu.go.id", 0)
	res, err := f.svc.Submit(context.Background(), submitReq("Pengadaan ATK"))
	require.NoError(t, err)

	_, err = f.svc.Reassign(context.Background(), res.NomorProses, "ghost@kemenkeu.go.id")
	assert.ErrorIs(t, err, service.ErrHandlerNotFound)

	p, err := f.repos.Pengajuan.FindByNomor(res.NomorProses)
	require.NoError(t, err)
	assert.Equal(t, "old@kemenkeu.go.id", p.EmailPP)
	aktif, err := f.repos.Penugasan.FindAktifByNomor(res.NomorProses)
	require.NoError(t, err)
	assert.Equal(t, "old@kemenkeu.go.id", aktif.Email)
	h, err := f.repos.Handler.FindByEmail("old@kemenkeu.go.id")
	require.NoError(t, err)
	assert.Equal(t, 1, h.Workload)
}

// TestReassign_IneligibleHandler verifies an inactive or non-PP target is
// rejected like a missing one.
func TestReassign_IneligibleHandler(t *testing.T) {
	f := newFixture(t)
	f.seedPP(t, "old@kemenkeu.go.id", 0)
	res, err := f.svc.Submit(context.Background(), submitReq("Pengadaan ATK"))
	require.NoError(t, err)

	require.NoError(t, f.repos.Handler.Save(&model.HandlerModel{
		Email: "off@kemenkeu.go.id", Nama: "Off", Role: model.RolePP, Status: model.HandlerNonaktif,
	}))
	_, err = f.svc.Reassign(context.Background(), res.NomorProses, "off@kemenkeu.go.id")
	assert.ErrorIs(t, err, service.ErrHandlerNotFound)

	require.NoError(t, f.repos.Handler.Save(&model.HandlerModel{
		Email: "ppk2@kemenkeu.go.id", Nama: "PPK", Role: model.RolePPK, Status: model.HandlerAktif,
	}))
	_, err = f.svc.Reassign(context.Background(), res.NomorProses, "ppk2@kemenkeu.go.id")
	assert.ErrorIs(t, err, service.ErrHandlerNotFound)
}

// TestReassign_SameHandler verifies reassigning to the current handler
// leaves the workload unchanged and exactly one AKTIF record.
func TestReassign_SameHandler(t *testing.T) {
	f := newFixture(t)
	f.seedPP(t, "pp@kemenkeu.go.id", 0)
	res, err := f.svc.Submit(context.Background(), submitReq("Pengadaan ATK"))
	require.NoError(t, err)

	_, err = f.svc.Reassign(context.Background(), res.NomorProses, "pp@kemenkeu.go.id")
	require.NoError(t, err)

	h, err := f.repos.Handler.FindByEmail("pp@kemenkeu.go.id")
	require.NoError(t, err)
	assert.Equal(t, 1, h.Workload)

	violations, err := f.svc.CheckConsistency(context.Background())
	require.NoError(t, err)
	assert.Empty(t, violations)
}

// TestReassign_MissingAktifRecord verifies the pointer update proceeds when
// no AKTIF penugasan exists; the history is best-effort audit.
func TestReassign_MissingAktifRecord(t *testing.T) {
	f := newFixture(t)
	f.seedPP(t, "new@kemenkeu.go.id", 0)
	require.NoError(t, f.repos.Pengajuan.Save(&model.PengajuanModel{
		NomorProses: "PR-001/2025",
		Tanggal:     time.Now(),
		NamaPaket:   "imported",
		EmailPPK:    "ppk@kemenkeu.go.id",
		Status:      model.PengajuanDiproses,
		LastUpdate:  time.Now(),
	}))

	summary, err := f.svc.Reassign(context.Background(), "PR-001/2025", "new@kemenkeu.go.id")
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Workload)

	aktif, err := f.repos.Penugasan.FindAktifByNomor("PR-001/2025")
	require.NoError(t, err)
	assert.Equal(t, "new@kemenkeu.go.id", aktif.Email)
}

// TestReassign_Validation verifies the missing-argument rejections.
func TestReassign_Validation(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Reassign(context.Background(), "", "a@kemenkeu.go.id")
	assert.ErrorIs(t, err, service.ErrValidation)
	_, err = f.svc.Reassign(context.Background(), "PR-001/2025", "")
	assert.ErrorIs(t, err, service.ErrValidation)
}

// TestSubmit_LockTimeout verifies a held submit lock surfaces the
// retryable timeout instead of blocking.
func TestSubmit_LockTimeout(t *testing.T) {
	repos := store.NewRepositories(store.NewMemory())
	locks := lock.NewRegistry(30 * time.Millisecond)
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	svc := service.NewPengajuanService(
		repos.Pengajuan, repos.Handler, repos.Penugasan, repos.Proses, locks, logger,
	)
	require.NoError(t, repos.Handler.Save(&model.HandlerModel{
		Email: "pp@kemenkeu.go.id", Nama: "PP", Role: model.RolePP, Status: model.HandlerAktif,
	}))

	release, err := locks.Acquire(context.Background(), lock.KeySubmit)
	require.NoError(t, err)
	defer release()

	_, err = svc.Submit(context.Background(), submitReq("Pengadaan ATK"))
	assert.ErrorIs(t, err, service.ErrLockTimeout)
}

// TestDashboard aggregates a PPK's submissions by status.
func TestDashboard(t *testing.T) {
	f := newFixture(t)
	seed := func(nomor, status string) {
		require.NoError(t, f.repos.Pengajuan.Save(&model.PengajuanModel{
			NomorProses: nomor,
			Tanggal:     time.Now(),
			NamaPaket:   "seed",
			EmailPPK:    "ppk@kemenkeu.go.id",
			Status:      status,
			LastUpdate:  time.Now(),
		}))
	}
	seed("PR-001/2025", model.PengajuanDiproses)
	seed("PR-002/2025", model.PengajuanSelesai)
	seed("PR-003/2025", model.PengajuanSelesai)
	seed("PR-004/2025", model.PengajuanDitolak)
	require.NoError(t, f.repos.Pengajuan.Save(&model.PengajuanModel{
		NomorProses: "PR-005/2025",
		Tanggal:     time.Now(),
		NamaPaket:   "other ppk",
		EmailPPK:    "lain@kemenkeu.go.id",
		Status:      model.PengajuanDiproses,
		LastUpdate:  time.Now(),
	}))

	data, err := f.svc.Dashboard(context.Background(), "ppk@kemenkeu.go.id")
	require.NoError(t, err)
	assert.Equal(t, 4, data.Stats.Total)
	assert.Equal(t, 1, data.Stats.Diproses)
	assert.Equal(t, 2, data.Stats.Selesai)
	assert.Equal(t, 1, data.Stats.Ditolak)
	assert.Len(t, data.Pengajuan, 4)
}

// TestAvailableHandlers lists only eligible PPs.
func TestAvailableHandlers(t *testing.T) {
	f := newFixture(t)
	f.seedPP(t, "a@kemenkeu.go.id", 3)
	require.NoError(t, f.repos.Handler.Save(&model.HandlerModel{
		Email: "off@kemenkeu.go.id", Nama: "Off", Role: model.RolePP, Status: model.HandlerNonaktif,
	}))

	list, err := f.svc.AvailableHandlers(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "a@kemenkeu.go.id", list[0].Email)
	assert.Equal(t, 3, list[0].Workload)
}

// TestCheckConsistency_FlagsDrift verifies the checker reports a workload
// count that diverged from the AKTIF penugasan records.
func TestCheckConsistency_FlagsDrift(t *testing.T) {
	f := newFixture(t)
	f.seedPP(t, "pp@kemenkeu.go.id", 0)
	_, err := f.svc.Submit(context.Background(), submitReq("Pengadaan ATK"))
	require.NoError(t, err)

	require.NoError(t, f.repos.Handler.UpdateWorkload("pp@kemenkeu.go.id", 9))

	violations, err := f.svc.CheckConsistency(context.Background())
	require.NoError(t, err)
	require.Len(t, violations, 1)
	assert.Contains(t, violations[0], "workload")
}
