package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/liberhite/Aplikasipengajuan/internal/assign"
	"github.com/liberhite/Aplikasipengajuan/internal/lock"
	"github.com/liberhite/Aplikasipengajuan/internal/metrics"
	"github.com/liberhite/Aplikasipengajuan/internal/model"
	"github.com/liberhite/Aplikasipengajuan/internal/repository"
	"github.com/liberhite/Aplikasipengajuan/internal/sequence"
	"github.com/liberhite/Aplikasipengajuan/internal/workload"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

// PengajuanService is the assignment coordinator: it allocates case
// numbers, routes each pengajuan to the least-loaded PP and keeps the
// pengajuan, penugasan, proses and workload records mutually consistent.
type PengajuanService interface {
	Submit(ctx context.Context, req *SubmitRequest) (*SubmitResult, error)
	Reassign(ctx context.Context, nomor, newEmailPP string) (*HandlerSummary, error)
	NextNomorProses(ctx context.Context) (string, error)
	AvailableHandlers(ctx context.Context) ([]HandlerSummary, error)
	Dashboard(ctx context.Context, emailPPK string) (*DashboardData, error)
	CheckConsistency(ctx context.Context) ([]string, error)
}

// SubmitRequest carries the submission payload. NomorProses may be left
// empty to have the engine allocate the next number of the current year.
type SubmitRequest struct {
	NomorProses     string  `json:"nomor_proses"`
	Tanggal         string  `json:"tanggal" binding:"required"` // 2006-01-02
	NamaPaket       string  `json:"nama_paket" binding:"required"`
	UraianPekerjaan string  `json:"uraian_pekerjaan"`
	EmailPPK        string  `json:"email_ppk" binding:"required,email"`
	NamaPPK         string  `json:"nama_ppk"`
	Satker          string  `json:"satker"`
	JenisPengadaan  string  `json:"jenis_pengadaan"`
	HPSNominal      float64 `json:"hps_nominal"`
	JangkaWaktu     string  `json:"jangka_waktu"`
	NotaDinasURL    string  `json:"nota_dinas_url"`
	HPSURL          string  `json:"hps_url"`
	KontrakURL      string  `json:"kontrak_url"`
	SpesifikasiURL  string  `json:"spesifikasi_url"`
}

// SubmitResult reports the allocated nomor and the assigned handler.
type SubmitResult struct {
	NomorProses string         `json:"nomor_proses"`
	AssignedPP  HandlerSummary `json:"assigned_pp"`
}

// HandlerSummary is the public view of a handler.
type HandlerSummary struct {
	Email    string `json:"email"`
	Nama     string `json:"nama"`
	NIP      string `json:"nip"`
	Satker   string `json:"satker"`
	Workload int    `json:"workload"`
}

// DashboardData is the per-PPK submission overview.
type DashboardData struct {
	Stats     DashboardStats         `json:"stats"`
	Pengajuan []model.PengajuanModel `json:"pengajuan"`
}

// DashboardStats counts a PPK's submissions by status.
type DashboardStats struct {
	Total    int `json:"total"`
	Diproses int `json:"diproses"`
	Selesai  int `json:"selesai"`
	Ditolak  int `json:"ditolak"`
}

type pengajuanService struct {
	pengajuan repository.PengajuanRepository
	handlers  repository.HandlerRepository
	penugasan repository.PenugasanRepository
	proses    repository.ProsesRepository
	ledger    *workload.Ledger
	locks     *lock.Registry
	logger    *logrus.Logger
	now       func() time.Time
}

// NewPengajuanService creates the coordinator.
func NewPengajuanService(
	pengajuan repository.PengajuanRepository,
	handlers repository.HandlerRepository,
	penugasan repository.PenugasanRepository,
	proses repository.ProsesRepository,
	locks *lock.Registry,
	logger *logrus.Logger,
) PengajuanService {
	return &pengajuanService{
		pengajuan: pengajuan,
		handlers:  handlers,
		penugasan: penugasan,
		proses:    proses,
		ledger:    workload.NewLedger(handlers),
		locks:     locks,
		logger:    logger,
		now:       time.Now,
	}
}

// acquire takes an engine lock, recording the wait time.
func (s *pengajuanService) acquire(ctx context.Context, key string) (func(), error) {
	start := s.now()
	release, err := s.locks.Acquire(ctx, key)
	metrics.ObserveLockWait(key, time.Since(start).Seconds())
	return release, err
}

// Submit allocates a nomor proses if none was supplied, routes the
// pengajuan to the least-loaded active PP and writes the three dependent
// records plus the workload counter as one serialized unit.
//
// The submit lock guards everything from the sequence snapshot to the
// workload write: without it two concurrent submits could allocate the
// same nomor or lose a workload update. The writes are ordered so that a
// mid-sequence failure leaves at most a dangling inert record, never an
// over-counted handler: the workload increment comes last.
func (s *pengajuanService) Submit(ctx context.Context, req *SubmitRequest) (*SubmitResult, error) {
	tanggal, err := s.validateSubmit(req)
	if err != nil {
		metrics.RecordSubmitFailure("validation")
		return nil, err
	}

	release, err := s.acquire(ctx, lock.KeySubmit)
	if err != nil {
		metrics.RecordSubmitFailure("lock_timeout")
		return nil, err
	}
	defer release()

	nomor := req.NomorProses
	if nomor == "" {
		existing, err := s.pengajuan.ListNomor()
		if err != nil {
			metrics.RecordSubmitFailure("store")
			return nil, storeErr("list nomor proses", err)
		}
		nomor = sequence.Next(existing, s.now().Year())
	} else {
		if _, err := s.pengajuan.FindByNomor(nomor); err == nil {
			metrics.RecordSubmitFailure("validation")
			return nil, validationErr("nomor proses %s already exists", nomor)
		} else if !errors.Is(err, repository.ErrNotFound) {
			metrics.RecordSubmitFailure("store")
			return nil, storeErr("check nomor proses", err)
		}
	}

	// Select before any write: a NoEligibleHandler failure must leave zero
	// rows behind.
	eligible, err := s.handlers.FindActivePP()
	if err != nil {
		metrics.RecordSubmitFailure("store")
		return nil, storeErr("list handlers", err)
	}
	selected, err := assign.LeastLoaded(eligible)
	if err != nil {
		metrics.RecordSubmitFailure("no_eligible_handler")
		return nil, err
	}

	timestamp := s.now()
	p := &model.PengajuanModel{
		NomorProses:     nomor,
		Tanggal:         tanggal,
		NamaPaket:       req.NamaPaket,
		UraianPekerjaan: req.UraianPekerjaan,
		EmailPPK:        req.EmailPPK,
		NamaPPK:         req.NamaPPK,
		Satker:          req.Satker,
		JenisPengadaan:  req.JenisPengadaan,
		HPSNominal:      req.HPSNominal,
		JangkaWaktu:     req.JangkaWaktu,
		NotaDinasURL:    req.NotaDinasURL,
		HPSURL:          req.HPSURL,
		KontrakURL:      req.KontrakURL,
		SpesifikasiURL:  req.SpesifikasiURL,
		Status:          model.PengajuanDiproses,
		EmailPP:         selected.Email,
		NamaPP:          selected.Nama,
		LastUpdate:      timestamp,
	}
	if err := s.pengajuan.Save(p); err != nil {
		metrics.RecordSubmitFailure("store")
		return nil, storeErr("save pengajuan", err)
	}

	if err := s.penugasan.Save(&model.PenugasanModel{
		ID:          uuid.NewString(),
		NomorProses: nomor,
		NIP:         selected.NIP,
		Nama:        selected.Nama,
		Email:       selected.Email,
		Timestamp:   timestamp,
		Status:      model.PenugasanAktif,
	}); err != nil {
		metrics.RecordSubmitFailure("store")
		return nil, storeErr("save penugasan", err)
	}

	if err := s.proses.Save(&model.ProsesModel{
		ID:          uuid.NewString(),
		NomorProses: nomor,
		Status:      model.ProsesMenunggu,
	}); err != nil {
		metrics.RecordSubmitFailure("store")
		return nil, storeErr("save proses", err)
	}

	if err := s.ledger.Increment(selected.Email); err != nil {
		metrics.RecordSubmitFailure("store")
		return nil, storeErr("increment workload", err)
	}

	metrics.RecordPengajuanSubmitted()
	metrics.SetHandlerWorkload(selected.Email, selected.Workload+1)
	s.logger.WithFields(logrus.Fields{
		"nomor_proses": nomor,
		"email_pp":     selected.Email,
		"email_ppk":    req.EmailPPK,
		"workload":     selected.Workload + 1,
	}).Info("pengajuan submitted")

	return &SubmitResult{
		NomorProses: nomor,
		AssignedPP:  summarize(*selected, selected.Workload+1),
	}, nil
}

// Reassign moves a pengajuan to another active PP: the submission's handler
// pointer is updated, the AKTIF penugasan (if any) is superseded with
// DIGANTI, a new AKTIF record is appended, and the workload ledger moves
// one count from the previous handler to the new one.
//
// The per-case lock serializes the AKTIF swap; the submit lock is taken
// for the ledger mutation only, always after the case lock, so the two
// operations cannot deadlock.
func (s *pengajuanService) Reassign(ctx context.Context, nomor, newEmailPP string) (*HandlerSummary, error) {
	if nomor == "" {
		return nil, validationErr("nomor proses is required")
	}
	if newEmailPP == "" {
		return nil, validationErr("email PP is required")
	}

	release, err := s.acquire(ctx, lock.CaseKey(nomor))
	if err != nil {
		return nil, err
	}
	defer release()

	if _, err := s.pengajuan.FindByNomor(nomor); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPengajuanNotFound
		}
		return nil, storeErr("find pengajuan", err)
	}

	newPP, err := s.handlers.FindByEmail(newEmailPP)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrHandlerNotFound
		}
		return nil, storeErr("find handler", err)
	}
	if !newPP.Eligible() {
		return nil, ErrHandlerNotFound
	}

	timestamp := s.now()
	if err := s.pengajuan.UpdateAssignment(nomor, newPP.Email, newPP.Nama, timestamp); err != nil {
		return nil, storeErr("update pengajuan", err)
	}

	// The previous AKTIF record is superseded when present; a missing one
	// is tolerated, the assignment history is best-effort audit.
	prevEmail := ""
	prev, err := s.penugasan.FindAktifByNomor(nomor)
	switch {
	case err == nil:
		prevEmail = prev.Email
		if err := s.penugasan.MarkDiganti(prev.ID); err != nil {
			return nil, storeErr("supersede penugasan", err)
		}
	case errors.Is(err, repository.ErrNotFound):
		s.logger.WithField("nomor_proses", nomor).Warn("no AKTIF penugasan to supersede")
	default:
		return nil, storeErr("find aktif penugasan", err)
	}

	if err := s.penugasan.Save(&model.PenugasanModel{
		ID:          uuid.NewString(),
		NomorProses: nomor,
		NIP:         newPP.NIP,
		Nama:        newPP.Nama,
		Email:       newPP.Email,
		Timestamp:   timestamp,
		Status:      model.PenugasanAktif,
	}); err != nil {
		return nil, storeErr("save penugasan", err)
	}

	// Ledger mutation under the submit lock, which owns the workload
	// counters.
	ledgerRelease, err := s.acquire(ctx, lock.KeySubmit)
	if err != nil {
		return nil, err
	}
	defer ledgerRelease()

	if prevEmail != "" && prevEmail != newPP.Email {
		if err := s.ledger.Decrement(prevEmail); err != nil {
			return nil, storeErr("decrement workload", err)
		}
	}
	if prevEmail != newPP.Email {
		if err := s.ledger.Increment(newPP.Email); err != nil {
			return nil, storeErr("increment workload", err)
		}
	}

	updated, err := s.handlers.FindByEmail(newPP.Email)
	if err != nil {
		return nil, storeErr("reload handler", err)
	}

	metrics.RecordReassignment()
	metrics.SetHandlerWorkload(updated.Email, updated.Workload)
	if prevEmail != "" {
		if prevHandler, err := s.handlers.FindByEmail(prevEmail); err == nil {
			metrics.SetHandlerWorkload(prevHandler.Email, prevHandler.Workload)
		}
	}
	s.logger.WithFields(logrus.Fields{
		"nomor_proses": nomor,
		"from":         prevEmail,
		"to":           newPP.Email,
	}).Info("pengajuan reassigned")

	summary := summarize(*updated, updated.Workload)
	return &summary, nil
}

// NextNomorProses previews the next case number of the current year. The
// preview is advisory: Submit recomputes under the submit lock, so a
// preview handed to a form cannot collide with a concurrent submit.
func (s *pengajuanService) NextNomorProses(ctx context.Context) (string, error) {
	existing, err := s.pengajuan.ListNomor()
	if err != nil {
		return "", storeErr("list nomor proses", err)
	}
	return sequence.Next(existing, s.now().Year()), nil
}

// AvailableHandlers lists the assignment-eligible PPs with their workloads.
func (s *pengajuanService) AvailableHandlers(ctx context.Context) ([]HandlerSummary, error) {
	eligible, err := s.handlers.FindActivePP()
	if err != nil {
		return nil, storeErr("list handlers", err)
	}
	return lo.Map(eligible, func(h model.HandlerModel, _ int) HandlerSummary {
		return summarize(h, h.Workload)
	}), nil
}

// Dashboard returns a PPK's submissions and their status counts.
func (s *pengajuanService) Dashboard(ctx context.Context, emailPPK string) (*DashboardData, error) {
	if emailPPK == "" {
		return nil, validationErr("email PPK is required")
	}
	list, err := s.pengajuan.FindByPPK(emailPPK)
	if err != nil {
		return nil, storeErr("list pengajuan", err)
	}
	counts := lo.CountValuesBy(list, func(p model.PengajuanModel) string { return p.Status })
	return &DashboardData{
		Stats: DashboardStats{
			Total:    len(list),
			Diproses: counts[model.PengajuanDiproses],
			Selesai:  counts[model.PengajuanSelesai],
			Ditolak:  counts[model.PengajuanDitolak],
		},
		Pengajuan: list,
	}, nil
}

func (s *pengajuanService) validateSubmit(req *SubmitRequest) (time.Time, error) {
	if req == nil {
		return time.Time{}, validationErr("empty payload")
	}
	if req.NamaPaket == "" {
		return time.Time{}, validationErr("nama paket is required")
	}
	if req.EmailPPK == "" {
		return time.Time{}, validationErr("email PPK is required")
	}
	if req.NomorProses != "" && !sequence.Valid(req.NomorProses) {
		return time.Time{}, validationErr("nomor proses %q is not PR-NNN/YYYY", req.NomorProses)
	}
	tanggal, err := time.Parse("2006-01-02", req.Tanggal)
	if err != nil {
		return time.Time{}, validationErr("tanggal must be YYYY-MM-DD")
	}
	return tanggal, nil
}

func summarize(h model.HandlerModel, workload int) HandlerSummary {
	return HandlerSummary{
		Email:    h.Email,
		Nama:     h.Nama,
		NIP:      h.NIP,
		Satker:   h.Satker,
		Workload: workload,
	}
}
