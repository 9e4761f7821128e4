package store

import (
	"time"

	"github.com/liberhite/Aplikasipengajuan/internal/model"
	"github.com/liberhite/Aplikasipengajuan/internal/repository"
)

// Repositories bundles row-backed implementations of the typed repository
// contracts over a single Store. They reproduce the legacy access pattern:
// full-table scan, then point updates addressed by row index.
type Repositories struct {
	Pengajuan repository.PengajuanRepository
	Handler   repository.HandlerRepository
	Penugasan repository.PenugasanRepository
	Proses    repository.ProsesRepository
}

// NewRepositories creates the row-backed repository set.
func NewRepositories(s Store) *Repositories {
	return &Repositories{
		Pengajuan: &rowPengajuanRepository{s: s},
		Handler:   &rowHandlerRepository{s: s},
		Penugasan: &rowPenugasanRepository{s: s},
		Proses:    &rowProsesRepository{s: s},
	}
}

// dataRows strips the header row. The returned slice index is the rowIndex
// UpdateCell expects.
func dataRows(s Store, table string) ([]Row, error) {
	rows, err := s.ReadAll(table)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[1:], nil
}

func writeRow(s Store, table string, rowIndex int, row Row) error {
	for col, v := range row {
		if err := s.UpdateCell(table, rowIndex, col, v); err != nil {
			return err
		}
	}
	return nil
}

type rowPengajuanRepository struct {
	s Store
}

func (r *rowPengajuanRepository) Save(p *model.PengajuanModel) error {
	rows, err := dataRows(r.s, TablePengajuan)
	if err != nil {
		return err
	}
	encoded := EncodePengajuan(p)
	for i, row := range rows {
		if cellString(row[ColPengajuanNomor]) == p.NomorProses {
			return writeRow(r.s, TablePengajuan, i, encoded)
		}
	}
	return r.s.Append(TablePengajuan, encoded)
}

func (r *rowPengajuanRepository) FindByNomor(nomor string) (*model.PengajuanModel, error) {
	rows, err := dataRows(r.s, TablePengajuan)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		if cellString(row[ColPengajuanNomor]) == nomor {
			return DecodePengajuan(row)
		}
	}
	return nil, repository.ErrNotFound
}

func (r *rowPengajuanRepository) FindAll() ([]model.PengajuanModel, error) {
	rows, err := dataRows(r.s, TablePengajuan)
	if err != nil {
		return nil, err
	}
	list := make([]model.PengajuanModel, 0, len(rows))
	for _, row := range rows {
		p, err := DecodePengajuan(row)
		if err != nil {
			return nil, err
		}
		list = append(list, *p)
	}
	return list, nil
}

func (r *rowPengajuanRepository) FindByPPK(emailPPK string) ([]model.PengajuanModel, error) {
	all, err := r.FindAll()
	if err != nil {
		return nil, err
	}
	list := make([]model.PengajuanModel, 0)
	for _, p := range all {
		if p.EmailPPK == emailPPK {
			list = append(list, p)
		}
	}
	return list, nil
}

func (r *rowPengajuanRepository) ListNomor() ([]string, error) {
	rows, err := dataRows(r.s, TablePengajuan)
	if err != nil {
		return nil, err
	}
	nomor := make([]string, 0, len(rows))
	for _, row := range rows {
		nomor = append(nomor, cellString(row[ColPengajuanNomor]))
	}
	return nomor, nil
}

func (r *rowPengajuanRepository) UpdateAssignment(nomor, emailPP, namaPP string, at time.Time) error {
	rows, err := dataRows(r.s, TablePengajuan)
	if err != nil {
		return err
	}
	for i, row := range rows {
		if cellString(row[ColPengajuanNomor]) != nomor {
			continue
		}
		if err := r.s.UpdateCell(TablePengajuan, i, ColPengajuanEmailPP, emailPP); err != nil {
			return err
		}
		if err := r.s.UpdateCell(TablePengajuan, i, ColPengajuanNamaPP, namaPP); err != nil {
			return err
		}
		return r.s.UpdateCell(TablePengajuan, i, ColPengajuanLastUpdate, at)
	}
	return repository.ErrNotFound
}

type rowHandlerRepository struct {
	s Store
}

func (r *rowHandlerRepository) Save(h *model.HandlerModel) error {
	rows, err := dataRows(r.s, TableUsers)
	if err != nil {
		return err
	}
	encoded := EncodeHandler(h)
	for i, row := range rows {
		if cellString(row[ColUserEmail]) == h.Email {
			return writeRow(r.s, TableUsers, i, encoded)
		}
	}
	return r.s.Append(TableUsers, encoded)
}

func (r *rowHandlerRepository) FindByEmail(email string) (*model.HandlerModel, error) {
	rows, err := dataRows(r.s, TableUsers)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		if cellString(row[ColUserEmail]) == email {
			return DecodeHandler(row)
		}
	}
	return nil, repository.ErrNotFound
}

func (r *rowHandlerRepository) FindAll() ([]model.HandlerModel, error) {
	rows, err := dataRows(r.s, TableUsers)
	if err != nil {
		return nil, err
	}
	list := make([]model.HandlerModel, 0, len(rows))
	for _, row := range rows {
		h, err := DecodeHandler(row)
		if err != nil {
			return nil, err
		}
		list = append(list, *h)
	}
	return list, nil
}

// FindActivePP keeps sheet order, which is the selector's tie-break order.
func (r *rowHandlerRepository) FindActivePP() ([]model.HandlerModel, error) {
	all, err := r.FindAll()
	if err != nil {
		return nil, err
	}
	list := make([]model.HandlerModel, 0, len(all))
	for _, h := range all {
		if h.Eligible() {
			list = append(list, h)
		}
	}
	return list, nil
}

func (r *rowHandlerRepository) UpdateWorkload(email string, workload int) error {
	rows, err := dataRows(r.s, TableUsers)
	if err != nil {
		return err
	}
	for i, row := range rows {
		if cellString(row[ColUserEmail]) == email {
			return r.s.UpdateCell(TableUsers, i, ColUserWorkload, workload)
		}
	}
	return repository.ErrNotFound
}

type rowPenugasanRepository struct {
	s Store
}

func (r *rowPenugasanRepository) Save(a *model.PenugasanModel) error {
	rows, err := dataRows(r.s, TablePenugasan)
	if err != nil {
		return err
	}
	encoded := EncodePenugasan(a)
	for i, row := range rows {
		if cellString(row[ColPenugasanID]) == a.ID {
			return writeRow(r.s, TablePenugasan, i, encoded)
		}
	}
	return r.s.Append(TablePenugasan, encoded)
}

func (r *rowPenugasanRepository) FindByNomor(nomor string) ([]model.PenugasanModel, error) {
	rows, err := dataRows(r.s, TablePenugasan)
	if err != nil {
		return nil, err
	}
	list := make([]model.PenugasanModel, 0)
	for _, row := range rows {
		if cellString(row[ColPenugasanNomor]) != nomor {
			continue
		}
		a, err := DecodePenugasan(row)
		if err != nil {
			return nil, err
		}
		list = append(list, *a)
	}
	return list, nil
}

func (r *rowPenugasanRepository) FindAktifByNomor(nomor string) (*model.PenugasanModel, error) {
	rows, err := dataRows(r.s, TablePenugasan)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		if cellString(row[ColPenugasanNomor]) == nomor &&
			cellString(row[ColPenugasanStatus]) == model.PenugasanAktif {
			return DecodePenugasan(row)
		}
	}
	return nil, repository.ErrNotFound
}

func (r *rowPenugasanRepository) FindAll() ([]model.PenugasanModel, error) {
	rows, err := dataRows(r.s, TablePenugasan)
	if err != nil {
		return nil, err
	}
	list := make([]model.PenugasanModel, 0, len(rows))
	for _, row := range rows {
		a, err := DecodePenugasan(row)
		if err != nil {
			return nil, err
		}
		list = append(list, *a)
	}
	return list, nil
}

func (r *rowPenugasanRepository) MarkDiganti(id string) error {
	rows, err := dataRows(r.s, TablePenugasan)
	if err != nil {
		return err
	}
	for i, row := range rows {
		if cellString(row[ColPenugasanID]) == id {
			return r.s.UpdateCell(TablePenugasan, i, ColPenugasanStatus, model.PenugasanDiganti)
		}
	}
	return repository.ErrNotFound
}

type rowProsesRepository struct {
	s Store
}

func (r *rowProsesRepository) Save(p *model.ProsesModel) error {
	rows, err := dataRows(r.s, TableProses)
	if err != nil {
		return err
	}
	encoded := EncodeProses(p)
	for i, row := range rows {
		if cellString(row[ColProsesID]) == p.ID {
			return writeRow(r.s, TableProses, i, encoded)
		}
	}
	return r.s.Append(TableProses, encoded)
}

func (r *rowProsesRepository) FindByNomor(nomor string) (*model.ProsesModel, error) {
	rows, err := dataRows(r.s, TableProses)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		if cellString(row[ColProsesNomor]) == nomor {
			return DecodeProses(row)
		}
	}
	return nil, repository.ErrNotFound
}

func (r *rowProsesRepository) FindAll() ([]model.ProsesModel, error) {
	rows, err := dataRows(r.s, TableProses)
	if err != nil {
		return nil, err
	}
	list := make([]model.ProsesModel, 0, len(rows))
	for _, row := range rows {
		p, err := DecodeProses(row)
		if err != nil {
			return nil, err
		}
		list = append(list, *p)
	}
	return list, nil
}

// compile-time interface checks
var (
	_ repository.PengajuanRepository = (*rowPengajuanRepository)(nil)
	_ repository.HandlerRepository   = (*rowHandlerRepository)(nil)
	_ repository.PenugasanRepository = (*rowPenugasanRepository)(nil)
	_ repository.ProsesRepository    = (*rowProsesRepository)(nil)
	_ Store                          = (*Memory)(nil)
)
