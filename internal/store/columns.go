package store

import (
	"fmt"
	"strconv"
	"time"

	"github.com/liberhite/Aplikasipengajuan/internal/model"
)

// Pengajuan columns, 0-indexed, matching the legacy sheet.
const (
	ColPengajuanNomor = iota
	ColPengajuanTanggal
	ColPengajuanNamaPaket
	ColPengajuanUraian
	ColPengajuanEmailPPK
	ColPengajuanNamaPPK
	ColPengajuanSatker
	ColPengajuanJenis
	ColPengajuanHPS
	ColPengajuanJangkaWaktu
	ColPengajuanNotaDinasURL
	ColPengajuanHPSURL
	ColPengajuanKontrakURL
	ColPengajuanSpesifikasiURL
	ColPengajuanStatus
	ColPengajuanEmailPP
	ColPengajuanNamaPP
	ColPengajuanLastUpdate
	ColPengajuanPDFURL
)

// Users columns.
const (
	ColUserEmail = iota
	ColUserNama
	ColUserNIP
	ColUserRole
	ColUserSatker
	ColUserPassword
	ColUserStatus
	ColUserWorkload
)

// Penugasan_PP columns.
const (
	ColPenugasanID = iota
	ColPenugasanNomor
	ColPenugasanNIP
	ColPenugasanNama
	ColPenugasanEmail
	ColPenugasanTimestamp
	ColPenugasanStatus
)

// Proses_PP columns.
const (
	ColProsesID = iota
	ColProsesNomor
	ColProsesHasilNego
	ColProsesHargaRealisasi
	ColProsesNamaPerusahaan
	ColProsesNPWP
	ColProsesNoKontrak
	ColProsesStatus
)

// Header rows, written as row 0 of a fresh table.
var (
	HeadersPengajuan = Row{
		"nomorProses", "tanggal", "namaPaket", "uraianPekerjaan", "emailPPK",
		"namaPPK", "satker", "jenisPengadaan", "hpsNominal", "jangkaWaktu",
		"notaDinasUrl", "hpsUrl", "kontrakUrl", "spesifikasiUrl", "status",
		"emailPP", "namaPP", "lastUpdate", "pdfUrl",
	}
	HeadersUsers = Row{
		"email", "nama", "nip", "role", "satker", "password", "status", "workload",
	}
	HeadersPenugasan = Row{
		"id", "nomorProses", "nip", "nama", "email", "timestamp", "status",
	}
	HeadersProses = Row{
		"id", "nomorProses", "hasilNego", "hargaRealisasi", "namaPerusahaan",
		"npwp", "noKontrak", "status",
	}
)

// EncodePengajuan renders a submission in legacy column order.
func EncodePengajuan(p *model.PengajuanModel) Row {
	return Row{
		p.NomorProses, p.Tanggal, p.NamaPaket, p.UraianPekerjaan, p.EmailPPK,
		p.NamaPPK, p.Satker, p.JenisPengadaan, p.HPSNominal, p.JangkaWaktu,
		p.NotaDinasURL, p.HPSURL, p.KontrakURL, p.SpesifikasiURL, p.Status,
		p.EmailPP, p.NamaPP, p.LastUpdate, p.PDFURL,
	}
}

// DecodePengajuan parses a legacy pengajuan row.
func DecodePengajuan(row Row) (*model.PengajuanModel, error) {
	if len(row) < len(HeadersPengajuan) {
		return nil, fmt.Errorf("pengajuan row has %d cells, want %d", len(row), len(HeadersPengajuan))
	}
	hps, err := cellFloat(row[ColPengajuanHPS])
	if err != nil {
		return nil, fmt.Errorf("hpsNominal: %w", err)
	}
	return &model.PengajuanModel{
		NomorProses:     cellString(row[ColPengajuanNomor]),
		Tanggal:         cellTime(row[ColPengajuanTanggal]),
		NamaPaket:       cellString(row[ColPengajuanNamaPaket]),
		UraianPekerjaan: cellString(row[ColPengajuanUraian]),
		EmailPPK:        cellString(row[ColPengajuanEmailPPK]),
		NamaPPK:         cellString(row[ColPengajuanNamaPPK]),
		Satker:          cellString(row[ColPengajuanSatker]),
		JenisPengadaan:  cellString(row[ColPengajuanJenis]),
		HPSNominal:      hps,
		JangkaWaktu:     cellString(row[ColPengajuanJangkaWaktu]),
		NotaDinasURL:    cellString(row[ColPengajuanNotaDinasURL]),
		HPSURL:          cellString(row[ColPengajuanHPSURL]),
		KontrakURL:      cellString(row[ColPengajuanKontrakURL]),
		SpesifikasiURL:  cellString(row[ColPengajuanSpesifikasiURL]),
		Status:          cellString(row[ColPengajuanStatus]),
		EmailPP:         cellString(row[ColPengajuanEmailPP]),
		NamaPP:          cellString(row[ColPengajuanNamaPP]),
		LastUpdate:      cellTime(row[ColPengajuanLastUpdate]),
		PDFURL:          cellString(row[ColPengajuanPDFURL]),
	}, nil
}

// EncodeHandler renders a staff account in legacy column order.
func EncodeHandler(h *model.HandlerModel) Row {
	return Row{
		h.Email, h.Nama, h.NIP, h.Role, h.Satker, h.PasswordHash, h.Status, h.Workload,
	}
}

// DecodeHandler parses a legacy users row. A blank workload cell counts as
// zero, as the original sheet left the column empty for new accounts.
func DecodeHandler(row Row) (*model.HandlerModel, error) {
	if len(row) < len(HeadersUsers) {
		return nil, fmt.Errorf("users row has %d cells, want %d", len(row), len(HeadersUsers))
	}
	workload, err := cellInt(row[ColUserWorkload])
	if err != nil {
		return nil, fmt.Errorf("workload: %w", err)
	}
	return &model.HandlerModel{
		Email:        cellString(row[ColUserEmail]),
		Nama:         cellString(row[ColUserNama]),
		NIP:          cellString(row[ColUserNIP]),
		Role:         cellString(row[ColUserRole]),
		Satker:       cellString(row[ColUserSatker]),
		PasswordHash: cellString(row[ColUserPassword]),
		Status:       cellString(row[ColUserStatus]),
		Workload:     workload,
	}, nil
}

// EncodePenugasan renders an assignment record in legacy column order.
func EncodePenugasan(a *model.PenugasanModel) Row {
	return Row{a.ID, a.NomorProses, a.NIP, a.Nama, a.Email, a.Timestamp, a.Status}
}

// DecodePenugasan parses a legacy penugasan row.
func DecodePenugasan(row Row) (*model.PenugasanModel, error) {
	if len(row) < len(HeadersPenugasan) {
		return nil, fmt.Errorf("penugasan row has %d cells, want %d", len(row), len(HeadersPenugasan))
	}
	return &model.PenugasanModel{
		ID:          cellString(row[ColPenugasanID]),
		NomorProses: cellString(row[ColPenugasanNomor]),
		NIP:         cellString(row[ColPenugasanNIP]),
		Nama:        cellString(row[ColPenugasanNama]),
		Email:       cellString(row[ColPenugasanEmail]),
		Timestamp:   cellTime(row[ColPenugasanTimestamp]),
		Status:      cellString(row[ColPenugasanStatus]),
	}, nil
}

// EncodeProses renders a processing record in legacy column order.
func EncodeProses(p *model.ProsesModel) Row {
	return Row{
		p.ID, p.NomorProses, p.HasilNego, p.HargaRealisasi, p.NamaPerusahaan,
		p.NPWP, p.NoKontrak, p.Status,
	}
}

// DecodeProses parses a legacy proses row.
func DecodeProses(row Row) (*model.ProsesModel, error) {
	if len(row) < len(HeadersProses) {
		return nil, fmt.Errorf("proses row has %d cells, want %d", len(row), len(HeadersProses))
	}
	return &model.ProsesModel{
		ID:             cellString(row[ColProsesID]),
		NomorProses:    cellString(row[ColProsesNomor]),
		HasilNego:      cellString(row[ColProsesHasilNego]),
		HargaRealisasi: cellString(row[ColProsesHargaRealisasi]),
		NamaPerusahaan: cellString(row[ColProsesNamaPerusahaan]),
		NPWP:           cellString(row[ColProsesNPWP]),
		NoKontrak:      cellString(row[ColProsesNoKontrak]),
		Status:         cellString(row[ColProsesStatus]),
	}, nil
}

// Cell conversions. The memory store holds native values; a CSV import
// hands over strings. Both shapes are accepted.

func cellString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case time.Time:
		return x.Format(time.RFC3339)
	default:
		return fmt.Sprint(x)
	}
}

func cellFloat(v any) (float64, error) {
	switch x := v.(type) {
	case nil:
		return 0, nil
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case string:
		if x == "" {
			return 0, nil
		}
		return strconv.ParseFloat(x, 64)
	default:
		return 0, fmt.Errorf("cannot read %T as number", v)
	}
}

func cellInt(v any) (int, error) {
	f, err := cellFloat(v)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}

func cellTime(v any) time.Time {
	switch x := v.(type) {
	case time.Time:
		return x
	case string:
		for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
			if t, err := time.Parse(layout, x); err == nil {
				return t
			}
		}
	}
	return time.Time{}
}
