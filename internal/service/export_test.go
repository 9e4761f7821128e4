package service

import "time"

// SetNow pins the coordinator clock, for tests.
func SetNow(s PengajuanService, now func() time.Time) {
	s.(*pengajuanService).now = now
}
