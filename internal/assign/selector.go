// Package assign selects the handler that receives a new pengajuan.
package assign

import (
	"errors"
	"sort"

	"github.com/liberhite/Aplikasipengajuan/internal/model"
	"github.com/samber/lo"
)

// ErrNoEligibleHandler is returned when no active PP exists to assign to.
var ErrNoEligibleHandler = errors.New("no eligible handler")

// LeastLoaded picks the eligible handler with the smallest current workload.
// Only handlers with role PP and status AKTIF are considered. Ties resolve
// by input order (stable sort): the policy is workload-proportional and
// collapses to round-robin only when all workloads are equal.
//
// LeastLoaded is pure over its snapshot and never mutates the input.
func LeastLoaded(handlers []model.HandlerModel) (*model.HandlerModel, error) {
	eligible := lo.Filter(handlers, func(h model.HandlerModel, _ int) bool {
		return h.Eligible()
	})
	if len(eligible) == 0 {
		return nil, ErrNoEligibleHandler
	}

	sort.SliceStable(eligible, func(i, j int) bool {
		return eligible[i].Workload < eligible[j].Workload
	})

	selected := eligible[0]
	return &selected, nil
}
