package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/liberhite/Aplikasipengajuan/internal/service"
)

// PengajuanController exposes the assignment engine over HTTP.
type PengajuanController struct {
	svc service.PengajuanService
}

// NewPengajuanController creates the controller.
func NewPengajuanController(svc service.PengajuanService) *PengajuanController {
	return &PengajuanController{svc: svc}
}

// Submit handles POST /api/v1/pengajuan.
func (c *PengajuanController) Submit(ctx *gin.Context) {
	var req service.SubmitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	res, err := c.svc.Submit(ctx.Request.Context(), &req)
	if err != nil {
		ServiceError(ctx, err)
		return
	}

	Success(ctx, res)
}

// Reassign handles POST /api/v1/pengajuan/:nomor/reassign.
func (c *PengajuanController) Reassign(ctx *gin.Context) {
	nomor := ctx.Param("nomor")

	var req struct {
		EmailPP string `json:"email_pp" binding:"required,email"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	summary, err := c.svc.Reassign(ctx.Request.Context(), nomor, req.EmailPP)
	if err != nil {
		ServiceError(ctx, err)
		return
	}

	Success(ctx, gin.H{"new_pp": summary})
}

// NextNumber handles GET /api/v1/pengajuan/next-number.
func (c *PengajuanController) NextNumber(ctx *gin.Context) {
	nomor, err := c.svc.NextNomorProses(ctx.Request.Context())
	if err != nil {
		ServiceError(ctx, err)
		return
	}

	Success(ctx, gin.H{"nomor_proses": nomor})
}

// Handlers handles GET /api/v1/handlers.
func (c *PengajuanController) Handlers(ctx *gin.Context) {
	list, err := c.svc.AvailableHandlers(ctx.Request.Context())
	if err != nil {
		ServiceError(ctx, err)
		return
	}

	Success(ctx, gin.H{"pp_list": list})
}

// Dashboard handles GET /api/v1/dashboard?email_ppk=...
func (c *PengajuanController) Dashboard(ctx *gin.Context) {
	emailPPK := ctx.Query("email_ppk")

	data, err := c.svc.Dashboard(ctx.Request.Context(), emailPPK)
	if err != nil {
		ServiceError(ctx, err)
		return
	}

	Success(ctx, data)
}
