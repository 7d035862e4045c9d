package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"concil/internal/domain"
	"concil/internal/service"
)

// BatchHandler handles batch reconciliation endpoints.
type BatchHandler struct {
	svc service.BatchService
}

// NewBatchHandler creates a new BatchHandler.
func NewBatchHandler(svc service.BatchService) *BatchHandler {
	return &BatchHandler{svc: svc}
}

type reconcileFileRequest struct {
	Filename    string `json:"filename" binding:"required"`
	Text        string `json:"text"`
	Content     []byte `json:"content"`
	ContentType string `json:"content_type"`
}

type reconcileRequest struct {
	Email *domain.EmailContext   `json:"email"`
	Files []reconcileFileRequest `json:"files"`
}

// Reconcile handles POST /api/v1/batches/reconcile
func (h *BatchHandler) Reconcile(c *gin.Context) {
	var req reconcileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	input := service.ReconcileInput{Email: req.Email}
	for _, f := range req.Files {
		input.Files = append(input.Files, service.FileInput{
			Filename:    f.Filename,
			Text:        f.Text,
			Content:     f.Content,
			ContentType: f.ContentType,
		})
	}

	batch, err := h.svc.Reconcile(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, batch)
}

// GetByID handles GET /api/v1/batches/:id
func (h *BatchHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	batch, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, batch)
}

// List handles GET /api/v1/batches
func (h *BatchHandler) List(c *gin.Context) {
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	summaries, total, err := h.svc.List(c.Request.Context(), offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, summaries, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// Delete handles DELETE /api/v1/batches/:id
func (h *BatchHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"deleted": id})
}

// ExportCSV handles GET /api/v1/batches/:id/export.csv
func (h *BatchHandler) ExportCSV(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	data, filename, err := h.svc.ExportCSV(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}

// ExportXLSX handles GET /api/v1/batches/:id/export.xlsx
func (h *BatchHandler) ExportXLSX(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	data, filename, err := h.svc.ExportXLSX(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// FileURL handles GET /api/v1/batches/:id/files/:filename/url
func (h *BatchHandler) FileURL(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	filename := c.Param("filename")
	if filename == "" {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "filename is required")
		return
	}
	url, err := h.svc.GetFileURL(c.Request.Context(), id, filename)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"url": url})
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid batch id")
		return uuid.Nil, false
	}
	return id, true
}
