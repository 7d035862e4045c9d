package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"concil/internal/domain"
	"concil/internal/service"
)

type fakeBatchService struct {
	batch *domain.Batch
}

func (f *fakeBatchService) Reconcile(_ context.Context, input service.ReconcileInput) (*domain.Batch, error) {
	batch := &domain.Batch{ID: uuid.New()}
	for _, file := range input.Files {
		batch.Documents = append(batch.Documents, &domain.Document{
			SourceFile: file.Filename,
			Kind:       domain.KindOther,
			Source:     domain.SourceRendered,
		})
	}
	batch.Correlation = &domain.CorrelationResult{Status: domain.SettlementConferir}
	f.batch = batch
	return batch, nil
}

func (f *fakeBatchService) GetByID(_ context.Context, id uuid.UUID) (*domain.Batch, error) {
	if f.batch == nil || f.batch.ID != id {
		return nil, domain.ErrNotFound
	}
	return f.batch, nil
}

func (f *fakeBatchService) List(_ context.Context, _, _ int) ([]domain.BatchSummary, int, error) {
	if f.batch == nil {
		return nil, 0, nil
	}
	return []domain.BatchSummary{{ID: f.batch.ID, Status: domain.SettlementConferir}}, 1, nil
}

func (f *fakeBatchService) Delete(_ context.Context, id uuid.UUID) error {
	if f.batch == nil || f.batch.ID != id {
		return domain.ErrNotFound
	}
	f.batch = nil
	return nil
}

func (f *fakeBatchService) ExportCSV(_ context.Context, id uuid.UUID) ([]byte, string, error) {
	if f.batch == nil || f.batch.ID != id {
		return nil, "", domain.ErrNotFound
	}
	return []byte("Batch ID\n"), "report_2025-08-28.csv", nil
}

func (f *fakeBatchService) ExportXLSX(_ context.Context, id uuid.UUID) ([]byte, string, error) {
	if f.batch == nil || f.batch.ID != id {
		return nil, "", domain.ErrNotFound
	}
	return []byte("PK"), "report_2025-08-28.xlsx", nil
}

func (f *fakeBatchService) GetFileURL(_ context.Context, id uuid.UUID, filename string) (string, error) {
	if f.batch == nil || f.batch.ID != id {
		return "", domain.ErrNotFound
	}
	return "https://example.com/" + filename + "?signed", nil
}

func setupRouter(svc service.BatchService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewBatchHandler(svc)
	r := gin.New()
	v1 := r.Group("/api/v1")
	batches := v1.Group("/batches")
	batches.POST("/reconcile", h.Reconcile)
	batches.GET("", h.List)
	batches.GET("/:id", h.GetByID)
	batches.DELETE("/:id", h.Delete)
	batches.GET("/:id/export.csv", h.ExportCSV)
	batches.GET("/:id/export.xlsx", h.ExportXLSX)
	batches.GET("/:id/files/:filename/url", h.FileURL)
	return r
}

func TestReconcileEndpoint(t *testing.T) {
	svc := &fakeBatchService{}
	r := setupRouter(svc)

	body, _ := json.Marshal(map[string]interface{}{
		"email": map[string]string{"subject": "NF 123"},
		"files": []map[string]string{{"filename": "nota.txt", "text": "NOTA FISCAL"}},
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/batches/reconcile", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var resp APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.NotNil(t, svc.batch)
	assert.Len(t, svc.batch.Documents, 1)
}

func TestReconcileEndpoint_MissingFilename(t *testing.T) {
	r := setupRouter(&fakeBatchService{})

	body := []byte(`{"files":[{"text":"no filename"}]}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/batches/reconcile", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetBatchEndpoint(t *testing.T) {
	svc := &fakeBatchService{}
	r := setupRouter(svc)
	batch, _ := svc.Reconcile(context.Background(), service.ReconcileInput{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/batches/"+batch.ID.String(), nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetBatchEndpoint_InvalidID(t *testing.T) {
	r := setupRouter(&fakeBatchService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/batches/not-a-uuid", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_ID", resp.Error.Code)
}

func TestGetBatchEndpoint_NotFound(t *testing.T) {
	r := setupRouter(&fakeBatchService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/batches/"+uuid.New().String(), nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)

	var resp APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
}

func TestDeleteBatchEndpoint(t *testing.T) {
	svc := &fakeBatchService{}
	r := setupRouter(svc)
	batch, _ := svc.Reconcile(context.Background(), service.ReconcileInput{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/batches/"+batch.ID.String(), nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, svc.batch)
}

func TestListBatchesEndpoint(t *testing.T) {
	svc := &fakeBatchService{}
	r := setupRouter(svc)
	_, _ = svc.Reconcile(context.Background(), service.ReconcileInput{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/batches?offset=0&limit=10", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Meta)
	assert.Equal(t, 1, resp.Meta.Total)
	assert.Equal(t, 10, resp.Meta.Limit)
}

func TestExportCSVEndpoint(t *testing.T) {
	svc := &fakeBatchService{}
	r := setupRouter(svc)
	batch, _ := svc.Reconcile(context.Background(), service.ReconcileInput{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/batches/"+batch.ID.String()+"/export.csv", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "report_2025-08-28.csv")
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, w.Body.String(), "Batch ID")
}

func TestFileURLEndpoint(t *testing.T) {
	svc := &fakeBatchService{}
	r := setupRouter(svc)
	batch, _ := svc.Reconcile(context.Background(), service.ReconcileInput{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/batches/"+batch.ID.String()+"/files/nota.pdf/url", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "nota.pdf")
}
