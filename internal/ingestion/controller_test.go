package ingestion

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

type mockIngestionService struct {
	report Report
	err    error
	ran    bool
}

func (m *mockIngestionService) Run(ctx context.Context) (Report, error) {
	m.ran = true
	return m.report, m.err
}

func setupIngestionRouter(svc IngestionServiceAPI) *gin.Engine {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	RegisterRoutes(r, svc)
	return r
}

func TestIngestionController_CreateInitDB_Success(t *testing.T) {
	mockSvc := &mockIngestionService{report: Report{Inserted: 100, Discarded: 3}}
	r := setupIngestionRouter(mockSvc)

	req := httptest.NewRequest(http.MethodGet, "/create_init_db", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if !mockSvc.ran {
		t.Fatalf("expected ingestion run to be triggered")
	}

	body := w.Body.String()
	if !strings.Contains(body, "100 enregistrements chargés") {
		t.Fatalf("expected inserted count in message, got %q", body)
	}
	if !strings.Contains(body, "3 lignes écartées") {
		t.Fatalf("expected discarded count in message, got %q", body)
	}
}

func TestIngestionController_CreateInitDB_FeedUnavailable_BadGateway(t *testing.T) {
	mockSvc := &mockIngestionService{err: fmt.Errorf("%w: statut HTTP 503", ErrFeedUnavailable)}
	r := setupIngestionRouter(mockSvc)

	req := httptest.NewRequest(http.MethodGet, "/create_init_db", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected status 502, got %d", w.Code)
	}
}

func TestIngestionController_CreateInitDB_OtherError_Is500(t *testing.T) {
	mockSvc := &mockIngestionService{err: errors.New("db down")}
	r := setupIngestionRouter(mockSvc)

	req := httptest.NewRequest(http.MethodGet, "/create_init_db", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", w.Code)
	}
}
