package handler

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridwanfathin/invoice-composer-service/internal/auth"
	"github.com/ridwanfathin/invoice-composer-service/internal/domain"
	"github.com/ridwanfathin/invoice-composer-service/internal/middleware"
	"github.com/ridwanfathin/invoice-composer-service/internal/model"
	"github.com/ridwanfathin/invoice-composer-service/internal/pdf"
	"github.com/ridwanfathin/invoice-composer-service/internal/repository"
	"github.com/ridwanfathin/invoice-composer-service/internal/service"
)

var fixedNow = time.Date(2024, 4, 2, 9, 0, 0, 0, time.UTC)

type testEnv struct {
	router *gin.Engine
	repo   *repository.MemoryRepository
	token  string
}

func storedDocument() domain.InvoiceDocument {
	return domain.InvoiceDocument{
		InvoiceNumber: "INV/7",
		InvoiceDate:   "2024-04-01",
		DueDate:       "2024-04-30",
		Status:        domain.StatusPaid,
		Issuer:        domain.Issuer{BusinessName: "Acme Studio"},
		Recipient:     domain.Recipient{Name: "Globex"},
		LineItems:     []domain.LineItem{{Description: "Design", Quantity: 2, UnitRate: 50, LineTotal: 100}},
	}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	composer, err := pdf.NewComposer(pdf.DefaultOptions())
	require.NoError(t, err)

	repo := repository.NewMemoryRepository()
	paidAt := time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)
	repo.Put("inv-7", "user-1", storedDocument(), &paidAt)

	clock := func() time.Time { return fixedNow }
	documents := service.NewDocumentService(repo, composer, service.DocumentServiceConfig{Clock: clock, MaxWorkers: 2})
	earnings := service.NewEarningsService(repo, clock)

	tokens := auth.NewTokenManager("test-secret", time.Hour)
	token, err := tokens.Generate("user-1", "user@example.com")
	require.NoError(t, err)

	router := gin.New()
	authMiddleware := middleware.AuthMiddleware(tokens)
	NewDocumentHandler(documents).RegisterRoutes(router, authMiddleware)
	NewEarningsHandler(earnings).RegisterRoutes(router, authMiddleware)

	return &testEnv{router: router, repo: repo, token: token}
}

func (e *testEnv) do(t *testing.T, method, path string, body []byte, authed bool) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		req.Header.Set("Authorization", "Bearer "+e.token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) model.ErrorResponse {
	t.Helper()
	var resp model.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestListThemes(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/v1/invoices/themes", nil, false)

	require.Equal(t, http.StatusOK, w.Code)
	var resp model.ThemesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "plain", resp.Default)
	assert.ElementsMatch(t, []string{"plain", "clean", "blue"}, resp.Themes)
}

func TestDownloadInvoice(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/v1/invoices/inv-7/pdf", nil, true)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="invoice-INV-7.pdf"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "1", w.Header().Get("X-Document-Pages"))
	assert.Equal(t, "plain", w.Header().Get("X-Document-Theme"))
	assert.Equal(t, "MISS", w.Header().Get("X-Cache"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))
}

func TestDownloadInvoiceInlineWithTheme(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/v1/invoices/inv-7/pdf?theme=blue&disposition=inline", nil, true)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `inline; filename="invoice-INV-7.pdf"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "blue", w.Header().Get("X-Document-Theme"))
}

func TestDownloadInvoiceErrors(t *testing.T) {
	env := newTestEnv(t)
	incomplete := storedDocument()
	incomplete.Recipient.Name = ""
	incomplete.DueDate = ""
	env.repo.Put("inv-bad", "user-1", incomplete, nil)
	env.repo.Put("inv-other", "user-2", storedDocument(), nil)

	tests := []struct {
		name       string
		path       string
		authed     bool
		wantStatus int
		wantFields []string
	}{
		{"missing token", "/v1/invoices/inv-7/pdf", false, http.StatusUnauthorized, nil},
		{"unknown invoice", "/v1/invoices/nope/pdf", true, http.StatusNotFound, nil},
		{"other owner", "/v1/invoices/inv-other/pdf", true, http.StatusNotFound, nil},
		{"unknown theme", "/v1/invoices/inv-7/pdf?theme=neon", true, http.StatusBadRequest, []string{"theme"}},
		{"bad disposition", "/v1/invoices/inv-7/pdf?disposition=download", true, http.StatusBadRequest, []string{"disposition"}},
		{"missing data", "/v1/invoices/inv-bad/pdf", true, http.StatusUnprocessableEntity, []string{"dueDate", "recipient.name"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodGet, tt.path, nil, tt.authed)

			require.Equal(t, tt.wantStatus, w.Code)
			resp := decodeError(t, w)
			assert.NotEmpty(t, resp.Message)

			var fields []string
			for _, d := range resp.Details {
				fields = append(fields, d.Field)
			}
			for _, f := range tt.wantFields {
				assert.Contains(t, fields, f)
			}
		})
	}
}

func TestDownloadInvoiceMalformedID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	composer, err := pdf.NewComposer(pdf.DefaultOptions())
	require.NoError(t, err)

	// the Postgres repository rejects non-UUID ids before querying, so no pool is needed
	repo := repository.NewPostgresInvoiceRepository(nil)
	documents := service.NewDocumentService(repo, composer, service.DocumentServiceConfig{Clock: func() time.Time { return fixedNow }})

	tokens := auth.NewTokenManager("test-secret", time.Hour)
	token, err := tokens.Generate("0b6f1c2e-4a4b-4d8e-9f3a-2f6a5b7c8d9e", "user@example.com")
	require.NoError(t, err)

	router := gin.New()
	NewDocumentHandler(documents).RegisterRoutes(router, middleware.AuthMiddleware(tokens))

	req := httptest.NewRequest(http.MethodGet, "/v1/invoices/not-a-uuid/pdf", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, ErrInvoiceNotFound, decodeError(t, w).Message)
}

func TestRenderInvoice(t *testing.T) {
	env := newTestEnv(t)
	body, err := json.Marshal(model.InvoiceDocumentRequest{
		InvoiceNumber: "2024-015",
		InvoiceDate:   "2024-04-01",
		DueDate:       "2024-04-15",
		Issuer:        model.IssuerDTO{BusinessName: "Acme Studio"},
		Recipient:     domain.Recipient{Name: "Globex"},
		LineItems:     []model.LineItemDTO{{Description: "Consulting", Quantity: 3, UnitRate: 12.5}},
	})
	require.NoError(t, err)

	w := env.do(t, http.MethodPost, "/v1/invoices/render", body, true)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="invoice-2024-015.pdf"`, w.Header().Get("Content-Disposition"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))
}

func TestRenderInvoiceErrors(t *testing.T) {
	env := newTestEnv(t)

	t.Run("invalid json", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/v1/invoices/render", []byte(`{"invoiceNumber":`), true)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("invalid logo", func(t *testing.T) {
		body, _ := json.Marshal(model.InvoiceDocumentRequest{
			InvoiceNumber: "1",
			Issuer:        model.IssuerDTO{BusinessName: "Acme", LogoBase64: "not base64!"},
		})
		w := env.do(t, http.MethodPost, "/v1/invoices/render", body, true)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing fields", func(t *testing.T) {
		body, _ := json.Marshal(model.InvoiceDocumentRequest{
			InvoiceNumber: "1",
			Issuer:        model.IssuerDTO{BusinessName: "Acme", LogoBase64: base64.StdEncoding.EncodeToString([]byte("junk"))},
		})
		w := env.do(t, http.MethodPost, "/v1/invoices/render", body, true)

		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		resp := decodeError(t, w)
		assert.Equal(t, ErrMissingData, resp.Message)
		assert.NotEmpty(t, resp.Details)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/v1/invoices/render", []byte(`{}`), false)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestEarningsSummary(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/v1/earnings/summary", nil, true)

	require.Equal(t, http.StatusOK, w.Code)
	var summary domain.EarningsSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Equal(t, 1, summary.PaidCount)
	assert.InDelta(t, 100.0, summary.TotalEarned, 0.001)
	assert.InDelta(t, 100.0, summary.ThisMonth.Current, 0.001)
}

func TestEarningsTrends(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/v1/earnings/trends?period=monthly&startDate=2024-01-01&endDate=2024-04-02", nil, true)

	require.Equal(t, http.StatusOK, w.Code)
	var trend domain.EarningsTrend
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &trend))
	require.Len(t, trend.Buckets, 4)
	assert.Equal(t, "2024-01", trend.Buckets[0].Label)
	assert.Equal(t, "2024-04", trend.Buckets[3].Label)
	assert.InDelta(t, 100.0, trend.Buckets[3].Amount, 0.001)
}

func TestEarningsTrendsErrors(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name  string
		query string
		field string
	}{
		{"unknown period", "period=hourly", "period"},
		{"bad start date", "startDate=01-01-2024", "startDate"},
		{"reversed range", "startDate=2024-05-01&endDate=2024-01-01", "endDate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodGet, "/v1/earnings/trends?"+tt.query, nil, true)

			require.Equal(t, http.StatusBadRequest, w.Code)
			resp := decodeError(t, w)
			require.NotEmpty(t, resp.Details)
			assert.Equal(t, tt.field, resp.Details[0].Field)
		})
	}
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

func TestHealth(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("healthy", func(t *testing.T) {
		router := gin.New()
		NewHealthHandler(map[string]Pinger{"postgres": stubPinger{}}, func() time.Time { return fixedNow }).RegisterRoutes(router)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

		require.Equal(t, http.StatusOK, w.Code)
		var resp model.HealthResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "ok", resp.Status)
		assert.Equal(t, "2024-04-02T09:00:00Z", resp.Time)
	})

	t.Run("dependency down", func(t *testing.T) {
		router := gin.New()
		NewHealthHandler(map[string]Pinger{"redis": stubPinger{err: errors.New("connection refused")}, "nil": nil}, nil).RegisterRoutes(router)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

		require.Equal(t, http.StatusServiceUnavailable, w.Code)
		resp := decodeError(t, w)
		require.Len(t, resp.Details, 1)
		assert.Equal(t, "redis", resp.Details[0].Field)
	})
}

func TestParseDisposition(t *testing.T) {
	inline, err := parseDisposition("")
	require.NoError(t, err)
	assert.False(t, inline)

	inline, err = parseDisposition("inline")
	require.NoError(t, err)
	assert.True(t, inline)

	_, err = parseDisposition("download")
	assert.Error(t, err)
}
