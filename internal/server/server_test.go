package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ottoverify/otto/internal/model"
	"github.com/ottoverify/otto/internal/pipeline"
	"github.com/ottoverify/otto/internal/quota"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	cfg := model.DefaultConfig()
	p := pipeline.New(cfg, pipeline.Deps{
		Gatekeeper: quota.NewGatekeeper(quota.NewMemoryStore(), nil),
	})
	return New(p, nil)
}

func doJSON(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

const verifyBody = `{"account_id":"alice@example.com","text":"The Eiffel Tower was completed in 1889 and stands 330 meters tall."}`

func TestVerifyEndpoint_OK(t *testing.T) {
	s := testServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/verify", verifyBody)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var envelope struct {
		Success bool                 `json:"success"`
		Data    model.VerifyResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("Invalid JSON response: %v", err)
	}
	if !envelope.Success {
		t.Error("Expected success envelope")
	}
	if envelope.Data.Status != model.StatusOK {
		t.Errorf("Expected ok status, got %s", envelope.Data.Status)
	}
	if envelope.Data.Score < 0 || envelope.Data.Score > 100 {
		t.Errorf("Score %d out of range", envelope.Data.Score)
	}
}

func TestVerifyEndpoint_InvalidInput(t *testing.T) {
	s := testServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/verify", `{"account_id":"a@example.com","text":"Hi"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400 for short text, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "INVALID_INPUT") {
		t.Errorf("Expected INVALID_INPUT error code, got %s", rec.Body.String())
	}
}

func TestVerifyEndpoint_LimitReached(t *testing.T) {
	s := testServer(t)

	for i := 0; i < 3; i++ {
		if rec := doJSON(t, s, http.MethodPost, "/api/verify", verifyBody); rec.Code != http.StatusOK {
			t.Fatalf("Call %d: expected 200, got %d", i+1, rec.Code)
		}
	}

	rec := doJSON(t, s, http.MethodPost, "/api/verify", verifyBody)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("Expected 429 past the free limit, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "LIMIT_REACHED") {
		t.Errorf("Expected LIMIT_REACHED error code, got %s", rec.Body.String())
	}
}

func TestVerifyEndpoint_MissingAccount(t *testing.T) {
	s := testServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/verify", `{"text":"Some perfectly valid length text."}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400 for missing account, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "MISSING_ACCOUNT") {
		t.Errorf("Expected MISSING_ACCOUNT error code, got %s", rec.Body.String())
	}
}

func TestVerifyEndpoint_MalformedJSON(t *testing.T) {
	s := testServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/verify", `{"account_id":`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400 for malformed JSON, got %d", rec.Code)
	}
}

func TestQuotaEndpoint(t *testing.T) {
	s := testServer(t)

	doJSON(t, s, http.MethodPost, "/api/verify", verifyBody)

	rec := doJSON(t, s, http.MethodGet, "/api/quota/alice@example.com", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var envelope struct {
		Success bool                `json:"success"`
		Data    model.QuotaSnapshot `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("Invalid JSON response: %v", err)
	}
	if envelope.Data.VerificationsUsed != 1 {
		t.Errorf("Expected 1 verification used, got %d", envelope.Data.VerificationsUsed)
	}
	if envelope.Data.Plan != model.PlanFree {
		t.Errorf("Expected free plan, got %s", envelope.Data.Plan)
	}
}

func TestQuotaEndpoint_UnknownAccount(t *testing.T) {
	s := testServer(t)

	rec := doJSON(t, s, http.MethodGet, "/api/quota/ghost@example.com", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("Expected 404 for unknown account, got %d", rec.Code)
	}
}

func TestHealthz(t *testing.T) {
	s := testServer(t)

	rec := doJSON(t, s, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
}
