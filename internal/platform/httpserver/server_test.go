package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	clipreview "clipledger/contexts/creator-monetization/clip-review-service"
	clipports "clipledger/contexts/creator-monetization/clip-review-service/ports"
	cliphttp "clipledger/contexts/creator-monetization/clip-review-service/transport/http"
	ratecard "clipledger/contexts/creator-monetization/rate-card-service"
	programhttp "clipledger/contexts/creator-monetization/rate-card-service/transport/http"
)

func newTestServer() *Server {
	clips := clipreview.NewInMemoryModule(nil, []clipports.ProgramRate{{
		ProgramID:        "program-1",
		RatePer100KViews: 5.0,
		Active:           true,
	}}, nil)
	programs := ratecard.NewInMemoryModule(nil, nil)
	return New(clips, programs, nil, ":0")
}

func doJSON(t *testing.T, server *Server, method string, path string, headers map[string]string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request failed: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	recorder := httptest.NewRecorder()
	server.Handler().ServeHTTP(recorder, req)
	return recorder
}

func TestSubmitRequiresAccountHeader(t *testing.T) {
	server := newTestServer()

	resp := doJSON(t, server, http.MethodPost, "/api/clips", nil, cliphttp.SubmitClipRequest{
		ProgramID:     "program-1",
		Link:          "https://www.tiktok.com/@creator/video/1",
		ReportedViews: 100,
	})
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
}

func TestSubmitApproveLedgerFlow(t *testing.T) {
	server := newTestServer()

	submit := doJSON(t, server, http.MethodPost, "/api/clips", map[string]string{
		"X-Account-Id": "account-1",
	}, cliphttp.SubmitClipRequest{
		ProgramID:     "program-1",
		Link:          "https://www.tiktok.com/@creator/video/42",
		ReportedViews: 200_000,
	})
	if submit.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", submit.Code, submit.Body.String())
	}
	var submitted cliphttp.SubmitClipResponse
	if err := json.Unmarshal(submit.Body.Bytes(), &submitted); err != nil {
		t.Fatalf("decode submit response failed: %v", err)
	}
	if submitted.Clip.CreatorID != "account-1" {
		t.Fatalf("expected creator to default to account, got %s", submitted.Clip.CreatorID)
	}

	approve := doJSON(t, server, http.MethodPost, "/api/clips/"+submitted.Clip.ClipID+"/approve", map[string]string{
		"X-Reviewer-Id": "reviewer-1",
	}, nil)
	if approve.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", approve.Code, approve.Body.String())
	}

	ledger := doJSON(t, server, http.MethodGet, "/api/creators/account-1/ledger", nil, nil)
	if ledger.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", ledger.Code)
	}
	var ledgerResp cliphttp.LedgerResponse
	if err := json.Unmarshal(ledger.Body.Bytes(), &ledgerResp); err != nil {
		t.Fatalf("decode ledger response failed: %v", err)
	}
	if ledgerResp.CreditedViewsTotal != 200_000 || ledgerResp.CreditedRevenueTotal != 10.0 {
		t.Fatalf("unexpected ledger: %+v", ledgerResp)
	}
}

func TestReviewRequiresReviewerHeader(t *testing.T) {
	server := newTestServer()

	resp := doJSON(t, server, http.MethodPost, "/api/clips/any/approve", nil, nil)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
}

func TestGetUnknownClipReturns404(t *testing.T) {
	server := newTestServer()

	resp := doJSON(t, server, http.MethodGet, "/api/clips/missing", nil, nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
	var errResp cliphttp.ErrorResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &errResp); err != nil {
		t.Fatalf("decode error response failed: %v", err)
	}
	if errResp.Code != "clip_not_found" {
		t.Fatalf("expected clip_not_found code, got %s", errResp.Code)
	}
}

func TestDuplicateSubmissionReturns409(t *testing.T) {
	server := newTestServer()
	headers := map[string]string{"X-Account-Id": "account-1"}

	first := doJSON(t, server, http.MethodPost, "/api/clips", headers, cliphttp.SubmitClipRequest{
		ProgramID:     "program-1",
		Link:          "https://www.youtube.com/watch?v=abc",
		ReportedViews: 100,
	})
	if first.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", first.Code)
	}
	second := doJSON(t, server, http.MethodPost, "/api/clips", headers, cliphttp.SubmitClipRequest{
		ProgramID:     "program-1",
		Link:          "https://youtu.be/abc",
		ReportedViews: 100,
	})
	if second.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", second.Code)
	}
}

func TestMonthlyReportRequiresMonth(t *testing.T) {
	server := newTestServer()

	resp := doJSON(t, server, http.MethodGet, "/api/creators/creator-1/reports/monthly", nil, nil)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestProgramRoutes(t *testing.T) {
	server := newTestServer()

	create := doJSON(t, server, http.MethodPost, "/api/programs", nil, programhttp.CreateProgramRequest{
		Name:             "Summer Clips",
		RatePer100KViews: 5.0,
	})
	if create.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", create.Code, create.Body.String())
	}
	var created programhttp.ProgramResponse
	if err := json.Unmarshal(create.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode program response failed: %v", err)
	}

	archive := doJSON(t, server, http.MethodPost, "/api/programs/"+created.Program.ProgramID+"/archive", nil, nil)
	if archive.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", archive.Code)
	}

	missing := doJSON(t, server, http.MethodGet, "/api/programs/missing", nil, nil)
	if missing.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", missing.Code)
	}

	invalid := doJSON(t, server, http.MethodPost, "/api/programs", nil, programhttp.CreateProgramRequest{
		Name:             "Bad",
		RatePer100KViews: 0,
	})
	if invalid.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", invalid.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	server := newTestServer()

	resp := doJSON(t, server, http.MethodGet, "/metrics", nil, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
}
