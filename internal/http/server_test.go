package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"fintrack/internal/kv"
	"fintrack/internal/store"
)

type seqIDs struct{ n int }

func (g *seqIDs) NewID() string {
	g.n++
	return fmt.Sprintf("id-%d", g.n)
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	st := store.New(context.Background(), kv.NewMemory(), &seqIDs{}, nil)
	return NewServer(":0", st)
}

func do(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t)
	for _, path := range []string{"/healthz", "/readyz"} {
		rr := do(t, srv, http.MethodGet, path, "")
		if rr.Code != 200 {
			t.Fatalf("%s status=%d", path, rr.Code)
		}
	}
}

func TestCreateExpenseValidationAndSuccess(t *testing.T) {
	srv := newTestServer(t)

	// Wrong method
	rr := do(t, srv, http.MethodPut, "/api/expenses", "")
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rr.Code)
	}

	// Invalid amount
	rr = do(t, srv, http.MethodPost, "/api/expenses", `{"description":"x","amount":"abc","category":"food","date":"2024-03-01"}`)
	if rr.Code != 422 {
		t.Fatalf("invalid amount: expected 422, got %d", rr.Code)
	}

	// Non-positive amount
	rr = do(t, srv, http.MethodPost, "/api/expenses", `{"description":"x","amount":"0","category":"food","date":"2024-03-01"}`)
	if rr.Code != 422 {
		t.Fatalf("zero amount: expected 422, got %d", rr.Code)
	}

	// Missing description
	rr = do(t, srv, http.MethodPost, "/api/expenses", `{"description":"","amount":"1.23","category":"food","date":"2024-03-01"}`)
	if rr.Code != 422 {
		t.Fatalf("missing description: expected 422, got %d", rr.Code)
	}

	// Bad date
	rr = do(t, srv, http.MethodPost, "/api/expenses", `{"description":"x","amount":"1.23","category":"food","date":"01/03/2024"}`)
	if rr.Code != 422 {
		t.Fatalf("bad date: expected 422, got %d", rr.Code)
	}

	// Success, amount as string with rounding
	rr = do(t, srv, http.MethodPost, "/api/expenses", `{"description":"Coffee","amount":"4.999","category":"food","date":"2024-03-01"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	var created struct {
		ID              string  `json:"id"`
		Amount          float64 `json:"amount"`
		FormattedAmount string  `json:"formatted_amount"`
		Color           string  `json:"color"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.ID != "id-1" || created.Amount != 5.00 {
		t.Fatalf("unexpected record %+v", created)
	}
	if created.FormattedAmount != "$5.00" {
		t.Fatalf("expected $5.00, got %q", created.FormattedAmount)
	}
	if created.Color == "" {
		t.Fatalf("expected a color token")
	}

	// Success, amount as JSON number
	rr = do(t, srv, http.MethodPost, "/api/expenses", `{"description":"Lunch","amount":12.5,"category":"food","date":"2024-03-02"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("numeric amount: expected 201, got %d: %s", rr.Code, rr.Body.String())
	}

	rr = do(t, srv, http.MethodGet, "/api/expenses", "")
	if rr.Code != 200 {
		t.Fatalf("list: status=%d", rr.Code)
	}
	var list []json.RawMessage
	if err := json.Unmarshal(rr.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 expenses, got %d", len(list))
	}
}

func TestDeleteExpense(t *testing.T) {
	srv := newTestServer(t)

	rr := do(t, srv, http.MethodPost, "/api/expenses", `{"description":"Coffee","amount":"5.00","category":"food","date":"2024-03-01"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("seed: %d", rr.Code)
	}

	rr = do(t, srv, http.MethodPost, "/api/expenses/delete", `{"id":"id-1"}`)
	if rr.Code != 200 {
		t.Fatalf("delete: expected 200, got %d", rr.Code)
	}

	// Idempotent: deleting again still succeeds.
	rr = do(t, srv, http.MethodDelete, "/api/expenses/delete", `{"id":"id-1"}`)
	if rr.Code != 200 {
		t.Fatalf("repeat delete: expected 200, got %d", rr.Code)
	}

	// Missing id is a caller error.
	rr = do(t, srv, http.MethodPost, "/api/expenses/delete", `{}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("missing id: expected 400, got %d", rr.Code)
	}

	rr = do(t, srv, http.MethodGet, "/api/expenses", "")
	if strings.TrimSpace(rr.Body.String()) != "[]" {
		t.Fatalf("expected empty list, got %s", rr.Body.String())
	}
}

func TestSummaryEndpoints(t *testing.T) {
	srv := newTestServer(t)

	seed := []string{
		`{"description":"Groceries","amount":"50.00","category":"food","date":"2024-01-05"}`,
		`{"description":"More food","amount":"30.00","category":"food","date":"2024-02-10"}`,
		`{"description":"Bus","amount":"20.00","category":"transport","date":"2024-02-15"}`,
	}
	for _, body := range seed {
		if rr := do(t, srv, http.MethodPost, "/api/expenses", body); rr.Code != http.StatusCreated {
			t.Fatalf("seed expense: %d %s", rr.Code, rr.Body.String())
		}
	}
	if rr := do(t, srv, http.MethodPost, "/api/income", `{"description":"Salary","amount":"1000.00","date":"2024-01-01"}`); rr.Code != http.StatusCreated {
		t.Fatalf("seed income: %d %s", rr.Code, rr.Body.String())
	}

	rr := do(t, srv, http.MethodGet, "/api/summary", "")
	if rr.Code != 200 {
		t.Fatalf("summary: status=%d", rr.Code)
	}
	var summary struct {
		TotalExpenses float64           `json:"total_expenses"`
		TotalIncome   float64           `json:"total_income"`
		Balance       float64           `json:"balance"`
		Formatted     map[string]string `json:"formatted"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &summary); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if summary.TotalExpenses != 100.00 || summary.TotalIncome != 1000.00 || summary.Balance != 900.00 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	if summary.Formatted["balance"] != "$900.00" {
		t.Fatalf("expected formatted $900.00, got %q", summary.Formatted["balance"])
	}

	rr = do(t, srv, http.MethodGet, "/api/summary/categories", "")
	var cats map[string]float64
	if err := json.Unmarshal(rr.Body.Bytes(), &cats); err != nil {
		t.Fatalf("decode categories: %v", err)
	}
	if cats["food"] != 80.00 || cats["transport"] != 20.00 {
		t.Fatalf("unexpected categories %+v", cats)
	}

	rr = do(t, srv, http.MethodGet, "/api/summary/distribution", "")
	var dist []struct {
		Name  string  `json:"name"`
		Value float64 `json:"value"`
		Color string  `json:"color"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &dist); err != nil {
		t.Fatalf("decode distribution: %v", err)
	}
	if len(dist) != 2 || dist[0].Name != "food" || dist[0].Value != 80.00 || dist[0].Color == "" {
		t.Fatalf("unexpected distribution %+v", dist)
	}

	rr = do(t, srv, http.MethodGet, "/api/summary/monthly", "")
	var months []struct {
		Month string  `json:"month"`
		Total float64 `json:"total"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &months); err != nil {
		t.Fatalf("decode monthly: %v", err)
	}
	if len(months) != 2 || months[0].Month != "Feb 2024" || months[0].Total != 50.00 ||
		months[1].Month != "Jan 2024" || months[1].Total != 50.00 {
		t.Fatalf("unexpected monthly %+v", months)
	}
}

func TestImportRejectsInvalidRecords(t *testing.T) {
	srv := newTestServer(t)

	if rr := do(t, srv, http.MethodPost, "/api/expenses", `{"description":"keep","amount":"1.00","category":"food","date":"2024-01-01"}`); rr.Code != http.StatusCreated {
		t.Fatalf("seed: %d", rr.Code)
	}

	// A non-positive amount fails at decode time.
	body := `{"expenses":[{"id":"x-1","description":"bad","amount":-50.00,"category":"food","date":"2024-01-01"}]}`
	if rr := do(t, srv, http.MethodPost, "/api/import", body); rr.Code != http.StatusBadRequest {
		t.Fatalf("negative amount: expected 400, got %d: %s", rr.Code, rr.Body.String())
	}

	// A decodable but invalid record fails validation.
	cases := []string{
		`{"expenses":[{"id":"x-1","description":"","amount":2.00,"category":"food","date":"2024-01-01"}]}`,
		`{"income":[{"id":"y-1","description":"no date","amount":2.00}]}`,
	}
	for _, body := range cases {
		if rr := do(t, srv, http.MethodPost, "/api/import", body); rr.Code != 422 {
			t.Fatalf("invalid record: expected 422, got %d: %s", rr.Code, rr.Body.String())
		}
	}

	// Rejected payloads must not touch either collection.
	rr := do(t, srv, http.MethodGet, "/api/expenses", "")
	var list []struct {
		ID          string `json:"id"`
		Description string `json:"description"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list) != 1 || list[0].Description != "keep" {
		t.Fatalf("rejected import changed the collection: %+v", list)
	}

	rr = do(t, srv, http.MethodGet, "/api/summary", "")
	var summary struct {
		TotalExpenses float64 `json:"total_expenses"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &summary); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if summary.TotalExpenses != 1.00 {
		t.Fatalf("aggregates changed after rejected import: %+v", summary)
	}
}

func TestImportReplacesCollections(t *testing.T) {
	srv := newTestServer(t)

	if rr := do(t, srv, http.MethodPost, "/api/expenses", `{"description":"old","amount":"1.00","category":"food","date":"2024-01-01"}`); rr.Code != http.StatusCreated {
		t.Fatalf("seed: %d", rr.Code)
	}

	body := `{"expenses":[{"id":"x-1","description":"imported","amount":2.00,"category":"health","date":"2023-12-31"}]}`
	rr := do(t, srv, http.MethodPost, "/api/import", body)
	if rr.Code != 200 {
		t.Fatalf("import: expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	rr = do(t, srv, http.MethodGet, "/api/expenses", "")
	var list []struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list) != 1 || list[0].ID != "x-1" {
		t.Fatalf("import must overwrite, got %+v", list)
	}

	// Income was absent from the import payload, so it is now empty.
	rr = do(t, srv, http.MethodGet, "/api/income", "")
	if strings.TrimSpace(rr.Body.String()) != "[]" {
		t.Fatalf("expected empty income, got %s", rr.Body.String())
	}
}
