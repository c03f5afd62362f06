package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"fintrack/internal/core"
	"fintrack/internal/format"
	"fintrack/internal/store"
)

// incomeView is an income record plus its display fields.
type incomeView struct {
	core.Income
	FormattedAmount string `json:"formatted_amount"`
	FormattedDate   string `json:"formatted_date"`
}

func newIncomeView(i core.Income) incomeView {
	formattedDate, err := format.Date(i.Date.String())
	if err != nil {
		formattedDate = i.Date.String()
	}
	return incomeView{
		Income:          i,
		FormattedAmount: format.Currency(i.Amount),
		FormattedDate:   formattedDate,
	}
}

type incomeDraftRequest struct {
	Description string          `json:"description"`
	Amount      json.RawMessage `json:"amount"`
	Date        string          `json:"date"`
}

func (s *Server) handleIncome(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		income := s.store.Income()
		views := make([]incomeView, 0, len(income))
		for _, i := range income {
			views = append(views, newIncomeView(i))
		}
		writeJSON(w, r, http.StatusOK, views)

	case http.MethodPost:
		var req incomeDraftRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, r, http.StatusBadRequest, "invalid request body")
			return
		}

		desc := sanitizeInput(req.Description)
		if desc == "" {
			writeError(w, r, http.StatusUnprocessableEntity, "description is required")
			return
		}
		amount, err := parseAmount(req.Amount)
		if err != nil {
			writeError(w, r, http.StatusUnprocessableEntity, "invalid amount")
			return
		}
		date, err := core.ParseDate(strings.TrimSpace(req.Date))
		if err != nil {
			writeError(w, r, http.StatusUnprocessableEntity, "invalid date, expected YYYY-MM-DD")
			return
		}

		created, err := s.store.AddIncome(r.Context(), store.IncomeDraft{
			Description: desc,
			Amount:      amount,
			Date:        date,
		})
		if err != nil {
			slog.ErrorContext(r.Context(), "Failed to add income",
				"error", err,
				"description", desc,
				"amount_cents", amount.Cents)
			writeError(w, r, http.StatusUnprocessableEntity, err.Error())
			return
		}

		slog.InfoContext(r.Context(), "Income created",
			"transaction_id", created.ID,
			"description", created.Description,
			"amount_cents", created.Amount.Cents)
		writeJSON(w, r, http.StatusCreated, newIncomeView(created))

	default:
		w.Header().Set("Allow", "GET, POST")
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleDeleteIncome(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete && r.Method != http.MethodPost {
		w.Header().Set("Allow", "DELETE, POST")
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	id, err := idRequest(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if id == "" {
		writeError(w, r, http.StatusBadRequest, "id is required")
		return
	}

	s.store.DeleteIncome(r.Context(), id)
	slog.InfoContext(r.Context(), "Income deleted", "transaction_id", id)
	writeJSON(w, r, http.StatusOK, map[string]string{"deleted": id})
}

// handleImport replaces both collections wholesale. This is a full
// overwrite for bulk import or reset, never a merge; an absent field
// clears the corresponding collection.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req struct {
		Expenses []core.Expense `json:"expenses"`
		Income   []core.Income  `json:"income"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	// Imported records cross the same validation boundary as created ones;
	// one invalid record rejects the whole payload.
	for _, e := range req.Expenses {
		if err := e.Validate(); err != nil {
			writeError(w, r, http.StatusUnprocessableEntity,
				fmt.Sprintf("invalid expense %q: %v", e.ID, err))
			return
		}
	}
	for _, i := range req.Income {
		if err := i.Validate(); err != nil {
			writeError(w, r, http.StatusUnprocessableEntity,
				fmt.Sprintf("invalid income %q: %v", i.ID, err))
			return
		}
	}

	s.store.ReplaceExpenses(r.Context(), req.Expenses)
	s.store.ReplaceIncome(r.Context(), req.Income)

	slog.InfoContext(r.Context(), "Collections replaced",
		"expenses", len(req.Expenses),
		"income", len(req.Income))
	writeJSON(w, r, http.StatusOK, map[string]int{
		"expenses": len(req.Expenses),
		"income":   len(req.Income),
	})
}
