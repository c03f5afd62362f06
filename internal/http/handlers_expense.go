package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"fintrack/internal/core"
	"fintrack/internal/format"
	"fintrack/internal/store"
)

// expenseView is an expense record plus its display fields.
type expenseView struct {
	core.Expense
	FormattedAmount string `json:"formatted_amount"`
	FormattedDate   string `json:"formatted_date"`
	Color           string `json:"color"`
}

func newExpenseView(e core.Expense) expenseView {
	formattedDate, err := format.Date(e.Date.String())
	if err != nil {
		// A stored date always reformats; reaching this means the record
		// was tampered with outside the store.
		formattedDate = e.Date.String()
	}
	return expenseView{
		Expense:         e,
		FormattedAmount: format.Currency(e.Amount),
		FormattedDate:   formattedDate,
		Color:           format.CategoryColor(e.Category),
	}
}

// expenseDraftRequest is the raw submission; amount arrives as a decimal
// string or JSON number and is rounded half-up to cents during validation.
type expenseDraftRequest struct {
	Description string          `json:"description"`
	Amount      json.RawMessage `json:"amount"`
	Category    string          `json:"category"`
	Date        string          `json:"date"`
}

// parseAmount accepts "12.34" (string) and 12.34 (number) forms.
func parseAmount(raw json.RawMessage) (core.Money, error) {
	s := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	cents, err := core.ParseDecimalToCents(s)
	if err != nil {
		return core.Money{}, err
	}
	return core.Money{Cents: cents}, nil
}

func (s *Server) handleExpenses(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		expenses := s.store.Expenses()
		views := make([]expenseView, 0, len(expenses))
		for _, e := range expenses {
			views = append(views, newExpenseView(e))
		}
		writeJSON(w, r, http.StatusOK, views)

	case http.MethodPost:
		var req expenseDraftRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, r, http.StatusBadRequest, "invalid request body")
			return
		}

		draft, errMsg := expenseDraftFromRequest(req)
		if errMsg != "" {
			writeError(w, r, http.StatusUnprocessableEntity, errMsg)
			return
		}

		created, err := s.store.AddExpense(r.Context(), draft)
		if err != nil {
			slog.ErrorContext(r.Context(), "Failed to add expense",
				"error", err,
				"description", draft.Description,
				"amount_cents", draft.Amount.Cents,
				"category", draft.Category)
			writeError(w, r, http.StatusUnprocessableEntity, err.Error())
			return
		}

		slog.InfoContext(r.Context(), "Expense created",
			"transaction_id", created.ID,
			"description", created.Description,
			"amount_cents", created.Amount.Cents,
			"category", created.Category)
		writeJSON(w, r, http.StatusCreated, newExpenseView(created))

	default:
		w.Header().Set("Allow", "GET, POST")
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func expenseDraftFromRequest(req expenseDraftRequest) (store.ExpenseDraft, string) {
	desc := sanitizeInput(req.Description)
	if desc == "" {
		return store.ExpenseDraft{}, "description is required"
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		return store.ExpenseDraft{}, "invalid amount"
	}

	date, err := core.ParseDate(strings.TrimSpace(req.Date))
	if err != nil {
		return store.ExpenseDraft{}, "invalid date, expected YYYY-MM-DD"
	}

	// Unknown categories are kept verbatim; display falls back to the
	// neutral color token.
	category := core.Category(sanitizeInput(req.Category))
	if category == "" {
		category = core.CategoryOther
	}

	return store.ExpenseDraft{
		Description: desc,
		Amount:      amount,
		Category:    category,
		Date:        date,
	}, ""
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
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

	// Idempotent: deleting an absent id succeeds.
	s.store.DeleteExpense(r.Context(), id)
	slog.InfoContext(r.Context(), "Expense deleted", "transaction_id", id)
	writeJSON(w, r, http.StatusOK, map[string]string{"deleted": id})
}
