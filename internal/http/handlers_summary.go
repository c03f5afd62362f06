package http

import (
	"net/http"

	"fintrack/internal/aggregate"
	"fintrack/internal/core"
	"fintrack/internal/format"
)

func requireGet(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return false
	}
	return true
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}

	expenses := s.store.Expenses()
	income := s.store.Income()

	totalExpenses := aggregate.TotalExpenses(expenses)
	totalIncome := aggregate.TotalIncome(income)
	balance := aggregate.Balance(income, expenses)

	writeJSON(w, r, http.StatusOK, struct {
		TotalExpenses core.Money        `json:"total_expenses"`
		TotalIncome   core.Money        `json:"total_income"`
		Balance       core.Money        `json:"balance"`
		Formatted     map[string]string `json:"formatted"`
	}{
		TotalExpenses: totalExpenses,
		TotalIncome:   totalIncome,
		Balance:       balance,
		Formatted: map[string]string{
			"total_expenses": format.Currency(totalExpenses),
			"total_income":   format.Currency(totalIncome),
			"balance":        format.Currency(balance),
		},
	})
}

func (s *Server) handleSummaryCategories(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}
	writeJSON(w, r, http.StatusOK, aggregate.ByCategory(s.store.Expenses()))
}

// distributionEntry augments a chart slice with its color token.
type distributionEntry struct {
	Name  core.Category `json:"name"`
	Value core.Money    `json:"value"`
	Color string        `json:"color"`
}

func (s *Server) handleSummaryDistribution(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}

	dist := aggregate.Distribution(s.store.Expenses())
	out := make([]distributionEntry, 0, len(dist))
	for _, ca := range dist {
		out = append(out, distributionEntry{
			Name:  ca.Name,
			Value: ca.Value,
			Color: format.CategoryColor(ca.Name),
		})
	}
	writeJSON(w, r, http.StatusOK, out)
}

func (s *Server) handleSummaryMonthly(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}

	months := aggregate.ByMonth(s.store.Expenses())
	if months == nil {
		months = []aggregate.MonthAmount{}
	}
	writeJSON(w, r, http.StatusOK, months)
}
