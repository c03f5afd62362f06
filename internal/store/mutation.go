package store

import (
	"fmt"

	"fintrack/internal/core"
	"fintrack/internal/events"
)

// mutation is the closed set of state transitions the store applies. Each
// variant carries its payload; apply matches exhaustively, so adding a
// variant without handling it panics instead of being silently ignored.
type mutation interface {
	isMutation()
}

type (
	addExpense      struct{ expense core.Expense }
	deleteExpense   struct{ id string }
	addIncome       struct{ income core.Income }
	deleteIncome    struct{ id string }
	replaceExpenses struct{ expenses []core.Expense }
	replaceIncome   struct{ income []core.Income }
)

func (addExpense) isMutation()      {}
func (deleteExpense) isMutation()   {}
func (addIncome) isMutation()       {}
func (deleteIncome) isMutation()    {}
func (replaceExpenses) isMutation() {}
func (replaceIncome) isMutation()   {}

// apply performs the in-memory state transition. Callers hold s.mu.
func (s *Store) apply(m mutation) {
	switch m := m.(type) {
	case addExpense:
		s.expenses = append(s.expenses, m.expense)
	case deleteExpense:
		s.expenses = removeByID(s.expenses, m.id, func(e core.Expense) string { return e.ID })
	case addIncome:
		s.income = append(s.income, m.income)
	case deleteIncome:
		s.income = removeByID(s.income, m.id, func(i core.Income) string { return i.ID })
	case replaceExpenses:
		s.expenses = append([]core.Expense(nil), m.expenses...)
	case replaceIncome:
		s.income = append([]core.Income(nil), m.income...)
	default:
		panic(fmt.Sprintf("unhandled mutation %T", m))
	}
}

// event describes the applied mutation for the audit feed.
func (s *Store) event(m mutation) events.Event {
	switch m := m.(type) {
	case addExpense:
		return events.NewEvent(events.OpAddExpense, m.expense.ID, m.expense.Amount.Cents)
	case deleteExpense:
		return events.NewEvent(events.OpDeleteExpense, m.id, 0)
	case addIncome:
		return events.NewEvent(events.OpAddIncome, m.income.ID, m.income.Amount.Cents)
	case deleteIncome:
		return events.NewEvent(events.OpDeleteIncome, m.id, 0)
	case replaceExpenses:
		ev := events.NewEvent(events.OpReplaceExpenses, "", 0)
		ev.Count = len(m.expenses)
		return ev
	case replaceIncome:
		ev := events.NewEvent(events.OpReplaceIncome, "", 0)
		ev.Count = len(m.income)
		return ev
	default:
		panic(fmt.Sprintf("unhandled mutation %T", m))
	}
}

// removeByID filters out the entry with the given id without reordering the
// remainder. Removing an absent id is a no-op.
func removeByID[T any](list []T, id string, idOf func(T) string) []T {
	out := list[:0]
	for _, item := range list {
		if idOf(item) != id {
			out = append(out, item)
		}
	}
	return out
}
