package aggregate

import (
	"math/rand"
	"testing"

	"fintrack/internal/core"
)

func expense(cents int64, cat core.Category, y, m, d int) core.Expense {
	return core.Expense{
		Description: "test",
		Amount:      core.Money{Cents: cents},
		Category:    cat,
		Date:        core.NewDate(y, m, d),
	}
}

func sampleExpenses() []core.Expense {
	return []core.Expense{
		expense(5000, core.CategoryFood, 2024, 1, 5),
		expense(3000, core.CategoryFood, 2024, 2, 10),
		expense(2000, core.CategoryTransport, 2024, 2, 15),
	}
}

func TestTotals(t *testing.T) {
	if got := TotalExpenses(nil); got.Cents != 0 {
		t.Fatalf("empty expenses: expected 0, got %d", got.Cents)
	}
	if got := TotalIncome(nil); got.Cents != 0 {
		t.Fatalf("empty income: expected 0, got %d", got.Cents)
	}
	if got := TotalExpenses(sampleExpenses()); got.Cents != 10000 {
		t.Fatalf("expected 100.00, got %s", got)
	}
}

func TestBalance(t *testing.T) {
	income := []core.Income{{Description: "salary", Amount: core.Money{Cents: 100000}, Date: core.NewDate(2024, 1, 1)}}
	got := Balance(income, sampleExpenses())
	if got.Cents != 90000 {
		t.Fatalf("expected 900.00, got %s", got)
	}

	// Negative balance is allowed.
	if got := Balance(nil, sampleExpenses()); got.Cents != -10000 {
		t.Fatalf("expected -100.00, got %s", got)
	}

	// Balance identity.
	want := TotalIncome(income).Cents - TotalExpenses(sampleExpenses()).Cents
	if got := Balance(income, sampleExpenses()); got.Cents != want {
		t.Fatalf("balance identity violated: %d vs %d", got.Cents, want)
	}
}

func TestByCategory(t *testing.T) {
	sums := ByCategory(sampleExpenses())
	if len(sums) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(sums))
	}
	if sums[core.CategoryFood].Cents != 8000 {
		t.Fatalf("food: expected 80.00, got %s", sums[core.CategoryFood])
	}
	if sums[core.CategoryTransport].Cents != 2000 {
		t.Fatalf("transport: expected 20.00, got %s", sums[core.CategoryTransport])
	}
}

func TestSumDecomposition(t *testing.T) {
	// Per-category and per-month sums must add up to the grand total
	// exactly, including on randomized inputs.
	cats := core.Categories
	rng := rand.New(rand.NewSource(7))
	var expenses []core.Expense
	for i := 0; i < 200; i++ {
		expenses = append(expenses, expense(
			rng.Int63n(99999)+1,
			cats[rng.Intn(len(cats))],
			2023+rng.Intn(2), 1+rng.Intn(12), 1+rng.Intn(28),
		))
	}

	total := TotalExpenses(expenses).Cents

	var byCat int64
	for _, m := range ByCategory(expenses) {
		byCat += m.Cents
	}
	if byCat != total {
		t.Fatalf("category sums %d != total %d", byCat, total)
	}

	var byDist int64
	for _, ca := range Distribution(expenses) {
		byDist += ca.Value.Cents
	}
	if byDist != total {
		t.Fatalf("distribution sums %d != total %d", byDist, total)
	}

	var byMonth int64
	for _, ma := range ByMonth(expenses) {
		byMonth += ma.Total.Cents
	}
	if byMonth != total {
		t.Fatalf("month sums %d != total %d", byMonth, total)
	}
}

func TestTotalsOrderIndependent(t *testing.T) {
	expenses := sampleExpenses()
	want := TotalExpenses(expenses).Cents

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 10; i++ {
		rng.Shuffle(len(expenses), func(a, b int) {
			expenses[a], expenses[b] = expenses[b], expenses[a]
		})
		if got := TotalExpenses(expenses).Cents; got != want {
			t.Fatalf("permutation changed total: %d vs %d", got, want)
		}
	}
}

func TestDistributionFirstAppearanceOrder(t *testing.T) {
	dist := Distribution(sampleExpenses())
	if len(dist) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(dist))
	}
	if dist[0].Name != core.CategoryFood || dist[0].Value.Cents != 8000 {
		t.Fatalf("entry 0: got %+v", dist[0])
	}
	if dist[1].Name != core.CategoryTransport || dist[1].Value.Cents != 2000 {
		t.Fatalf("entry 1: got %+v", dist[1])
	}
}

func TestByMonthNewestFirst(t *testing.T) {
	months := ByMonth(sampleExpenses())
	if len(months) != 2 {
		t.Fatalf("expected 2 months, got %d", len(months))
	}
	if months[0].Label != "Feb 2024" || months[0].Total.Cents != 5000 {
		t.Fatalf("entry 0: got %+v", months[0])
	}
	if months[1].Label != "Jan 2024" || months[1].Total.Cents != 5000 {
		t.Fatalf("entry 1: got %+v", months[1])
	}

	if got := ByMonth(nil); got != nil {
		t.Fatalf("empty input: expected nil, got %+v", got)
	}
}

func TestByMonthDoesNotMutateInput(t *testing.T) {
	expenses := sampleExpenses()
	orig := make([]core.Expense, len(expenses))
	copy(orig, expenses)

	ByMonth(expenses)

	for i := range expenses {
		if expenses[i] != orig[i] {
			t.Fatalf("input mutated at %d: %+v vs %+v", i, expenses[i], orig[i])
		}
	}
}
