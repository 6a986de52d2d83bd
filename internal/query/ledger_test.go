package query

import (
	"testing"

	"github.com/chungddong/ChurchFinance/internal/core"
)

func TestCombineLedger_SortsByDateStable(t *testing.T) {
	donations := []core.Donation{
		donation(10, "십일조", 1, 50000, 2024, 3, 10),
		donation(11, "감사헌금", 2, 20000, 2024, 3, 1),
	}
	expenses := []core.Expense{
		expense(20, "전기요금", 30000, 2024, 3, 10),
		expense(21, "행사비", 15000, 2024, 3, 5),
	}

	entries := CombineLedger(donations, expenses)
	if len(entries) != 4 {
		t.Fatalf("got %d entries, want 4", len(entries))
	}

	wantOrder := []int64{11, 21, 10, 20}
	for i, id := range wantOrder {
		if entries[i].ID != id {
			t.Errorf("position %d holds id %d, want %d", i, entries[i].ID, id)
		}
	}
	// Same-day rows: the income entry stays ahead of the expense entry.
	if entries[2].Kind != core.EntryIncome || entries[3].Kind != core.EntryExpense {
		t.Errorf("same-day order = %s then %s", entries[2].Kind, entries[3].Kind)
	}
}

func TestCombineLedger_Empty(t *testing.T) {
	if got := CombineLedger(nil, nil); len(got) != 0 {
		t.Errorf("empty ledger has %d entries", len(got))
	}
}

func TestTotalsAndNet(t *testing.T) {
	donations := []core.Donation{
		donation(1, "십일조", 1, 10000, 2024, 3, 1),
		donation(2, "감사헌금", 1, 5000, 2024, 3, 2),
	}
	expenses := []core.Expense{
		expense(3, "사무용품", 8000, 2024, 3, 3),
	}

	entries := CombineLedger(donations, expenses)
	totals := Totals(entries)
	if totals.Income != 15000 || totals.Expense != 8000 || totals.Net != 7000 {
		t.Errorf("Totals = %+v, want income 15000 expense 8000 net 7000", totals)
	}
	if net := NetTotal(entries); net != 7000 {
		t.Errorf("NetTotal = %d, want 7000", net)
	}
	if net := NetTotal(nil); net != 0 {
		t.Errorf("empty NetTotal = %d, want 0", net)
	}
}

func TestLedgerEntry_Signed(t *testing.T) {
	income := core.IncomeEntry(donation(1, "십일조", 1, 10000, 2024, 3, 1))
	if income.Signed() != 10000 {
		t.Errorf("income Signed = %d", income.Signed())
	}
	out := core.ExpenseEntry(expense(2, "세금", 4000, 2024, 3, 2))
	if out.Signed() != -4000 {
		t.Errorf("expense Signed = %d", out.Signed())
	}
}
