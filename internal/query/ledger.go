package query

import (
	"sort"

	"github.com/chungddong/ChurchFinance/internal/core"
)

// LedgerTotals sums a combined ledger. Net is income minus expense.
type LedgerTotals struct {
	Income  int64 `json:"income"`
	Expense int64 `json:"expense"`
	Net     int64 `json:"net"`
}

// CombineLedger merges donations and expenses into one ledger sorted
// by date ascending. The sort is stable: rows sharing a date keep
// their relative order, with income rows ahead of expense rows.
func CombineLedger(donations []core.Donation, expenses []core.Expense) []core.LedgerEntry {
	entries := make([]core.LedgerEntry, 0, len(donations)+len(expenses))
	for _, d := range donations {
		entries = append(entries, core.IncomeEntry(d))
	}
	for _, e := range expenses {
		entries = append(entries, core.ExpenseEntry(e))
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date.Before(entries[j].Date)
	})
	return entries
}

// Totals sums income, expense and net over ledger rows.
func Totals(entries []core.LedgerEntry) LedgerTotals {
	var t LedgerTotals
	for _, e := range entries {
		switch e.Kind {
		case core.EntryIncome:
			t.Income += e.Amount
		case core.EntryExpense:
			t.Expense += e.Amount
		}
	}
	t.Net = t.Income - t.Expense
	return t
}

// NetTotal is the signed sum of a ledger: income minus expense.
func NetTotal(entries []core.LedgerEntry) int64 {
	var net int64
	for _, e := range entries {
		net += e.Signed()
	}
	return net
}
