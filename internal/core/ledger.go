package core

// EntryKind tags a ledger row as income or expense.
type EntryKind string

const (
	EntryIncome  EntryKind = "income"
	EntryExpense EntryKind = "expense"
)

// LedgerEntry is one row of the combined income/expense ledger. Label
// carries the donation type for income rows and the expense category
// for expense rows; Memo carries the donation memo or the expense
// description.
type LedgerEntry struct {
	Kind          EntryKind `json:"kind"`
	ID            int64     `json:"id"`
	Date          Date      `json:"date"`
	Label         string    `json:"label"`
	Amount        int64     `json:"amount"`
	MemberID      int64     `json:"memberId,omitempty"`
	Vendor        string    `json:"vendor,omitempty"`
	PaymentMethod string    `json:"paymentMethod,omitempty"`
	Memo          string    `json:"memo,omitempty"`
}

// Signed returns the amount with expenses negated, so that summing
// signed amounts yields the net balance.
func (e LedgerEntry) Signed() int64 {
	if e.Kind == EntryExpense {
		return -e.Amount
	}
	return e.Amount
}

// When returns the entry date for filtering and sorting.
func (e LedgerEntry) When() Date { return e.Date }

// Value returns the unsigned amount in won.
func (e LedgerEntry) Value() int64 { return e.Amount }

// IncomeEntry converts a donation into a ledger row.
func IncomeEntry(d Donation) LedgerEntry {
	return LedgerEntry{
		Kind:     EntryIncome,
		ID:       d.ID,
		Date:     d.Date,
		Label:    d.Type,
		Amount:   d.Amount,
		MemberID: d.MemberID,
		Memo:     d.Memo,
	}
}

// ExpenseEntry converts an expense into a ledger row.
func ExpenseEntry(e Expense) LedgerEntry {
	return LedgerEntry{
		Kind:          EntryExpense,
		ID:            e.ID,
		Date:          e.Date,
		Label:         e.Category,
		Amount:        e.Amount,
		Vendor:        e.Vendor,
		PaymentMethod: e.PaymentMethod,
		Memo:          e.Description,
	}
}
