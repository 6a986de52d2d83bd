// Package query computes filtered tables and statistics over record
// snapshots. Every function is pure: inputs are never mutated and
// results are freshly allocated.
package query

import (
	"github.com/chungddong/ChurchFinance/internal/core"
)

// Dated is any record carrying a calendar date.
type Dated interface {
	When() core.Date
}

// Amounted is any record carrying an amount in won.
type Amounted interface {
	Value() int64
}

// FilterByDateRange keeps records whose date falls inside the
// inclusive [from, to] range. A nil bound leaves that side open; with
// both bounds nil the input passes through unchanged.
func FilterByDateRange[T Dated](items []T, from, to *core.Date) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		d := item.When()
		if from != nil && d.Before(*from) {
			continue
		}
		if to != nil && d.After(*to) {
			continue
		}
		out = append(out, item)
	}
	return out
}

// SumAmount totals the amounts of the given records. An empty slice
// sums to zero.
func SumAmount[T Amounted](items []T) int64 {
	var total int64
	for _, item := range items {
		total += item.Value()
	}
	return total
}

// FilterByType keeps donations of one donation type.
func FilterByType(donations []core.Donation, donationType string) []core.Donation {
	out := make([]core.Donation, 0, len(donations))
	for _, d := range donations {
		if d.Type == donationType {
			out = append(out, d)
		}
	}
	return out
}

// FilterByMember keeps donations recorded for one member.
func FilterByMember(donations []core.Donation, memberID int64) []core.Donation {
	out := make([]core.Donation, 0, len(donations))
	for _, d := range donations {
		if d.MemberID == memberID {
			out = append(out, d)
		}
	}
	return out
}

// FilterByCategory keeps expenses of one category.
func FilterByCategory(expenses []core.Expense, category string) []core.Expense {
	out := make([]core.Expense, 0, len(expenses))
	for _, e := range expenses {
		if e.Category == category {
			out = append(out, e)
		}
	}
	return out
}

// FilterByPaymentMethod keeps expenses paid one way.
func FilterByPaymentMethod(expenses []core.Expense, method string) []core.Expense {
	out := make([]core.Expense, 0, len(expenses))
	for _, e := range expenses {
		if e.PaymentMethod == method {
			out = append(out, e)
		}
	}
	return out
}

// TypeBucket is the per-type aggregate of a donation set.
type TypeBucket struct {
	Type  string `json:"type"`
	Total int64  `json:"total"`
	Count int    `json:"count"`
}

// GroupByType totals donations per type, in vocabulary order. Every
// vocabulary type is present, zero-count types included; donations
// whose type left the vocabulary are skipped.
func GroupByType(donations []core.Donation, vocabulary []string) []TypeBucket {
	index := make(map[string]int, len(vocabulary))
	buckets := make([]TypeBucket, len(vocabulary))
	for i, t := range vocabulary {
		index[t] = i
		buckets[i] = TypeBucket{Type: t}
	}
	for _, d := range donations {
		i, ok := index[d.Type]
		if !ok {
			continue
		}
		buckets[i].Total += d.Amount
		buckets[i].Count++
	}
	return buckets
}

// GroupByCategory totals expenses per category, in vocabulary order.
// Every category is present, zero-count categories included.
func GroupByCategory(expenses []core.Expense, vocabulary []string) []TypeBucket {
	index := make(map[string]int, len(vocabulary))
	buckets := make([]TypeBucket, len(vocabulary))
	for i, c := range vocabulary {
		index[c] = i
		buckets[i] = TypeBucket{Type: c}
	}
	for _, e := range expenses {
		i, ok := index[e.Category]
		if !ok {
			continue
		}
		buckets[i].Total += e.Amount
		buckets[i].Count++
	}
	return buckets
}

// MonthBucket is the aggregate of one calendar month.
type MonthBucket struct {
	Month int   `json:"month"`
	Total int64 `json:"total"`
	Count int   `json:"count"`
}

// GroupByMonth totals one year's donations per month. All twelve
// months are present, zero-count months included.
func GroupByMonth(donations []core.Donation, year int) []MonthBucket {
	buckets := make([]MonthBucket, 12)
	for i := range buckets {
		buckets[i].Month = i + 1
	}
	for _, d := range donations {
		if d.Date.Year() != year {
			continue
		}
		b := &buckets[d.Date.Month()-1]
		b.Total += d.Amount
		b.Count++
	}
	return buckets
}

// Summary condenses a donation set for receipts and reports. Average
// is the rounded mean donation; it is zero for an empty set.
type Summary struct {
	Total   int64 `json:"total"`
	Count   int   `json:"count"`
	Donors  int   `json:"donors"`
	Average int64 `json:"average"`
}

// Summarize computes totals, donation count, distinct donor count and
// the rounded average donation.
func Summarize(donations []core.Donation) Summary {
	s := Summary{Count: len(donations)}
	donors := map[int64]struct{}{}
	for _, d := range donations {
		s.Total += d.Amount
		donors[d.MemberID] = struct{}{}
	}
	s.Donors = len(donors)
	if s.Count > 0 {
		s.Average = (s.Total + int64(s.Count)/2) / int64(s.Count)
	}
	return s
}
