package query

import (
	"testing"

	"github.com/chungddong/ChurchFinance/internal/core"
)

func donation(id int64, typ string, memberID, amount int64, y, m, d int) core.Donation {
	return core.Donation{ID: id, Type: typ, MemberID: memberID, Amount: amount, Date: core.NewDate(y, m, d)}
}

func expense(id int64, category string, amount int64, y, m, d int) core.Expense {
	return core.Expense{ID: id, Category: category, Amount: amount, Date: core.NewDate(y, m, d), PaymentMethod: "현금"}
}

func ids[T interface{ core.Donation | core.Expense }](items []T) []int64 {
	out := make([]int64, len(items))
	for i, item := range items {
		switch v := any(item).(type) {
		case core.Donation:
			out[i] = v.ID
		case core.Expense:
			out[i] = v.ID
		}
	}
	return out
}

func sameIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestFilterByDateRange(t *testing.T) {
	donations := []core.Donation{
		donation(1, "십일조", 1, 10000, 2024, 2, 28),
		donation(2, "십일조", 1, 20000, 2024, 3, 1),
		donation(3, "십일조", 1, 30000, 2024, 3, 15),
		donation(4, "십일조", 1, 40000, 2024, 3, 31),
		donation(5, "십일조", 1, 50000, 2024, 4, 1),
	}
	from := core.NewDate(2024, 3, 1)
	to := core.NewDate(2024, 3, 31)

	tests := []struct {
		name string
		from *core.Date
		to   *core.Date
		want []int64
	}{
		{name: "both bounds inclusive", from: &from, to: &to, want: []int64{2, 3, 4}},
		{name: "open start", to: &to, want: []int64{1, 2, 3, 4}},
		{name: "open end", from: &from, want: []int64{2, 3, 4, 5}},
		{name: "both open passes through", want: []int64{1, 2, 3, 4, 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterByDateRange(donations, tt.from, tt.to)
			if !sameIDs(ids(got), tt.want) {
				t.Errorf("FilterByDateRange = %v, want %v", ids(got), tt.want)
			}
		})
	}
}

func TestFilterByDateRange_DoesNotMutateInput(t *testing.T) {
	donations := []core.Donation{donation(1, "십일조", 1, 10000, 2024, 3, 1)}
	from := core.NewDate(2024, 1, 1)
	_ = FilterByDateRange(donations, &from, nil)
	if donations[0].Amount != 10000 {
		t.Error("input mutated")
	}
}

func TestSumAmount(t *testing.T) {
	if got := SumAmount([]core.Donation{}); got != 0 {
		t.Errorf("empty sum = %d, want 0", got)
	}

	part1 := []core.Donation{donation(1, "십일조", 1, 10000, 2024, 3, 1)}
	part2 := []core.Donation{
		donation(2, "감사헌금", 1, 5000, 2024, 3, 2),
		donation(3, "십일조", 2, 20000, 2024, 3, 3),
	}
	whole := append(append([]core.Donation{}, part1...), part2...)
	if SumAmount(whole) != SumAmount(part1)+SumAmount(part2) {
		t.Error("sum over concatenation differs from sum of parts")
	}
	if got := SumAmount(whole); got != 35000 {
		t.Errorf("sum = %d, want 35000", got)
	}
}

func TestFilterByTypeAndMember(t *testing.T) {
	donations := []core.Donation{
		donation(1, "십일조", 1, 10000, 2024, 3, 1),
		donation(2, "감사헌금", 1, 5000, 2024, 3, 2),
		donation(3, "십일조", 2, 20000, 2024, 3, 3),
	}

	if got := FilterByType(donations, "십일조"); !sameIDs(ids(got), []int64{1, 3}) {
		t.Errorf("FilterByType = %v", ids(got))
	}
	if got := FilterByType(donations, "건축헌금"); len(got) != 0 {
		t.Errorf("FilterByType no-match = %v", ids(got))
	}
	if got := FilterByMember(donations, 1); !sameIDs(ids(got), []int64{1, 2}) {
		t.Errorf("FilterByMember = %v", ids(got))
	}
}

func TestFilterExpenses(t *testing.T) {
	expenses := []core.Expense{
		expense(1, "전기요금", 30000, 2024, 3, 5),
		expense(2, "행사비", 100000, 2024, 3, 10),
	}
	expenses[1].PaymentMethod = "카드"

	if got := FilterByCategory(expenses, "행사비"); !sameIDs(ids(got), []int64{2}) {
		t.Errorf("FilterByCategory = %v", ids(got))
	}
	if got := FilterByPaymentMethod(expenses, "현금"); !sameIDs(ids(got), []int64{1}) {
		t.Errorf("FilterByPaymentMethod = %v", ids(got))
	}
}

func TestGroupByType(t *testing.T) {
	vocabulary := []string{"십일조", "감사헌금", "기타"}
	donations := []core.Donation{
		donation(1, "십일조", 1, 10000, 2024, 3, 1),
		donation(2, "십일조", 2, 20000, 2024, 3, 2),
		donation(3, "기타", 1, 3000, 2024, 3, 3),
		donation(4, "건축헌금", 1, 99999, 2024, 3, 4), // no longer in the vocabulary
	}

	got := GroupByType(donations, vocabulary)
	want := []TypeBucket{
		{Type: "십일조", Total: 30000, Count: 2},
		{Type: "감사헌금", Total: 0, Count: 0},
		{Type: "기타", Total: 3000, Count: 1},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d buckets, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("bucket %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestGroupByCategory(t *testing.T) {
	expenses := []core.Expense{
		expense(1, "전기요금", 30000, 2024, 3, 5),
		expense(2, "전기요금", 25000, 2024, 4, 5),
		expense(3, "행사비", 100000, 2024, 3, 10),
	}

	got := GroupByCategory(expenses, core.ExpenseCategories)
	if len(got) != len(core.ExpenseCategories) {
		t.Fatalf("got %d buckets, want %d", len(got), len(core.ExpenseCategories))
	}
	byName := map[string]TypeBucket{}
	for _, b := range got {
		byName[b.Type] = b
	}
	if b := byName["전기요금"]; b.Total != 55000 || b.Count != 2 {
		t.Errorf("전기요금 bucket = %+v", b)
	}
	if b := byName["세금"]; b.Total != 0 || b.Count != 0 {
		t.Errorf("untouched bucket = %+v", b)
	}
}

func TestGroupByMonth(t *testing.T) {
	donations := []core.Donation{
		donation(1, "십일조", 1, 10000, 2024, 1, 7),
		donation(2, "십일조", 1, 20000, 2024, 1, 14),
		donation(3, "십일조", 1, 30000, 2024, 12, 25),
		donation(4, "십일조", 1, 99999, 2023, 6, 1), // other year, excluded
	}

	got := GroupByMonth(donations, 2024)
	if len(got) != 12 {
		t.Fatalf("got %d buckets, want 12", len(got))
	}
	if got[0].Month != 1 || got[0].Total != 30000 || got[0].Count != 2 {
		t.Errorf("january = %+v", got[0])
	}
	if got[11].Total != 30000 || got[11].Count != 1 {
		t.Errorf("december = %+v", got[11])
	}
	if got[5].Total != 0 || got[5].Count != 0 {
		t.Errorf("june = %+v, want empty", got[5])
	}
}

func TestSummarize(t *testing.T) {
	if got := Summarize(nil); got != (Summary{}) {
		t.Errorf("empty summary = %+v", got)
	}

	donations := []core.Donation{
		donation(1, "십일조", 1, 10000, 2024, 3, 1),
		donation(2, "십일조", 1, 10000, 2024, 3, 8),
		donation(3, "감사헌금", 2, 5000, 2024, 3, 8),
	}
	got := Summarize(donations)
	want := Summary{Total: 25000, Count: 3, Donors: 2, Average: 8333}
	if got != want {
		t.Errorf("Summarize = %+v, want %+v", got, want)
	}
}
