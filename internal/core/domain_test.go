package core

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func validMember() Member {
	return Member{Name: "김철수", Phone: "010-1234-5678"}
}

func TestMember_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Member)
		wantErr error
	}{
		{name: "valid member", mutate: func(m *Member) {}},
		{name: "empty name", mutate: func(m *Member) { m.Name = "  " }, wantErr: ErrEmptyName},
		{name: "missing phone", mutate: func(m *Member) { m.Phone = "" }, wantErr: ErrInvalidPhone},
		{name: "phone without dashes", mutate: func(m *Member) { m.Phone = "01012345678" }, wantErr: ErrInvalidPhone},
		{name: "phone with short middle", mutate: func(m *Member) { m.Phone = "010-12-5678" }, wantErr: ErrInvalidPhone},
		{name: "seoul landline", mutate: func(m *Member) { m.Phone = "02-123-4567" }},
		{name: "long memo", mutate: func(m *Member) { m.Memo = strings.Repeat("가", 201) }, wantErr: ErrMemoTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := validMember()
			tt.mutate(&m)
			err := m.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func validDonation() Donation {
	return Donation{Type: "십일조", MemberID: 1, Amount: 50000, Date: NewDate(2024, 3, 10)}
}

func TestDonation_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Donation)
		wantErr error
	}{
		{name: "valid donation", mutate: func(d *Donation) {}},
		{name: "empty type", mutate: func(d *Donation) { d.Type = "" }, wantErr: ErrEmptyType},
		{name: "no member", mutate: func(d *Donation) { d.MemberID = 0 }, wantErr: ErrUnknownMember},
		{name: "below minimum amount", mutate: func(d *Donation) { d.Amount = 999 }, wantErr: ErrInvalidAmount},
		{name: "minimum amount allowed", mutate: func(d *Donation) { d.Amount = MinDonationAmount }},
		{name: "zero date", mutate: func(d *Donation) { d.Date = Date{} }, wantErr: ErrInvalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDonation()
			tt.mutate(&d)
			err := d.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func validExpense() Expense {
	return Expense{Category: "전기요금", Amount: 30000, Date: NewDate(2024, 3, 5), PaymentMethod: "카드"}
}

func TestExpense_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Expense)
		wantErr error
	}{
		{name: "valid expense", mutate: func(e *Expense) {}},
		{name: "unknown category", mutate: func(e *Expense) { e.Category = "여행비" }, wantErr: ErrUnknownCategory},
		{name: "below minimum amount", mutate: func(e *Expense) { e.Amount = 99 }, wantErr: ErrInvalidAmount},
		{name: "minimum amount allowed", mutate: func(e *Expense) { e.Amount = MinExpenseAmount }},
		{name: "unknown payment method", mutate: func(e *Expense) { e.PaymentMethod = "수표" }, wantErr: ErrUnknownPayment},
		{name: "empty payment method tolerated", mutate: func(e *Expense) { e.PaymentMethod = "" }},
		{name: "long description", mutate: func(e *Expense) { e.Description = strings.Repeat("가", 201) }, wantErr: ErrDescriptionTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := validExpense()
			tt.mutate(&e)
			err := e.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestChurchInfo_Validate(t *testing.T) {
	if err := (ChurchInfo{Name: "은혜교회"}).Validate(); err != nil {
		t.Errorf("valid info: %v", err)
	}
	if err := (ChurchInfo{}).Validate(); !errors.Is(err, ErrEmptyChurchName) {
		t.Errorf("empty name = %v, want %v", err, ErrEmptyChurchName)
	}
	if err := (ChurchInfo{Name: "은혜교회", Phone: "12345"}).Validate(); !errors.Is(err, ErrInvalidPhone) {
		t.Errorf("bad phone = %v, want %v", err, ErrInvalidPhone)
	}
}

func TestParseID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int64
		wantErr bool
	}{
		{name: "plain number", input: "1709282400000", want: 1709282400000},
		{name: "surrounding spaces", input: " 42 ", want: 42},
		{name: "zero", input: "0", wantErr: true},
		{name: "negative", input: "-5", wantErr: true},
		{name: "not a number", input: "abc", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseID(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseID(%q) = %d, want error", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseID(%q) error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseID(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestDefaultDonationTypes_FreshCopy(t *testing.T) {
	a := DefaultDonationTypes()
	a[0] = "변경됨"
	if b := DefaultDonationTypes(); b[0] != "십일조" {
		t.Errorf("DefaultDonationTypes shares state: %q", b[0])
	}
}

func TestExpense_UpdatedAtOmittedWhenZero(t *testing.T) {
	e := validExpense()
	if !e.UpdatedAt.IsZero() {
		t.Fatal("fixture should have zero UpdatedAt")
	}
	e.UpdatedAt = time.Date(2024, 3, 6, 9, 0, 0, 0, time.UTC)
	if e.UpdatedAt.IsZero() {
		t.Fatal("UpdatedAt should be set")
	}
}
