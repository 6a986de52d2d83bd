package core

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

const (
	// MinDonationAmount is the smallest donation accepted, in won.
	MinDonationAmount = 1000
	// MinExpenseAmount is the smallest expense accepted, in won.
	MinExpenseAmount = 100

	// DefaultPaymentMethod is applied when an expense is recorded
	// without one.
	DefaultPaymentMethod = "현금"

	maxNameLength = 50
	maxMemoLength = 200
)

type (
	// Member is a registered congregation member.
	Member struct {
		ID           int64     `json:"id"`
		Name         string    `json:"name"`
		Phone        string    `json:"phone"`
		Address      string    `json:"address,omitempty"`
		Memo         string    `json:"memo,omitempty"`
		RegisteredAt time.Time `json:"registeredAt"`
	}

	// Donation is a single income record tied to a member.
	Donation struct {
		ID         int64     `json:"id"`
		Type       string    `json:"type"`
		MemberID   int64     `json:"memberId"`
		Amount     int64     `json:"amount"`
		Date       Date      `json:"date"`
		Memo       string    `json:"memo,omitempty"`
		RecordedAt time.Time `json:"recordedAt"`
	}

	// Expense is a single outgoing record.
	Expense struct {
		ID            int64     `json:"id"`
		Category      string    `json:"category"`
		Amount        int64     `json:"amount"`
		Date          Date      `json:"date"`
		Vendor        string    `json:"vendor,omitempty"`
		Approver      string    `json:"approver,omitempty"`
		PaymentMethod string    `json:"paymentMethod"`
		Description   string    `json:"description,omitempty"`
		RecordedAt    time.Time `json:"recordedAt"`
		UpdatedAt     time.Time `json:"updatedAt,omitzero"`
	}

	// ChurchInfo is the letterhead block printed on receipts and
	// reports.
	ChurchInfo struct {
		Name    string `json:"name"`
		Phone   string `json:"phone,omitempty"`
		Address string `json:"address,omitempty"`
		Pastor  string `json:"pastor,omitempty"`
		Email   string `json:"email,omitempty"`
	}
)

// DefaultDonationTypes is the donation vocabulary a fresh installation
// starts with. The list stays editable through settings.
func DefaultDonationTypes() []string {
	return []string{"십일조", "감사헌금", "특별헌금", "선교헌금", "건축헌금", "절기헌금", "기타"}
}

// ExpenseCategories is the fixed category vocabulary for expenses.
var ExpenseCategories = []string{
	"시설관리", "전기요금", "수도요금", "가스요금", "통신비",
	"사무용품", "차량유지", "행사비", "선교비", "교육비",
	"구제비", "인건비", "보험료", "세금", "수리비", "기타",
}

// PaymentMethods lists the accepted expense payment methods.
var PaymentMethods = []string{"현금", "카드", "계좌이체", "기타"}

var (
	ErrEmptyName          = errors.New("empty name")
	ErrInvalidPhone       = errors.New("invalid phone number")
	ErrEmptyType          = errors.New("empty donation type")
	ErrUnknownCategory    = errors.New("unknown expense category")
	ErrUnknownPayment     = errors.New("unknown payment method")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInvalidDate        = errors.New("invalid date")
	ErrUnknownMember      = errors.New("unknown member")
	ErrNameTooLong        = errors.New("name too long")
	ErrMemoTooLong        = errors.New("memo too long")
	ErrDescriptionTooLong = errors.New("description too long")
	ErrEmptyChurchName    = errors.New("empty church name")
	ErrInvalidID          = errors.New("invalid record id")
)

// phonePattern matches phone numbers like 010-1234-5678 or 02-123-4567.
var phonePattern = regexp.MustCompile(`^\d{2,3}-\d{3,4}-\d{4}$`)

// ValidPhone reports whether s is a well-formed phone number.
func ValidPhone(s string) bool {
	return phonePattern.MatchString(s)
}

func (m Member) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return ErrEmptyName
	}
	if len([]rune(m.Name)) > maxNameLength {
		return ErrNameTooLong
	}
	if !ValidPhone(m.Phone) {
		return ErrInvalidPhone
	}
	if len([]rune(m.Memo)) > maxMemoLength {
		return ErrMemoTooLong
	}
	return nil
}

func (d Donation) Validate() error {
	if strings.TrimSpace(d.Type) == "" {
		return ErrEmptyType
	}
	if d.MemberID <= 0 {
		return ErrUnknownMember
	}
	if d.Amount < MinDonationAmount {
		return ErrInvalidAmount
	}
	if err := d.Date.Validate(); err != nil {
		return err
	}
	if len([]rune(d.Memo)) > maxMemoLength {
		return ErrMemoTooLong
	}
	return nil
}

func (e Expense) Validate() error {
	if !containsString(ExpenseCategories, e.Category) {
		return ErrUnknownCategory
	}
	if e.Amount < MinExpenseAmount {
		return ErrInvalidAmount
	}
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if e.PaymentMethod != "" && !containsString(PaymentMethods, e.PaymentMethod) {
		return ErrUnknownPayment
	}
	if len([]rune(e.Description)) > maxMemoLength {
		return ErrDescriptionTooLong
	}
	return nil
}

func (c ChurchInfo) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyChurchName
	}
	if c.Phone != "" && !ValidPhone(c.Phone) {
		return ErrInvalidPhone
	}
	return nil
}

// When returns the donation date for filtering and sorting.
func (d Donation) When() Date { return d.Date }

// Value returns the donation amount in won.
func (d Donation) Value() int64 { return d.Amount }

// When returns the expense date for filtering and sorting.
func (e Expense) When() Date { return e.Date }

// Value returns the expense amount in won.
func (e Expense) Value() int64 { return e.Amount }

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
