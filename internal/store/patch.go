package store

import "github.com/chungddong/ChurchFinance/internal/core"

// Patches carry partial updates: only non-nil fields are applied.
// Record ids and creation timestamps have no patch field, so they are
// immutable by construction.

type MemberPatch struct {
	Name    *string
	Phone   *string
	Address *string
	Memo    *string
}

func (p MemberPatch) apply(m *core.Member) {
	if p.Name != nil {
		m.Name = *p.Name
	}
	if p.Phone != nil {
		m.Phone = *p.Phone
	}
	if p.Address != nil {
		m.Address = *p.Address
	}
	if p.Memo != nil {
		m.Memo = *p.Memo
	}
}

type DonationPatch struct {
	Type     *string
	MemberID *int64
	Amount   *int64
	Date     *core.Date
	Memo     *string
}

func (p DonationPatch) apply(d *core.Donation) {
	if p.Type != nil {
		d.Type = *p.Type
	}
	if p.MemberID != nil {
		d.MemberID = *p.MemberID
	}
	if p.Amount != nil {
		d.Amount = *p.Amount
	}
	if p.Date != nil {
		d.Date = *p.Date
	}
	if p.Memo != nil {
		d.Memo = *p.Memo
	}
}

type ExpensePatch struct {
	Category      *string
	Amount        *int64
	Date          *core.Date
	Vendor        *string
	Approver      *string
	PaymentMethod *string
	Description   *string
}

func (p ExpensePatch) apply(e *core.Expense) {
	if p.Category != nil {
		e.Category = *p.Category
	}
	if p.Amount != nil {
		e.Amount = *p.Amount
	}
	if p.Date != nil {
		e.Date = *p.Date
	}
	if p.Vendor != nil {
		e.Vendor = *p.Vendor
	}
	if p.Approver != nil {
		e.Approver = *p.Approver
	}
	if p.PaymentMethod != nil {
		e.PaymentMethod = *p.PaymentMethod
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
}
