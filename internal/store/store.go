// Package store persists the bookkeeping records as three flat JSON
// array documents under a data directory. The documents are the
// system of record; every mutation rewrites the affected document in
// full and notifies subscribers.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chungddong/ChurchFinance/internal/core"
	"github.com/chungddong/ChurchFinance/internal/log"
)

const (
	CollectionMembers   = "members"
	CollectionDonations = "donations"
	CollectionExpenses  = "expenses"
)

// Store is the record store. It assumes a single writing process; the
// per-collection locks only guard against re-entrant writes from
// subscribers and background readers inside that process.
type Store struct {
	dir    string
	now    func() time.Time
	logger *log.Logger

	members   *collection[core.Member]
	donations *collection[core.Donation]
	expenses  *collection[core.Expense]

	subs listeners
}

// Open loads the three documents under dir, creating the directory
// when needed. Missing or corrupt documents load as empty collections.
func Open(dir string, logger *log.Logger) (*Store, error) {
	return open(dir, logger, time.Now)
}

func open(dir string, logger *log.Logger, now func() time.Time) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	logger = logger.WithComponent(log.ComponentStore)
	s := &Store{
		dir:    dir,
		now:    now,
		logger: logger,
		members: newCollection(CollectionMembers, filepath.Join(dir, "members.json"),
			func(m core.Member) int64 { return m.ID }, logger),
		donations: newCollection(CollectionDonations, filepath.Join(dir, "donations.json"),
			func(d core.Donation) int64 { return d.ID }, logger),
		expenses: newCollection(CollectionExpenses, filepath.Join(dir, "expenses.json"),
			func(e core.Expense) int64 { return e.ID }, logger),
	}
	s.Reload()
	return s, nil
}

// Reload re-reads all three documents from disk. Safe to call at any
// time; loading is idempotent.
func (s *Store) Reload() {
	s.members.load()
	s.donations.load()
	s.expenses.load()
}

// Subscribe registers a change listener and returns its cancel
// function. Listeners fire after a successful save and must not block.
func (s *Store) Subscribe(fn func(Change)) (cancel func()) {
	return s.subs.add(fn)
}

func (s *Store) notify(collection string, op Op, id int64) {
	s.subs.emit(Change{
		Collection: collection,
		Op:         op,
		ID:         id,
		OccurredAt: s.now(),
	})
}

// Members returns a defensive copy of the member collection in
// insertion order.
func (s *Store) Members() []core.Member { return s.members.snapshot() }

// Donations returns a defensive copy of the donation collection.
func (s *Store) Donations() []core.Donation { return s.donations.snapshot() }

// Expenses returns a defensive copy of the expense collection.
func (s *Store) Expenses() []core.Expense { return s.expenses.snapshot() }

// Counts reports the size of each collection.
func (s *Store) Counts() (members, donations, expenses int) {
	return s.members.size(), s.donations.size(), s.expenses.size()
}

// MemberByID looks a member up by canonical id.
func (s *Store) MemberByID(id int64) (core.Member, bool) {
	return s.members.byID(id)
}

// DonationByID looks a donation up by canonical id.
func (s *Store) DonationByID(id int64) (core.Donation, bool) {
	return s.donations.byID(id)
}

// ExpenseByID looks an expense up by canonical id.
func (s *Store) ExpenseByID(id int64) (core.Expense, bool) {
	return s.expenses.byID(id)
}

// DonationsByMember returns the donations recorded for one member.
func (s *Store) DonationsByMember(memberID int64) []core.Donation {
	all := s.donations.snapshot()
	out := make([]core.Donation, 0, len(all))
	for _, d := range all {
		if d.MemberID == memberID {
			out = append(out, d)
		}
	}
	return out
}

// AddMember validates, assigns id and registration time, appends and
// saves. A phone number already on file is rejected.
func (s *Store) AddMember(m core.Member) (core.Member, error) {
	if err := m.Validate(); err != nil {
		return core.Member{}, err
	}
	if phoneTaken(s.members.snapshot(), m.Phone, 0) {
		return core.Member{}, ErrDuplicatePhone
	}
	created, err := s.members.insert(s.now(), func(id int64) core.Member {
		m.ID = id
		m.RegisteredAt = s.now()
		return m
	})
	if err != nil {
		s.logger.Error("Failed to save member", "error", err, "member_id", created.ID)
		return created, err
	}
	s.notify(CollectionMembers, OpCreated, created.ID)
	return created, nil
}

// UpdateMember applies a partial update to the member with the given
// id. Id and registration time are preserved.
func (s *Store) UpdateMember(id int64, p MemberPatch) (core.Member, error) {
	updated, err := s.members.updateByID(id, s.memberMutator(id, p))
	if err != nil {
		return updated, err
	}
	s.notify(CollectionMembers, OpUpdated, id)
	return updated, nil
}

// UpdateMemberAt applies a partial update by position. The position is
// only meaningful against the latest Members snapshot.
func (s *Store) UpdateMemberAt(i int, p MemberPatch) (core.Member, error) {
	updated, err := s.members.updateAt(i, s.memberMutator(0, p))
	if err != nil {
		return updated, err
	}
	s.notify(CollectionMembers, OpUpdated, updated.ID)
	return updated, nil
}

func (s *Store) memberMutator(selfID int64, p MemberPatch) func(*core.Member) error {
	return func(m *core.Member) error {
		self := selfID
		if self == 0 {
			self = m.ID
		}
		p.apply(m)
		if err := m.Validate(); err != nil {
			return err
		}
		// The members mutex is already held here, so the duplicate
		// check must not go through snapshot().
		if phoneTaken(s.members.itemsLocked(), m.Phone, self) {
			return ErrDuplicatePhone
		}
		return nil
	}
}

// DeleteMember removes the member with the given id. Donations that
// reference the member are kept.
func (s *Store) DeleteMember(id int64) error {
	if _, err := s.members.deleteByID(id); err != nil {
		return err
	}
	s.notify(CollectionMembers, OpDeleted, id)
	return nil
}

// DeleteMemberAt removes the member at a position; later members shift
// one slot left.
func (s *Store) DeleteMemberAt(i int) error {
	id, err := s.members.deleteAt(i)
	if err != nil {
		return err
	}
	s.notify(CollectionMembers, OpDeleted, id)
	return nil
}

// AddDonation validates, resolves the member, assigns id and recording
// time, appends and saves.
func (s *Store) AddDonation(d core.Donation) (core.Donation, error) {
	if err := d.Validate(); err != nil {
		return core.Donation{}, err
	}
	if _, ok := s.members.byID(d.MemberID); !ok {
		return core.Donation{}, core.ErrUnknownMember
	}
	created, err := s.donations.insert(s.now(), func(id int64) core.Donation {
		d.ID = id
		d.RecordedAt = s.now()
		return d
	})
	if err != nil {
		s.logger.Error("Failed to save donation", "error", err, "donation_id", created.ID)
		return created, err
	}
	s.notify(CollectionDonations, OpCreated, created.ID)
	return created, nil
}

// UpdateDonation applies a partial update to the donation with the
// given id. Id and recording time are preserved.
func (s *Store) UpdateDonation(id int64, p DonationPatch) (core.Donation, error) {
	updated, err := s.donations.updateByID(id, s.donationMutator(p))
	if err != nil {
		return updated, err
	}
	s.notify(CollectionDonations, OpUpdated, id)
	return updated, nil
}

// UpdateDonationAt applies a partial update by position.
func (s *Store) UpdateDonationAt(i int, p DonationPatch) (core.Donation, error) {
	updated, err := s.donations.updateAt(i, s.donationMutator(p))
	if err != nil {
		return updated, err
	}
	s.notify(CollectionDonations, OpUpdated, updated.ID)
	return updated, nil
}

func (s *Store) donationMutator(p DonationPatch) func(*core.Donation) error {
	return func(d *core.Donation) error {
		p.apply(d)
		if err := d.Validate(); err != nil {
			return err
		}
		if _, ok := s.members.byID(d.MemberID); !ok {
			return core.ErrUnknownMember
		}
		return nil
	}
}

// DeleteDonation removes the donation with the given id.
func (s *Store) DeleteDonation(id int64) error {
	if _, err := s.donations.deleteByID(id); err != nil {
		return err
	}
	s.notify(CollectionDonations, OpDeleted, id)
	return nil
}

// DeleteDonationAt removes the donation at a position.
func (s *Store) DeleteDonationAt(i int) error {
	id, err := s.donations.deleteAt(i)
	if err != nil {
		return err
	}
	s.notify(CollectionDonations, OpDeleted, id)
	return nil
}

// AddExpense validates, assigns id and recording time, appends and
// saves. An empty payment method falls back to cash.
func (s *Store) AddExpense(e core.Expense) (core.Expense, error) {
	if e.PaymentMethod == "" {
		e.PaymentMethod = core.DefaultPaymentMethod
	}
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	created, err := s.expenses.insert(s.now(), func(id int64) core.Expense {
		e.ID = id
		e.RecordedAt = s.now()
		return e
	})
	if err != nil {
		s.logger.Error("Failed to save expense", "error", err, "expense_id", created.ID)
		return created, err
	}
	s.notify(CollectionExpenses, OpCreated, created.ID)
	return created, nil
}

// UpdateExpense applies a partial update to the expense with the given
// id. Id and recording time are preserved; the update time is stamped.
func (s *Store) UpdateExpense(id int64, p ExpensePatch) (core.Expense, error) {
	updated, err := s.expenses.updateByID(id, s.expenseMutator(p))
	if err != nil {
		return updated, err
	}
	s.notify(CollectionExpenses, OpUpdated, id)
	return updated, nil
}

// UpdateExpenseAt applies a partial update by position.
func (s *Store) UpdateExpenseAt(i int, p ExpensePatch) (core.Expense, error) {
	updated, err := s.expenses.updateAt(i, s.expenseMutator(p))
	if err != nil {
		return updated, err
	}
	s.notify(CollectionExpenses, OpUpdated, updated.ID)
	return updated, nil
}

func (s *Store) expenseMutator(p ExpensePatch) func(*core.Expense) error {
	return func(e *core.Expense) error {
		p.apply(e)
		if err := e.Validate(); err != nil {
			return err
		}
		e.UpdatedAt = s.now()
		return nil
	}
}

// DeleteExpense removes the expense with the given id.
func (s *Store) DeleteExpense(id int64) error {
	if _, err := s.expenses.deleteByID(id); err != nil {
		return err
	}
	s.notify(CollectionExpenses, OpDeleted, id)
	return nil
}

// DeleteExpenseAt removes the expense at a position.
func (s *Store) DeleteExpenseAt(i int) error {
	id, err := s.expenses.deleteAt(i)
	if err != nil {
		return err
	}
	s.notify(CollectionExpenses, OpDeleted, id)
	return nil
}

// ReplaceMembers swaps the whole member collection, as restore does.
// Records are taken as-is from the backup.
func (s *Store) ReplaceMembers(members []core.Member) error {
	if err := s.members.replace(members); err != nil {
		return err
	}
	s.notify(CollectionMembers, OpReplaced, 0)
	return nil
}

// ReplaceDonations swaps the whole donation collection.
func (s *Store) ReplaceDonations(donations []core.Donation) error {
	if err := s.donations.replace(donations); err != nil {
		return err
	}
	s.notify(CollectionDonations, OpReplaced, 0)
	return nil
}

// ReplaceExpenses swaps the whole expense collection.
func (s *Store) ReplaceExpenses(expenses []core.Expense) error {
	if err := s.expenses.replace(expenses); err != nil {
		return err
	}
	s.notify(CollectionExpenses, OpReplaced, 0)
	return nil
}

func phoneTaken(members []core.Member, phone string, selfID int64) bool {
	for _, m := range members {
		if m.Phone == phone && m.ID != selfID {
			return true
		}
	}
	return false
}
