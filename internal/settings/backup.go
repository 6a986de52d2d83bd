package settings

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/chungddong/ChurchFinance/internal/core"
)

// BackupVersion is stamped into every export and checked on import.
const BackupVersion = "1.0.0"

// Scope selects which sections an export carries.
type Scope string

const (
	ScopeFull      Scope = "full"
	ScopeMembers   Scope = "members"
	ScopeDonations Scope = "donations"
)

var (
	ErrUnknownScope      = errors.New("unknown backup scope")
	ErrUnsupportedBackup = errors.New("unsupported backup version")
	ErrEmptyBackup       = errors.New("backup carries no data")
)

// Backup is the export document. Sections outside the scope are
// omitted; the password is never exported.
type Backup struct {
	ExportDate    time.Time        `json:"exportDate"`
	Version       string           `json:"version"`
	Scope         Scope            `json:"scope"`
	ChurchInfo    *core.ChurchInfo `json:"churchInfo,omitempty"`
	DonationTypes []string         `json:"donationTypes,omitempty"`
	Members       []core.Member    `json:"members,omitempty"`
	Donations     []core.Donation  `json:"donations,omitempty"`
	Expenses      []core.Expense   `json:"expenses,omitempty"`
}

// Export assembles a backup document from the given snapshots.
func (s *Store) Export(scope Scope, now time.Time, members []core.Member, donations []core.Donation, expenses []core.Expense) (Backup, error) {
	b := Backup{ExportDate: now, Version: BackupVersion, Scope: scope}
	switch scope {
	case ScopeFull:
		info := s.ChurchInfo()
		b.ChurchInfo = &info
		b.DonationTypes = s.DonationTypes()
		b.Members = members
		b.Donations = donations
		b.Expenses = expenses
	case ScopeMembers:
		b.Members = members
	case ScopeDonations:
		b.Members = members
		b.Donations = donations
	default:
		return Backup{}, ErrUnknownScope
	}
	return b, nil
}

// ParseBackup decodes and checks an import payload. Restore overwrites
// whole sections, so a payload with nothing to restore is rejected.
func ParseBackup(data []byte) (Backup, error) {
	var b Backup
	if err := json.Unmarshal(data, &b); err != nil {
		return Backup{}, err
	}
	if b.Version != BackupVersion {
		return Backup{}, ErrUnsupportedBackup
	}
	if b.Members == nil && b.Donations == nil && b.Expenses == nil &&
		b.ChurchInfo == nil && len(b.DonationTypes) == 0 {
		return Backup{}, ErrEmptyBackup
	}
	return b, nil
}
