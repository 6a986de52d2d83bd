// Package settings persists the application settings document:
// church letterhead info, the donation-type vocabulary, the access
// password and the first-run flag.
package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/chungddong/ChurchFinance/internal/core"
	"github.com/chungddong/ChurchFinance/internal/log"
)

const (
	// DefaultChurchName is the placeholder name until the church
	// fills in its own.
	DefaultChurchName = "00교회"

	maxTypeLength = 20
)

var (
	ErrEmptyTypeName = errors.New("empty donation type name")
	ErrTypeTooLong   = errors.New("donation type name too long")
	ErrDuplicateType = errors.New("duplicate donation type")
	ErrUnknownType   = errors.New("unknown donation type")
	ErrLastType      = errors.New("cannot remove the last donation type")
	ErrWrongPassword = errors.New("wrong password")
	ErrEmptyPassword = errors.New("empty password")
)

// document is the on-disk shape of settings.json.
type document struct {
	ChurchInfo     core.ChurchInfo `json:"churchInfo"`
	DonationTypes  []string        `json:"donationTypes"`
	AppInitialized bool            `json:"appInitialized"`
	Password       string          `json:"churchFinancePassword"`
}

// defaultDocument leaves AppInitialized false so Open persists the
// defaults on first run.
func defaultDocument() document {
	return document{
		ChurchInfo:    core.ChurchInfo{Name: DefaultChurchName},
		DonationTypes: core.DefaultDonationTypes(),
		Password:      EncodePassword(DefaultPassword),
	}
}

// Store is the settings document store. Like the record store it
// rewrites the whole document on every change.
type Store struct {
	path   string
	logger *log.Logger

	mu  sync.Mutex
	doc document
}

// Open loads the settings document, falling back to defaults when the
// document is missing or unreadable. The defaults are persisted on
// first run.
func Open(path string, logger *log.Logger) (*Store, error) {
	s := &Store{path: path, logger: logger.WithComponent(log.ComponentSettings)}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, &s.doc); err != nil {
			s.logger.Warn("Corrupt settings document, using defaults", "error", err)
			s.doc = defaultDocument()
		}
	case os.IsNotExist(err):
		s.doc = defaultDocument()
	default:
		s.logger.Warn("Failed to read settings document, using defaults", "error", err)
		s.doc = defaultDocument()
	}

	if s.doc.Password == "" {
		s.doc.Password = EncodePassword(DefaultPassword)
	}
	if len(s.doc.DonationTypes) == 0 {
		s.doc.DonationTypes = core.DefaultDonationTypes()
	}
	if s.doc.ChurchInfo.Name == "" {
		s.doc.ChurchInfo.Name = DefaultChurchName
	}

	if !s.doc.AppInitialized {
		s.doc.AppInitialized = true
		if err := s.persistLocked(); err != nil {
			return nil, fmt.Errorf("initialize settings: %w", err)
		}
		s.logger.Info("Settings initialized", "path", path)
	}
	return s, nil
}

// ChurchInfo returns the letterhead block.
func (s *Store) ChurchInfo() core.ChurchInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.ChurchInfo
}

// SetChurchInfo validates and saves the letterhead block.
func (s *Store) SetChurchInfo(info core.ChurchInfo) error {
	if err := info.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.doc.ChurchInfo
	s.doc.ChurchInfo = info
	if err := s.persistLocked(); err != nil {
		s.doc.ChurchInfo = prev
		return err
	}
	return nil
}

// DonationTypes returns a copy of the vocabulary in display order.
func (s *Store) DonationTypes() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.doc.DonationTypes))
	copy(out, s.doc.DonationTypes)
	return out
}

// AddDonationType appends a new vocabulary entry.
func (s *Store) AddDonationType(name string) error {
	name = strings.TrimSpace(name)
	if err := validateTypeName(name); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexOfLocked(name) >= 0 {
		return ErrDuplicateType
	}
	s.doc.DonationTypes = append(s.doc.DonationTypes, name)
	if err := s.persistLocked(); err != nil {
		s.doc.DonationTypes = s.doc.DonationTypes[:len(s.doc.DonationTypes)-1]
		return err
	}
	return nil
}

// RenameDonationType replaces one vocabulary entry in place. Existing
// donation records keep the old type string.
func (s *Store) RenameDonationType(from, to string) error {
	to = strings.TrimSpace(to)
	if err := validateTypeName(to); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOfLocked(from)
	if i < 0 {
		return ErrUnknownType
	}
	if from != to && s.indexOfLocked(to) >= 0 {
		return ErrDuplicateType
	}
	prev := s.doc.DonationTypes[i]
	s.doc.DonationTypes[i] = to
	if err := s.persistLocked(); err != nil {
		s.doc.DonationTypes[i] = prev
		return err
	}
	return nil
}

// RemoveDonationType deletes a vocabulary entry. The last entry cannot
// be removed.
func (s *Store) RemoveDonationType(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOfLocked(name)
	if i < 0 {
		return ErrUnknownType
	}
	if len(s.doc.DonationTypes) == 1 {
		return ErrLastType
	}
	prev := s.doc.DonationTypes
	s.doc.DonationTypes = append(append([]string{}, prev[:i]...), prev[i+1:]...)
	if err := s.persistLocked(); err != nil {
		s.doc.DonationTypes = prev
		return err
	}
	return nil
}

// ReplaceDonationTypes swaps the whole vocabulary, as restore does.
func (s *Store) ReplaceDonationTypes(types []string) error {
	if len(types) == 0 {
		types = core.DefaultDonationTypes()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.doc.DonationTypes
	s.doc.DonationTypes = append([]string{}, types...)
	if err := s.persistLocked(); err != nil {
		s.doc.DonationTypes = prev
		return err
	}
	return nil
}

func (s *Store) indexOfLocked(name string) int {
	for i, t := range s.doc.DonationTypes {
		if t == name {
			return i
		}
	}
	return -1
}

func validateTypeName(name string) error {
	if name == "" {
		return ErrEmptyTypeName
	}
	if len([]rune(name)) > maxTypeLength {
		return ErrTypeTooLong
	}
	return nil
}

func (s *Store) persistLocked() error {
	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}
