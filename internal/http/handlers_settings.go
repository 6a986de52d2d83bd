package http

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/chungddong/ChurchFinance/internal/core"
	"github.com/chungddong/ChurchFinance/internal/settings"
)

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"churchInfo":    s.settings.ChurchInfo(),
		"donationTypes": s.settings.DonationTypes(),
	})
}

func (s *Server) handleChurchInfo(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.settings.ChurchInfo())
	case http.MethodPut:
		var info core.ChurchInfo
		if err := decodeBody(r, &info); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		info.Name = sanitizeInput(info.Name)
		info.Address = sanitizeInput(info.Address)
		info.Pastor = sanitizeInput(info.Pastor)
		if err := s.settings.SetChurchInfo(info); err != nil {
			writeStoreError(w, err)
			return
		}
		slog.InfoContext(r.Context(), "Church info updated", "name", info.Name)
		writeJSON(w, http.StatusOK, info)
	default:
		methodNotAllowed(w, "GET, PUT")
	}
}

type donationTypeRequest struct {
	Name string `json:"name"`
	From string `json:"from"`
	To   string `json:"to"`
}

func (s *Server) handleDonationTypes(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]any{"types": s.settings.DonationTypes()})
	case http.MethodPost:
		var req donationTypeRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err := s.settings.AddDonationType(req.Name); err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"types": s.settings.DonationTypes()})
	case http.MethodPut:
		var req donationTypeRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err := s.settings.RenameDonationType(req.From, req.To); err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"types": s.settings.DonationTypes()})
	case http.MethodDelete:
		name := sanitizeInput(r.URL.Query().Get("name"))
		if err := s.settings.RemoveDonationType(name); err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"types": s.settings.DonationTypes()})
	default:
		methodNotAllowed(w, "GET, POST, PUT, DELETE")
	}
}

// handleBackup streams a backup document as a download.
func (s *Server) handleBackup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	scope := settings.Scope(r.URL.Query().Get("scope"))
	if scope == "" {
		scope = settings.ScopeFull
	}

	now := time.Now()
	backup, err := s.settings.Export(scope, now,
		s.store.Members(), s.store.Donations(), s.store.Expenses())
	if err != nil {
		writeStoreError(w, err)
		return
	}

	filename := fmt.Sprintf("churchfinance-%s-%s.json", scope, now.Format("20060102"))
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	writeJSON(w, http.StatusOK, backup)
}

// handleRestore overwrites whole sections from an uploaded backup and
// reports what was restored.
func (s *Server) handleRestore(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		writeError(w, http.StatusBadRequest, "read backup payload")
		return
	}
	backup, err := settings.ParseBackup(data)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	restored := map[string]int{}
	if backup.Members != nil {
		if err := s.store.ReplaceMembers(backup.Members); err != nil {
			writeStoreError(w, err)
			return
		}
		restored["members"] = len(backup.Members)
	}
	if backup.Donations != nil {
		if err := s.store.ReplaceDonations(backup.Donations); err != nil {
			writeStoreError(w, err)
			return
		}
		restored["donations"] = len(backup.Donations)
	}
	if backup.Expenses != nil {
		if err := s.store.ReplaceExpenses(backup.Expenses); err != nil {
			writeStoreError(w, err)
			return
		}
		restored["expenses"] = len(backup.Expenses)
	}

	settingsApplied := false
	if backup.ChurchInfo != nil {
		if err := s.settings.SetChurchInfo(*backup.ChurchInfo); err != nil {
			writeStoreError(w, err)
			return
		}
		settingsApplied = true
	}
	if len(backup.DonationTypes) > 0 {
		if err := s.settings.ReplaceDonationTypes(backup.DonationTypes); err != nil {
			writeStoreError(w, err)
			return
		}
		settingsApplied = true
	}

	slog.InfoContext(r.Context(), "Backup restored",
		"scope", string(backup.Scope),
		"members", restored["members"],
		"donations", restored["donations"],
		"expenses", restored["expenses"])
	writeJSON(w, http.StatusOK, map[string]any{
		"restored":        restored,
		"settingsApplied": settingsApplied,
	})
}

type loginRequest struct {
	Password string `json:"password"`
}

type passwordRequest struct {
	Current string `json:"current"`
	New     string `json:"new"`
}

// handleLogin verifies the access password. The result only gates the
// screens; it is not a session or a security boundary.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !s.settings.VerifyPassword(req.Password) {
		writeError(w, http.StatusUnauthorized, "wrong password")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handlePassword(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}
	var req passwordRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.settings.SetPassword(req.Current, req.New); err != nil {
		writeStoreError(w, err)
		return
	}
	slog.InfoContext(r.Context(), "Access password changed")
	w.WriteHeader(http.StatusNoContent)
}
