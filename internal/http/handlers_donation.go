package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/chungddong/ChurchFinance/internal/core"
	"github.com/chungddong/ChurchFinance/internal/query"
	"github.com/chungddong/ChurchFinance/internal/store"
)

// defaultListDays is the record screens' default window: the last
// seven days including today.
const defaultListDays = 7

type donationRequest struct {
	Type     string `json:"type"`
	MemberID int64  `json:"memberId"`
	Amount   int64  `json:"amount"`
	Date     string `json:"date"`
	Memo     string `json:"memo"`
}

type donationPatchRequest struct {
	Type     *string `json:"type"`
	MemberID *int64  `json:"memberId"`
	Amount   *int64  `json:"amount"`
	Date     *string `json:"date"`
	Memo     *string `json:"memo"`
}

func (s *Server) handleDonations(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listDonations(w, r)
	case http.MethodPost:
		s.createDonation(w, r)
	default:
		methodNotAllowed(w, "GET, POST")
	}
}

func (s *Server) listDonations(w http.ResponseWriter, r *http.Request) {
	from, to, err := dateRange(r, time.Now(), defaultListDays)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	donations := query.FilterByDateRange(s.store.Donations(), from, to)
	if t := sanitizeInput(r.URL.Query().Get("type")); t != "" {
		donations = query.FilterByType(donations, t)
	}
	if raw := r.URL.Query().Get("memberId"); raw != "" {
		memberID, err := core.ParseID(raw)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		donations = query.FilterByMember(donations, memberID)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"donations": donations,
		"count":     len(donations),
		"total":     query.SumAmount(donations),
	})
}

func (s *Server) createDonation(w http.ResponseWriter, r *http.Request) {
	var req donationRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	date, err := core.ParseDate(req.Date)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	created, err := s.store.AddDonation(core.Donation{
		Type:     sanitizeInput(req.Type),
		MemberID: req.MemberID,
		Amount:   req.Amount,
		Date:     date,
		Memo:     sanitizeInput(req.Memo),
	})
	if err != nil {
		writeStoreError(w, err)
		return
	}

	slog.InfoContext(r.Context(), "Donation recorded",
		"record_id", created.ID,
		"type", created.Type,
		"member_id", created.MemberID,
		"amount_won", created.Amount)
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleDonationByID(w http.ResponseWriter, r *http.Request) {
	id, err := idFromPath(r, "/api/donations/")
	if err != nil {
		writeStoreError(w, err)
		return
	}

	switch r.Method {
	case http.MethodGet:
		d, ok := s.store.DonationByID(id)
		if !ok {
			writeStoreError(w, store.ErrNotFound)
			return
		}
		writeJSON(w, http.StatusOK, d)
	case http.MethodPut:
		var req donationPatchRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		patch := store.DonationPatch{
			Type:     sanitizePtr(req.Type),
			MemberID: req.MemberID,
			Amount:   req.Amount,
			Memo:     sanitizePtr(req.Memo),
		}
		if req.Date != nil {
			date, err := core.ParseDate(*req.Date)
			if err != nil {
				writeStoreError(w, err)
				return
			}
			patch.Date = &date
		}
		updated, err := s.store.UpdateDonation(id, patch)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	case http.MethodDelete:
		if err := s.store.DeleteDonation(id); err != nil {
			writeStoreError(w, err)
			return
		}
		slog.InfoContext(r.Context(), "Donation removed", "record_id", id)
		w.WriteHeader(http.StatusNoContent)
	default:
		methodNotAllowed(w, "GET, PUT, DELETE")
	}
}
