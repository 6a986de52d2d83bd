package http

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/chungddong/ChurchFinance/internal/core"
	"github.com/chungddong/ChurchFinance/internal/query"
	"github.com/chungddong/ChurchFinance/internal/store"
)

// receiptPayload feeds both the JSON endpoint and the printable
// template.
type receiptPayload struct {
	ChurchInfo core.ChurchInfo `json:"churchInfo"`
	Member     core.Member     `json:"member"`
	Donations  []core.Donation `json:"donations"`
	Summary    query.Summary   `json:"summary"`
	From       string          `json:"from,omitempty"`
	To         string          `json:"to,omitempty"`
	IssuedAt   time.Time       `json:"issuedAt"`
}

// buildReceipt collects one member's donations for a period, narrowed
// to a donation type and an explicit id selection when given.
func (s *Server) buildReceipt(r *http.Request) (receiptPayload, error) {
	memberID, err := core.ParseID(r.URL.Query().Get("memberId"))
	if err != nil {
		return receiptPayload{}, err
	}
	member, ok := s.store.MemberByID(memberID)
	if !ok {
		return receiptPayload{}, store.ErrNotFound
	}

	from, to, err := dateRange(r, time.Now(), 0)
	if err != nil {
		return receiptPayload{}, core.ErrInvalidDate
	}

	donations := query.FilterByDateRange(s.store.DonationsByMember(memberID), from, to)
	if t := sanitizeInput(r.URL.Query().Get("type")); t != "" {
		donations = query.FilterByType(donations, t)
	}
	if rawIDs := r.URL.Query().Get("ids"); rawIDs != "" {
		selected := map[int64]bool{}
		for _, part := range strings.Split(rawIDs, ",") {
			id, err := core.ParseID(part)
			if err != nil {
				return receiptPayload{}, err
			}
			selected[id] = true
		}
		kept := make([]core.Donation, 0, len(donations))
		for _, d := range donations {
			if selected[d.ID] {
				kept = append(kept, d)
			}
		}
		donations = kept
	}

	p := receiptPayload{
		ChurchInfo: s.settings.ChurchInfo(),
		Member:     member,
		Donations:  donations,
		Summary:    query.Summarize(donations),
		IssuedAt:   time.Now(),
	}
	if from != nil {
		p.From = from.String()
	}
	if to != nil {
		p.To = to.String()
	}
	return p, nil
}

func (s *Server) handleReceiptData(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	payload, err := s.buildReceipt(r)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

// handleReceiptPrint renders the printable donation receipt.
func (s *Server) handleReceiptPrint(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	payload, err := s.buildReceipt(r)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if s.templates == nil {
		writeError(w, http.StatusInternalServerError, "templates unavailable")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, "receipt.html", payload); err != nil {
		slog.ErrorContext(r.Context(), "Failed to render receipt",
			"error", err, "member_id", payload.Member.ID)
	}
}

type rosterPayload struct {
	ChurchInfo  core.ChurchInfo
	Members     []core.Member
	GeneratedAt time.Time
}

// handleMemberRoster renders the printable member list.
func (s *Server) handleMemberRoster(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	if s.templates == nil {
		writeError(w, http.StatusInternalServerError, "templates unavailable")
		return
	}

	payload := rosterPayload{
		ChurchInfo:  s.settings.ChurchInfo(),
		Members:     s.store.Members(),
		GeneratedAt: time.Now(),
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, "members.html", payload); err != nil {
		slog.ErrorContext(r.Context(), "Failed to render member roster", "error", err)
	}
}
