package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/chungddong/ChurchFinance/internal/core"
	"github.com/chungddong/ChurchFinance/internal/store"
)

type memberRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Memo    string `json:"memo"`
}

type memberPatchRequest struct {
	Name    *string `json:"name"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
	Memo    *string `json:"memo"`
}

func (s *Server) handleMembers(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listMembers(w, r)
	case http.MethodPost:
		s.createMember(w, r)
	default:
		methodNotAllowed(w, "GET, POST")
	}
}

// listMembers returns the roster, optionally narrowed by a name or
// phone substring.
func (s *Server) listMembers(w http.ResponseWriter, r *http.Request) {
	members := s.store.Members()
	if q := sanitizeInput(r.URL.Query().Get("q")); q != "" {
		filtered := make([]core.Member, 0, len(members))
		for _, m := range members {
			if strings.Contains(m.Name, q) || strings.Contains(m.Phone, q) {
				filtered = append(filtered, m)
			}
		}
		members = filtered
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"members": members,
		"count":   len(members),
	})
}

func (s *Server) createMember(w http.ResponseWriter, r *http.Request) {
	var req memberRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := s.store.AddMember(core.Member{
		Name:    sanitizeInput(req.Name),
		Phone:   sanitizeInput(req.Phone),
		Address: sanitizeInput(req.Address),
		Memo:    sanitizeInput(req.Memo),
	})
	if err != nil {
		writeStoreError(w, err)
		return
	}

	slog.InfoContext(r.Context(), "Member registered",
		"record_id", created.ID, "name", created.Name)
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleMemberByID(w http.ResponseWriter, r *http.Request) {
	id, err := idFromPath(r, "/api/members/")
	if err != nil {
		writeStoreError(w, err)
		return
	}

	switch r.Method {
	case http.MethodGet:
		m, ok := s.store.MemberByID(id)
		if !ok {
			writeStoreError(w, store.ErrNotFound)
			return
		}
		writeJSON(w, http.StatusOK, m)
	case http.MethodPut:
		var req memberPatchRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		updated, err := s.store.UpdateMember(id, store.MemberPatch{
			Name:    sanitizePtr(req.Name),
			Phone:   sanitizePtr(req.Phone),
			Address: sanitizePtr(req.Address),
			Memo:    sanitizePtr(req.Memo),
		})
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	case http.MethodDelete:
		if err := s.store.DeleteMember(id); err != nil {
			writeStoreError(w, err)
			return
		}
		slog.InfoContext(r.Context(), "Member removed", "record_id", id)
		w.WriteHeader(http.StatusNoContent)
	default:
		methodNotAllowed(w, "GET, PUT, DELETE")
	}
}

func sanitizePtr(v *string) *string {
	if v == nil {
		return nil
	}
	clean := sanitizeInput(*v)
	return &clean
}
