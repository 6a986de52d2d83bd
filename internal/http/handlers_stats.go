package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/chungddong/ChurchFinance/internal/core"
	"github.com/chungddong/ChurchFinance/internal/query"
)

// handleStatistics serves the three report modes: income, expense and
// combined. Responses are cached per query string until the next
// committed mutation.
func (s *Server) handleStatistics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	cacheKey := r.URL.RawQuery
	if cached, ok := s.statsCache.Get(cacheKey); ok {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(cached)
		return
	}

	from, to, err := dateRange(r, time.Now(), 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var payload any
	switch kind := r.URL.Query().Get("kind"); kind {
	case "", "income":
		payload, err = s.incomeStatistics(r, from, to)
	case "expense":
		payload, err = s.expenseStatistics(r, from, to)
	case "combined":
		payload, err = s.combinedStatistics(r, from, to)
	default:
		writeError(w, http.StatusBadRequest, "unknown statistics kind "+strconv.Quote(kind))
		return
	}
	if err != nil {
		writeStoreError(w, err)
		return
	}

	body, err := json.Marshal(payload)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "encode statistics")
		return
	}
	s.statsCache.Set(cacheKey, body)

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (s *Server) incomeStatistics(r *http.Request, from, to *core.Date) (any, error) {
	donations := query.FilterByDateRange(s.store.Donations(), from, to)
	if t := sanitizeInput(r.URL.Query().Get("type")); t != "" {
		donations = query.FilterByType(donations, t)
	}
	if raw := r.URL.Query().Get("memberId"); raw != "" {
		memberID, err := core.ParseID(raw)
		if err != nil {
			return nil, err
		}
		donations = query.FilterByMember(donations, memberID)
	}

	payload := map[string]any{
		"kind":      "income",
		"donations": donations,
		"byType":    query.GroupByType(donations, s.settings.DonationTypes()),
		"summary":   query.Summarize(donations),
	}
	if year := parseYear(r); year > 0 {
		payload["byMonth"] = query.GroupByMonth(donations, year)
		payload["year"] = year
	}
	return payload, nil
}

func (s *Server) expenseStatistics(r *http.Request, from, to *core.Date) (any, error) {
	expenses := query.FilterByDateRange(s.store.Expenses(), from, to)
	if c := sanitizeInput(r.URL.Query().Get("category")); c != "" {
		expenses = query.FilterByCategory(expenses, c)
	}

	return map[string]any{
		"kind":       "expense",
		"expenses":   expenses,
		"byCategory": query.GroupByCategory(expenses, core.ExpenseCategories),
		"total":      query.SumAmount(expenses),
		"count":      len(expenses),
	}, nil
}

func (s *Server) combinedStatistics(r *http.Request, from, to *core.Date) (any, error) {
	donations := query.FilterByDateRange(s.store.Donations(), from, to)
	expenses := query.FilterByDateRange(s.store.Expenses(), from, to)

	ledger := query.CombineLedger(donations, expenses)
	payload := map[string]any{
		"kind":    "combined",
		"entries": ledger,
		"totals":  query.Totals(ledger),
	}
	if year := parseYear(r); year > 0 {
		payload["incomeByMonth"] = query.GroupByMonth(donations, year)
		payload["year"] = year
	}
	return payload, nil
}

func parseYear(r *http.Request) int {
	if v := r.URL.Query().Get("year"); v != "" {
		if y, err := strconv.Atoi(v); err == nil {
			return y
		}
	}
	return 0
}
