package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/chungddong/ChurchFinance/internal/core"
	"github.com/chungddong/ChurchFinance/internal/query"
	"github.com/chungddong/ChurchFinance/internal/store"
)

type expenseRequest struct {
	Category      string `json:"category"`
	Amount        int64  `json:"amount"`
	Date          string `json:"date"`
	Vendor        string `json:"vendor"`
	Approver      string `json:"approver"`
	PaymentMethod string `json:"paymentMethod"`
	Description   string `json:"description"`
}

type expensePatchRequest struct {
	Category      *string `json:"category"`
	Amount        *int64  `json:"amount"`
	Date          *string `json:"date"`
	Vendor        *string `json:"vendor"`
	Approver      *string `json:"approver"`
	PaymentMethod *string `json:"paymentMethod"`
	Description   *string `json:"description"`
}

func (s *Server) handleExpenses(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listExpenses(w, r)
	case http.MethodPost:
		s.createExpense(w, r)
	default:
		methodNotAllowed(w, "GET, POST")
	}
}

func (s *Server) listExpenses(w http.ResponseWriter, r *http.Request) {
	from, to, err := dateRange(r, time.Now(), defaultListDays)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	expenses := query.FilterByDateRange(s.store.Expenses(), from, to)
	if c := sanitizeInput(r.URL.Query().Get("category")); c != "" {
		expenses = query.FilterByCategory(expenses, c)
	}
	if p := sanitizeInput(r.URL.Query().Get("paymentMethod")); p != "" {
		expenses = query.FilterByPaymentMethod(expenses, p)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"expenses": expenses,
		"count":    len(expenses),
		"total":    query.SumAmount(expenses),
	})
}

func (s *Server) createExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	date, err := core.ParseDate(req.Date)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	created, err := s.store.AddExpense(core.Expense{
		Category:      sanitizeInput(req.Category),
		Amount:        req.Amount,
		Date:          date,
		Vendor:        sanitizeInput(req.Vendor),
		Approver:      sanitizeInput(req.Approver),
		PaymentMethod: sanitizeInput(req.PaymentMethod),
		Description:   sanitizeInput(req.Description),
	})
	if err != nil {
		writeStoreError(w, err)
		return
	}

	slog.InfoContext(r.Context(), "Expense recorded",
		"record_id", created.ID,
		"category", created.Category,
		"amount_won", created.Amount,
		"payment_method", created.PaymentMethod)
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleExpenseByID(w http.ResponseWriter, r *http.Request) {
	id, err := idFromPath(r, "/api/expenses/")
	if err != nil {
		writeStoreError(w, err)
		return
	}

	switch r.Method {
	case http.MethodGet:
		e, ok := s.store.ExpenseByID(id)
		if !ok {
			writeStoreError(w, store.ErrNotFound)
			return
		}
		writeJSON(w, http.StatusOK, e)
	case http.MethodPut:
		var req expensePatchRequest
		if err := decodeBody(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		patch := store.ExpensePatch{
			Category:      sanitizePtr(req.Category),
			Amount:        req.Amount,
			Vendor:        sanitizePtr(req.Vendor),
			Approver:      sanitizePtr(req.Approver),
			PaymentMethod: sanitizePtr(req.PaymentMethod),
			Description:   sanitizePtr(req.Description),
		}
		if req.Date != nil {
			date, err := core.ParseDate(*req.Date)
			if err != nil {
				writeStoreError(w, err)
				return
			}
			patch.Date = &date
		}
		updated, err := s.store.UpdateExpense(id, patch)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	case http.MethodDelete:
		if err := s.store.DeleteExpense(id); err != nil {
			writeStoreError(w, err)
			return
		}
		slog.InfoContext(r.Context(), "Expense removed", "record_id", id)
		w.WriteHeader(http.StatusNoContent)
	default:
		methodNotAllowed(w, "GET, PUT, DELETE")
	}
}
