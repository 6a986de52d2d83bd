package http

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/chungddong/ChurchFinance/internal/core"
	"github.com/chungddong/ChurchFinance/internal/query"
	"github.com/chungddong/ChurchFinance/internal/settings"
	"github.com/chungddong/ChurchFinance/internal/store"
)

type contextKey string

const requestIDKey contextKey = "request_id"

const maxBodySize = 4 << 20 // restore payloads carry whole backups

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeStoreError maps domain sentinels onto HTTP statuses.
func writeStoreError(w http.ResponseWriter, err error) {
	writeError(w, statusFor(err), err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound),
		errors.Is(err, settings.ErrUnknownType):
		return http.StatusNotFound
	case errors.Is(err, store.ErrDuplicatePhone),
		errors.Is(err, settings.ErrDuplicateType):
		return http.StatusConflict
	case errors.Is(err, settings.ErrWrongPassword):
		return http.StatusUnauthorized
	case errors.Is(err, store.ErrIndexOutOfRange),
		errors.Is(err, core.ErrInvalidID),
		errors.Is(err, settings.ErrUnknownScope),
		errors.Is(err, settings.ErrUnsupportedBackup),
		errors.Is(err, settings.ErrEmptyBackup):
		return http.StatusBadRequest
	case isValidationError(err):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func isValidationError(err error) bool {
	for _, sentinel := range []error{
		core.ErrEmptyName, core.ErrInvalidPhone, core.ErrEmptyType,
		core.ErrUnknownCategory, core.ErrUnknownPayment, core.ErrInvalidAmount,
		core.ErrInvalidDate, core.ErrUnknownMember, core.ErrNameTooLong,
		core.ErrMemoTooLong, core.ErrDescriptionTooLong, core.ErrEmptyChurchName,
		settings.ErrEmptyTypeName, settings.ErrTypeTooLong, settings.ErrLastType,
		settings.ErrEmptyPassword,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

// decodeBody decodes a JSON request body into dst.
func decodeBody(r *http.Request, dst any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// methodNotAllowed writes the Allow header and a 405.
func methodNotAllowed(w http.ResponseWriter, allowed string) {
	w.Header().Set("Allow", allowed)
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

// idFromPath extracts the trailing id segment of a request path.
func idFromPath(r *http.Request, prefix string) (int64, error) {
	rest := strings.TrimPrefix(r.URL.Path, prefix)
	rest = strings.Trim(rest, "/")
	if rest == "" || strings.Contains(rest, "/") {
		return 0, core.ErrInvalidID
	}
	return core.ParseID(rest)
}

// dateRange resolves from/to/preset query parameters into an inclusive
// range. With nothing given, fallbackDays picks the record screens'
// default window; fallbackDays <= 0 leaves both bounds open.
func dateRange(r *http.Request, now time.Time, fallbackDays int) (from, to *core.Date, err error) {
	q := r.URL.Query()

	if preset := strings.TrimSpace(q.Get("preset")); preset != "" {
		var start, end core.Date
		switch preset {
		case "thisMonth":
			start, end = query.ThisMonth(now)
		case "lastMonth":
			start, end = query.LastMonth(now)
		case "thisYear":
			start, end = query.ThisYear(now)
		case "lastYear":
			start, end = query.LastYear(now)
		case "week":
			start, end = query.LastDays(now, 7)
		default:
			return nil, nil, fmt.Errorf("unknown preset %q", preset)
		}
		return &start, &end, nil
	}

	fromStr := strings.TrimSpace(q.Get("from"))
	toStr := strings.TrimSpace(q.Get("to"))

	if fromStr == "" && toStr == "" {
		if fallbackDays <= 0 {
			return nil, nil, nil
		}
		start, end := query.LastDays(now, fallbackDays)
		return &start, &end, nil
	}

	if fromStr != "" {
		d, err := core.ParseDate(fromStr)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid from date %q", fromStr)
		}
		from = &d
	}
	if toStr != "" {
		d, err := core.ParseDate(toStr)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid to date %q", toStr)
		}
		to = &d
	}
	return from, to, nil
}

// formatWon renders an amount with thousands separators, e.g.
// "1,234,000원".
func formatWon(amount int64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}
	s := strconv.FormatInt(amount, 10)
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String() + "원"
	}
	return b.String() + "원"
}

// sanitizeInput trims whitespace and strips control characters.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// generateRequestID creates a unique request id for tracing.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}
