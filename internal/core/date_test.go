package core

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-03-10")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if d.Year() != 2024 || d.Month() != 3 || d.Day() != 10 {
		t.Errorf("ParseDate = %v", d)
	}

	for _, bad := range []string{"", "2024-3-10", "10/03/2024", "2024-03-10T00:00:00Z"} {
		if _, err := ParseDate(bad); !errors.Is(err, ErrInvalidDate) {
			t.Errorf("ParseDate(%q) = %v, want %v", bad, err, ErrInvalidDate)
		}
	}
}

func TestDate_JSONRoundTrip(t *testing.T) {
	d := NewDate(2024, 12, 25)
	got, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(got) != `"2024-12-25"` {
		t.Errorf("Marshal = %s", got)
	}

	var back Date
	if err := json.Unmarshal(got, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !back.Equal(d) {
		t.Errorf("round trip = %v, want %v", back, d)
	}
}

func TestDate_UnmarshalTolerates(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Date
	}{
		{name: "plain date", input: `"2024-03-10"`, want: NewDate(2024, 3, 10)},
		{name: "rfc3339 timestamp", input: `"2024-03-10T15:04:05Z"`, want: NewDate(2024, 3, 10)},
		{name: "rfc3339 with offset", input: `"2024-03-10T23:30:00+09:00"`, want: NewDate(2024, 3, 10)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Date
			if err := json.Unmarshal([]byte(tt.input), &d); err != nil {
				t.Fatalf("Unmarshal(%s): %v", tt.input, err)
			}
			if !d.Equal(tt.want) {
				t.Errorf("Unmarshal(%s) = %v, want %v", tt.input, d, tt.want)
			}
		})
	}

	var d Date
	if err := json.Unmarshal([]byte(`"not a date"`), &d); err == nil {
		t.Error("Unmarshal accepted garbage")
	}
}

func TestDate_Ordering(t *testing.T) {
	a := NewDate(2024, 1, 15)
	b := NewDate(2024, 2, 1)
	if !a.Before(b) || b.Before(a) {
		t.Error("Before misordered")
	}
	if !b.After(a) || a.After(b) {
		t.Error("After misordered")
	}
	if !a.Equal(NewDate(2024, 1, 15)) {
		t.Error("Equal failed on same day")
	}
}

func TestDateOf(t *testing.T) {
	loc := time.FixedZone("KST", 9*3600)
	d := DateOf(time.Date(2024, 3, 10, 23, 50, 0, 0, loc))
	if d.String() != "2024-03-10" {
		t.Errorf("DateOf = %s, want 2024-03-10", d)
	}
}
