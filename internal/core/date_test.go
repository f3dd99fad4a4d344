package core

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Date
		wantErr bool
	}{
		{name: "valid ISO date", input: "2025-04-01", want: NewDate(2025, 4, 1)},
		{name: "rejects US-style date", input: "04/01/2025", wantErr: true},
		{name: "rejects date with time", input: "2025-04-01T00:00:00Z", wantErr: true},
		{name: "rejects empty string", input: "", wantErr: true},
		{name: "rejects impossible day", input: "2025-02-30", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseDate(%q) expected error, got %v", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDate(%q) unexpected error: %v", tt.input, err)
			}
			if !got.Equal(tt.want.Time) {
				t.Errorf("ParseDate(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestDate_Compare_MatchesLexicographicOrder(t *testing.T) {
	a := NewDate(2025, 5, 1)
	b := NewDate(2025, 5, 10)
	if a.Compare(b) >= 0 {
		t.Errorf("expected %s before %s", a, b)
	}
	if a.String() >= b.String() {
		t.Errorf("expected lexicographic order to agree: %q vs %q", a, b)
	}
}

func TestDate_DaysUntil(t *testing.T) {
	// Midday clock: calendar-day truncation must make "today" count as zero.
	now := time.Date(2025, 3, 15, 13, 45, 0, 0, time.UTC)

	tests := []struct {
		name string
		due  Date
		want int
	}{
		{name: "due today", due: NewDate(2025, 3, 15), want: 0},
		{name: "due tomorrow", due: NewDate(2025, 3, 16), want: 1},
		{name: "due yesterday", due: NewDate(2025, 3, 14), want: -1},
		{name: "due in a week", due: NewDate(2025, 3, 22), want: 7},
		{name: "across month boundary", due: NewDate(2025, 4, 1), want: 17},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.due.DaysUntil(now); got != tt.want {
				t.Errorf("DaysUntil() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestUrgency(t *testing.T) {
	now := time.Date(2025, 3, 15, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		due  Date
		want string
	}{
		{name: "past due", due: NewDate(2025, 3, 14), want: "Past due"},
		{name: "due today", due: NewDate(2025, 3, 15), want: "Due today"},
		{name: "one day left keeps plural form", due: NewDate(2025, 3, 16), want: "1 days left"},
		{name: "several days left", due: NewDate(2025, 3, 20), want: "5 days left"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Urgency(tt.due, now); got != tt.want {
				t.Errorf("Urgency() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDate_JSONRoundTrip(t *testing.T) {
	type doc struct {
		Due Date `json:"due"`
	}

	var d doc
	if err := json.Unmarshal([]byte(`{"due":"2025-04-01"}`), &d); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if d.Due.String() != "2025-04-01" {
		t.Errorf("unmarshal produced %s", d.Due)
	}

	out, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `{"due":"2025-04-01"}` {
		t.Errorf("marshal produced %s", out)
	}

	if err := json.Unmarshal([]byte(`{"due":"01-04-2025"}`), &d); err == nil {
		t.Error("expected error for non-ISO date")
	}
}
