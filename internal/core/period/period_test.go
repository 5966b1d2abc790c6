package period

import (
	"testing"
	"time"

	"ledgerlens/internal/core/apperror"
)

func TestResolve_Quarterly(t *testing.T) {
	tests := []struct {
		name      string
		number    string
		wantStart string
		wantEnd   string
		wantLabel string
	}{
		{"Q3 token", "Q3", "2024-07-01", "2024-09-30", "Q3 2024"},
		{"bare number", "2", "2024-04-01", "2024-06-30", "Q2 2024"},
		{"lowercase q", "q4", "2024-10-01", "2024-12-31", "Q4 2024"},
		{"invalid token defaults to Q1", "ALL", "2024-01-01", "2024-03-31", "Q1 2024"},
		{"out of range defaults to Q1", "5", "2024-01-01", "2024-03-31", "Q1 2024"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := Resolve(2024, Quarterly, tt.number)
			if err != nil {
				t.Fatalf("Resolve failed: %v", err)
			}
			if got := w.Start.Format("2006-01-02"); got != tt.wantStart {
				t.Errorf("start = %s, want %s", got, tt.wantStart)
			}
			if got := w.End.Format("2006-01-02"); got != tt.wantEnd {
				t.Errorf("end = %s, want %s", got, tt.wantEnd)
			}
			if w.Label != tt.wantLabel {
				t.Errorf("label = %s, want %s", w.Label, tt.wantLabel)
			}
		})
	}
}

func TestResolve_Monthly(t *testing.T) {
	w, err := Resolve(2024, Monthly, "2")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	// Leap year February.
	if got := w.End.Format("2006-01-02"); got != "2024-02-29" {
		t.Errorf("end = %s, want 2024-02-29", got)
	}
	if w.Label != "Feb 2024" {
		t.Errorf("label = %s, want Feb 2024", w.Label)
	}

	// Out-of-range month defaults to January.
	w, err = Resolve(2024, Monthly, "13")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if w.Number != 1 || w.Start.Month() != time.January {
		t.Errorf("out-of-range month should default to 1, got %d", w.Number)
	}
}

func TestResolve_Annual(t *testing.T) {
	w, err := Resolve(2024, Annual, "")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if w.Label != "2024" {
		t.Errorf("label = %s, want 2024", w.Label)
	}
	if got := w.Start.Format("2006-01-02"); got != "2024-01-01" {
		t.Errorf("start = %s", got)
	}
	if got := w.End.Format("2006-01-02"); got != "2024-12-31" {
		t.Errorf("end = %s", got)
	}
}

func TestResolve_YearBounds(t *testing.T) {
	for _, year := range []int{1899, time.Now().Year() + 11} {
		_, err := Resolve(year, Annual, "")
		if err == nil {
			t.Fatalf("expected error for year %d", year)
		}
		appErr, ok := apperror.AsAppError(err)
		if !ok || appErr.Code != apperror.CodeInvalidPeriod {
			t.Errorf("expected INVALID_PERIOD, got %v", err)
		}
	}
}

func TestWindow_PriorYear(t *testing.T) {
	w, _ := Resolve(2024, Quarterly, "Q3")
	prior := w.PriorYear()
	if got := prior.Start.Format("2006-01-02"); got != "2023-07-01" {
		t.Errorf("prior start = %s, want 2023-07-01", got)
	}
	if prior.Label != "Q3 2023" {
		t.Errorf("prior label = %s", prior.Label)
	}
	two := w.TwoYearsPrior()
	if two.Year != 2022 {
		t.Errorf("two-years-prior year = %d", two.Year)
	}
}

func TestWindow_Opening(t *testing.T) {
	w, _ := Resolve(2024, Monthly, "6")
	if !w.Opening().Equal(w.Start) {
		t.Errorf("opening boundary must equal window start")
	}
}

func TestParseKind(t *testing.T) {
	if k, err := ParseKind(""); err != nil || k != Annual {
		t.Errorf("empty kind should default to annual, got %v %v", k, err)
	}
	if _, err := ParseKind("weekly"); err == nil {
		t.Error("expected error for unknown kind")
	}
}
