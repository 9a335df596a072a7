package timeutil

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    time.Time
		wantErr bool
	}{
		{"calendar date", "2024-03-05", time.Date(2024, 3, 5, 0, 0, 0, 0, IST), false},
		{"rfc3339", "2024-03-05T06:30:00Z", time.Date(2024, 3, 5, 12, 0, 0, 0, IST), false},
		{"blank", "  ", time.Time{}, false},
		{"garbage", "05/03/2024", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDate(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseDate(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseDateOr(t *testing.T) {
	fallback := time.Date(2024, 1, 1, 0, 0, 0, 0, IST)
	got, err := ParseDateOr("", fallback)
	if err != nil || !got.Equal(fallback) {
		t.Errorf("ParseDateOr(\"\") = %v, %v", got, err)
	}
	if FormatDate(fallback) != "01 Jan 2024" {
		t.Errorf("FormatDate() = %q", FormatDate(fallback))
	}
	if FormatDate(time.Time{}) != "" {
		t.Error("FormatDate(zero) should be blank")
	}
}
