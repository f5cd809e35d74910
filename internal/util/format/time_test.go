package format

import "testing"

func TestHumanizeRate(t *testing.T) {
	tests := []struct {
		name string
		rate float64
		want string
	}{
		{name: "zero is unknown", rate: 0, want: Unknown},
		{name: "negative is unknown", rate: -5, want: Unknown},
		{name: "bytes per second", rate: 512, want: "512 B/s"},
		{name: "kilobytes per second", rate: 1536, want: "1.5 KB/s"},
		{name: "megabytes per second", rate: 5 * 1024 * 1024, want: "5.0 MB/s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HumanizeRate(tt.rate); got != tt.want {
				t.Errorf("HumanizeRate(%v) = %q, want %q", tt.rate, got, tt.want)
			}
		})
	}
}

func TestFormatETA(t *testing.T) {
	tests := []struct {
		name    string
		seconds int
		want    string
	}{
		{name: "unknown", seconds: 0, want: Unknown},
		{name: "negative", seconds: -1, want: Unknown},
		{name: "seconds only", seconds: 42, want: "0:42"},
		{name: "minutes and seconds", seconds: 4*60 + 30, want: "4:30"},
		{name: "over an hour", seconds: 3600 + 23*60 + 45, want: "1:23:45"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatETA(tt.seconds); got != tt.want {
				t.Errorf("FormatETA(%d) = %q, want %q", tt.seconds, got, tt.want)
			}
		})
	}
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		name    string
		seconds int
		want    string
	}{
		{name: "unknown duration", seconds: 0, want: "Unknown"},
		{name: "under an hour", seconds: 3*60 + 42, want: "3:42"},
		{name: "over an hour", seconds: 2*3600 + 5*60 + 9, want: "2:05:09"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatClock(tt.seconds); got != tt.want {
				t.Errorf("FormatClock(%d) = %q, want %q", tt.seconds, got, tt.want)
			}
		})
	}
}
