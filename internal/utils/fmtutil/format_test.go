package fmtutil

import (
	"testing"
	"time"
)

func TestFormatCount(t *testing.T) {
	tests := []struct {
		input    int
		expected string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{-4500, "-4,500"},
	}

	for _, tt := range tests {
		if got := FormatCount(tt.input); got != tt.expected {
			t.Errorf("FormatCount(%d) = %s, want %s", tt.input, got, tt.expected)
		}
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		input    int64
		expected string
	}{
		{0, "0B"},
		{1023, "1023B"},
		{1024, "1.00KB"},
		{1536, "1.50KB"},
		{1048576, "1.00MB"},
		{1073741824, "1.00GB"},
	}

	for _, tt := range tests {
		if got := FormatBytes(tt.input); got != tt.expected {
			t.Errorf("FormatBytes(%d) = %s, want %s", tt.input, got, tt.expected)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		input    time.Duration
		expected string
	}{
		{500 * time.Microsecond, "500µs"},
		{12345 * time.Microsecond, "12ms"},
		{1500 * time.Millisecond, "1.5s"},
		{90*time.Second + 400*time.Millisecond, "1m30s"},
	}

	for _, tt := range tests {
		if got := FormatDuration(tt.input); got != tt.expected {
			t.Errorf("FormatDuration(%v) = %s, want %s", tt.input, got, tt.expected)
		}
	}
}
