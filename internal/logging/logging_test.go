package logging

import "testing"

func TestNew(t *testing.T) {
	tests := []struct {
		level   string
		wantErr bool
	}{
		{"debug", false},
		{"info", false},
		{"warn", false},
		{"error", false},
		{"verbose", true},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			log, err := New(tt.level)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("New(%q) succeeded, want error", tt.level)
				}
				return
			}
			if err != nil {
				t.Fatalf("New(%q): %v", tt.level, err)
			}
			if got := log.Level().String(); got != tt.level {
				t.Errorf("level = %q, want %q", got, tt.level)
			}
		})
	}
}
