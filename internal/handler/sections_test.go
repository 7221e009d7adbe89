package handler

import "testing"

func TestParseSections(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"empty means everything", "", nil},
		{"single", "charts", []string{"charts"}},
		{"multiple with spaces", "charts, dashas ,yogas", []string{"charts", "dashas", "yogas"}},
		{"case folded", "CHARTS", []string{"charts"}},
		{"only separators", ", ,", nil},
		{"full means everything", "full", nil},
		{"all means everything", "all", nil},
		{"full overrides narrower names", "doshas,full", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseSections(tt.raw)
			if tt.want == nil {
				if got != nil {
					t.Fatalf("got %v, want nil", got)
				}
				return
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for _, s := range tt.want {
				if !got[s] {
					t.Errorf("missing %q in %v", s, got)
				}
			}
		})
	}
}
