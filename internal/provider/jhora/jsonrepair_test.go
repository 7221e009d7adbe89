package jhora

import (
	"encoding/json"
	"testing"
)

func TestRepairJSON(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    string
		wantErr bool
	}{
		{
			name:    "valid object with trailing garbage",
			payload: `{"a":1}Traceback (most recent call last)`,
			want:    `{"a":1}`,
		},
		{
			name:    "log prefix before object",
			payload: "WARNING: deprecated\n" + `{"a":{"b":2}}`,
			want:    `{"a":{"b":2}}`,
		},
		{
			name:    "nested closes counted",
			payload: `{"a":{"b":2}} extra {"c":3}`,
			want:    `{"a":{"b":2}}`,
		},
		{
			name:    "truncated object",
			payload: `{"a":{"b":2}`,
			wantErr: true,
		},
		{
			name:    "no object at all",
			payload: `[1,2,3]`,
			wantErr: true,
		},
		{
			name:    "empty",
			payload: "   ",
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repairJSON([]byte(tt.payload))
			if tt.wantErr {
				if err == nil {
					t.Fatalf("repaired to %q, want error", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("repairJSON: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
			if !json.Valid(got) {
				t.Error("repaired payload is not valid JSON")
			}
		})
	}
}
