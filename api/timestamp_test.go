package api

import (
	"encoding/json"
	"testing"
	"time"
)

func TestTimestampUnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{
			name:  "naive ISO with microseconds",
			input: `"2025-03-04T05:06:07.123456"`,
			want:  time.Date(2025, 3, 4, 5, 6, 7, 123456000, time.UTC),
		},
		{
			name:  "RFC3339 UTC",
			input: `"2025-03-04T05:06:07Z"`,
			want:  time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC),
		},
		{
			name:  "RFC3339 with offset",
			input: `"2025-03-04T14:06:07+09:00"`,
			want:  time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC),
		},
		{
			name:  "null",
			input: `null`,
		},
		{
			name:  "empty string",
			input: `""`,
		},
		{
			name:    "not a string",
			input:   `12`,
			wantErr: true,
		},
		{
			name:    "garbage",
			input:   `"yesterday-ish"`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts Timestamp
			err := json.Unmarshal([]byte(tt.input), &ts)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Unmarshal(%s) expected error, got %v", tt.input, ts)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unmarshal(%s) unexpected error: %v", tt.input, err)
			}
			if !ts.Equal(tt.want) {
				t.Errorf("Unmarshal(%s) = %v, want %v", tt.input, ts.Time, tt.want)
			}
		})
	}
}

func TestTimestampMarshalJSON(t *testing.T) {
	ts := Timestamp{time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)}
	b, err := json.Marshal(ts)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if got, want := string(b), `"2025-03-04T05:06:07Z"`; got != want {
		t.Errorf("Marshal() = %s, want %s", got, want)
	}

	b, err = json.Marshal(Timestamp{})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(b) != "null" {
		t.Errorf("Marshal(zero) = %s, want null", b)
	}
}
