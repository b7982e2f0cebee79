package phone

import (
	"errors"
	"testing"
)

func TestToE164(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		region  string
		want    string
		wantErr bool
	}{
		{name: "international", input: "+31 6 12345678", region: "", want: "+31612345678"},
		{name: "national with region", input: "06 12345678", region: "nl", want: "+31612345678"},
		{name: "us default region", input: "(650) 253-0000", region: "", want: "+16502530000"},
		{name: "garbage", input: "call me", region: "", wantErr: true},
		{name: "empty", input: "  ", region: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToE164(tt.input, tt.region)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidNumber) {
					t.Fatalf("expected ErrInvalidNumber, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestNormalizeE164FallsBackToTrimmedInput(t *testing.T) {
	if got := NormalizeE164("  not a number "); got != "not a number" {
		t.Fatalf("unexpected fallback %q", got)
	}
}
