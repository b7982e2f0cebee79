package sanitize

import "testing"

func TestText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "<b>Great</b>   car", want: "Great car"},
		{in: "&lt;script&gt;alert(1)&lt;/script&gt;ok", want: "alert(1)ok"},
		{in: "line one\nline\t\ttwo", want: "line one\nline two"},
		{in: "  plain  ", want: "plain"},
	}
	for _, tt := range tests {
		if got := Text(tt.in); got != tt.want {
			t.Errorf("Text(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("héllo wörld", 5); got != "héllo" {
		t.Fatalf("unexpected %q", got)
	}
	if got := Truncate("short", 10); got != "short" {
		t.Fatalf("unexpected %q", got)
	}
	if got := Truncate("x", 0); got != "" {
		t.Fatalf("unexpected %q", got)
	}
}

func TestTextPtr(t *testing.T) {
	if TextPtr(nil) != nil {
		t.Fatal("expected nil")
	}
	s := "<i>hi</i>"
	if got := TextPtr(&s); *got != "hi" {
		t.Fatalf("unexpected %q", *got)
	}
}
