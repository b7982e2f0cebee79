package token

import "testing"

func TestGenerateRandomTokenIsUnique(t *testing.T) {
	a, err := GenerateRandomToken(32)
	if err != nil {
		t.Fatal(err)
	}
	b, err := GenerateRandomToken(32)
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Fatal("expected distinct tokens")
	}
	if len(a) != 43 {
		t.Fatalf("len = %d, want 43 for 32 bytes", len(a))
	}
}

func TestHashSHA256(t *testing.T) {
	got := HashSHA256("abc")
	want := "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	if got != want {
		t.Fatalf("HashSHA256(abc) = %s", got)
	}
}
