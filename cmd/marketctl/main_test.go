package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"motormarket_backend/internal/loans/transport"
)

func TestLoanQuoteJSON(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"loan", "quote", "--principal", "1000000", "--rate", "10", "--term", "60", "--json", "--log-env", "test"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	var got transport.QuoteResponse
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("decode output %q: %v", out.String(), err)
	}
	if got.MonthlyPayment != 21247.04 {
		t.Errorf("MonthlyPayment = %v, want 21247.04", got.MonthlyPayment)
	}
	if got.TotalPayment != 1274822.40 {
		t.Errorf("TotalPayment = %v, want 1274822.40", got.TotalPayment)
	}
}
