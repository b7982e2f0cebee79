package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"motormarket_backend/internal/loans/service"
	"motormarket_backend/internal/loans/transport"

	"github.com/spf13/cobra"
)

var (
	loanPrincipal    float64
	loanVehiclePrice float64
	loanDownPayment  float64
	loanRate         float64
	loanTerm         int
	loanMaxPrincipal float64
	loanSchedule     bool
	loanJSON         bool
)

// loanCmd groups loan calculator commands
var loanCmd = &cobra.Command{
	Use:   "loan",
	Short: "Loan calculator",
}

var loanQuoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Compute a loan quote without a running server",
	Example: `  marketctl loan quote --principal 1000000 --rate 10 --term 60
  marketctl loan quote --price 15000 --down 3000 --schedule`,
	RunE: runLoanQuote,
}

func init() {
	f := loanQuoteCmd.Flags()
	f.Float64Var(&loanPrincipal, "principal", 0, "Amount to finance")
	f.Float64Var(&loanVehiclePrice, "price", 0, "Vehicle price (alternative to --principal)")
	f.Float64Var(&loanDownPayment, "down", 0, "Down payment subtracted from --price")
	f.Float64Var(&loanRate, "rate", 9.9, "Annual interest rate in percent")
	f.IntVar(&loanTerm, "term", 60, "Term in months")
	f.Float64Var(&loanMaxPrincipal, "max-principal", 10_000_000, "Largest principal accepted")
	f.BoolVar(&loanSchedule, "schedule", false, "Print the amortization schedule")
	f.BoolVar(&loanJSON, "json", false, "Print JSON instead of a table")
	loanQuoteCmd.MarkFlagsMutuallyExclusive("principal", "price")

	loanCmd.AddCommand(loanQuoteCmd)
}

// cliLoanLimits satisfies config.LoanConfig from command-line flags.
type cliLoanLimits struct{}

func (cliLoanLimits) GetLoanMaxPrincipal() float64        { return loanMaxPrincipal }
func (cliLoanLimits) GetLoanDefaultRatePercent() float64  { return loanRate }
func (cliLoanLimits) GetLoanDefaultTermMonths() int       { return loanTerm }
func (cliLoanLimits) GetLoanQuoteCacheTTL() time.Duration { return 0 }

func runLoanQuote(cmd *cobra.Command, args []string) error {
	in := service.Input{
		DownPayment:     loanDownPayment,
		IncludeSchedule: loanSchedule,
	}
	if cmd.Flags().Changed("principal") {
		in.Principal = &loanPrincipal
	}
	if cmd.Flags().Changed("price") {
		in.VehiclePrice = &loanVehiclePrice
	}

	svc := service.New(cliLoanLimits{}, nil, nil, log)
	quote, err := svc.Calculate(cmd.Context(), in)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if loanJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(quote)
	}
	return printQuote(cmd, quote)
}

func printQuote(cmd *cobra.Command, q transport.QuoteResponse) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(w, "Principal\t%.2f\t\n", q.Principal)
	fmt.Fprintf(w, "Rate\t%.2f%%\t\n", q.AnnualRatePercent)
	fmt.Fprintf(w, "Term\t%d months\t\n", q.TermMonths)
	fmt.Fprintf(w, "Monthly payment\t%.2f\t\n", q.MonthlyPayment)
	fmt.Fprintf(w, "Total payment\t%.2f\t\n", q.TotalPayment)
	fmt.Fprintf(w, "Total interest\t%.2f\t\n", q.TotalInterest)
	if len(q.Schedule) > 0 {
		fmt.Fprintln(w, "\t\t")
		fmt.Fprintln(w, "Period\tPayment\tPrincipal\tInterest\tBalance\t")
		for _, row := range q.Schedule {
			fmt.Fprintf(w, "%d\t%.2f\t%.2f\t%.2f\t%.2f\t\n", row.Period, row.Payment, row.Principal, row.Interest, row.Balance)
		}
	}
	return w.Flush()
}
