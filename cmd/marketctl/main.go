// Command marketctl is the operator CLI: schema migrations and offline loan quotes.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"motormarket_backend/platform/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	logEnv string
	log    *logger.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:           "marketctl",
	Short:         "Operate the MotorMarket backend",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		_ = godotenv.Load()
		log = logger.NewWithWriter(logEnv, os.Stderr)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logEnv, "log-env", "development", "Logger environment (development renders colored text)")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(loanCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
