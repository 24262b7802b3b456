package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fintegrity/backend/internal/domain/shared"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "audit",
	Short: "Financial integrity and fraud-detection audit engine",
	Long: `audit runs integrity, fraud, ratio, and cashflow checks against one
accounting period and emits a JSON report.

Configuration is read from config.toml and AUDIT_-prefixed environment
variables; the database connection (postgres or sqlite) comes from there.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	// Flag misuse is an invocation error, not an internal one
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return fmt.Errorf("%w: %s", shared.ErrInvalidInput, err)
	})

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps errors to process exit codes: 2 when the company or period
// does not resolve, 3 for invalid invocation arguments, 1 otherwise.
func exitCode(err error) int {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		switch domainErr.Code {
		case "NOT_FOUND":
			return 2
		case "INVALID_INPUT", "VALIDATION_ERROR":
			return 3
		}
	}
	return 1
}
