package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "hawkeye",
	Short: "Credential-based access control for restricted facilities",
	Long: `HawkEye is an access-control service for restricted facilities.
Personnel authenticate with an enrolled image credential, receive a
session, and request admission to named areas. Every decision is
recorded in an append-only audit log.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()
}
