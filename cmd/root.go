package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "facegate",
	Short: "Face comparison, neighborhood records and telemetry ingestion API",
	Long: `Facegate is an HTTP service that compares faces and estimates age and
gender through an external DeepFace server, serves cached CRUD access to
neighborhood records, and accepts JWT-authenticated vehicle telemetry that is
stored in CouchDB.`,
	SilenceUsage: true,
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
