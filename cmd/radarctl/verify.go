package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/stonefield/radarpipe/internal/services"
)

var verifyFile string

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check that a previously imported CSV is fully represented in storage",
	Long: `Verify re-parses a CSV file and checks that every distinct property and
contact it describes exists in the database and that no association
references a missing record. It performs reads only.`,
	RunE: runVerify,
}

func init() {
	verifyCmd.Flags().StringVarP(&verifyFile, "file", "f", "", "path to the CSV file (required)")
	_ = verifyCmd.MarkFlagRequired("file")
}

func runVerify(cmd *cobra.Command, _ []string) error {
	cfg, log, err := loadEnv()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	db, store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	file, err := os.Open(verifyFile)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", verifyFile, err)
	}
	defer file.Close()

	service := services.NewImportService(store, cfg.Import, log)
	report, err := service.Verify(ctx, file)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))

	if !report.Consistent {
		return fmt.Errorf("storage does not cover the file")
	}
	return nil
}
