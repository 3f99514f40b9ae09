package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/clindocs/tlfpack/internal/config"
	"github.com/clindocs/tlfpack/internal/ledger"
	"github.com/clindocs/tlfpack/internal/pipeline"
)

var prepareLedgerPath string

var prepareCmd = &cobra.Command{
	Use:   "prepare <folder>",
	Short: "Scan a folder and write the review ledger",
	Long: `Prepare scans the folder for RTF, DOCX and PDF files, extracts a
bookmark title from each and writes the review ledger (CSV).

Edit the ledger before finalizing: reorder sequence numbers, correct
titles, pick a converter per row (WORD or LIBREOFFICE) and blank the
include flag for documents to leave out.

Examples:
  tlfpack prepare ./study123/tables
  tlfpack prepare ./study123/tables --ledger review.csv`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := filepath.Abs(args[0])
		if err != nil {
			return err
		}
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			return fmt.Errorf("folder not found: %s", dir)
		}

		cm, err := config.NewManager(cfgFile)
		if err != nil {
			return err
		}

		runLog, err := pipeline.NewRunLog(dir, uuid.New().String()[:8])
		if err != nil {
			return err
		}
		defer runLog.Close()

		res, err := pipeline.Prepare(cmd.Context(), pipeline.PrepareOptions{
			Dir:        dir,
			LedgerPath: prepareLedgerPath,
			Config:     cm.Get(),
			Logger:     runLog.Logger,
		})
		if err != nil {
			return err
		}
		return printSummary(res)
	},
}

func init() {
	prepareCmd.Flags().StringVar(&prepareLedgerPath, "ledger", "", "ledger file path (default: <folder>/"+ledger.DefaultFileName+")")
}
