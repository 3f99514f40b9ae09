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

var (
	finalizeLedgerPath   string
	finalizeOutputName   string
	finalizeDeletePDFs   bool
	finalizeConverter    string
	finalizeDisableTOC   bool
	finalizeDropUntitled bool
)

var finalizeCmd = &cobra.Command{
	Use:   "finalize <folder>",
	Short: "Merge the approved documents into the final PDF",
	Long: `Finalize reads the reviewed ledger, converts non-PDF documents with
the converter chosen per row, merges everything in the approved order
(appendices always last) and prepends a clickable table of contents.

The run halts before any conversion if the ledger fails validation
(duplicate sequence numbers, unknown converter, missing fields).
Individual conversion failures are logged and skipped.

Examples:
  tlfpack finalize ./study123/tables
  tlfpack finalize ./study123/tables --output-name Tables_final.pdf --delete-converted`,
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
		cfg := cm.Get()
		applyFinalizeFlags(cmd, cfg)

		runLog, err := pipeline.NewRunLog(dir, uuid.New().String()[:8])
		if err != nil {
			return err
		}
		defer runLog.Close()

		res, err := pipeline.Finalize(cmd.Context(), pipeline.FinalizeOptions{
			Dir:             dir,
			LedgerPath:      finalizeLedgerPath,
			OutputName:      finalizeOutputName,
			DeleteConverted: finalizeDeletePDFs,
			Config:          cfg,
			Logger:          runLog.Logger,
		})
		if err != nil {
			return err
		}
		return printSummary(res)
	},
}

// applyFinalizeFlags overlays command-line overrides on the loaded config.
func applyFinalizeFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("default-converter") {
		cfg.Converters.Default = finalizeConverter
	}
	if finalizeDisableTOC {
		cfg.TOC.Enabled = false
	}
	if finalizeDropUntitled {
		cfg.Merge.KeepUntitled = false
	}
}

func init() {
	finalizeCmd.Flags().StringVar(&finalizeLedgerPath, "ledger", "", "ledger file path (default: <folder>/"+ledger.DefaultFileName+")")
	finalizeCmd.Flags().StringVar(&finalizeOutputName, "output-name", "", "final PDF name (default: {category}_{timestamp}.pdf)")
	finalizeCmd.Flags().BoolVar(&finalizeDeletePDFs, "delete-converted", false, "delete PDFs converted from RTF/DOCX after merging")
	finalizeCmd.Flags().StringVar(&finalizeConverter, "default-converter", ledger.ConverterLibreOffice, "converter for rows with a blank converter column (WORD or LIBREOFFICE)")
	finalizeCmd.Flags().BoolVar(&finalizeDisableTOC, "no-toc", false, "skip table of contents generation")
	finalizeCmd.Flags().BoolVar(&finalizeDropUntitled, "drop-untitled", false, "drop documents without a title instead of merging them unbookmarked")
}
