package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/clindocs/tlfpack/internal/config"
	"github.com/clindocs/tlfpack/internal/ledger"
	"github.com/clindocs/tlfpack/internal/pipeline"
)

var runCmd = &cobra.Command{
	Use:   "run <folder>",
	Short: "Prepare, pause for review, then finalize",
	Long: `Run drives the whole pipeline with an interactive review pause:
the ledger is written, the process waits while you edit it, and the
merge starts once you confirm. Press Ctrl-C during the pause to cancel;
the ledger and any intermediates stay in place for manual cleanup.

Examples:
  tlfpack run ./study123/tables
  tlfpack run ./study123/tables --output-name Tables_draft.pdf --delete-converted`,
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

		prep, err := pipeline.Prepare(cmd.Context(), pipeline.PrepareOptions{
			Dir:    dir,
			Config: cfg,
			Logger: runLog.Logger,
		})
		if err != nil {
			return err
		}

		if err := waitForApproval(cmd, prep.LedgerPath); err != nil {
			return err
		}

		res, err := pipeline.Finalize(cmd.Context(), pipeline.FinalizeOptions{
			Dir:             dir,
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

// waitForApproval blocks until the reviewer confirms the ledger with
// Enter or the context is cancelled. Saves to the ledger file are
// reported while waiting so the reviewer can see their edits landed.
func waitForApproval(cmd *cobra.Command, ledgerPath string) error {
	fmt.Fprintf(cmd.OutOrStdout(), `
Review ledger written: %s
  - Reorder sequence numbers and edit titles as needed.
  - Set the converter column to WORD or LIBREOFFICE per row.
  - Blank the include flag to leave a document out.
Save the file, then press Enter to build the PDF (Ctrl-C to cancel).
`, ledgerPath)

	watcher, err := fsnotify.NewWatcher()
	if err == nil {
		defer watcher.Close()
		if err := watcher.Add(filepath.Dir(ledgerPath)); err == nil {
			go func() {
				for ev := range watcher.Events {
					if ev.Name == ledgerPath && ev.Op&(fsnotify.Write|fsnotify.Create) != 0 {
						fmt.Fprintln(cmd.OutOrStdout(), "ledger saved; press Enter when review is complete")
					}
				}
			}()
		}
	}

	confirmed := make(chan error, 1)
	go func() {
		_, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		confirmed <- err
	}()

	select {
	case <-cmd.Context().Done():
		return cmd.Context().Err()
	case err := <-confirmed:
		return err
	}
}

func init() {
	runCmd.Flags().StringVar(&finalizeOutputName, "output-name", "", "final PDF name (default: {category}_{timestamp}.pdf)")
	runCmd.Flags().BoolVar(&finalizeDeletePDFs, "delete-converted", false, "delete PDFs converted from RTF/DOCX after merging")
	runCmd.Flags().StringVar(&finalizeConverter, "default-converter", ledger.ConverterLibreOffice, "converter for rows with a blank converter column (WORD or LIBREOFFICE)")
	runCmd.Flags().BoolVar(&finalizeDisableTOC, "no-toc", false, "skip table of contents generation")
	runCmd.Flags().BoolVar(&finalizeDropUntitled, "drop-untitled", false, "drop documents without a title instead of merging them unbookmarked")
}
