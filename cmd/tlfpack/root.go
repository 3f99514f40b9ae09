package main

import (
	"github.com/spf13/cobra"

	"github.com/clindocs/tlfpack/version"
)

var (
	cfgFile      string
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "tlfpack",
	Short: "Assemble clinical TLF outputs into one bookmarked PDF",
	Long: `tlfpack packages the heterogeneous output files of a clinical study
(RTF, DOCX, PDF) into a single navigable PDF with per-section bookmarks
and a clickable table of contents.

The pipeline runs in two phases around a human review pass:
  - prepare:  scan a folder, extract a title per document and write the
              review ledger for correction and reordering
  - finalize: read the approved ledger, convert non-PDF documents,
              merge everything and prepend the table of contents

Use "run" to drive both phases with an interactive review pause.`,
	Version: version.GitRelease,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.tlfpack/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVarP(
		&outputFormat, "output", "o", "yaml", "summary format: yaml or json",
	)

	rootCmd.AddCommand(prepareCmd)
	rootCmd.AddCommand(finalizeCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(versionCmd)
}
