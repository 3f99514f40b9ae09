package config

import "github.com/clindocs/tlfpack/internal/ledger"

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Converters: ConvertersConfig{
			Default: ledger.ConverterLibreOffice,
			LibreOffice: LibreOfficeConfig{
				Path:           "soffice",
				Attempts:       3,
				TimeoutSeconds: 120,
			},
			Word: WordConfig{
				// Word automation wrapper; unset means WORD rows fail
				// with a per-row conversion error.
				Command:        nil,
				TimeoutSeconds: 120,
			},
		},
		TOC: TOCConfig{
			Enabled:  true,
			Header:   true,
			FontSize: 8,
		},
		Merge: MergeConfig{
			KeepUntitled: true,
		},
		Ledger: LedgerConfig{
			FileName: ledger.DefaultFileName,
		},
	}
}
