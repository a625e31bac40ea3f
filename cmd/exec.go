package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/Manu343726/armldr/internal/armelf"
	"github.com/Manu343726/armldr/internal/armrel"
	"github.com/Manu343726/armldr/internal/diag"
	"github.com/Manu343726/armldr/internal/hostsyms"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	execSymbolsPath string
	execTraceFile   string
	execNoColor     bool
	execVerbose     bool
	execLegacy      bool
)

var execCmd = &cobra.Command{
	Use:   "exec <object.o>",
	Short: "Load, relocate, and execute an ELF32/ARM relocatable object",
	Args:  cobra.ExactArgs(1),
	RunE:  runExec,
}

func init() {
	execCmd.Flags().StringVar(&execSymbolsPath, "symbols", "", "host-exported symbol manifest (required)")
	execCmd.Flags().StringVar(&execTraceFile, "trace-file", "", "write a JSON relocation trace to this path")
	execCmd.Flags().BoolVar(&execNoColor, "no-color", false, "disable colored diagnostics")
	execCmd.Flags().BoolVarP(&execVerbose, "verbose", "v", false, "enable debug-level diagnostics")
	execCmd.Flags().BoolVar(&execLegacy, "legacy-manifest", false, "parse --symbols with the legacy one-level schema")
	execCmd.MarkFlagRequired("symbols")
}

func runExec(_ *cobra.Command, args []string) error {
	path := args[0]

	var exported []armelf.HostSymbol
	var err error
	if execLegacy {
		exported, err = hostsyms.LoadManifestV2(execSymbolsPath)
	} else {
		exported, err = hostsyms.LoadManifest(execSymbolsPath)
	}
	if err != nil {
		return err
	}

	// traceWriter stays a nil io.Writer, not a nil *os.File, when
	// --trace-file is unset: assigning a typed-nil *os.File to the
	// diag.Options.TraceWriter interface field would make it compare
	// non-nil and wrongly install a JSON handler over nothing.
	var traceWriter io.Writer
	if execTraceFile != "" {
		f, err := os.Create(execTraceFile)
		if err != nil {
			return fmt.Errorf("creating trace file: %w", err)
		}
		defer f.Close()
		traceWriter = f
	}

	log := diag.New(diag.Options{
		TraceWriter: traceWriter,
		NoColor:     execNoColor || viper.GetBool("no_color"),
		Verbose:     execVerbose,
	})

	err = armelf.ExecELF(path, exported, armelf.Options{
		Log: log,
		OnRelocation: func(ev armelf.RelocationEvent) {
			log.Debug("relocation applied",
				"section", ev.Section.String(),
				"offset", ev.Offset,
				"reloc_type", armrel.TypeName(ev.Type),
				"symbol", ev.Symbol,
				"before", ev.Before,
				"after", ev.After,
			)
		},
	})

	fmt.Fprintf(os.Stderr, "%s: %s\n", path, diag.FormatStatus(err == nil))
	return err
}
