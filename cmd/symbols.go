package cmd

import (
	"fmt"
	"os"

	"github.com/Manu343726/armldr/internal/hostsyms"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var symbolsLegacy bool

var symbolsCmd = &cobra.Command{
	Use:   "symbols <manifest.yaml>",
	Short: "Validate and print a host-exported symbol manifest",
	Args:  cobra.ExactArgs(1),
	RunE:  runSymbols,
}

func init() {
	symbolsCmd.Flags().BoolVar(&symbolsLegacy, "legacy", false, "parse the legacy one-level manifest schema")
}

func runSymbols(_ *cobra.Command, args []string) error {
	loadFn := hostsyms.LoadManifest
	if symbolsLegacy {
		loadFn = hostsyms.LoadManifestV2
	}

	entries, err := loadFn(args[0])
	if err != nil {
		return err
	}

	header := color.New(color.FgHiWhite, color.Bold)
	header.Fprintln(os.Stdout, "NAME\tADDRESS")
	for _, sym := range entries {
		fmt.Printf("%s\t0x%08x\n", sym.Name, sym.Address)
	}
	return nil
}
