// main.go - CLI entry point.
//
// Grounded on original_source/ronald-cli/src/main.rs's flag surface
// (--system, --floppy, --debug) and its "cpc464"/"zexdoc" system selector,
// parsed with cobra (bradford-hamilton/chippy's stack in the retrieval
// pack) instead of clap, in the engine's own convention of a root-level
// main.go holding the binary's entry point.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	flagSystem string
	flagFloppy string
	flagDebug  bool
)

var rootCmd = &cobra.Command{
	Use:   "ronaldcpc",
	Short: "ronaldcpc is an Amstrad CPC 464 emulator",
	Long:  "ronaldcpc is an Amstrad CPC 464 emulator with a Z80 CPU core, CRTC, gate array, PSG, FDC and keyboard.",
	RunE:  runSystem,
}

var zexdocCmd = &cobra.Command{
	Use:   "zexdoc ROM",
	Short: "run the ZEXDOC Z80 instruction conformance suite against the CPU core",
	Args:  cobra.ExactArgs(1),
	RunE:  runZexdoc,
}

func init() {
	rootCmd.Flags().StringVarP(&flagSystem, "system", "s", "cpc464", "system to run (cpc464)")
	rootCmd.Flags().StringVarP(&flagFloppy, "floppy", "f", "", "DSK file to load into drive 0")
	rootCmd.Flags().BoolVarP(&flagDebug, "debug", "d", false, "enable the debug overlay")

	rootCmd.AddCommand(zexdocCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runSystem(cmd *cobra.Command, args []string) error {
	if flagSystem != "cpc464" {
		return fmt.Errorf("unknown system %q. Valid systems are:\n\tcpc464\n\nuse the zexdoc subcommand for conformance testing", flagSystem)
	}
	return runCPC464(flagFloppy, flagDebug)
}

func runZexdoc(cmd *cobra.Command, args []string) error {
	return runZexdocHarness(args[0])
}
