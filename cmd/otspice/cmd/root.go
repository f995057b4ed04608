package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceSpice/pkg/netlist"
)

var (
	// Global flags
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "otspice",
	Short: "OpenTraceSpice - SPICE netlist fault injection and observation",
	Long: `OpenTraceSpice (otspice) works with transistor-level SPICE netlists:
  - Parsing and inspecting circuit decks
  - Enumerating and injecting reversible defect models
  - Running fault campaigns against ngspice with logic-level observers

Examples:
  otspice parse circuit.cir                   # Show deck contents
  otspice faults circuit.cir                  # List applicable defect models
  otspice inject circuit.cir -r M1 -f drain-open
  otspice campaign circuit.cir --observe out  # Run a full fault campaign`,
	Version: "0.1.0",
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// loadDeck parses a deck file into a netlist handle with default rails.
func loadDeck(path string) (*netlist.Netlist, error) {
	parser, err := netlist.NewParser()
	if err != nil {
		return nil, err
	}
	store, err := parser.ParseFile(path)
	if err != nil {
		return nil, err
	}
	return netlist.New(store, netlist.DefaultConfig()), nil
}
