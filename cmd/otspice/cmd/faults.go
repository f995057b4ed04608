package cmd

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceSpice/pkg/fault"
	"github.com/OpenTraceLab/OpenTraceSpice/pkg/netlist"
)

// faultBuilders maps the CLI fault names to their constructors.
var faultBuilders = map[string]func(*netlist.Netlist, string) (fault.Fault, error){
	"drain-open": func(n *netlist.Netlist, ref string) (fault.Fault, error) {
		return fault.NewDrainOpen(n, ref)
	},
	"source-open": func(n *netlist.Netlist, ref string) (fault.Fault, error) {
		return fault.NewSourceOpen(n, ref)
	},
	"gate-open": func(n *netlist.Netlist, ref string) (fault.Fault, error) {
		return fault.NewGateOpen(n, ref)
	},
	"gate-drain-short": func(n *netlist.Netlist, ref string) (fault.Fault, error) {
		return fault.NewGateDrainShort(n, ref)
	},
	"gate-source-short": func(n *netlist.Netlist, ref string) (fault.Fault, error) {
		return fault.NewGateSourceShort(n, ref)
	},
	"drain-source-short": func(n *netlist.Netlist, ref string) (fault.Fault, error) {
		return fault.NewDrainSourceShort(n, ref)
	},
	"resistor-open": func(n *netlist.Netlist, ref string) (fault.Fault, error) {
		return fault.NewResistorOpen(n, ref)
	},
	"resistor-short": func(n *netlist.Netlist, ref string) (fault.Fault, error) {
		return fault.NewResistorShort(n, ref)
	},
	"capacitor-short": func(n *netlist.Netlist, ref string) (fault.Fault, error) {
		return fault.NewCapacitorShort(n, ref)
	},
}

func faultNames() []string {
	names := make([]string, 0, len(faultBuilders))
	for name := range faultBuilders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var faultRef string

var faultsCmd = &cobra.Command{
	Use:   "faults <deck-file>",
	Short: "List applicable defect models",
	Long: `Enumerate the defect models applicable to each component in a deck.
Transistors get six models (terminal opens and pairwise shorts); resistors
get open and short; capacitors get short.

Examples:
  otspice faults circuit.cir
  otspice faults circuit.cir --ref M1`,
	Args: cobra.ExactArgs(1),
	RunE: runFaults,
}

func init() {
	rootCmd.AddCommand(faultsCmd)
	faultsCmd.Flags().StringVarP(&faultRef, "ref", "r", "", "restrict to one component reference")
}

func runFaults(cmd *cobra.Command, args []string) error {
	net, err := loadDeck(args[0])
	if err != nil {
		return err
	}

	refs := net.Store().References()
	if faultRef != "" {
		refs = []string{faultRef}
	}

	total := 0
	for _, ref := range refs {
		faults, err := fault.ForComponent(net, ref)
		if errors.Is(err, fault.ErrUnsupportedComponent) {
			if verbose {
				fmt.Printf("%s: no defect models\n", ref)
			}
			continue
		}
		if err != nil {
			return err
		}
		for _, f := range faults {
			fmt.Println(f)
			total++
		}
	}
	if verbose {
		fmt.Printf("\n%d defect models\n", total)
	}
	return nil
}

var (
	injectRef    string
	injectFault  string
	injectOut    string
	injectVerify bool
)

var injectCmd = &cobra.Command{
	Use:   "inject <deck-file>",
	Short: "Inject one defect model and emit the mutated deck",
	Long: `Inject a single defect model into a deck and write the mutated deck,
ready for simulation.

Fault names: ` + strings.Join(faultNames(), ", ") + `

Examples:
  otspice inject circuit.cir -r M1 -f drain-open
  otspice inject circuit.cir -r R3 -f resistor-open -o faulty.cir
  otspice inject circuit.cir -r M1 -f gate-open --verify`,
	Args: cobra.ExactArgs(1),
	RunE: runInject,
}

func init() {
	rootCmd.AddCommand(injectCmd)
	injectCmd.Flags().StringVarP(&injectRef, "ref", "r", "", "target component reference")
	injectCmd.Flags().StringVarP(&injectFault, "fault", "f", "", "defect model name")
	injectCmd.Flags().StringVarP(&injectOut, "out", "o", "", "output file (default stdout)")
	injectCmd.Flags().BoolVar(&injectVerify, "verify", false, "eject afterwards and confirm the deck is restored")
	injectCmd.MarkFlagRequired("ref")
	injectCmd.MarkFlagRequired("fault")
}

func runInject(cmd *cobra.Command, args []string) error {
	build, ok := faultBuilders[injectFault]
	if !ok {
		return fmt.Errorf("unknown fault %q (one of: %s)", injectFault, strings.Join(faultNames(), ", "))
	}

	net, err := loadDeck(args[0])
	if err != nil {
		return err
	}
	pristine := net.Render()

	f, err := build(net, injectRef)
	if err != nil {
		return err
	}
	if err := f.Inject(); err != nil {
		return err
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "injected %s\n", f)
	}
	deck := net.Render()

	if injectVerify {
		if err := f.Eject(); err != nil {
			return err
		}
		if restored := net.Render(); restored != pristine {
			return fmt.Errorf("deck not restored after eject of %s", f)
		}
		fmt.Fprintf(os.Stderr, "verified: eject restores the deck\n")
	}

	if injectOut == "" {
		fmt.Print(deck)
		return nil
	}
	return os.WriteFile(injectOut, []byte(deck), 0o644)
}
