package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceSpice/pkg/fault"
	"github.com/OpenTraceLab/OpenTraceSpice/pkg/netlist"
	"github.com/OpenTraceLab/OpenTraceSpice/pkg/probe"
	"github.com/OpenTraceLab/OpenTraceSpice/pkg/sim"
)

var (
	campaignObserve []string
	campaignRefs    []string
	campaignProfile string
	campaignWorkDir string
	campaignBinary  string

	// campaignRunner overrides the ngspice runner; tests set it.
	campaignRunner sim.Runner
)

var campaignCmd = &cobra.Command{
	Use:   "campaign <deck-file>",
	Short: "Run a fault campaign against ngspice",
	Long: `Run a full fault campaign: deploy an inverter observer on every watched
node, capture the fault-free baseline, then inject each applicable defect
model in turn, simulate, and report whether the observers still see the
expected logic levels.

A fault is reported DETECTED when at least one observer's classification
diverges from the baseline.

Examples:
  otspice campaign circuit.cir --observe out
  otspice campaign circuit.cir --observe out --observe carry --ref M1 --ref M2
  otspice campaign circuit.cir --observe out --profile bench.yaml --workdir /tmp/run`,
	Args: cobra.ExactArgs(1),
	RunE: runCampaign,
}

func init() {
	rootCmd.AddCommand(campaignCmd)
	campaignCmd.Flags().StringSliceVar(&campaignObserve, "observe", nil, "node to observe (repeatable)")
	campaignCmd.Flags().StringSliceVarP(&campaignRefs, "ref", "r", nil, "restrict faults to these components")
	campaignCmd.Flags().StringVarP(&campaignProfile, "profile", "p", "", "YAML simulation profile")
	campaignCmd.Flags().StringVar(&campaignWorkDir, "workdir", ".", "directory for decks and logs")
	campaignCmd.Flags().StringVar(&campaignBinary, "ngspice", "", "ngspice executable override")
	campaignCmd.MarkFlagRequired("observe")
}

func runCampaign(cmd *cobra.Command, args []string) error {
	net, err := loadDeck(args[0])
	if err != nil {
		return err
	}

	prof := probe.DefaultProfile()
	if campaignProfile != "" {
		if prof, err = probe.LoadProfile(campaignProfile); err != nil {
			return err
		}
	}

	runner := campaignRunner
	if runner == nil {
		ng := sim.NewNgspiceRunner(campaignWorkDir)
		ng.Binary = campaignBinary
		runner = ng
	}

	// The circuit under test is what the deck held before any scaffolding
	// went in; observer-owned components must not become fault targets.
	refs := campaignRefs
	if len(refs) == 0 {
		refs = net.Store().References()
	}

	// Observers stay deployed for the whole campaign.
	observers := make([]probe.Observer, 0, len(campaignObserve))
	for _, node := range campaignObserve {
		obs, err := probe.NewInverterObserver(net, node, prof)
		if err != nil {
			return err
		}
		if err := obs.Inject(); err != nil {
			return err
		}
		if err := obs.Activate(); err != nil {
			return err
		}
		observers = append(observers, obs)
	}

	ctx := cmd.Context()
	if err := probe.CaptureBaseline(ctx, runner, net, "baseline", observers...); err != nil {
		if !errors.Is(err, probe.ErrUncertainBaseline) {
			return err
		}
		fmt.Printf("warning: %v\n", err)
	}

	detected, total := 0, 0
	for _, ref := range refs {
		faults, err := fault.ForComponent(net, ref)
		if errors.Is(err, fault.ErrUnsupportedComponent) {
			continue
		}
		if err != nil {
			return err
		}
		for _, f := range faults {
			hit, err := runFaultCase(ctx, runner, net, f, observers)
			if err != nil {
				return err
			}
			total++
			if hit {
				detected++
				fmt.Printf("DETECTED  %s\n", f)
			} else {
				fmt.Printf("missed    %s\n", f)
			}
		}
	}

	fmt.Printf("\n%d/%d defect models detected\n", detected, total)
	return nil
}

// runFaultCase injects one fault, simulates, and ejects again. The netlist
// is back in its baseline shape on return, simulation failure included.
func runFaultCase(ctx context.Context, runner sim.Runner, net *netlist.Netlist, f fault.Fault, observers []probe.Observer) (bool, error) {
	if err := f.Inject(); err != nil {
		return false, err
	}
	verdicts, runErr := probe.Evaluate(ctx, runner, net, fmt.Sprintf("fault_%s_%s", f.Ref(), f.Kind()), observers...)
	if err := f.Eject(); err != nil {
		return false, err
	}
	if runErr != nil {
		return false, runErr
	}
	for _, v := range verdicts {
		if !v.Match {
			return true, nil
		}
	}
	return false, nil
}
