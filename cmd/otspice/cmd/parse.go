package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var renderDeck bool

var parseCmd = &cobra.Command{
	Use:   "parse <deck-file>",
	Short: "Parse and display a SPICE deck",
	Long: `Parse a SPICE deck and display its title, component inventory, and
control directives.

Examples:
  otspice parse circuit.cir
  otspice parse -v circuit.cir     # list every component card
  otspice parse --render circuit.cir`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().BoolVar(&renderDeck, "render", false, "re-emit the parsed deck")
}

func runParse(cmd *cobra.Command, args []string) error {
	net, err := loadDeck(args[0])
	if err != nil {
		return err
	}

	if renderDeck {
		fmt.Print(net.Render())
		return nil
	}

	store := net.Store()
	fmt.Printf("Title:      %s\n", store.Title())
	fmt.Printf("Components: %s\n", net.Summary())
	if directives := store.Directives(); len(directives) > 0 {
		fmt.Printf("Directives: %d\n", len(directives))
		if verbose {
			for _, d := range directives {
				fmt.Printf("  %s\n", d)
			}
		}
	}

	if verbose {
		fmt.Println()
		for _, ref := range store.References() {
			c, _ := store.Lookup(ref)
			fmt.Printf("  %-6s %-10s %s\n", ref, strings.Join(c.Ports, " "), c.Value)
		}
	}
	return nil
}
