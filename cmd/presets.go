package cmd

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var presetsPath string // Presets YAML file; empty uses the built-in presets

// presetsCmd lists the named scenarios accepted by --preset
var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List named scenario presets",
	Run: func(cmd *cobra.Command, args []string) {
		if err := listPresets(os.Stdout, presetsPath); err != nil {
			logrus.Fatalf("listing presets: %v", err)
		}
	},
}

func listPresets(out io.Writer, path string) error {
	pf, err := loadPresets(path)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tPBR\tYEARS\tPOLICY\tDESCRIPTION")
	for _, name := range pf.Names() {
		p := pf.Presets[name]
		c := p.Config
		fmt.Fprintf(tw, "%s\t%.2f -> %.2f\t%d\t%d\t%s\n",
			name, c.InitialMultiplier, c.TargetMultiplier, c.TotalYears, c.PolicyYears, p.Description)
	}
	return tw.Flush()
}

func init() {
	presetsCmd.Flags().StringVar(&presetsPath, "presets-file", "", "Presets YAML file (default: built-in presets)")
	rootCmd.AddCommand(presetsCmd)
}
