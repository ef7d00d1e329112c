package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gearguard-systems/gearguard-stack/common/stats"
)

var statsJSON bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show violation counters",
	Long:  "Read the live violation counters for the configured tasks and print them.",
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	store, err := connectStore()
	if err != nil {
		return err
	}
	defer store.Close()

	snap, err := stats.Gather(cmd.Context(), store, cfg.Tasks)
	if err != nil {
		return err
	}

	if statsJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "STATUS\tCOUNT")
	for status, count := range snap.Violations {
		fmt.Fprintf(w, "%s\t%d\n", status, count)
	}
	fmt.Fprintf(w, "total\t%d\n", snap.Total)
	return w.Flush()
}
