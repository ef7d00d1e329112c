package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	latestStatus string
	latestCount  int
)

var latestCmd = &cobra.Command{
	Use:   "latest",
	Short: "List recent violation snapshots",
	Long:  "Query the result log for the most recent snapshot images with a given status.",
	RunE:  runLatest,
}

func init() {
	latestCmd.Flags().StringVar(&latestStatus, "status", "no_helmet", "result status to filter by")
	latestCmd.Flags().IntVar(&latestCount, "count", 5, "maximum number of images")
	rootCmd.AddCommand(latestCmd)
}

func runLatest(cmd *cobra.Command, args []string) error {
	store, err := connectStore()
	if err != nil {
		return err
	}
	defer store.Close()

	images, err := store.LatestImages(cmd.Context(), latestStatus, latestCount)
	if err != nil {
		return err
	}

	if len(images) == 0 {
		fmt.Printf("No %s results found\n", latestStatus)
		return nil
	}
	for _, img := range images {
		fmt.Println(img)
	}
	return nil
}
