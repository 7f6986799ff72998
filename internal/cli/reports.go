package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var reportsLimit int

var reportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "Manage saved analysis reports",
}

var reportsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved reports, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		records, err := getStore().List(ctx, reportsLimit)
		if err != nil {
			return fmt.Errorf("list reports: %w", err)
		}
		if len(records) == 0 {
			fmt.Println("No saved reports.")
			return nil
		}
		for _, rec := range records {
			fmt.Printf("%s  %s  risk %3d  %-9s  %s\n",
				rec.ID,
				rec.CreatedAt.Format("2006-01-02 15:04"),
				rec.Result.OverallRiskScore,
				rec.Modality,
				rec.Result.Classification)
		}
		return nil
	},
}

var reportsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one saved report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rec, err := getStore().Get(context.Background(), args[0])
		if err != nil {
			return fmt.Errorf("load report: %w", err)
		}
		if rec == nil {
			return fmt.Errorf("no report with id %s", args[0])
		}
		fmt.Printf("Saved %s (triage %s)\n\n", rec.CreatedAt.Format("2006-01-02 15:04"), rec.TriageLevel)
		fmt.Print(renderResult(rec.SourceText, &rec.Result))
		return nil
	},
}

var reportsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a saved report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		deleted, err := getStore().Delete(context.Background(), args[0])
		if err != nil {
			return fmt.Errorf("delete report: %w", err)
		}
		if !deleted {
			return fmt.Errorf("no report with id %s", args[0])
		}
		fmt.Println("Deleted.")
		return nil
	},
}

func init() {
	reportsListCmd.Flags().IntVarP(&reportsLimit, "limit", "n", 20, "max reports to list")

	reportsCmd.AddCommand(reportsListCmd)
	reportsCmd.AddCommand(reportsShowCmd)
	reportsCmd.AddCommand(reportsDeleteCmd)
}
