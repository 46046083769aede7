/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"encoding/json"

	"github.com/foodorder/apiserver/internal/db"
	"github.com/foodorder/apiserver/internal/services"
	"github.com/foodorder/apiserver/internal/storage"
	"github.com/foodorder/apiserver/internal/store"
	"github.com/spf13/cobra"
)

var (
	reportRecentLimit int
	reportTopLimit    int
	reportUpload      bool
)

// reportCmd prints the platform dashboard.
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print platform totals, recent orders and top sellers",
	Long: `Builds the operator dashboard from the database and prints it as JSON.
With --upload the same document is written to the configured object store
under reports/dashboard-<unix>.json.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger := setup()
		ctx := cmd.Context()

		conn, err := db.Open(ctx, cfg)
		if err != nil {
			return err
		}
		defer conn.Close()

		reports := services.NewReportService(store.NewReportRepository(conn))
		dashboard, err := reports.Dashboard(ctx, reportRecentLimit, reportTopLimit)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(dashboard); err != nil {
			return err
		}

		if !reportUpload {
			return nil
		}
		sink, err := storage.Open(ctx, cfg.Storage)
		if err != nil {
			return err
		}
		key, err := reports.Upload(ctx, sink, dashboard)
		if err != nil {
			return err
		}
		logger.Info().Str("bucket", sink.Bucket()).Str("key", key).Msg("report uploaded")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().IntVar(&reportRecentLimit, "limit", services.DefaultRecentOrders, "number of recent orders to include")
	reportCmd.Flags().IntVar(&reportTopLimit, "top", services.DefaultTopSellers, "number of top sellers to include")
	reportCmd.Flags().BoolVar(&reportUpload, "upload", false, "upload the report to object storage")
}
