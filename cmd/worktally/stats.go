package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	attendance "worktally.com/worktally/attendance/core"
	"worktally.com/worktally/utils"
)

var statsOpts struct {
	start  string
	end    string
	metric string
	output string
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Read your statistics through a running API",
}

func statsRange() (time.Time, time.Time, error) {
	start, err := utils.ParseDate(statsOpts.start, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := utils.ParseDate(statsOpts.end, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

var statsHeatmapCmd = &cobra.Command{
	Use:   "heatmap",
	Short: "Print the daily series of a metric",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		metric, err := attendance.ParseMetric(statsOpts.metric)
		if err != nil {
			return err
		}
		start, end, err := statsRange()
		if err != nil {
			return err
		}
		points, err := newClient().Stats.Heatmap(cmd.Context(), start, end, metric)
		if err != nil {
			return err
		}
		return printJSON(cmd, points)
	},
}

var statsReportCmd = &cobra.Command{
	Use:   "report",
	Short: "Download the attendance workbook of a date range",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		start, end, err := statsRange()
		if err != nil {
			return err
		}
		body, err := newClient().Stats.Report(cmd.Context(), start, end)
		if err != nil {
			return err
		}

		dest := statsOpts.output
		if dest == "" {
			dest = fmt.Sprintf("attendance_%s_%s.xlsx", statsOpts.start, statsOpts.end)
		}
		if err := os.WriteFile(dest, body, 0o644); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), dest)
		return nil
	},
}

func init() {
	addClientFlags(statsCmd)

	pf := statsCmd.PersistentFlags()
	pf.StringVar(&statsOpts.start, "start", "", "First day, yyyy-MM-dd")
	pf.StringVar(&statsOpts.end, "end", "", "Last day, yyyy-MM-dd")
	statsCmd.MarkPersistentFlagRequired("start")
	statsCmd.MarkPersistentFlagRequired("end")

	statsHeatmapCmd.Flags().StringVar(&statsOpts.metric, "type", string(attendance.MetricWorkHours), "hourlyRate or workHours")
	statsReportCmd.Flags().StringVarP(&statsOpts.output, "output", "o", "", "Destination file")

	statsCmd.AddCommand(statsHeatmapCmd)
	statsCmd.AddCommand(statsReportCmd)
}
