package main

import (
	"fmt"
	"os"
	"path"

	"github.com/spf13/cobra"
	"worktally.com/worktally/attendance/reporting"
	"worktally.com/worktally/config"
	"worktally.com/worktally/infrastructure/filesystem"
)

var reportsOpts struct {
	month  string
	outDir string
	bucket string
	dest   string
}

var reportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "Browse published attendance workbooks",
}

var reportsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the workbooks stored for a month",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := reportsFiles(cmd)
		if err != nil {
			return err
		}
		keys, err := files.ListFiles(cmd.Context(), reporting.MonthPrefix(reportsOpts.month))
		if err != nil {
			return err
		}
		for _, key := range keys {
			fmt.Fprintln(cmd.OutOrStdout(), key)
		}
		return nil
	},
}

var reportsGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Download a stored workbook",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := reportsFiles(cmd)
		if err != nil {
			return err
		}
		dest := reportsOpts.dest
		if dest == "" {
			dest = path.Base(args[0])
		}
		f, err := os.Create(dest)
		if err != nil {
			return err
		}
		defer f.Close()

		if err := files.ReadFile(cmd.Context(), args[0], f); err != nil {
			return fmt.Errorf("failed to read %s: %w", args[0], err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), dest)
		return nil
	},
}

func init() {
	pf := reportsCmd.PersistentFlags()
	pf.StringVar(&reportsOpts.outDir, "out", ".", "Directory reports were written to")
	pf.StringVar(&reportsOpts.bucket, "bucket", "", "S3 bucket (overrides --out and REPORT_BUCKET)")

	reportsListCmd.Flags().StringVar(&reportsOpts.month, "month", "", "Month, yyyy-MM")
	reportsListCmd.MarkFlagRequired("month")
	reportsGetCmd.Flags().StringVarP(&reportsOpts.dest, "output", "o", "", "Destination file (defaults to the key's base name)")

	reportsCmd.AddCommand(reportsListCmd)
	reportsCmd.AddCommand(reportsGetCmd)
}

// reportsFiles only needs the configured bucket, so it loads configuration
// without opening the database.
func reportsFiles(cmd *cobra.Command) (filesystem.FileSystem, error) {
	configured := ""
	if reportsOpts.bucket == "" && !cmd.Flags().Changed("out") {
		cfg := config.Default()
		if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
			return nil, err
		}
		configured = cfg.Report.Bucket
	}
	return reportFiles(cmd, reportsOpts.bucket, reportsOpts.outDir, configured)
}
