package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"worktally.com/worktally/attendance/reporting"
	"worktally.com/worktally/infrastructure/communication"
	"worktally.com/worktally/infrastructure/filesystem"
	"worktally.com/worktally/utils"
)

var reportOpts struct {
	userID string
	start  string
	end    string
	month  string
	outDir string
	bucket string
	email  []string
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Write a user's attendance workbook to a directory or S3",
	Args:  cobra.NoArgs,
	RunE:  runReport,
}

func init() {
	f := reportCmd.Flags()
	f.StringVar(&reportOpts.userID, "user", "", "User id")
	f.StringVar(&reportOpts.start, "start", "", "First day, yyyy-MM-dd")
	f.StringVar(&reportOpts.end, "end", "", "Last day, yyyy-MM-dd")
	f.StringVar(&reportOpts.month, "month", "", "Whole month, yyyy-MM (instead of --start/--end)")
	f.StringVar(&reportOpts.outDir, "out", ".", "Output directory")
	f.StringVar(&reportOpts.bucket, "bucket", "", "S3 bucket (overrides --out and REPORT_BUCKET)")
	f.StringSliceVar(&reportOpts.email, "email", nil, "Email the workbook to these addresses")
	reportCmd.MarkFlagRequired("user")
	reportCmd.MarkFlagsMutuallyExclusive("month", "start")
	reportCmd.MarkFlagsMutuallyExclusive("month", "end")
}

func reportRange(loc *time.Location) (time.Time, time.Time, error) {
	if reportOpts.month != "" {
		return utils.MonthRange(reportOpts.month, loc)
	}
	if reportOpts.start == "" || reportOpts.end == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("either --month or both --start and --end are required")
	}
	start, err := utils.ParseDate(reportOpts.start, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := utils.ParseDate(reportOpts.end, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

func runReport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := loadApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	start, end, err := reportRange(a.Location)
	if err != nil {
		return err
	}

	publisher := &reporting.Publisher{
		Users:      a.Users,
		Aggregator: a.Aggregator,
		Location:   a.Location,
		EmailFrom:  a.Config.Report.EmailFrom,
		Notifier:   a.Notifier(),
	}

	if publisher.Files, err = reportFiles(cmd, reportOpts.bucket, reportOpts.outDir, a.Config.Report.Bucket); err != nil {
		return err
	}

	if len(reportOpts.email) > 0 {
		if publisher.EmailFrom == "" {
			return fmt.Errorf("REPORT_EMAIL_FROM is required to email reports")
		}
		if publisher.Mailer, err = communication.ConnectSES(ctx); err != nil {
			return err
		}
	}

	result, err := publisher.Publish(ctx, reporting.Request{
		UserID:  reportOpts.userID,
		Start:   start,
		End:     end,
		EmailTo: reportOpts.email,
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), result.Location)
	if result.Emailed {
		fmt.Fprintf(os.Stderr, "emailed to %v\n", reportOpts.email)
	}
	return nil
}

// reportFiles picks S3 when a bucket is given or configured and --out was not
// set, otherwise the local directory.
func reportFiles(cmd *cobra.Command, bucket, dir, configured string) (filesystem.FileSystem, error) {
	if bucket == "" && !cmd.Flags().Changed("out") {
		bucket = configured
	}
	if bucket != "" {
		files, err := filesystem.ConnectS3(cmd.Context(), bucket)
		if err != nil {
			return nil, err
		}
		return files, nil
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	return filesystem.LocalFileSystem{Root: abs}, nil
}
