package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"worktally.com/worktally/app"
	"worktally.com/worktally/attendance/reporting"
	"worktally.com/worktally/config"
	"worktally.com/worktally/infrastructure/communication"
	"worktally.com/worktally/infrastructure/filesystem"
)

// ReportEvent is the scheduled payload. Month defaults to the previous
// calendar month and Bucket to REPORT_BUCKET.
type ReportEvent struct {
	UserIDs []string `json:"userIds"`
	Month   string   `json:"month"`
	Bucket  string   `json:"bucket"`
	Email   []string `json:"email"`
}

func HandleRequest(ctx context.Context, event ReportEvent) (*ReportResponse, error) {
	log.Printf("[EVENT] %+v", event)

	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, err
	}
	a, err := app.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create app: %w", err)
	}
	defer a.Close()

	bucket := event.Bucket
	if bucket == "" {
		bucket = cfg.Report.Bucket
	}
	if bucket == "" {
		return nil, fmt.Errorf("no report bucket configured")
	}
	files, err := filesystem.ConnectS3(ctx, bucket)
	if err != nil {
		return nil, err
	}

	publisher := &reporting.Publisher{
		Users:      a.Users,
		Aggregator: a.Aggregator,
		Files:      files,
		Location:   a.Location,
		EmailFrom:  cfg.Report.EmailFrom,
		Notifier:   a.Notifier(),
	}
	if len(event.Email) > 0 {
		mailer, err := communication.ConnectSES(ctx)
		if err != nil {
			return nil, err
		}
		publisher.Mailer = mailer
	}

	return Run(ctx, publisher, event, time.Now())
}

func main() {
	lambda.Start(HandleRequest)
}
