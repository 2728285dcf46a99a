package main

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"worktally.com/worktally/attendance/reporting"
	"worktally.com/worktally/utils"
)

type ReportResponse struct {
	Month   string              `json:"month"`
	Reports []*reporting.Result `json:"reports"`
	Failed  map[string]string   `json:"failed,omitempty"`
}

func previousMonth(now time.Time, loc *time.Location) string {
	first := utils.StartOfDay(now, loc).AddDate(0, 0, 1-now.In(loc).Day())
	return first.AddDate(0, -1, 0).Format("2006-01")
}

// Run publishes one report per user. A failing user does not stop the others;
// failures are returned in the response and posted to the error channel.
func Run(ctx context.Context, publisher *reporting.Publisher, event ReportEvent, now time.Time) (*ReportResponse, error) {
	month := event.Month
	if month == "" {
		month = previousMonth(now, publisher.Location)
	}
	start, end, err := utils.MonthRange(month, publisher.Location)
	if err != nil {
		return nil, err
	}

	res := &ReportResponse{Month: month, Reports: []*reporting.Result{}}
	for _, userID := range event.UserIDs {
		result, err := publisher.Publish(ctx, reporting.Request{
			UserID:  userID,
			Start:   start,
			End:     end,
			EmailTo: event.Email,
		})
		if err != nil {
			log.Printf("[ERROR] report for %s: %v", userID, err)
			if res.Failed == nil {
				res.Failed = map[string]string{}
			}
			res.Failed[userID] = err.Error()
			continue
		}
		res.Reports = append(res.Reports, result)
	}

	if len(res.Failed) > 0 && publisher.Notifier != nil {
		lines := make([]string, 0, len(res.Failed))
		for userID, msg := range res.Failed {
			lines = append(lines, fmt.Sprintf("%s: %s", userID, msg))
		}
		if err := publisher.Notifier.Error(fmt.Sprintf("Attendance reports for %s failed:\n%s", month, strings.Join(lines, "\n"))); err != nil {
			log.Printf("[ERROR] notify: %v", err)
		}
	}
	return res, nil
}
