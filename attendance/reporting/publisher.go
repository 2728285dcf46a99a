package reporting

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"path"
	"time"

	attendance "worktally.com/worktally/attendance/core"
	"worktally.com/worktally/core"
	"worktally.com/worktally/infrastructure/communication"
	"worktally.com/worktally/infrastructure/filesystem"
	"worktally.com/worktally/utils"
)

const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Mailer interface {
	Send(ctx context.Context, email *communication.Email) (string, error)
}

type Request struct {
	UserID string
	Start  time.Time
	End    time.Time
	// optional recipients of the workbook
	EmailTo []string
}

type Result struct {
	UserID   string                   `json:"userId"`
	Location string                   `json:"location"`
	Summary  attendance.ReportSummary `json:"summary"`
	Emailed  bool                     `json:"emailed"`
}

// Publisher renders attendance workbooks, stores them and announces them.
type Publisher struct {
	Users      attendance.UserProfiles
	Aggregator *attendance.Aggregator
	Files      filesystem.FileSystem
	Location   *time.Location
	// Mailer and EmailFrom are needed only for requests with recipients.
	Mailer    Mailer
	EmailFrom string
	Notifier  communication.Notifier
}

// Key is the storage key of a user's workbook for the range.
// MonthPrefix is the storage prefix of the reports of a "yyyy-MM" month.
func MonthPrefix(month string) string {
	return "attendance/" + month + "/"
}

func (p *Publisher) Key(user *core.User, start, end time.Time) string {
	name := user.ID
	if user.Username != nil {
		name = *user.Username
	}
	return path.Join(MonthPrefix(utils.DayKey(start, p.Location)[:7]),
		fmt.Sprintf("%s_%s_%s.xlsx", name, utils.DayKey(start, p.Location), utils.DayKey(end, p.Location)))
}

func (p *Publisher) Publish(ctx context.Context, req Request) (*Result, error) {
	user, err := p.Users.FindUserByID(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, attendance.ErrUserNotFound
	}

	records, err := p.Aggregator.Records(ctx, user.ID, req.Start, req.End)
	if err != nil {
		return nil, err
	}
	buf, err := attendance.BuildReport(records, p.Location)
	if err != nil {
		return nil, fmt.Errorf("failed to build report: %w", err)
	}
	content := buf.Bytes()

	key := p.Key(user, req.Start, req.End)
	location, err := p.Files.WriteFile(ctx, key, ContentType, bytes.NewReader(content))
	if err != nil {
		return nil, err
	}
	log.Printf("[INFO] report for %s written to %s", user.ID, location)

	result := &Result{UserID: user.ID, Location: location, Summary: attendance.Summarize(records)}

	if len(req.EmailTo) > 0 {
		if p.Mailer == nil {
			return nil, fmt.Errorf("no mailer configured for report recipients")
		}
		_, err := p.Mailer.Send(ctx, &communication.Email{
			From:    p.EmailFrom,
			To:      req.EmailTo,
			Subject: fmt.Sprintf("Attendance report %s to %s", utils.DayKey(req.Start, p.Location), utils.DayKey(req.End, p.Location)),
			Text:    summaryText(result.Summary),
			Attachments: []communication.Attachment{{
				Filename:    path.Base(key),
				ContentType: ContentType,
				Content:     content,
			}},
		})
		if err != nil {
			return nil, err
		}
		result.Emailed = true
	}

	if p.Notifier != nil {
		if err := p.Notifier.Info(fmt.Sprintf("Attendance report for %s: %s\n%s", user.ID, location, summaryText(result.Summary))); err != nil {
			// the report is already stored
			log.Printf("[ERROR] notify: %v", err)
		}
	}

	return result, nil
}

func summaryText(s attendance.ReportSummary) string {
	return fmt.Sprintf("%d days clocked in, %d completed, %.2f hours worked, %.2f expected salary.",
		s.Days, s.CompletedDays, s.ActualWorkHours, s.ExpectedDailySalary)
}
