package v1

import (
	"context"
	"time"

	attendance "worktally.com/worktally/attendance/core"
	"worktally.com/worktally/attendance/model"
	"worktally.com/worktally/core"
	"worktally.com/worktally/security"
)

type AuthEndpoint struct {
	transport *Transport
}

type CredentialDTO struct {
	AuthType string `json:"authType,omitempty"`
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
	Code     string `json:"code,omitempty"`
}

// Login authenticates and, on success, uses the returned token for later calls.
func (ep *AuthEndpoint) Login(ctx context.Context, cred CredentialDTO) (*security.Session, error) {
	resp, err := ep.transport.Post(ctx, "/api/auth/login", cred, nil)
	if err != nil {
		return nil, err
	}
	session, err := decodeData[*security.Session](resp)
	if err != nil {
		return nil, err
	}
	ep.transport.AuthToken = session.Token
	return session, nil
}

func (ep *AuthEndpoint) Register(ctx context.Context, cred CredentialDTO) (*security.Session, error) {
	resp, err := ep.transport.Post(ctx, "/api/auth/register", cred, nil)
	if err != nil {
		return nil, err
	}
	return decodeData[*security.Session](resp)
}

type UserEndpoint struct {
	transport *Transport
}

func (ep *UserEndpoint) Me(ctx context.Context) (*core.User, error) {
	resp, err := ep.transport.Get(ctx, "/api/users/me", nil)
	if err != nil {
		return nil, err
	}
	return decodeData[*core.User](resp)
}

type RatedProfileDTO struct {
	RatedWorkStartTime *string  `json:"ratedWorkStartTime,omitempty"`
	RatedWorkEndTime   *string  `json:"ratedWorkEndTime,omitempty"`
	RatedHourlyRate    *float64 `json:"ratedHourlyRate,omitempty"`
	RatedWorkHours     *float64 `json:"ratedWorkHours,omitempty"`
	RatedDailySalary   *float64 `json:"ratedDailySalary,omitempty"`
}

func (ep *UserEndpoint) UpdateMe(ctx context.Context, profile RatedProfileDTO) (*core.User, error) {
	resp, err := ep.transport.Put(ctx, "/api/users/me", profile)
	if err != nil {
		return nil, err
	}
	return decodeData[*core.User](resp)
}

type ClockEndpoint struct {
	transport *Transport
}

func (ep *ClockEndpoint) In(ctx context.Context) (*attendance.ClockInResult, error) {
	resp, err := ep.transport.Post(ctx, "/api/clock/in", nil, nil)
	if err != nil {
		return nil, err
	}
	return decodeData[*attendance.ClockInResult](resp)
}

func (ep *ClockEndpoint) Out(ctx context.Context) (*attendance.ClockOutResult, error) {
	resp, err := ep.transport.Post(ctx, "/api/clock/out", nil, nil)
	if err != nil {
		return nil, err
	}
	return decodeData[*attendance.ClockOutResult](resp)
}

// Today returns nil when the user has not clocked in today.
func (ep *ClockEndpoint) Today(ctx context.Context) (*model.ClockRecord, error) {
	resp, err := ep.transport.Get(ctx, "/api/clock/today", nil)
	if err != nil {
		return nil, err
	}
	return decodeData[*model.ClockRecord](resp)
}

type StatsEndpoint struct {
	transport *Transport
}

func dateRange(start, end time.Time) map[string]string {
	return map[string]string{
		"startDate": start.Format(time.DateOnly),
		"endDate":   end.Format(time.DateOnly),
	}
}

func (ep *StatsEndpoint) Heatmap(ctx context.Context, start, end time.Time, metric attendance.Metric) ([]attendance.HeatmapPoint, error) {
	query := dateRange(start, end)
	query["type"] = string(metric)

	resp, err := ep.transport.Get(ctx, "/api/stats/heatmap", query)
	if err != nil {
		return nil, err
	}
	return decodeData[[]attendance.HeatmapPoint](resp)
}

// Report downloads the xlsx workbook.
func (ep *StatsEndpoint) Report(ctx context.Context, start, end time.Time) ([]byte, error) {
	resp, err := ep.transport.Get(ctx, "/api/stats/report", dateRange(start, end))
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}
