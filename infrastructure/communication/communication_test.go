package communication

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlack(t *testing.T) {
	var channels []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat.postMessage", r.URL.Path)
		assert.NoError(t, r.ParseForm())
		channels = append(channels, r.Form.Get("channel"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true,"channel":"` + r.Form.Get("channel") + `","ts":"1"}`))
	}))
	defer srv.Close()

	s := NewSlack("xoxb-test", SlackOption{InfoChannelID: "C-INFO", APIURL: srv.URL + "/"})
	require.NoError(t, s.Info("report ready"))
	require.NoError(t, s.Error("dropped without an error channel"))
	assert.Equal(t, []string{"C-INFO"}, channels)
}

type fakeSES struct {
	raw []byte
}

func (f *fakeSES) SendRawEmail(ctx context.Context, params *ses.SendRawEmailInput, optFns ...func(*ses.Options)) (*ses.SendRawEmailOutput, error) {
	f.raw = params.RawMessage.Data
	return &ses.SendRawEmailOutput{MessageId: aws.String("msg-1")}, nil
}

func TestMailer(t *testing.T) {
	client := &fakeSES{}
	id, err := NewMailer(client).Send(context.Background(), &Email{
		From:    "reports@worktally.com",
		To:      []string{"alice@example.com"},
		Subject: "Attendance report",
		Text:    "Attached.",
		Attachments: []Attachment{{
			Filename:    "report.xlsx",
			ContentType: "application/octet-stream",
			Content:     []byte("xlsx"),
		}},
	})
	require.NoError(t, err)
	assert.Equal(t, "msg-1", id)

	raw := string(client.raw)
	assert.True(t, strings.HasPrefix(raw, "From: reports@worktally.com\r\n"))
	assert.Contains(t, raw, "Subject: Attendance report\r\n")
	assert.Contains(t, raw, "text/plain; charset=UTF-8")
	assert.Contains(t, raw, `filename="report.xlsx"`)
	assert.Contains(t, raw, base64.StdEncoding.EncodeToString([]byte("xlsx")))
	assert.NotContains(t, raw, "text/html")
}

func TestBuildEmailRequiresRecipients(t *testing.T) {
	_, err := BuildEmail(&Email{From: "reports@worktally.com"})
	assert.Error(t, err)
}
