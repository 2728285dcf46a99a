package communication

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"mime/multipart"
	"mime/quotedprintable"
	"net/textproto"
	"strings"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

type Email struct {
	From        string
	To          []string
	Cc          []string
	Subject     string
	Text        string
	HTML        string
	Attachments []Attachment
}

type RawEmailSender interface {
	SendRawEmail(ctx context.Context, params *ses.SendRawEmailInput, optFns ...func(*ses.Options)) (*ses.SendRawEmailOutput, error)
}

type Mailer struct {
	client RawEmailSender
}

func NewMailer(client RawEmailSender) *Mailer {
	return &Mailer{client: client}
}

func ConnectSES(ctx context.Context) (*Mailer, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return NewMailer(ses.NewFromConfig(cfg)), nil
}

// Send delivers the email through SES and returns the message id.
func (m *Mailer) Send(ctx context.Context, email *Email) (string, error) {
	raw, err := BuildEmail(email)
	if err != nil {
		return "", err
	}

	res, err := m.client.SendRawEmail(ctx, &ses.SendRawEmailInput{
		RawMessage: &types.RawMessage{Data: raw.Bytes()},
	})
	if err != nil {
		return "", fmt.Errorf("failed to send email: %w", err)
	}
	if res.MessageId == nil {
		return "", nil
	}
	return *res.MessageId, nil
}

// BuildEmail renders a multipart/mixed MIME message: a text/html alternative
// part followed by base64 attachments.
func BuildEmail(email *Email) (*bytes.Buffer, error) {
	if email.From == "" || len(email.To) == 0 {
		return nil, errors.New("email requires a sender and at least one recipient")
	}

	var raw bytes.Buffer
	writer := multipart.NewWriter(&raw)

	fmt.Fprintf(&raw, "From: %s\r\n", email.From)
	fmt.Fprintf(&raw, "To: %s\r\n", strings.Join(email.To, ", "))
	if len(email.Cc) > 0 {
		fmt.Fprintf(&raw, "Cc: %s\r\n", strings.Join(email.Cc, ", "))
	}
	fmt.Fprintf(&raw, "Subject: %s\r\n", email.Subject)
	raw.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&raw, "Content-Type: multipart/mixed; boundary=\"%s\"\r\n\r\n", writer.Boundary())

	var alt bytes.Buffer
	altWriter := multipart.NewWriter(&alt)
	for _, body := range []struct{ contentType, content string }{
		{"text/plain", email.Text},
		{"text/html", email.HTML},
	} {
		if body.content == "" {
			continue
		}
		part, err := altWriter.CreatePart(textproto.MIMEHeader{
			"Content-Type":              {body.contentType + "; charset=UTF-8"},
			"Content-Transfer-Encoding": {"quoted-printable"},
		})
		if err != nil {
			return nil, err
		}
		qp := quotedprintable.NewWriter(part)
		if _, err := qp.Write([]byte(body.content)); err != nil {
			return nil, err
		}
		qp.Close()
	}
	altWriter.Close()

	altPart, err := writer.CreatePart(textproto.MIMEHeader{
		"Content-Type": {"multipart/alternative; boundary=" + altWriter.Boundary()},
	})
	if err != nil {
		return nil, err
	}
	if _, err := altPart.Write(alt.Bytes()); err != nil {
		return nil, err
	}

	for _, att := range email.Attachments {
		h := textproto.MIMEHeader{}
		h.Set("Content-Type", fmt.Sprintf("%s; name=\"%s\"", att.ContentType, att.Filename))
		h.Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", att.Filename))
		h.Set("Content-Transfer-Encoding", "base64")

		part, err := writer.CreatePart(h)
		if err != nil {
			return nil, err
		}
		encoded := base64.StdEncoding.EncodeToString(att.Content)
		// wrap lines at 76 chars
		for i := 0; i < len(encoded); i += 76 {
			end := min(i+76, len(encoded))
			part.Write([]byte(encoded[i:end] + "\r\n"))
		}
	}

	if err := writer.Close(); err != nil {
		return nil, err
	}
	return &raw, nil
}
