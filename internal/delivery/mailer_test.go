package delivery

import (
	"context"
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weekly-sales-report/internal/domain"
	"weekly-sales-report/internal/period"
)

type fakeSender struct {
	sent   []*mail.SGMailV3
	status int
	err    error
}

func (f *fakeSender) SendWithContext(_ context.Context, email *mail.SGMailV3) (*rest.Response, error) {
	f.sent = append(f.sent, email)
	if f.err != nil {
		return nil, f.err
	}
	return &rest.Response{StatusCode: f.status, Body: "body"}, nil
}

func testPeriods() domain.Periods {
	return period.Resolve(time.Date(2019, 3, 30, 0, 0, 0, 0, time.UTC))
}

func testConfig() Config {
	return Config{APIKey: "SG.key", From: "reports@example.com", To: "a@example.com, b@example.com"}
}

func writeZip(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "Weekly_Sales_Report_2019-04-01.zip")
	require.NoError(t, os.WriteFile(path, []byte("PK-zip"), 0o644))
	return path
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, testConfig().Validate())

	err := Config{APIKey: "k", To: " , "}.Validate()
	require.ErrorIs(t, err, ErrMissingConfig)
	assert.Contains(t, err.Error(), "sender, recipient")

	_, err = NewMailer(Config{})
	assert.ErrorIs(t, err, ErrMissingConfig)
}

func TestSubjectAndBody(t *testing.T) {
	p := testPeriods()
	assert.Equal(t, "Weekly Sales Report - 25/03/2019 to 31/03/2019", Subject(p))
	assert.Contains(t, Body(p), "<p>Period: 25/03/2019 – 31/03/2019</p>")
}

func TestSendWeeklyReport(t *testing.T) {
	sender := &fakeSender{status: 202}
	m, err := NewMailer(testConfig())
	require.NoError(t, err)
	m.WithSender(sender)

	require.NoError(t, m.SendWeeklyReport(context.Background(), writeZip(t), testPeriods()))
	require.Len(t, sender.sent, 1)

	msg := sender.sent[0]
	assert.Equal(t, "Weekly Sales Report - 25/03/2019 to 31/03/2019", msg.Subject)
	assert.Equal(t, "reports@example.com", msg.From.Address)
	require.Len(t, msg.Personalizations, 1)
	require.Len(t, msg.Personalizations[0].To, 2)
	assert.Equal(t, "b@example.com", msg.Personalizations[0].To[1].Address)

	require.Len(t, msg.Attachments, 1)
	att := msg.Attachments[0]
	assert.Equal(t, "Weekly_Sales_Report_2019-04-01.zip", att.Filename)
	assert.Equal(t, "application/zip", att.Type)
	decoded, err := base64.StdEncoding.DecodeString(att.Content)
	require.NoError(t, err)
	assert.Equal(t, "PK-zip", string(decoded))

	require.Len(t, msg.Content, 1)
	assert.Equal(t, "text/html", msg.Content[0].Type)
}

func TestSendWeeklyReport_Failures(t *testing.T) {
	m, err := NewMailer(testConfig())
	require.NoError(t, err)
	zipPath := writeZip(t)

	m.WithSender(&fakeSender{status: 401})
	err = m.SendWeeklyReport(context.Background(), zipPath, testPeriods())
	assert.ErrorIs(t, err, ErrRejected)

	transport := errors.New("connection reset")
	m.WithSender(&fakeSender{err: transport})
	err = m.SendWeeklyReport(context.Background(), zipPath, testPeriods())
	assert.ErrorIs(t, err, transport)

	err = m.SendWeeklyReport(context.Background(), filepath.Join(t.TempDir(), "missing.zip"), testPeriods())
	assert.ErrorIs(t, err, os.ErrNotExist)
}
