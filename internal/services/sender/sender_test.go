package services

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/sweetshop-api/internal/lib/smtp"
	"github.com/magabrotheeeer/sweetshop-api/internal/models"
)

type fakeWriteCloser struct {
	bytes.Buffer
}

func (f *fakeWriteCloser) Close() error { return nil }

type fakeClient struct {
	from  string
	rcpts []string
	body  *fakeWriteCloser
}

func (f *fakeClient) Mail(from string) error {
	f.from = from
	return nil
}

func (f *fakeClient) Rcpt(to string) error {
	f.rcpts = append(f.rcpts, to)
	return nil
}

func (f *fakeClient) Data() (io.WriteCloser, error) {
	f.body = &fakeWriteCloser{}
	return f.body, nil
}

func (f *fakeClient) Quit() error  { return nil }
func (f *fakeClient) Close() error { return nil }

type fakeTransport struct {
	client *fakeClient
}

func (f *fakeTransport) Connect() (smtp.Client, error) {
	return f.client, nil
}

func (f *fakeTransport) GetSMTPUser() string { return "noreply@sweetshop.dev" }

func newTestSender() (*SenderService, *fakeClient) {
	client := &fakeClient{}
	transport := &fakeTransport{client: client}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewSenderService(transport, log), client
}

func TestHandleMailJob_VerifyOtp(t *testing.T) {
	sender, client := newTestSender()

	job := models.MailJob{
		Kind:     models.MailKindVerifyOtp,
		Email:    "alice@example.com",
		Username: "alice",
		Otp:      "123456",
	}
	body, err := json.Marshal(job)
	require.NoError(t, err)

	require.NoError(t, sender.HandleMailJob(body))

	assert.Equal(t, "noreply@sweetshop.dev", client.from)
	assert.Equal(t, []string{"alice@example.com"}, client.rcpts)
	sent := client.body.String()
	assert.Contains(t, sent, "Subject: Account verification")
	assert.Contains(t, sent, "123456")
	assert.Contains(t, sent, "alice")
}

func TestHandleMailJob_Welcome(t *testing.T) {
	sender, client := newTestSender()

	job := models.MailJob{
		Kind:     models.MailKindWelcome,
		Email:    "bob@example.com",
		Username: "bob",
	}
	body, err := json.Marshal(job)
	require.NoError(t, err)

	require.NoError(t, sender.HandleMailJob(body))
	assert.Contains(t, client.body.String(), "Welcome to Sweet Shop")
}

func TestHandleMailJob_UnknownKind(t *testing.T) {
	sender, _ := newTestSender()

	body, err := json.Marshal(models.MailJob{Kind: "unknown", Email: "x@example.com"})
	require.NoError(t, err)

	assert.Error(t, sender.HandleMailJob(body))
}

func TestHandleMailJob_BadJSON(t *testing.T) {
	sender, _ := newTestSender()
	assert.Error(t, sender.HandleMailJob([]byte("not-json")))
}
