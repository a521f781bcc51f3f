package mail

import (
	"bytes"
	"context"
	"testing"

	"nonprofit-api/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMailer() *SMTPMailer {
	return NewSMTPMailer(Config{Host: "localhost", Port: 2525, From: "news@example.org", FromName: "Helping Hands"})
}

func TestBuildMessageBccBroadcast(t *testing.T) {
	msg, err := newTestMailer().buildMessage(domain.Email{
		Bcc:     []string{"a@example.org", "b@example.org"},
		Subject: "Spring update",
		HTML:    "<p>News</p>",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"a@example.org", "b@example.org"}, msg.GetHeader("Bcc"))
	assert.Equal(t, []string{`"Helping Hands" <news@example.org>`}, msg.GetHeader("To"))

	// Bcc must not leak into the written message
	var buf bytes.Buffer
	_, err = msg.WriteTo(&buf)
	require.NoError(t, err)
	assert.NotContains(t, buf.String(), "a@example.org")
	assert.Contains(t, buf.String(), "Subject: Spring update")
}

func TestBuildMessageDirect(t *testing.T) {
	msg, err := newTestMailer().buildMessage(domain.Email{
		To:      []string{"root@example.org"},
		Subject: "Code",
		HTML:    "<h2>123456</h2>",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"root@example.org"}, msg.GetHeader("To"))
	assert.Empty(t, msg.GetHeader("Bcc"))
}

func TestSendWithoutRecipients(t *testing.T) {
	err := newTestMailer().Send(context.Background(), domain.Email{Subject: "x"})
	assert.ErrorIs(t, err, ErrNoRecipients)
}

func TestSendHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := newTestMailer().Send(ctx, domain.Email{To: []string{"a@example.org"}})
	assert.ErrorIs(t, err, context.Canceled)
}
