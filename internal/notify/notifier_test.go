// AngelaMos | 2026
// notifier_test.go

package notify

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/carterperez-dev/templates/storefront/internal/config"
)

func TestNewSelectsTransport(t *testing.T) {
	n, err := New(config.NotifyConfig{}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &LogNotifier{}, n)

	n, err = New(config.NotifyConfig{
		SMTPHost:     "smtp.example.com",
		SMTPPort:     587,
		SMTPUsername: "mailer",
		SMTPPassword: "secret",
		From:         "shop@example.com",
		Timeout:      time.Second,
	}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &SMTPNotifier{}, n)
}

func TestLogNotifierWritesMessage(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	n := NewLogNotifier(zap.New(core))

	require.NoError(t, n.Send(context.Background(), Message{
		To:      "alice@example.com",
		Subject: "Order Confirmation",
		Body:    "Your order #1 ...",
	}))

	entries := logs.FilterMessage("notification").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "alice@example.com", fields["to"])
	assert.Equal(t, "Order Confirmation", fields["subject"])
}

func TestSMTPNotifierRejectsBadRecipient(t *testing.T) {
	n, err := NewSMTPNotifier(config.NotifyConfig{
		SMTPHost: "smtp.example.com",
		SMTPPort: 587,
		From:     "shop@example.com",
		Timeout:  time.Second,
	})
	require.NoError(t, err)

	err = n.Send(context.Background(), Message{To: "not an address", Subject: "x", Body: "y"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "set recipient")
}
