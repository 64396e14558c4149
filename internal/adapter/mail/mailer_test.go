package mail

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"
)

func TestWelcomeBody(t *testing.T) {
	body := welcomeBody("John")
	assert.Contains(t, body, "Welcome John!")
	assert.Contains(t, body, "successfully created")
}

func TestSendWelcome_TransportFailure(t *testing.T) {
	// Dialer points at a closed port; delivery must fail with a DeliveryError
	m := NewMailer(Config{Host: "127.0.0.1", Port: 1, From: "noreply@example.com"}, zaptest.NewLogger(t))

	err := m.SendWelcome("john@example.com", "John")
	assert.Error(t, err)
}
