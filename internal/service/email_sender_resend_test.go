package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResendEmailSender_Unconfigured(t *testing.T) {
	sender := NewResendEmailSender("", "noreply@codebox.dev", "")
	assert.False(t, sender.Configured())
	err := sender.SendRegistrationEmail(context.Background(), RegistrationMail{Username: "alice", To: "a@x.io"})
	assert.ErrorIs(t, err, ErrMailNotConfigured)
}

func TestResendEmailSender_RenderHTMLEscapes(t *testing.T) {
	sender := NewResendEmailSender("re_test", "noreply@codebox.dev", "https://codebox.dev/")
	assert.True(t, sender.Configured())

	body := sender.renderHTML("<script>", defaultSignupIntro)
	assert.Contains(t, body, "&lt;script&gt;")
	assert.NotContains(t, body, "<script>")
	assert.Contains(t, body, `href="https://codebox.dev"`)
}
