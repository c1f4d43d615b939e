package service

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/resendlabs/resend-go"
)

const (
	defaultSignupSubject = "Signup Successful"
	defaultSignupIntro   = "Welcome to CodeBox! We're very excited to have you on board."
	signupOutro          = "Need help, or have questions? Just reply to this email, we'd love to help."
)

type ResendEmailSender struct {
	client     *resend.Client
	From       string
	AppBaseURL string
}

func NewResendEmailSender(apiKey string, from string, appBaseURL string) *ResendEmailSender {
	if strings.TrimSpace(apiKey) == "" || strings.TrimSpace(from) == "" {
		return &ResendEmailSender{}
	}
	return &ResendEmailSender{
		client:     resend.NewClient(apiKey),
		From:       from,
		AppBaseURL: strings.TrimRight(appBaseURL, "/"),
	}
}

func (s *ResendEmailSender) Configured() bool {
	return s != nil && s.client != nil
}

func (s *ResendEmailSender) SendRegistrationEmail(ctx context.Context, message RegistrationMail) error {
	if !s.Configured() {
		return ErrMailNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	subject := message.Subject
	if strings.TrimSpace(subject) == "" {
		subject = defaultSignupSubject
	}
	intro := message.Text
	if strings.TrimSpace(intro) == "" {
		intro = defaultSignupIntro
	}
	params := &resend.SendEmailRequest{
		From:    s.From,
		To:      []string{message.To},
		Subject: subject,
		Html:    s.renderHTML(message.Username, intro),
		Text:    fmt.Sprintf("Hi %s,\n\n%s\n\n%s", message.Username, intro, signupOutro),
	}
	if _, err := s.client.Emails.Send(params); err != nil {
		return fmt.Errorf("resend send: %w", err)
	}
	return nil
}

func (s *ResendEmailSender) renderHTML(username, intro string) string {
	var body strings.Builder
	fmt.Fprintf(&body, "<h2>Hi %s,</h2>", html.EscapeString(username))
	fmt.Fprintf(&body, "<p>%s</p>", html.EscapeString(intro))
	if s.AppBaseURL != "" {
		fmt.Fprintf(&body, "<p><a href=\"%s\">CodeBox</a></p>", html.EscapeString(s.AppBaseURL))
	}
	fmt.Fprintf(&body, "<p>%s</p>", signupOutro)
	return body.String()
}
