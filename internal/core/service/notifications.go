package service

import (
	"bytes"
	"fmt"
	"net/url"
	"unicode/utf8"

	"github.com/campusnest/sublet-market/internal/core/domain"
)

const messagePreviewLength = 140

func verificationNotification(u *domain.User, token, baseURL string) domain.Notification {
	link := fmt.Sprintf("%s/verify-email?token=%s", baseURL, url.QueryEscape(token))
	return domain.Notification{
		Kind:    domain.NotifyVerifyEmail,
		To:      u.Email,
		Subject: "Confirm your email address",
		Body: fmt.Sprintf("Hi %s,\n\nThanks for signing up. Confirm your email address by opening the link below:\n\n%s\n\nThe link expires in 24 hours. If you did not create an account you can ignore this email.\n",
			u.Name, link),
	}
}

func passwordResetNotification(u *domain.User, token, baseURL string) domain.Notification {
	link := fmt.Sprintf("%s/reset-password?token=%s", baseURL, url.QueryEscape(token))
	return domain.Notification{
		Kind:    domain.NotifyPasswordReset,
		To:      u.Email,
		Subject: "Reset your password",
		Body: fmt.Sprintf("Hi %s,\n\nSomeone asked to reset the password for this account. Choose a new password here:\n\n%s\n\nThe link expires in one hour. If it was not you, no action is needed.\n",
			u.Name, link),
	}
}

func newMessageNotification(receiver *domain.User, senderName string, m *domain.Message, baseURL string) domain.Notification {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Hi %s,\n\n%s sent you a message:\n\n", receiver.Name, senderName)
	fmt.Fprintf(&buf, "  %s\n\n", preview(m.Content))
	fmt.Fprintf(&buf, "Reply at %s/messages/%s\n", baseURL, url.PathEscape(m.SenderID))

	return domain.Notification{
		Kind:    domain.NotifyNewMessage,
		To:      receiver.Email,
		Subject: fmt.Sprintf("New message from %s", senderName),
		Body:    buf.String(),
	}
}

func reportClosedNotification(reporter *domain.User, r *domain.Report) domain.Notification {
	outcome := "was reviewed and action was taken"
	if r.Status == domain.ReportDismissed {
		outcome = "was reviewed and no violation was found"
	}
	return domain.Notification{
		Kind:    domain.NotifyReportClosed,
		To:      reporter.Email,
		Subject: "Update on your report",
		Body: fmt.Sprintf("Hi %s,\n\nYour report about listing %s (%s) %s.\n\nThanks for helping keep the marketplace safe.\n",
			reporter.Name, r.ListingID, r.Reason, outcome),
	}
}

// preview shortens s to messagePreviewLength runes.
func preview(s string) string {
	if utf8.RuneCountInString(s) <= messagePreviewLength {
		return s
	}
	runes := []rune(s)
	return string(runes[:messagePreviewLength]) + "…"
}
