package domain

// NotificationKind names the reason an email is sent.
type NotificationKind string

const (
	NotifyVerifyEmail   NotificationKind = "verify_email"
	NotifyPasswordReset NotificationKind = "password_reset"
	NotifyNewMessage    NotificationKind = "new_message"
	NotifyReportClosed  NotificationKind = "report_closed"
)

// Notification is an outbound email waiting to be delivered.
type Notification struct {
	Kind    NotificationKind
	To      string
	Subject string
	Body    string
}
