package utils

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"

	"academy/config"
	"academy/models"
)

// SendEmail sends an HTML mail through the configured SMTP account.
func SendEmail(cfg *config.Config, to []string, subject string, htmlBody string) error {
	smtpHost := "smtp.gmail.com"
	smtpPort := "587"

	from := cfg.EmailSender
	password := cfg.EmailPassword

	msg := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n"
	msg += fmt.Sprintf("From: Academy <%s>\r\n", from)
	msg += fmt.Sprintf("To: %s\r\n", strings.Join(to, ","))
	msg += fmt.Sprintf("Subject: %s\r\n\r\n", subject)
	msg += htmlBody

	auth := smtp.PlainAuth("", from, password, smtpHost)

	if err := smtp.SendMail(smtpHost+":"+smtpPort, auth, from, to, []byte(msg)); err != nil {
		log.Printf("Error sending email: %v", err)
		return err
	}
	return nil
}

// SendRegistrationNotification mails the back-office inbox about a new
// registration. Best effort: failures are logged and swallowed so the
// submission itself never fails on mail trouble.
func SendRegistrationNotification(cfg *config.Config, registration models.Registration) {
	if cfg.NotifyEmail == "" || cfg.EmailSender == "" {
		return
	}

	name := registration.FirstName
	if registration.Infix != "" {
		name += " " + registration.Infix
	}
	name += " " + registration.LastName

	sessionLine := "Not yet scheduled"
	if registration.SessionID != nil {
		sessionLine = fmt.Sprintf("Session #%d", *registration.SessionID)
	}

	body := getEmailTemplate("New Registration", fmt.Sprintf(`
		<p>A new registration came in.</p>
		<table>
			<tr><td><b>Name</b></td><td>%s</td></tr>
			<tr><td><b>Email</b></td><td>%s</td></tr>
			<tr><td><b>Phone</b></td><td>%s</td></tr>
			<tr><td><b>Trainings</b></td><td>%s</td></tr>
			<tr><td><b>Session</b></td><td>%s</td></tr>
		</table>
	`, name, registration.Email, registration.Phone,
		strings.Join(registration.Trainings, ", "), sessionLine))

	if err := SendEmail(cfg, []string{cfg.NotifyEmail}, "New registration received", body); err != nil {
		log.Printf("Failed to send registration notification for %d: %v", registration.ID, err)
	}
}

// getEmailTemplate wraps body content in the house mail layout.
func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; }
			.header { background-color: #1A2B4C; padding: 24px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 22px; }
			.content { padding: 32px 24px; color: #1A2B4C; line-height: 1.6; }
			table td { padding: 4px 12px 4px 0; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header"><h1>%s</h1></div>
			<div class="content">%s</div>
		</div>
	</body>
	</html>`, title, bodyContent)
}
