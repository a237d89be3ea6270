package email

import (
	"InspectionPro/Models"
	"crypto/tls"
	"fmt"
	"net/smtp"
	"os"
	"strconv"
	"strings"
)

// ConfigFromEnv builds the SMTP configuration from environment variables.
func ConfigFromEnv() Models.EmailConfig {
	port, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil || port == 0 {
		port = 587
	}

	fromName := os.Getenv("SMTP_FROM_NAME")
	if fromName == "" {
		fromName = "Construction Inspection Pro"
	}

	return Models.EmailConfig{
		SMTPServer: os.Getenv("SMTP_SERVER"),
		SMTPPort:   port,
		Username:   os.Getenv("SMTP_USERNAME"),
		Password:   os.Getenv("SMTP_PASSWORD"),
		FromEmail:  os.Getenv("SMTP_FROM_EMAIL"),
		FromName:   fromName,
		TLSEnabled: os.Getenv("SMTP_TLS") == "true",
	}
}

// SendEmail sends an email using the provided configuration and message details
func SendEmail(config Models.EmailConfig, message Models.EmailMessage) error {
	if config.SMTPServer == "" {
		return fmt.Errorf("SMTP server is not configured")
	}

	// Build email headers
	headers := make(map[string]string)
	headers["From"] = fmt.Sprintf("%s <%s>", config.FromName, config.FromEmail)
	headers["To"] = strings.Join(message.To, ", ")
	headers["Subject"] = message.Subject

	if len(message.CC) > 0 {
		headers["Cc"] = strings.Join(message.CC, ", ")
	}

	if message.IsHTML {
		headers["MIME-Version"] = "1.0"
		headers["Content-Type"] = "text/html; charset=UTF-8"
	} else {
		headers["Content-Type"] = "text/plain; charset=UTF-8"
	}

	// Build the message
	var messageBody strings.Builder
	for key, value := range headers {
		messageBody.WriteString(fmt.Sprintf("%s: %s\r\n", key, value))
	}

	messageBody.WriteString("\r\n")
	messageBody.WriteString(message.Body)

	// Set up authentication
	auth := smtp.PlainAuth("", config.Username, config.Password, config.SMTPServer)

	// Create recipient list (to, cc, bcc)
	var recipients []string
	recipients = append(recipients, message.To...)
	recipients = append(recipients, message.CC...)
	recipients = append(recipients, message.BCC...)

	serverAddr := fmt.Sprintf("%s:%d", config.SMTPServer, config.SMTPPort)

	if config.TLSEnabled {
		tlsConfig := &tls.Config{
			ServerName:         config.SMTPServer,
			InsecureSkipVerify: config.SkipTLSCheck,
		}

		// Connect to the SMTP server with TLS
		conn, err := tls.Dial("tcp", serverAddr, tlsConfig)
		if err != nil {
			return fmt.Errorf("failed to connect to SMTP server: %v", err)
		}
		defer conn.Close()

		client, err := smtp.NewClient(conn, config.SMTPServer)
		if err != nil {
			return fmt.Errorf("failed to create SMTP client: %v", err)
		}
		defer client.Close()

		if err = client.Auth(auth); err != nil {
			return fmt.Errorf("SMTP authentication failed: %v", err)
		}

		if err = client.Mail(config.FromEmail); err != nil {
			return fmt.Errorf("failed to set sender: %v", err)
		}

		for _, recipient := range recipients {
			if err = client.Rcpt(recipient); err != nil {
				return fmt.Errorf("failed to add recipient %s: %v", recipient, err)
			}
		}

		w, err := client.Data()
		if err != nil {
			return fmt.Errorf("failed to open data connection: %v", err)
		}

		if _, err = w.Write([]byte(messageBody.String())); err != nil {
			return fmt.Errorf("failed to write email body: %v", err)
		}

		if err = w.Close(); err != nil {
			return fmt.Errorf("failed to close data connection: %v", err)
		}

		return client.Quit()
	}

	// Standard SMTP (non-TLS)
	return smtp.SendMail(
		serverAddr,
		auth,
		config.FromEmail,
		recipients,
		[]byte(messageBody.String()),
	)
}

// SendInvitation emails a company invitation link to a prospective member.
func SendInvitation(config Models.EmailConfig, company Models.Company, invitation Models.CompanyInvitation, acceptURL string) error {
	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
			<h2 style="color: #1E3A5F;">You're invited to join %s</h2>
			<p>You have been invited to join <strong>%s</strong> on Construction Inspection Pro as a %s.</p>
			<p style="margin: 24px 0;">
				<a href="%s" style="background: #1E3A5F; color: white; padding: 12px 24px; border-radius: 6px; text-decoration: none;">Accept Invitation</a>
			</p>
			<p style="color: #757575; font-size: 12px;">This invitation expires on %s.</p>
		</div>`,
		company.Name, company.Name, invitation.Role, acceptURL,
		invitation.ExpiresAt.Format("January 2, 2006"))

	return SendEmail(config, Models.EmailMessage{
		To:      []string{invitation.Email},
		Subject: fmt.Sprintf("Invitation to join %s", company.Name),
		Body:    body,
		IsHTML:  true,
	})
}
