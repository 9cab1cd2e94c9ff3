package mailer

import (
	"context"
	"fmt"
	"time"
	
	"github.com/dustin/go-humanize"
	"github.com/wneessen/go-mail"
	
	"github.com/hostelia/hostelia-BE/internal/util"
)

const (
	smtpGmailHost = "smtp.gmail.com"
	smtpGmailPort = 587
	
	senderEmailName = "Hostelia"
)

type GmailSender struct {
	client *mail.Client
	config util.Config
}

func NewGmailSender(username, password string, config util.Config) (*GmailSender, error) {
	client, err := mail.NewClient(smtpGmailHost, mail.WithPort(smtpGmailPort), mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(username), mail.WithPassword(password))
	if err != nil {
		return nil, err
	}
	if err = client.DialWithContext(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	
	return &GmailSender{
		client: client,
		config: config,
	}, nil
}

// SendNotificationEmail sends an email copy of a notification to the given
// recipients. Recipients go on BCC so hostel-wide announcements do not leak
// the full address list.
func (sender *GmailSender) SendNotificationEmail(recipients []string, title, message string, createdAt time.Time) error {
	msg := mail.NewMsg()
	
	err := msg.FromFormat(senderEmailName, sender.config.GmailSMTPUsername)
	if err != nil {
		return fmt.Errorf("failed to set From address: %w", err)
	}
	
	if err = msg.Bcc(recipients...); err != nil {
		return fmt.Errorf("failed to set Bcc addresses: %w", err)
	}
	
	msg.Subject(title)
	msg.SetBodyString(mail.TypeTextPlain, fmt.Sprintf("%s\n\n--\nPosted %s via Hostelia.", message, humanize.Time(createdAt)))
	
	if err = sender.client.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	
	return nil
}
