package mailer

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/jashan-dhillon/mira-matching/internal/config"
	"go.uber.org/zap"
)

// SMTPMailer sends panel invitation emails. No third-party mail client is
// used; plain SMTP covers the single template this service sends.
type SMTPMailer struct {
	cfg    *config.SMTPConfig
	logger *zap.Logger
}

func NewSMTPMailer(logger *zap.Logger) *SMTPMailer {
	return &SMTPMailer{cfg: config.LoadSMTPConfig(), logger: logger}
}

// SendPanelInvite notifies an expert of their selection for an interview
// panel.
func (m *SMTPMailer) SendPanelInvite(to, expertName, itemTitle string) error {
	if m.cfg.Host == "" {
		return fmt.Errorf("smtp not configured")
	}

	subject := fmt.Sprintf("Interview Panel Invitation: %s", itemTitle)
	body := fmt.Sprintf(
		"Dear %s,\n\nYou have been selected for the interview panel for the position %q.\nPlease log in to confirm your availability.\n\nRegards,\nMIRA Matching",
		expertName, itemTitle)

	msg := strings.Join([]string{
		"From: " + m.cfg.From,
		"To: " + to,
		"Subject: " + subject,
		"",
		body,
	}, "\r\n")

	addr := m.cfg.Host + ":" + m.cfg.Port
	var auth smtp.Auth
	if m.cfg.User != "" {
		auth = smtp.PlainAuth("", m.cfg.User, m.cfg.Password, m.cfg.Host)
	}

	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("send invite to %s: %w", to, err)
	}

	m.logger.Info("panel invite sent",
		zap.String("to", to),
		zap.String("item", itemTitle))
	return nil
}
