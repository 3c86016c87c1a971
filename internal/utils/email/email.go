package email

import (
	"fmt"
	"net/smtp"
	"time"

	"github.com/geraldhq/bnpl-gateway/internal/config"
	"github.com/geraldhq/bnpl-gateway/internal/models"
	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"
)

// Sender handles sending emails via SMTP
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	return &Sender{
		cfg:    cfg,
		logger: logger,
	}
}

// SendOverdueDigest sends the daily overdue-installment summary to ops
func (s *Sender) SendOverdueDigest(to string, overdue []models.OverdueInstallment) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	e.Subject = fmt.Sprintf("Overdue Installments Digest - %s", time.Now().Format("2006-01-02"))

	body := fmt.Sprintf("Overdue installments as of %s:\n\n", time.Now().Format("2006-01-02"))
	var totalCents int64
	for _, o := range overdue {
		body += fmt.Sprintf("  plan %s  user %s  due %s  $%.2f\n",
			o.PlanID, o.UserID, o.DueDate.Format("2006-01-02"), float64(o.AmountCents)/100)
		totalCents += o.AmountCents
	}
	body += fmt.Sprintf("\nTotal: %d installment(s), $%.2f outstanding\n", len(overdue), float64(totalCents)/100)
	body += "\nBNPL Gateway"
	e.Text = []byte(body)

	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	if err := e.Send(addr, auth); err != nil {
		s.logger.Errorf("Failed to send digest to %s: %v", to, err)
		return fmt.Errorf("failed to send digest: %w", err)
	}

	s.logger.Infof("Email sent to %s: %s", to, e.Subject)
	return nil
}
