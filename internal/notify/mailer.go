// Package notify 外发邮件。核心流程对它只有"尽力而为"的要求：
// 发送失败记日志，绝不回滚已提交的状态变更。
package notify

import (
	"bytes"
	"fmt"
	"net/smtp"

	"go.uber.org/zap"

	"pg-hostel-api/internal/core/config"
)

type Mailer interface {
	SendOTPEmail(name, email, code string) error
	SendPasswordResetEmail(name, email, token, baseURL string) error
}

type SMTPMailer struct {
	cfg config.Mail
	log *zap.Logger
}

func NewSMTPMailer(cfg config.Mail, log *zap.Logger) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, log: log}
}

func (m *SMTPMailer) SendOTPEmail(name, email, code string) error {
	body, err := renderOTP(name, code)
	if err != nil {
		return fmt.Errorf("render otp mail: %w", err)
	}
	return m.send(email, "OTP Verification", body)
}

func (m *SMTPMailer) SendPasswordResetEmail(name, email, token, baseURL string) error {
	body, err := renderReset(name, token, baseURL)
	if err != nil {
		return fmt.Errorf("render reset mail: %w", err)
	}
	return m.send(email, "Password Reset Request", body)
}

func (m *SMTPMailer) send(recipient, subject string, body []byte) error {
	if !m.cfg.Enabled {
		m.log.Debug("mail disabled, dropping message",
			zap.String("to", recipient), zap.String("subject", subject))
		return nil
	}
	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)

	var msg bytes.Buffer
	fmt.Fprintf(&msg, "From: %s <%s>\r\n", m.cfg.FromName, m.cfg.From)
	fmt.Fprintf(&msg, "To: %s\r\n", recipient)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n\r\n")
	msg.Write(body)
	msg.WriteString("\r\n")

	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{recipient}, msg.Bytes()); err != nil {
		return fmt.Errorf("smtp send to %s: %w", recipient, err)
	}
	return nil
}
