package utils

import (
	"fmt"

	gomail "gopkg.in/gomail.v2"
)

type MailerInterface interface {
	SendVerificationCode(to, code string) error
}

type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewMailer(host string, port int, username, password, from string) MailerInterface {
	return &Mailer{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

// SendVerificationCode delivers a one-time code to the given address.
func (m *Mailer) SendVerificationCode(to, code string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "[달러 투자 도우미] 이메일 인증번호")
	msg.SetBody("text/plain", fmt.Sprintf("인증번호: %s\n\n10분 안에 입력해 주세요.", code))

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send verification email: %w", err)
	}
	return nil
}
