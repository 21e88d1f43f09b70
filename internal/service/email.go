package service

import "net/smtp"

type EmailService interface{ Send(to, subject, body string) error }

type smtpEmail struct {
	host, port, from string
}

// NewEmailService returns an SMTP sender. With an empty host it becomes a
// no-op, which is how dev and test environments run.
func NewEmailService(host, port, from string) EmailService {
	return &smtpEmail{host: host, port: port, from: from}
}

func (s *smtpEmail) Send(to, subject, body string) error {
	if s.host == "" {
		return nil
	}
	addr := s.host + ":" + s.port

	msg := "From: " + s.from + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n" +
		body

	return smtp.SendMail(addr, nil, s.from, []string{to}, []byte(msg))
}
