package utils

import (
	"errors"
	"fmt"
	"net/smtp"
	"os"
	"strings"
)

// SendEmail gửi mail dạng text qua SMTP (thông tin tài khoản nhân viên,
// link đặt lại mật khẩu). SMTP_HOST/SMTP_PORT mặc định là Gmail.
func SendEmail(to, subject, body string) error {
	from := os.Getenv("SMTP_EMAIL")
	pass := os.Getenv("SMTP_PASSWORD")
	if from == "" || pass == "" {
		return errors.New("SMTP_EMAIL hoặc SMTP_PASSWORD chưa cấu hình")
	}

	host := os.Getenv("SMTP_HOST")
	if host == "" {
		host = "smtp.gmail.com"
	}
	port := os.Getenv("SMTP_PORT")
	if port == "" {
		port = "587"
	}

	var msg strings.Builder
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	fmt.Fprintf(&msg, "From: %s\r\n", from)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("\r\n")
	msg.WriteString(body)

	auth := smtp.PlainAuth("", from, pass, host)
	if err := smtp.SendMail(host+":"+port, auth, from, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("gửi email thất bại: %w", err)
	}
	return nil
}
