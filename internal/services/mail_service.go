package services

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"html/template"
	"mime"
	"net"
	"net/smtp"
	"strings"
	texttemplate "text/template"
	"time"

	"linkbio/internal/config"
)

type IMailService interface {
	SendVerificationCode(ctx context.Context, to, name, code string) error
}

type smtpMailService struct {
	cfg     config.SMTPConfig
	appName string
	html    *template.Template
	text    *texttemplate.Template
}

func NewSMTPMailService(cfg config.Config) IMailService {
	return &smtpMailService{
		cfg:     cfg.SMTP,
		appName: cfg.AppName,
		html:    template.Must(template.New("codeHTML").Parse(codeHTMLTemplate)),
		text:    texttemplate.Must(texttemplate.New("codeText").Parse(codeTextTemplate)),
	}
}

type codeEmail struct {
	AppName string
	Name    string
	Code    string
	Minutes int
	Year    int
}

const codeHTMLTemplate = `<!doctype html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width,initial-scale=1">
  <title>{{.AppName}}</title>
  <style>
    body { margin: 0; padding: 0; background: #0f172a; font-family: -apple-system, "Segoe UI", Roboto, Arial, sans-serif; }
    .container { max-width: 560px; margin: 40px auto; background: #1e293b; border-radius: 16px; overflow: hidden; }
    .header { padding: 28px 32px; border-bottom: 1px solid rgba(148, 163, 184, 0.1); color: #60a5fa; font-weight: 700; font-size: 20px; }
    .hero { padding: 32px; color: #cbd5e1; line-height: 1.7; }
    .code { margin: 24px 0; font-size: 36px; letter-spacing: 10px; font-weight: 700; color: #f1f5f9; text-align: center; }
    .footer { padding: 20px 32px; color: #64748b; font-size: 13px; text-align: center; background: #1a2332; }
  </style>
</head>
<body>
  <div class="container">
    <div class="header">{{.AppName}}</div>
    <div class="hero">
      <p>Olá{{if .Name}}, {{.Name}}{{end}}!</p>
      <p>Use o código abaixo para verificar seu e-mail. Ele expira em {{.Minutes}} minutos.</p>
      <div class="code">{{.Code}}</div>
      <p>Se você não solicitou este código, ignore este e-mail.</p>
    </div>
    <div class="footer">© {{.Year}} {{.AppName}}</div>
  </div>
</body>
</html>`

const codeTextTemplate = `Olá{{if .Name}}, {{.Name}}{{end}}!

Seu código de verificação: {{.Code}}
Ele expira em {{.Minutes}} minutos.

{{.AppName}} (c) {{.Year}}
`

func (s *smtpMailService) SendVerificationCode(ctx context.Context, to, name, code string) error {
	data := codeEmail{
		AppName: s.appName,
		Name:    name,
		Code:    code,
		Minutes: int(verificationCodeTTL / time.Minute),
		Year:    time.Now().Year(),
	}

	var hb, tb bytes.Buffer
	if err := s.html.Execute(&hb, data); err != nil {
		return err
	}
	if err := s.text.Execute(&tb, data); err != nil {
		return err
	}

	subject := fmt.Sprintf("%s é seu código de verificação", code)
	return s.send(ctx, to, subject, hb.String(), tb.String())
}

func (s *smtpMailService) buildMessage(to, subject, htmlBody, textBody string) []byte {
	boundary := fmt.Sprintf("alt_%d", time.Now().UnixNano())

	var msg bytes.Buffer
	write := func(format string, a ...any) { _, _ = fmt.Fprintf(&msg, format, a...) }

	write("From: %s\r\n", s.fromHeader())
	write("To: %s\r\n", to)
	write("Subject: %s\r\n", mime.BEncoding.Encode("UTF-8", subject))
	write("Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	write("MIME-Version: 1.0\r\n")
	write("Content-Type: multipart/alternative; boundary=%q\r\n\r\n", boundary)

	write("--%s\r\n", boundary)
	write("Content-Type: text/plain; charset=UTF-8\r\n")
	write("Content-Transfer-Encoding: 8bit\r\n\r\n")
	write("%s\r\n\r\n", textBody)

	write("--%s\r\n", boundary)
	write("Content-Type: text/html; charset=UTF-8\r\n")
	write("Content-Transfer-Encoding: 8bit\r\n\r\n")
	write("%s\r\n\r\n", htmlBody)

	write("--%s--\r\n", boundary)
	return msg.Bytes()
}

func (s *smtpMailService) send(ctx context.Context, to, subject, htmlBody, textBody string) error {
	if s.cfg.Host == "" || s.cfg.From == "" {
		return fmt.Errorf("smtp not configured")
	}

	msg := s.buildMessage(to, subject, htmlBody, textBody)
	addr := net.JoinHostPort(s.cfg.Host, fmt.Sprint(s.cfg.Port))
	tlsCfg := &tls.Config{ServerName: s.cfg.Host, MinVersion: tls.VersionTLS12}

	dialer := &net.Dialer{Timeout: 10 * time.Second}
	var conn net.Conn
	var err error
	if s.cfg.UseSSL {
		conn, err = tls.DialWithDialer(dialer, "tcp", addr, tlsCfg)
	} else {
		conn, err = dialer.DialContext(ctx, "tcp", addr)
	}
	if err != nil {
		return err
	}
	defer conn.Close()
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	c, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		return err
	}
	defer c.Quit()

	if !s.cfg.UseSSL {
		if ok, _ := c.Extension("STARTTLS"); ok {
			if err = c.StartTLS(tlsCfg); err != nil {
				return err
			}
		} else if s.cfg.RequireTLS {
			return fmt.Errorf("server does not support STARTTLS and RequireTLS=true")
		}
	}

	if s.cfg.Username != "" {
		if err = c.Auth(smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)); err != nil {
			return err
		}
	}
	if err = c.Mail(s.cfg.From); err != nil {
		return err
	}
	if err = c.Rcpt(to); err != nil {
		return err
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err = w.Write(msg); err != nil {
		return err
	}
	return w.Close()
}

func (s *smtpMailService) fromHeader() string {
	name := strings.TrimSpace(s.cfg.FromName)
	if name == "" {
		return s.cfg.From
	}
	return fmt.Sprintf("%s <%s>", mime.QEncoding.Encode("UTF-8", name), s.cfg.From)
}
