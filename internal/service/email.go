package service

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/carloszaep/my-prostore/internal/config"
	"github.com/carloszaep/my-prostore/internal/model"
)

type EmailService interface {
	SendPurchaseReceipt(toName, toEmail string, order *model.Order) error
	SendOrderShipped(toName, toEmail string, order *model.Order) error
	SendResetPassword(toEmail, resetURL string) error
	SendPasswordChanged(toName, toEmail string) error
}

type smtpEmailService struct {
	cfg config.SMTP
}

func NewEmailService(cfg config.SMTP) EmailService {
	return &smtpEmailService{cfg: cfg}
}

func (s *smtpEmailService) send(to, subject, htmlBody string) error {
	addr := s.cfg.Host + ":" + s.cfg.Port
	from := fmt.Sprintf("%s <%s>", s.cfg.SenderName, s.cfg.Sender)

	msg := "From: " + from + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\nContent-Type: text/html; charset=utf-8\r\n\r\n" +
		htmlBody

	// no auth for local mail catchers
	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	return smtp.SendMail(addr, auth, s.cfg.Sender, []string{to}, []byte(msg))
}

func (s *smtpEmailService) SendPurchaseReceipt(toName, toEmail string, order *model.Order) error {
	body, err := renderTemplate(receiptTemplate, map[string]interface{}{
		"Name":  toName,
		"Order": order,
	})
	if err != nil {
		return err
	}

	return s.send(toEmail, fmt.Sprintf("Your order %s has been received", order.ID), body)
}

func (s *smtpEmailService) SendOrderShipped(toName, toEmail string, order *model.Order) error {
	body, err := renderTemplate(shippedTemplate, map[string]interface{}{
		"Name":  toName,
		"Order": order,
	})
	if err != nil {
		return err
	}

	return s.send(toEmail, "Your order has been shipped", body)
}

func (s *smtpEmailService) SendResetPassword(toEmail, resetURL string) error {
	body, err := renderTemplate(resetPasswordTemplate, map[string]interface{}{
		"ResetURL": resetURL,
	})
	if err != nil {
		return err
	}

	return s.send(toEmail, "Reset your password", body)
}

func (s *smtpEmailService) SendPasswordChanged(toName, toEmail string) error {
	body, err := renderTemplate(passwordChangedTemplate, map[string]interface{}{
		"Name": toName,
	})
	if err != nil {
		return err
	}

	return s.send(toEmail, "Your password was changed", body)
}

func renderTemplate(tmpl string, data interface{}) (string, error) {
	t, err := template.New("email").Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("parse email template: %w", err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("execute email template: %w", err)
	}

	return buf.String(), nil
}

const receiptTemplate = `
<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2>Thanks for your purchase{{if .Name}}, {{.Name}}{{end}}!</h2>
  <p>Order <strong>{{.Order.ID}}</strong> has been received.</p>
  <table cellpadding="4">
    {{range .Order.Items}}
    <tr>
      <td>{{.Name}}{{if .Size}} ({{.Size}}){{end}}</td>
      <td>x{{.Qty}}</td>
      <td>${{.Price}}</td>
    </tr>
    {{end}}
  </table>
  <p>Items: ${{.Order.ItemsPrice}} &middot; Shipping: ${{.Order.ShippingPrice}} &middot; Tax: ${{.Order.TaxPrice}}</p>
  <p><strong>Total: ${{.Order.TotalPrice}}</strong></p>
</body>
</html>
`

const shippedTemplate = `
<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2>Good news{{if .Name}}, {{.Name}}{{end}}!</h2>
  <p>Your order <strong>{{.Order.ID}}</strong> is on its way.</p>
  {{if .Order.TrackingNumber}}<p>Tracking number: <strong>{{.Order.TrackingNumber}}</strong></p>{{end}}
  <p>Shipping to: {{.Order.ShippingAddress.FullName}}, {{.Order.ShippingAddress.StreetAddress}},
     {{.Order.ShippingAddress.City}} {{.Order.ShippingAddress.PostalCode}}, {{.Order.ShippingAddress.Country}}</p>
</body>
</html>
`

const resetPasswordTemplate = `
<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2>Reset your password</h2>
  <p>Click the link below to choose a new password. The link expires in one hour.</p>
  <p><a href="{{.ResetURL}}">Reset password</a></p>
  <p>If you did not request this, you can ignore this email.</p>
</body>
</html>
`

const passwordChangedTemplate = `
<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2>Password changed</h2>
  <p>Hi{{if .Name}} {{.Name}}{{end}}, your account password was just changed.</p>
  <p>If this wasn't you, reset your password immediately.</p>
</body>
</html>
`
