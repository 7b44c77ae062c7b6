package notification

import (
	"fmt"
	"net/smtp"
	"strings"
)

// OrderConfirmation is the payload carried by an order.paid event; it holds
// everything the email needs so the consumer never touches the database.
type OrderConfirmation struct {
	OrderID       string              `json:"order_id"`
	CustomerName  string              `json:"customer_name"`
	CustomerEmail string              `json:"customer_email"`
	Items         []ConfirmationItem  `json:"items"`
	Address       ConfirmationAddress `json:"address"`
	Total         float64             `json:"total"`
}

type ConfirmationItem struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

type ConfirmationAddress struct {
	Street       string `json:"street"`
	Number       string `json:"number"`
	Complement   string `json:"complement,omitempty"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
	PostalCode   string `json:"postal_code"`
}

type Mailer interface {
	Send(to, subject, body string) error
}

type SMTPMailer struct {
	addr string
	from string
	auth smtp.Auth
}

func NewSMTPMailer(host, port, username, password, from string) *SMTPMailer {
	var auth smtp.Auth
	if username != "" {
		auth = smtp.PlainAuth("", username, password, host)
	}
	return &SMTPMailer{
		addr: host + ":" + port,
		from: from,
		auth: auth,
	}
}

func (m *SMTPMailer) Send(to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s",
		m.from, to, subject, body)
	if err := smtp.SendMail(m.addr, m.auth, m.from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}

// ComposeOrderConfirmation renders the confirmation subject and body:
// greeting, itemized lines, delivery address and total.
func ComposeOrderConfirmation(c OrderConfirmation) (subject, body string) {
	shortID := c.OrderID
	if len(shortID) > 8 {
		shortID = shortID[:8]
	}
	subject = fmt.Sprintf("Pedido Confirmado - HYPEX #%s", shortID)

	var b strings.Builder
	fmt.Fprintf(&b, "Olá, %s!\n\n", c.CustomerName)
	fmt.Fprintf(&b, "Seu pedido #%s foi confirmado.\n\n", shortID)
	b.WriteString("Itens:\n")
	for _, item := range c.Items {
		fmt.Fprintf(&b, "  %dx %s - R$ %.2f\n", item.Quantity, item.Name, item.Price*float64(item.Quantity))
	}
	b.WriteString("\nEndereço de entrega:\n")
	fmt.Fprintf(&b, "  %s, %s", c.Address.Street, c.Address.Number)
	if c.Address.Complement != "" {
		fmt.Fprintf(&b, " - %s", c.Address.Complement)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "  %s, %s - %s\n", c.Address.Neighborhood, c.Address.City, c.Address.State)
	fmt.Fprintf(&b, "  CEP %s\n", c.Address.PostalCode)
	fmt.Fprintf(&b, "\nTotal: R$ %.2f\n", c.Total)

	return subject, b.String()
}
