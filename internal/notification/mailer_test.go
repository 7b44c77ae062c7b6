package notification

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComposeOrderConfirmation(t *testing.T) {
	subject, body := ComposeOrderConfirmation(OrderConfirmation{
		OrderID:       "a1b2c3d4-0000-0000-0000-000000000000",
		CustomerName:  "Ana",
		CustomerEmail: "ana@example.com",
		Items: []ConfirmationItem{
			{Name: "Tenis", Quantity: 2, Price: 75.00},
			{Name: "Bone", Quantity: 1, Price: 30.00},
		},
		Address: ConfirmationAddress{
			Street:       "Rua das Flores",
			Number:       "123",
			Complement:   "Apto 4",
			Neighborhood: "Centro",
			City:         "Sao Paulo",
			State:        "SP",
			PostalCode:   "01310-100",
		},
		Total: 180.00,
	})

	assert.Equal(t, "Pedido Confirmado - HYPEX #a1b2c3d4", subject)

	assert.Contains(t, body, "Olá, Ana!")
	assert.Contains(t, body, "pedido #a1b2c3d4")
	assert.Contains(t, body, "2x Tenis - R$ 150.00")
	assert.Contains(t, body, "1x Bone - R$ 30.00")
	assert.Contains(t, body, "Rua das Flores, 123 - Apto 4")
	assert.Contains(t, body, "Centro, Sao Paulo - SP")
	assert.Contains(t, body, "CEP 01310-100")
	assert.Contains(t, body, "Total: R$ 180.00")
}

func TestComposeOrderConfirmation_ShortIDAndNoComplement(t *testing.T) {
	subject, body := ComposeOrderConfirmation(OrderConfirmation{
		OrderID:      "abc",
		CustomerName: "Bruno",
		Address:      ConfirmationAddress{Street: "Av. Paulista", Number: "1000"},
	})

	assert.Equal(t, "Pedido Confirmado - HYPEX #abc", subject)
	assert.Contains(t, body, "Av. Paulista, 1000\n")
	assert.NotContains(t, body, " - \n")
}
