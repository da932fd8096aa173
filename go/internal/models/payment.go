package models

// PaymentMethod identifies how a wallet top-up was paid.
type PaymentMethod string

const (
	// PaymentMethodBank is a manual bank transfer.
	PaymentMethodBank PaymentMethod = "bank"

	// PaymentMethodBkash is a bKash mobile payment.
	PaymentMethodBkash PaymentMethod = "bkash"

	// PaymentMethodNagad is a Nagad mobile payment.
	PaymentMethodNagad PaymentMethod = "nagad"

	// PaymentMethodCard is a card payment.
	PaymentMethodCard PaymentMethod = "card"
)

// PaymentMethodConfig describes one accepted top-up channel.
type PaymentMethodConfig struct {
	Method      PaymentMethod `json:"method"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Active      bool          `json:"active"`
}

// PaymentMethods returns every known top-up channel.
func PaymentMethods() map[PaymentMethod]PaymentMethodConfig {
	return map[PaymentMethod]PaymentMethodConfig{
		PaymentMethodBank: {
			Method:      PaymentMethodBank,
			Name:        "Bank transfer",
			Description: "Manual transfer with reference number",
			Active:      true,
		},
		PaymentMethodBkash: {
			Method:      PaymentMethodBkash,
			Name:        "bKash",
			Description: "bKash mobile wallet",
			Active:      true,
		},
		PaymentMethodNagad: {
			Method:      PaymentMethodNagad,
			Name:        "Nagad",
			Description: "Nagad mobile wallet",
			Active:      true,
		},
		PaymentMethodCard: {
			Method:      PaymentMethodCard,
			Name:        "Card",
			Description: "Debit or credit card",
			Active:      false,
		},
	}
}

// ValidPaymentMethod reports whether method names an active channel.
func ValidPaymentMethod(method string) bool {
	config, ok := PaymentMethods()[PaymentMethod(method)]
	return ok && config.Active
}
