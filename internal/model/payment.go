package model

// PaymentMethod is how a transaction was paid.
type PaymentMethod string

const (
	Dinheiro PaymentMethod = "DINHEIRO"
	Pix      PaymentMethod = "PIX"
	Credito  PaymentMethod = "CREDITO"
)

// PaymentMethods lists every payment method in display order.
var PaymentMethods = []PaymentMethod{Dinheiro, Pix, Credito}

// Label returns the user-facing name. Unknown keys render as themselves.
func (p PaymentMethod) Label() string {
	switch p {
	case Dinheiro:
		return "Dinheiro"
	case Pix:
		return "PIX"
	case Credito:
		return "Crédito"
	}
	return string(p)
}

// Valid reports whether p is one of the known payment methods.
func (p PaymentMethod) Valid() bool {
	switch p {
	case Dinheiro, Pix, Credito:
		return true
	}
	return false
}

// ParsePaymentMethod accepts a payment method key in any case.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	key := normalizeKey(s)
	for _, p := range PaymentMethods {
		if string(p) == key {
			return p, nil
		}
	}
	keys := make([]string, len(PaymentMethods))
	for i, p := range PaymentMethods {
		keys[i] = string(p)
	}
	return "", unknownKeyError("payment method", s, keys)
}
