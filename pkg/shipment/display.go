package shipment

import "strings"

type Language string

const (
	LanguageFrench  Language = "fr"
	LanguageEnglish Language = "en"

	DefaultLanguage = LanguageFrench
)

// ParseLanguage falls back to the default language for anything unsupported
func ParseLanguage(value string) Language {
	switch Language(strings.ToLower(strings.TrimSpace(value))) {
	case LanguageEnglish:
		return LanguageEnglish
	case LanguageFrench:
		return LanguageFrench
	default:
		return DefaultLanguage
	}
}

func (l Language) dateLayout() string {
	if l == LanguageEnglish {
		return "01/02/2006"
	}
	return "02/01/2006"
}

var statusText = map[Language]map[string]string{
	LanguageFrench: {
		StatusPreTransit:     "Pré-transit",
		StatusInTransit:      "En transit",
		StatusOutForDelivery: "En cours de livraison",
		StatusDelivered:      "Livré",
		StatusReturned:       "Retourné",
	},
	LanguageEnglish: {
		StatusPreTransit:     "Pre-transit",
		StatusInTransit:      "In transit",
		StatusOutForDelivery: "Out for delivery",
		StatusDelivered:      "Delivered",
		StatusReturned:       "Returned",
	},
}

var shippingModeText = map[Language]map[string]string{
	LanguageFrench: {
		"land": "Transport terrestre",
		"air":  "Transport aérien",
		"sea":  "Transport maritime",
	},
	LanguageEnglish: {
		"land": "Land freight",
		"air":  "Air freight",
		"sea":  "Sea freight",
	},
}

var paymentModeText = map[Language]map[string]string{
	LanguageFrench: {
		"bacs":        "BACS",
		"credit_card": "Carte de crédit",
		"paypal":      "PayPal",
	},
	LanguageEnglish: {
		"bacs":        "BACS",
		"credit_card": "Credit card",
		"paypal":      "PayPal",
	},
}

func lookupText(table map[Language]map[string]string, lang Language, code string) string {
	if text, ok := table[ParseLanguage(string(lang))][code]; ok {
		return text
	}
	return code
}

// StatusText is the human readable shipment status, unknown codes are returned as is
func StatusText(status string, lang Language) string {
	return lookupText(statusText, lang, status)
}

func ShippingModeText(mode string, lang Language) string {
	return lookupText(shippingModeText, lang, mode)
}

func PaymentModeText(mode string, lang Language) string {
	return lookupText(paymentModeText, lang, mode)
}

// Labels groups the translated texts shown next to a shipment
type Labels struct {
	Status       string `json:"status"`
	ShippingMode string `json:"shipping_mode,omitempty"`
	PaymentMode  string `json:"payment_mode,omitempty"`
}

func (s *Shipment) Labels(lang Language) Labels {
	return Labels{
		Status:       StatusText(s.Status, lang),
		ShippingMode: ShippingModeText(s.ShippingMode, lang),
		PaymentMode:  PaymentModeText(s.PaymentMode, lang),
	}
}
