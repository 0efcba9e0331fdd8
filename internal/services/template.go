package services

import (
	"encoding/json"
	"net/url"
	"strconv"
	"strings"
)

// DefaultOrderTemplate is used when a shop has not configured its own
// WhatsApp message template.
const DefaultOrderTemplate = "Hi! I would like to order:\nProduct: {{product_name}}\nQuantity: {{qty}}\nPrice: {{price}}\n\nCustomer: {{customer_name}}\nPhone: {{customer_phone}}\nAddress: {{customer_address}}\nNote: {{note}}"

// OrderMessageData carries the substitution values for an order template.
type OrderMessageData struct {
	ProductName     string
	Qty             int
	Price           float64
	CustomerName    string
	CustomerPhone   string
	CustomerAddress string
	Note            string
	SelectedOptions map[string]string
}

// RenderOrderMessage performs literal placeholder substitution on an
// operator-authored template. Placeholders not in the substitution set are
// left verbatim; this is string replacement, not template evaluation.
// Selected options, if any, are appended as a JSON suffix line.
func RenderOrderMessage(template string, d OrderMessageData) string {
	if template == "" {
		template = DefaultOrderTemplate
	}

	replacer := strings.NewReplacer(
		"{{product_name}}", d.ProductName,
		"{{qty}}", strconv.Itoa(d.Qty),
		"{{price}}", strconv.FormatFloat(d.Price, 'f', -1, 64),
		"{{customer_name}}", d.CustomerName,
		"{{customer_phone}}", d.CustomerPhone,
		"{{customer_address}}", d.CustomerAddress,
		"{{note}}", d.Note,
	)
	msg := replacer.Replace(template)

	if len(d.SelectedOptions) > 0 {
		opts, err := json.Marshal(d.SelectedOptions)
		if err == nil {
			msg += "\nOptions: " + string(opts)
		}
	}

	return msg
}

// BuildWaLink percent-encodes a message into a wa.me deep link for the
// given phone number. Non-digit characters are stripped from the phone.
func BuildWaLink(phoneE164, message string) string {
	var digits strings.Builder
	for _, r := range phoneE164 {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}

	// QueryEscape encodes spaces as '+', which WhatsApp renders literally.
	text := strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
	return "https://wa.me/" + digits.String() + "?text=" + text
}
