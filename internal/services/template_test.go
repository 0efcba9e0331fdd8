package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderOrderMessageSubstitutesPlaceholders(t *testing.T) {
	msg := RenderOrderMessage("Order: {{product_name}} x{{qty}} at {{price}}", OrderMessageData{
		ProductName: "Widget",
		Qty:         3,
		Price:       12.5,
	})
	assert.Equal(t, "Order: Widget x3 at 12.5", msg)
}

func TestRenderOrderMessageUsesDefaultTemplate(t *testing.T) {
	msg := RenderOrderMessage("", OrderMessageData{
		ProductName:   "Widget",
		Qty:           1,
		Price:         9,
		CustomerName:  "Alice",
		CustomerPhone: "+85620111222",
	})
	assert.Contains(t, msg, "Product: Widget")
	assert.Contains(t, msg, "Quantity: 1")
	assert.Contains(t, msg, "Customer: Alice")
	assert.NotContains(t, msg, "{{")
}

func TestRenderOrderMessageLeavesUnknownPlaceholders(t *testing.T) {
	msg := RenderOrderMessage("{{product_name}} {{discount}}", OrderMessageData{
		ProductName: "Widget",
	})
	assert.Equal(t, "Widget {{discount}}", msg)
}

func TestRenderOrderMessageAppendsOptions(t *testing.T) {
	msg := RenderOrderMessage("{{product_name}}", OrderMessageData{
		ProductName:     "Widget",
		SelectedOptions: map[string]string{"Size": "L"},
	})
	assert.Equal(t, "Widget\nOptions: {\"Size\":\"L\"}", msg)
}

func TestRenderOrderMessageIsNotATemplateLanguage(t *testing.T) {
	// Customer input containing placeholder syntax is substituted literally,
	// never re-expanded.
	msg := RenderOrderMessage("Name: {{customer_name}}", OrderMessageData{
		CustomerName: "{{price}}",
	})
	assert.Equal(t, "Name: {{price}}", msg)
}

func TestBuildWaLinkStripsPhoneFormatting(t *testing.T) {
	link := BuildWaLink("+856 20 111-222", "hi")
	assert.Equal(t, "https://wa.me/85620111222?text=hi", link)
}

func TestBuildWaLinkEncodesMessage(t *testing.T) {
	link := BuildWaLink("85620111222", "Hello world\nLine 2 & more")
	assert.True(t, strings.HasPrefix(link, "https://wa.me/85620111222?text="))
	assert.Contains(t, link, "Hello%20world%0ALine%202%20%26%20more")
	assert.NotContains(t, link, "+")
}
