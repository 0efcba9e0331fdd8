package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
)

// TelegramService sends operator notifications about storefront activity.
// It is best-effort: a missing token disables it and failures are logged,
// never surfaced to customers.
type TelegramService struct {
	botToken    string
	adminChatID string
}

// NewTelegramService creates a new TelegramService.
func NewTelegramService(botToken, adminChatID string) *TelegramService {
	return &TelegramService{
		botToken:    botToken,
		adminChatID: adminChatID,
	}
}

type telegramMessage struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

// SendMessage sends a message to the specified chat.
func (s *TelegramService) SendMessage(chatID, text string) error {
	if s.botToken == "" {
		return nil
	}

	url := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", s.botToken)

	msg := telegramMessage{
		ChatID:    chatID,
		Text:      text,
		ParseMode: "HTML",
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		log.Printf("[Telegram] Failed to send message: %v", err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("[Telegram] Unexpected status: %d", resp.StatusCode)
		return fmt.Errorf("telegram returned status %d", resp.StatusCode)
	}

	return nil
}

// OrderNotification contains order data for the operator message.
type OrderNotification struct {
	ShopName      string
	ProductName   string
	Qty           int
	CustomerName  string
	CustomerPhone string
}

// NotifyNewOrder tells the operator chat about a new storefront order.
func (s *TelegramService) NotifyNewOrder(order OrderNotification) error {
	if s.adminChatID == "" {
		return nil
	}

	message := fmt.Sprintf(`<b>New order</b>
<b>Shop:</b> %s
<b>Product:</b> %s x%d
<b>Customer:</b> %s
<b>Phone:</b> %s`,
		order.ShopName,
		order.ProductName,
		order.Qty,
		order.CustomerName,
		order.CustomerPhone,
	)

	return s.SendMessage(s.adminChatID, strings.TrimSpace(message))
}
