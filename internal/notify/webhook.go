// Package notify posts order confirmations to an external automation
// webhook. The webhook forwards the confirmation (and its feedback link)
// to the customer by email, so delivery is best-effort: a failed post is
// logged and never fails the order.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const postTimeout = 10 * time.Second

// OrderItem is one purchased line in the confirmation payload.
type OrderItem struct {
	ProductName string `json:"product_name"`
	Quantity    int32  `json:"quantity"`
	Price       string `json:"price"`
	Subtotal    string `json:"subtotal"`
}

// OrderConfirmation is the payload posted to the webhook.
type OrderConfirmation struct {
	OrderID       uuid.UUID   `json:"order_id"`
	CustomerName  string      `json:"customer_name"`
	CustomerEmail string      `json:"customer_email"`
	PaymentMethod string      `json:"payment_method"`
	TotalAmount   string      `json:"total_amount"`
	AmountPaid    string      `json:"amount_paid"`
	ChangeAmount  string      `json:"change_amount"`
	Items         []OrderItem `json:"items"`
	FeedbackLink  string      `json:"feedback_link"`
}

// Webhook posts order confirmations. A zero URL disables posting.
type Webhook struct {
	url         string
	frontendURL string
	client      *http.Client
}

// NewWebhook creates a Webhook. frontendURL is used to build the feedback
// link included in each confirmation.
func NewWebhook(url, frontendURL string) *Webhook {
	return &Webhook{
		url:         url,
		frontendURL: frontendURL,
		client:      &http.Client{Timeout: postTimeout},
	}
}

// SendOrderConfirmation posts the confirmation in a background goroutine.
// Callers never wait on it and never see its errors.
func (w *Webhook) SendOrderConfirmation(conf OrderConfirmation) {
	if w.url == "" || conf.CustomerEmail == "" {
		return
	}
	conf.FeedbackLink = fmt.Sprintf("%s/feedback/%s", w.frontendURL, conf.OrderID)

	go func() {
		if err := w.post(conf); err != nil {
			log.Printf("ERROR: order confirmation webhook: %v", err)
		}
	}()
}

func (w *Webhook) post(conf OrderConfirmation) error {
	body, err := json.Marshal(conf)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), postTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("post: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
