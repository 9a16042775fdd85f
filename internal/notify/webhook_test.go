package notify

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestSendOrderConfirmation(t *testing.T) {
	received := make(chan OrderConfirmation, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method: got %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type: got %s", ct)
		}
		var conf OrderConfirmation
		if err := json.NewDecoder(r.Body).Decode(&conf); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		received <- conf
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	orderID := uuid.New()
	wh := NewWebhook(srv.URL, "https://snackhub.example.com")
	wh.SendOrderConfirmation(OrderConfirmation{
		OrderID:       orderID,
		CustomerName:  "Juan Dela Cruz",
		CustomerEmail: "juan@example.com",
		PaymentMethod: "cash",
		TotalAmount:   "112.00",
		AmountPaid:    "150.00",
		ChangeAmount:  "38.00",
		Items: []OrderItem{
			{ProductName: "Cheese Burger", Quantity: 2, Price: "50.00", Subtotal: "100.00"},
		},
	})

	select {
	case conf := <-received:
		if conf.CustomerEmail != "juan@example.com" {
			t.Errorf("customer email: got %s", conf.CustomerEmail)
		}
		wantLink := "https://snackhub.example.com/feedback/" + orderID.String()
		if conf.FeedbackLink != wantLink {
			t.Errorf("feedback link: got %s, want %s", conf.FeedbackLink, wantLink)
		}
		if len(conf.Items) != 1 || conf.Items[0].ProductName != "Cheese Burger" {
			t.Errorf("items: got %+v", conf.Items)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("webhook was not called")
	}
}

func TestSendOrderConfirmationSkipsWithoutEmail(t *testing.T) {
	called := make(chan struct{}, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called <- struct{}{}
	}))
	defer srv.Close()

	wh := NewWebhook(srv.URL, "https://snackhub.example.com")
	wh.SendOrderConfirmation(OrderConfirmation{OrderID: uuid.New()})

	select {
	case <-called:
		t.Fatal("webhook called for order without customer email")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestSendOrderConfirmationSkipsWithoutURL(t *testing.T) {
	wh := NewWebhook("", "https://snackhub.example.com")
	// Must be a no-op, not a panic or a hang.
	wh.SendOrderConfirmation(OrderConfirmation{
		OrderID:       uuid.New(),
		CustomerEmail: "juan@example.com",
	})
}

func TestPostReportsErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	wh := NewWebhook(srv.URL, "https://snackhub.example.com")
	err := wh.post(OrderConfirmation{OrderID: uuid.New(), CustomerEmail: "x@example.com"})
	if err == nil || !strings.Contains(err.Error(), "500") {
		t.Fatalf("expected status error, got %v", err)
	}
}
