package bank

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/geraldhq/bnpl-gateway/internal/config"
	"github.com/geraldhq/bnpl-gateway/internal/models"
	"github.com/sirupsen/logrus"
)

var (
	// ErrBankUnavailable covers timeouts, network failures and non-2xx
	// responses from the bank API. Never retried inside the gateway.
	ErrBankUnavailable = errors.New("bank service unavailable")

	// ErrMalformedData means the bank responded but the payload violates
	// the transaction schema.
	ErrMalformedData = errors.New("invalid transaction data from bank")
)

// Client fetches 90-day transaction history from the external bank API
type Client struct {
	baseURL string
	client  *http.Client
	log     *logrus.Logger
}

// NewClient initializes a new bank API client
func NewClient(cfg *config.Config, log *logrus.Logger) *Client {
	return &Client{
		baseURL: cfg.BankAPIBase,
		client: &http.Client{
			Timeout: cfg.HTTPTimeout,
		},
		log: log,
	}
}

// wire format of the bank feed; dates arrive as YYYY-MM-DD strings
type feedTransaction struct {
	TransactionID string `json:"transaction_id"`
	Date          string `json:"date"`
	AmountCents   int64  `json:"amount_cents"`
	Type          string `json:"type"`
	Description   string `json:"description"`
	Category      string `json:"category"`
	Merchant      string `json:"merchant"`
	BalanceCents  int64  `json:"balance_cents"`
	NSF           bool   `json:"nsf"`
}

type feedResponse struct {
	Transactions []feedTransaction `json:"transactions"`
}

// Transactions fetches the transaction history for a user, ordered as the
// bank reports it.
func (c *Client) Transactions(ctx context.Context, userID string) ([]models.Transaction, error) {
	endpoint := fmt.Sprintf("%s/bank/transactions?user_id=%s", c.baseURL, url.QueryEscape(userID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBankUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", ErrBankUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrBankUnavailable, err)
	}

	txns, err := parseTransactions(body)
	if err != nil {
		return nil, err
	}

	c.log.Debugf("Fetched %d transactions for user %s", len(txns), userID)
	return txns, nil
}

// parseTransactions validates the feed payload against the transaction schema
func parseTransactions(body []byte) ([]models.Transaction, error) {
	var feed feedResponse
	if err := json.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedData, err)
	}

	txns := make([]models.Transaction, 0, len(feed.Transactions))
	for _, ft := range feed.Transactions {
		if ft.TransactionID == "" {
			return nil, fmt.Errorf("%w: missing transaction_id", ErrMalformedData)
		}
		date, err := time.Parse("2006-01-02", ft.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: bad date %q", ErrMalformedData, ft.Date)
		}
		if ft.Type != models.TransactionCredit && ft.Type != models.TransactionDebit {
			return nil, fmt.Errorf("%w: unknown type %q", ErrMalformedData, ft.Type)
		}
		txns = append(txns, models.Transaction{
			ID:           ft.TransactionID,
			Date:         date,
			AmountCents:  ft.AmountCents,
			Type:         ft.Type,
			Description:  ft.Description,
			Category:     ft.Category,
			Merchant:     ft.Merchant,
			BalanceCents: ft.BalanceCents,
			NSF:          ft.NSF,
		})
	}
	return txns, nil
}
