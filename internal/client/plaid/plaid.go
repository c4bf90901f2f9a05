package plaid

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

const (
	requestTimeout = 30 * time.Second

	dateLayout = "2006-01-02"
)

// Client - клиент Plaid API (link tokens, exchange, accounts, transactions)
type Client struct {
	baseURL    string
	clientID   string
	secret     string
	httpClient *http.Client
}

func New(baseURL, clientID, secret string) *Client {
	return &Client{
		baseURL:  baseURL,
		clientID: clientID,
		secret:   secret,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

// Account - счет, как его возвращает провайдер
type Account struct {
	AccountID string `json:"account_id"`
	Name      string `json:"name"`
}

// Transaction - транзакция провайдера.
// Положительная сумма = расход, отрицательная = доход.
type Transaction struct {
	TransactionID string          `json:"transaction_id"`
	Amount        decimal.Decimal `json:"amount"`
	Name          string          `json:"name"`
	Category      []string        `json:"category"`
	Date          string          `json:"date"`
}

// ParsedDate разбирает дату транзакции
func (t Transaction) ParsedDate() (time.Time, error) {
	return time.Parse(dateLayout, t.Date)
}

type apiError struct {
	ErrorType    string `json:"error_type"`
	ErrorCode    string `json:"error_code"`
	ErrorMessage string `json:"error_message"`
}

func (c *Client) CreateLinkToken(ctx context.Context, userID int64) (string, error) {
	req := map[string]any{
		"client_id": c.clientID,
		"secret":    c.secret,
		"user": map[string]string{
			"client_user_id": fmt.Sprintf("%d", userID),
		},
		"client_name":   "FinanceFlow App",
		"products":      []string{"transactions"},
		"country_codes": []string{"US"},
		"language":      "en",
	}

	var resp struct {
		LinkToken string `json:"link_token"`
	}
	if err := c.post(ctx, "/link/token/create", req, &resp); err != nil {
		return "", fmt.Errorf("failed to create link token: %w", err)
	}

	return resp.LinkToken, nil
}

// ExchangePublicToken обменивает одноразовый public token на постоянный access token
func (c *Client) ExchangePublicToken(ctx context.Context, publicToken string) (string, string, error) {
	req := map[string]any{
		"client_id":    c.clientID,
		"secret":       c.secret,
		"public_token": publicToken,
	}

	var resp struct {
		AccessToken string `json:"access_token"`
		ItemID      string `json:"item_id"`
	}
	if err := c.post(ctx, "/item/public_token/exchange", req, &resp); err != nil {
		return "", "", fmt.Errorf("failed to exchange public token: %w", err)
	}

	return resp.AccessToken, resp.ItemID, nil
}

func (c *Client) GetAccounts(ctx context.Context, accessToken string) ([]Account, error) {
	req := map[string]any{
		"client_id":    c.clientID,
		"secret":       c.secret,
		"access_token": accessToken,
	}

	var resp struct {
		Accounts []Account `json:"accounts"`
	}
	if err := c.post(ctx, "/accounts/get", req, &resp); err != nil {
		return nil, fmt.Errorf("failed to get accounts: %w", err)
	}

	return resp.Accounts, nil
}

// GetTransactions возвращает одну страницу транзакций за период (count <= 500)
func (c *Client) GetTransactions(ctx context.Context, accessToken string, startDate, endDate time.Time, count int) ([]Transaction, error) {
	req := map[string]any{
		"client_id":    c.clientID,
		"secret":       c.secret,
		"access_token": accessToken,
		"start_date":   startDate.Format(dateLayout),
		"end_date":     endDate.Format(dateLayout),
		"options": map[string]any{
			"count":  count,
			"offset": 0,
		},
	}

	var resp struct {
		Transactions []Transaction `json:"transactions"`
	}
	if err := c.post(ctx, "/transactions/get", req, &resp); err != nil {
		return nil, fmt.Errorf("failed to get transactions: %w", err)
	}

	return resp.Transactions, nil
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return err
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return err
	}

	if httpResp.StatusCode != http.StatusOK {
		var apiErr apiError
		if err := json.Unmarshal(raw, &apiErr); err == nil && apiErr.ErrorCode != "" {
			return fmt.Errorf("plaid %s: %s (%s)", apiErr.ErrorType, apiErr.ErrorMessage, apiErr.ErrorCode)
		}
		return fmt.Errorf("plaid returned status %d", httpResp.StatusCode)
	}

	return json.Unmarshal(raw, out)
}
