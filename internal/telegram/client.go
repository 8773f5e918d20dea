// Package telegram is a thin client for the handful of Bot API methods the
// store needs: invoices, payment confirmations and webhook management.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/youcefmohamedelamine/telegram-bot/pkg/logger"
)

const defaultAPIURL = "https://api.telegram.org"

type Client struct {
	apiURL string
	token  string
	client *http.Client
}

func New(token string) *Client {
	return &Client{
		apiURL: defaultAPIURL,
		token:  token,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// NewWithAPIURL points the client at a non-default Bot API server. Tests use
// it with httptest servers.
func NewWithAPIURL(token, apiURL string) *Client {
	c := New(token)
	c.apiURL = apiURL

	return c
}

// LabeledPrice is one line of an invoice price breakdown. Amount is in the
// smallest currency unit.
type LabeledPrice struct {
	Label  string `json:"label"`
	Amount int64  `json:"amount"`
}

type Invoice struct {
	ChatID         string         `json:"chat_id"`
	Title          string         `json:"title"`
	Description    string         `json:"description"`
	Payload        string         `json:"payload"`
	ProviderToken  string         `json:"provider_token"`
	Currency       string         `json:"currency"`
	Prices         []LabeledPrice `json:"prices"`
	StartParameter string         `json:"start_parameter,omitempty"`
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

func (c *Client) SendMessage(ctx context.Context, chatID, text string) error {
	return c.call(ctx, "sendMessage", map[string]any{
		"chat_id": chatID,
		"text":    text,
	})
}

func (c *Client) SendInvoice(ctx context.Context, invoice Invoice) error {
	return c.call(ctx, "sendInvoice", invoice)
}

func (c *Client) AnswerPreCheckoutQuery(ctx context.Context, queryID string, ok bool) error {
	return c.call(ctx, "answerPreCheckoutQuery", map[string]any{
		"pre_checkout_query_id": queryID,
		"ok":                    ok,
	})
}

// SetWebhook registers webhookURL for updates. secret, when non-empty, is
// echoed back by Telegram in the X-Telegram-Bot-Api-Secret-Token header of
// every delivery.
func (c *Client) SetWebhook(ctx context.Context, webhookURL, secret string) error {
	return c.call(ctx, "setWebhook", map[string]any{
		"url":          webhookURL,
		"secret_token": secret,
	})
}

func (c *Client) DeleteWebhook(ctx context.Context) error {
	return c.call(ctx, "deleteWebhook", map[string]any{})
}

func (c *Client) call(ctx context.Context, method string, body any) error {
	baseURL, err := url.Parse(c.apiURL)
	if err != nil {
		return fmt.Errorf("error parsing API URL: %w", err)
	}

	baseURL = baseURL.JoinPath("bot"+c.token, method)

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("error encoding %s request: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL.String(), bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("error building %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	response, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("error calling %s: %w", method, err)
	}
	defer func(body io.ReadCloser) {
		err := body.Close()
		if err != nil {
			logger.Log.Error("error while closing response body", logger.Error(err))
			return
		}
	}(response.Body)

	var apiRes apiResponse
	if err = json.NewDecoder(response.Body).Decode(&apiRes); err != nil {
		return fmt.Errorf("error decoding %s response: %w", method, err)
	}

	if !apiRes.OK {
		return fmt.Errorf("%s rejected by Bot API: %s", method, apiRes.Description)
	}

	return nil
}
