// Package telegram is a minimal Bot API client covering the calls the bot
// needs: long polling, messages, stickers, photo uploads and Stars invoices.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"
)

type Options struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

func NewClient(opts Options) *Client {
	base := strings.TrimRight(opts.BaseURL, "/")
	if base == "" {
		base = "https://api.telegram.org"
	}
	client := opts.HTTPClient
	if client == nil {
		// Long polling holds the connection open for the poll timeout, so
		// the client timeout has to exceed it.
		client = &http.Client{Timeout: 90 * time.Second}
	}
	return &Client{
		httpClient: client,
		baseURL:    base,
		token:      strings.TrimSpace(opts.Token),
	}
}

type apiResponse struct {
	OK          bool            `json:"ok"`
	Result      json.RawMessage `json:"result"`
	Description string          `json:"description"`
}

func (c *Client) call(ctx context.Context, method string, payload any, out any) error {
	if c == nil || c.token == "" {
		return errors.New("telegram: client not configured")
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	endpoint := fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("telegram: %s: %w", method, err)
	}
	defer resp.Body.Close()
	return decodeResponse(method, resp.Body, out)
}

func decodeResponse(method string, body io.Reader, out any) error {
	var wrapped apiResponse
	if err := json.NewDecoder(body).Decode(&wrapped); err != nil {
		return fmt.Errorf("telegram: %s: decode: %w", method, err)
	}
	if !wrapped.OK {
		return fmt.Errorf("telegram: %s: %s", method, wrapped.Description)
	}
	if out != nil {
		if err := json.Unmarshal(wrapped.Result, out); err != nil {
			return fmt.Errorf("telegram: %s: decode result: %w", method, err)
		}
	}
	return nil
}

// GetUpdates long-polls for new updates past the given offset.
func (c *Client) GetUpdates(ctx context.Context, offset int64, timeout time.Duration) ([]Update, error) {
	payload := map[string]any{
		"offset":          offset,
		"timeout":         int(timeout.Seconds()),
		"allowed_updates": []string{"message", "pre_checkout_query"},
	}
	var updates []Update
	if err := c.call(ctx, "getUpdates", payload, &updates); err != nil {
		return nil, err
	}
	return updates, nil
}

func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) error {
	return c.call(ctx, "sendMessage", map[string]any{"chat_id": chatID, "text": text}, nil)
}

func (c *Client) SendSticker(ctx context.Context, chatID int64, sticker, effectID string) error {
	payload := map[string]any{"chat_id": chatID, "sticker": sticker}
	if effectID != "" {
		payload["message_effect_id"] = effectID
	}
	return c.call(ctx, "sendSticker", payload, nil)
}

// SendPhotoURL delivers a photo by remote URL.
func (c *Client) SendPhotoURL(ctx context.Context, chatID int64, url, caption, effectID string) error {
	payload := map[string]any{"chat_id": chatID, "photo": url, "caption": caption}
	if effectID != "" {
		payload["message_effect_id"] = effectID
	}
	return c.call(ctx, "sendPhoto", payload, nil)
}

// SendPhotoUpload delivers photo bytes as a multipart upload.
func (c *Client) SendPhotoUpload(ctx context.Context, chatID int64, filename string, data []byte, caption, effectID string) error {
	if c == nil || c.token == "" {
		return errors.New("telegram: client not configured")
	}
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	_ = writer.WriteField("chat_id", strconv.FormatInt(chatID, 10))
	if caption != "" {
		_ = writer.WriteField("caption", caption)
	}
	if effectID != "" {
		_ = writer.WriteField("message_effect_id", effectID)
	}
	part, err := writer.CreateFormFile("photo", filename)
	if err != nil {
		return err
	}
	if _, err := part.Write(data); err != nil {
		return err
	}
	if err := writer.Close(); err != nil {
		return err
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendPhoto", c.baseURL, c.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("telegram: sendPhoto: %w", err)
	}
	defer resp.Body.Close()
	return decodeResponse("sendPhoto", resp.Body, nil)
}

// SendInvoice issues a Telegram Stars invoice. Stars invoices use the XTR
// currency and an empty provider token.
func (c *Client) SendInvoice(ctx context.Context, chatID int64, title, description, payload string, amount int64, effectID string) error {
	body := map[string]any{
		"chat_id":        chatID,
		"title":          title,
		"description":    description,
		"payload":        payload,
		"provider_token": "",
		"currency":       "XTR",
		"prices":         []LabeledPrice{{Label: title, Amount: amount}},
	}
	if effectID != "" {
		body["message_effect_id"] = effectID
	}
	return c.call(ctx, "sendInvoice", body, nil)
}

func (c *Client) AnswerPreCheckoutQuery(ctx context.Context, queryID string, ok bool) error {
	return c.call(ctx, "answerPreCheckoutQuery", map[string]any{"pre_checkout_query_id": queryID, "ok": ok}, nil)
}

func (c *Client) GetFile(ctx context.Context, fileID string) (*File, error) {
	var file File
	if err := c.call(ctx, "getFile", map[string]any{"file_id": fileID}, &file); err != nil {
		return nil, err
	}
	return &file, nil
}

// FileURL builds the download URL for a file path returned by GetFile.
func (c *Client) FileURL(filePath string) string {
	return fmt.Sprintf("%s/file/bot%s/%s", c.baseURL, c.token, filePath)
}
