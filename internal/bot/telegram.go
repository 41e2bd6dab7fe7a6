package bot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// TelegramAPI is a minimal Bot API client: long-poll getUpdates plus
// sendMessage is all the command surface needs.
type TelegramAPI struct {
	base   string
	client *http.Client
}

// NewTelegramAPI builds a client whose HTTP timeout covers the long poll:
// the server must end a getUpdates call, never the client, so the client
// timeout is the poll timeout plus a margin.
func NewTelegramAPI(token, apiURL string, pollTimeout time.Duration) *TelegramAPI {
	if apiURL == "" {
		apiURL = "https://api.telegram.org"
	}
	if pollTimeout <= 0 {
		pollTimeout = 30 * time.Second
	}
	return &TelegramAPI{
		base:   fmt.Sprintf("%s/bot%s", apiURL, token),
		client: &http.Client{Timeout: pollTimeout + 10*time.Second},
	}
}

type Update struct {
	UpdateID int64    `json:"update_id"`
	Message  *Message `json:"message"`
}

type Message struct {
	Text string `json:"text"`
	Chat struct {
		ID int64 `json:"id"`
	} `json:"chat"`
	From struct {
		FirstName string `json:"first_name"`
	} `json:"from"`
}

type updatesResp struct {
	OK          bool     `json:"ok"`
	Description string   `json:"description"`
	Result      []Update `json:"result"`
}

// GetUpdates long-polls for updates past offset. The HTTP client timeout is
// sized above the poll timeout so the server, not the client, ends the poll.
func (t *TelegramAPI) GetUpdates(ctx context.Context, offset int64, timeout time.Duration) ([]Update, error) {
	q := url.Values{}
	q.Set("offset", strconv.FormatInt(offset, 10))
	q.Set("timeout", strconv.Itoa(int(timeout.Seconds())))
	endpoint := t.base + "/getUpdates?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := t.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("telegram: getUpdates status %d: %s", resp.StatusCode, string(b))
	}

	var ur updatesResp
	if err := json.NewDecoder(resp.Body).Decode(&ur); err != nil {
		return nil, err
	}
	if !ur.OK {
		return nil, fmt.Errorf("telegram: getUpdates not ok: %s", ur.Description)
	}
	return ur.Result, nil
}

// SendMessage posts a plain-text message to a chat.
func (t *TelegramAPI) SendMessage(ctx context.Context, chatID int64, text string) error {
	payload := map[string]any{
		"chat_id": chatID,
		"text":    text,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("telegram: marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.base+"/sendMessage", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("telegram: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("telegram: send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("telegram: unexpected status %d: %s", resp.StatusCode, string(respBody))
	}
	return nil
}
