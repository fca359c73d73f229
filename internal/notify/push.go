package notify

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const defaultPushBaseURL = "https://api.pushover.net/1"

// PushClient talks to an out-of-process push delivery gateway. Besides
// immediate delivery it supports scheduling a message for a future instant
// and cancelling a not-yet-delivered schedule by its opaque id, which the
// scheduler uses when the notification mode changes.
type PushClient struct {
	httpClient *http.Client
	// BaseURL is the gateway base URL. Exported for testing with httptest.
	BaseURL string
	Token   string
	User    string
}

// NewPushClient creates a push client with sensible defaults.
func NewPushClient(token, user string) *PushClient {
	return &PushClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		BaseURL:    defaultPushBaseURL,
		Token:      token,
		User:       user,
	}
}

// Show sends a message immediately. Fire-and-forget: delivery failures are
// logged and swallowed so a gateway outage never breaks the tick loop.
func (c *PushClient) Show(title, body string) {
	if err := c.send("/messages.json", title, body, nil); err != nil {
		log.Error().Err(err).Str("title", title).Msg("push delivery failed")
	}
}

// Schedule asks the gateway to deliver a message at a future instant and
// returns the opaque schedule id for later cancellation.
func (c *PushClient) Schedule(at time.Time, title, body string) (string, error) {
	id := uuid.NewString()
	extra := url.Values{}
	extra.Set("id", id)
	extra.Set("timestamp", strconv.FormatInt(at.Unix(), 10))

	if err := c.send("/schedules.json", title, body, extra); err != nil {
		return "", err
	}
	return id, nil
}

// Cancel removes a pending scheduled delivery. Cancelling an id the gateway
// has already delivered or forgotten is not an error.
func (c *PushClient) Cancel(id string) error {
	req, err := http.NewRequest(http.MethodDelete,
		fmt.Sprintf("%s/schedules/%s.json?token=%s", c.BaseURL, url.PathEscape(id), url.QueryEscape(c.Token)), nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("push cancel failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNotFound {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("push gateway returned status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

func (c *PushClient) send(path, title, body string, extra url.Values) error {
	params := url.Values{}
	params.Set("token", c.Token)
	params.Set("user", c.User)
	params.Set("title", title)
	params.Set("message", body)
	for k, vs := range extra {
		for _, v := range vs {
			params.Add(k, v)
		}
	}

	resp, err := c.httpClient.PostForm(c.BaseURL+path, params)
	if err != nil {
		return fmt.Errorf("push request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("push gateway returned status %d: %s", resp.StatusCode, string(respBody))
	}
	return nil
}
