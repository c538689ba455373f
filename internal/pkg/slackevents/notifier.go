package slackevents

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/primoteam/primotracker/internal/pkg/env"
)

const postMessageURL = "https://slack.com/api/chat.postMessage"

// Notifier posts confirmation messages back into the team channel via
// chat.postMessage. It is strictly best effort: entry creation never fails
// because a post did not go through.
type Notifier struct {
	token   string
	channel string
	client  *http.Client
}

// NewNotifierFromEnv reads SLACK_BOT_TOKEN and SLACK_CHANNEL. Either being
// empty leaves the notifier disabled.
func NewNotifierFromEnv() *Notifier {
	return &Notifier{
		token:   env.GetEnv("SLACK_BOT_TOKEN", ""),
		channel: env.GetEnv("SLACK_CHANNEL", ""),
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (n *Notifier) Enabled() bool {
	return n != nil && n.token != "" && n.channel != ""
}

type postMessageResponse struct {
	OK      bool   `json:"ok"`
	Channel string `json:"channel"`
	TS      string `json:"ts"`
	Error   string `json:"error"`
}

// PostMessage sends text to the configured channel and returns the posted
// message coordinate (channel, ts) Slack assigns to it.
func (n *Notifier) PostMessage(text string) (string, string, error) {
	if !n.Enabled() {
		return "", "", fmt.Errorf("slack notifier is not configured")
	}

	formData := url.Values{
		"channel": {n.channel},
		"text":    {text},
	}

	req, err := http.NewRequest(http.MethodPost, postMessageURL, strings.NewReader(formData.Encode()))
	if err != nil {
		return "", "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+n.token)

	resp, err := n.client.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("failed to send request to Slack API: %v", err)
	}
	defer resp.Body.Close()

	var response postMessageResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", "", fmt.Errorf("failed to decode Slack API response: %v", err)
	}
	if !response.OK {
		return "", "", fmt.Errorf("slack chat.postMessage failed: %s", response.Error)
	}

	return response.Channel, response.TS, nil
}

// AnnounceCount posts the running confirmation for an auto-counted sale.
func (n *Notifier) AnnounceCount(repName string, qty int) {
	if _, _, err := n.PostMessage(fmt.Sprintf("Counted %d sale(s) for %s :potable_water:", qty, repName)); err != nil {
		log.Warnf("slack announce failed: %v", err)
	}
}
