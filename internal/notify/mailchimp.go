package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// MailchimpClient delivers the rendered newsletter as an email campaign.
// The flow is the minimal three calls: create campaign, set content, send.
type MailchimpClient struct {
	apiKey     string
	listID     string
	fromName   string
	replyTo    string
	httpClient *http.Client
	baseURL    string // overridable for testing; derived from the key's datacenter suffix
	enabled    bool
}

// NewMailchimpClient creates a client. Delivery is enabled only when both
// apiKey and listID are non-empty. Mailchimp keys embed their datacenter
// after a dash ("xxxx-us21"); the API host follows from it.
func NewMailchimpClient(apiKey, listID, fromName, replyTo string) *MailchimpClient {
	c := &MailchimpClient{
		apiKey:     apiKey,
		listID:     listID,
		fromName:   fromName,
		replyTo:    replyTo,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		enabled:    apiKey != "" && listID != "",
	}
	if i := strings.LastIndex(apiKey, "-"); i >= 0 && i < len(apiKey)-1 {
		c.baseURL = fmt.Sprintf("https://%s.api.mailchimp.com/3.0", apiKey[i+1:])
	}
	return c
}

// Enabled reports whether the client is active.
func (c *MailchimpClient) Enabled() bool { return c.enabled }

// SendCampaign creates a campaign for the configured list, attaches the
// rendered HTML, and sends it. Returns the campaign ID.
func (c *MailchimpClient) SendCampaign(ctx context.Context, subject, html string) (string, error) {
	if !c.enabled {
		return "", nil
	}

	create := map[string]any{
		"type": "regular",
		"recipients": map[string]string{
			"list_id": c.listID,
		},
		"settings": map[string]string{
			"subject_line": subject,
			"from_name":    c.fromName,
			"reply_to":     c.replyTo,
		},
	}
	var created struct {
		ID string `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, "/campaigns", create, &created); err != nil {
		return "", fmt.Errorf("create campaign: %w", err)
	}
	if created.ID == "" {
		return "", fmt.Errorf("create campaign: empty campaign id")
	}

	content := map[string]string{"html": html}
	if err := c.do(ctx, http.MethodPut, "/campaigns/"+created.ID+"/content", content, nil); err != nil {
		return "", fmt.Errorf("set campaign content: %w", err)
	}

	if err := c.do(ctx, http.MethodPost, "/campaigns/"+created.ID+"/actions/send", nil, nil); err != nil {
		return "", fmt.Errorf("send campaign: %w", err)
	}
	return created.ID, nil
}

func (c *MailchimpClient) do(ctx context.Context, method, path string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.SetBasicAuth("anystring", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Detail string `json:"detail"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return fmt.Errorf("mailchimp %d: %s", resp.StatusCode, apiErr.Detail)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
