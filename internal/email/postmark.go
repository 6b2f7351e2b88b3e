package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"net/http"

	"github.com/dukerupert/coursehub/internal/model"
)

const postmarkURL = "https://api.postmarkapp.com/email"

// Client sends admin notifications through Postmark.
type Client struct {
	serverToken string
	fromEmail   string
	notifyEmail string
	baseURL     string
	httpClient  *http.Client
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

func NewClient(serverToken, fromEmail, notifyEmail, baseURL string, opts ...Option) *Client {
	c := &Client{
		serverToken: serverToken,
		fromEmail:   fromEmail,
		notifyEmail: notifyEmail,
		baseURL:     baseURL,
		httpClient:  http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configured returns true if the server token and a recipient are set.
func (c *Client) Configured() bool {
	return c.serverToken != "" && c.notifyEmail != ""
}

type postmarkEmail struct {
	From     string `json:"From"`
	To       string `json:"To"`
	Subject  string `json:"Subject"`
	HtmlBody string `json:"HtmlBody"`
	TextBody string `json:"TextBody"`
	ReplyTo  string `json:"ReplyTo,omitempty"`
}

// NotifyEnrollment tells the admin about a new enrollment request.
func (c *Client) NotifyEnrollment(ctx context.Context, e model.Enrollment) error {
	link := fmt.Sprintf("%s/admin/enrollments", c.baseURL)
	rows := [][2]string{
		{"Course", e.CourseSlug},
		{"Name", e.Name},
		{"Email", e.Email},
		{"Phone", e.Phone},
		{"Message", e.Message},
	}
	return c.send(ctx, postmarkEmail{
		Subject:  fmt.Sprintf("New enrollment: %s for %s", e.Name, e.CourseSlug),
		TextBody: textBody(rows, link),
		HtmlBody: htmlBody(rows, link),
		ReplyTo:  e.Email,
	})
}

// NotifyDemoBooking tells the admin about a new demo booking.
func (c *Client) NotifyDemoBooking(ctx context.Context, b model.DemoBooking) error {
	link := fmt.Sprintf("%s/admin/demo-bookings", c.baseURL)
	rows := [][2]string{
		{"Name", b.Name},
		{"Email", b.Email},
		{"Phone", b.Phone},
		{"Company", b.Company},
		{"Preferred date", b.PreferredDate},
		{"Notes", b.Notes},
	}
	return c.send(ctx, postmarkEmail{
		Subject:  fmt.Sprintf("New demo booking: %s", b.Name),
		TextBody: textBody(rows, link),
		HtmlBody: htmlBody(rows, link),
		ReplyTo:  b.Email,
	})
}

func (c *Client) send(ctx context.Context, payload postmarkEmail) error {
	if !c.Configured() {
		return fmt.Errorf("email client not configured: missing server token or recipient")
	}
	payload.From = c.fromEmail
	payload.To = c.notifyEmail

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal email: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", postmarkURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Postmark-Server-Token", c.serverToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("postmark API error: status %d", resp.StatusCode)
	}

	return nil
}

func textBody(rows [][2]string, link string) string {
	var b bytes.Buffer
	for _, r := range rows {
		if r[1] == "" {
			continue
		}
		fmt.Fprintf(&b, "%s: %s\n", r[0], r[1])
	}
	fmt.Fprintf(&b, "\nReview it in the admin panel:\n%s\n", link)
	return b.String()
}

func htmlBody(rows [][2]string, link string) string {
	var b bytes.Buffer
	b.WriteString("<table>")
	for _, r := range rows {
		if r[1] == "" {
			continue
		}
		fmt.Fprintf(&b, "<tr><th align=\"left\">%s</th><td>%s</td></tr>", r[0], html.EscapeString(r[1]))
	}
	fmt.Fprintf(&b, `</table><p><a href="%s">Open the admin panel</a></p>`, link)
	return b.String()
}
