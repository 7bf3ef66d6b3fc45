package jobs

import (
	"context"
	"fmt"
	"net/url"
)

// ConfirmationNotifier enqueues confirmation-token emails for new customers.
// It implements customer.Notifier; delivery happens in the worker.
type ConfirmationNotifier struct {
	client  *Client
	baseURL string
}

// NewConfirmationNotifier constructs a notifier pointing confirmation links
// at baseURL.
func NewConfirmationNotifier(client *Client, baseURL string) *ConfirmationNotifier {
	return &ConfirmationNotifier{client: client, baseURL: baseURL}
}

// SendConfirmationEmail enqueues a mail:send task carrying the confirmation
// link. The token is URL-safe and goes into the link verbatim.
func (n *ConfirmationNotifier) SendConfirmationEmail(ctx context.Context, email, token string) error {
	link := fmt.Sprintf("%s/confirm?email=%s&token=%s", n.baseURL, url.QueryEscape(email), token)
	body := fmt.Sprintf(`Hello,

Please confirm your email address by following the link below.

%s

If you did not request this, please ignore this email.
`, link)

	_, err := n.client.EnqueueSendEmail(ctx, SendEmailPayload{
		To:      email,
		Subject: "Please confirm your email address",
		Body:    body,
	})
	return err
}
