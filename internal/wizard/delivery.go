package wizard

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"valentine-server/internal/models"
)

// Mailer sends one HTML email and returns the provider message id.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) (string, error)
}

// ConnectionChecker reports whether a sending account is connected.
type ConnectionChecker interface {
	CheckConnection(ctx context.Context) (bool, string)
}

var (
	// ErrNoRecipient means no recipient address was entered or stored.
	ErrNoRecipient = errors.New("recipient email is required")
	// ErrNoLetter means delivery was attempted before generation.
	ErrNoLetter = errors.New("no letter to send")
	// ErrSenderNotConnected means no Gmail account is connected.
	ErrSenderNotConnected = errors.New("sending account is not connected")
)

// Delivery drives the send flow for a session: connection gate, recipient
// validation, HTML composition and the actual send.
type Delivery struct {
	mailer  Mailer
	checker ConnectionChecker
	logger  *zap.Logger
}

func NewDelivery(mailer Mailer, checker ConnectionChecker, logger *zap.Logger) *Delivery {
	return &Delivery{
		mailer:  mailer,
		checker: checker,
		logger:  logger.Named("Delivery"),
	}
}

// SendLetter sends the first letter of the session to recipientEmail,
// falling back to the address collected in the form. The recipient address
// is remembered on the form for the next attempt.
func (d *Delivery) SendLetter(ctx context.Context, store *Store, recipientEmail string) (string, error) {
	snapshot := store.Snapshot()

	recipientEmail = strings.TrimSpace(recipientEmail)
	if recipientEmail == "" {
		recipientEmail = snapshot.FormData.RecipientEmail
	}
	if recipientEmail == "" {
		return "", ErrNoRecipient
	}
	if !emailPattern.MatchString(recipientEmail) {
		return "", fmt.Errorf("%w: invalid address", ErrNoRecipient)
	}

	if len(snapshot.Emails) == 0 {
		return "", ErrNoLetter
	}
	letter := snapshot.Emails[0]

	connected, senderEmail := d.checker.CheckConnection(ctx)
	if !connected {
		return "", ErrSenderNotConnected
	}

	messageID, err := d.mailer.Send(ctx, recipientEmail, letter.Subject, ComposeHTML(letter))
	if err != nil {
		return "", err
	}

	store.UpdateFormData(ctx, FormPatch{RecipientEmail: &recipientEmail})
	d.logger.Info("Letter delivered",
		zap.String("from", senderEmail),
		zap.String("to", recipientEmail),
		zap.String("messageID", messageID),
	)
	return messageID, nil
}

// ComposeHTML renders a letter body as the HTML actually mailed out:
// the illustration first when present, then the text with line breaks
// converted.
func ComposeHTML(email models.GeneratedEmail) string {
	var b strings.Builder
	if email.ImageURL != "" {
		fmt.Fprintf(&b,
			`<img src="%s" alt="Valentine's illustration" style="max-width: 100%%; height: auto; border-radius: 8px; margin-bottom: 24px;" /><br><br>`,
			email.ImageURL)
	}
	b.WriteString(strings.ReplaceAll(email.Body, "\n", "<br>"))
	return b.String()
}

// CallbackResult is the outcome carried back from the OAuth redirect.
type CallbackResult struct {
	Connected bool
	// Email is the account the callback reports as connected.
	Email string
	Error string
	// CleanURL is the landing URL with the outcome parameters stripped,
	// ready to be shown in the address bar again.
	CleanURL string
}

// ParseCallbackResult reads the gmail_connected / gmail_error parameters a
// completed OAuth redirect appends to the return URL.
func ParseCallbackResult(rawURL string) (CallbackResult, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return CallbackResult{}, fmt.Errorf("invalid callback url: %w", err)
	}

	q := parsed.Query()
	connectedEmail := q.Get("gmail_connected")
	result := CallbackResult{
		Connected: connectedEmail != "",
		Email:     connectedEmail,
		Error:     q.Get("gmail_error"),
	}

	q.Del("gmail_connected")
	q.Del("gmail_error")
	parsed.RawQuery = q.Encode()
	result.CleanURL = parsed.String()
	return result, nil
}
