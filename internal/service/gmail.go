package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gmailapi "google.golang.org/api/gmail/v1"
	oauth2api "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"

	"valentine-server/internal/config"
	"valentine-server/internal/models"
	"valentine-server/internal/repository"
)

const stateTTL = 10 * time.Minute

// MailSender delivers one HTML email through the connected account.
type MailSender interface {
	Send(ctx context.Context, to, subject, htmlBody string) (string, error)
}

// GmailService handles the OAuth connection lifecycle and sending.
type GmailService interface {
	MailSender
	// AuthURL builds the Google consent URL. The caller's return URL is
	// carried inside a signed state token and checked against the host
	// allow-list before anything is issued.
	AuthURL(returnURL string) (string, error)
	// Callback completes the OAuth exchange and returns the URL to
	// redirect the browser to, with the outcome in query parameters.
	Callback(ctx context.Context, code, state, oauthErr string) string
	// CheckConnection reports whether any account is connected.
	CheckConnection(ctx context.Context) (bool, string)
	// Disconnect removes the stored token for the email, or whichever
	// record exists when the email is empty.
	Disconnect(ctx context.Context, email string) error
}

type stateClaims struct {
	ReturnURL string `json:"returnUrl"`
	jwt.RegisteredClaims
}

type gmailService struct {
	repo         repository.TokenRepository
	oauthConfig  *oauth2.Config
	stateSecret  []byte
	appBaseURL   string
	allowedHosts []string
	checkTimeout time.Duration
	logger       *zap.Logger
}

var _ GmailService = (*gmailService)(nil)

// NewGmailService wires the OAuth config and token storage.
func NewGmailService(cfg *config.Config, repo repository.TokenRepository, logger *zap.Logger) GmailService {
	return &gmailService{
		repo: repo,
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.GmailClientID,
			ClientSecret: cfg.GmailClientSecret,
			RedirectURL:  cfg.GmailRedirectURL,
			Scopes: []string{
				gmailapi.GmailSendScope,
				"https://www.googleapis.com/auth/userinfo.email",
			},
			Endpoint: google.Endpoint,
		},
		stateSecret:  []byte(cfg.OAuthStateSecret),
		appBaseURL:   cfg.AppBaseURL,
		allowedHosts: cfg.GetAllowedReturnHosts(),
		checkTimeout: cfg.ConnCheckTimeout,
		logger:       logger.Named("GmailService"),
	}
}

func (s *gmailService) configured() bool {
	return s.oauthConfig.ClientID != "" && s.oauthConfig.ClientSecret != "" &&
		s.oauthConfig.RedirectURL != "" && len(s.stateSecret) > 0
}

func (s *gmailService) AuthURL(returnURL string) (string, error) {
	if !s.configured() {
		return "", models.ErrOAuthNotConfigured
	}
	if returnURL == "" {
		returnURL = s.appBaseURL
	}
	if !s.returnHostAllowed(returnURL) {
		return "", fmt.Errorf("%w: %s", models.ErrReturnURLNotAllowed, returnURL)
	}

	now := time.Now()
	state, err := jwt.NewWithClaims(jwt.SigningMethodHS256, stateClaims{
		ReturnURL: returnURL,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(stateTTL)),
		},
	}).SignedString(s.stateSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign oauth state: %w", err)
	}

	return s.oauthConfig.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	), nil
}

func (s *gmailService) returnHostAllowed(returnURL string) bool {
	parsed, err := url.Parse(returnURL)
	if err != nil || parsed.Hostname() == "" {
		return false
	}
	host := strings.ToLower(parsed.Hostname())
	for _, allowed := range s.allowedHosts {
		if host == strings.ToLower(allowed) {
			return true
		}
	}
	return false
}

// Callback never fails the redirect: any problem lands the browser back on
// the return URL with gmail_error set, so the wizard can surface it.
func (s *gmailService) Callback(ctx context.Context, code, state, oauthErr string) string {
	returnURL := s.parseState(state)

	if oauthErr != "" {
		s.logger.Warn("OAuth consent denied", zap.String("error", oauthErr))
		return withQueryParam(returnURL, "gmail_error", oauthErr)
	}
	if code == "" {
		return withQueryParam(returnURL, "gmail_error", "missing_code")
	}

	token, err := s.oauthConfig.Exchange(ctx, code)
	if err != nil {
		s.logger.Error("Code exchange failed", zap.Error(err))
		return withQueryParam(returnURL, "gmail_error", "exchange_failed")
	}

	email, err := s.fetchAccountEmail(ctx, token)
	if err != nil {
		s.logger.Error("Failed to resolve account email", zap.Error(err))
		return withQueryParam(returnURL, "gmail_error", "userinfo_failed")
	}

	if err := s.repo.Upsert(ctx, &models.GmailToken{
		Email:        email,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    token.Expiry,
	}); err != nil {
		s.logger.Error("Failed to store token", zap.String("email", email), zap.Error(err))
		return withQueryParam(returnURL, "gmail_error", "storage_failed")
	}

	s.logger.Info("Gmail account connected", zap.String("email", email))
	return withQueryParam(returnURL, "gmail_connected", email)
}

// parseState recovers the return URL from the signed state, falling back to
// the app base URL on any tampering or expiry.
func (s *gmailService) parseState(state string) string {
	if state == "" {
		return s.appBaseURL
	}
	var claims stateClaims
	_, err := jwt.ParseWithClaims(state, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.stateSecret, nil
	})
	if err != nil || !s.returnHostAllowed(claims.ReturnURL) {
		s.logger.Warn("Invalid oauth state, using app base URL", zap.Error(err))
		return s.appBaseURL
	}
	return claims.ReturnURL
}

func (s *gmailService) fetchAccountEmail(ctx context.Context, token *oauth2.Token) (string, error) {
	svc, err := oauth2api.NewService(ctx,
		option.WithTokenSource(s.oauthConfig.TokenSource(ctx, token)))
	if err != nil {
		return "", err
	}
	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return "", err
	}
	if info.Email == "" {
		return "", errors.New("userinfo response has no email")
	}
	return info.Email, nil
}

func (s *gmailService) CheckConnection(ctx context.Context) (bool, string) {
	ctx, cancel := context.WithTimeout(ctx, s.checkTimeout)
	defer cancel()

	token, err := s.repo.GetAny(ctx)
	if err != nil {
		if !errors.Is(err, models.ErrTokenNotFound) {
			s.logger.Warn("Connection check failed", zap.Error(err))
		}
		return false, ""
	}
	return true, token.Email
}

func (s *gmailService) Disconnect(ctx context.Context, email string) error {
	if email == "" {
		token, err := s.repo.GetAny(ctx)
		if err != nil {
			if errors.Is(err, models.ErrTokenNotFound) {
				return nil
			}
			return err
		}
		email = token.Email
	}
	if err := s.repo.Delete(ctx, email); err != nil {
		return err
	}
	s.logger.Info("Gmail account disconnected", zap.String("email", email))
	return nil
}

// Send delivers one HTML email from the connected account, refreshing the
// access token first when it has expired.
func (s *gmailService) Send(ctx context.Context, to, subject, htmlBody string) (string, error) {
	stored, err := s.repo.GetAny(ctx)
	if err != nil {
		if errors.Is(err, models.ErrTokenNotFound) {
			return "", models.ErrNotConnected
		}
		return "", err
	}

	token := &oauth2.Token{
		AccessToken:  stored.AccessToken,
		RefreshToken: stored.RefreshToken,
		Expiry:       stored.ExpiresAt,
	}
	if stored.Expired(time.Now()) {
		refreshed, err := s.oauthConfig.TokenSource(ctx, token).Token()
		if err != nil {
			s.logger.Error("Token refresh failed", zap.String("email", stored.Email), zap.Error(err))
			return "", fmt.Errorf("token refresh failed: %w", err)
		}
		token = refreshed
		if err := s.repo.UpdateAccessToken(ctx, stored.Email, refreshed.AccessToken, refreshed.Expiry); err != nil {
			s.logger.Warn("Failed to persist refreshed token", zap.Error(err))
		}
	}

	svc, err := gmailapi.NewService(ctx, option.WithTokenSource(oauth2.StaticTokenSource(token)))
	if err != nil {
		return "", fmt.Errorf("failed to create gmail client: %w", err)
	}

	raw := buildMIMEMessage(stored.Email, to, subject, htmlBody)
	sent, err := svc.Users.Messages.Send("me", &gmailapi.Message{Raw: raw}).Context(ctx).Do()
	if err != nil {
		s.logger.Error("Send failed", zap.String("to", to), zap.Error(err))
		return "", fmt.Errorf("gmail send failed: %w", err)
	}

	s.logger.Info("Email sent",
		zap.String("from", stored.Email),
		zap.String("to", to),
		zap.String("messageID", sent.Id),
	)
	return sent.Id, nil
}

// buildMIMEMessage assembles a single-part HTML message in the base64url
// form the Gmail API expects.
func buildMIMEMessage(from, to, subject, htmlBody string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(htmlBody)
	return base64.URLEncoding.EncodeToString([]byte(b.String()))
}

// withQueryParam appends one query parameter to a URL, preserving the rest.
func withQueryParam(rawURL, key, value string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	q := parsed.Query()
	q.Set(key, value)
	parsed.RawQuery = q.Encode()
	return parsed.String()
}
