package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"

	"github.com/sparky-messaging/sparky-admin/internal/identity"
)

const (
	// defaultTimeout bounds every remote call. Identity lookups sit on the
	// page render path and must degrade instead of hang.
	defaultTimeout = 5 * time.Second

	sessionPath = "/auth/v1/user"
	signOutPath = "/auth/v1/logout"
	tokenPath   = "/auth/v1/token?grant_type=password"
	profilePath = "/rest/v1/profiles"
)

// Client talks to the hosted identity service over HTTP+JSON.
// Bearer tokens are managed by an oauth2 token source created at sign-in,
// so expired access tokens are refreshed transparently.
type Client struct {
	baseURL    string
	apiKey     string
	timeout    time.Duration
	httpClient *http.Client

	mu    sync.Mutex
	token oauth2.TokenSource
}

// NewClient creates an identity service client.
// The apiKey is the anon/publishable key the service expects on every call.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		timeout: timeout,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &apiKeyTransport{
				apiKey: apiKey,
				base:   http.DefaultTransport,
			},
		},
	}
}

// apiKeyTransport adds the service api key to every outgoing request.
type apiKeyTransport struct {
	apiKey string
	base   http.RoundTripper
}

func (t *apiKeyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("apikey", t.apiKey)

	return t.base.RoundTrip(req) //nolint:wrapcheck
}

// SignIn forwards the credentials to the identity service using the oauth2
// password grant. The console never verifies credentials itself.
func (c *Client) SignIn(ctx context.Context, email, password string) (*Session, error) {
	conf := &oauth2.Config{
		ClientID: "sparky-admin",
		Endpoint: oauth2.Endpoint{
			TokenURL:  c.baseURL + tokenPath,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	// route the grant through our api-key transport
	grantCtx := context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)

	tok, err := conf.PasswordCredentialsToken(grantCtx, email, password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoSession, err)
	}

	// the token source outlives this call, so it must not inherit the
	// sign-in deadline
	sourceCtx := context.WithValue(context.Background(), oauth2.HTTPClient, c.httpClient)

	c.mu.Lock()
	c.token = conf.TokenSource(sourceCtx, tok)
	c.mu.Unlock()

	return c.GetSession(ctx)
}

// RestoreToken re-arms the client with a previously issued token, used when
// a page load finds a cached session but the client was just constructed.
func (c *Client) RestoreToken(accessToken, refreshToken string, expiry time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.token = oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Expiry:       expiry,
	})
}

// Token exposes the current token material so the caller can persist it and
// re-arm a fresh client later via RestoreToken.
func (c *Client) Token() (*oauth2.Token, error) {
	c.mu.Lock()
	ts := c.token
	c.mu.Unlock()

	if ts == nil {
		return nil, ErrNoSession
	}

	tok, err := ts.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoSession, err)
	}

	return tok, nil
}

// GetSession implements Gateway.
func (c *Client) GetSession(ctx context.Context) (*Session, error) {
	var out struct {
		ID        string    `json:"id"`
		Email     string    `json:"email"`
		ExpiresAt time.Time `json:"expires_at"`
	}

	if err := c.doJSON(ctx, http.MethodGet, sessionPath, &out); err != nil {
		return nil, err
	}

	if out.ID == "" {
		return nil, ErrNoSession
	}

	return &Session{
		UserID:    out.ID,
		Email:     out.Email,
		ExpiresAt: out.ExpiresAt,
	}, nil
}

// GetProfile implements Gateway.
func (c *Client) GetProfile(ctx context.Context, userID string) (*identity.Profile, error) {
	var out []identity.Profile

	path := fmt.Sprintf("%s?id=eq.%s&select=*", profilePath, userID)
	if err := c.doJSON(ctx, http.MethodGet, path, &out); err != nil {
		return nil, err
	}

	if len(out) == 0 {
		return nil, ErrProfileNotFound
	}

	return &out[0], nil
}

// SignOut implements Gateway. The local token is dropped even when the
// remote call fails: a failed sign-out must never leave the console
// believing it is still signed in.
func (c *Client) SignOut(ctx context.Context) error {
	err := c.doJSON(ctx, http.MethodPost, signOutPath, nil)

	c.mu.Lock()
	c.token = nil
	c.mu.Unlock()

	if err != nil {
		log.Warn().Err(err).Msg("remote sign-out failed, local token dropped anyway")
		return err
	}

	return nil
}

func (c *Client) bearer() (string, error) {
	c.mu.Lock()
	ts := c.token
	c.mu.Unlock()

	if ts == nil {
		return "", ErrNoSession
	}

	tok, err := ts.Token()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoSession, err)
	}

	return tok.AccessToken, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, target any) error {
	token, err := c.bearer()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrNoSession
	case resp.StatusCode >= http.StatusInternalServerError:
		return fmt.Errorf("%w: status %d", ErrRemoteUnavailable, resp.StatusCode)
	case resp.StatusCode >= http.StatusBadRequest:
		return fmt.Errorf("identity service rejected %s %s: status %d", method, path, resp.StatusCode) //nolint:goerr113
	}

	if target == nil {
		return nil
	}

	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("failed to decode identity service response: %w", err)
	}

	return nil
}
