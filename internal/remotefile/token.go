package remotefile

import (
	"context"
	"crypto/rsa"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const jwtBearerGrantType = "urn:ietf:params:oauth:grant-type:jwt-bearer"

// DefaultTokenWait is the ceiling on how long a token acquisition may take
// before it fails with a timeout error.
const DefaultTokenWait = 15 * time.Second

// ErrTokenTimeout is returned when the token endpoint does not answer within
// the wait ceiling.
var ErrTokenTimeout = errors.New("token acquisition timed out")

// TokenSource obtains and caches bearer tokens for the file-storage API
// using a signed service-account JWT grant. The cached token is an explicit
// field of the source, not package state.
type TokenSource struct {
	email    string
	key      *rsa.PrivateKey
	tokenURL string
	scope    string
	wait     time.Duration
	client   *http.Client

	mu     sync.Mutex
	token  string
	expiry time.Time
}

// NewTokenSource parses the PEM-encoded RSA key and returns a TokenSource.
func NewTokenSource(email string, privateKeyPEM []byte, tokenURL, scope string) (*TokenSource, error) {
	key, err := jwt.ParseRSAPrivateKeyFromPEM(privateKeyPEM)
	if err != nil {
		return nil, fmt.Errorf("parsing service account key: %w", err)
	}
	return &TokenSource{
		email:    email,
		key:      key,
		tokenURL: tokenURL,
		scope:    scope,
		wait:     DefaultTokenWait,
		client:   http.DefaultClient,
	}, nil
}

// SetHTTPClient overrides the HTTP client, mainly for tests.
func (ts *TokenSource) SetHTTPClient(c *http.Client) { ts.client = c }

// SetWaitCeiling overrides the token acquisition timeout.
func (ts *TokenSource) SetWaitCeiling(d time.Duration) { ts.wait = d }

// Token returns a valid bearer token, fetching a new one when the cached
// token is absent or within a minute of expiry.
func (ts *TokenSource) Token(ctx context.Context) (string, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if ts.token != "" && time.Until(ts.expiry) > time.Minute {
		return ts.token, nil
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"iss":   ts.email,
		"scope": ts.scope,
		"aud":   ts.tokenURL,
		"iat":   now.Unix(),
		"exp":   now.Add(time.Hour).Unix(),
	}
	assertion, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(ts.key)
	if err != nil {
		return "", fmt.Errorf("signing token grant: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, ts.wait)
	defer cancel()

	form := url.Values{
		"grant_type": {jwtBearerGrantType},
		"assertion":  {assertion},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ts.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("building token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := ts.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
			return "", ErrTokenTimeout
		}
		return "", fmt.Errorf("requesting token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token endpoint returned status %d", resp.StatusCode)
	}

	var body struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decoding token response: %w", err)
	}
	if body.AccessToken == "" {
		return "", errors.New("token endpoint returned no access token")
	}

	ts.token = body.AccessToken
	ts.expiry = now.Add(time.Duration(body.ExpiresIn) * time.Second)
	return ts.token, nil
}
