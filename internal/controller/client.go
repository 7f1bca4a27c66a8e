// Package controller owns the authenticated HTTP interaction with a UniFi
// network controller and normalizes its two API dialects (classic and
// OS-embedded) into one logical request model.
package controller

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/time/rate"

	"github.com/unifisync/unifisync/internal/logger"
	"github.com/unifisync/unifisync/internal/model"
	syncerrors "github.com/unifisync/unifisync/pkg/errors"
)

const (
	systemInfoPath = "/api/system"

	defaultTimeout   = 30 * time.Second
	defaultRateLimit = 10.0 // requests per second
)

// Options configures a controller client.
type Options struct {
	// BaseURL is the controller root, e.g. https://192.168.1.1.
	BaseURL  string
	Username string
	Password string

	// InsecureSkipVerify disables TLS verification; self-hosted controllers
	// ship self-signed certificates.
	InsecureSkipVerify bool
	Timeout            time.Duration
	// RateLimit is the request budget in requests per second.
	RateLimit float64

	Recorder   *logger.Recorder
	HTTPClient *http.Client
}

// Response is the outcome of one controller request. A masked error status
// yields a Response with the failing Status and whatever body could be
// decoded, and no error; the caller interprets it.
type Response struct {
	Status int
	Body   any
}

// Client performs authenticated requests against one controller. The session
// state (cookie and anti-CSRF token) and the probed controller variant are
// cached for the client's lifetime and never refreshed within a run.
type Client struct {
	base     string
	username string
	password string
	http     *http.Client
	limiter  *rate.Limiter
	rec      *logger.Recorder

	auth    map[string]string
	variant *bool
}

// New creates a controller client.
func New(opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		return nil, syncerrors.NewConfigError("controller.url", "controller base URL is required", nil)
	}

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	limit := opts.RateLimit
	if limit == 0 {
		limit = defaultRateLimit
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		transport := http.DefaultTransport
		if opts.InsecureSkipVerify {
			transport = &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
			}
		}
		httpClient = &http.Client{Timeout: timeout, Transport: transport}
	}

	return &Client{
		base:     strings.TrimRight(opts.BaseURL, "/"),
		username: opts.Username,
		password: opts.Password,
		http:     httpClient,
		limiter:  rate.NewLimiter(rate.Limit(limit), int(limit)),
		rec:      opts.Recorder,
		auth:     make(map[string]string),
	}, nil
}

// IsUnifiOS classifies the controller as OS-embedded or classic. The probe
// runs once per client: an unauthenticated GET of the system-info path,
// during which HTTP 400 and 401 are masked because the probe itself may
// legitimately receive them. The result is cached for the client lifetime.
func (c *Client) IsUnifiOS(ctx context.Context) (bool, error) {
	if c.variant != nil {
		return *c.variant, nil
	}

	status, _, _, err := c.send(ctx, http.MethodGet, systemInfoPath, nil, []int{
		http.StatusBadRequest, http.StatusUnauthorized,
	})
	if err != nil {
		return false, errors.Wrap(err, "probe controller variant")
	}

	osVariant := status == http.StatusOK
	c.variant = &osVariant
	c.rec.Debugf("Controller variant probed: unifi-os=%t (HTTP %d)", osVariant, status)
	return osVariant, nil
}

// Login authenticates against the variant-appropriate endpoint and caches
// the session cookie and anti-CSRF token as default headers for every
// subsequent request on this client.
func (c *Client) Login(ctx context.Context) error {
	return c.login(ctx, "", "")
}

// LoginAs authenticates with explicit credentials instead of the ones the
// client was created with.
func (c *Client) LoginAs(ctx context.Context, username, password string) error {
	return c.login(ctx, username, password)
}

func (c *Client) login(ctx context.Context, username, password string) error {
	if username == "" {
		username, password = c.username, c.password
	}

	osVariant, err := c.IsUnifiOS(ctx)
	if err != nil {
		return err
	}

	path := "/api/login"
	if osVariant {
		path = "/api/auth/login"
	}

	c.rec.Infof("Starting authentication with username and password")
	_, _, _, err = c.send(ctx, http.MethodPost, path, model.Item{
		"username": username,
		"password": password,
	}, nil)
	return errors.Wrap(err, "login")
}

// Logout invokes the variant-appropriate logout endpoint. The cached auth
// headers are deliberately kept; they become invalid only at the
// controller's discretion.
func (c *Client) Logout(ctx context.Context) error {
	osVariant, err := c.IsUnifiOS(ctx)
	if err != nil {
		return err
	}

	path := "/api/logout"
	if osVariant {
		path = "/api/auth/logout"
	}

	c.rec.Infof("Logging out")
	_, _, _, err = c.send(ctx, http.MethodPost, path, model.Item{}, nil)
	return errors.Wrap(err, "logout")
}

// Do resolves the logical request into a concrete HTTP call and returns the
// decoded JSON body.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	osVariant, err := c.IsUnifiOS(ctx)
	if err != nil {
		return nil, err
	}

	method, uri, data := req.resolve(osVariant)

	c.rec.Debugf("Sending request: %s %s", method, uri)
	status, _, raw, err := c.send(ctx, method, uri, data, req.Masked)
	if err != nil {
		return nil, err
	}
	c.rec.Debugf("Response received: %d (%s)", status, uri)

	resp := &Response{Status: status}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &resp.Body); err != nil {
			if status >= 200 && status < 300 {
				return nil, errors.Wrapf(err, "decode controller response from %s", uri)
			}
			// Masked error with a non-JSON body; the status alone is the
			// answer.
			resp.Body = nil
		}
	}
	return resp, nil
}

// send issues one HTTP request with the cached auth headers and captures any
// refreshed session tokens from the response. Non-2xx statuses present in
// masked are passed through; all others escalate as transport errors
// composed from the path, status and body.
func (c *Client) send(ctx context.Context, method, path string, data any, masked []int) (int, http.Header, []byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, nil, nil, errors.Wrap(err, "rate limiter wait")
	}

	var body io.Reader
	if data != nil {
		encoded, err := json.Marshal(data)
		if err != nil {
			return 0, nil, nil, errors.Wrap(err, "encode request body")
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return 0, nil, nil, errors.Wrapf(err, "build request for %s", path)
	}
	req.Header.Set("Accept", "application/json")
	if data != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for name, value := range c.auth {
		req.Header.Set(name, value)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, nil, errors.Wrapf(err, "request %s %s", method, path)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, nil, errors.Wrapf(err, "read response from %s", path)
	}

	c.updateAuth(resp)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp.StatusCode, resp.Header, raw, nil
	}
	for _, code := range masked {
		if resp.StatusCode == code {
			c.rec.Tracef("Got masked error %d %s", resp.StatusCode, path)
			return resp.StatusCode, resp.Header, raw, nil
		}
	}

	c.rec.Debugf("Got error %d %s", resp.StatusCode, path)
	return resp.StatusCode, resp.Header, raw,
		syncerrors.NewTransportError(path, resp.StatusCode, strings.TrimSpace(string(raw)))
}

// updateAuth caches session tokens present on a response: every name=value
// pair from the Set-Cookie headers (comma-combined cookies are split and
// re-joined) and the anti-CSRF token.
func (c *Client) updateAuth(resp *http.Response) {
	var cookies []string
	for _, header := range resp.Header.Values("Set-Cookie") {
		for _, part := range strings.Split(header, ",") {
			cookie := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
			if strings.Contains(cookie, "=") {
				cookies = append(cookies, cookie)
			}
		}
	}
	if len(cookies) > 0 {
		c.auth["Cookie"] = strings.Join(cookies, ",")
	}

	if token := resp.Header.Get("X-Csrf-Token"); token != "" {
		c.auth["X-Csrf-Token"] = token
	}
}
