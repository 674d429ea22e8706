package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/workshophub/portal/internal/api/metrics"
	"github.com/workshophub/portal/internal/core/domain"
	"github.com/workshophub/portal/internal/core/ports"
)

const defaultTimeout = 10 * time.Second

// Client is the HTTP implementation of ports.VerificationBackend. Every
// non-2xx response is mapped onto the domain error taxonomy so callers never
// see raw HTTP concerns.
type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

// NewClient creates a backend client. A default timeout is applied when
// none is provided.
func NewClient(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type userResponse struct {
	ID    string `json:"id"`
	Role  string `json:"role"`
	Email string `json:"email"`
}

type codeRequest struct {
	Email string `json:"email"`
}

type verifyCodeRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type resetRequest struct {
	Code     string `json:"code"`
	Password string `json:"password"`
}

type messageResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var out loginResponse
	err := c.do(ctx, "login", http.MethodPost, "/auth/login", "", loginRequest{Email: email, Password: password}, &out)
	if err != nil {
		return "", err
	}
	if out.Token == "" {
		return "", fmt.Errorf("%w: login response missing token", domain.ErrAuth)
	}
	return out.Token, nil
}

func (c *Client) FetchCurrentUser(ctx context.Context, token string) (ports.BackendUser, error) {
	var out userResponse
	err := c.do(ctx, "fetch_current_user", http.MethodGet, "/auth/me", token, nil, &out)
	if err != nil {
		return ports.BackendUser{}, err
	}
	return ports.BackendUser{ID: out.ID, Role: out.Role, Email: out.Email}, nil
}

func (c *Client) RequestCode(ctx context.Context, email string) error {
	return c.do(ctx, "request_code", http.MethodPost, "/auth/code", "", codeRequest{Email: email}, nil)
}

func (c *Client) VerifyEmailCode(ctx context.Context, email, code string) error {
	return c.do(ctx, "verify_email_code", http.MethodPost, "/auth/verifyemail", "", verifyCodeRequest{Email: email, Code: code}, nil)
}

func (c *Client) FinalizeReset(ctx context.Context, code, secret string) (string, error) {
	var out messageResponse
	err := c.do(ctx, "finalize_reset", http.MethodPost, "/auth/resetpassword", "", resetRequest{Code: code, Password: secret}, &out)
	if err != nil {
		return "", err
	}
	return out.Message, nil
}

func (c *Client) do(ctx context.Context, op, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", op, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build %s request: %w", op, err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.BackendRequestDuration.WithLabelValues(op, "error").Observe(time.Since(start).Seconds())
		return fmt.Errorf("%w: %s: %v", domain.ErrNetwork, op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		metrics.BackendRequestDuration.WithLabelValues(op, "ok").Observe(time.Since(start).Seconds())
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%w: decode %s response: %v", domain.ErrNetwork, op, err)
		}
		return nil
	}

	metrics.BackendRequestDuration.WithLabelValues(op, "error").Observe(time.Since(start).Seconds())
	return c.mapStatus(op, resp)
}

// mapStatus translates a non-2xx response into the domain error taxonomy.
func (c *Client) mapStatus(op string, resp *http.Response) error {
	msg := remoteMessage(resp.Body)
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", domain.ErrAuth, msg)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", domain.ErrNotFound, msg)
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: %s", domain.ErrValidation, msg)
	}
	c.log.Warn().
		Int("status", resp.StatusCode).
		Str("op", op).
		Msg("unexpected backend status")
	return fmt.Errorf("%w: backend returned %d", domain.ErrNetwork, resp.StatusCode)
}

// remoteMessage extracts the error message from a backend error body,
// falling back to a generic one.
func remoteMessage(body io.Reader) string {
	var out messageResponse
	if err := json.NewDecoder(body).Decode(&out); err == nil {
		if out.Error != "" {
			return out.Error
		}
		if out.Message != "" {
			return out.Message
		}
	}
	return "request rejected"
}
