// Package erp is the HTTP client of the ERP sales feed.
//
// The ERP authenticates with a cookie session. The client logs in lazily,
// reuses the session for every lot request and logs in again once when the
// ERP rejects a request as unauthorized.
package erp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"ordertracking/internal/core/domain/model/sales"
	"ordertracking/internal/pkg/errs"
)

const (
	serviceName = "erp"

	loginPath = "/auth/login"
	salesPath = "/sales"

	defaultRequestTimeout = 30 * time.Second
)

type Config struct {
	BaseURL  string
	Username string
	Password string

	// RequestTimeout bounds each HTTP call.
	RequestTimeout time.Duration
}

// session is the cookie set returned by login. generation lets a caller that
// saw a rejected session tell whether another goroutine already replaced it.
type session struct {
	cookies    []*http.Cookie
	generation uint64
}

// Client implements ports.SalesSource.
type Client struct {
	baseURL  string
	username string
	password string

	requestTimeout time.Duration
	httpClient     *http.Client
	logger         *slog.Logger

	mu      sync.RWMutex
	current *session
	issued  uint64
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return &Client{
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		username:       cfg.Username,
		password:       cfg.Password,
		requestTimeout: timeout,
		httpClient:     &http.Client{},
		logger:         logger.With("component", "erp_client"),
	}
}

// Login opens a new session, replacing any cached one.
func (c *Client) Login(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loginLocked(ctx)
}

// FetchSalesLot returns one lot of the sales of date.
func (c *Client) FetchSalesLot(ctx context.Context, date time.Time, lot int) (sales.Lot, error) {
	if lot < 1 {
		return sales.Lot{}, errs.NewValueIsOutOfRangeError("lot", lot, 1, math.MaxInt)
	}

	s, err := c.activeSession(ctx)
	if err != nil {
		return sales.Lot{}, err
	}

	payload, status, err := c.fetchLot(ctx, s, date, lot)
	if isUnauthorized(status) {
		c.logger.Info("erp session rejected, logging in again", "status", status, "lot", lot)
		if s, err = c.renew(ctx, s); err != nil {
			return sales.Lot{}, err
		}
		payload, _, err = c.fetchLot(ctx, s, date, lot)
	}
	if err != nil {
		return sales.Lot{}, err
	}

	result, unparsed := payload.toDomain()
	if unparsed > 0 {
		c.logger.Warn("settlement dates could not be parsed",
			"date", date.Format(time.DateOnly), "lot", lot, "count", unparsed)
	}
	return result, nil
}

// activeSession returns the cached session, logging in when there is none.
func (c *Client) activeSession(ctx context.Context) (*session, error) {
	c.mu.RLock()
	if c.current != nil {
		s := c.current
		c.mu.RUnlock()
		return s, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current != nil {
		return c.current, nil
	}
	if err := c.loginLocked(ctx); err != nil {
		return nil, err
	}
	return c.current, nil
}

// renew replaces stale with a new session unless another caller already did.
func (c *Client) renew(ctx context.Context, stale *session) (*session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current != nil && c.current.generation != stale.generation {
		return c.current, nil
	}
	if err := c.loginLocked(ctx); err != nil {
		return nil, err
	}
	return c.current, nil
}

func (c *Client) loginLocked(ctx context.Context) error {
	body, err := json.Marshal(loginRequest{Username: c.username, Password: c.password})
	if err != nil {
		return errs.NewExternalServiceError(serviceName, fmt.Errorf("encode login request: %w", err))
	}

	ctx, cancel := context.WithTimeout(ctx, c.requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+loginPath, bytes.NewReader(body))
	if err != nil {
		return errs.NewExternalServiceError(serviceName, fmt.Errorf("build login request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errs.NewTransientExternalServiceError(serviceName, fmt.Errorf("login: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.current = nil
		return errs.NewExternalServiceError(serviceName, fmt.Errorf("login: status %d", resp.StatusCode))
	}
	cookies := resp.Cookies()
	if len(cookies) == 0 {
		c.current = nil
		return errs.NewExternalServiceError(serviceName, errors.New("login: no session cookie returned"))
	}

	c.issued++
	c.current = &session{cookies: cookies, generation: c.issued}
	c.logger.Debug("erp session opened", "generation", c.issued)
	return nil
}

// fetchLot performs one lot request. The status code is returned alongside
// the error so the caller can decide whether to renew the session.
func (c *Client) fetchLot(ctx context.Context, s *session, date time.Time, lot int) (lotResponse, int, error) {
	ctx, cancel := context.WithTimeout(ctx, c.requestTimeout)
	defer cancel()

	query := url.Values{}
	query.Set("date", date.Format(time.DateOnly))
	query.Set("lot", strconv.Itoa(lot))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+salesPath+"?"+query.Encode(), nil)
	if err != nil {
		return lotResponse{}, 0, errs.NewExternalServiceError(serviceName, fmt.Errorf("build lot request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	for _, cookie := range s.cookies {
		req.AddCookie(cookie)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return lotResponse{}, 0, errs.NewTransientExternalServiceError(serviceName, fmt.Errorf("fetch lot %d: %w", lot, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return lotResponse{}, resp.StatusCode, errs.NewExternalServiceError(
			serviceName, fmt.Errorf("fetch lot %d: status %d", lot, resp.StatusCode))
	}

	var payload lotResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return lotResponse{}, resp.StatusCode, errs.NewExternalServiceError(
			serviceName, fmt.Errorf("decode lot %d: %w", lot, err))
	}
	return payload, resp.StatusCode, nil
}

func isUnauthorized(status int) bool {
	return status == http.StatusUnauthorized || status == http.StatusForbidden
}
