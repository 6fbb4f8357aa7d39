// Package arbiter talks to the external roles-and-assignments service. The
// engine only ever consumes yes/no answers from it and fails closed when it
// cannot be reached.
package arbiter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/riskibarqy/match-tracker/internal/domain/user"
	"github.com/riskibarqy/match-tracker/internal/platform/cache"
	"github.com/riskibarqy/match-tracker/internal/platform/resilience"
	"github.com/riskibarqy/match-tracker/internal/usecase"
)

var errArbiterTransient = errors.New("arbiter transient failure")

type Config struct {
	BaseURL        string
	IntrospectPath string
	ManagePath     string
	AnswerTTL      time.Duration
	Breaker        resilience.CircuitBreakerConfig
}

type Client struct {
	httpClient    *http.Client
	introspectURL string
	manageURL     string
	breaker       *resilience.CircuitBreaker
	answers       *cache.Store
	logger        *slog.Logger
}

func NewClient(httpClient *http.Client, cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Second}
	}
	if cfg.AnswerTTL <= 0 {
		cfg.AnswerTTL = 30 * time.Second
	}
	return &Client{
		httpClient:    httpClient,
		introspectURL: buildURL(cfg.BaseURL, cfg.IntrospectPath),
		manageURL:     buildURL(cfg.BaseURL, cfg.ManagePath),
		breaker:       resilience.NewCircuitBreaker(cfg.Breaker),
		answers:       cache.NewStore(cfg.AnswerTTL),
		logger:        logger,
	}
}

// VerifyAccessToken resolves a bearer token into a principal via
// introspection.
func (c *Client) VerifyAccessToken(ctx context.Context, token string) (user.Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return user.Principal{}, fmt.Errorf("%w: token is required", usecase.ErrUnauthorized)
	}

	var decoded introspectResponse
	if err := c.post(ctx, c.introspectURL, introspectRequest{Token: token}, &decoded); err != nil {
		return user.Principal{}, err
	}

	if !decoded.Active {
		return user.Principal{}, fmt.Errorf("%w: inactive token", usecase.ErrUnauthorized)
	}
	if strings.TrimSpace(decoded.UserID) == "" {
		return user.Principal{}, errors.New("invalid introspect response: user_id is empty")
	}

	return user.Principal{
		UserID: decoded.UserID,
		Email:  decoded.Email,
		Role:   user.Role(decoded.Role),
	}, nil
}

// CanManageClub asks whether the actor holds a management assignment for the
// club. Answers are cached for a short window to keep hot mutation paths off
// the wire.
func (c *Client) CanManageClub(ctx context.Context, actorID, clubID string) (bool, error) {
	actorID = strings.TrimSpace(actorID)
	clubID = strings.TrimSpace(clubID)
	if actorID == "" || clubID == "" {
		return false, nil
	}

	key := actorID + "\x00" + clubID
	answer, err := c.answers.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		var decoded manageResponse
		if err := c.post(ctx, c.manageURL, manageRequest{ActorID: actorID, ClubID: clubID}, &decoded); err != nil {
			return nil, err
		}
		return decoded.Allowed, nil
	})
	if err != nil {
		return false, err
	}

	allowed, ok := answer.(bool)
	if !ok {
		return false, errors.Newf("unexpected cached answer type %T", answer)
	}

	return allowed, nil
}

func (c *Client) post(ctx context.Context, url string, payload, out any) error {
	if err := c.breaker.Allow(); err != nil {
		return errors.Wrap(errArbiterTransient, "arbiter circuit open")
	}

	encoded, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, "marshal arbiter request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(encoded))
	if err != nil {
		return errors.Wrap(err, "create arbiter request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.breaker.RecordFailure()
		return errors.Wrapf(errArbiterTransient, "request arbiter: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		c.breaker.RecordFailure()
		return errors.Wrap(err, "read arbiter response")
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		c.breaker.RecordSuccess()
		return fmt.Errorf("%w: arbiter denied the request", usecase.ErrUnauthorized)
	case resp.StatusCode >= http.StatusInternalServerError:
		c.breaker.RecordFailure()
		c.logger.WarnContext(ctx, "arbiter returned server error",
			"status_code", resp.StatusCode,
		)
		return errors.Wrapf(errArbiterTransient, "arbiter status %d", resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		c.breaker.RecordSuccess()
		return errors.Newf("arbiter request failed with status %d", resp.StatusCode)
	}

	c.breaker.RecordSuccess()

	if err := json.Unmarshal(body, out); err != nil {
		return errors.Wrap(err, "unmarshal arbiter response")
	}

	return nil
}

type introspectRequest struct {
	Token string `json:"token"`
}

type introspectResponse struct {
	Active bool   `json:"active"`
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

type manageRequest struct {
	ActorID string `json:"actor_id"`
	ClubID  string `json:"club_id"`
}

type manageResponse struct {
	Allowed bool `json:"allowed"`
}

func buildURL(baseURL, path string) string {
	baseURL = strings.TrimSuffix(strings.TrimSpace(baseURL), "/")
	path = strings.TrimSpace(path)
	if path == "" {
		return baseURL
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	return baseURL + path
}
