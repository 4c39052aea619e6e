package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"swyftx-slam/internal/config"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
)

var ErrRateLimited = errors.New("slack webhook rate limited")

// SlackClient posts plain-text messages to a Slack incoming webhook.
type SlackClient struct {
	webhookURL string
	client     *fasthttp.Client
	logger     zerolog.Logger

	rateLimitMu sync.RWMutex
	// blockedUntil is set from Retry-After on a 429.
	blockedUntil time.Time
}

type webhookPayload struct {
	Text string `json:"text"`
}

func NewSlackClient(cfg *config.Config, logger zerolog.Logger) *SlackClient {
	return &SlackClient{
		webhookURL: cfg.SlackWebhook,
		client: &fasthttp.Client{
			MaxConnsPerHost:     10,
			ReadTimeout:         10 * time.Second,
			WriteTimeout:        10 * time.Second,
			MaxIdleConnDuration: 1 * time.Minute,
		},
		logger: logger,
	}
}

func (c *SlackClient) Enabled() bool {
	return c.webhookURL != ""
}

// Announce posts text to the webhook. Without a configured webhook it does
// nothing.
func (c *SlackClient) Announce(ctx context.Context, text string) error {
	if !c.Enabled() {
		c.logger.Debug().Str("text", text).Msg("slack webhook not configured, skipping announcement")
		return nil
	}

	if until := c.RetryAfter(); time.Now().Before(until) {
		return fmt.Errorf("%w until %s", ErrRateLimited, until.Format(time.RFC3339))
	}

	body, err := json.Marshal(webhookPayload{Text: text})
	if err != nil {
		return fmt.Errorf("failed to encode slack payload: %w", err)
	}

	if err := doPost(ctx, c, body); err != nil {
		c.logger.Warn().Err(err).Msg("failed to post to slack")
		return err
	}
	return nil
}

func (c *SlackClient) RetryAfter() time.Time {
	c.rateLimitMu.RLock()
	defer c.rateLimitMu.RUnlock()
	return c.blockedUntil
}

func (c *SlackClient) updateRateLimit(resp *fasthttp.Response) {
	if resp.StatusCode() != fasthttp.StatusTooManyRequests {
		return
	}

	c.rateLimitMu.Lock()
	defer c.rateLimitMu.Unlock()

	wait := time.Second
	if header := string(resp.Header.Peek("Retry-After")); header != "" {
		if secs, err := strconv.Atoi(header); err == nil {
			wait = time.Duration(secs) * time.Second
		}
	}
	c.blockedUntil = time.Now().Add(wait)
}

func doPost(ctx context.Context, client *SlackClient, body []byte) error {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(client.webhookURL)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.SetBody(body)

	deadline, ok := ctx.Deadline()
	if ok {
		if err := client.client.DoDeadline(req, resp, deadline); err != nil {
			return err
		}
	} else {
		if err := client.client.Do(req, resp); err != nil {
			return err
		}
	}

	client.updateRateLimit(resp)

	if resp.StatusCode() != fasthttp.StatusOK {
		return fmt.Errorf("slack webhook error: %d %s", resp.StatusCode(), resp.Body())
	}
	return nil
}
