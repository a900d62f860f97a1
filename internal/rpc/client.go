package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/dmagro/btc-rpc-toolkit/internal/config"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Client sends JSON-RPC calls to one Bitcoin Core node. A Client is safe for
// concurrent use; every call is independent.
type Client struct {
	url        string
	user       string
	password   string
	httpClient *http.Client
	logger     *zap.Logger
	newID      func() string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient uses a copy of hc for requests. The copy's Timeout is set
// to the configured timeout; hc itself is left untouched.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		cp := *hc
		c.httpClient = &cp
	}
}

// WithLogger sets the logger used for per-call debug output.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient builds a client for the node described by cfg.
func NewClient(cfg config.EffectiveConfig, opts ...Option) *Client {
	c := &Client{
		url:        cfg.URL(),
		user:       cfg.User,
		password:   cfg.Password,
		httpClient: &http.Client{},
		logger:     zap.NewNop(),
		newID:      func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(c)
	}
	c.httpClient.Timeout = cfg.Timeout
	return c
}

// URL returns the endpoint the client posts to.
func (c *Client) URL() string { return c.url }

// Call executes one JSON-RPC request and returns the raw result. Exactly one
// HTTP request is made per call. Any error is a *Failure.
func (c *Client) Call(ctx context.Context, method string, params ...interface{}) (json.RawMessage, error) {
	if params == nil {
		params = []interface{}{}
	}

	req := Request{
		JSONRPC: "1.0",
		ID:      c.newID(),
		Method:  method,
		Params:  params,
	}

	start := time.Now()
	result, err := c.do(ctx, req)
	latency := time.Since(start)

	if err != nil {
		c.logger.Debug("RPC call failed",
			zap.String("method", method),
			zap.Duration("latency", latency),
			zap.Error(err))
		return nil, err
	}

	c.logger.Debug("RPC call",
		zap.String("method", method),
		zap.Duration("latency", latency),
		zap.Int("result_bytes", len(result)))
	return result, nil
}

func (c *Client) do(ctx context.Context, req Request) (json.RawMessage, error) {
	fail := func(kind Kind, msg string, err error) *Failure {
		return &Failure{Kind: kind, Method: req.Method, Message: msg, Err: err}
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fail(KindConnection, "encoding request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fail(KindConnection, "building request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.SetBasicAuth(c.user, c.password)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if isTimeout(ctx, err) {
			return nil, fail(KindTimeout, fmt.Sprintf("no response from %s", c.url), err)
		}
		return nil, fail(KindConnection, fmt.Sprintf("cannot reach %s", c.url), err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode == http.StatusUnauthorized || httpResp.StatusCode == http.StatusForbidden {
		return nil, fail(KindAuthentication, fmt.Sprintf("HTTP %d: check rpc user and password", httpResp.StatusCode), nil)
	}

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		if isTimeout(ctx, err) {
			return nil, fail(KindTimeout, "reading response", err)
		}
		return nil, fail(KindConnection, "reading response", err)
	}

	// Bitcoin Core reports RPC errors with HTTP 404/500 and a JSON body, so the
	// body is decoded before the status is judged.
	var resp Response
	if err := json.Unmarshal(respBody, &resp); err != nil {
		msg := "invalid JSON-RPC body"
		if httpResp.StatusCode/100 != 2 {
			msg = fmt.Sprintf("HTTP %d with invalid JSON-RPC body", httpResp.StatusCode)
		}
		return nil, fail(KindMalformedResponse, msg, err)
	}

	if resp.Error != nil {
		return nil, &Failure{
			Kind:    KindRemote,
			Method:  req.Method,
			Code:    resp.Error.Code,
			Message: resp.Error.Message,
		}
	}

	if httpResp.StatusCode/100 != 2 {
		return nil, fail(KindMalformedResponse, fmt.Sprintf("HTTP %d without error object", httpResp.StatusCode), nil)
	}

	var id string
	if len(resp.ID) > 0 && json.Unmarshal(resp.ID, &id) == nil && id != "" && id != req.ID {
		return nil, fail(KindMalformedResponse, fmt.Sprintf("response id %q does not match request id %q", id, req.ID), nil)
	}

	if len(resp.Result) == 0 {
		return nil, fail(KindMalformedResponse, "response has neither result nor error", nil)
	}

	return resp.Result, nil
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(ctx.Err(), context.DeadlineExceeded)
}
