// Package api is the client for the backend resource API. Every call is one HTTP
// request bounded by the configured timeout; nothing is retried.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"devflow/internal/config"
	"devflow/internal/httperr"
	"devflow/internal/models"
)

const (
	defaultTimeout = 5 * time.Second
	apiPrefix      = "/api/v1"
	maxBodyBytes   = 10 << 20
)

var errNoBaseURL = httperr.NewRequestError(http.StatusInternalServerError, "backend base URL is not configured")

type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration

	Questions   Questions
	Answers     Answers
	Tags        Tags
	Votes       Votes
	Accounts    Accounts
	Users       Users
	Collections Collections
}

type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func New(cfg config.Backend, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{},
		timeout: cfg.Timeout,
	}
	if c.timeout <= 0 {
		c.timeout = defaultTimeout
	}
	for _, opt := range opts {
		opt(c)
	}

	c.Questions = Questions{crud[models.Question, models.QuestionCreate, models.QuestionUpdate]{c: c, name: "question"}}
	c.Answers = Answers{crud[models.Answer, models.AnswerCreate, models.AnswerUpdate]{c: c, name: "answer"}}
	c.Tags = Tags{crud[models.Tag, models.TagCreate, models.TagUpdate]{c: c, name: "tag"}}
	c.Votes = Votes{crud[models.Vote, models.VoteIntent, models.VoteUpdate]{c: c, name: "vote"}}
	c.Accounts = Accounts{crud[models.Account, models.AccountCreate, models.AccountUpdate]{c: c, name: "account"}}
	c.Users = Users{crud[models.User, models.UserCreate, models.UserUpdate]{c: c, name: "user"}}
	c.Collections = Collections{c: c}
	return c
}

// call describes one backend request.
type call struct {
	resource  string
	operation string
	method    string
	path      string
	query     url.Values
	body      any
}

// do sends the request and decodes the response payload into out (which may be nil).
func (c *Client) do(ctx context.Context, req call, out any) error {
	raw, err := c.send(ctx, req)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", req.resource, req.operation, err)
	}
	return nil
}

// send performs the request and returns the payload with any envelope removed.
func (c *Client) send(ctx context.Context, req call) (payload json.RawMessage, err error) {
	start := time.Now()
	defer func() { observe(req.resource, req.operation, outcome(err), time.Since(start)) }()

	if c.baseURL == "" {
		return nil, errNoBaseURL
	}

	target := c.baseURL + apiPrefix + req.path
	if len(req.query) > 0 {
		target += "?" + req.query.Encode()
	}

	var body io.Reader
	if req.body != nil {
		b, err := json.Marshal(req.body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s: %w", req.resource, req.operation, err)
		}
		body = bytes.NewReader(b)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, req.method, target, body)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, &httperr.TimeoutError{URL: target, After: c.timeout}
		}
		return nil, fmt.Errorf("%s %s: %w", req.method, target, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, &httperr.TimeoutError{URL: target, After: c.timeout}
		}
		return nil, fmt.Errorf("read %s: %w", target, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, statusError(resp.StatusCode, raw)
	}
	return unwrap(resp.StatusCode, raw)
}

// envelope is the {success, data, error} wrapper some backends use.
type envelope struct {
	Success *bool           `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Message string              `json:"message"`
		Details map[string][]string `json:"details"`
	} `json:"error"`
}

// unwrap returns data from an envelope, or the body itself when it is bare JSON.
func unwrap(status int, raw []byte) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return trimmed, nil
	}

	var env envelope
	if err := json.Unmarshal(trimmed, &env); err != nil || env.Success == nil {
		return trimmed, nil
	}
	if !*env.Success {
		re := httperr.NewRequestError(http.StatusInternalServerError, "Backend request failed")
		if status >= 400 {
			re.StatusCode = status
		}
		if env.Error != nil {
			if env.Error.Message != "" {
				re.Message = env.Error.Message
			}
			re.Details = env.Error.Details
		}
		return nil, re
	}
	return env.Data, nil
}

// statusError builds the RequestError for a non-2xx response, keeping the backend's
// message when it sent one.
func statusError(status int, raw []byte) error {
	re := httperr.NewRequestError(status, http.StatusText(status))
	if re.Message == "" {
		re.Message = fmt.Sprintf("HTTP %d", status)
	}

	var body struct {
		Detail json.RawMessage `json:"detail"`
		envelope
	}
	if json.Unmarshal(raw, &body) != nil {
		return re
	}

	var detail string
	switch {
	case body.Error != nil && body.Error.Message != "":
		re.Message = body.Error.Message
		re.Details = body.Error.Details
	case len(body.Detail) > 0 && json.Unmarshal(body.Detail, &detail) == nil && detail != "":
		re.Message = detail
	}
	return re
}

func idPath(resource, op string, id int64) string {
	return fmt.Sprintf("/%s/%s/%d", resource, op, id)
}

func listQuery(q models.ListQuery) url.Values {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", fmt.Sprint(q.Page))
	}
	if q.PageSize > 0 {
		v.Set("page_size", fmt.Sprint(q.PageSize))
	}
	if q.Query != "" {
		v.Set("query", q.Query)
	}
	if q.Filter != "" {
		v.Set("filter", q.Filter)
	}
	return v
}
