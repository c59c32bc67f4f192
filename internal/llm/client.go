package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

// Turn is one prior conversation entry sent as context.
type Turn struct {
	Role string // "user" or "assistant"
	Text string
}

// CompletionRequest holds the parameters for a completion call.
type CompletionRequest struct {
	Task        TaskType
	Prompt      string
	History     []Turn
	Model       string   // empty uses the configured model
	Temperature *float64 // nil uses task default
	MaxTokens   *int     // nil uses task default
}

// CompletionResponse carries the raw JSON payload. Shape recognition is the
// caller's job because providers disagree on where the text lives.
type CompletionResponse struct {
	Payload   []byte
	Model     string
	LatencyMs int64
}

// Client reaches a chat-completions endpoint.
type Client interface {
	// Complete sends the prompt with its history and returns the raw payload.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)

	// Available checks whether the endpoint is reachable.
	Available(ctx context.Context) bool
}

// httpClient implements Client over an OpenAI-compatible HTTP API.
type httpClient struct {
	cfg      LLMConfig
	http     *http.Client
	observer Observer
}

// NewHTTPClient creates a Client for the configured endpoint.
func NewHTTPClient(cfg LLMConfig, observer Observer) Client {
	if observer == nil {
		observer = NoopObserver{}
	}
	return &httpClient{
		cfg: cfg,
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
		observer: observer,
	}
}

// chatRequest is the JSON body sent to the completions endpoint.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func (c *httpClient) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	start := time.Now()

	taskCfg := c.cfg.Tasks[req.Task]
	temp := taskCfg.Temperature
	if req.Temperature != nil {
		temp = *req.Temperature
	}
	maxTok := taskCfg.MaxTokens
	if req.MaxTokens != nil {
		maxTok = *req.MaxTokens
	}
	model := req.Model
	if model == "" {
		model = c.cfg.Model
	}

	body := chatRequest{
		Model:       model,
		Messages:    buildMessages(req.History, req.Prompt),
		MaxTokens:   maxTok,
		Temperature: temp,
	}
	timeout := time.Duration(c.cfg.TaskTimeout(req.Task)) * time.Millisecond

	var lastErr error
	attempts := 0
	maxAttempts := 1 + c.cfg.MaxRetries

	for attempts < maxAttempts {
		attempts++
		payload, err := c.attempt(ctx, timeout, body)
		if err == nil {
			latency := time.Since(start).Milliseconds()
			c.observer.OnCallComplete(LLMCallEvent{
				Task:       req.Task,
				Model:      model,
				LatencyMs:  latency,
				Attempts:   attempts,
				Success:    true,
				StatusCode: http.StatusOK,
			})
			return &CompletionResponse{Payload: payload, Model: model, LatencyMs: latency}, nil
		}
		lastErr = err

		// Don't retry once the caller gave up or the server rejected the request.
		if ctx.Err() != nil || !retryable(err) {
			break
		}
	}

	finalErr := classify(ctx, lastErr, attempts)
	event := LLMCallEvent{
		Task:      req.Task,
		Model:     model,
		LatencyMs: time.Since(start).Milliseconds(),
		Attempts:  attempts,
		Success:   false,
		ErrorCode: errorCode(finalErr),
	}
	var statusErr *StatusError
	if errors.As(lastErr, &statusErr) {
		event.StatusCode = statusErr.Code
	}
	c.observer.OnCallComplete(event)

	return nil, finalErr
}

func buildMessages(history []Turn, prompt string) []chatMessage {
	msgs := make([]chatMessage, 0, len(history)+1)
	for _, t := range history {
		msgs = append(msgs, chatMessage{Role: t.Role, Content: t.Text})
	}
	return append(msgs, chatMessage{Role: "user", Content: prompt})
}

// attempt runs one request bounded by its own timeout.
func (c *httpClient) attempt(ctx context.Context, timeout time.Duration, body chatRequest) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	payload, err := c.doRequest(ctx, body)
	if err != nil && ctx.Err() != nil {
		return nil, fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return payload, err
}

func (c *httpClient) doRequest(ctx context.Context, body chatRequest) ([]byte, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return nil, &StatusError{Code: httpResp.StatusCode, Body: strings.TrimSpace(string(respBody))}
	}

	if !json.Valid(respBody) {
		return nil, fmt.Errorf("%w: response is not valid JSON", ErrInvalidOutput)
	}

	return respBody, nil
}

func (c *httpClient) Available(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, modelsURL(c.cfg.Endpoint), nil)
	if err != nil {
		return false
	}
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// modelsURL maps ".../chat/completions" to the sibling ".../models" listing.
func modelsURL(endpoint string) string {
	if base, ok := strings.CutSuffix(endpoint, "/chat/completions"); ok {
		return base + "/models"
	}
	return endpoint
}

func retryable(err error) bool {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Temporary()
	}
	return !errors.Is(err, ErrInvalidOutput)
}

// classify maps the last attempt's error onto the package sentinels while
// keeping the original cause readable.
func classify(ctx context.Context, err error, attempts int) error {
	switch {
	case ctx.Err() != nil || errors.Is(err, ErrTimeout):
		return ErrTimeout
	case isConnectionError(err):
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	case attempts > 1:
		return fmt.Errorf("%w: %w", ErrRetryExhausted, err)
	default:
		return err
	}
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	var netErr *net.OpError
	return errors.As(err, &netErr)
}

func errorCode(err error) string {
	var statusErr *StatusError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, ErrUnavailable):
		return "UNAVAILABLE"
	case errors.Is(err, ErrInvalidOutput):
		return "INVALID_OUTPUT"
	case errors.As(err, &statusErr):
		return "HTTP_STATUS"
	default:
		return "UNKNOWN"
	}
}
