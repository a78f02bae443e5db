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
	"time"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one prior conversation turn sent to the model.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// CompleteRequest holds the parameters for one completion call.
type CompleteRequest struct {
	SystemPrompt string
	History      []Message
	UserMessage  string
	MaxTokens    *int // nil uses the configured default
}

// CompleteResponse holds the result of a completion call.
type CompleteResponse struct {
	Text         string
	Model        string
	LatencyMs    int64
	InputTokens  int
	OutputTokens int
}

// Client provides access to a hosted language model.
type Client interface {
	// Complete sends the conversation and returns the model's reply.
	Complete(ctx context.Context, req CompleteRequest) (*CompleteResponse, error)

	// Configured reports whether an API key is available.
	Configured() bool
}

// anthropicClient implements Client using the Anthropic Messages API.
type anthropicClient struct {
	cfg      Config
	http     *http.Client
	observer Observer
}

// NewAnthropicClient creates a Client for the Messages API.
func NewAnthropicClient(cfg Config, observer Observer) Client {
	if observer == nil {
		observer = NoopObserver{}
	}
	return &anthropicClient{
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

// messagesRequest is the JSON body sent to POST /v1/messages.
type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system,omitempty"`
	Messages  []Message `json:"messages"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// messagesResponse is the subset of the Messages API response we read.
type messagesResponse struct {
	Model   string         `json:"model"`
	Content []contentBlock `json:"content"`
	Usage   struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

func (c *anthropicClient) Configured() bool {
	return c.cfg.Configured()
}

func (c *anthropicClient) Complete(ctx context.Context, req CompleteRequest) (*CompleteResponse, error) {
	if !c.Configured() {
		return nil, ErrRemoteUnavailable
	}
	start := time.Now()

	maxTok := c.cfg.MaxTokens
	if req.MaxTokens != nil {
		maxTok = *req.MaxTokens
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout())
	defer cancel()

	messages := make([]Message, 0, len(req.History)+1)
	messages = append(messages, req.History...)
	messages = append(messages, Message{Role: RoleUser, Content: req.UserMessage})

	body := messagesRequest{
		Model:     c.cfg.Model,
		MaxTokens: maxTok,
		System:    req.SystemPrompt,
		Messages:  messages,
	}

	var (
		lastErr  error
		attempts int
	)
	for attempts < 1+c.cfg.MaxRetries {
		attempts++
		resp, err := c.doRequest(ctx, body)
		if err == nil {
			latency := time.Since(start).Milliseconds()
			c.observer.OnCallComplete(CallEvent{
				Model:        c.cfg.Model,
				LatencyMs:    latency,
				Attempts:     attempts,
				Success:      true,
				InputTokens:  resp.Usage.InputTokens,
				OutputTokens: resp.Usage.OutputTokens,
			})
			return &CompleteResponse{
				Text:         resp.Content[0].Text,
				Model:        resp.Model,
				LatencyMs:    latency,
				InputTokens:  resp.Usage.InputTokens,
				OutputTokens: resp.Usage.OutputTokens,
			}, nil
		}
		lastErr = err

		// Only transport failures are retried.
		if ctx.Err() != nil || errors.Is(err, ErrRemoteError) {
			break
		}
	}

	if ctx.Err() != nil {
		lastErr = ErrTimeout
	} else if !errors.Is(lastErr, ErrRemoteError) {
		lastErr = fmt.Errorf("%w: %v", ErrRemoteError, lastErr)
	}
	c.observer.OnCallComplete(CallEvent{
		Model:     c.cfg.Model,
		LatencyMs: time.Since(start).Milliseconds(),
		Attempts:  attempts,
		Success:   false,
		ErrorCode: errorCode(lastErr),
	})
	return nil, lastErr
}

func (c *anthropicClient) doRequest(ctx context.Context, body messagesRequest) (*messagesResponse, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.cfg.APIKey)
	httpReq.Header.Set("anthropic-version", c.cfg.Version)

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if httpResp.StatusCode == http.StatusUnauthorized {
		return nil, ErrUnauthorized
	}
	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d: %s", ErrRemoteError, httpResp.StatusCode, truncate(respBody, 200))
	}

	var resp messagesResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", ErrInvalidOutput, err)
	}
	if len(resp.Content) == 0 || resp.Content[0].Text == "" {
		return nil, ErrInvalidOutput
	}
	return &resp, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}

func errorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, ErrUnauthorized):
		return "UNAUTHORIZED"
	case errors.Is(err, ErrInvalidOutput):
		return "INVALID_OUTPUT"
	case errors.Is(err, ErrRemoteUnavailable):
		return "UNAVAILABLE"
	default:
		return "REMOTE_ERROR"
	}
}
