package advisory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/seat-sim/sim"
)

const (
	chatDefaultBaseURL     = "https://api.openai.com/v1"
	chatDefaultModel       = "gpt-4o-mini"
	chatDefaultTemperature = 0.7
	chatMaxTokens          = 1000
)

// Chat asks an OpenAI-compatible chat-completions endpoint. Replies are
// schema-validated; anything unusable is reported as sim.ErrMalformedReply
// so the advisory policy retries it.
type Chat struct {
	endpoint    string
	apiKey      string
	model       string
	temperature float64
	client      *http.Client
}

// NewChat creates a Chat backend. An API key is required unless BaseURL
// points at a local server.
func NewChat(opts Options) (*Chat, error) {
	base := strings.TrimRight(opts.BaseURL, "/")
	if base == "" {
		base = chatDefaultBaseURL
	}
	if opts.APIKey == "" && base == chatDefaultBaseURL {
		return nil, fmt.Errorf("chat advisor: no API key for %s", base)
	}
	model := opts.Model
	if model == "" {
		model = chatDefaultModel
	}
	temperature := opts.Temperature
	if temperature == 0 {
		temperature = chatDefaultTemperature
	}
	client := opts.HTTPClient
	if client == nil {
		timeout := opts.Timeout
		if timeout == 0 {
			timeout = 30 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	return &Chat{
		endpoint:    base + "/chat/completions",
		apiKey:      opts.APIKey,
		model:       model,
		temperature: temperature,
		client:      client,
	}, nil
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
	Stream      bool          `json:"stream"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// GenerateSchedule asks the model to plan one occupant's day.
func (c *Chat) GenerateSchedule(ctx context.Context, req sim.ScheduleRequest) (sim.ScheduleResponse, error) {
	reply, err := c.callAPI(ctx, SchedulePrompt(req))
	if err != nil {
		return sim.ScheduleResponse{}, fmt.Errorf("calling chat API: %w", err)
	}
	items, err := ParseScheduleReply(reply)
	if err != nil {
		logrus.Debugf("[advisory] occupant %d unusable schedule reply: %q", req.OccupantID, reply)
		return sim.ScheduleResponse{}, fmt.Errorf("parsing schedule reply: %w", err)
	}
	return sim.ScheduleResponse{Items: items}, nil
}

// DecideLeave asks the model whether the occupant keeps their seat.
func (c *Chat) DecideLeave(ctx context.Context, req sim.LeaveRequest) (sim.LeaveResponse, error) {
	reply, err := c.callAPI(ctx, LeavePrompt(req))
	if err != nil {
		return sim.LeaveResponse{}, fmt.Errorf("calling chat API: %w", err)
	}
	resp, err := ParseLeaveReply(reply)
	if err != nil {
		logrus.Debugf("[advisory] occupant %d unusable leave reply: %q", req.OccupantID, reply)
		return sim.LeaveResponse{}, fmt.Errorf("parsing leave reply: %w", err)
	}
	return resp, nil
}

// callAPI makes a request to the chat completions API.
func (c *Chat) callAPI(ctx context.Context, prompt string) (string, error) {
	reqBody := chatRequest{
		Model:       c.model,
		Messages:    []chatMessage{{Role: "system", Content: prompt}},
		Temperature: c.temperature,
		MaxTokens:   chatMaxTokens,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("parsing API response: %w", err)
	}
	if chatResp.Error != nil {
		return "", fmt.Errorf("API error: %s", chatResp.Error.Message)
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("no choices in API response")
	}
	return chatResp.Choices[0].Message.Content, nil
}
