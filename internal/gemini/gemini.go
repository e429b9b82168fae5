package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/longkey1/dsadrill/internal/drill"
)

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

	// maxLoggedBody bounds how much of an error body is written to the log.
	maxLoggedBody = 4096
)

// ModelsAPIResponse represents the response from Gemini's models endpoint
type ModelsAPIResponse struct {
	Models []GeminiModelData `json:"models"`
}

// GeminiModelData represents a single model in the API response
type GeminiModelData struct {
	Name                       string   `json:"name"`
	DisplayName                string   `json:"displayName"`
	Description                string   `json:"description"`
	SupportedGenerationMethods []string `json:"supportedGenerationMethods"`
}

// GeminiRequest represents the request body for Gemini's generate content API
type GeminiRequest struct {
	Contents          []GeminiContent          `json:"contents"`
	SystemInstruction *GeminiSystemInstruction `json:"systemInstruction,omitempty"`
	GenerationConfig  *GeminiGenerationConfig  `json:"generationConfig,omitempty"`
}

// GeminiSystemInstruction represents system instruction for Gemini
type GeminiSystemInstruction struct {
	Parts []GeminiPart `json:"parts"`
}

// GeminiContent represents a content item in the Gemini request format
type GeminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []GeminiPart `json:"parts"`
}

// GeminiPart represents a part of the content in the Gemini request format
type GeminiPart struct {
	Text string `json:"text"`
}

// GeminiGenerationConfig holds sampling parameters
type GeminiGenerationConfig struct {
	Temperature float64 `json:"temperature"`
}

// GeminiResponse represents the full response from Gemini API
type GeminiResponse struct {
	Candidates []GeminiCandidate `json:"candidates"`
}

// GeminiCandidate represents a candidate response
type GeminiCandidate struct {
	Content *GeminiResponseContent `json:"content"`
}

// GeminiResponseContent represents the content of a response
type GeminiResponseContent struct {
	Parts []GeminiResponsePart `json:"parts"`
}

// GeminiResponsePart represents a part of the response content
type GeminiResponsePart struct {
	Text *string `json:"text"`
}

// firstText returns candidates[0].content.parts[0].text, or "" when any
// step of that path is missing.
func (r *GeminiResponse) firstText() string {
	if len(r.Candidates) == 0 {
		return ""
	}
	content := r.Candidates[0].Content
	if content == nil || len(content.Parts) == 0 || content.Parts[0].Text == nil {
		return ""
	}
	return *content.Parts[0].Text
}

// StatusError reports a non-2xx answer from the API. Body holds the raw
// response for diagnostics and is never shown to the end user.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API error (HTTP %d)", e.StatusCode)
}

// Unwrap lets callers match drill.ErrDelivery with errors.Is.
func (e *StatusError) Unwrap() error {
	return drill.ErrDelivery
}

// Config defines the configuration interface for the Gemini client
type Config interface {
	GetModel() string
	GetBaseURL() string
	GetToken() string
	GetRequestTimeout() time.Duration
}

// Client implements drill.Generator for Gemini's generateContent endpoint.
// Every call is stateless: only the given text and the system instruction
// are sent.
type Client struct {
	config      Config
	instruction string
	temperature float64
	httpClient  *http.Client
	logger      *zap.Logger
}

// NewClient creates a new Gemini client that sends instruction as the
// system instruction of every request.
func NewClient(config Config, instruction string, temperature float64, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		config:      config,
		instruction: instruction,
		temperature: temperature,
		httpClient:  &http.Client{},
		logger:      logger,
	}
}

// SetHTTPClient replaces the HTTP client used for requests
func (c *Client) SetHTTPClient(httpClient *http.Client) {
	if httpClient != nil {
		c.httpClient = httpClient
	}
}

// Generate sends userText to Gemini and returns the generated reply.
//
// Outcomes:
//   - reply text, nil: the first candidate's text
//   - drill.NoDataText, nil: a 2xx answer without generated text
//   - drill.UnreachableText, nil: no usable response (transport failure,
//     unreadable or undecodable body)
//   - "", *StatusError: a non-2xx answer
//   - "", error wrapping drill.ErrDelivery: the configured request timeout passed
func (c *Client) Generate(ctx context.Context, userText string) (string, error) {
	reqBody := GeminiRequest{
		Contents: []GeminiContent{
			{
				Parts: []GeminiPart{{Text: userText}},
			},
		},
		SystemInstruction: &GeminiSystemInstruction{
			Parts: []GeminiPart{{Text: c.instruction}},
		},
		GenerationConfig: &GeminiGenerationConfig{
			Temperature: c.temperature,
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("error marshaling request: %w", err)
	}

	endpoint := c.endpoint(":generateContent")

	if timeout := c.config.GetRequestTimeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	log := c.logger.With(zap.String("model", c.config.GetModel()))
	log.Debug("sending generateContent request",
		zap.String("url", redact(endpoint)),
		zap.Int("bytes", len(jsonData)))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() != nil {
			log.Warn("request timed out", zap.Duration("timeout", c.config.GetRequestTimeout()))
			return "", fmt.Errorf("request timed out: %w", drill.ErrDelivery)
		}
		log.Error("network or API error", zap.Error(scrub(err)))
		return drill.UnreachableText, nil
	}
	defer resp.Body.Close()

	body, readErr := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Error("Gemini API error",
			zap.Int("status", resp.StatusCode),
			zap.String("body", truncate(string(body), maxLoggedBody)))
		return "", &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	if readErr != nil {
		if errors.Is(readErr, context.DeadlineExceeded) && ctx.Err() != nil {
			log.Warn("request timed out while reading", zap.Duration("timeout", c.config.GetRequestTimeout()))
			return "", fmt.Errorf("request timed out: %w", drill.ErrDelivery)
		}
		log.Error("error reading response", zap.Error(readErr))
		return drill.UnreachableText, nil
	}

	log.Debug("raw API response", zap.String("body", truncate(string(body), maxLoggedBody)))

	var result GeminiResponse
	if err := json.Unmarshal(body, &result); err != nil {
		log.Error("error parsing response", zap.Error(err))
		return drill.UnreachableText, nil
	}

	text := result.firstText()
	if text == "" {
		log.Warn("no generated text in response", zap.Int("candidates", len(result.Candidates)))
		return drill.NoDataText, nil
	}

	return text, nil
}

// ListModels returns the models that support generateContent, sorted by ID
// (descending order). The configured model is flagged as default.
func (c *Client) ListModels(ctx context.Context) ([]drill.ModelInfo, error) {
	endpoint := c.config.GetBaseURL() + "/models?key=" + url.QueryEscape(c.config.GetToken())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("models request failed", zap.Error(scrub(err)))
		return nil, fmt.Errorf("failed to connect to API. Use --verbose for details")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Debug("models request rejected",
			zap.Int("status", resp.StatusCode),
			zap.String("body", truncate(string(body), maxLoggedBody)))
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var result ModelsAPIResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse API response: %w", err)
	}

	configured := c.config.GetModel()
	models := make([]drill.ModelInfo, 0, len(result.Models))
	for _, model := range result.Models {
		// Only include models that support generateContent
		if !contains(model.SupportedGenerationMethods, "generateContent") {
			continue
		}

		id := strings.TrimPrefix(model.Name, "models/")
		description := model.Description
		if description == "" {
			description = model.DisplayName
		}

		models = append(models, drill.ModelInfo{
			ID:          id,
			Description: description,
			IsDefault:   id == configured,
		})
	}

	sort.Slice(models, func(i, j int) bool {
		return models[i].ID > models[j].ID
	})

	return models, nil
}

// endpoint builds the model URL for the given method suffix.
func (c *Client) endpoint(method string) string {
	baseURL := c.config.GetBaseURL()
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return fmt.Sprintf("%s/models/%s%s?key=%s",
		baseURL,
		url.PathEscape(c.config.GetModel()),
		method,
		url.QueryEscape(c.config.GetToken()))
}

// contains checks if a string slice contains a specific string
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

// redact hides the API key in a request URL.
func redact(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "<invalid url>"
	}
	q := u.Query()
	if q.Has("key") {
		q.Set("key", "REDACTED")
		u.RawQuery = q.Encode()
	}
	return u.String()
}

// scrub removes the request URL (and with it the API key) from transport
// errors before they are logged.
func scrub(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("%s %s: %w", urlErr.Op, redact(urlErr.URL), urlErr.Err)
	}
	return err
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "...(truncated)"
}
