// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the legal research backend.
//
// The backend exposes a small JSON API: a chat endpoint that answers
// questions about Indian law with citations, a document analysis endpoint
// that accepts multipart uploads, and a health probe. This package wraps
// those endpoints with timeouts, size limits, and structured errors.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/jeranaias/nyaya-tui/internal/model"
)

// Configuration constants for the backend API.
const (
	// DefaultBaseURL is where a locally run backend listens.
	DefaultBaseURL = "http://localhost:8000"

	// DefaultTimeout is the default timeout for API requests. Legal
	// retrieval plus generation routinely takes tens of seconds.
	DefaultTimeout = 60 * time.Second

	// MaxResponseSize caps response body reads to prevent memory
	// exhaustion from a misbehaving backend.
	MaxResponseSize = 10 * 1024 * 1024 // 10MB

	// requestsPerMinute mirrors the backend's documented rate limit.
	// The client-side limiter keeps bursts from tripping HTTP 429.
	requestsPerMinute = 60
)

// sharedHTTPClient is used for all backend requests. Connection pooling
// matters here because the TUI issues a request per user turn. No
// client-level Timeout: deadlines come from the per-request contexts,
// so a configured timeout above the default is honored.
var sharedHTTPClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	},
}

// Error variables for common backend failures. Callers collapse these to
// one generic message for display but log and test against the kinds.
var (
	// ErrUnavailable indicates the backend could not be reached or
	// answered with a server error.
	ErrUnavailable = errors.New("backend unavailable")

	// ErrTimeout indicates the request exceeded its deadline.
	ErrTimeout = errors.New("request timed out")

	// ErrRateLimited indicates too many requests were made.
	ErrRateLimited = errors.New("rate limited")

	// ErrBadRequest indicates the backend rejected the request payload.
	ErrBadRequest = errors.New("bad request")
)

// APIError represents an error response from the backend. It unwraps to
// one of the sentinel errors above so errors.Is works on the kind while
// errors.As still reaches the status and message.
type APIError struct {
	Status  int
	Message string
	kind    error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend error (HTTP %d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("backend error (HTTP %d)", e.Status)
}

// Unwrap returns the sentinel error kind.
func (e *APIError) Unwrap() error {
	return e.kind
}

// ErrorKind maps an error to the kind string recorded on fallback
// messages. Returns "" for nil.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, ErrBadRequest):
		return "bad_request"
	default:
		return "unavailable"
	}
}

// =============================================================================
// REQUEST / RESPONSE TYPES
// =============================================================================

// ChatRequest is the body for the chat endpoint.
type ChatRequest struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversation_id,omitempty"`
}

// ChatResponse is the answer returned by the chat endpoint. Only the
// response text is required; sources and the conversation ID are
// optional extras the backend may include.
type ChatResponse struct {
	Response       string         `json:"response"`
	Sources        []model.Source `json:"sources,omitempty"`
	ConversationID string         `json:"conversation_id,omitempty"`
}

// AnalysisResponse is the result of a document analysis.
type AnalysisResponse struct {
	Analysis string `json:"analysis"`
}

// HealthStatus reports backend liveness.
type HealthStatus struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

// errorResponse is the backend's error envelope. FastAPI-style backends
// use "detail"; others use "error".
type errorResponse struct {
	Detail string `json:"detail"`
	Error  string `json:"error"`
}

// =============================================================================
// CLIENT
// =============================================================================

// Client talks to the legal research backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	limiter    *rate.Limiter
	userAgent  string
}

// NewClient creates a client for the given base URL. An empty baseURL
// falls back to DefaultBaseURL.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: sharedHTTPClient,
		timeout:    DefaultTimeout,
		limiter:    rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60.0), requestsPerMinute/6),
		userAgent:  "nyaya/" + clientVersion,
	}
}

// clientVersion is stamped into the User-Agent header.
var clientVersion = "0.3.0"

// WithTimeout sets the request timeout.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	c.timeout = timeout
	return c
}

// WithHTTPClient sets a custom HTTP client, mainly for tests.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// WithLimiter replaces the client-side rate limiter.
func (c *Client) WithLimiter(l *rate.Limiter) *Client {
	c.limiter = l
	return c
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// =============================================================================
// ENDPOINTS
// =============================================================================

// Chat sends a user message and returns the backend's answer. The
// conversationID threads server-side context and may be empty for the
// first turn.
func (c *Client) Chat(ctx context.Context, message, conversationID string) (*ChatResponse, error) {
	reqBody := ChatRequest{
		Message:        message,
		ConversationID: conversationID,
	}
	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	body, err := c.post(ctx, "/api/chat", "application/json", bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, err
	}

	var chatResp ChatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return &chatResp, nil
}

// AnalyzeDocument uploads a document for analysis. The reader supplies
// the file content; filename is sent as the multipart filename and is
// what the backend uses to pick a parser.
func (c *Client) AnalyzeDocument(ctx context.Context, filename string, r io.Reader) (*AnalysisResponse, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, fmt.Errorf("failed to read file content: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize form: %w", err)
	}

	body, err := c.post(ctx, "/api/analyze-document", w.FormDataContentType(), &buf)
	if err != nil {
		return nil, err
	}

	var analysisResp AnalysisResponse
	if err := json.Unmarshal(body, &analysisResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return &analysisResp, nil
}

// Health probes the backend's health endpoint.
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := readResponse(resp)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, c.handleErrorResponse(resp.StatusCode, body)
	}

	var status HealthStatus
	if err := json.Unmarshal(body, &status); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return &status, nil
}

// =============================================================================
// INTERNALS
// =============================================================================

// post issues a rate-limited POST and returns the success body.
func (c *Client) post(ctx context.Context, path, contentType string, body io.Reader) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, classifyTransportError(err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := readResponse(resp)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, c.handleErrorResponse(resp.StatusCode, respBody)
	}
	return respBody, nil
}

// do executes the request with logging. Only method, path, status, and
// duration are logged, never bodies.
func (c *Client) do(req *http.Request) (*http.Response, error) {
	log.Printf("API Request: %s %s", req.Method, req.URL.Path)

	startTime := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(startTime)

	if err != nil {
		log.Printf("API Error: %s %s (%v): %v", req.Method, req.URL.Path, duration, err)
		return nil, classifyTransportError(err)
	}

	log.Printf("API Response: %d (%v)", resp.StatusCode, duration)
	return resp, nil
}

// classifyTransportError maps transport-level failures onto the error
// kinds. Context deadline means timeout; everything else means the
// backend could not be reached.
func classifyTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}

// readResponse reads the response body with a size limit.
func readResponse(resp *http.Response) ([]byte, error) {
	limitedReader := io.LimitReader(resp.Body, MaxResponseSize)
	body, err := io.ReadAll(limitedReader)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	if int64(len(body)) == MaxResponseSize {
		return nil, fmt.Errorf("response exceeded maximum size of %d bytes", MaxResponseSize)
	}
	return body, nil
}

// handleErrorResponse converts HTTP error responses to the error kinds.
func (c *Client) handleErrorResponse(statusCode int, body []byte) error {
	msg := ""
	var errResp errorResponse
	if err := json.Unmarshal(body, &errResp); err == nil {
		if errResp.Detail != "" {
			msg = errResp.Detail
		} else if errResp.Error != "" {
			msg = errResp.Error
		}
	}

	apiErr := &APIError{Status: statusCode, Message: msg}

	switch {
	case statusCode == http.StatusTooManyRequests:
		apiErr.kind = ErrRateLimited
	case statusCode == http.StatusRequestTimeout:
		apiErr.kind = ErrTimeout
	case statusCode >= 400 && statusCode < 500:
		apiErr.kind = ErrBadRequest
	default:
		apiErr.kind = ErrUnavailable
	}
	return apiErr
}
