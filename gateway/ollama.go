package gateway

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"syscall"

	"github.com/fwojciec/pagecollect"
)

// CORSMessage explains how to fix an Ollama server that refuses connections
// from the collector.
const CORSMessage = "CORS error connecting to Ollama. Make sure Ollama is running with CORS enabled. Try running Ollama with: OLLAMA_ORIGINS=* ollama serve"

var _ Adapter = (*OllamaAdapter)(nil)

// OllamaAdapter talks to an Ollama server via /api/generate.
type OllamaAdapter struct{}

type ollamaGenerateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
	System string `json:"system,omitempty"`
}

type ollamaGenerateResponse struct {
	Response *string `json:"response"`
}

func (a *OllamaAdapter) Name() string {
	return "Ollama"
}

// BuildGenerateRequest builds a non-streaming POST /api/generate request.
func (a *OllamaAdapter) BuildGenerateRequest(s *pagecollect.BackendSettings, prompt, systemPrompt string) (*Request, error) {
	return newJSONRequest(http.MethodPost, baseURL(s)+"/api/generate", ollamaGenerateRequest{
		Model:  s.ModelName,
		Prompt: prompt,
		Stream: false,
		System: systemPrompt,
	})
}

// ParseGenerateResponse returns the response field of the body.
func (a *OllamaAdapter) ParseGenerateResponse(body []byte) (string, error) {
	var resp ollamaGenerateResponse
	if err := decodeJSON(a.Name(), body, &resp); err != nil {
		return "", err
	}
	if resp.Response == nil {
		return "", pagecollect.Errorf(pagecollect.EFORMAT, "Unexpected Ollama response format")
	}
	return *resp.Response, nil
}

// BuildProbeRequest builds a GET /api/tags request, which lists local models.
func (a *OllamaAdapter) BuildProbeRequest(s *pagecollect.BackendSettings) (*Request, error) {
	return newJSONRequest(http.MethodGet, baseURL(s)+"/api/tags", nil)
}

func (a *OllamaAdapter) StatusError(status int, body string) error {
	return pagecollect.BackendErrorf(status, body, "Ollama API error (%d): %s", status, body)
}

// ClassifyError reports connection failures as EUNREACHABLE with
// instructions for enabling cross-origin requests on the Ollama server.
// Other errors are returned unchanged.
func (a *OllamaAdapter) ClassifyError(err error) error {
	if isUnreachable(err) {
		return pagecollect.Errorf(pagecollect.EUNREACHABLE, CORSMessage)
	}
	return err
}

// isUnreachable reports whether err means the server refused or could not
// be reached. Cancellation and deadlines never count.
func isUnreachable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	msg := err.Error()
	if strings.Contains(msg, "Failed to fetch") || strings.Contains(msg, "CORS") {
		return true
	}
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) {
		return true
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr) && opErr.Op == "dial"
}
