package gateway

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/fwojciec/pagecollect"
)

var _ Adapter = (*CustomAdapter)(nil)

// CustomAdapter talks to an arbitrary JSON endpoint. It recognizes the
// response envelopes of the common LLM servers and falls back to returning
// the raw JSON when none match.
type CustomAdapter struct{}

// Probe request values, chosen to keep the test generation short.
const (
	customProbePrompt    = "Hello, this is a test."
	customProbeMaxTokens = 5
)

type customGenerateRequest struct {
	Prompt       string `json:"prompt"`
	Model        string `json:"model"`
	SystemPrompt string `json:"system_prompt,omitempty"`
}

type customProbeRequest struct {
	Prompt    string `json:"prompt"`
	Model     string `json:"model"`
	MaxTokens int    `json:"max_tokens"`
}

func (a *CustomAdapter) Name() string {
	return "Custom"
}

func (a *CustomAdapter) BuildGenerateRequest(s *pagecollect.BackendSettings, prompt, systemPrompt string) (*Request, error) {
	r, err := newJSONRequest(http.MethodPost, baseURL(s)+s.Endpoint, customGenerateRequest{
		Prompt:       prompt,
		Model:        s.ModelName,
		SystemPrompt: systemPrompt,
	})
	if err != nil {
		return nil, err
	}
	setBearer(r, s.APIKey)
	return r, nil
}

// ParseGenerateResponse extracts the answer from the first field present,
// in order: response, choices[0].text, choices[0].message.content, output,
// content. Fields holding null, false, zero or "" are skipped; other
// non-string values are returned as JSON. If no field qualifies the body is
// returned as indented JSON.
func (a *CustomAdapter) ParseGenerateResponse(body []byte) (string, error) {
	if !json.Valid(body) {
		return "", pagecollect.Errorf(pagecollect.EMALFORMED, "Invalid JSON in API response")
	}

	var data any
	if err := json.Unmarshal(body, &data); err != nil {
		return "", pagecollect.Errorf(pagecollect.EMALFORMED, "Invalid JSON in API response")
	}

	if obj, ok := data.(map[string]any); ok {
		if s, ok := stringField(obj, "response"); ok {
			return s, nil
		}
		if choice := firstChoice(obj); choice != nil {
			if s, ok := stringField(choice, "text"); ok {
				return s, nil
			}
			if msg, ok := choice["message"].(map[string]any); ok {
				if s, ok := stringField(msg, "content"); ok {
					return s, nil
				}
			}
		}
		if s, ok := stringField(obj, "output"); ok {
			return s, nil
		}
		if s, ok := stringField(obj, "content"); ok {
			return s, nil
		}
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, bytes.TrimSpace(body), "", "  "); err != nil {
		return "", pagecollect.Errorf(pagecollect.EMALFORMED, "Invalid JSON in API response")
	}
	return buf.String(), nil
}

// BuildProbeRequest builds a minimal generate request.
func (a *CustomAdapter) BuildProbeRequest(s *pagecollect.BackendSettings) (*Request, error) {
	r, err := newJSONRequest(http.MethodPost, baseURL(s)+s.Endpoint, customProbeRequest{
		Prompt:    customProbePrompt,
		Model:     s.ModelName,
		MaxTokens: customProbeMaxTokens,
	})
	if err != nil {
		return nil, err
	}
	setBearer(r, s.APIKey)
	return r, nil
}

func (a *CustomAdapter) StatusError(status int, body string) error {
	return pagecollect.BackendErrorf(status, body, "API error (%d): %s", status, body)
}

// ClassifyError returns transport errors unchanged.
func (a *CustomAdapter) ClassifyError(err error) error {
	return err
}

// setBearer adds an Authorization header when an API key is configured.
func setBearer(r *Request, apiKey string) {
	if apiKey != "" {
		r.Header.Set("Authorization", "Bearer "+apiKey)
	}
}

// stringField returns obj[key] as text unless it is missing, null, false,
// zero or the empty string. Non-string values are rendered as compact JSON.
func stringField(obj map[string]any, key string) (string, bool) {
	switch v := obj[key].(type) {
	case nil:
		return "", false
	case string:
		return v, v != ""
	case bool:
		return "true", v
	case float64:
		if v == 0 {
			return "", false
		}
	}
	b, err := json.Marshal(obj[key])
	if err != nil {
		return "", false
	}
	return string(b), true
}

// firstChoice returns choices[0] if it is an object.
func firstChoice(obj map[string]any) map[string]any {
	choices, ok := obj["choices"].([]any)
	if !ok || len(choices) == 0 {
		return nil
	}
	choice, _ := choices[0].(map[string]any)
	return choice
}
