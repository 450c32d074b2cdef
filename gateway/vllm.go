package gateway

import (
	"net/http"

	"github.com/fwojciec/pagecollect"
)

var _ Adapter = (*VLLMAdapter)(nil)

// VLLMAdapter talks to a vLLM server (or any OpenAI completions compatible
// server) via /v1/completions.
type VLLMAdapter struct{}

// Generation parameters sent to vLLM.
const (
	vllmMaxTokens   = 4096
	vllmTemperature = 0.7
)

type vllmCompletionRequest struct {
	Prompt       string  `json:"prompt"`
	MaxTokens    int     `json:"max_tokens"`
	Temperature  float64 `json:"temperature"`
	Model        string  `json:"model"`
	SystemPrompt string  `json:"system_prompt,omitempty"`
}

type vllmCompletionResponse struct {
	Choices []struct {
		Text string `json:"text"`
	} `json:"choices"`
}

func (a *VLLMAdapter) Name() string {
	return "VLLM"
}

func (a *VLLMAdapter) BuildGenerateRequest(s *pagecollect.BackendSettings, prompt, systemPrompt string) (*Request, error) {
	return newJSONRequest(http.MethodPost, baseURL(s)+"/v1/completions", vllmCompletionRequest{
		Prompt:       prompt,
		MaxTokens:    vllmMaxTokens,
		Temperature:  vllmTemperature,
		Model:        s.ModelName,
		SystemPrompt: systemPrompt,
	})
}

// ParseGenerateResponse returns the text of the first choice.
func (a *VLLMAdapter) ParseGenerateResponse(body []byte) (string, error) {
	var resp vllmCompletionResponse
	if err := decodeJSON(a.Name(), body, &resp); err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", pagecollect.Errorf(pagecollect.EFORMAT, "Unexpected VLLM response format")
	}
	return resp.Choices[0].Text, nil
}

// BuildProbeRequest builds a GET /v1/models request.
func (a *VLLMAdapter) BuildProbeRequest(s *pagecollect.BackendSettings) (*Request, error) {
	return newJSONRequest(http.MethodGet, baseURL(s)+"/v1/models", nil)
}

func (a *VLLMAdapter) StatusError(status int, body string) error {
	return pagecollect.BackendErrorf(status, body, "VLLM API error (%d): %s", status, body)
}

// ClassifyError returns transport errors unchanged.
func (a *VLLMAdapter) ClassifyError(err error) error {
	return err
}
