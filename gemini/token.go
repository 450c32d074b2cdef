// Package gemini estimates prompt sizes with the Gemini local tokenizer.
// Local models use different vocabularies, so counts are an approximation
// of what an Ollama or VLLM backend will see.
package gemini

import (
	"context"
	"fmt"
	"sync"

	"github.com/fwojciec/pagecollect"
	"google.golang.org/genai"
	"google.golang.org/genai/tokenizer"
)

// DefaultModel is the tokenizer model used when none is given.
const DefaultModel = "gemini-2.0-flash"

var _ pagecollect.TokenCounter = (*TokenCounter)(nil)

// TokenCounter counts tokens with a local tokenizer. The tokenizer's
// vocabulary is loaded on first use, which may require network access.
type TokenCounter struct {
	model string

	once sync.Once
	tok  *tokenizer.LocalTokenizer
	err  error
}

// NewTokenCounter returns a TokenCounter for model, or DefaultModel if empty.
func NewTokenCounter(model string) *TokenCounter {
	if model == "" {
		model = DefaultModel
	}
	return &TokenCounter{model: model}
}

func (tc *TokenCounter) load() (*tokenizer.LocalTokenizer, error) {
	tc.once.Do(func() {
		tc.tok, tc.err = tokenizer.NewLocalTokenizer(tc.model)
		if tc.err != nil {
			tc.err = fmt.Errorf("load tokenizer %s: %w", tc.model, tc.err)
		}
	})
	return tc.tok, tc.err
}

// CountTokens counts the tokens in text.
func (tc *TokenCounter) CountTokens(ctx context.Context, text string) (int, error) {
	if text == "" {
		return 0, nil
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	tok, err := tc.load()
	if err != nil {
		return 0, err
	}

	result, err := tok.CountTokens([]*genai.Content{genai.NewContentFromText(text, "user")}, nil)
	if err != nil {
		return 0, err
	}
	return int(result.TotalTokens), nil
}

// EstimateTokens is a rough count of four bytes per token, used when no
// tokenizer is available.
func EstimateTokens(text string) int {
	return (len(text) + 3) / 4
}
