package pagecollect

import "context"

// QueryRequest is a question about a set of collected pages.
type QueryRequest struct {
	Settings       *BackendSettings `json:"settings"`
	Prompt         string           `json:"prompt"`
	SystemPrompt   string           `json:"systemPrompt"`
	CollectedPages []*PageRecord    `json:"collectedPages"`
}

// Gateway sends questions about collected pages to an LLM backend.
type Gateway interface {
	// Query aggregates the collected pages with the prompt, sends them to
	// the backend selected by the settings, and returns the model's answer.
	//
	// Returns ENOCONTENT if no pages were collected, EINVALID for a missing
	// prompt or settings or an unknown backend type.
	Query(ctx context.Context, req *QueryRequest) (string, error)

	// Test performs a minimal request to verify the backend is reachable.
	Test(ctx context.Context, settings *BackendSettings) error
}

// unknownErrorMessage is reported when a failure carries no message.
const unknownErrorMessage = "Unknown error"

// QueryResult is the outcome of a query as reported to callers.
type QueryResult struct {
	OK        bool   `json:"ok"`
	Text      string `json:"text,omitempty"`
	ErrorKind string `json:"errorKind,omitempty"`
	Message   string `json:"message,omitempty"`
}

// NewQueryResult converts the return values of Gateway.Query into a QueryResult.
func NewQueryResult(text string, err error) QueryResult {
	if err != nil {
		kind, msg := resultError(err)
		return QueryResult{ErrorKind: kind, Message: msg}
	}
	return QueryResult{OK: true, Text: text}
}

// TestResult is the outcome of a connection test as reported to callers.
type TestResult struct {
	OK        bool   `json:"ok"`
	ErrorKind string `json:"errorKind,omitempty"`
	Message   string `json:"message,omitempty"`
}

// NewTestResult converts the return value of Gateway.Test into a TestResult.
func NewTestResult(err error) TestResult {
	if err != nil {
		kind, msg := resultError(err)
		return TestResult{ErrorKind: kind, Message: msg}
	}
	return TestResult{OK: true}
}

func resultError(err error) (kind, msg string) {
	msg = ErrorMessage(err)
	if msg == "" {
		msg = unknownErrorMessage
	}
	return ErrorCode(err), msg
}

// QueryLLM runs a query and reports the outcome as a QueryResult.
func QueryLLM(ctx context.Context, g Gateway, req *QueryRequest) QueryResult {
	return NewQueryResult(g.Query(ctx, req))
}

// TestConnection tests a backend and reports the outcome as a TestResult.
func TestConnection(ctx context.Context, g Gateway, settings *BackendSettings) TestResult {
	return NewTestResult(g.Test(ctx, settings))
}

// QueryLLMAsync runs QueryLLM in a new goroutine. The returned channel
// receives exactly one result and is then closed.
func QueryLLMAsync(ctx context.Context, g Gateway, req *QueryRequest) <-chan QueryResult {
	ch := make(chan QueryResult, 1)
	go func() {
		defer close(ch)
		ch <- QueryLLM(ctx, g, req)
	}()
	return ch
}

// TestConnectionAsync runs TestConnection in a new goroutine. The returned
// channel receives exactly one result and is then closed.
func TestConnectionAsync(ctx context.Context, g Gateway, settings *BackendSettings) <-chan TestResult {
	ch := make(chan TestResult, 1)
	go func() {
		defer close(ch)
		ch <- TestConnection(ctx, g, settings)
	}()
	return ch
}
