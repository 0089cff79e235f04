package llm

import (
	"context"
	"sync"
)

// MockResponse is a canned reply. When Block is set the call waits for ctx to end.
type MockResponse struct {
	Content string
	Err     error
	Block   bool
}

// MockClient replays canned responses in FIFO order and records every call.
type MockClient struct {
	mu        sync.Mutex
	responses []MockResponse
	Calls     []MockCall
}

type MockCall struct {
	System string
	User   string
}

func NewMockClient(responses ...MockResponse) *MockClient {
	return &MockClient{responses: responses}
}

func (m *MockClient) Model() string { return "mock" }

func (m *MockClient) GenerateText(ctx context.Context, system string, user string) (string, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, MockCall{System: system, User: user})
	if len(m.responses) == 0 {
		m.mu.Unlock()
		return "", &ErrUnavailable{}
	}
	resp := m.responses[0]
	m.responses = m.responses[1:]
	m.mu.Unlock()

	if resp.Block {
		<-ctx.Done()
		return "", &ErrUnavailable{Err: ctx.Err()}
	}
	if resp.Err != nil {
		return "", resp.Err
	}
	return resp.Content, nil
}

func (m *MockClient) AddResponse(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, resp)
}

func (m *MockClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
