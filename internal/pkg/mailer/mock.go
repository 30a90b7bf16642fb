package mailer

import (
	"context"
	"sync"
)

// Mock records sent mail for tests.
type Mock struct {
	mu   sync.Mutex
	Sent []Email
	Err  error // returned from Send when non-nil
}

func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) Send(ctx context.Context, e Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Sent = append(m.Sent, e)
	return nil
}

// SentCount returns how many messages were recorded.
func (m *Mock) SentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Sent)
}

var _ Service = (*Mock)(nil)
