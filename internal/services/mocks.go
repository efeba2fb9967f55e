package services

import (
	"context"
	"sync"
)

// MockVerifier records verification calls and answers from scripted
// results.
type MockVerifier struct {
	mu sync.Mutex

	RequestedNumbers []string
	CheckedNumbers   []string
	CheckedCodes     []string

	RequestErr error
	CheckOK    bool
	CheckErr   error
}

func (m *MockVerifier) RequestCode(ctx context.Context, teleNum string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestedNumbers = append(m.RequestedNumbers, teleNum)
	return m.RequestErr
}

func (m *MockVerifier) CheckCode(ctx context.Context, teleNum, code string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CheckedNumbers = append(m.CheckedNumbers, teleNum)
	m.CheckedCodes = append(m.CheckedCodes, code)
	return m.CheckOK, m.CheckErr
}

// MockNotifier records every pushed batch.
type MockNotifier struct {
	mu sync.Mutex

	Batches [][]PushEntry
	Err     error
}

func (m *MockNotifier) Push(entries []PushEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	batch := make([]PushEntry, len(entries))
	copy(batch, entries)
	m.Batches = append(m.Batches, batch)
	return m.Err
}

// Entries flattens all recorded batches, preserving order.
func (m *MockNotifier) Entries() []PushEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []PushEntry
	for _, batch := range m.Batches {
		all = append(all, batch...)
	}
	return all
}
