package services

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestFCMNotifier(endpoint string) *FCMNotifier {
	return &FCMNotifier{
		apiKey:   "test-key",
		endpoint: endpoint,
		client:   &http.Client{Timeout: time.Second},
		logger:   zap.NewNop(),
	}
}

func TestFCMNotifierSendsOneRequestPerEntry(t *testing.T) {
	var mu sync.Mutex
	var messages []fcmMessage

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "key=test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var msg fcmMessage
		require.NoError(t, json.NewDecoder(r.Body).Decode(&msg))

		mu.Lock()
		messages = append(messages, msg)
		mu.Unlock()
	}))
	defer srv.Close()

	n := newTestFCMNotifier(srv.URL)
	err := n.Push([]PushEntry{
		{Name: "Anna", Token: "t1"},
		{Name: "Berta", Token: "t2"},
	})
	require.NoError(t, err)
	require.Len(t, messages, 2)

	byToken := make(map[string]fcmMessage, len(messages))
	for _, msg := range messages {
		byToken[msg.To] = msg
	}

	assert.Equal(t, "Anna ist motiviert", byToken["t1"].Notification.Title)
	assert.Equal(t, "Berta ist motiviert", byToken["t2"].Notification.Title)
	assert.Equal(t, "high", byToken["t1"].Priority)
}

func TestFCMNotifierBoundsConcurrency(t *testing.T) {
	var inFlight, peak, total int64

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		current := atomic.AddInt64(&inFlight, 1)
		for {
			observed := atomic.LoadInt64(&peak)
			if current <= observed || atomic.CompareAndSwapInt64(&peak, observed, current) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		atomic.AddInt64(&inFlight, -1)
		atomic.AddInt64(&total, 1)
	}))
	defer srv.Close()

	entries := make([]PushEntry, 64)
	for i := range entries {
		entries[i] = PushEntry{Name: "User", Token: fmt.Sprintf("token-%d", i)}
	}

	n := newTestFCMNotifier(srv.URL)
	require.NoError(t, n.Push(entries))

	assert.EqualValues(t, 64, atomic.LoadInt64(&total))
	assert.LessOrEqual(t, atomic.LoadInt64(&peak), int64(pushConcurrency))
}

func TestFCMNotifierSwallowsPerRecipientFailures(t *testing.T) {
	var count int64

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt64(&count, 1)%2 == 0 {
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	entries := make([]PushEntry, 10)
	for i := range entries {
		entries[i] = PushEntry{Name: "User", Token: fmt.Sprintf("token-%d", i)}
	}

	n := newTestFCMNotifier(srv.URL)
	err := n.Push(entries)

	require.NoError(t, err)
	assert.EqualValues(t, 10, atomic.LoadInt64(&count))
}

func TestMockNotifierRecordsBatches(t *testing.T) {
	mock := &MockNotifier{}

	require.NoError(t, mock.Push([]PushEntry{{Name: "A", Token: "t1"}}))
	require.NoError(t, mock.Push([]PushEntry{{Name: "B", Token: "t2"}, {Name: "C", Token: "t3"}}))

	require.Len(t, mock.Batches, 2)
	assert.Len(t, mock.Entries(), 3)
	assert.Equal(t, "t1", mock.Entries()[0].Token)
}
