package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// LimitPushNotificationContacts caps how many recipients a single state
// change may push to. The broadcast engine sorts recipients by id before
// truncating so the cut is deterministic.
const LimitPushNotificationContacts = 128

// pushConcurrency bounds how many gateway requests are in flight at once.
const pushConcurrency = 10

// PushEntry pairs the display name a recipient stored for the originator
// with that recipient's device token.
type PushEntry struct {
	Name  string
	Token string
}

// Notifier delivers a batch of push notifications. Implementations must
// tolerate per-recipient failures without failing the batch.
type Notifier interface {
	Push(entries []PushEntry) error
}

// FCMNotifier fans a batch out to the FCM HTTP gateway.
type FCMNotifier struct {
	apiKey   string
	endpoint string
	client   *http.Client
	logger   *zap.Logger
}

// NewFCMNotifier creates a production notifier.
func NewFCMNotifier(apiKey string, logger *zap.Logger) *FCMNotifier {
	return &FCMNotifier{
		apiKey:   apiKey,
		endpoint: "https://fcm.googleapis.com/fcm/send",
		client:   &http.Client{Timeout: 10 * time.Second},
		logger:   logger,
	}
}

type fcmNotification struct {
	Title string `json:"title"`
}

type fcmMessage struct {
	To           string          `json:"to"`
	Priority     string          `json:"priority"`
	Notification fcmNotification `json:"notification"`
}

// Push sends one gateway request per entry with bounded in-flight
// concurrency. Individual failures are logged and swallowed; the batch
// always runs to completion and never reports them to the caller. The
// batch deliberately carries no request context: cancelling the HTTP
// request that triggered the fan-out must not abort deliveries.
func (n *FCMNotifier) Push(entries []PushEntry) error {
	group := new(errgroup.Group)
	group.SetLimit(pushConcurrency)

	for _, entry := range entries {
		entry := entry
		group.Go(func() error {
			if err := n.send(entry); err != nil {
				n.logger.Warn("push delivery failed",
					zap.String("name", entry.Name),
					zap.Error(err))
			}
			return nil
		})
	}

	return group.Wait()
}

func (n *FCMNotifier) send(entry PushEntry) error {
	message := fcmMessage{
		To:       entry.Token,
		Priority: "high",
		Notification: fcmNotification{
			Title: fmt.Sprintf("%s ist motiviert", entry.Name),
		},
	}

	body, err := json.Marshal(message)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, n.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "key="+n.apiKey)

	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("push gateway returned status %d", resp.StatusCode)
	}

	return nil
}
