package services

import (
	"bytes"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/gehma/internal/models"
)

func sequentialUUID(n byte) uuid.UUID {
	var id uuid.UUID
	id[0] = n
	return id
}

func TestCapRecipientsSortsAndTruncates(t *testing.T) {
	recipients := make([]recipient, 0, 200)
	for i := 199; i >= 0; i-- {
		recipients = append(recipients, recipient{
			ID:            sequentialUUID(byte(i)),
			FirebaseToken: fmt.Sprintf("token-%d", i),
			Name:          fmt.Sprintf("user-%d", i),
		})
	}

	entries := capRecipients(recipients)

	require.Len(t, entries, LimitPushNotificationContacts)

	// The cut keeps the 128 smallest recipient ids regardless of input
	// order.
	for i, entry := range entries {
		assert.Equal(t, fmt.Sprintf("token-%d", i), entry.Token)
	}
}

func TestCapRecipientsIsDeterministic(t *testing.T) {
	recipients := make([]recipient, 0, 300)
	for i := 0; i < 300; i++ {
		recipients = append(recipients, recipient{
			ID:            uuid.New(),
			FirebaseToken: fmt.Sprintf("token-%d", i),
			Name:          "user",
		})
	}

	first := capRecipients(recipients)

	shuffled := make([]recipient, len(recipients))
	copy(shuffled, recipients)
	rand.New(rand.NewSource(42)).Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	second := capRecipients(shuffled)
	assert.Equal(t, first, second)
}

func TestCapRecipientsSkipsEmptyTokens(t *testing.T) {
	recipients := []recipient{
		{ID: sequentialUUID(1), FirebaseToken: "t1", Name: "A"},
		{ID: sequentialUUID(2), FirebaseToken: "", Name: "B"},
		{ID: sequentialUUID(3), FirebaseToken: "t3", Name: "C"},
	}

	entries := capRecipients(recipients)

	require.Len(t, entries, 2)
	assert.Equal(t, []PushEntry{{Name: "A", Token: "t1"}, {Name: "C", Token: "t3"}}, entries)
}

func TestCapRecipientsBelowLimitKeepsAll(t *testing.T) {
	recipients := []recipient{
		{ID: sequentialUUID(2), FirebaseToken: "t2", Name: "B"},
		{ID: sequentialUUID(1), FirebaseToken: "t1", Name: "A"},
	}

	entries := capRecipients(recipients)

	require.Len(t, entries, 2)
	assert.Equal(t, "t1", entries[0].Token)
	assert.Equal(t, "t2", entries[1].Token)
}

func TestCapRecipientsDoesNotMutateInput(t *testing.T) {
	recipients := []recipient{
		{ID: sequentialUUID(9), FirebaseToken: "t9", Name: "Z"},
		{ID: sequentialUUID(1), FirebaseToken: "t1", Name: "A"},
	}

	capRecipients(recipients)

	assert.True(t, bytes.Equal(recipients[0].ID[:1], []byte{9}))
}

func TestEligibleRecipientsQueryNamesRecipientsFromOwnerContacts(t *testing.T) {
	// A push for originator A reaching recipient B carries the name A's own
	// contact row holds for B, not the name B stored for A.
	assert.Contains(t, eligibleRecipientsQuery, "own.name")
	assert.NotContains(t, eligibleRecipientsQuery, "mutual.name")
}

func TestEligibleRecipientsQueryFiltersBothBlacklistDirections(t *testing.T) {
	assert.Contains(t, eligibleRecipientsQuery, "b.hash_blocker = ? AND b.hash_blocked = u.hash_tele_num")
	assert.Contains(t, eligibleRecipientsQuery, "b.hash_blocker = u.hash_tele_num AND b.hash_blocked = ?")
	assert.Contains(t, eligibleRecipientsQuery, "ORDER BY u.id ASC")
}

func TestAssembleBroadcastViewEmbedsOriginator(t *testing.T) {
	originator := models.User{
		ID:          sequentialUUID(1),
		TeleNum:     "+4366412345678",
		Description: "x",
	}
	now := time.Now()
	broadcasts := []models.Broadcast{
		{ID: 7, OriginatorID: originator.ID, RecipientID: sequentialUUID(2), Text: "x", CreatedAt: now},
		{ID: 5, OriginatorID: originator.ID, RecipientID: sequentialUUID(2), Text: "earlier", CreatedAt: now.Add(-time.Minute)},
	}

	view, ids := assembleBroadcastView(broadcasts, []models.User{originator})

	require.Len(t, view, 2)
	assert.Equal(t, "x", view[0].Text)
	assert.Equal(t, "+4366412345678", view[0].Originator.TeleNum)
	assert.False(t, view[0].IsSeen)

	// The ids slated for the seen flip are exactly the rows returned, in
	// the same order.
	assert.Equal(t, []int64{7, 5}, ids)
}

func TestAssembleBroadcastViewEmptyInput(t *testing.T) {
	view, ids := assembleBroadcastView(nil, nil)
	assert.Empty(t, view)
	assert.Empty(t, ids)
}
