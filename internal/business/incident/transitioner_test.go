package incident

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oip/ordersync/internal/entity"
	"oip/ordersync/pkg/errorutil"
	"oip/ordersync/pkg/logger"
)

type storedItem struct {
	account     string
	incidentID  int64
	status      string
	response    interface{}
	completedAt time.Time
}

// memStore 按条件更新语义模拟文档库
type memStore struct {
	mu    sync.Mutex
	items []*storedItem
	err   error
	calls int
}

func (m *memStore) CompleteOpen(
	ctx context.Context,
	item *entity.WorkItem,
	response interface{},
	completedAt time.Time,
) (int64, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return 0, 0, m.err
	}
	for _, it := range m.items {
		if it.account == item.AccountNumber && it.incidentID == item.IncidentID && it.status == entity.RequestStatusOpen {
			it.status = entity.RequestStatusCompleted
			it.response = response
			it.completedAt = completedAt
			return 1, 1, nil
		}
	}
	return 0, 0, nil
}

func openItem() *entity.WorkItem {
	return &entity.WorkItem{ID: "w1", OrderType: 1, AccountNumber: "0011", IncidentID: 77, RequestStatus: entity.RequestStatusOpen}
}

func TestCompleteIsIdempotent(t *testing.T) {
	store := &memStore{items: []*storedItem{
		{account: "0011", incidentID: 77, status: entity.RequestStatusOpen},
	}}
	tr := NewTransitioner(store, logger.NewNop())
	at := time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)
	tr.now = func() time.Time { return at }

	completedAt, err := tr.Complete(context.Background(), openItem(), map[string]interface{}{"id": "INC-77"})
	require.NoError(t, err)
	assert.Equal(t, at, completedAt)
	assert.Equal(t, entity.RequestStatusCompleted, store.items[0].status)
	assert.Equal(t, at, store.items[0].completedAt)

	_, err = tr.Complete(context.Background(), openItem(), map[string]interface{}{"id": "INC-77"})
	require.Error(t, err)
	assert.True(t, errorutil.Is(err, errorutil.KindTransitionFailed))
	assert.Equal(t, at, store.items[0].completedAt)
}

func TestCompleteNoMatch(t *testing.T) {
	tr := NewTransitioner(&memStore{}, logger.NewNop())

	_, err := tr.Complete(context.Background(), openItem(), "ok")
	require.Error(t, err)
	assert.True(t, errorutil.Is(err, errorutil.KindTransitionFailed))
	assert.False(t, errorutil.IsRetryable(err))
}

type countingStore struct {
	matched, modified int64
}

func (c countingStore) CompleteOpen(context.Context, *entity.WorkItem, interface{}, time.Time) (int64, int64, error) {
	return c.matched, c.modified, nil
}

func TestCompleteRequiresExactlyOne(t *testing.T) {
	for _, c := range []countingStore{{1, 0}, {0, 1}, {2, 2}} {
		_, err := NewTransitioner(c, logger.NewNop()).Complete(context.Background(), openItem(), "ok")
		assert.True(t, errorutil.Is(err, errorutil.KindTransitionFailed), "%+v", c)
	}
}

func TestCompleteStoreError(t *testing.T) {
	store := &memStore{err: errors.New("connection reset")}
	tr := NewTransitioner(store, logger.NewNop())

	_, err := tr.Complete(context.Background(), openItem(), "ok")
	require.Error(t, err)
	assert.True(t, errorutil.Is(err, errorutil.KindTransitionFailed))
	assert.Equal(t, 1, store.calls)
}
