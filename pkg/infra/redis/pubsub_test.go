package redis

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oip/ordersync/internal/model"
)

type fakePublisher struct {
	channel string
	message interface{}
	err     error
	closed  bool
}

func (f *fakePublisher) Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd {
	f.channel = channel
	f.message = message
	cmd := redis.NewIntCmd(ctx, "publish", channel, message)
	if f.err != nil {
		cmd.SetErr(f.err)
	} else {
		cmd.SetVal(1)
	}
	return cmd
}

func (f *fakePublisher) Close() error {
	f.closed = true
	return nil
}

func TestNotifyPublishesJSON(t *testing.T) {
	fp := &fakePublisher{}
	p := &PubSub{client: fp, channel: "work_item_completed"}

	err := p.Notify(context.Background(), &model.CompletionNotification{
		TraceID:       "t-1",
		AccountNumber: "0011",
		IncidentID:    77,
		Status:        "Completed",
		CompletedAt:   1711965600,
	})
	require.NoError(t, err)
	assert.Equal(t, "work_item_completed", fp.channel)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(fp.message.([]byte), &got))
	assert.Equal(t, "0011", got["account_number"])
	assert.Equal(t, float64(77), got["incident_id"])
	assert.Equal(t, "t-1", got["trace_id"])

	require.NoError(t, p.Close())
	assert.True(t, fp.closed)
}

func TestNotifyPublishError(t *testing.T) {
	p := &PubSub{client: &fakePublisher{err: errors.New("connection refused")}, channel: "c"}

	err := p.Notify(context.Background(), &model.CompletionNotification{})
	assert.ErrorContains(t, err, "connection refused")
}
