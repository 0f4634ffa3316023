package lmstfy

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oip/ordersync/internal/model"
)

type fakePublisher struct {
	queue string
	data  []byte
	tries uint16
	err   error
}

func (f *fakePublisher) Publish(queue string, data []byte, ttl uint32, tries uint16, delay uint32) (string, error) {
	f.queue, f.data, f.tries = queue, data, tries
	if f.err != nil {
		return "", f.err
	}
	return "job-1", nil
}

func TestNotifyPublishesToQueue(t *testing.T) {
	fp := &fakePublisher{}
	c := &Client{publish: fp.Publish, namespace: "drs", queue: "incident_completed"}

	err := c.Notify(context.Background(), &model.CompletionNotification{WorkItemID: "w-1", IncidentID: 77})
	require.NoError(t, err)

	assert.Equal(t, "incident_completed", fp.queue)
	assert.Equal(t, uint16(publishTries), fp.tries)
	var got model.CompletionNotification
	require.NoError(t, json.Unmarshal(fp.data, &got))
	assert.Equal(t, "w-1", got.WorkItemID)
	assert.Equal(t, int64(77), got.IncidentID)
}

func TestNotifyPublishError(t *testing.T) {
	c := &Client{publish: (&fakePublisher{err: errors.New("503")}).Publish, queue: "q"}

	err := c.Notify(context.Background(), &model.CompletionNotification{})
	assert.ErrorContains(t, err, "lmstfy publish failed")
}

func TestNewClient(t *testing.T) {
	c := NewClient("127.0.0.1", 7777, "drs", "token", "q")
	assert.Equal(t, "drs", c.namespace)
	assert.NotNil(t, c.publish)
}
