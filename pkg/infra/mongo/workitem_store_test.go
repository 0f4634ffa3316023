package mongo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"oip/ordersync/internal/entity"
)

const ns = "drs.order_requests"

func TestFetchOpenNormalizesFields(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("canonical and legacy documents", func(mt *mtest.T) {
		oid := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			bson.D{
				{Key: "_id", Value: oid},
				{Key: "order_type", Value: int32(1)},
				{Key: "account_number", Value: "0011"},
				{Key: "parameters", Value: bson.D{{Key: "incident_id", Value: int32(77)}}},
				{Key: "request_status", Value: "Open"},
			},
			bson.D{
				{Key: "_id", Value: "legacy-2"},
				{Key: "order_type", Value: float64(2)},
				{Key: "account_num", Value: int64(22)},
				{Key: "parameters", Value: bson.D{{Key: "incident_id", Value: "88"}}},
				{Key: "request_status", Value: "Open"},
			},
			bson.D{
				{Key: "_id", Value: primitive.NewObjectID()},
				{Key: "order_type", Value: int32(1)},
				{Key: "account_number", Value: ""},
				{Key: "account_num", Value: "0033"},
				{Key: "request_status", Value: "Open"},
			},
		))

		items, err := NewWorkItemStore(mt.Coll).FetchOpen(context.Background())
		require.NoError(mt, err)
		require.Len(mt, items, 3)

		assert.Equal(mt, oid.Hex(), items[0].ID)
		assert.Equal(mt, 1, items[0].OrderType)
		assert.Equal(mt, "0011", items[0].AccountNumber)
		assert.Equal(mt, int64(77), items[0].IncidentID)
		assert.True(mt, items[0].IsOpen())

		assert.Equal(mt, "legacy-2", items[1].ID)
		assert.Equal(mt, 2, items[1].OrderType)
		assert.Equal(mt, "22", items[1].AccountNumber)
		assert.Equal(mt, int64(88), items[1].IncidentID)

		assert.Equal(mt, "0033", items[2].AccountNumber)
		assert.Equal(mt, int64(0), items[2].IncidentID)

		started := mt.GetStartedEvent()
		require.NotNil(mt, started)
		assert.Equal(mt, "find", started.CommandName)
		assert.Equal(mt, "Open", started.Command.Lookup("filter", fieldStatus).StringValue())
		assert.Equal(mt, int32(1), started.Command.Lookup("sort", fieldID).Int32())
	})

	mt.Run("find error", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code: 13, Name: "Unauthorized", Message: "not authorized",
		}))

		_, err := NewWorkItemStore(mt.Coll).FetchOpen(context.Background())
		assert.Error(mt, err)
	})
}

func TestCompleteOpen(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	at := time.Date(2024, 3, 9, 10, 0, 0, 0, time.UTC)

	mt.Run("first completion modifies one", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		matched, modified, err := NewWorkItemStore(mt.Coll).CompleteOpen(
			context.Background(), plainItem(), bson.M{"incident": "INC-9"}, at)
		require.NoError(mt, err)
		assert.Equal(mt, int64(1), matched)
		assert.Equal(mt, int64(1), modified)

		started := mt.GetStartedEvent()
		require.NotNil(mt, started)
		assert.Equal(mt, "update", started.CommandName)
	})

	mt.Run("already completed matches nothing", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))

		matched, modified, err := NewWorkItemStore(mt.Coll).CompleteOpen(
			context.Background(), plainItem(), bson.M{}, at)
		require.NoError(mt, err)
		assert.Zero(mt, matched)
		assert.Zero(mt, modified)
	})

	mt.Run("write error", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code: 91, Name: "ShutdownInProgress", Message: "shutting down",
		}))

		_, _, err := NewWorkItemStore(mt.Coll).CompleteOpen(
			context.Background(), plainItem(), bson.M{}, at)
		assert.Error(mt, err)
	})
}

func plainItem() *entity.WorkItem {
	return &entity.WorkItem{ID: "w1", OrderType: 1, AccountNumber: "0011", IncidentID: 77}
}

func TestCompletionFilterWithoutStoreKey(t *testing.T) {
	f := completionFilter(plainItem())

	assert.Equal(t, entity.RequestStatusOpen, f[fieldStatus])
	assert.Equal(t, bson.M{"$in": bson.A{int64(77), "77"}}, f[fieldIncidentID])
	accounts := bson.M{"$in": bson.A{"0011", int64(11)}}
	assert.Equal(t, bson.A{
		bson.M{fieldAccountNumber: accounts},
		bson.M{fieldAccountLegacy: accounts},
	}, f["$or"])

	f = completionFilter(&entity.WorkItem{AccountNumber: "ACC-9", IncidentID: 5})
	assert.Equal(t, bson.M{"$in": bson.A{"ACC-9"}}, f["$or"].(bson.A)[0].(bson.M)[fieldAccountNumber])
}

func TestCompletionUpdate(t *testing.T) {
	at := time.Date(2024, 3, 9, 10, 0, 0, 0, time.UTC)
	set := completionUpdate("ok", at)["$set"].(bson.M)
	assert.Equal(t, entity.RequestStatusCompleted, set[fieldStatus])
	assert.Equal(t, at, set[fieldCompletedAt])
	assert.Equal(t, "ok", set[fieldAPIResponse])
}

// 数字账号、字符串 incident_id 和带空白的账号，读出后必须按原类型原值回写
func TestCompleteOpenMatchesStoredValues(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	at := time.Date(2024, 3, 9, 10, 0, 0, 0, time.UTC)

	mt.Run("numeric legacy account and string incident id", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{
				{Key: "_id", Value: "legacy-2"},
				{Key: "order_type", Value: int32(1)},
				{Key: "account_num", Value: int64(22)},
				{Key: "parameters", Value: bson.D{{Key: "incident_id", Value: "77"}}},
				{Key: "request_status", Value: "Open"},
			}),
			mtest.CreateSuccessResponse(
				bson.E{Key: "n", Value: 1},
				bson.E{Key: "nModified", Value: 1},
			),
		)

		store := NewWorkItemStore(mt.Coll)
		items, err := store.FetchOpen(context.Background())
		require.NoError(mt, err)
		require.Len(mt, items, 1)
		assert.Equal(mt, "22", items[0].AccountNumber)
		assert.Equal(mt, int64(77), items[0].IncidentID)

		matched, modified, err := store.CompleteOpen(context.Background(), items[0], bson.M{"id": "INC-77"}, at)
		require.NoError(mt, err)
		assert.Equal(mt, int64(1), matched)
		assert.Equal(mt, int64(1), modified)

		require.NotNil(mt, mt.GetStartedEvent()) // find
		q := updateQuery(mt)

		assert.Equal(mt, "legacy-2", q.Lookup(fieldID).StringValue())
		assert.Equal(mt, "Open", q.Lookup(fieldStatus).StringValue())

		acct := q.Lookup(fieldAccountLegacy)
		assert.Equal(mt, bson.TypeInt64, acct.Type)
		assert.Equal(mt, int64(22), acct.Int64())

		incident := q.Lookup(fieldIncidentID)
		assert.Equal(mt, bson.TypeString, incident.Type)
		assert.Equal(mt, "77", incident.StringValue())

		_, err = q.LookupErr(fieldAccountNumber)
		assert.Error(mt, err)
	})

	mt.Run("padded account keeps its whitespace", func(mt *mtest.T) {
		oid := primitive.NewObjectID()
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{
				{Key: "_id", Value: oid},
				{Key: "order_type", Value: int32(1)},
				{Key: "account_number", Value: " 0011 "},
				{Key: "parameters", Value: bson.D{{Key: "incident_id", Value: int32(9)}}},
				{Key: "request_status", Value: "Open"},
			}),
			mtest.CreateSuccessResponse(
				bson.E{Key: "n", Value: 1},
				bson.E{Key: "nModified", Value: 1},
			),
		)

		store := NewWorkItemStore(mt.Coll)
		items, err := store.FetchOpen(context.Background())
		require.NoError(mt, err)
		require.Len(mt, items, 1)
		assert.Equal(mt, "0011", items[0].AccountNumber)

		_, _, err = store.CompleteOpen(context.Background(), items[0], "ok", at)
		require.NoError(mt, err)

		require.NotNil(mt, mt.GetStartedEvent())
		q := updateQuery(mt)

		assert.Equal(mt, oid, q.Lookup(fieldID).ObjectID())
		assert.Equal(mt, " 0011 ", q.Lookup(fieldAccountNumber).StringValue())
		assert.Equal(mt, int32(9), q.Lookup(fieldIncidentID).Int32())
	})
}

// updateQuery 取出下一条 update 命令的过滤条件
func updateQuery(mt *mtest.T) bson.Raw {
	started := mt.GetStartedEvent()
	require.NotNil(mt, started)
	require.Equal(mt, "update", started.CommandName)
	updates, err := started.Command.LookupErr("updates")
	require.NoError(mt, err)
	first, err := updates.Array().IndexErr(0)
	require.NoError(mt, err)
	return first.Value().Document().Lookup("q").Document()
}

func TestRawInt(t *testing.T) {
	_, ok := rawInt(bson.RawValue{})
	assert.False(t, ok)

	_, v, _ := bson.MarshalValue(1.5)
	_, ok = rawInt(bson.RawValue{Type: bson.TypeDouble, Value: v})
	assert.False(t, ok)

	_, v, _ = bson.MarshalValue(int64(12))
	n, ok := rawInt(bson.RawValue{Type: bson.TypeInt64, Value: v})
	assert.True(t, ok)
	assert.Equal(t, int64(12), n)
}
