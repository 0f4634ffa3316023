package mongo

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"oip/ordersync/internal/entity"
)

// 工单文档字段名
const (
	fieldID            = "_id"
	fieldOrderType     = "order_type"
	fieldAccountNumber = "account_number"
	fieldAccountLegacy = "account_num"
	fieldIncidentID    = "parameters.incident_id"
	fieldStatus        = "request_status"
	fieldCompletedAt   = "completed_at"
	fieldAPIResponse   = "api_response"
)

// rawWorkItem 库中原始文档，账号和 incident_id 的类型因生产方版本而异
type rawWorkItem struct {
	ID            bson.RawValue `bson:"_id"`
	OrderType     bson.RawValue `bson:"order_type"`
	AccountNumber bson.RawValue `bson:"account_number"`
	AccountLegacy bson.RawValue `bson:"account_num"`
	Parameters    struct {
		IncidentID bson.RawValue `bson:"incident_id"`
	} `bson:"parameters"`
	RequestStatus string    `bson:"request_status"`
	CompletedAt   time.Time `bson:"completed_at,omitempty"`
}

// matchKey 读取时的原始键值
// 归一后的账号和 incident_id 可能已改变类型或去掉空白，条件更新必须按原值匹配
type matchKey struct {
	id           bson.RawValue
	accountField string
	account      bson.RawValue
	incidentID   bson.RawValue
}

// WorkItemStore 工单存储
type WorkItemStore struct {
	coll *mongo.Collection
}

// NewWorkItemStore 基于集合创建存储
func NewWorkItemStore(coll *mongo.Collection) *WorkItemStore {
	return &WorkItemStore{coll: coll}
}

// Connect 建立长连接并确认可达
func Connect(ctx context.Context, uri string, timeout time.Duration) (*mongo.Client, error) {
	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}
	return client, nil
}

// FetchOpen 拉取全部 Open 工单，按 _id（即创建时间）升序
func (s *WorkItemStore) FetchOpen(ctx context.Context) ([]*entity.WorkItem, error) {
	opts := options.Find().SetSort(bson.D{{Key: fieldID, Value: 1}})
	cursor, err := s.coll.Find(ctx, bson.M{fieldStatus: entity.RequestStatusOpen}, opts)
	if err != nil {
		return nil, fmt.Errorf("find open work items: %w", err)
	}
	defer cursor.Close(ctx)

	var raws []rawWorkItem
	if err := cursor.All(ctx, &raws); err != nil {
		return nil, fmt.Errorf("decode open work items: %w", err)
	}

	items := make([]*entity.WorkItem, 0, len(raws))
	for i := range raws {
		items = append(items, normalize(&raws[i]))
	}
	return items, nil
}

// CompleteOpen 条件更新：仅当工单仍为 Open 时置为 Completed
// 返回命中数和修改数，由调用方判断是否恰好为 1
func (s *WorkItemStore) CompleteOpen(
	ctx context.Context,
	item *entity.WorkItem,
	response interface{},
	completedAt time.Time,
) (int64, int64, error) {
	res, err := s.coll.UpdateOne(ctx,
		completionFilter(item),
		completionUpdate(response, completedAt),
	)
	if err != nil {
		return 0, 0, fmt.Errorf("update work item: %w", err)
	}
	return res.MatchedCount, res.ModifiedCount, nil
}

// completionFilter 来自本存储的工单按 _id 和原始键值匹配；
// 其余工单按归一值匹配，字符串和数字两种写法都覆盖
func completionFilter(item *entity.WorkItem) bson.M {
	if key, ok := item.Source.(*matchKey); ok {
		f := bson.M{
			fieldID:     key.id,
			fieldStatus: entity.RequestStatusOpen,
		}
		if key.account.Type != 0 {
			f[key.accountField] = key.account
		}
		if key.incidentID.Type != 0 {
			f[fieldIncidentID] = key.incidentID
		}
		return f
	}

	accounts := bson.M{"$in": accountVariants(item.AccountNumber)}
	return bson.M{
		"$or": bson.A{
			bson.M{fieldAccountNumber: accounts},
			bson.M{fieldAccountLegacy: accounts},
		},
		fieldIncidentID: bson.M{"$in": bson.A{item.IncidentID, strconv.FormatInt(item.IncidentID, 10)}},
		fieldStatus:     entity.RequestStatusOpen,
	}
}

// accountVariants 纯数字账号同时按数字匹配（数值比较不区分 int32/int64/double）
func accountVariants(account string) bson.A {
	variants := bson.A{account}
	if n, err := strconv.ParseInt(account, 10, 64); err == nil {
		variants = append(variants, n)
	}
	return variants
}

func completionUpdate(response interface{}, completedAt time.Time) bson.M {
	return bson.M{
		"$set": bson.M{
			fieldStatus:      entity.RequestStatusCompleted,
			fieldCompletedAt: completedAt,
			fieldAPIResponse: response,
		},
	}
}

// normalize 入口归一：account_number 优先，其次 account_num
func normalize(raw *rawWorkItem) *entity.WorkItem {
	accountField, accountRaw := fieldAccountNumber, raw.AccountNumber
	account := rawString(raw.AccountNumber)
	if account == "" {
		accountField, accountRaw = fieldAccountLegacy, raw.AccountLegacy
		account = rawString(raw.AccountLegacy)
	}

	orderType, _ := rawInt(raw.OrderType)
	incidentID, _ := rawInt(raw.Parameters.IncidentID)

	return &entity.WorkItem{
		ID:            rawID(raw.ID),
		OrderType:     int(orderType),
		AccountNumber: account,
		IncidentID:    incidentID,
		RequestStatus: raw.RequestStatus,
		CompletedAt:   raw.CompletedAt,
		Source:        &matchKey{
			id:           raw.ID,
			accountField: accountField,
			account:      accountRaw,
			incidentID:   raw.Parameters.IncidentID,
		},
	}
}

func rawID(v bson.RawValue) string {
	if oid, ok := v.ObjectIDOK(); ok {
		return oid.Hex()
	}
	return rawString(v)
}

func rawString(v bson.RawValue) string {
	switch v.Type {
	case bsontype.String:
		return strings.TrimSpace(v.StringValue())
	case bsontype.Int32:
		return strconv.FormatInt(int64(v.Int32()), 10)
	case bsontype.Int64:
		return strconv.FormatInt(v.Int64(), 10)
	case bsontype.Double:
		f := v.Double()
		if f == math.Trunc(f) && !math.IsInf(f, 0) {
			return strconv.FormatInt(int64(f), 10)
		}
		return strconv.FormatFloat(f, 'f', -1, 64)
	default:
		return ""
	}
}

func rawInt(v bson.RawValue) (int64, bool) {
	switch v.Type {
	case bsontype.Int32:
		return int64(v.Int32()), true
	case bsontype.Int64:
		return v.Int64(), true
	case bsontype.Double:
		f := v.Double()
		if f != math.Trunc(f) || math.IsInf(f, 0) || math.IsNaN(f) {
			return 0, false
		}
		return int64(f), true
	case bsontype.String:
		n, err := strconv.ParseInt(strings.TrimSpace(v.StringValue()), 10, 64)
		return n, err == nil
	default:
		return 0, false
	}
}
