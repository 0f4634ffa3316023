package incident

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"oip/ordersync/internal/model"
	"oip/ordersync/pkg/errorutil"
	"oip/ordersync/pkg/logger"
	"oip/ordersync/pkg/retry"
)

// 响应体最多读取的字节数
const maxResponseBytes = 1 << 20

// URLProvider 提供工单创建服务地址
type URLProvider interface {
	IncidentURL(ctx context.Context) (string, error)
}

// StaticURL 固定地址（来自配置文件）
type StaticURL string

// IncidentURL 实现 URLProvider
func (u StaticURL) IncidentURL(ctx context.Context) (string, error) {
	return string(u), nil
}

// Submitter 提交事件文档到工单创建服务
type Submitter struct {
	urls   URLProvider
	client *http.Client
	policy retry.Policy
	log    logger.Logger
}

// NewSubmitter 创建提交器，client 为 nil 时使用默认客户端
func NewSubmitter(urls URLProvider, client *http.Client, policy retry.Policy, log logger.Logger) *Submitter {
	if client == nil {
		client = &http.Client{}
	}
	return &Submitter{
		urls:   urls,
		client: client,
		policy: policy,
		log:    log,
	}
}

// Submit 序列化并提交文档，返回服务端解析后的响应
// 地址为空返回 ConfigError 且不发起请求；响应为空视为 SubmissionFailed
func (s *Submitter) Submit(ctx context.Context, doc *model.IncidentDocument) (interface{}, error) {
	url, err := s.urls.IncidentURL(ctx)
	if err != nil {
		return nil, errorutil.NonRetriable(errorutil.KindConfig, "resolve incident service url", err)
	}
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, errorutil.New(errorutil.KindConfig, "empty incident service url")
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return nil, errorutil.NonRetriable(errorutil.KindSubmissionFailed, "marshal incident document", err)
	}

	var result interface{}
	err = retry.Do(ctx, s.policy, func(ctx context.Context) error {
		var postErr error
		result, postErr = s.post(ctx, url, body)
		return postErr
	}, func(err error, wait time.Duration) {
		s.log.Warnf(ctx, "[Submitter] attempt failed: %v, retrying in %v", err, wait)
	})
	if err != nil {
		return nil, err
	}

	if isEmptyResponse(result) {
		return nil, errorutil.New(errorutil.KindSubmissionFailed, "empty response from incident service")
	}

	s.log.Infof(ctx, "[Submitter] incident %d submitted for account %s", doc.IncidentID, doc.AccountNum)
	return result, nil
}

// post 单次请求：网络错误、5xx、429 可重试，其余非 2xx 不重试
func (s *Submitter) post(ctx context.Context, url string, body []byte) (interface{}, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, errorutil.NonRetriable(errorutil.KindConfig, "build incident request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, errorutil.Retriable(errorutil.KindSubmissionFailed, "post incident", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, errorutil.Retriable(errorutil.KindSubmissionFailed, "read incident response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := fmt.Sprintf("incident service returned %d", resp.StatusCode)
		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			return nil, errorutil.Retriable(errorutil.KindSubmissionFailed, msg, nil).WithDetails(snippet(raw))
		}
		return nil, errorutil.NonRetriable(errorutil.KindSubmissionFailed, msg, nil).WithDetails(snippet(raw))
	}

	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}
	var result interface{}
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, errorutil.NonRetriable(errorutil.KindSubmissionFailed, "decode incident response", err).
			WithDetails(snippet(raw))
	}
	return result, nil
}

// isEmptyResponse null、空对象、空数组、空串、false、0 都算空
func isEmptyResponse(v interface{}) bool {
	switch r := v.(type) {
	case nil:
		return true
	case map[string]interface{}:
		return len(r) == 0
	case []interface{}:
		return len(r) == 0
	case string:
		return strings.TrimSpace(r) == ""
	case bool:
		return !r
	case float64:
		return r == 0
	default:
		return false
	}
}

func snippet(raw []byte) string {
	const limit = 256
	if len(raw) > limit {
		return string(raw[:limit]) + "..."
	}
	return string(raw)
}
