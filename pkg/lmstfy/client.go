package lmstfy

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/bitleak/lmstfy/client"

	"oip/ordersync/internal/model"
)

// 投递失败时由 lmstfy 重投的次数
const publishTries = 3

// publishFunc 与 LmstfyClient.Publish 同参
type publishFunc func(queue string, data []byte, ttlSecond uint32, tries uint16, delaySecond uint32) (string, error)

// Client Lmstfy 客户端封装
type Client struct {
	publish   publishFunc
	namespace string
	queue     string
}

// NewClient 创建 Lmstfy 客户端，通知写入 queue
func NewClient(host string, port int, namespace, token, queue string) *Client {
	cli := client.NewLmstfyClient(host, port, namespace, token)
	return &Client{
		publish: func(queue string, data []byte, ttl uint32, tries uint16, delay uint32) (string, error) {
			jobID, err := cli.Publish(queue, data, ttl, tries, delay)
			if err != nil {
				return "", err
			}
			return jobID, nil
		},
		namespace: namespace,
		queue:     queue,
	}
}

// Publish 发布消息
func (c *Client) Publish(queue string, data []byte, ttl, delay uint32) (string, error) {
	jobID, err := c.publish(queue, data, ttl, publishTries, delay)
	if err != nil {
		return "", fmt.Errorf("lmstfy publish failed: %w", err)
	}
	return jobID, nil
}

// Notify 把工单完成通知投递到队列
// ttl=0 表示永不过期, delay=0 表示立即可用
func (c *Client) Notify(ctx context.Context, n *model.CompletionNotification) error {
	data, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}
	if _, err := c.Publish(c.queue, data, 0, 0); err != nil {
		return err
	}
	return nil
}
