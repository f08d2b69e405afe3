package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
)

const notificationChannel = "lms:notifications"

// Notifier 通知出口。投递失败由调用方记录日志后忽略，
// 绝不回滚主流程
type Notifier interface {
	CertificateIssued(userID uint, number string) error
}

// NotificationService 通过 Redis 频道向下游投递事件
type NotificationService struct {
	rdb *redis.Client
}

func NewNotificationService(rdb *redis.Client) *NotificationService {
	return &NotificationService{rdb: rdb}
}

type notificationEvent struct {
	Type      string    `json:"type"`
	UserID    uint      `json:"userId"`
	Payload   string    `json:"payload,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func (s *NotificationService) CertificateIssued(userID uint, number string) error {
	if s.rdb == nil {
		return nil
	}

	event := notificationEvent{
		Type:      "certificate_issued",
		UserID:    userID,
		Payload:   number,
		Timestamp: time.Now(),
	}
	data, _ := json.Marshal(event)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	return s.rdb.Publish(ctx, notificationChannel, data).Err()
}
