// Package rdb 只读访问客户明细与缴费两张关系表。
//
// 每次查询单独建立连接并在返回前关闭，不在查询之间持有或复用连接。
package rdb

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"oip/ordersync/internal/entity"
	"oip/ordersync/pkg/errorutil"
	"oip/ordersync/pkg/retry"
)

// Dialer 打开一个新的数据库会话
type Dialer func(ctx context.Context) (*gorm.DB, error)

// RowSource 客户/缴费查询
type RowSource struct {
	dial   Dialer
	policy retry.Policy
}

// NewRowSource 创建查询实例
func NewRowSource(dial Dialer, policy retry.Policy) *RowSource {
	return &RowSource{
		dial:   dial,
		policy: policy,
	}
}

// NewDialer 按驱动名构造 Dialer，支持 mysql / postgres
func NewDialer(driver, dsn string) (Dialer, error) {
	var open func(string) gorm.Dialector
	switch driver {
	case "mysql":
		// 跳过 SELECT VERSION()，否则打开时会无 ctx 地建连
		open = func(dsn string) gorm.Dialector {
			return mysql.New(mysql.Config{DSN: dsn, SkipInitializeWithVersion: true})
		}
	case "postgres":
		open = postgres.Open
	default:
		return nil, fmt.Errorf("unsupported relational driver: %s", driver)
	}

	return func(ctx context.Context) (*gorm.DB, error) {
		return openSession(ctx, open(dsn))
	}, nil
}

// openSession 打开会话并在 ctx 期限内确认可达
// gorm 自带的 Ping 不带 ctx，主机不可达时会一直阻塞到内核建连超时，这里关掉改用 PingContext
func openSession(ctx context.Context, dialector gorm.Dialector) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:               gormlogger.Default.LogMode(gormlogger.Silent),
		DisableAutomaticPing: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return db, nil
}

// CustomerRows 查询账号下全部客户明细，按结果顺序返回
func (s *RowSource) CustomerRows(ctx context.Context, accountNum string) ([]entity.CustomerRow, error) {
	var rows []entity.CustomerRow
	err := retry.Do(ctx, s.policy, func(ctx context.Context) error {
		rows = rows[:0]
		return s.withSession(ctx, func(db *gorm.DB) error {
			return db.Where("ACCOUNT_NUM = ?", accountNum).Find(&rows).Error
		})
	}, nil)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// LatestPayment 查询账号最近一笔缴费，无记录时返回 nil, nil
func (s *RowSource) LatestPayment(ctx context.Context, accountNum string) (*entity.PaymentRow, error) {
	var rows []entity.PaymentRow
	err := retry.Do(ctx, s.policy, func(ctx context.Context) error {
		rows = rows[:0]
		return s.withSession(ctx, func(db *gorm.DB) error {
			return db.Where("AP_ACCOUNT_NUMBER = ?", accountNum).
				Order("ACCOUNT_PAYMENT_DAT DESC").
				Limit(1).
				Find(&rows).Error
		})
	}, nil)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// withSession 打开会话执行 fn，所有路径上都关闭连接
func (s *RowSource) withSession(ctx context.Context, fn func(db *gorm.DB) error) error {
	db, err := s.dial(ctx)
	if err != nil {
		return errorutil.Retriable(errorutil.KindConnection, "open relational session", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return errorutil.Retriable(errorutil.KindConnection, "get relational handle", err)
	}
	defer sqlDB.Close()

	if err := fn(db.WithContext(ctx)); err != nil {
		if isTransient(err) {
			return errorutil.Retriable(errorutil.KindConnection, "relational query", err)
		}
		return errorutil.NonRetriable(errorutil.KindConnection, "relational query", err)
	}
	return nil
}

// isTransient 连接断开、超时、网络错误可重试，SQL 本身的错误不重试
func isTransient(err error) bool {
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
