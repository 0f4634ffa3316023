package order

import (
	"fmt"
	"strconv"
	"strings"

	"oip/ordersync/pkg/errorutil"
)

// Type 工单类型（即运营菜单的选项编号）
type Type int

const (
	TypeInvalid Type = iota
	TypeCaseRegistration
	TypeMonitorPayment
	TypeMonitorPaymentCancel
	TypeCloseMonitorIfNoTransaction
)

var typeNames = map[Type]string{
	TypeCaseRegistration:            "case-registration",
	TypeMonitorPayment:              "monitor-payment",
	TypeMonitorPaymentCancel:        "monitor-payment-cancel",
	TypeCloseMonitorIfNoTransaction: "close-monitor-if-no-transaction",
}

var typeTitles = map[Type]string{
	TypeCaseRegistration:            "Cust Details for Case Registration",
	TypeMonitorPayment:              "Monitor Payment",
	TypeMonitorPaymentCancel:        "Monitor Payment Cancel",
	TypeCloseMonitorIfNoTransaction: "Close_Monitor_If_No_Transaction",
}

// All 全部已知类型，按编号排序
func All() []Type {
	return []Type{
		TypeCaseRegistration,
		TypeMonitorPayment,
		TypeMonitorPaymentCancel,
		TypeCloseMonitorIfNoTransaction,
	}
}

// String 类型名
func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("invalid(%d)", int(t))
}

// Title 菜单标题
func (t Type) Title() string {
	return typeTitles[t]
}

// Valid 是否已知类型
func (t Type) Valid() bool {
	_, ok := typeNames[t]
	return ok
}

// FromInt 由工单上的 order_type 转换，未知值返回 InvalidCommand
func FromInt(v int) (Type, error) {
	t := Type(v)
	if !t.Valid() {
		return TypeInvalid, errorutil.New(errorutil.KindInvalidCommand, fmt.Sprintf("unknown order type %d", v))
	}
	return t, nil
}

// Parse 解析命令行输入，接受类型名或编号
func Parse(s string) (Type, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		return FromInt(n)
	}
	for t, name := range typeNames {
		if name == s {
			return t, nil
		}
	}
	return TypeInvalid, errorutil.New(errorutil.KindInvalidCommand, fmt.Sprintf("unknown order type %q", s))
}
