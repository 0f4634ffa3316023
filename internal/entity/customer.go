package entity

import (
	"database/sql"

	"github.com/shopspring/decimal"

	"oip/ordersync/pkg/dateutil"
)

// CustomerRow 客户/合同明细（debt_cust_detail），一个账号对应多行（联系方式 × 产品）
type CustomerRow struct {
	AccountNum             string          `gorm:"column:ACCOUNT_NUM"`
	TechnicalContactEmail  sql.NullString  `gorm:"column:TECNICAL_CONTACT_EMAIL"`
	MobileContact          sql.NullString  `gorm:"column:MOBILE_CONTACT"`
	WorkContact            sql.NullString  `gorm:"column:WORK_CONTACT"`
	LoadDate               dateutil.Value  `gorm:"column:LOAD_DATE"`
	ContactPerson          sql.NullString  `gorm:"column:CONTACT_PERSON"`
	AssetAddress           sql.NullString  `gorm:"column:ASSET_ADDRESS"`
	ZipCode                sql.NullString  `gorm:"column:ZIP_CODE"`
	NIC                    sql.NullString  `gorm:"column:NIC"`
	CustomerTypeID         sql.NullInt64   `gorm:"column:CUSTOMER_TYPE_ID"`
	CustomerType           sql.NullString  `gorm:"column:CUSTOMER_TYPE"`
	AccountStatusBSS       sql.NullString  `gorm:"column:ACCOUNT_STATUS_BSS"`
	AccountEffectiveDtmBSS dateutil.Value  `gorm:"column:ACCOUNT_EFFECTIVE_DTM_BSS"`
	CreditClassID          sql.NullInt64   `gorm:"column:CREDIT_CLASS_ID"`
	CreditClassName        sql.NullString  `gorm:"column:CREDIT_CLASS_NAME"`
	BillingCenterName      sql.NullString  `gorm:"column:BILLING_CENTER_NAME"`
	CustomerSegmentID      sql.NullString  `gorm:"column:CUSTOMER_SEGMENT_ID"`
	Email                  sql.NullString  `gorm:"column:EMAIL"`
	AssetID                sql.NullString  `gorm:"column:ASSET_ID"`
	PromotionIntegID       sql.NullString  `gorm:"column:PROMOTION_INTEG_ID"`
	CustomerRef            sql.NullString  `gorm:"column:CUSTOMER_REF"`
	BSSProductSeq          sql.NullInt64   `gorm:"column:BSS_PRODUCT_SEQ"`
	ProductName            sql.NullString  `gorm:"column:PRODUCT_NAME"`
	AssetStatus            sql.NullString  `gorm:"column:ASSET_STATUS"`
	CustomerTypeCat        sql.NullString  `gorm:"column:CUSTOMER_TYPE_CAT"`
	OSSServiceAbbreviation sql.NullString  `gorm:"column:OSS_SERVICE_ABBREVIATION"`
	City                   sql.NullString  `gorm:"column:CITY"`
	Province               sql.NullString  `gorm:"column:PROVINCE"`
}

// TableName 指定表名
func (CustomerRow) TableName() string {
	return "debt_cust_detail"
}

// PaymentRow 缴费记录（debt_payment）
type PaymentRow struct {
	AccountNumber string              `gorm:"column:AP_ACCOUNT_NUMBER"`
	PaymentDate   dateutil.Value      `gorm:"column:ACCOUNT_PAYMENT_DAT"`
	PaymentSeq    sql.NullInt64       `gorm:"column:ACCOUNT_PAYMENT_SEQ"`
	PaymentMoney  decimal.NullDecimal `gorm:"column:AP_ACCOUNT_PAYMENT_MNY"`
}

// TableName 指定表名
func (PaymentRow) TableName() string {
	return "debt_payment"
}
