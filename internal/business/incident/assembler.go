// Package incident 组装客户事件文档、提交到工单创建服务，并完成工单状态迁移。
package incident

import (
	"context"
	"fmt"
	"strings"

	"oip/ordersync/internal/entity"
	"oip/ordersync/internal/model"
	"oip/ordersync/pkg/dateutil"
	"oip/ordersync/pkg/errorutil"
	"oip/ordersync/pkg/logger"
)

// RowSource 关系库只读查询能力
type RowSource interface {
	CustomerRows(ctx context.Context, accountNum string) ([]entity.CustomerRow, error)
	LatestPayment(ctx context.Context, accountNum string) (*entity.PaymentRow, error)
}

// Assembler 由关系库数据组装事件文档
type Assembler struct {
	rows RowSource
	log  logger.Logger
	now  func() string
}

// NewAssembler 创建组装器
func NewAssembler(rows RowSource, log logger.Logger) *Assembler {
	return &Assembler{
		rows: rows,
		log:  log,
		now:  dateutil.Now,
	}
}

type contactKey struct {
	kind  string
	value string
}

// Assemble 为 (账号, 事件) 组装一份新文档
// 查不到客户明细时返回 AssemblyFailed；缴费记录缺失只记告警
func (a *Assembler) Assemble(ctx context.Context, accountNum string, incidentID int64) (*model.IncidentDocument, error) {
	doc := newDocument(accountNum, incidentID, a.now())

	rows, err := a.rows.CustomerRows(ctx, accountNum)
	if err != nil {
		msg := fmt.Sprintf("read customer details for account %s", accountNum)
		if errorutil.IsRetryable(err) {
			return nil, errorutil.Retriable(errorutil.KindAssemblyFailed, msg, err)
		}
		return nil, errorutil.NonRetriable(errorutil.KindAssemblyFailed, msg, err)
	}
	if len(rows) == 0 {
		return nil, errorutil.New(errorutil.KindAssemblyFailed,
			fmt.Sprintf("no customer details found for account %s", accountNum))
	}

	seenContacts := make(map[contactKey]struct{})
	seenProducts := make(map[string]struct{})
	for i := range rows {
		row := &rows[i]
		appendContacts(doc, row, seenContacts)
		if !doc.HasCustomer() {
			fillSingletons(doc, row)
		}
		appendProduct(doc, row, seenProducts)
	}
	a.log.Debugf(ctx, "[Assembler] %d rows -> %d contacts, %d products",
		len(rows), len(doc.ContactDetails), len(doc.ProductDetails))

	payment, err := a.rows.LatestPayment(ctx, accountNum)
	switch {
	case err != nil:
		a.log.Warnf(ctx, "[Assembler] %v", errorutil.NonRetriable(errorutil.KindPaymentLookupFailed,
			fmt.Sprintf("payment lookup for account %s", accountNum), err))
	case payment == nil:
		a.log.Warnf(ctx, "[Assembler] no payment data for account %s", accountNum)
	default:
		doc.LastActions = append(doc.LastActions, lastAction(payment))
	}

	return doc, nil
}

func newDocument(accountNum string, incidentID int64, now string) *model.IncidentDocument {
	return &model.IncidentDocument{
		DocVersion:           model.IncidentDocVersion,
		IncidentID:           incidentID,
		AccountNum:           accountNum,
		CreatedBy:            model.SystemActor,
		CreatedDtm:           now,
		IncidentStatusDtm:    now,
		BatchIDTagDtm:        now,
		ExternalDataUpdateOn: now,
		ExportOn:             now,
		IncidentForwardedOn:  now,
		ContactDetails:       []model.ContactDetail{},
		ProductDetails:       []model.ProductDetail{},
		LastActions:          []model.LastAction{},
		MarketingDetails: []model.MarketingDetail{{
			InformedOn: dateutil.Sentinel,
		}},
		ValidityPeriod: "0",
		UpdatedAt:      now,
		RejectedDtm:    now,
	}
}

func appendContacts(doc *model.IncidentDocument, row *entity.CustomerRow, seen map[contactKey]struct{}) {
	created := row.LoadDate.String()

	email := row.TechnicalContactEmail.String
	if !strings.Contains(email, "@") {
		email = ""
	}
	candidates := []contactKey{
		{kind: model.ContactTypeEmail, value: email},
		{kind: model.ContactTypeMobile, value: row.MobileContact.String},
		{kind: model.ContactTypeFix, value: row.WorkContact.String},
	}

	for _, c := range candidates {
		if c.value == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		doc.ContactDetails = append(doc.ContactDetails, model.ContactDetail{
			ContactType: c.kind,
			Contact:     c.value,
			CreateDtm:   created,
			CreateBy:    model.SystemActor,
		})
	}
}

// fillSingletons 客户/账户信息只取首行
func fillSingletons(doc *model.IncidentDocument, row *entity.CustomerRow) {
	doc.CustomerDetails = &model.CustomerDetails{
		CustomerName:   row.ContactPerson.String,
		FullAddress:    row.AssetAddress.String,
		ZipCode:        row.ZipCode.String,
		Nic:            row.NIC.String,
		CustomerTypeID: row.CustomerTypeID.Int64,
		CustomerType:   row.CustomerType.String,
	}
	doc.AccountDetails = &model.AccountDetails{
		AccountStatus:   row.AccountStatusBSS.String,
		AccEffectiveDtm: row.AccountEffectiveDtmBSS.String(),
		AccActivateDate: dateutil.Sentinel,
		CreditClassID:   row.CreditClassID.Int64,
		CreditClassName: row.CreditClassName.String,
		BillingCentre:   row.BillingCenterName.String,
		CustomerSegment: row.CustomerSegmentID.String,
		EmailAddress:    row.Email.String,
		LastRatedDtm:    dateutil.Sentinel,
	}
}

func appendProduct(doc *model.IncidentDocument, row *entity.CustomerRow, seen map[string]struct{}) {
	id := row.AssetID.String
	if id == "" {
		return
	}
	if _, ok := seen[id]; ok {
		return
	}
	seen[id] = struct{}{}

	doc.ProductDetails = append(doc.ProductDetails, model.ProductDetail{
		ProductLabel:   row.PromotionIntegID.String,
		CustomerRef:    row.CustomerRef.String,
		ProductSeq:     row.BSSProductSeq.Int64,
		ProductID:      id,
		ProductName:    row.ProductName.String,
		ProductStatus:  row.AssetStatus.String,
		EffectiveDtm:   row.AccountEffectiveDtmBSS.String(),
		ServiceAddress: row.AssetAddress.String,
		Cat:            row.CustomerTypeCat.String,
		ServiceType:    row.OSSServiceAbbreviation.String,
		Region:         row.City.String,
		Province:       row.Province.String,
	})
}

// lastAction 账单与缴费共用同一笔记录的序号、金额和日期
func lastAction(p *entity.PaymentRow) model.LastAction {
	created := p.PaymentDate.String()
	var amount float64
	if p.PaymentMoney.Valid {
		amount = p.PaymentMoney.Decimal.InexactFloat64()
	}
	return model.LastAction{
		BilledSeq:      p.PaymentSeq.Int64,
		BilledCreated:  created,
		PaymentSeq:     p.PaymentSeq.Int64,
		PaymentCreated: created,
		PaymentMoney:   amount,
		BilledAmount:   amount,
	}
}
