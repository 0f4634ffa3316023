package model

import "encoding/json"

// 文档固定值
const (
	IncidentDocVersion = 1
	SystemActor        = "drs_admin"
)

// 联系方式类型
const (
	ContactTypeEmail  = "email"
	ContactTypeMobile = "mobile"
	ContactTypeFix    = "fix"
)

// IncidentDocument 提交到工单创建服务的客户事件文档
// 字段名是下游服务的契约，不能改
type IncidentDocument struct {
	DocVersion            int     `json:"Doc_Version"`
	IncidentID            int64   `json:"Incident_Id"`
	AccountNum            string  `json:"Account_Num"`
	Arrears               float64 `json:"Arrears"`
	ArrearsBandLower      string  `json:"arrears_band"`
	CreatedBy             string  `json:"Created_By"`
	CreatedDtm            string  `json:"Created_Dtm"`
	IncidentStatus        string  `json:"Incident_Status"`
	IncidentStatusDtm     string  `json:"Incident_Status_Dtm"`
	StatusDescription     string  `json:"Status_Description"`
	FileNameDump          string  `json:"File_Name_Dump"`
	BatchID               string  `json:"Batch_Id"`
	BatchIDTagDtm         string  `json:"Batch_Id_Tag_Dtm"`
	ExternalDataUpdateOn  string  `json:"External_Data_Update_On"`
	FilteredReason        string  `json:"Filtered_Reason"`
	ExportOn              string  `json:"Export_On"`
	FileNameRejected      string  `json:"File_Name_Rejected"`
	RejectedReason        string  `json:"Rejected_Reason"`
	IncidentForwardedBy   string  `json:"Incident_Forwarded_By"`
	IncidentForwardedOn   string  `json:"Incident_Forwarded_On"`

	ContactDetails   []ContactDetail   `json:"Contact_Details"`
	ProductDetails   []ProductDetail   `json:"Product_Details"`
	CustomerDetails  *CustomerDetails  `json:"Customer_Details"`
	AccountDetails   *AccountDetails   `json:"Account_Details"`
	LastActions      []LastAction      `json:"Last_Actions"`
	MarketingDetails []MarketingDetail `json:"Marketing_Details"`

	Action         string `json:"Action"`
	ValidityPeriod string `json:"Validity_period"`
	Remark         string `json:"Remark"`
	UpdatedAt      string `json:"updatedAt"`
	RejectedBy     string `json:"Rejected_By"`
	RejectedDtm    string `json:"Rejected_Dtm"`
	ArrearsBand    string `json:"Arrears_Band"`
	SourceType     string `json:"Source_Type"`
}

// ContactDetail 联系方式
type ContactDetail struct {
	ContactType string `json:"Contact_Type"`
	Contact     string `json:"Contact"`
	CreateDtm   string `json:"Create_Dtm"`
	CreateBy    string `json:"Create_By"`
}

// ProductDetail 产品
type ProductDetail struct {
	ProductLabel          string `json:"Product_Label"`
	CustomerRef           string `json:"Customer_Ref"`
	ProductSeq            int64  `json:"Product_Seq"`
	EquipmentOwnership    string `json:"Equipment_Ownership"`
	ProductID             string `json:"Product_Id"`
	ProductName           string `json:"Product_Name"`
	ProductStatus         string `json:"Product_Status"`
	EffectiveDtm          string `json:"Effective_Dtm"`
	ServiceAddress        string `json:"Service_Address"`
	Cat                   string `json:"Cat"`
	DBCpeStatus           string `json:"Db_Cpe_Status"`
	ReceivedListCpeStatus string `json:"Received_List_Cpe_Status"`
	ServiceType           string `json:"Service_Type"`
	Region                string `json:"Region"`
	Province              string `json:"Province"`
}

// CustomerDetails 客户信息（单例）
type CustomerDetails struct {
	CustomerName          string `json:"Customer_Name"`
	CompanyName           string `json:"Company_Name"`
	CompanyRegistryNumber string `json:"Company_Registry_Number"`
	FullAddress           string `json:"Full_Address"`
	ZipCode               string `json:"Zip_Code"`
	CustomerTypeName      string `json:"Customer_Type_Name"`
	Nic                   string `json:"Nic"`
	CustomerTypeID        int64  `json:"Customer_Type_Id"`
	CustomerType          string `json:"Customer_Type"`
}

// AccountDetails 账户信息（单例）
type AccountDetails struct {
	AccountStatus     string `json:"Account_Status"`
	AccEffectiveDtm   string `json:"Acc_Effective_Dtm"`
	AccActivateDate   string `json:"Acc_Activate_Date"`
	CreditClassID     int64  `json:"Credit_Class_Id"`
	CreditClassName   string `json:"Credit_Class_Name"`
	BillingCentre     string `json:"Billing_Centre"`
	CustomerSegment   string `json:"Customer_Segment"`
	MobileContactTel  string `json:"Mobile_Contact_Tel"`
	DaytimeContactTel string `json:"Daytime_Contact_Tel"`
	EmailAddress      string `json:"Email_Address"`
	LastRatedDtm      string `json:"Last_Rated_Dtm"`
}

// LastAction 最近一次缴费
type LastAction struct {
	BilledSeq      int64   `json:"Billed_Seq"`
	BilledCreated  string  `json:"Billed_Created"`
	PaymentSeq     int64   `json:"Payment_Seq"`
	PaymentCreated string  `json:"Payment_Created"`
	PaymentMoney   float64 `json:"Payment_Money"`
	BilledAmount   float64 `json:"Billed_Amount"`
}

// MarketingDetail 营销信息，目前只有默认占位
type MarketingDetail struct {
	AccountManager string `json:"ACCOUNT_MANAGER"`
	ConsumerMarket string `json:"CONSUMER_MARKET"`
	InformedTo     string `json:"Informed_To"`
	InformedOn     string `json:"Informed_On"`
}

// HasCustomer 单例块是否已填充
func (d *IncidentDocument) HasCustomer() bool {
	return d.CustomerDetails != nil
}

type plainDocument IncidentDocument

// MarshalJSON 未填充的单例块输出为 {} 而不是 null
func (d IncidentDocument) MarshalJSON() ([]byte, error) {
	var customer, account interface{} = struct{}{}, struct{}{}
	if d.CustomerDetails != nil {
		customer = d.CustomerDetails
	}
	if d.AccountDetails != nil {
		account = d.AccountDetails
	}
	return json.Marshal(struct {
		plainDocument
		CustomerDetails interface{} `json:"Customer_Details"`
		AccountDetails  interface{} `json:"Account_Details"`
	}{plainDocument(d), customer, account})
}
