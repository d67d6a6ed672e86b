package model

// Privilege represents a permission granted through a role
type Privilege struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"` // e.g., "stock:create"
	Name string `gorm:"type:varchar(100)" json:"name"`                     // e.g., "Add Stock"
}

const (
	PrivProductView       = "product:view"
	PrivProductCreate     = "product:create"
	PrivSupplierView      = "supplier:view"
	PrivSupplierCreate    = "supplier:create"
	PrivStockView         = "stock:view"
	PrivStockCreate       = "stock:create"
	PrivTransactionView   = "transaction:view"
	PrivTransactionCreate = "transaction:create"
	PrivReportView        = "report:view"
	PrivReportCreate      = "report:create"
	PrivReportReview      = "report:review"
	PrivReportExport      = "report:export"
	PrivUserView          = "user:view"
	PrivUserDelete        = "user:delete"
	PrivActivityView      = "activity:view"
	PrivAttendanceView    = "attendance:view"
	PrivDashboardView     = "dashboard:view"
)

// Default privileges for the system
var DefaultPrivileges = []Privilege{
	// Catalog
	{Code: PrivProductView, Name: "View Product"},
	{Code: PrivProductCreate, Name: "Create Product"},
	{Code: PrivSupplierView, Name: "View Supplier"},
	{Code: PrivSupplierCreate, Name: "Create Supplier"},
	{Code: PrivStockView, Name: "View Stock"},
	{Code: PrivStockCreate, Name: "Add Stock"},
	// Sales
	{Code: PrivTransactionView, Name: "View Transaction"},
	{Code: PrivTransactionCreate, Name: "Create Transaction"},
	// Expired / damaged reports
	{Code: PrivReportView, Name: "View Product Reports"},
	{Code: PrivReportCreate, Name: "Report Expired or Damaged Product"},
	{Code: PrivReportReview, Name: "Review Product Reports"},
	{Code: PrivReportExport, Name: "Export Product Reports"},
	// Accounts
	{Code: PrivUserView, Name: "View User"},
	{Code: PrivUserDelete, Name: "Delete Staff Account"},
	// Monitoring
	{Code: PrivActivityView, Name: "View Activity Log"},
	{Code: PrivAttendanceView, Name: "View Attendance"},
	{Code: PrivDashboardView, Name: "View Dashboard"},
}

// StaffPrivilegeCodes is the subset of DefaultPrivileges granted to the staff role.
// The admin role receives every privilege.
var StaffPrivilegeCodes = []string{
	PrivProductView,
	PrivSupplierView,
	PrivStockView,
	PrivTransactionView,
	PrivTransactionCreate,
	PrivReportView,
	PrivReportCreate,
	PrivDashboardView,
}
