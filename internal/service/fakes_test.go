package service

import (
	"errors"
	"sort"
	"sync"
	"time"

	"winehouse-pos/internal/model"
	"winehouse-pos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// memStore is an in-memory stand-in for the database shared by the fake repositories
type memStore struct {
	mu            sync.Mutex
	products      map[uuid.UUID]model.Product
	suppliers     map[uuid.UUID]model.Supplier
	stocks        map[uuid.UUID]model.Stock
	transactions  []model.Transaction
	reports       map[uuid.UUID]model.ProductStatus
	logs          []model.ActivityLog
	notifications []model.Notification
	attendance    []model.AttendanceRecord
	users         map[uuid.UUID]model.User
	roles         map[string]*model.Role
	bootstrapped  bool
}

func newMemStore() *memStore {
	return &memStore{
		products:  make(map[uuid.UUID]model.Product),
		suppliers: make(map[uuid.UUID]model.Supplier),
		stocks:    make(map[uuid.UUID]model.Stock),
		reports:   make(map[uuid.UUID]model.ProductStatus),
		users:     make(map[uuid.UUID]model.User),
		roles: map[string]*model.Role{
			model.RoleAdmin: {ID: 1, Code: model.RoleAdmin, Privileges: privilegeList(allPrivilegeCodes())},
			model.RoleStaff: {ID: 2, Code: model.RoleStaff, Privileges: privilegeList(model.StaffPrivilegeCodes)},
		},
	}
}

func allPrivilegeCodes() []string {
	codes := make([]string, len(model.DefaultPrivileges))
	for i, p := range model.DefaultPrivileges {
		codes[i] = p.Code
	}
	return codes
}

func privilegeList(codes []string) []model.Privilege {
	out := make([]model.Privilege, len(codes))
	for i, c := range codes {
		out[i] = model.Privilege{ID: uint(i + 1), Code: c}
	}
	return out
}

func (m *memStore) decrement(stockID uuid.UUID, qty int) error {
	stock, ok := m.stocks[stockID]
	if !ok || stock.Quantity < qty {
		return repository.ErrInsufficientStock
	}
	stock.Quantity -= qty
	m.stocks[stockID] = stock
	return nil
}

func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

// --- products ---

type fakeProductRepo struct{ m *memStore }

func (r fakeProductRepo) Create(p *model.Product) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	ensureID(&p.ID)
	r.m.products[p.ID] = *p
	return nil
}

func (r fakeProductRepo) FindAll() ([]model.Product, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := make([]model.Product, 0, len(r.m.products))
	for _, p := range r.m.products {
		out = append(out, p)
	}
	return out, nil
}

func (r fakeProductRepo) FindByID(id uuid.UUID) (*model.Product, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	p, ok := r.m.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &p, nil
}

// --- suppliers ---

type fakeSupplierRepo struct{ m *memStore }

func (r fakeSupplierRepo) Create(s *model.Supplier) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	ensureID(&s.ID)
	r.m.suppliers[s.ID] = *s
	return nil
}

func (r fakeSupplierRepo) FindAll() ([]model.Supplier, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := make([]model.Supplier, 0, len(r.m.suppliers))
	for _, s := range r.m.suppliers {
		out = append(out, s)
	}
	return out, nil
}

func (r fakeSupplierRepo) FindByID(id uuid.UUID) (*model.Supplier, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	s, ok := r.m.suppliers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &s, nil
}

// --- stocks ---

type fakeStockRepo struct{ m *memStore }

func (r fakeStockRepo) Create(s *model.Stock) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	ensureID(&s.ID)
	r.m.stocks[s.ID] = *s
	return nil
}

func (r fakeStockRepo) sorted(match func(model.Stock) bool) []model.Stock {
	out := make([]model.Stock, 0, len(r.m.stocks))
	for _, s := range r.m.stocks {
		if match(s) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ExpiryDate.Before(out[j].ExpiryDate) })
	return out
}

func (r fakeStockRepo) FindAll() ([]model.Stock, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	return r.sorted(func(model.Stock) bool { return true }), nil
}

func (r fakeStockRepo) FindByID(id uuid.UUID) (*model.Stock, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	s, ok := r.m.stocks[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &s, nil
}

func (r fakeStockRepo) FindByProductID(productID uuid.UUID) ([]model.Stock, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	return r.sorted(func(s model.Stock) bool { return s.ProductID == productID }), nil
}

func (r fakeStockRepo) FindAvailable(productID uuid.UUID, qty int) (*model.Stock, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	lots := r.sorted(func(s model.Stock) bool { return s.ProductID == productID && s.Quantity >= qty })
	if len(lots) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &lots[0], nil
}

// --- transactions ---

type fakeTransactionRepo struct{ m *memStore }

func (r fakeTransactionRepo) Record(txn *model.Transaction) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if err := r.m.decrement(txn.StockID, txn.Quantity); err != nil {
		return err
	}
	ensureID(&txn.ID)
	r.m.transactions = append(r.m.transactions, *txn)
	return nil
}

func (r fakeTransactionRepo) FindAll() ([]model.Transaction, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	return append([]model.Transaction(nil), r.m.transactions...), nil
}

func (r fakeTransactionRepo) FindByID(id uuid.UUID) (*model.Transaction, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, t := range r.m.transactions {
		if t.ID == id {
			return &t, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r fakeTransactionRepo) FindBetween(start, end time.Time) ([]model.Transaction, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []model.Transaction
	for _, t := range r.m.transactions {
		if !t.Date.Before(start) && t.Date.Before(end) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r fakeTransactionRepo) GetSalesTrend(start, end time.Time) ([]repository.SalesTrendData, error) {
	txns, _ := r.FindBetween(start, end)
	byDay := map[string]*repository.SalesTrendData{}
	var days []string
	for _, t := range txns {
		day := t.Date.In(start.Location()).Format("2006-01-02")
		d, ok := byDay[day]
		if !ok {
			d = &repository.SalesTrendData{Date: day, Amount: decimal.Zero}
			byDay[day] = d
			days = append(days, day)
		}
		d.Count++
		d.Quantity += int64(t.Quantity)
		d.Amount = d.Amount.Add(t.TotalPrice)
	}
	sort.Strings(days)
	out := make([]repository.SalesTrendData, 0, len(days))
	for _, day := range days {
		out = append(out, *byDay[day])
	}
	return out, nil
}

func (r fakeTransactionRepo) GetInventoryStats(threshold int) (*repository.InventoryStats, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	stats := &repository.InventoryStats{TotalProducts: int64(len(r.m.products))}
	for _, s := range r.m.stocks {
		stats.TotalStock += int64(s.Quantity)
		if s.Quantity < threshold {
			stats.LowStockItems++
		}
	}
	return stats, nil
}

func (r fakeTransactionRepo) GetSalesSummary(start, end time.Time) (*repository.SalesSummary, error) {
	txns, _ := r.FindBetween(start, end)
	summary := &repository.SalesSummary{Amount: decimal.Zero}
	for _, t := range txns {
		summary.Count++
		summary.Amount = summary.Amount.Add(t.TotalPrice)
	}
	return summary, nil
}

// --- product status reports ---

type fakeReportRepo struct{ m *memStore }

func cloneReport(p model.ProductStatus) model.ProductStatus {
	p.PreviousReports = append([]model.ReportRevision{}, p.PreviousReports...)
	return p
}

func (r fakeReportRepo) Create(p *model.ProductStatus) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	ensureID(&p.ID)
	r.m.reports[p.ID] = cloneReport(*p)
	return nil
}

func (r fakeReportRepo) FindByID(id uuid.UUID) (*model.ProductStatus, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	p, ok := r.m.reports[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	c := cloneReport(p)
	return &c, nil
}

func (r fakeReportRepo) FindAll(f repository.ProductStatusFilter) ([]model.ProductStatus, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []model.ProductStatus
	for _, p := range r.m.reports {
		if f.Type != "" && p.Type != f.Type {
			continue
		}
		if f.Status != "" && p.Status != f.Status {
			continue
		}
		if f.ReportedBy != nil && p.ReportedBy != *f.ReportedBy {
			continue
		}
		out = append(out, cloneReport(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ReportedAt.After(out[j].ReportedAt) })
	return out, nil
}

func (r fakeReportRepo) Save(p *model.ProductStatus, expected model.ReportState, deduct int) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	stored, ok := r.m.reports[p.ID]
	if !ok || stored.Status != expected {
		return repository.ErrStaleWrite
	}
	if deduct > 0 {
		if err := r.m.decrement(p.StockID, deduct); err != nil {
			return err
		}
	}
	r.m.reports[p.ID] = cloneReport(*p)
	return nil
}

// --- activity ---

type fakeActivityRepo struct{ m *memStore }

func (r fakeActivityRepo) Create(e *model.ActivityLog) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	ensureID(&e.ID)
	r.m.logs = append(r.m.logs, *e)
	return nil
}

func (r fakeActivityRepo) FindAll(f repository.ActivityLogFilter) ([]model.ActivityLog, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []model.ActivityLog
	for i := len(r.m.logs) - 1; i >= 0; i-- {
		l := r.m.logs[i]
		if f.UserID != nil && l.UserID != *f.UserID {
			continue
		}
		out = append(out, l)
		if f.Limit > 0 && len(out) == f.Limit {
			break
		}
	}
	return out, nil
}

// --- notifications ---

type fakeNotificationRepo struct{ m *memStore }

func (r fakeNotificationRepo) CreateBatch(ns []model.Notification) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.notifications = append(r.m.notifications, ns...)
	return nil
}

func (r fakeNotificationRepo) FindByUserID(userID uuid.UUID) ([]model.Notification, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []model.Notification
	for _, n := range r.m.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r fakeNotificationRepo) CountUnread(userID uuid.UUID) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var n int64
	for _, x := range r.m.notifications {
		if x.UserID == userID && !x.Read {
			n++
		}
	}
	return n, nil
}

func (r fakeNotificationRepo) MarkRead(id, userID uuid.UUID) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for i, n := range r.m.notifications {
		if n.ID == id && n.UserID == userID {
			r.m.notifications[i].Read = true
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

// --- attendance ---

type fakeAttendanceRepo struct{ m *memStore }

func (r fakeAttendanceRepo) FindOpen(userID uuid.UUID, date string) (*model.AttendanceRecord, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, a := range r.m.attendance {
		if a.UserID == userID && a.Date == date && a.IsOpen() {
			return &a, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r fakeAttendanceRepo) ClockIn(rec *model.AttendanceRecord) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, a := range r.m.attendance {
		if a.UserID == rec.UserID && a.Date == rec.Date && a.IsOpen() {
			return gorm.ErrDuplicatedKey
		}
	}
	ensureID(&rec.ID)
	r.m.attendance = append(r.m.attendance, *rec)
	if u, ok := r.m.users[rec.UserID]; ok {
		u.IsActive = true
		timeIn := rec.TimeIn
		u.LastTimeIn = &timeIn
		r.m.users[rec.UserID] = u
	}
	return nil
}

func (r fakeAttendanceRepo) ClockOut(rec *model.AttendanceRecord) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for i, a := range r.m.attendance {
		if a.ID != rec.ID {
			continue
		}
		if !a.IsOpen() {
			return repository.ErrStaleWrite
		}
		r.m.attendance[i] = *rec
		if u, ok := r.m.users[rec.UserID]; ok {
			u.IsActive = false
			u.LastTimeOut = rec.TimeOut
			r.m.users[rec.UserID] = u
		}
		return nil
	}
	return repository.ErrStaleWrite
}

func (r fakeAttendanceRepo) FindByDate(date string) ([]model.AttendanceRecord, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []model.AttendanceRecord
	for _, a := range r.m.attendance {
		if a.Date == date {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r fakeAttendanceRepo) FindByUserID(userID uuid.UUID, limit int) ([]model.AttendanceRecord, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []model.AttendanceRecord
	for i := len(r.m.attendance) - 1; i >= 0; i-- {
		if r.m.attendance[i].UserID == userID {
			out = append(out, r.m.attendance[i])
			if limit > 0 && len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

// --- users & roles ---

type fakeUserRepo struct{ m *memStore }

func (r fakeUserRepo) withRole(u model.User) *model.User {
	for _, role := range r.m.roles {
		if u.RoleID != nil && role.ID == *u.RoleID {
			u.Role = role
		}
	}
	return &u
}

func (r fakeUserRepo) FindByUsername(username string) (*model.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, u := range r.m.users {
		if u.Username == username {
			return r.withRole(u), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r fakeUserRepo) FindByID(id uuid.UUID) (*model.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	u, ok := r.m.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return r.withRole(u), nil
}

func (r fakeUserRepo) FindAll() ([]model.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []model.User
	for _, u := range r.m.users {
		out = append(out, *r.withRole(u))
	}
	return out, nil
}

func (r fakeUserRepo) FindByRoleCode(code string) ([]model.User, error) {
	all, _ := r.FindAll()
	var out []model.User
	for _, u := range all {
		if u.RoleCode() == code {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r fakeUserRepo) CountByRoleCode(code string, activeOnly bool) (int64, error) {
	users, _ := r.FindByRoleCode(code)
	var n int64
	for _, u := range users {
		if !activeOnly || u.IsActive {
			n++
		}
	}
	return n, nil
}

func (r fakeUserRepo) Register(u *model.User, adminRole, staffRole *model.Role) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, existing := range r.m.users {
		if existing.Username == u.Username {
			return gorm.ErrDuplicatedKey
		}
	}
	role := staffRole
	if !r.m.bootstrapped {
		r.m.bootstrapped = true
		role = adminRole
	}
	ensureID(&u.ID)
	u.RoleID = &role.ID
	stored := *u
	stored.Role = nil
	r.m.users[u.ID] = stored
	u.Role = role
	return nil
}

func (r fakeUserRepo) Update(u *model.User) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	stored := *u
	stored.Role = nil
	r.m.users[u.ID] = stored
	return nil
}

func (r fakeUserRepo) Delete(id uuid.UUID) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.users[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.m.users, id)
	return nil
}

func (r fakeUserRepo) update(id uuid.UUID, fn func(*model.User)) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	u, ok := r.m.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	fn(&u)
	r.m.users[id] = u
	return nil
}

func (r fakeUserRepo) UpdatePassword(id uuid.UUID, hashed string) error {
	return r.update(id, func(u *model.User) { u.Password = hashed })
}

func (r fakeUserRepo) UpdateTokenVersion(id uuid.UUID, version string) error {
	return r.update(id, func(u *model.User) { u.TokenVersion = version })
}

func (r fakeUserRepo) UpdateLastSeen(id uuid.UUID) error {
	now := time.Now()
	return r.update(id, func(u *model.User) { u.LastSeenAt = &now })
}

type fakeRoleRepo struct{ m *memStore }

func (r fakeRoleRepo) FindAll() ([]model.Role, error) {
	var out []model.Role
	for _, role := range r.m.roles {
		out = append(out, *role)
	}
	return out, nil
}

func (r fakeRoleRepo) FindByID(id uint) (*model.Role, error) {
	for _, role := range r.m.roles {
		if role.ID == id {
			return role, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r fakeRoleRepo) FindByCode(code string) (*model.Role, error) {
	role, ok := r.m.roles[code]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return role, nil
}

func (r fakeRoleRepo) Create(role *model.Role) error {
	r.m.roles[role.Code] = role
	return nil
}

func (r fakeRoleRepo) SeedDefaults() error { return nil }

func (r fakeRoleRepo) AssignPrivileges(role *model.Role, privileges []model.Privilege) error {
	role.Privileges = privileges
	return nil
}

// --- realtime ---

type sent struct {
	to      *uuid.UUID
	payload interface{}
}

type recordingPublisher struct {
	mu       sync.Mutex
	messages []sent
}

func (p *recordingPublisher) BroadcastJSON(v interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, sent{payload: v})
}

func (p *recordingPublisher) SendJSON(userID uuid.UUID, v interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := userID
	p.messages = append(p.messages, sent{to: &id, payload: v})
}

func (p *recordingPublisher) count(pred func(sent) bool) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, m := range p.messages {
		if pred(m) {
			n++
		}
	}
	return n
}

// --- failure injection ---

var errDatabaseDown = errors.New("dial tcp 127.0.0.1:5432: connection refused")

type downProductRepo struct{ fakeProductRepo }

func (downProductRepo) FindByID(uuid.UUID) (*model.Product, error) { return nil, errDatabaseDown }

type downStockRepo struct{ fakeStockRepo }

func (downStockRepo) FindAvailable(uuid.UUID, int) (*model.Stock, error) {
	return nil, errDatabaseDown
}

type downReportRepo struct{ fakeReportRepo }

func (downReportRepo) FindByID(uuid.UUID) (*model.ProductStatus, error) { return nil, errDatabaseDown }
