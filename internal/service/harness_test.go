package service

import (
	"testing"
	"time"

	"winehouse-pos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var testNow = time.Date(2025, 3, 14, 10, 30, 0, 0, time.UTC)

type testEnv struct {
	store *memStore
	hub   *recordingPublisher
	clock time.Time

	activity      *activityService
	notifications *notificationService
	reports       *reportService
	sales         *salesService
	catalog       *catalogService
	attendance    *attendanceService
	users         *userService
	auth          *authService
	dashboard     *dashboardService

	admin Actor
	staff Actor
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	m := newMemStore()
	hub := &recordingPublisher{}
	env := &testEnv{store: m, hub: hub, clock: testNow}
	now := func() time.Time { return env.clock }

	userRepo := fakeUserRepo{m}

	env.activity = NewActivityService(fakeActivityRepo{m}).(*activityService)
	env.activity.now = now
	env.notifications = NewNotificationService(fakeNotificationRepo{m}, userRepo, hub).(*notificationService)
	env.notifications.now = now

	env.reports = NewReportService(fakeReportRepo{m}, fakeProductRepo{m}, fakeStockRepo{m},
		env.activity, env.notifications, hub,
		ReportOptions{RequireRejectionNotes: true, Location: time.UTC}).(*reportService)
	env.reports.now = now

	env.sales = NewSalesService(fakeProductRepo{m}, fakeStockRepo{m}, fakeTransactionRepo{m}, env.activity, hub).(*salesService)
	env.sales.now = now

	env.catalog = NewCatalogService(fakeProductRepo{m}, fakeSupplierRepo{m}, fakeStockRepo{m}, env.activity, hub).(*catalogService)

	env.attendance = NewAttendanceService(fakeAttendanceRepo{m}, userRepo, env.activity, hub, time.UTC).(*attendanceService)
	env.attendance.now = now

	env.users = NewUserService(userRepo, env.activity).(*userService)
	env.users.now = now

	env.auth = NewAuthService(userRepo, fakeRoleRepo{m}, env.activity, hub, 5*time.Minute).(*authService)
	env.auth.now = now

	env.dashboard = NewDashboardService(fakeTransactionRepo{m}, userRepo, 10, time.UTC).(*dashboardService)
	env.dashboard.now = now

	env.admin = env.addUser(t, "owner", model.RoleAdmin)
	env.staff = env.addUser(t, "clerk", model.RoleStaff)
	return env
}

func (e *testEnv) addUser(t *testing.T, username, roleCode string) Actor {
	t.Helper()
	role := e.store.roles[roleCode]
	u := model.User{Username: username, RoleID: &role.ID}
	u.ID = uuid.New()
	if err := u.SetPassword("secret123"); err != nil {
		t.Fatalf("hash password: %v", err)
	}
	e.store.users[u.ID] = u
	if roleCode == model.RoleAdmin {
		e.store.bootstrapped = true
	}
	return Actor{ID: u.ID, Username: username, Role: roleCode}
}

func (e *testEnv) addProduct(name string) uuid.UUID {
	p := model.Product{Name: name}
	p.ID = uuid.New()
	e.store.products[p.ID] = p
	return p.ID
}

func (e *testEnv) addLot(productID uuid.UUID, qty int, price string, expiry time.Time) uuid.UUID {
	s := model.Stock{
		ProductID:   productID,
		ProductName: e.store.products[productID].Name,
		Quantity:    qty,
		Price:       decimal.RequireFromString(price),
		DateAdded:   expiry.AddDate(-1, 0, 0),
		ExpiryDate:  expiry,
	}
	s.ID = uuid.New()
	e.store.stocks[s.ID] = s
	return s.ID
}

func (e *testEnv) stockQty(id uuid.UUID) int {
	return e.store.stocks[id].Quantity
}

func (e *testEnv) notificationsFor(userID uuid.UUID) []model.Notification {
	var out []model.Notification
	for _, n := range e.store.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}

func (e *testEnv) hasLog(action string) bool {
	for _, l := range e.store.logs {
		if l.Action == action {
			return true
		}
	}
	return false
}
