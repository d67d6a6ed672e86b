package service

import (
	"errors"
	"testing"
	"time"

	"winehouse-pos/internal/model"
)

func TestClockInTwiceFails(t *testing.T) {
	env := newTestEnv(t)

	record, err := env.attendance.ClockIn(env.staff)
	if err != nil {
		t.Fatalf("ClockIn: %v", err)
	}
	if record.Date != "2025-03-14" || !record.IsOpen() {
		t.Fatalf("unexpected record %+v", record)
	}
	if u := env.store.users[env.staff.ID]; !u.IsActive || u.LastTimeIn == nil {
		t.Fatalf("user should be active after clock-in: %+v", u)
	}

	if _, err := env.attendance.ClockIn(env.staff); !errors.Is(err, ErrAlreadyClockedIn) {
		t.Fatalf("expected ErrAlreadyClockedIn, got %v", err)
	}
}

func TestClockOutWithoutClockInFails(t *testing.T) {
	env := newTestEnv(t)
	if _, err := env.attendance.ClockOut(env.staff); !errors.Is(err, ErrNotClockedIn) {
		t.Fatalf("expected ErrNotClockedIn, got %v", err)
	}
}

func TestClockOutComputesWholeMinutes(t *testing.T) {
	env := newTestEnv(t)
	if _, err := env.attendance.ClockIn(env.staff); err != nil {
		t.Fatalf("ClockIn: %v", err)
	}

	env.clock = testNow.Add(2*time.Hour + 15*time.Minute + 59*time.Second)
	record, err := env.attendance.ClockOut(env.staff)
	if err != nil {
		t.Fatalf("ClockOut: %v", err)
	}
	if record.Duration == nil || *record.Duration != 135 {
		t.Fatalf("duration = %v, want 135", record.Duration)
	}
	if u := env.store.users[env.staff.ID]; u.IsActive || u.LastTimeOut == nil {
		t.Fatalf("user should be inactive after clock-out: %+v", u)
	}

	// A second shift the same day is allowed once the first is closed
	if _, err := env.attendance.ClockIn(env.staff); err != nil {
		t.Fatalf("second ClockIn: %v", err)
	}
	if _, err := env.attendance.ClockOut(env.staff); err != nil {
		t.Fatalf("second ClockOut: %v", err)
	}
	if _, err := env.attendance.ClockOut(env.staff); !errors.Is(err, ErrNotClockedIn) {
		t.Fatalf("expected ErrNotClockedIn, got %v", err)
	}
}

func TestAttendanceUsesShopTimeZone(t *testing.T) {
	env := newTestEnv(t)
	manila, err := time.LoadLocation("Asia/Manila")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	env.attendance.loc = manila
	env.clock = time.Date(2025, 3, 14, 17, 0, 0, 0, time.UTC) // 01:00 on the 15th in Manila

	record, err := env.attendance.ClockIn(env.staff)
	if err != nil {
		t.Fatalf("ClockIn: %v", err)
	}
	if record.Date != "2025-03-15" {
		t.Fatalf("date = %s, want 2025-03-15", record.Date)
	}
}

func TestActiveStaffAndToday(t *testing.T) {
	env := newTestEnv(t)
	other := env.addUser(t, "cashier", model.RoleStaff)

	if _, err := env.attendance.ClockIn(env.staff); err != nil {
		t.Fatalf("ClockIn: %v", err)
	}
	if _, err := env.attendance.ClockIn(other); err != nil {
		t.Fatalf("ClockIn: %v", err)
	}
	if _, err := env.attendance.ClockOut(other); err != nil {
		t.Fatalf("ClockOut: %v", err)
	}

	active, err := env.attendance.ActiveStaff()
	if err != nil {
		t.Fatalf("ActiveStaff: %v", err)
	}
	if len(active) != 1 || active[0].Username != "clerk" {
		t.Fatalf("unexpected active staff %+v", active)
	}

	today, _ := env.attendance.Today()
	if len(today) != 2 {
		t.Fatalf("expected 2 records today, got %d", len(today))
	}

	history, _ := env.attendance.History(other.ID, 0)
	if len(history) != 1 || history[0].IsOpen() {
		t.Fatalf("unexpected history %+v", history)
	}
}
