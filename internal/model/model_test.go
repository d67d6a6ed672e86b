package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestReviseKeepsHistory(t *testing.T) {
	reportedAt := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	p := &ProductStatus{Notes: "cork pushed in", ImageURL: "a.jpg", Status: ReportPending, ReportedAt: reportedAt}

	p.ApplyReview(ReportRejected, "blurry photo", uuid.New(), "owner", reportedAt.Add(time.Hour))
	editedAt := reportedAt.Add(2 * time.Hour)
	p.Revise("cork pushed in, wine leaking", "b.jpg", editedAt)

	if p.Status != ReportPending || p.ReviewedBy != nil || p.ReviewNotes != "" {
		t.Fatalf("review fields not cleared: %+v", p)
	}
	if p.Notes != "cork pushed in, wine leaking" || p.ImageURL != "b.jpg" {
		t.Fatalf("content not replaced: %+v", p)
	}
	if p.EditedAt == nil || !p.EditedAt.Equal(editedAt) || !p.ReportedAt.Equal(reportedAt) {
		t.Fatalf("timestamps wrong: %+v", p)
	}

	if len(p.PreviousReports) != 1 {
		t.Fatalf("expected one revision, got %d", len(p.PreviousReports))
	}
	rev := p.PreviousReports[0]
	if rev.Notes != "cork pushed in" || rev.ImageURL != "a.jpg" || rev.ReviewNotes != "blurry photo" || rev.Status != ReportRejected {
		t.Fatalf("unexpected revision %+v", rev)
	}

	raw, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded struct {
		PreviousReports []ReportRevision `json:"previous_reports"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil || len(decoded.PreviousReports) != 1 {
		t.Fatalf("previous_reports not serialized: %s", raw)
	}
}

func TestAttendanceClose(t *testing.T) {
	in := time.Date(2025, 3, 14, 8, 0, 0, 0, time.UTC)
	a := &AttendanceRecord{TimeIn: in}
	if !a.IsOpen() {
		t.Fatal("new record should be open")
	}

	a.Close(in.Add(8*time.Hour + 29*time.Minute + 59*time.Second))
	if a.IsOpen() || *a.Duration != 509 {
		t.Fatalf("duration = %d, want 509", *a.Duration)
	}

	b := &AttendanceRecord{TimeIn: in}
	b.Close(in.Add(-time.Minute))
	if *b.Duration != 0 {
		t.Fatalf("clock skew should clamp to 0, got %d", *b.Duration)
	}
}

func TestPasswordHashing(t *testing.T) {
	u := &User{}
	if err := u.SetPassword("secret123"); err != nil {
		t.Fatalf("SetPassword: %v", err)
	}
	if u.Password == "secret123" {
		t.Fatal("password stored in plain text")
	}
	if !u.CheckPassword("secret123") || u.CheckPassword("secret124") {
		t.Fatal("CheckPassword mismatch")
	}
}

func TestUserPrivileges(t *testing.T) {
	u := &User{}
	if u.IsAdmin() || len(u.GetPrivilegeCodes()) != 0 {
		t.Fatal("user without a role has no privileges")
	}

	u.Role = &Role{Code: RoleStaff, Privileges: []Privilege{{Code: PrivReportCreate}}}
	if !u.HasPrivilege(PrivReportCreate) || u.HasPrivilege(PrivReportReview) {
		t.Fatal("privilege lookup wrong")
	}
	if resp := u.ToResponse(); resp.Role != RoleStaff || len(resp.Privileges) != 1 {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestStaffPrivilegesAreDefined(t *testing.T) {
	known := map[string]bool{}
	for _, p := range DefaultPrivileges {
		known[p.Code] = true
	}
	for _, code := range StaffPrivilegeCodes {
		if !known[code] {
			t.Errorf("staff privilege %q is not a default privilege", code)
		}
	}
	for _, code := range []string{PrivReportReview, PrivProductCreate, PrivUserDelete} {
		for _, s := range StaffPrivilegeCodes {
			if s == code {
				t.Errorf("staff must not hold %q", code)
			}
		}
	}
}
