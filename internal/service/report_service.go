package service

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"winehouse-pos/internal/model"
	"winehouse-pos/internal/repository"
	"winehouse-pos/pkg/export"
	"winehouse-pos/pkg/validator"

	"github.com/google/uuid"
)

// ReportService runs the expired/damaged product report workflow:
// submit -> review (approve deducts stock, reject) -> revise -> review again.
type ReportService interface {
	Submit(actor Actor, req *SubmitReportRequest) (*model.ProductStatus, error)
	Review(actor Actor, id uuid.UUID, req *ReviewReportRequest) (*model.ProductStatus, error)
	Revise(actor Actor, id uuid.UUID, req *ReviseReportRequest) (*model.ProductStatus, error)
	List(actor Actor, filter repository.ProductStatusFilter) ([]model.ProductStatus, error)
	Get(actor Actor, id uuid.UUID) (*model.ProductStatus, error)
	Export(format string, filter repository.ProductStatusFilter) (*bytes.Buffer, error)
}

type SubmitReportRequest struct {
	ProductID uuid.UUID        `json:"product_id" validate:"uuid_required"`
	Type      model.StatusType `json:"type" validate:"required,oneof=expired damaged"`
	Quantity  int              `json:"quantity" validate:"required,gt=0"`
	Notes     string           `json:"notes" validate:"max=2000"`
	ImageURL  string           `json:"image_url" validate:"omitempty,max=2048"`
}

type ReviewReportRequest struct {
	Status      model.ReportState `json:"status" validate:"required,oneof=approved rejected"`
	ReviewNotes string            `json:"review_notes" validate:"max=2000"`
}

type ReviseReportRequest struct {
	Notes    string  `json:"notes" validate:"max=2000"`
	ImageURL *string `json:"image_url"` // nil keeps the current image
}

type ReportOptions struct {
	RequireRejectionNotes bool
	Location              *time.Location
}

const (
	ExportFormatXLSX = "xlsx"
	reportSheet      = "Product Status Report"
)

var reportExportHeader = []string{"Product", "Type", "Quantity", "Status", "Reported By", "Date"}

type reportService struct {
	repo          repository.ProductStatusRepository
	productRepo   repository.ProductRepository
	stockRepo     repository.StockRepository
	activity      ActivityService
	notifications NotificationService
	hub           Publisher
	opts          ReportOptions
	now           func() time.Time
}

func NewReportService(
	repo repository.ProductStatusRepository,
	productRepo repository.ProductRepository,
	stockRepo repository.StockRepository,
	activity ActivityService,
	notifications NotificationService,
	hub Publisher,
	opts ReportOptions,
) ReportService {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &reportService{
		repo:          repo,
		productRepo:   productRepo,
		stockRepo:     stockRepo,
		activity:      activity,
		notifications: notifications,
		hub:           publisherOrNop(hub),
		opts:          opts,
		now:           time.Now,
	}
}

func (s *reportService) Submit(actor Actor, req *SubmitReportRequest) (*model.ProductStatus, error) {
	req.Notes = strings.TrimSpace(req.Notes)
	if err := validator.FirstError(req); err != nil {
		return nil, invalid(err)
	}

	product, err := s.productRepo.FindByID(req.ProductID)
	if err != nil {
		return nil, notFound(err, ErrProductNotFound)
	}

	lot, err := s.stockRepo.FindAvailable(product.ID, req.Quantity)
	if err != nil {
		return nil, notFound(err, ErrInsufficientStock)
	}

	userID := actor.ID.String()
	report := &model.ProductStatus{
		ProductID:          product.ID,
		ProductName:        product.Name,
		StockID:            lot.ID,
		Type:               req.Type,
		Quantity:           req.Quantity,
		Notes:              req.Notes,
		ImageURL:           req.ImageURL,
		Status:             model.ReportPending,
		ReportedBy:         actor.ID,
		ReportedByUsername: actor.Username,
		ReportedAt:         s.now(),
		PreviousReports:    []model.ReportRevision{},
	}
	report.CreatedBy = userID
	report.UpdatedBy = userID

	if err := s.repo.Create(report); err != nil {
		return nil, err
	}

	s.activity.Record(actor, fmt.Sprintf("Reported %s product", report.Type),
		fmt.Sprintf("%s - %d units", report.ProductName, report.Quantity))

	s.notifications.NotifyRole(model.RoleAdmin,
		fmt.Sprintf("New %s Product Report", report.Type),
		fmt.Sprintf("%s reported %d units of %s as %s", actor.Username, report.Quantity, report.ProductName, report.Type))

	s.broadcast("report_submitted", report)
	return report, nil
}

func (s *reportService) Review(actor Actor, id uuid.UUID, req *ReviewReportRequest) (*model.ProductStatus, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}

	report, err := s.repo.FindByID(id)
	if err != nil {
		return nil, notFound(err, ErrReportNotFound)
	}

	req.ReviewNotes = strings.TrimSpace(req.ReviewNotes)
	if err := validator.FirstError(req); err != nil {
		return nil, invalid(err)
	}
	if report.Status != model.ReportPending {
		return nil, ErrReportNotPending
	}
	if req.Status == model.ReportRejected && req.ReviewNotes == "" && s.opts.RequireRejectionNotes {
		return nil, ErrRejectionNotesRequired
	}

	report.ApplyReview(req.Status, req.ReviewNotes, actor.ID, actor.Username, s.now())
	report.UpdatedBy = actor.ID.String()

	deduct := 0
	if req.Status == model.ReportApproved {
		deduct = report.Quantity
	}

	if err := s.repo.Save(report, model.ReportPending, deduct); err != nil {
		switch {
		case errors.Is(err, repository.ErrStaleWrite):
			return nil, ErrReportNotPending
		case errors.Is(err, repository.ErrInsufficientStock):
			return nil, ErrInsufficientStock
		}
		return nil, err
	}

	verb := "Approved"
	if req.Status == model.ReportRejected {
		verb = "Rejected"
	}
	s.activity.Record(actor, fmt.Sprintf("%s %s product", verb, report.Type),
		fmt.Sprintf("%s - %d units", report.ProductName, report.Quantity))

	message := fmt.Sprintf("Your %s product report for %s has been %s.", report.Type, report.ProductName, req.Status)
	if req.Status == model.ReportRejected && report.ReviewNotes != "" {
		message += " Reason: " + report.ReviewNotes
	}
	s.notifications.NotifyUser(report.ReportedBy, "Report "+verb, message)

	s.broadcast("report_reviewed", report)
	if deduct > 0 {
		s.hub.BroadcastJSON(map[string]interface{}{
			"type":   "stock_update",
			"action": "stock_written_off",
			"stock": map[string]interface{}{
				"id":         report.StockID,
				"product_id": report.ProductID,
				"deducted":   deduct,
			},
			"message": fmt.Sprintf("%d units of %s written off as %s", deduct, report.ProductName, report.Type),
		})
	}

	return report, nil
}

func (s *reportService) Revise(actor Actor, id uuid.UUID, req *ReviseReportRequest) (*model.ProductStatus, error) {
	report, err := s.repo.FindByID(id)
	if err != nil {
		return nil, notFound(err, ErrReportNotFound)
	}

	if report.ReportedBy != actor.ID {
		return nil, ErrForbidden
	}
	if report.Status != model.ReportRejected {
		return nil, ErrReportNotRejected
	}

	req.Notes = strings.TrimSpace(req.Notes)
	if err := validator.FirstError(req); err != nil {
		return nil, invalid(err)
	}

	imageURL := report.ImageURL
	if req.ImageURL != nil {
		imageURL = *req.ImageURL
	}

	if report.PreviousReports == nil {
		report.PreviousReports = []model.ReportRevision{}
	}
	report.Revise(req.Notes, imageURL, s.now())
	report.UpdatedBy = actor.ID.String()

	if err := s.repo.Save(report, model.ReportRejected, 0); err != nil {
		if errors.Is(err, repository.ErrStaleWrite) {
			return nil, ErrReportNotRejected
		}
		return nil, err
	}

	s.activity.Record(actor, "Edited product status report",
		fmt.Sprintf("%s - Updated report after rejection", report.ProductName))

	s.notifications.NotifyRole(model.RoleAdmin, "Product Report Updated",
		fmt.Sprintf("%s has updated their %s product report for %s", actor.Username, report.Type, report.ProductName))

	s.broadcast("report_revised", report)
	return report, nil
}

// List returns reports matching filter. Staff only see their own reports.
func (s *reportService) List(actor Actor, filter repository.ProductStatusFilter) ([]model.ProductStatus, error) {
	if !actor.IsAdmin() {
		id := actor.ID
		filter.ReportedBy = &id
	}
	return s.repo.FindAll(filter)
}

func (s *reportService) Get(actor Actor, id uuid.UUID) (*model.ProductStatus, error) {
	report, err := s.repo.FindByID(id)
	if err != nil {
		return nil, notFound(err, ErrReportNotFound)
	}
	if !actor.IsAdmin() && report.ReportedBy != actor.ID {
		return nil, ErrForbidden
	}
	return report, nil
}

func (s *reportService) Export(format string, filter repository.ProductStatusFilter) (*bytes.Buffer, error) {
	if !strings.EqualFold(strings.TrimSpace(format), ExportFormatXLSX) {
		return nil, ErrUnsupportedFormat
	}

	reports, err := s.repo.FindAll(filter)
	if err != nil {
		return nil, err
	}

	rows := make([][]interface{}, 0, len(reports))
	for _, r := range reports {
		rows = append(rows, []interface{}{
			r.ProductName,
			string(r.Type),
			r.Quantity,
			string(r.Status),
			r.ReportedByUsername,
			r.ReportedAt.In(s.opts.Location).Format("2006-01-02 15:04"),
		})
	}

	return export.XLSX(export.Table{
		Sheet:  reportSheet,
		Header: reportExportHeader,
		Rows:   rows,
	})
}

func (s *reportService) broadcast(action string, report *model.ProductStatus) {
	s.hub.BroadcastJSON(map[string]interface{}{
		"type":   "product_status_update",
		"action": action,
		"report": map[string]interface{}{
			"id":           report.ID,
			"product_id":   report.ProductID,
			"product_name": report.ProductName,
			"type":         report.Type,
			"quantity":     report.Quantity,
			"status":       report.Status,
			"reported_by":  report.ReportedByUsername,
		},
	})
}
