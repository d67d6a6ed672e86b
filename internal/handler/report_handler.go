package handler

import (
	"fmt"
	"time"

	"winehouse-pos/internal/model"
	"winehouse-pos/internal/repository"
	"winehouse-pos/internal/service"
	"winehouse-pos/pkg/export"

	"github.com/gofiber/fiber/v2"
)

type ReportHandler struct {
	service service.ReportService
}

func NewReportHandler(s service.ReportService) *ReportHandler {
	return &ReportHandler{service: s}
}

func reportFilter(c *fiber.Ctx) repository.ProductStatusFilter {
	return repository.ProductStatusFilter{
		Type:   model.StatusType(c.Query("type")),
		Status: model.ReportState(c.Query("status")),
	}
}

// SubmitReport files an expired/damaged product report
// POST /api/v1/product-statuses
func (h *ReportHandler) SubmitReport(c *fiber.Ctx) error {
	actor, err := getActor(c)
	if err != nil {
		return respondError(c, err)
	}

	var req service.SubmitReportRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	report, err := h.service.Submit(actor, &req)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(201).JSON(fiber.Map{"message": "Report submitted", "data": report})
}

// ReviewReport approves or rejects a pending report
// PUT /api/v1/product-statuses/:id/review
func (h *ReportHandler) ReviewReport(c *fiber.Ctx) error {
	actor, err := getActor(c)
	if err != nil {
		return respondError(c, err)
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid report ID"})
	}

	var req service.ReviewReportRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	report, err := h.service.Review(actor, id, &req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Report " + string(report.Status), "data": report})
}

// ReviseReport lets the reporter edit and resubmit a rejected report
// PUT /api/v1/product-statuses/:id
func (h *ReportHandler) ReviseReport(c *fiber.Ctx) error {
	actor, err := getActor(c)
	if err != nil {
		return respondError(c, err)
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid report ID"})
	}

	var req service.ReviseReportRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	report, err := h.service.Revise(actor, id, &req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Report resubmitted", "data": report})
}

func (h *ReportHandler) GetReports(c *fiber.Ctx) error {
	actor, err := getActor(c)
	if err != nil {
		return respondError(c, err)
	}

	reports, err := h.service.List(actor, reportFilter(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(reports)
}

func (h *ReportHandler) GetReport(c *fiber.Ctx) error {
	actor, err := getActor(c)
	if err != nil {
		return respondError(c, err)
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid report ID"})
	}

	report, err := h.service.Get(actor, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}

// ExportReports downloads the report list as a spreadsheet
// GET /api/v1/product-statuses/export?format=xlsx
func (h *ReportHandler) ExportReports(c *fiber.Ctx) error {
	format := c.Query("format", service.ExportFormatXLSX)

	buf, err := h.service.Export(format, reportFilter(c))
	if err != nil {
		return respondError(c, err)
	}

	filename := fmt.Sprintf("product-status-report-%s.xlsx", time.Now().Format("20060102"))
	c.Set(fiber.HeaderContentType, export.ContentTypeXLSX)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(buf.Bytes())
}
