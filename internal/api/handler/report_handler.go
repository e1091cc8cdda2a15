package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/campusnest/sublet-market/internal/core/domain"
	"github.com/campusnest/sublet-market/internal/core/ports"
	"github.com/campusnest/sublet-market/internal/pkg/metrics"
)

type ReportHandler struct {
	moderationService ports.ModerationService
}

func NewReportHandler(moderationService ports.ModerationService) *ReportHandler {
	return &ReportHandler{moderationService: moderationService}
}

// Create files a report against a listing.
//
// @Summary      Report listing
// @Tags         reports
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Listing ID"
// @Param        body  body      createReportRequest  true  "Report"
// @Success      201   {object}  reportResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/listings/{id}/reports [post]
func (h *ReportHandler) Create(c echo.Context) error {
	caller, err := requireCaller(c)
	if err != nil {
		return err
	}

	var req createReportRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	report, err := h.moderationService.Report(c.Request().Context(), caller, ports.CreateReportInput{
		ListingID: c.Param("id"),
		Reason:    req.Reason,
		Details:   req.Details,
	})
	if err != nil {
		return err
	}

	metrics.ReportsTotal.WithLabelValues("created").Inc()
	return c.JSON(http.StatusCreated, toReportResponse(report))
}

// List returns reports, optionally filtered by status.
//
// @Summary      List reports
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "PENDING, RESOLVED or DISMISSED"
// @Success      200     {array}   reportResponse
// @Failure      403     {object}  errorResponse
// @Router       /v1/admin/reports [get]
func (h *ReportHandler) List(c echo.Context) error {
	caller, err := requireCaller(c)
	if err != nil {
		return err
	}

	reports, err := h.moderationService.ListReports(c.Request().Context(), caller, c.QueryParam("status"))
	if err != nil {
		return err
	}

	resp := make([]reportResponse, 0, len(reports))
	for _, r := range reports {
		resp = append(resp, toReportResponse(r))
	}
	return c.JSON(http.StatusOK, resp)
}

// Resolve closes a pending report, optionally unpublishing the listing.
//
// @Summary      Resolve or dismiss report
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Report ID"
// @Param        body  body      resolveReportRequest  true  "Moderation action"
// @Success      200   {object}  reportResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/admin/reports/{id} [post]
func (h *ReportHandler) Resolve(c echo.Context) error {
	caller, err := requireCaller(c)
	if err != nil {
		return err
	}

	var req resolveReportRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	report, err := h.moderationService.ResolveReport(c.Request().Context(), caller, ports.ResolveReportInput{
		ReportID:  c.Param("id"),
		Action:    req.Action,
		Unpublish: req.Unpublish,
	})
	if err != nil {
		return err
	}

	action := "dismissed"
	if report.Status == domain.ReportResolved {
		action = "resolved"
	}
	metrics.ReportsTotal.WithLabelValues(action).Inc()

	return c.JSON(http.StatusOK, toReportResponse(report))
}
