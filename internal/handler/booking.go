package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/lab-resource-booking/internal/availability"
	"github.com/iliyamo/lab-resource-booking/internal/model"
	"github.com/iliyamo/lab-resource-booking/internal/repository"
	"github.com/iliyamo/lab-resource-booking/internal/requirements"
)

// BookingHandler implements the admission workflow for reservations
// and loans. Every create request runs the availability checker and
// the requirements gate before any row is written; a storage failure
// during either check refuses the booking ("cannot confirm
// availability" is never treated as "available").
type BookingHandler struct {
	Labs         *repository.LabRepo
	Resources    *repository.ResourceRepo
	Reservations *repository.ReservationRepo
	Loans        *repository.LoanRepo
	Checker      *availability.Checker
	Gate         *requirements.Gate
}

// NewBookingHandler constructs a BookingHandler. All dependencies must
// be non-nil.
func NewBookingHandler(
	labs *repository.LabRepo,
	resources *repository.ResourceRepo,
	reservations *repository.ReservationRepo,
	loans *repository.LoanRepo,
	checker *availability.Checker,
	gate *requirements.Gate,
) *BookingHandler {
	if labs == nil || resources == nil || reservations == nil || loans == nil || checker == nil || gate == nil {
		panic("nil dependency passed to NewBookingHandler")
	}
	return &BookingHandler{
		Labs:         labs,
		Resources:    resources,
		Reservations: reservations,
		Loans:        loans,
		Checker:      checker,
		Gate:         gate,
	}
}

type createReservationReq struct {
	LabID      uint64 `json:"lab_id"`
	ResourceID uint64 `json:"resource_id"`
	StartsAt   string `json:"starts_at"` // RFC3339
	EndsAt     string `json:"ends_at"`   // RFC3339
}

type createLoanReq struct {
	LabID      uint64 `json:"lab_id"`
	ResourceID uint64 `json:"resource_id"`
	DueAt      string `json:"due_at"` // RFC3339
}

// CreateReservation handles POST /v1/reservations. The window
// [starts_at, ends_at) must be conflict-free and the user must satisfy
// the lab's training prerequisites; otherwise the request is rejected
// with the full conflict or missing-training detail so the client can
// explain the refusal.
func (h *BookingHandler) CreateReservation(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createReservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.LabID == 0 || req.ResourceID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "lab_id and resource_id are required"})
	}
	starts, err := parseTimeParam(req.StartsAt)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid starts_at timestamp"})
	}
	ends, err := parseTimeParam(req.EndsAt)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ends_at timestamp"})
	}

	ctx := c.Request().Context()
	if status, msg := h.admit(c, userID, req.LabID, req.ResourceID, starts, ends); status != 0 {
		return c.JSON(status, msg)
	}

	res := &model.Reservation{
		UserID:     userID,
		LabID:      req.LabID,
		ResourceID: req.ResourceID,
		StartTime:  starts,
		EndTime:    ends,
		Status:     model.ReservationApproved,
	}
	if err := h.Reservations.Create(ctx, res); err != nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "temporarily unavailable, try again"})
	}
	return c.JSON(http.StatusCreated, reservationResp(res))
}

// CreateLoan handles POST /v1/loans. A loan occupies the resource from
// now until due_at, so the same admission checks run over that window.
func (h *BookingHandler) CreateLoan(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createLoanReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.LabID == 0 || req.ResourceID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "lab_id and resource_id are required"})
	}
	due, err := parseTimeParam(req.DueAt)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid due_at timestamp"})
	}
	starts := time.Now().UTC()

	ctx := c.Request().Context()
	if status, msg := h.admit(c, userID, req.LabID, req.ResourceID, starts, due); status != 0 {
		return c.JSON(status, msg)
	}

	loan := &model.Loan{
		UserID:     userID,
		LabID:      req.LabID,
		ResourceID: req.ResourceID,
		StartTime:  starts,
		EndTime:    due,
		Status:     model.LoanApproved,
	}
	if err := h.Loans.Create(ctx, loan); err != nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "temporarily unavailable, try again"})
	}
	return c.JSON(http.StatusCreated, loanResp(loan))
}

// admit runs the shared admission sequence: lab exists, resource
// belongs to the lab, no calendar/resource conflicts, prerequisites
// satisfied. It returns (0, nil) on success or an HTTP status and
// response body describing the refusal.
func (h *BookingHandler) admit(c echo.Context, userID, labID, resourceID uint64, from, to time.Time) (int, echo.Map) {
	ctx := c.Request().Context()

	if _, err := h.Labs.GetByID(ctx, labID); err != nil {
		if errors.Is(err, repository.ErrLabNotFound) {
			return http.StatusNotFound, echo.Map{"error": "lab not found"}
		}
		return http.StatusServiceUnavailable, echo.Map{"error": "temporarily unavailable, try again"}
	}
	res, err := h.Resources.GetByID(ctx, resourceID)
	if err != nil {
		if errors.Is(err, repository.ErrResourceNotFound) {
			return http.StatusNotFound, echo.Map{"error": "resource not found"}
		}
		return http.StatusServiceUnavailable, echo.Map{"error": "temporarily unavailable, try again"}
	}
	if res.LabID != labID {
		return http.StatusBadRequest, echo.Map{"error": "resource does not belong to lab"}
	}

	gateResult, err := h.Gate.RequirementsOK(ctx, labID, userID)
	if err != nil {
		return http.StatusServiceUnavailable, echo.Map{"error": "temporarily unavailable, try again"}
	}
	if !gateResult.OK {
		return http.StatusForbidden, echo.Map{"error": "training requirements not met", "missing": gateResult.Missing}
	}

	checkResult, err := h.Checker.CheckAvailability(ctx, labID, []uint64{resourceID}, from, to)
	if err != nil {
		if errors.Is(err, availability.ErrInvalidRange) {
			return http.StatusBadRequest, echo.Map{"error": "start must be before end"}
		}
		return http.StatusServiceUnavailable, echo.Map{"error": "temporarily unavailable, try again"}
	}
	if !checkResult.OK {
		return http.StatusConflict, echo.Map{"error": "time range not available", "conflicts": checkResult.Conflicts}
	}
	return 0, nil
}

// ListReservations handles GET /v1/reservations and returns the
// caller's reservations.
func (h *BookingHandler) ListReservations(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	rows, err := h.Reservations.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]echo.Map, 0, len(rows))
	for i := range rows {
		out = append(out, reservationResp(&rows[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"reservations": out})
}

// ListLoans handles GET /v1/loans and returns the caller's loans.
func (h *BookingHandler) ListLoans(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	rows, err := h.Loans.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]echo.Map, 0, len(rows))
	for i := range rows {
		out = append(out, loanResp(&rows[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"loans": out})
}

func reservationResp(r *model.Reservation) echo.Map {
	return echo.Map{
		"id":          r.ID,
		"lab_id":      r.LabID,
		"resource_id": r.ResourceID,
		"start_time":  r.StartTime.UTC().Format(time.RFC3339),
		"end_time":    r.EndTime.UTC().Format(time.RFC3339),
		"status":      r.Status,
	}
}

func loanResp(l *model.Loan) echo.Map {
	return echo.Map{
		"id":          l.ID,
		"lab_id":      l.LabID,
		"resource_id": l.ResourceID,
		"start_time":  l.StartTime.UTC().Format(time.RFC3339),
		"end_time":    l.EndTime.UTC().Format(time.RFC3339),
		"status":      l.Status,
	}
}
