package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/lab-resource-booking/internal/availability"
	"github.com/iliyamo/lab-resource-booking/internal/repository"
	"github.com/iliyamo/lab-resource-booking/internal/requirements"
)

// AvailabilityHandler exposes the conflict checker and the training
// requirements gate over HTTP. Both endpoints are pure queries; the
// booking workflow calls the same components before admitting a
// request, so clients can pre-validate a slot without side effects.
type AvailabilityHandler struct {
	Labs    *repository.LabRepo
	Checker *availability.Checker
	Gate    *requirements.Gate
}

// NewAvailabilityHandler constructs an AvailabilityHandler.
func NewAvailabilityHandler(labs *repository.LabRepo, checker *availability.Checker, gate *requirements.Gate) *AvailabilityHandler {
	return &AvailabilityHandler{Labs: labs, Checker: checker, Gate: gate}
}

// CheckAvailability handles GET /v1/labs/:id/availability.
// Query parameters: from and to (RFC3339, required), resource_ids
// (comma separated, optional). A storage failure answers 503: the
// caller must treat availability as unknown, never as free.
func (h *AvailabilityHandler) CheckAvailability(c echo.Context) error {
	labID, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid lab id"})
	}
	from, err := parseTimeParam(c.QueryParam("from"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid from timestamp"})
	}
	to, err := parseTimeParam(c.QueryParam("to"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid to timestamp"})
	}
	resourceIDs, err := parseIDList(c.QueryParam("resource_ids"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid resource_ids"})
	}

	ctx := c.Request().Context()
	if _, err := h.Labs.GetByID(ctx, labID); err != nil {
		if errors.Is(err, repository.ErrLabNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "lab not found"})
		}
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "temporarily unavailable, try again"})
	}

	result, err := h.Checker.CheckAvailability(ctx, labID, resourceIDs, from, to)
	if err != nil {
		if errors.Is(err, availability.ErrInvalidRange) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "from must be before to"})
		}
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "temporarily unavailable, try again"})
	}
	return c.JSON(http.StatusOK, result)
}

// CheckRequirements handles GET /v1/labs/:id/requirements. It reports
// the training prerequisites of the lab that the authenticated user
// has not yet satisfied.
func (h *AvailabilityHandler) CheckRequirements(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	labID, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid lab id"})
	}

	ctx := c.Request().Context()
	if _, err := h.Labs.GetByID(ctx, labID); err != nil {
		if errors.Is(err, repository.ErrLabNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "lab not found"})
		}
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "temporarily unavailable, try again"})
	}

	result, err := h.Gate.RequirementsOK(ctx, labID, userID)
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "temporarily unavailable, try again"})
	}
	return c.JSON(http.StatusOK, result)
}
