package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/lab-resource-booking/internal/repository"
)

// PublicHandler serves the unauthenticated catalog: labs and their
// resources. These routes sit behind the response cache middleware;
// they expose no member data.
type PublicHandler struct {
	Labs      *repository.LabRepo
	Resources *repository.ResourceRepo
}

// NewPublicHandler constructs a PublicHandler.
func NewPublicHandler(labs *repository.LabRepo, resources *repository.ResourceRepo) *PublicHandler {
	return &PublicHandler{Labs: labs, Resources: resources}
}

// ListLabs handles GET /v1/labs.
func (h *PublicHandler) ListLabs(c echo.Context) error {
	labs, err := h.Labs.ListActive(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]echo.Map, 0, len(labs))
	for _, l := range labs {
		out = append(out, echo.Map{
			"id":          l.ID,
			"name":        l.Name,
			"location":    l.Location,
			"description": l.Description,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"labs": out})
}

// ListLabResources handles GET /v1/labs/:id/resources.
func (h *PublicHandler) ListLabResources(c echo.Context) error {
	labID, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid lab id"})
	}
	ctx := c.Request().Context()
	if _, err := h.Labs.GetByID(ctx, labID); err != nil {
		if errors.Is(err, repository.ErrLabNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "lab not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	resources, err := h.Resources.ListByLab(ctx, labID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]echo.Map, 0, len(resources))
	for _, r := range resources {
		out = append(out, echo.Map{
			"id":            r.ID,
			"name":          r.Name,
			"status":        r.Status,
			"qty_available": r.QtyAvailable,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"resources": out})
}
