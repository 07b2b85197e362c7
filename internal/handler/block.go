package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/lab-resource-booking/internal/availability"
	"github.com/iliyamo/lab-resource-booking/internal/model"
	"github.com/iliyamo/lab-resource-booking/internal/repository"
)

// BlockHandler lets staff manage a lab's calendar blocks. Only the
// staff role reaches these routes; members interact with the calendar
// indirectly through the availability endpoint.
type BlockHandler struct {
	Labs      *repository.LabRepo
	Resources *repository.ResourceRepo
	Blocks    *repository.CalendarBlockRepo
}

// NewBlockHandler constructs a BlockHandler.
func NewBlockHandler(labs *repository.LabRepo, resources *repository.ResourceRepo, blocks *repository.CalendarBlockRepo) *BlockHandler {
	return &BlockHandler{Labs: labs, Resources: resources, Blocks: blocks}
}

type createBlockReq struct {
	ResourceID *uint64 `json:"resource_id"` // nil = lab-wide block
	Status     string  `json:"status"`
	StartsAt   string  `json:"starts_at"` // RFC3339
	EndsAt     string  `json:"ends_at"`   // RFC3339
	Reason     string  `json:"reason"`
}

var validBlockStatuses = map[model.BlockStatus]bool{
	model.BlockAvailable:   true,
	model.BlockReserved:    true,
	model.BlockBlocked:     true,
	model.BlockMaintenance: true,
	model.BlockExclusive:   true,
}

// Create handles POST /v1/labs/:id/blocks. The interval must be
// well-formed (starts_at strictly before ends_at); a resource-scoped
// block must reference a resource of the same lab.
func (h *BlockHandler) Create(c echo.Context) error {
	labID, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid lab id"})
	}
	var req createBlockReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	status := model.BlockStatus(req.Status)
	if !validBlockStatuses[status] {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}
	starts, err := parseTimeParam(req.StartsAt)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid starts_at timestamp"})
	}
	ends, err := parseTimeParam(req.EndsAt)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ends_at timestamp"})
	}
	if _, err := availability.NewTimeRange(starts, ends); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "starts_at must be before ends_at"})
	}

	ctx := c.Request().Context()
	if _, err := h.Labs.GetByID(ctx, labID); err != nil {
		if errors.Is(err, repository.ErrLabNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "lab not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if req.ResourceID != nil {
		res, err := h.Resources.GetByID(ctx, *req.ResourceID)
		if err != nil {
			if errors.Is(err, repository.ErrResourceNotFound) {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "resource not found"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
		if res.LabID != labID {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "resource does not belong to lab"})
		}
	}

	block := &model.CalendarBlock{
		LabID:      labID,
		ResourceID: req.ResourceID,
		Status:     status,
		StartsAt:   starts,
		EndsAt:     ends,
		Reason:     req.Reason,
	}
	if err := h.Blocks.Create(ctx, block); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusCreated, blockResp(block))
}

// List handles GET /v1/labs/:id/blocks. Optional from/to query
// parameters narrow the window; the default is the coming 30 days.
func (h *BlockHandler) List(c echo.Context) error {
	labID, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid lab id"})
	}
	from := time.Now().UTC()
	to := from.Add(30 * 24 * time.Hour)
	if s := c.QueryParam("from"); s != "" {
		if from, err = parseTimeParam(s); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid from timestamp"})
		}
	}
	if s := c.QueryParam("to"); s != "" {
		if to, err = parseTimeParam(s); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid to timestamp"})
		}
	}
	if !to.After(from) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "from must be before to"})
	}

	ctx := c.Request().Context()
	if _, err := h.Labs.GetByID(ctx, labID); err != nil {
		if errors.Is(err, repository.ErrLabNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "lab not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	blocks, err := h.Blocks.ListByLab(ctx, labID, from, to)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]echo.Map, 0, len(blocks))
	for i := range blocks {
		out = append(out, blockResp(&blocks[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"blocks": out})
}

func blockResp(b *model.CalendarBlock) echo.Map {
	return echo.Map{
		"id":          b.ID,
		"lab_id":      b.LabID,
		"resource_id": b.ResourceID,
		"status":      b.Status,
		"starts_at":   b.StartsAt.UTC().Format(time.RFC3339),
		"ends_at":     b.EndsAt.UTC().Format(time.RFC3339),
		"reason":      b.Reason,
	}
}
