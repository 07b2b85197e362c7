package handler

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

// errNoUser is returned by getUserID when the JWT middleware did not
// leave a usable user id in the context.
var errNoUser = errors.New("no authenticated user in context")

// getUserID extracts the authenticated user's id stored by the JWTAuth
// middleware. Handlers translate a failure into 401 Unauthorized.
func getUserID(c echo.Context) (uint64, error) {
	if v, ok := c.Get("user_id").(uint64); ok && v > 0 {
		return v, nil
	}
	return 0, errNoUser
}

// parseIDParam parses a positive numeric path parameter.
func parseIDParam(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

// parseTimeParam parses an RFC3339 timestamp query parameter or JSON
// field value and normalizes it to UTC.
func parseTimeParam(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// parseIDList parses a comma separated list of positive ids, dropping
// empty entries and duplicates. Order is preserved.
func parseIDList(s string) ([]uint64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	seen := make(map[uint64]struct{})
	var out []uint64
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		id, err := strconv.ParseUint(p, 10, 64)
		if err != nil || id == 0 {
			return nil, errors.New("invalid id list")
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out, nil
}
