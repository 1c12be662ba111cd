package helpers

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

func StringToInt(s string) (int, error) {
	return strconv.Atoi(s)
}

// ParsePagination reads page/per_page query params with defaults. Values
// below 1 are rejected rather than clamped.
func ParsePagination(c *gin.Context, defaultPerPage int) (page, perPage int, err error) {
	page, err = StringToInt(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		return 0, 0, fmt.Errorf("invalid page number")
	}
	perPage, err = StringToInt(c.DefaultQuery("per_page", strconv.Itoa(defaultPerPage)))
	if err != nil || perPage < 1 {
		return 0, 0, fmt.Errorf("invalid per_page value")
	}
	return page, perPage, nil
}

// ParseDay parses a YYYY-MM-DD date and returns the bounds of that calendar
// day as a half-open interval [from, to).
func ParseDay(s string) (from, to time.Time, err error) {
	day, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid date format, expected YYYY-MM-DD")
	}
	return day, day.AddDate(0, 0, 1), nil
}
