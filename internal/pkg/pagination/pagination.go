package pagination

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// Limits for list endpoints
const (
	DefaultCompletedLimit = 10
	MaxLimit              = 100
	DefaultRecentDays     = 5
	MaxRecentDays         = 90
)

// Clamp applies a default to non-positive values and caps the rest
func Clamp(value, defaultValue, max int) int {
	if value < 1 {
		return defaultValue
	}
	if value > max {
		return max
	}
	return value
}

// QueryInt reads an integer query parameter, returning 0 when absent or invalid
func QueryInt(c *fiber.Ctx, key string) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return 0
	}
	return v
}
