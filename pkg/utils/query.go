package utils

import (
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

// QueryInt returns the integer value of a query parameter, or 0 when it
// is missing or not a number. Callers apply their own defaults.
func QueryInt(c echo.Context, name string) int {
	v, err := strconv.Atoi(strings.TrimSpace(c.QueryParam(name)))
	if err != nil {
		return 0
	}
	return v
}

// RequestSeq returns the caller's request sequence from the "seq" query
// parameter or the given header.
func RequestSeq(c echo.Context, header string) string {
	if seq := strings.TrimSpace(c.QueryParam("seq")); seq != "" {
		return seq
	}
	return strings.TrimSpace(c.Request().Header.Get(header))
}

// BearerToken extracts the token from an "Authorization: Bearer" header.
func BearerToken(header string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
