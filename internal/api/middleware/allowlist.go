package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/devmatch/account-service/internal/core/domain"
)

// AllowFields rejects JSON object bodies carrying any top-level key outside
// allowed. The body is restored so the handler can bind it afterwards.
// Bodies that are empty or not objects are left for the handler to reject.
func AllowFields(allowed ...string) echo.MiddlewareFunc {
	set := make(map[string]struct{}, len(allowed))
	for _, f := range allowed {
		set[f] = struct{}{}
	}
	allowedList := strings.Join(allowed, ", ")

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if req.Body == nil {
				return next(c)
			}
			body, err := io.ReadAll(req.Body)
			if err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, "could not read request body")
			}
			req.Body = io.NopCloser(bytes.NewReader(body))

			var fields map[string]json.RawMessage
			if err := json.Unmarshal(body, &fields); err != nil {
				return next(c)
			}

			var rejected []string
			for k := range fields {
				if _, ok := set[k]; !ok {
					rejected = append(rejected, k)
				}
			}
			if len(rejected) > 0 {
				sort.Strings(rejected)
				return fmt.Errorf("%w: %s. Allowed fields are: %s",
					domain.ErrFieldNotAllowed, strings.Join(rejected, ", "), allowedList)
			}
			return next(c)
		}
	}
}
