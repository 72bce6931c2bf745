package echoapi

import (
	"github.com/labstack/echo/v4"

	"github.com/tangakou/msaada/core/user"
)

// roleRequired allows the request through only when the context user holds
// one of the given roles. Allow-lists are declared at route registration so
// the full permission table is readable in one place.
func roleRequired(roles ...user.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			usr, err := getContextUser(ctx)
			if err != nil {
				return err
			}
			if usr.HasAnyRole(roles...) {
				return next(ctx)
			}
			return errHttpForbidden
		}
	}
}
