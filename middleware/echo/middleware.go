package echomw

import (
	"github.com/labstack/echo/v4"

	"github.com/reoring/jsmodel/middleware"
	"github.com/reoring/jsmodel/model"
)

// ValidateJSON constructs an instance of m from the request body and stores it in
// the request context. Failures answer 422 (issues) or 400 (malformed body).
func ValidateJSON(m *model.Model, opts ...middleware.Option) echo.MiddlewareFunc {
	cfg := middleware.NewConfig(opts...)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			inst, err := middleware.Decode(c.Request().Context(), m, c.Request().Body, cfg)
			if err != nil {
				status, payload := middleware.Reject(err)
				cfg.Logger.Info("request rejected", "model", m.Name, "status", status, "error", err)
				return c.JSON(status, payload)
			}
			ctx := middleware.ContextWithInstance(c.Request().Context(), inst)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// GetInstance fetches the validated instance from echo.Context.
func GetInstance(c echo.Context) (*model.Instance, bool) {
	return middleware.InstanceFromContext(c.Request().Context())
}
