package ginmw

import (
	"github.com/gin-gonic/gin"

	"github.com/reoring/jsmodel/middleware"
	"github.com/reoring/jsmodel/model"
)

// ValidateJSON constructs an instance of m from the request body, stores it in the
// request context and aborts with 422 (issues) or 400 (malformed body) on failure.
func ValidateJSON(m *model.Model, opts ...middleware.Option) gin.HandlerFunc {
	cfg := middleware.NewConfig(opts...)
	return func(c *gin.Context) {
		inst, err := middleware.Decode(c.Request.Context(), m, c.Request.Body, cfg)
		if err != nil {
			status, payload := middleware.Reject(err)
			cfg.Logger.Info("request rejected", "model", m.Name, "status", status, "error", err)
			c.AbortWithStatusJSON(status, payload)
			return
		}
		c.Request = c.Request.WithContext(middleware.ContextWithInstance(c.Request.Context(), inst))
		c.Next()
	}
}

// GetInstance fetches the validated instance from gin.Context.
func GetInstance(c *gin.Context) (*model.Instance, bool) {
	return middleware.InstanceFromContext(c.Request.Context())
}
