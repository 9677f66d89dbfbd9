package middleware

import (
	"context"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/campuskit/lostfound/internal/domain"
)

var tracer = otel.Tracer("middleware")

type StaffMiddleware struct{}

func NewStaffMiddleware() *StaffMiddleware {
	return &StaffMiddleware{}
}

// IdentifyStaff carries the operator identity from the gateway headers
// into the request context. Identity is informational here; the gateway
// in front of the console does the actual authentication.
func (s *StaffMiddleware) IdentifyStaff(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, span := tracer.Start(c.Request().Context(), "Staff.Middleware.IdentifyStaff")
		defer span.End()

		staffID := c.Request().Header.Get(domain.StaffIdHeader)
		if staffID != "" {
			ctx = context.WithValue(ctx, domain.StaffIdCtxKey, staffID)
			span.SetAttributes(attribute.String("StaffId", staffID))
		}

		role := c.Request().Header.Get(domain.StaffRoleHeader)
		if role != "" {
			ctx = context.WithValue(ctx, domain.StaffRoleCtxKey, role)
		}

		c.SetRequest(c.Request().WithContext(ctx))
		return next(c)
	}
}

// StaffID extracts the operator identity placed by IdentifyStaff.
func StaffID(ctx context.Context) string {
	id, _ := ctx.Value(domain.StaffIdCtxKey).(string)
	return id
}
