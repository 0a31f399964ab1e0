package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"stocktalk-service/internal/application/interfaces"
	"stocktalk-service/internal/infrastructure/metrics"
)

// HealthCheck is one dependency probed by GET /health.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

type Dependencies struct {
	Users    interfaces.UserService
	Posts    interfaces.PostService
	Comments interfaces.CommentService
	Tokens   interfaces.TokenVerifier
	Gateway  http.Handler
	Metrics  *metrics.Metrics
	Health   []HealthCheck
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func NewServer(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(requestLogger())
	if deps.Metrics != nil {
		e.Use(metricsMiddleware(deps.Metrics))
		e.GET("/metrics", echo.WrapHandler(deps.Metrics.Handler()))
	}

	auth := requireAuth(deps.Tokens)
	NewUserController(e.Group("/user"), deps.Users, auth)
	NewPostController(e.Group("/post"), deps.Posts, auth)
	NewCommentController(e.Group("/comments", auth), deps.Comments)

	e.GET("/health", healthHandler(deps.Health))
	if deps.Gateway != nil {
		e.GET("/ws", echo.WrapHandler(deps.Gateway))
	}

	return e
}

func healthHandler(checks []HealthCheck) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()

		res := healthResponse{Status: "ok", Checks: make(map[string]string, len(checks))}
		status := http.StatusOK
		for _, hc := range checks {
			if err := hc.Check(ctx); err != nil {
				res.Checks[hc.Name] = err.Error()
				res.Status = "degraded"
				status = http.StatusServiceUnavailable
				continue
			}
			res.Checks[hc.Name] = "ok"
		}
		return c.JSON(status, res)
	}
}
