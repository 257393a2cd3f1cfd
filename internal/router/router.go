package router

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	"salespipeline/internal/cache"
	"salespipeline/internal/config"
	"salespipeline/internal/handler"
	"salespipeline/internal/validation"
)

// Handlers bundles the procedure handlers mounted by Register.
type Handlers struct {
	Users         *handler.UserHandler
	Opportunities *handler.OpportunityHandler
	Dashboard     *handler.DashboardHandler
}

// Register wires routes and middleware. limiter may be nil to disable rate limiting.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	logger *zap.Logger,
	v *validation.Validator,
	h Handlers,
	limiter *cache.RateLimiterStore,
) {
	e.Use(middleware.RequestID())
	e.Use(requestLogger(logger))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
	}))

	// Add validator
	e.Validator = &CustomValidator{validator: v}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")
	if limiter != nil {
		api.Use(middleware.RateLimiter(limiter))
	}

	api.GET("/healthcheck", handler.Healthcheck)

	// Users
	api.POST("/createUser", h.Users.CreateUser)
	api.GET("/getUsers", h.Users.GetUsers)
	api.GET("/getUserById", h.Users.GetUserByID)

	// Sales opportunities
	api.POST("/createSalesOpportunity", h.Opportunities.CreateOpportunity)
	api.GET("/getSalesOpportunities", h.Opportunities.GetOpportunities)
	api.POST("/updateSalesOpportunity", h.Opportunities.UpdateOpportunity)
	api.POST("/deleteSalesOpportunity", h.Opportunities.DeleteOpportunity)

	// Dashboard
	api.GET("/getDashboardMetrics", h.Dashboard.GetDashboardMetrics)
	api.GET("/getPipelineStageData", h.Dashboard.GetPipelineStageData)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validation.Validator
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

func requestLogger(logger *zap.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency.Round(time.Microsecond)),
				zap.String("request_id", v.RequestID),
			}
			if v.Error != nil {
				logger.Warn("request failed", append(fields, zap.Error(v.Error))...)
				return nil
			}
			logger.Info("request", fields...)
			return nil
		},
	})
}
