package main

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"wire-router/routing"
)

// Server exposes the wire router to the schematic UI. The UI supplies
// obstacle rectangles (placed device bounds) and pin coordinates with every
// request; the server holds no routing state between calls.
type Server struct {
	cfg    *Config
	logger *slog.Logger
}

type apiValidator struct {
	validate *validator.Validate
}

func (v *apiValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

// newEcho wires the HTTP surface: routing endpoints, health, CORS for the
// browser frontend, and panic recovery.
func newEcho(s *Server) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = &apiValidator{validate: validator.New()}

	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.POST("/route", s.handleRoute)
	e.POST("/route/batch", s.handleRouteBatch)
	e.GET("/health", s.handleHealth)

	return e
}

// RouteBody is the request payload for POST /route.
type RouteBody struct {
	Request   routing.RouteRequest `json:"request"`
	Obstacles []routing.Obstacle   `json:"obstacles"`
	Padding   *float64             `json:"padding,omitempty" validate:"omitempty,min=0"`
}

// BatchBody is the request payload for POST /route/batch. Request ids must
// be unique within the batch.
type BatchBody struct {
	Requests  []routing.RouteRequest `json:"requests" validate:"required,min=1,unique=ID"`
	Obstacles []routing.Obstacle     `json:"obstacles"`
	Padding   *float64               `json:"padding,omitempty" validate:"omitempty,min=0"`
	Spacing   *float64               `json:"spacing,omitempty" validate:"omitempty,min=0"`
}

func (s *Server) handleRoute(c echo.Context) error {
	var body RouteBody
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if body.Request.ID == "" {
		body.Request.ID = uuid.NewString()
	}

	router := s.newRouter(body.Padding, nil)
	result := router.RouteWire(body.Request, body.Obstacles)

	s.logger.Info("route",
		"request", body.Request.ID,
		"obstacles", len(body.Obstacles),
		"success", result.Success)

	return c.JSON(http.StatusOK, result)
}

func (s *Server) handleRouteBatch(c echo.Context) error {
	var body BatchBody
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	for i := range body.Requests {
		if body.Requests[i].ID == "" {
			body.Requests[i].ID = uuid.NewString()
		}
	}
	if err := c.Validate(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	router := s.newRouter(body.Padding, body.Spacing)
	results := router.RouteWires(body.Requests, body.Obstacles)

	routed := 0
	for _, res := range results {
		if res.Success {
			routed++
		}
	}
	s.logger.Info("route batch",
		"requests", len(body.Requests),
		"obstacles", len(body.Obstacles),
		"routed", routed)

	return c.JSON(http.StatusOK, results)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  "ready",
		"padding": s.cfg.Routing.Padding,
		"spacing": s.cfg.Routing.Spacing,
	})
}

// newRouter builds a router for one call, applying per-request overrides
// over the configured defaults.
func (s *Server) newRouter(padding, spacing *float64) *routing.Router {
	p := s.cfg.Routing.Padding
	if padding != nil {
		p = *padding
	}
	sp := s.cfg.Routing.Spacing
	if spacing != nil {
		sp = *spacing
	}
	opts := []routing.Option{
		routing.WithPadding(p),
		routing.WithSpacing(sp),
		routing.WithLogger(s.logger),
	}
	if s.cfg.Routing.MaxGraphNodes > 0 {
		opts = append(opts, routing.WithMaxGraphNodes(s.cfg.Routing.MaxGraphNodes))
	}
	return routing.NewRouter(opts...)
}
