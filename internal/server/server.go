// Package server exposes the work log snapshot as a read-only localhost
// JSON API.
package server

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/julianstephens/worklog/internal/constants"
	apperrors "github.com/julianstephens/worklog/internal/errors"
	"github.com/julianstephens/worklog/internal/journal"
	"github.com/julianstephens/worklog/internal/logger"
	"github.com/julianstephens/worklog/internal/query"
	"github.com/julianstephens/worklog/internal/stats"
	"github.com/julianstephens/worklog/internal/transfer"
)

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type Server struct {
	app     *fiber.App
	journal *journal.Journal
}

func New(j *journal.Journal) *Server {
	s := &Server{journal: j}
	s.app = fiber.New(fiber.Config{
		DisableStartupMessage: true,
		AppName:               constants.AppName,
		ErrorHandler:          errorHandler,
	})
	s.routes()
	return s
}

// App returns the underlying fiber app.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Listen(addr string) error {
	logger.Info("API listening", "addr", addr)
	return s.app.Listen(addr)
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func (s *Server) routes() {
	s.app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"service": constants.AppName,
			"version": constants.Version,
		})
	})

	api := s.app.Group("/api/v1")
	api.Get("/logs", s.listLogs)
	api.Get("/logs/:id", s.getLog)
	api.Get("/metrics", s.metrics)
	api.Get("/projects", s.listProjects)
	api.Get("/export", s.export)
}

// errorHandler maps the error taxonomy onto status codes.
func errorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	code := "internal_error"

	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		status = fe.Code
		code = "http_error"
	case errors.Is(err, apperrors.ErrInvalidArgument), errors.Is(err, apperrors.ErrValidation):
		status = fiber.StatusBadRequest
		code = "invalid_argument"
	case errors.Is(err, apperrors.ErrNotFound):
		status = fiber.StatusNotFound
		code = "not_found"
	default:
		logger.Error("API request failed", "path", c.Path(), "error", err)
	}

	return c.Status(status).JSON(ErrorResponse{Error: code, Message: err.Error()})
}

// specFromQuery reads a list request from the query string. from and to
// together select a custom period.
func specFromQuery(c *fiber.Ctx) (query.Spec, error) {
	spec := query.NewSpec()

	period, err := query.ParsePeriod(c.Query("period"))
	if err != nil {
		return spec, err
	}
	spec.Period = period
	if from, to := c.Query("from"), c.Query("to"); from != "" || to != "" {
		spec.Period = constants.PeriodCustom
		spec.StartDate = from
		spec.EndDate = to
	}

	sort, err := query.ParseSort(c.Query("sort"))
	if err != nil {
		return spec, err
	}
	spec.Sort = sort
	spec.ProjectID = c.Query("project")
	spec.SearchText = c.Query("search")

	if spec.Page, err = intParam(c, "page", spec.Page); err != nil {
		return spec, err
	}
	if spec.PageSize, err = intParam(c, "pageSize", spec.PageSize); err != nil {
		return spec, err
	}
	return spec, nil
}

func intParam(c *fiber.Ctx, name string, def int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", apperrors.ErrInvalidArgument, name)
	}
	return v, nil
}

// listLogs handles GET /api/v1/logs
func (s *Server) listLogs(c *fiber.Ctx) error {
	spec, err := specFromQuery(c)
	if err != nil {
		return err
	}
	result, err := s.journal.Query(spec)
	if err != nil {
		return err
	}
	return c.JSON(result)
}

// getLog handles GET /api/v1/logs/:id
func (s *Server) getLog(c *fiber.Ctx) error {
	entry, err := s.journal.Entry(c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(entry)
}

// metrics handles GET /api/v1/metrics
func (s *Server) metrics(c *fiber.Ctx) error {
	m := s.journal.Metrics()
	daily, weekly := stats.GoalProgress(m, s.journal.Settings())
	return c.JSON(struct {
		stats.Metrics
		DailyGoal  stats.Goal `json:"dailyGoal"`
		WeeklyGoal stats.Goal `json:"weeklyGoal"`
	}{m, daily, weekly})
}

// listProjects handles GET /api/v1/projects
func (s *Server) listProjects(c *fiber.Ctx) error {
	return c.JSON(s.journal.Projects())
}

// export handles GET /api/v1/export
func (s *Server) export(c *fiber.Ctx) error {
	format, err := transfer.ParseFormat(c.Query("format", string(transfer.FormatJSON)))
	if err != nil {
		return err
	}

	doc := s.journal.Export()
	c.Attachment(transfer.Filename(format, s.journal.Now()))
	switch format {
	case transfer.FormatCSV:
		c.Type("csv")
		return transfer.WriteCSV(c.Response().BodyWriter(), doc.Logs)
	default:
		c.Type("json")
		return transfer.WriteJSON(c.Response().BodyWriter(), doc)
	}
}
