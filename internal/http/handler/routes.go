package handler

import (
	"context"
	"database/sql"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"hydraapi/internal/hydra"
	"hydraapi/internal/service"
)

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Handlers only translate HTTP to service calls.
func RegisterRoutes(app *fiber.App, db *sql.DB, scanSvc service.ScanService, gatherer prometheus.Gatherer) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())
	app.Get("/metrics", Metrics(gatherer))

	app.Get("/services", ListServices())

	app.Post("/scans", RunScan(scanSvc))
	app.Get("/scans", ListScans(scanSvc))
	app.Get("/scans/:id", GetScan(scanSvc))
	app.Delete("/scans/:id", DeleteScan(scanSvc))
	app.Get("/scans/:id/output", ScanOutput(scanSvc))
	app.Get("/scans/:id/export", ScanExport(scanSvc))
}

// HealthCheck godoc
// @Summary Readiness probe; pings the database
// @Tags ops
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} errorPayload
// @Router /health [get]
func HealthCheck(db *sql.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe godoc
// @Summary Liveness probe
// @Tags ops
// @Success 200
// @Router /healthz [get]
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// Metrics exposes the Prometheus registry in text format.
func Metrics(gatherer prometheus.Gatherer) fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
}

// servicesResponse lists what POST /scans accepts.
type servicesResponse struct {
	Supported []string `json:"supported"`
	Special   []string `json:"special"`
	Loginless []string `json:"loginless"`
}

// ListServices godoc
// @Summary List hydra services
// @Description supported services are accepted; special ones need module options and are rejected; login-less ones ignore login sources
// @Tags scans
// @Produce json
// @Success 200 {object} servicesResponse
// @Router /services [get]
func ListServices() fiber.Handler {
	res := servicesResponse{
		Supported: hydra.SupportedServices(),
		Special:   hydra.SpecialServices(),
		Loginless: hydra.LoginlessServices(),
	}
	return func(c *fiber.Ctx) error {
		return c.JSON(res)
	}
}

// RunScan godoc
// @Summary Run hydra against a target
// @Description Blocks until hydra exits. Failed runs are recorded and reported with HYDRA_* codes.
// @Tags scans
// @Accept json
// @Produce json
// @Param request body service.ScanRequest true "scan request"
// @Success 201 {object} model.Scan
// @Failure 400 {object} errorPayload
// @Failure 502 {object} errorPayload
// @Failure 503 {object} errorPayload
// @Failure 504 {object} errorPayload
// @Router /scans [post]
func RunScan(scanSvc service.ScanService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req service.ScanRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "request body must be a JSON scan request")
		}

		scan, err := scanSvc.Run(c.UserContext(), req)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(scan)
	}
}

// ListScans godoc
// @Summary List scans, newest first
// @Tags scans
// @Produce json
// @Param limit query int false "page size" default(10)
// @Param offset query int false "offset" default(0)
// @Success 200 {object} service.ScanListResult
// @Failure 400 {object} errorPayload
// @Router /scans [get]
func ListScans(scanSvc service.ScanService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}

		res, err := scanSvc.List(c.UserContext(), limit, offset)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// scanID validates the :id path parameter.
func scanID(c *fiber.Ctx) (string, bool) {
	id := c.Params("id")
	_, err := uuid.Parse(id)
	return id, err == nil
}

// GetScan godoc
// @Summary Get a scan with its credentials
// @Tags scans
// @Produce json
// @Param id path string true "scan id"
// @Success 200 {object} model.Scan
// @Failure 404 {object} errorPayload
// @Router /scans/{id} [get]
func GetScan(scanSvc service.ScanService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := scanID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		scan, err := scanSvc.Get(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(scan)
	}
}

// DeleteScan godoc
// @Summary Delete a scan and its archived output
// @Tags scans
// @Param id path string true "scan id"
// @Success 204
// @Failure 404 {object} errorPayload
// @Router /scans/{id} [delete]
func DeleteScan(scanSvc service.ScanService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := scanID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := scanSvc.Delete(c.UserContext(), id); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// ScanOutput godoc
// @Summary Raw hydra stdout of a scan
// @Tags scans
// @Produce plain
// @Param id path string true "scan id"
// @Success 200 {string} string
// @Failure 404 {object} errorPayload
// @Router /scans/{id}/output [get]
func ScanOutput(scanSvc service.ScanService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := scanID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		rc, err := scanSvc.Output(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		c.Type("txt", "utf-8")
		// fasthttp closes the stream once the body is written
		return c.SendStream(rc)
	}
}

// ScanExport godoc
// @Summary Presigned download URL for the hydra export file
// @Tags scans
// @Produce json
// @Param id path string true "scan id"
// @Success 200 {object} map[string]string
// @Failure 404 {object} errorPayload
// @Router /scans/{id}/export [get]
func ScanExport(scanSvc service.ScanService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := scanID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		u, err := scanSvc.ExportURL(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"url": u})
	}
}
