package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"hydraapi/internal/config"
	"hydraapi/internal/hydra"
	"hydraapi/internal/model"
	"hydraapi/internal/repository"
	"hydraapi/internal/storage"
)

var (
	ErrIDRequired = errors.New("id is required")
	ErrNotFound   = errors.New("scan not found")
	ErrNoExport   = errors.New("scan has no export file")
)

// ScanRequest is a hydra request aimed at one target address.
type ScanRequest struct {
	Target string `json:"target"`
	hydra.Request
}

// ScanListResult is the service-level DTO for paginated scans.
type ScanListResult struct {
	Items []model.Scan `json:"data"`
	Total int          `json:"total"`
}

// Bruteforcer runs hydra for a single target. *hydra.Client satisfies it.
type Bruteforcer interface {
	Bruteforce(ctx context.Context, req hydra.Request) (*hydra.Result, error)
}

// ClientFactory builds a Bruteforcer for a target address.
type ClientFactory func(target string) (Bruteforcer, error)

// NewClientFactory returns a factory producing hydra clients configured from cfg.
func NewClientFactory(cfg config.HydraConfig, logger *zap.Logger) ClientFactory {
	return func(target string) (Bruteforcer, error) {
		c, err := hydra.New(target,
			hydra.WithBinary(cfg.Path),
			hydra.WithWorkDir(cfg.WorkDir),
			hydra.WithTimeout(cfg.Timeout()),
			hydra.WithLogger(logger),
		)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
}

// ScanService defines the use cases for running and recording hydra scans.
type ScanService interface {
	// Run executes hydra synchronously, archives its raw output and stores the scan.
	// Invalid requests are rejected before any process starts and are not stored.
	// Runs that fail inside hydra are stored as failed and the error is returned.
	Run(ctx context.Context, req ScanRequest) (*model.Scan, error)

	// List returns scans using limit/offset and a total count.
	List(ctx context.Context, limit, offset int) (*ScanListResult, error)

	// Get returns a single scan with its credentials.
	Get(ctx context.Context, id string) (*model.Scan, error)

	// Output streams the archived hydra stdout of a scan.
	Output(ctx context.Context, id string) (io.ReadCloser, error)

	// ExportURL returns a presigned download URL for the archived export file.
	ExportURL(ctx context.Context, id string) (string, error)

	// Delete removes the archived objects of a scan, then its record.
	Delete(ctx context.Context, id string) error
}

// Config tunes a ScanService.
type Config struct {
	// MaxConcurrent caps hydra processes running at once; values below 1 mean 1.
	MaxConcurrent int
	// WordlistDir is the only directory request file fields may name files in.
	// When empty, requests with file fields are refused.
	WordlistDir     string
	ExportURLExpiry time.Duration
	Logger          *zap.Logger
	Metrics         *Metrics
}

type scanService struct {
	newClient ClientFactory
	store     storage.Storage
	repo      repository.ScanRepository
	sem       *semaphore.Weighted
	wordlists string
	expiry    time.Duration
	logger    *zap.Logger
	metrics   *Metrics
	tracer    trace.Tracer
	now       func() time.Time
}

// NewScanService constructs a new ScanService.
func NewScanService(newClient ClientFactory, store storage.Storage, repo repository.ScanRepository, cfg Config) ScanService {
	if cfg.MaxConcurrent < 1 {
		cfg.MaxConcurrent = 1
	}
	if cfg.ExportURLExpiry <= 0 {
		cfg.ExportURLExpiry = 15 * time.Minute
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &scanService{
		newClient: newClient,
		store:     store,
		repo:      repo,
		sem:       semaphore.NewWeighted(int64(cfg.MaxConcurrent)),
		wordlists: cfg.WordlistDir,
		expiry:    cfg.ExportURLExpiry,
		logger:    cfg.Logger,
		metrics:   cfg.Metrics,
		tracer:    otel.Tracer("hydraapi/internal/service"),
		now:       time.Now,
	}
}

func (s *scanService) Run(ctx context.Context, req ScanRequest) (*model.Scan, error) {
	service := strings.ToLower(strings.TrimSpace(req.Service))

	hreq, err := resolveWordlists(s.wordlists, req.Request)
	if err != nil {
		s.metrics.observe(service, outcomeRejected, 0, 0)
		return nil, err
	}

	client, err := s.newClient(req.Target)
	if err != nil {
		s.metrics.observe(service, outcomeRejected, 0, 0)
		return nil, err
	}

	if err := s.sem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("wait for hydra slot: %w", err)
	}
	defer s.sem.Release(1)

	ctx, span := s.tracer.Start(ctx, "hydra.bruteforce", trace.WithAttributes(
		attribute.String("hydra.target", req.Target),
		attribute.String("hydra.service", service),
		attribute.Int("hydra.port", req.Port),
	))
	defer span.End()

	started := s.now().UTC()
	res, runErr := client.Bruteforce(ctx, hreq)
	finished := s.now().UTC()
	elapsed := finished.Sub(started)

	if runErr != nil {
		span.RecordError(runErr)
		span.SetStatus(codes.Error, runErr.Error())
		if rejected(runErr) {
			s.metrics.observe(service, outcomeRejected, 0, 0)
			return nil, runErr
		}
		s.recordFailure(ctx, req, service, started, finished, runErr)
		return nil, runErr
	}

	id := uuid.New().String()
	span.SetAttributes(
		attribute.String("scan.id", id),
		attribute.Int("hydra.credentials", res.Credentials.Len()),
	)

	outputKey, exportKey, err := s.archive(ctx, id, res)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("archive output: %w", err)
	}

	scan := &model.Scan{
		ID:          id,
		Target:      res.Target,
		Service:     res.Service,
		Port:        res.Port,
		Status:      model.ScanCompleted,
		CommandLine: res.CommandLine,
		ExitCode:    res.ExitCode,
		Credentials: toModel(res.Credentials),
		OutputKey:   outputKey,
		ExportKey:   exportKey,
		DurationMs:  elapsed.Milliseconds(),
		CreatedAt:   started,
		FinishedAt:  finished,
	}
	stored, err := s.repo.Create(ctx, scan)
	if err != nil {
		// Rollback: remove the archived objects
		if delErr := s.removeObjects(context.WithoutCancel(ctx), outputKey, exportKey); delErr != nil {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}

	s.metrics.observe(service, outcomeCompleted, elapsed.Seconds(), res.Credentials.Len())
	s.logger.Info("scan stored",
		zap.String("scan_id", id),
		zap.String("target", scan.Target),
		zap.String("service", scan.Service),
		zap.Int("credentials", res.Credentials.Len()))
	return stored, nil
}

// rejected reports errors raised before hydra did any work.
func rejected(err error) bool {
	return hydra.IsValidation(err) ||
		errors.Is(err, hydra.ErrBinaryNotFound) ||
		errors.Is(err, hydra.ErrBinaryNotExecutable)
}

func (s *scanService) recordFailure(ctx context.Context, req ScanRequest, service string, started, finished time.Time, runErr error) {
	outcome := outcomeFailed
	exitCode := -1
	var exitErr *hydra.ExitError
	switch {
	case errors.As(runErr, &exitErr):
		exitCode = exitErr.Code
	case errors.Is(runErr, context.DeadlineExceeded):
		outcome = outcomeTimeout
	}
	s.metrics.observe(service, outcome, finished.Sub(started).Seconds(), 0)

	scan := &model.Scan{
		ID:         uuid.New().String(),
		Target:     strings.TrimSpace(req.Target),
		Service:    service,
		Port:       req.Port,
		Status:     model.ScanFailed,
		ExitCode:   exitCode,
		Error:      runErr.Error(),
		DurationMs: finished.Sub(started).Milliseconds(),
		CreatedAt:  started,
		FinishedAt: finished,
	}
	// the caller's context may be the reason the run failed
	if _, err := s.repo.Create(context.WithoutCancel(ctx), scan); err != nil {
		s.logger.Error("store failed scan", zap.String("scan_id", scan.ID), zap.Error(err))
		return
	}
	s.logger.Warn("scan failed",
		zap.String("scan_id", scan.ID),
		zap.String("target", scan.Target),
		zap.String("service", service),
		zap.Error(runErr))
}

// archive uploads stdout and, when hydra wrote one, the export file.
// Partial uploads are removed when any upload fails.
func (s *scanService) archive(ctx context.Context, id string, res *hydra.Result) (outputKey, exportKey string, err error) {
	outputKey = storage.OutputKey(id)
	uploads := map[string][]byte{outputKey: []byte(res.Stdout)}
	if len(res.Export) > 0 {
		exportKey = storage.ExportKey(id, hydra.ExportExtension(res.ExportType))
		uploads[exportKey] = res.Export
	}

	var mu sync.Mutex
	var done []string
	g, gctx := errgroup.WithContext(ctx)
	for key, body := range uploads {
		g.Go(func() error {
			_, err := s.store.Put(gctx, key, bytes.NewReader(body), storage.PutObjectOptions{
				Size:        int64(len(body)),
				ContentType: storage.ContentTypeFor(key),
				Metadata:    map[string]string{"scan-id": id},
			})
			if err != nil {
				return fmt.Errorf("upload %s: %w", key, err)
			}
			mu.Lock()
			done = append(done, key)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if delErr := s.removeObjects(context.WithoutCancel(ctx), done...); delErr != nil {
			s.logger.Error("remove partial archive", zap.String("scan_id", id), zap.Error(delErr))
		}
		return "", "", err
	}
	return outputKey, exportKey, nil
}

func (s *scanService) removeObjects(ctx context.Context, keys ...string) error {
	var errs []error
	for _, key := range keys {
		if key == "" {
			continue
		}
		if err := s.store.Delete(ctx, key); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
		}
	}
	return errors.Join(errs...)
}

func toModel(creds hydra.Credentials) []model.ScanCredential {
	out := make([]model.ScanCredential, 0, len(creds))
	for _, c := range creds {
		out = append(out, model.ScanCredential{
			Host:     c.Host,
			Port:     c.Port,
			Service:  c.Service,
			Login:    c.Login,
			Password: c.Password,
		})
	}
	return out
}

// List returns paginated scans without exposing repository types.
func (s *scanService) List(ctx context.Context, limit, offset int) (*ScanListResult, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	res, err := s.repo.List(ctx, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &ScanListResult{Items: res.Items, Total: res.Total}, nil
}

// Get returns a scan by ID.
func (s *scanService) Get(ctx context.Context, id string) (*model.Scan, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	scan, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return scan, nil
}

func (s *scanService) Output(ctx context.Context, id string) (io.ReadCloser, error) {
	scan, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if scan.OutputKey == "" {
		return nil, ErrNotFound
	}
	rc, _, err := s.store.Get(ctx, scan.OutputKey)
	if err != nil {
		return nil, fmt.Errorf("get output: %w", err)
	}
	return rc, nil
}

func (s *scanService) ExportURL(ctx context.Context, id string) (string, error) {
	scan, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if scan.ExportKey == "" {
		return "", ErrNoExport
	}
	u, err := s.store.PresignGet(ctx, scan.ExportKey, s.expiry)
	if err != nil {
		return "", fmt.Errorf("presign export: %w", err)
	}
	return u, nil
}

// Delete removes archived objects first; the row stays if that fails so the keys are not lost.
func (s *scanService) Delete(ctx context.Context, id string) error {
	scan, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.removeObjects(ctx, scan.OutputKey, scan.ExportKey); err != nil {
		return fmt.Errorf("delete storage: %w", err)
	}
	return s.repo.Delete(ctx, id)
}
