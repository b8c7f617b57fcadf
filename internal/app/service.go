// Package service wires the catalog, the tier engine and the asynchronous
// inspection pipeline into the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	inspectionqueue "github.com/okian/modtier/internal/adapters/mq/queue"
	workerpool "github.com/okian/modtier/internal/adapters/mq/worker"
	"github.com/okian/modtier/internal/adapters/repository"
	"github.com/okian/modtier/internal/domain/catalog"
	"github.com/okian/modtier/internal/domain/dedupe"
	"github.com/okian/modtier/internal/domain/inspect"
	"github.com/okian/modtier/internal/domain/model"
	"github.com/okian/modtier/internal/domain/tiers"
	"github.com/okian/modtier/pkg/logger"
	"github.com/okian/modtier/pkg/metrics"
)

const stopTimeout = 30 * time.Second

// ClassifyRequest asks for the tier of one modifier on one item.
type ClassifyRequest = model.ClassifyRequest

// FamilyView is the canonical listing of one modifier family.
type FamilyView = model.FamilyView

// Service implements the API dependencies for the tier classifier.
type Service struct {
	mu sync.RWMutex

	// Core components
	catalog    *catalog.Catalog
	table      *tiers.Table
	classifier *tiers.Classifier
	resolver   *tiers.Resolver
	inspector  *inspect.Inspector
	reports    repository.Store
	deduper    dedupe.Deduper
	queue      inspectionqueue.Queue
	workerPool *workerpool.Pool

	// Configuration
	catalogPath     string
	workerCount     int
	queueSize       int
	dedupeSize      int
	reportStoreSize int
	mode            tiers.EligibilityMode
	markers         []string

	started bool
	logger  logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithCatalogPath loads the catalog from a YAML file on Start.
func WithCatalogPath(path string) Option {
	return func(s *Service) {
		s.catalogPath = path
	}
}

// WithCatalog uses an already loaded catalog. It wins over WithCatalogPath.
func WithCatalog(c *catalog.Catalog) Option {
	return func(s *Service) {
		s.catalog = c
	}
}

// WithWorkerCount sets the number of inspection workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum number of pending inspections.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets how many inspection IDs are remembered.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithReportStoreSize sets how many reports are kept.
func WithReportStoreSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.reportStoreSize = size
		}
	}
}

// WithEligibilityMode sets how spawn weights gate family members.
func WithEligibilityMode(mode tiers.EligibilityMode) Option {
	return func(s *Service) {
		s.mode = mode
	}
}

// WithMarkers sets the modifier key fragments flagged in summaries.
func WithMarkers(markers []string) Option {
	return func(s *Service) {
		s.markers = markers
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:     runtime.NumCPU(),
		queueSize:       10_000,
		dedupeSize:      100_000,
		reportStoreSize: 50_000,
		mode:            tiers.ModeAnyPositive,
		markers:         inspect.DefaultMarkers,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start loads the catalog, builds the tier table and starts the workers.
// Calling Start on a running service is a no-op.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting tier service...")

	cat, err := s.loadCatalog(ctx)
	if err != nil {
		return err
	}
	s.catalog = cat
	s.table = tiers.NewTable(cat.Records())
	s.classifier = tiers.NewClassifier(s.table, tiers.WithEligibilityMode(s.mode))
	s.resolver = tiers.NewResolver(cat)
	s.inspector = inspect.New(cat, s.classifier,
		inspect.WithMarkers(s.markers),
		inspect.WithLogger(s.logger.Named("inspector")),
	)
	metrics.UpdateCatalog(cat.Len(), s.table.Len())

	s.reports = repository.NewMemoryStore(repository.WithCapacity(s.reportStoreSize))
	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.queue = inspectionqueue.NewInMemoryQueue(inspectionqueue.WithCapacity(s.queueSize))
	s.workerPool = workerpool.NewPool(s.workerCount, s.queue, s.inspector, s.reports)
	s.workerPool.Start(context.WithoutCancel(ctx))

	s.started = true
	s.logger.Info(ctx, "tier service started",
		logger.Int("catalogRecords", cat.Len()),
		logger.Int("baseTypes", cat.BaseTypeCount()),
		logger.Int("families", s.table.Len()),
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.String("eligibilityMode", s.mode.String()),
	)
	return nil
}

func (s *Service) loadCatalog(ctx context.Context) (*catalog.Catalog, error) {
	switch {
	case s.catalog != nil:
		return s.catalog, nil
	case s.catalogPath != "":
		cat, err := catalog.Load(ctx, s.catalogPath)
		if err != nil {
			return nil, fmt.Errorf("service.start: %w", err)
		}
		return cat, nil
	default:
		s.logger.Warn(ctx, "no catalog configured, starting empty")
		return catalog.New(nil, nil)
	}
}

// Stop drains the queue and stops the workers.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()

	s.logger.Info(ctx, "stopping tier service...")
	if s.workerPool != nil {
		if err := s.workerPool.Shutdown(ctx); err != nil {
			s.logger.Error(ctx, "worker pool shutdown failed", logger.Error(err))
		}
	}
	s.started = false
	s.logger.Info(ctx, "tier service stopped")
}

// Classify resolves the tier of a single modifier.
func (s *Service) Classify(ctx context.Context, req ClassifyRequest) (tiers.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return tiers.Result{}, ErrNotStarted
	}
	rec, ok := s.catalog.LookupModifierRecord(req.ModKey)
	if !ok {
		return tiers.Result{}, fmt.Errorf("service.classify %q: %w", req.ModKey, ErrUnknownModifier)
	}

	tags := s.resolver.Resolve(req.BasePath, req.Tags)
	res := s.classifier.Classify(tags, rec)
	s.record(ctx, res)
	return res, nil
}

// Inspect classifies every modifier on item synchronously.
func (s *Service) Inspect(ctx context.Context, item inspect.Item) (inspect.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return inspect.Report{}, ErrNotStarted
	}
	rep, err := s.inspector.Inspect(ctx, item)
	if err != nil {
		return inspect.Report{}, fmt.Errorf("service.inspect: %w", err)
	}
	return rep, nil
}

// Submit queues item for asynchronous inspection and returns the id its
// report will be stored under. An item without an ID gets a random one.
// duplicate is true when the ID was already submitted; ErrBackpressure is
// returned when the queue is full, in which case the ID may be resubmitted.
func (s *Service) Submit(ctx context.Context, item inspect.Item) (id string, duplicate bool, err error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return "", false, ErrNotStarted
	}
	if item.BasePath == "" && len(item.Mods) == 0 {
		return "", false, fmt.Errorf("service.submit: %w: no base path or mods", ErrInvalidItem)
	}

	id = item.ID
	if id == "" {
		id = uuid.NewString()
		item.ID = id
	}
	if s.deduper.SeenAndRecord(ctx, id) {
		metrics.RecordInspectionDuplicate()
		s.logger.Debug(ctx, "duplicate inspection, skipping", logger.String("inspectionID", id))
		return id, true, nil
	}

	err = s.queue.Enqueue(ctx, model.Inspection{ID: id, Item: item, ReceivedAt: time.Now()})
	if err != nil {
		s.deduper.Unrecord(ctx, id)
		if errors.Is(err, inspectionqueue.ErrFull) {
			return id, false, fmt.Errorf("service.submit: %w", ErrBackpressure)
		}
		return id, false, fmt.Errorf("service.submit: %w", err)
	}
	return id, false, nil
}

// Report returns the stored report of a submitted inspection.
func (s *Service) Report(ctx context.Context, id string) (inspect.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return inspect.Report{}, ErrNotStarted
	}
	return s.reports.Get(ctx, id)
}

// Family lists the catalog records of one (group, slot) family.
func (s *Service) Family(_ context.Context, group string, slot catalog.AffixSlot) (FamilyView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return FamilyView{}, ErrNotStarted
	}
	fam, ok := s.table.FamilyOf(group, slot)
	if !ok {
		return FamilyView{}, fmt.Errorf("service.family %s/%s: %w", group, slot, ErrUnknownFamily)
	}
	view := FamilyView{
		Group:   group,
		Slot:    slot,
		Keys:    make([]string, 0, len(fam)),
		Records: fam,
	}
	for _, r := range fam {
		view.Keys = append(view.Keys, r.Key)
	}
	return view, nil
}

// CatalogSize returns the number of catalog records and modifier families.
func (s *Service) CatalogSize(_ context.Context) (records, families int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return 0, 0
	}
	return s.catalog.Len(), s.table.Len()
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]any{
		"started":         s.started,
		"workerCount":     s.workerCount,
		"queueSize":       s.queueSize,
		"dedupeSize":      s.dedupeSize,
		"reportStoreSize": s.reportStoreSize,
		"eligibilityMode": s.mode.String(),
	}
	if s.started {
		stats["queueLength"] = s.queue.Len(ctx)
		stats["reportsStored"] = s.reports.Count(ctx)
		stats["dedupeEntries"] = s.deduper.Size()
		stats["catalogRecords"] = s.catalog.Len()
		stats["baseTypes"] = s.catalog.BaseTypeCount()
		stats["families"] = s.table.Len()
	}
	return stats
}

func (s *Service) record(ctx context.Context, res tiers.Result) {
	metrics.RecordClassification(string(res.Source), res.TotalTiers)
	if res.OutOfRange() {
		metrics.RecordFallbackOutOfRange()
		s.logger.Warn(ctx, "fallback tier exceeds family size",
			logger.String("key", res.Record.Key),
			logger.Int("tier", res.Tier),
			logger.Int("totalTiers", res.TotalTiers),
		)
	}
}
