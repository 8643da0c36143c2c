package migration

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Jason-Gitau/jkuat-course-hub/entity"
	"github.com/Jason-Gitau/jkuat-course-hub/storage"
)

// CandidateSource supplies materials eligible for migration and records
// their new home afterwards.
type CandidateSource interface {
	MigrationCandidates(olderThan time.Time, maxDownloads, minSizeBytes int64) ([]entity.Material, error)
	UpdateStoragePointer(id uuid.UUID, location entity.StorageLocation, path, url string) error
}

// ObjectSource reads object bytes out of the tier being drained and frees
// them once the move is recorded.
type ObjectSource interface {
	GetObjectStream(ctx context.Context, key string) (io.ReadCloser, int64, error)
	DeleteObject(ctx context.Context, key string) error
}

// ObjectSink receives the migrated copy and can name its public URL.
type ObjectSink interface {
	PutObject(ctx context.Context, key string, data io.Reader, size int64, contentType string) error
	PublicURL(key string) string
}

type Logger interface {
	InfoWithContextf(ctx context.Context, format string, args ...interface{})
	WarningWithContextf(ctx context.Context, format string, args ...interface{})
	ErrorWithContextf(ctx context.Context, err error, format string, args ...interface{})
}

// Policy decides which materials move: old enough AND (cold OR large).
type Policy struct {
	MinAge           time.Duration
	MaxDownloads     int64
	LargeObjectBytes int64
}

type Config struct {
	Policy Policy
	// Workers bounds concurrent migrations; ItemDelay is the per-worker
	// pause after each item so the sweep never saturates either store.
	Workers   int
	ItemDelay time.Duration
}

// Stats summarizes one sweep run.
type Stats struct {
	Candidates int
	Migrated   int
	Failed     int
	FailedIDs  []uuid.UUID
	BytesMoved int64
	Elapsed    time.Duration
}

// Sweeper drains cold and oversized objects from the primary tier into the
// overflow tier. Failures are isolated per item: one broken object never
// stops the rest of the batch.
type Sweeper struct {
	cfg    Config
	repo   CandidateSource
	source ObjectSource
	sink   ObjectSink
	logger Logger
	now    func() time.Time
}

func NewSweeper(cfg Config, repo CandidateSource, source ObjectSource, sink ObjectSink, logger Logger) *Sweeper {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return &Sweeper{
		cfg:    cfg,
		repo:   repo,
		source: source,
		sink:   sink,
		logger: logger,
		now:    time.Now,
	}
}

// Run executes one sweep over the current candidate set.
func (s *Sweeper) Run(ctx context.Context) (*Stats, error) {
	started := s.now()
	cutoff := started.Add(-s.cfg.Policy.MinAge)

	candidates, err := s.repo.MigrationCandidates(cutoff, s.cfg.Policy.MaxDownloads, s.cfg.Policy.LargeObjectBytes)
	if err != nil {
		return nil, fmt.Errorf("list migration candidates: %w", err)
	}

	stats := &Stats{Candidates: len(candidates)}
	if len(candidates) == 0 {
		stats.Elapsed = s.now().Sub(started)
		return stats, nil
	}

	jobs := make(chan entity.Material)
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < s.cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for material := range jobs {
				moved, err := s.migrate(ctx, material)
				mu.Lock()
				if err != nil {
					stats.Failed++
					stats.FailedIDs = append(stats.FailedIDs, material.ID)
					s.logger.ErrorWithContextf(ctx, err, "migration of material %s (%s) failed", material.ID, material.StoragePath)
				} else {
					stats.Migrated++
					stats.BytesMoved += moved
				}
				mu.Unlock()

				if s.cfg.ItemDelay > 0 {
					select {
					case <-ctx.Done():
						return
					case <-time.After(s.cfg.ItemDelay):
					}
				}
			}
		}()
	}

feed:
	for _, material := range candidates {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- material:
		}
	}
	close(jobs)
	wg.Wait()

	stats.Elapsed = s.now().Sub(started)
	return stats, ctx.Err()
}

// migrate copies one object to the sink, then repoints the metadata row.
// Copy-then-repoint order means a crash mid-item leaves at worst a
// duplicate object, never a dangling pointer.
func (s *Sweeper) migrate(ctx context.Context, material entity.Material) (int64, error) {
	stream, size, err := s.source.GetObjectStream(ctx, material.StoragePath)
	if err != nil {
		return 0, fmt.Errorf("read source object: %w", err)
	}
	defer stream.Close()

	newKey := storage.OverflowObjectKey(material.FileName, s.now())
	if err := s.sink.PutObject(ctx, newKey, stream, size, material.ContentType); err != nil {
		return 0, fmt.Errorf("write sink object: %w", err)
	}

	newURL := s.sink.PublicURL(newKey)
	if err := s.repo.UpdateStoragePointer(material.ID, entity.StorageLocationOverflow, newKey, newURL); err != nil {
		// The copy exists on both tiers now; the pointer still names the
		// old one, so downloads keep working and a later sweep retries.
		return 0, fmt.Errorf("repoint material row: %w", err)
	}

	// The row points at overflow; only now is the primary copy garbage.
	// A failed delete leaves a dead duplicate that the usage report will
	// show, never a broken download.
	if err := s.source.DeleteObject(ctx, material.StoragePath); err != nil {
		s.logger.WarningWithContextf(ctx, "material %s migrated but primary copy %s not deleted: %v",
			material.ID, material.StoragePath, err)
	}

	s.logger.InfoWithContextf(ctx, "migrated material %s: %s -> %s (%d bytes)",
		material.ID, material.StoragePath, newKey, size)
	return size, nil
}
