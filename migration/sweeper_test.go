package migration

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Jason-Gitau/jkuat-course-hub/entity"
)

type fakeCandidateSource struct {
	mu         sync.Mutex
	candidates []entity.Material
	repointErr map[uuid.UUID]error
	repointed  map[uuid.UUID]repoint
}

type repoint struct {
	location entity.StorageLocation
	path     string
	url      string
}

func (f *fakeCandidateSource) MigrationCandidates(time.Time, int64, int64) ([]entity.Material, error) {
	return f.candidates, nil
}

func (f *fakeCandidateSource) UpdateStoragePointer(id uuid.UUID, location entity.StorageLocation, path, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.repointErr[id]; err != nil {
		return err
	}
	if f.repointed == nil {
		f.repointed = map[uuid.UUID]repoint{}
	}
	f.repointed[id] = repoint{location: location, path: path, url: url}
	return nil
}

type fakeObjectSource struct {
	mu        sync.Mutex
	failKey   string
	deleteErr error
	reads     []string
	deletes   []string
}

func (f *fakeObjectSource) GetObjectStream(_ context.Context, key string) (io.ReadCloser, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if key == f.failKey {
		return nil, 0, errors.New("object unreadable")
	}
	f.reads = append(f.reads, key)
	body := []byte("object-bytes")
	return io.NopCloser(bytes.NewReader(body)), int64(len(body)), nil
}

func (f *fakeObjectSource) DeleteObject(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deletes = append(f.deletes, key)
	return nil
}

type fakeObjectSink struct {
	mu      sync.Mutex
	failKey string
	puts    []string
}

func (f *fakeObjectSink) PutObject(_ context.Context, key string, _ io.Reader, _ int64, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failKey != "" && strings.HasSuffix(key, f.failKey) {
		return errors.New("sink write failed")
	}
	f.puts = append(f.puts, key)
	return nil
}

func (f *fakeObjectSink) PublicURL(key string) string {
	return "https://cdn.example.com/" + key
}

type nopLogger struct{}

func (nopLogger) InfoWithContextf(context.Context, string, ...interface{})           {}
func (nopLogger) WarningWithContextf(context.Context, string, ...interface{})        {}
func (nopLogger) ErrorWithContextf(context.Context, error, string, ...interface{})   {}

func candidate(name string) entity.Material {
	return entity.Material{
		ID:              uuid.New(),
		FileName:        name,
		ContentType:     "application/pdf",
		StorageLocation: entity.StorageLocationPrimary,
		StoragePath:     "courses/cs101/1700000000000-" + name,
	}
}

func newTestSweeper(repo *fakeCandidateSource, source *fakeObjectSource, sink *fakeObjectSink, workers int) *Sweeper {
	return NewSweeper(Config{
		Policy: Policy{
			MinAge:           60 * 24 * time.Hour,
			MaxDownloads:     5,
			LargeObjectBytes: 10 << 20,
		},
		Workers:   workers,
		ItemDelay: time.Millisecond,
	}, repo, source, sink, nopLogger{})
}

func TestSweeperMigratesAllCandidates(t *testing.T) {
	repo := &fakeCandidateSource{candidates: []entity.Material{
		candidate("a.pdf"), candidate("b.pdf"), candidate("c.pdf"),
	}}
	source := &fakeObjectSource{}
	sink := &fakeObjectSink{}

	stats, err := newTestSweeper(repo, source, sink, 2).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if stats.Candidates != 3 || stats.Migrated != 3 || stats.Failed != 0 {
		t.Fatalf("stats = %+v", stats)
	}
	if len(repo.repointed) != 3 {
		t.Fatalf("repointed %d rows, want 3", len(repo.repointed))
	}
	for _, rp := range repo.repointed {
		if rp.location != entity.StorageLocationOverflow {
			t.Errorf("repointed to %q, want overflow", rp.location)
		}
		if !strings.HasPrefix(rp.path, "uploads/") {
			t.Errorf("new key %q must use the uploads/ prefix", rp.path)
		}
		if rp.url != "https://cdn.example.com/"+rp.path {
			t.Errorf("url %q is not base + key", rp.url)
		}
	}
}

func TestSweeperReclaimsPrimaryCopies(t *testing.T) {
	a, b := candidate("a.pdf"), candidate("b.pdf")
	repo := &fakeCandidateSource{candidates: []entity.Material{a, b}}
	source := &fakeObjectSource{}
	sink := &fakeObjectSink{}

	stats, err := newTestSweeper(repo, source, sink, 2).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if stats.Migrated != 2 {
		t.Fatalf("stats = %+v", stats)
	}

	// Each migrated object frees its primary copy under the old key.
	if len(source.deletes) != 2 {
		t.Fatalf("primary deletes = %d, want 2", len(source.deletes))
	}
	deleted := map[string]bool{}
	for _, key := range source.deletes {
		deleted[key] = true
	}
	if !deleted[a.StoragePath] || !deleted[b.StoragePath] {
		t.Fatalf("deleted keys %v missing original paths %q, %q", source.deletes, a.StoragePath, b.StoragePath)
	}
}

func TestSweeperDeleteFailureDoesNotFailMigration(t *testing.T) {
	repo := &fakeCandidateSource{candidates: []entity.Material{candidate("a.pdf")}}
	source := &fakeObjectSource{deleteErr: errors.New("delete denied")}
	sink := &fakeObjectSink{}

	stats, err := newTestSweeper(repo, source, sink, 1).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	// The row is repointed and the move counts; the stranded primary copy
	// is a logged duplicate, not a failed candidate.
	if stats.Migrated != 1 || stats.Failed != 0 {
		t.Fatalf("stats = %+v", stats)
	}
	if len(repo.repointed) != 1 {
		t.Fatalf("repointed %d rows, want 1", len(repo.repointed))
	}
}

func TestSweeperIsolatesReadFailures(t *testing.T) {
	broken := candidate("broken.pdf")
	repo := &fakeCandidateSource{candidates: []entity.Material{
		candidate("a.pdf"), broken, candidate("c.pdf"),
	}}
	source := &fakeObjectSource{failKey: broken.StoragePath}
	sink := &fakeObjectSink{}

	stats, err := newTestSweeper(repo, source, sink, 1).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if stats.Migrated != 2 || stats.Failed != 1 {
		t.Fatalf("stats = %+v", stats)
	}
	if len(stats.FailedIDs) != 1 || stats.FailedIDs[0] != broken.ID {
		t.Fatalf("FailedIDs = %v, want [%s]", stats.FailedIDs, broken.ID)
	}
	if _, ok := repo.repointed[broken.ID]; ok {
		t.Fatal("failed candidate must keep its primary pointer")
	}
	for _, key := range source.deletes {
		if key == broken.StoragePath {
			t.Fatal("failed candidate's primary copy must not be deleted")
		}
	}
}

func TestSweeperIsolatesRepointFailures(t *testing.T) {
	stuck := candidate("stuck.pdf")
	repo := &fakeCandidateSource{
		candidates: []entity.Material{stuck, candidate("b.pdf")},
		repointErr: map[uuid.UUID]error{stuck.ID: errors.New("db down")},
	}
	source := &fakeObjectSource{}
	sink := &fakeObjectSink{}

	stats, err := newTestSweeper(repo, source, sink, 1).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if stats.Migrated != 1 || stats.Failed != 1 {
		t.Fatalf("stats = %+v", stats)
	}
	// The object copy happened; only the pointer write failed. The primary
	// copy must survive because the row still points at it.
	if len(sink.puts) != 2 {
		t.Fatalf("sink writes = %d, want 2", len(sink.puts))
	}
	for _, key := range source.deletes {
		if key == stuck.StoragePath {
			t.Fatal("primary copy must not be deleted while the row still points at it")
		}
	}
}

func TestSweeperEmptyCandidateSet(t *testing.T) {
	repo := &fakeCandidateSource{}
	stats, err := newTestSweeper(repo, &fakeObjectSource{}, &fakeObjectSink{}, 2).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if stats.Candidates != 0 || stats.Migrated != 0 || stats.Failed != 0 {
		t.Fatalf("stats = %+v", stats)
	}
}

func TestSweeperHonorsContextCancellation(t *testing.T) {
	var candidates []entity.Material
	for i := 0; i < 50; i++ {
		candidates = append(candidates, candidate("f.pdf"))
	}
	repo := &fakeCandidateSource{candidates: candidates}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stats, err := newTestSweeper(repo, &fakeObjectSource{}, &fakeObjectSink{}, 2).Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if stats.Migrated == 50 {
		t.Fatal("cancelled run should not complete the whole batch")
	}
}

func TestSweeperBoundsConcurrency(t *testing.T) {
	var (
		mu      sync.Mutex
		active  int
		peak    int
	)
	source := &trackingSource{onRead: func() {
		mu.Lock()
		active++
		if active > peak {
			peak = active
		}
		mu.Unlock()
		time.Sleep(5 * time.Millisecond)
		mu.Lock()
		active--
		mu.Unlock()
	}}

	var candidates []entity.Material
	for i := 0; i < 12; i++ {
		candidates = append(candidates, candidate("f.pdf"))
	}
	repo := &fakeCandidateSource{candidates: candidates}

	s := NewSweeper(Config{Workers: 2}, repo, source, &fakeObjectSink{}, nopLogger{})
	if _, err := s.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if peak > 2 {
		t.Fatalf("observed %d concurrent migrations, want <= 2", peak)
	}
}

type trackingSource struct {
	onRead func()
}

func (t *trackingSource) GetObjectStream(context.Context, string) (io.ReadCloser, int64, error) {
	t.onRead()
	return io.NopCloser(bytes.NewReader([]byte("x"))), 1, nil
}

func (t *trackingSource) DeleteObject(context.Context, string) error {
	return nil
}
