package ics

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"match-calendar/core/reconcile"
	"match-calendar/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// ContentType is used when the file is served or published.
const ContentType = "text/calendar; charset=utf-8"

// Store persists the event set in a local .ics file.
type Store struct {
	path   string
	meta   Meta
	logger *zap.Logger
}

// NewStore creates a store for the file at path.
func NewStore(path string, meta Meta, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{path: path, meta: meta, logger: logger}
}

// Path returns the file location.
func (s *Store) Path() string {
	return s.path
}

// Load reads the current file. A missing file is an empty set.
func (s *Store) Load() (reconcile.EventSet, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return reconcile.EventSet{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.path, err)
	}
	set, err := Decode(data, s.meta)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}
	return set, nil
}

// Save writes the set atomically, skipping the write when the bytes are unchanged.
func (s *Store) Save(set reconcile.EventSet) (bool, []byte, error) {
	data := Encode(set, s.meta)

	current, err := os.ReadFile(s.path)
	if err == nil && bytes.Equal(current, data) {
		return false, data, nil
	}

	if err := writeAtomic(s.path, data); err != nil {
		return false, nil, err
	}
	return true, data, nil
}

// PersistResult describes a local persistence pass.
type PersistResult struct {
	Diff    *reconcile.Diff
	Events  reconcile.EventSet
	Data    []byte
	Written bool
}

// Persist reconciles desired against the file and writes the converged set.
// With dryRun the diff is computed but nothing is written.
func (s *Store) Persist(desired []reconcile.Event, opts reconcile.Options, dryRun bool) (*PersistResult, error) {
	existing, err := s.Load()
	if err != nil {
		return nil, err
	}

	diff, err := reconcile.Reconcile(desired, existing, opts)
	if err != nil {
		return nil, err
	}

	converged := reconcile.Converge(existing, diff)
	res := &PersistResult{Diff: diff, Events: converged}
	if dryRun {
		res.Data = Encode(converged, s.meta)
		return res, nil
	}

	written, data, err := s.Save(converged)
	if err != nil {
		return nil, err
	}
	res.Data = data
	res.Written = written

	sum := diff.Summary()
	s.logger.Info("Local calendar persisted",
		zap.String("path", s.path),
		zap.Bool("written", written),
		zap.Int("created", sum.Create),
		zap.Int("updated", sum.Update),
		zap.Int("deleted", sum.Delete),
		zap.Int("unchanged", sum.Unchanged),
	)
	return res, nil
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".calendar-*.ics")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", tmpName, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("failed to chmod %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

// Publisher uploads the calendar file to object storage.
type Publisher struct {
	client storage.Client
	bucket string
	object string
}

// NewPublisher creates a publisher for bucket/object.
func NewPublisher(client storage.Client, bucket, object string) *Publisher {
	return &Publisher{client: client, bucket: bucket, object: object}
}

// Publish uploads data, replacing the previous object.
func (p *Publisher) Publish(ctx context.Context, data []byte) error {
	_, err := p.client.PutObject(ctx, p.bucket, p.object, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType:  ContentType,
		CacheControl: "max-age=300",
	})
	if err != nil {
		return fmt.Errorf("failed to publish %s/%s: %w", p.bucket, p.object, err)
	}
	return nil
}

// Object returns the target object name.
func (p *Publisher) Object() string {
	return p.object
}
