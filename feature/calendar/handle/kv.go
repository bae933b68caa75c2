package handle

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"match-calendar/core/storage"

	"github.com/minio/minio-go/v7"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotFound is returned by a KV store when the key holds no value.
var ErrNotFound = errors.New("key not found")

// ErrReadOnly is returned when writing to a store that cannot be written.
var ErrReadOnly = errors.New("store is read-only")

// KV is a small key-value store for cached identifiers.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// FileStore keeps one plain-text file per key inside a directory.
type FileStore struct {
	dir string
}

// NewFileStore creates a file store rooted at dir.
func NewFileStore(dir string) *FileStore {
	if dir == "" {
		dir = "."
	}
	return &FileStore{dir: dir}
}

// Path returns the file that backs key.
func (s *FileStore) Path(key string) string {
	return filepath.Join(s.dir, key+".txt")
}

func (s *FileStore) Get(_ context.Context, key string) (string, error) {
	data, err := os.ReadFile(s.Path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", s.Path(key), err)
	}
	value := strings.TrimSpace(string(data))
	if value == "" {
		return "", ErrNotFound
	}
	return value, nil
}

func (s *FileStore) Set(_ context.Context, key, value string) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", s.dir, err)
	}
	if err := os.WriteFile(s.Path(key), []byte(value), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", s.Path(key), err)
	}
	return nil
}

func (s *FileStore) Delete(_ context.Context, key string) error {
	err := os.Remove(s.Path(key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove %s: %w", s.Path(key), err)
	}
	return nil
}

// EnvStore reads a fixed identifier from the environment. It cannot be written.
type EnvStore struct {
	variable string
	lookup   func(string) (string, bool)
}

// NewEnvStore creates a store reading variable for every key.
func NewEnvStore(variable string) *EnvStore {
	return &EnvStore{variable: variable, lookup: os.LookupEnv}
}

func (s *EnvStore) Get(_ context.Context, _ string) (string, error) {
	value, ok := s.lookup(s.variable)
	if !ok || strings.TrimSpace(value) == "" {
		return "", ErrNotFound
	}
	return strings.TrimSpace(value), nil
}

func (s *EnvStore) Set(context.Context, string, string) error {
	return ErrReadOnly
}

func (s *EnvStore) Delete(context.Context, string) error {
	return ErrReadOnly
}

// Entry is a row of the kv_entries table.
type Entry struct {
	Key       string `gorm:"column:key;primaryKey;size:191"`
	Value     string `gorm:"column:value;type:text"`
	UpdatedAt time.Time
}

func (Entry) TableName() string {
	return "kv_entries"
}

// DBStore persists keys in the kv_entries table.
type DBStore struct {
	db *gorm.DB
}

// NewDBStore creates a store over db. Call Migrate once before use on a fresh database.
func NewDBStore(db *gorm.DB) *DBStore {
	return &DBStore{db: db}
}

// Migrate creates the kv_entries table.
func (s *DBStore) Migrate() error {
	return s.db.AutoMigrate(&Entry{})
}

func (s *DBStore) Get(ctx context.Context, key string) (string, error) {
	var entry Entry
	err := s.db.WithContext(ctx).Where(&Entry{Key: key}).Take(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", key, err)
	}
	return entry.Value, nil
}

func (s *DBStore) Set(ctx context.Context, key, value string) error {
	entry := Entry{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

func (s *DBStore) Delete(ctx context.Context, key string) error {
	if err := s.db.WithContext(ctx).Delete(&Entry{Key: key}).Error; err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// ObjectStore keeps one object per key under a prefix of a bucket.
type ObjectStore struct {
	client storage.Client
	bucket string
	prefix string
}

// NewObjectStore creates a store over bucket/prefix.
func NewObjectStore(client storage.Client, bucket, prefix string) *ObjectStore {
	return &ObjectStore{client: client, bucket: bucket, prefix: prefix}
}

func (s *ObjectStore) object(key string) string {
	if s.prefix == "" {
		return key + ".txt"
	}
	return strings.TrimSuffix(s.prefix, "/") + "/" + key + ".txt"
}

func (s *ObjectStore) Get(ctx context.Context, key string) (string, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, s.object(key), minio.GetObjectOptions{})
	if err != nil {
		return "", objectErr(key, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return "", objectErr(key, err)
	}
	value := strings.TrimSpace(string(data))
	if value == "" {
		return "", ErrNotFound
	}
	return value, nil
}

func (s *ObjectStore) Set(ctx context.Context, key, value string) error {
	_, err := s.client.PutObject(ctx, s.bucket, s.object(key), bytes.NewReader([]byte(value)), int64(len(value)), minio.PutObjectOptions{
		ContentType: "text/plain",
	})
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", s.object(key), err)
	}
	return nil
}

func (s *ObjectStore) Delete(ctx context.Context, key string) error {
	err := s.client.RemoveObject(ctx, s.bucket, s.object(key), minio.RemoveObjectOptions{})
	if err != nil && !errors.Is(objectErr(key, err), ErrNotFound) {
		return objectErr(key, err)
	}
	return nil
}

func objectErr(key string, err error) error {
	if storage.IsNotFound(err) {
		return ErrNotFound
	}
	return fmt.Errorf("failed to access %s: %w", key, err)
}
