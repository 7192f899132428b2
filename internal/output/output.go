// Package output persists rendered descriptors.
//
// All destinations implement Sink. Callers depend only on this package; the
// MinIO implementation lives in output/minio.
package output

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/koustreak/autoseq/internal/errs"
)

// Kind identifies the output destination.
type Kind string

const (
	KindFS    Kind = "fs"
	KindMinIO Kind = "minio"
)

// ParseKind accepts the destination names used in configs.
func ParseKind(name string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "fs", "file", "filesystem":
		return KindFS, nil
	case "minio", "s3":
		return KindMinIO, nil
	}
	return "", errs.Newf(errs.ErrKindInvalidInput, "unsupported output kind %q", name)
}

// Sink stores one artifact per table. Implementations are safe for
// concurrent use; writes of different tables never conflict.
type Sink interface {
	// Write stores content as the artifact of table. Failures are
	// errs.ErrKindWrite.
	Write(ctx context.Context, table string, content []byte) error

	// Location describes where the artifact of table ends up.
	Location(table string) string

	// Close releases any held resources.
	Close() error
}

// MinIOConfig holds the settings of the object storage destination.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Region    string
	Bucket    string
	Prefix    string // prepended to every object name
}

// FileName is the artifact name of table: <table>.<ext>.
func FileName(table, ext string) string {
	ext = strings.TrimPrefix(ext, ".")
	if ext == "" {
		return table
	}
	return table + "." + ext
}

// Memory keeps artifacts in a map. Tests use it in place of a real sink.
type Memory struct {
	mu    sync.RWMutex
	files map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{files: make(map[string][]byte)}
}

func (m *Memory) Write(ctx context.Context, table string, content []byte) error {
	if err := ctx.Err(); err != nil {
		return errs.Wrap(errs.ErrKindWrite, "write "+table, err)
	}
	buf := make([]byte, len(content))
	copy(buf, content)

	m.mu.Lock()
	m.files[table] = buf
	m.mu.Unlock()
	return nil
}

func (m *Memory) Location(table string) string { return "memory://" + table }

func (m *Memory) Close() error { return nil }

// Get returns the artifact of table.
func (m *Memory) Get(table string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.files[table]
	return b, ok
}

// Tables lists the stored tables in name order.
func (m *Memory) Tables() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.files))
	for name := range m.files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
