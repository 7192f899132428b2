package output

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/koustreak/autoseq/internal/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{in: "", want: KindFS},
		{in: "FS", want: KindFS},
		{in: "minio", want: KindMinIO},
		{in: "s3", want: KindMinIO},
		{in: "ftp", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKind(tt.in)
			if tt.wantErr {
				assert.True(t, errs.IsInvalidInput(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "users.js", FileName("users", "js"))
	assert.Equal(t, "users.ts", FileName("users", ".ts"))
	assert.Equal(t, "users", FileName("users", ""))
}

func TestFS_Write(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "models")

	sink, err := NewFS(dir, "js")
	require.NoError(t, err)

	require.NoError(t, sink.Write(context.Background(), "users", []byte("a")))
	require.NoError(t, sink.Write(context.Background(), "users", []byte("b")))

	got, err := os.ReadFile(filepath.Join(dir, "users.js"))
	require.NoError(t, err)
	assert.Equal(t, "b", string(got))
	assert.Equal(t, filepath.Join(dir, "users.js"), sink.Location("users"))
}

func TestFS_WriteFailure(t *testing.T) {
	dir := t.TempDir()
	sink, err := NewFS(dir, "js")
	require.NoError(t, err)

	// A directory where the file should go makes the write fail.
	require.NoError(t, os.Mkdir(filepath.Join(dir, "users.js"), 0o755))

	err = sink.Write(context.Background(), "users", []byte("x"))
	assert.True(t, errs.IsWrite(err))
}

func TestNewFS_DirectoryIsFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "plain")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	_, err := NewFS(file, "js")
	assert.True(t, errs.IsWrite(err))
}

func TestMemory(t *testing.T) {
	m := NewMemory()
	content := []byte("x")
	require.NoError(t, m.Write(context.Background(), "b", content))
	require.NoError(t, m.Write(context.Background(), "a", []byte("y")))
	content[0] = 'z'

	got, ok := m.Get("b")
	assert.True(t, ok)
	assert.Equal(t, "x", string(got))
	assert.Equal(t, []string{"a", "b"}, m.Tables())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.True(t, errs.IsWrite(m.Write(ctx, "c", nil)))
}
