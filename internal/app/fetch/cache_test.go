package fetch

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheHit(t *testing.T) {
	dir := t.TempDir()

	nonEmpty := filepath.Join(dir, "present.jpg")
	require.NoError(t, os.WriteFile(nonEmpty, []byte("payload"), 0o644))

	empty := filepath.Join(dir, "truncated.jpg")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))

	subdir := filepath.Join(dir, "nested")
	require.NoError(t, os.Mkdir(subdir, 0o755))

	tests := []struct {
		name string
		dest string
		hit  bool
	}{
		{
			name: "nonEmptyFile",
			dest: nonEmpty,
			hit:  true,
		},
		{
			name: "zeroByteFileIsAbsent",
			dest: empty,
			hit:  false,
		},
		{
			name: "missingFile",
			dest: filepath.Join(dir, "nope.jpg"),
			hit:  false,
		},
		{
			name: "directoryIsNotAHit",
			dest: subdir,
			hit:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.hit, CacheHit(tt.dest))
		})
	}
}
