package csvwriter

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSubmissionWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "submission.csv")

	w, err := NewSubmissionWriter(path, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, w.Write(1461, 169277.0524984))
	require.NoError(t, w.Write(1462, 187758))
	require.NoError(t, w.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"Id", "SalePrice"}, records[0])
	assert.Equal(t, []string{"1461", "169277.0524984"}, records[1])
	assert.Equal(t, []string{"1462", "187758"}, records[2])
}

func TestSubmissionWriterBadPath(t *testing.T) {
	_, err := NewSubmissionWriter(filepath.Join(t.TempDir(), "no", "such", "dir.csv"), zap.NewNop())
	assert.Error(t, err)
}
