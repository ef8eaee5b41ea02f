package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"platebench/pkg/common"
)

func openTemp(t *testing.T) *SQLiteBackend {
	t.Helper()
	b, err := NewSQLiteBackend(filepath.Join(t.TempDir(), "plates.db"), "")
	require.NoError(t, err)
	t.Cleanup(func() { b.Close() })
	return b
}

func TestBatchWriteAndLoadAll(t *testing.T) {
	b := openTemp(t)

	in := []common.Record{
		{"id": 1, "placa": "XYZ-9999", "estado_ANT": "Habilitada"},
		{"id": 2, "placa": "ABC-1234", "score": 0.5},
	}
	require.NoError(t, b.BatchWrite(in))
	require.NoError(t, b.BatchWrite(nil))

	n, err := b.Count()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	out, err := b.LoadAll()
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "XYZ-9999", out[0]["placa"])
	assert.Equal(t, int64(1), out[0]["id"])
	assert.Equal(t, "Habilitada", out[0]["estado_ANT"])
	assert.Equal(t, "ABC-1234", out[1]["placa"])
	assert.Equal(t, 0.5, out[1]["score"])
}

func TestBatchWriteRejectsMissingKey(t *testing.T) {
	b := openTemp(t)

	err := b.BatchWrite([]common.Record{{"placa": "ABC-1234"}, {"id": 2}})
	assert.ErrorIs(t, err, common.ErrKeyMissing)

	// the whole batch rolls back
	n, err := b.Count()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestTruncate(t *testing.T) {
	b := openTemp(t)
	require.NoError(t, b.BatchWrite([]common.Record{{"placa": "ABC-1234"}}))
	require.NoError(t, b.Truncate())

	out, err := b.LoadAll()
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plates.db")
	b, err := NewSQLiteBackend(path, "placa")
	require.NoError(t, err)
	require.NoError(t, b.BatchWrite([]common.Record{{"placa": "MNO-5555"}}))
	require.NoError(t, b.Close())

	b, err = NewSQLiteBackend(path, "placa")
	require.NoError(t, err)
	defer b.Close()
	out, err := b.LoadAll()
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "MNO-5555", out[0]["placa"])
}
