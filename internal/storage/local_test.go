package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_StoreAndRetrieve(t *testing.T) {
	ls, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	assignmentID := uuid.New()

	key, err := ls.Store(ctx, assignmentID, "delivery_act.pdf", strings.NewReader("%PDF-1.4 test"), "application/pdf")
	require.NoError(t, err)
	assert.Contains(t, key, assignmentID.String())
	assert.Contains(t, key, "delivery_act.pdf")

	exists, err := ls.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, exists)

	reader, err := ls.Retrieve(ctx, key)
	require.NoError(t, err)
	defer reader.Close()

	content, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 test", string(content))
}

func TestLocalStorage_Delete(t *testing.T) {
	ls, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	key, err := ls.Store(ctx, uuid.New(), "return_act.pdf", strings.NewReader("data"), "application/pdf")
	require.NoError(t, err)

	require.NoError(t, ls.Delete(ctx, key))

	exists, err := ls.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestLocalStorage_RejectsPathTraversal(t *testing.T) {
	ls, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = ls.Retrieve(context.Background(), "../../etc/passwd")
	assert.Error(t, err)
}

func TestBuildKey_SanitizesFilename(t *testing.T) {
	assignmentID := uuid.New()
	key := buildKey(assignmentID, "acta de entrega/../x.pdf")

	assert.NotContains(t, key, "..")
	assert.Contains(t, key, assignmentID.String())
}
