package cmd

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDownloadPath(t *testing.T) {
	t.Run("NestedKey", func(t *testing.T) {
		path, err := downloadPath("out", "photos/2024/cat.jpg")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join("out", "cat.jpg"), path)
	})

	t.Run("FolderMarkerRejected", func(t *testing.T) {
		for _, key := range []string{"photos/", "photos/2024/", "/"} {
			_, err := downloadPath("out", key)
			assert.Error(t, err, key)
		}
	})
}
