package cmd

import (
	"bytes"
	"testing"

	"r2-explorer/core/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	etag := "abc"
	objects := []storage.ObjectInfo{
		{Key: "a/", Name: "a", IsFolder: true},
		{Key: "c.txt", Name: "c.txt", Size: 3, ETag: &etag},
	}

	t.Run("JSON", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, render(&buf, "json", objects))
		assert.Contains(t, buf.String(), `"is_folder": true`)
		assert.Contains(t, buf.String(), `"etag": "abc"`)
	})

	t.Run("YAML", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, render(&buf, "yaml", objects))
		assert.Contains(t, buf.String(), "- key: a/")
		assert.Contains(t, buf.String(), "  is_folder: true")
		assert.Contains(t, buf.String(), "  etag: abc")
	})

	t.Run("Unsupported", func(t *testing.T) {
		var buf bytes.Buffer
		assert.Error(t, render(&buf, "xml", objects))
	})
}
