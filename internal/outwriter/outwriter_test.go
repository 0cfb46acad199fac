package outwriter

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteWithFile(t *testing.T) {
	t.Run("writes to file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.txt")
		err := writeWithFile(path, func(w io.Writer) error {
			_, err := w.Write([]byte("hello"))
			return err
		}, "Wrote text")
		require.NoError(t, err)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "hello", string(data))
	})
}

func TestWriteJSONIndented(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeJSON(&buf, map[string]int{"a": 1}))
	assert.Equal(t, "{\n  \"a\": 1\n}\n", buf.String())
}

func TestCreateFormatters(t *testing.T) {
	fmtFloat, intFmt := createFormatters(2)
	assert.Equal(t, "3.14", fmtFloat(3.14159))
	assert.Equal(t, "%d", intFmt)

	fmtFloat, _ = createFormatters(1)
	assert.Equal(t, "3.1", fmtFloat(3.14159))
}

func TestGetMaxTableNameWidth(t *testing.T) {
	cfg := textConfig()

	t.Run("wide terminal clamps at 40", func(t *testing.T) {
		cfg.Width = 200
		cfg.Explain = false
		assert.Equal(t, 40, getMaxTableNameWidth(cfg))
	})

	t.Run("narrow terminal clamps at 12", func(t *testing.T) {
		cfg.Width = 40
		assert.Equal(t, 12, getMaxTableNameWidth(cfg))
	})

	t.Run("explain column shrinks names", func(t *testing.T) {
		cfg.Width = 100
		cfg.Explain = false
		without := getMaxTableNameWidth(cfg)
		cfg.Explain = true
		with := getMaxTableNameWidth(cfg)
		assert.Less(t, with, without)
	})
}

func TestTruncateName(t *testing.T) {
	assert.Equal(t, "discovery", truncateName("discovery", 20))
	assert.Equal(t, "disc...", truncateName("discovery-session", 7))
	assert.Equal(t, "dis", truncateName("discovery", 3))
}
