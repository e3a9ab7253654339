package zkp

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/zkpauth/internal/common"
)

func writeParamsFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "params.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestParamsFromFile(t *testing.T) {
	path := writeParamsFile(t, `{"p":"17","q":"b","alpha":"4","beta":"9"}`)

	params, err := ParamsFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, int64(23), params.P.Int64())
	assert.Equal(t, int64(11), params.Q.Int64())
	assert.Equal(t, int64(4), params.Alpha.Int64())
	assert.Equal(t, int64(9), params.Beta.Int64())
}

func TestParamsFromFile_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := ParamsFromFile(filepath.Join(t.TempDir(), "absent.json"))
		assert.Error(t, err)
	})

	t.Run("invalid json", func(t *testing.T) {
		path := writeParamsFile(t, `{`)
		_, err := ParamsFromFile(path)
		assert.ErrorIs(t, err, common.ErrSerialization)
	})

	t.Run("non-hex value", func(t *testing.T) {
		path := writeParamsFile(t, `{"p":"17","q":"xyz","alpha":"4","beta":"9"}`)
		_, err := ParamsFromFile(path)
		assert.ErrorIs(t, err, common.ErrSerialization)
	})

	t.Run("invalid group", func(t *testing.T) {
		path := writeParamsFile(t, `{"p":"17","q":"b","alpha":"1","beta":"9"}`)
		_, err := ParamsFromFile(path)
		assert.ErrorIs(t, err, common.ErrInvalidInput)
	})
}
