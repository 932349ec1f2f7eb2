package coursefetch_test

import (
	"testing"

	"github.com/boldstep/coursefetch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractionRequest_Validate(t *testing.T) {
	t.Parallel()

	t.Run("accepts absolute http URL", func(t *testing.T) {
		t.Parallel()

		req := coursefetch.ExtractionRequest{
			URL:    "https://www.brighton.ac.uk/courses/study/secondary-biology-pgce.aspx",
			Schema: coursefetch.DefaultSchema(),
		}

		assert.NoError(t, req.Validate())
	})

	t.Run("rejects empty URL", func(t *testing.T) {
		t.Parallel()

		err := coursefetch.ExtractionRequest{}.Validate()
		require.Error(t, err)
		assert.Equal(t, coursefetch.EINVALID, coursefetch.ErrorCode(err))
	})

	t.Run("rejects URL without scheme", func(t *testing.T) {
		t.Parallel()

		err := coursefetch.ExtractionRequest{URL: "invalid-url"}.Validate()
		require.Error(t, err)
		assert.Equal(t, coursefetch.EINVALID, coursefetch.ErrorCode(err))
	})

	t.Run("rejects URL without host", func(t *testing.T) {
		t.Parallel()

		err := coursefetch.ExtractionRequest{URL: "https://"}.Validate()
		require.Error(t, err)
		assert.Equal(t, coursefetch.EINVALID, coursefetch.ErrorCode(err))
	})
}
