package shortlink_test

import (
	"testing"

	"github.com/shortenv/shortenv/internal/shortlink"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidCode(t *testing.T) {
	t.Run("accepts alphanumeric with hyphen and underscore", func(t *testing.T) {
		assert.True(t, shortlink.ValidCode("abc123"))
		assert.True(t, shortlink.ValidCode("my-link_2"))
		assert.True(t, shortlink.ValidCode("ABC"))
	})

	t.Run("rejects out-of-range lengths", func(t *testing.T) {
		assert.False(t, shortlink.ValidCode("ab"))
		assert.False(t, shortlink.ValidCode(""))

		long := make([]byte, 51)
		for i := range long {
			long[i] = 'a'
		}
		assert.False(t, shortlink.ValidCode(string(long)))
	})

	t.Run("rejects other characters", func(t *testing.T) {
		assert.False(t, shortlink.ValidCode("has space"))
		assert.False(t, shortlink.ValidCode("slash/ok"))
		assert.False(t, shortlink.ValidCode("dötted"))
	})
}

func TestNewCodeGenerator(t *testing.T) {
	t.Run("generates valid codes of requested length", func(t *testing.T) {
		gen, err := shortlink.NewCodeGenerator(shortlink.GeneratedCodeLength)
		require.NoError(t, err)

		for range 20 {
			code := gen()
			assert.Len(t, code, shortlink.GeneratedCodeLength)
			assert.True(t, shortlink.ValidCode(code))
		}
	})

	t.Run("rejects invalid length", func(t *testing.T) {
		_, err := shortlink.NewCodeGenerator(0)
		assert.Error(t, err)
	})
}

func TestRedirectPolicy(t *testing.T) {
	t.Run("valid policies map to their status codes", func(t *testing.T) {
		assert.Equal(t, 301, shortlink.PolicyPermanent.StatusCode())
		assert.Equal(t, 302, shortlink.PolicyTemporary.StatusCode())
	})

	t.Run("normalize maps unknown values to temporary", func(t *testing.T) {
		assert.Equal(t, shortlink.PolicyTemporary, shortlink.NormalizePolicy(0))
		assert.Equal(t, shortlink.PolicyTemporary, shortlink.NormalizePolicy(307))
		assert.Equal(t, shortlink.PolicyPermanent, shortlink.NormalizePolicy(shortlink.PolicyPermanent))
	})
}

func TestListOptionsSortColumn(t *testing.T) {
	t.Run("allows whitelisted columns", func(t *testing.T) {
		assert.Equal(t, "clicks", shortlink.ListOptions{SortBy: "clicks"}.SortColumn())
		assert.Equal(t, "code", shortlink.ListOptions{SortBy: "code"}.SortColumn())
	})

	t.Run("falls back to created_at", func(t *testing.T) {
		assert.Equal(t, "created_at", shortlink.ListOptions{}.SortColumn())
		assert.Equal(t, "created_at", shortlink.ListOptions{SortBy: "id; DROP TABLE"}.SortColumn())
	})
}
