package browser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPagedResultNormalizesEmptyCollection(t *testing.T) {
	r := NewPagedResult[string](nil, 1, 0, 0)

	assert.Equal(t, 1, r.TotalPages)
	assert.Equal(t, 1, r.Page)
	assert.NotNil(t, r.Items)
	assert.Equal(t, "1 of 1", r.Indicator())
}

func TestNewPagedResultClampsPage(t *testing.T) {
	assert.Equal(t, 3, NewPagedResult([]string{"a"}, 7, 3, 21).Page)
	assert.Equal(t, 1, NewPagedResult([]string{"a"}, 0, 3, 21).Page)
}

func TestNewPagedResultCopiesItems(t *testing.T) {
	items := []string{"a", "b"}
	r := NewPagedResult(items, 1, 1, 2)
	items[0] = "changed"

	assert.Equal(t, []string{"a", "b"}, r.Items)
}
