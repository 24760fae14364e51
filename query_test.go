package cms_test

import (
	"testing"

	cms "github.com/goliatone/go-cms"
	"github.com/stretchr/testify/assert"
)

func TestListSpecParseDefaults(t *testing.T) {
	spec := cms.AuthorListSpec()

	params := spec.Parse(map[string]string{})

	assert.Equal(t, cms.DefaultPage, params.Page)
	assert.Equal(t, cms.DefaultLimit, params.Limit)
	assert.Equal(t, "DESC", params.Order)
	assert.Empty(t, params.Sort)
	assert.Empty(t, params.Search)
}

func TestListSpecParseCoercion(t *testing.T) {
	spec := cms.AuthorListSpec()

	tests := []struct {
		name      string
		values    map[string]string
		wantPage  int
		wantLimit int
	}{
		{"garbage falls back to defaults", map[string]string{"page": "abc", "limit": "x"}, 1, 10},
		{"zero clamps up", map[string]string{"page": "0", "limit": "0"}, 1, 1},
		{"negative clamps up", map[string]string{"page": "-3", "limit": "-1"}, 1, 1},
		{"limit clamps to max", map[string]string{"limit": "500"}, 1, cms.MaxLimit},
		{"in range passes through", map[string]string{"page": "3", "limit": "25"}, 3, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := spec.Parse(tt.values)
			assert.Equal(t, tt.wantPage, params.Page)
			assert.Equal(t, tt.wantLimit, params.Limit)
		})
	}
}

func TestListSpecParseSortWhitelist(t *testing.T) {
	spec := cms.PostListSpec()

	params := spec.Parse(map[string]string{"sort": "publishedAt", "order": "asc"})
	assert.Equal(t, "published_at", params.Sort)
	assert.Equal(t, "ASC", params.Order)

	params = spec.Parse(map[string]string{"sort": "password_hash"})
	assert.Empty(t, params.Sort)
	assert.Equal(t, "DESC", params.Order)
}

func TestListParamsSelectCriteria(t *testing.T) {
	spec := cms.PostListSpec()

	t.Run("unknown filters are dropped", func(t *testing.T) {
		params := spec.Parse(map[string]string{"color": "red"})
		assert.Empty(t, params.SelectCriteria())
	})

	t.Run("known filters bind", func(t *testing.T) {
		params := spec.Parse(map[string]string{"status": "published"})
		assert.Len(t, params.SelectCriteria(), 1)
	})

	t.Run("search adds one criteria", func(t *testing.T) {
		params := spec.Parse(map[string]string{"status": "draft", "q": "gopher"})
		assert.Len(t, params.SelectCriteria(), 2)
	})
}

func TestListParamsOffset(t *testing.T) {
	spec := cms.AuthorListSpec()

	params := spec.Parse(map[string]string{"page": "3", "limit": "20"})
	assert.Equal(t, 40, params.Offset())

	params = spec.Parse(map[string]string{})
	assert.Equal(t, 0, params.Offset())
}

func TestTotalPages(t *testing.T) {
	spec := cms.AuthorListSpec()
	params := spec.Parse(map[string]string{"limit": "10"})

	assert.Equal(t, 1, params.TotalPages(0))
	assert.Equal(t, 1, params.TotalPages(1))
	assert.Equal(t, 1, params.TotalPages(10))
	assert.Equal(t, 2, params.TotalPages(11))
	assert.Equal(t, 10, params.TotalPages(100))
}

func TestNewListResult(t *testing.T) {
	spec := cms.AuthorListSpec()
	params := spec.Parse(map[string]string{"page": "2", "limit": "5"})

	result := cms.NewListResult(params, 12, []*cms.Author{{}, {}})

	assert.Equal(t, 2, result.Page)
	assert.Equal(t, 5, result.Limit)
	assert.Equal(t, 12, result.Total)
	assert.Equal(t, 3, result.TotalPages)
	assert.Equal(t, 2, result.Results)
	assert.Len(t, result.Data, 2)
}

func TestNewListResultEmptyPage(t *testing.T) {
	spec := cms.AuthorListSpec()
	params := spec.Parse(map[string]string{})

	result := cms.NewListResult[*cms.Author](params, 0, nil)

	assert.Equal(t, 0, result.Total)
	assert.Equal(t, 1, result.TotalPages)
	assert.Equal(t, 0, result.Results)
	assert.NotNil(t, result.Data)
}
