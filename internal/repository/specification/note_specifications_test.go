package specification

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestForFilter(t *testing.T) {
	t.Run("no constraints keeps ordering only", func(t *testing.T) {
		specs := ForFilter("  ", "", 0)
		require.Len(t, specs, 2)
		assert.Equal(t, OrderBy{Field: "notes.created_at", Desc: true}, specs[0])
		assert.Equal(t, Pagination{Limit: 0}, specs[1])
	})

	t.Run("keyword and tag", func(t *testing.T) {
		specs := ForFilter("pasta", "Recetas", 5)
		require.Len(t, specs, 4)
		assert.Equal(t, ByKeyword{Keyword: "pasta"}, specs[0])
		assert.Equal(t, ByTag{Tag: "Recetas"}, specs[1])
		assert.Equal(t, Pagination{Limit: 5}, specs[3])
	})
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `50\% de \_algo\\`, escapeLike(`50% de _algo\`))
}

type recordingSpec struct {
	name  string
	order *[]string
}

func (s recordingSpec) Apply(db *gorm.DB) *gorm.DB {
	*s.order = append(*s.order, s.name)
	return db
}

func TestApplyAll_InOrderSkippingNil(t *testing.T) {
	var order []string
	ApplyAll(nil, recordingSpec{"a", &order}, nil, recordingSpec{"b", &order})
	assert.Equal(t, []string{"a", "b"}, order)
}
