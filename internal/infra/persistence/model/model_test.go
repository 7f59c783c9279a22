package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The startup migration provisions exactly these tables, parents before
// children so the store and rating FKs can be created in one pass.
func TestAllCoversEveryTableInDependencyOrder(t *testing.T) {
	models := All()
	require.Len(t, models, 3)

	names := make([]string, 0, len(models))
	for _, m := range models {
		named, ok := m.(interface{ TableName() string })
		require.True(t, ok)
		names = append(names, named.TableName())
	}

	assert.Equal(t, []string{"users", "stores", "ratings"}, names)
}
