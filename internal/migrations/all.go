package migrations

import (
	"gofr.dev/pkg/gofr/migration"
)

func All() map[int64]migration.Migrate {
	return map[int64]migration.Migrate{
		1708322067: createItemsTable(),
		1708322068: createIndices(),
	}
}
