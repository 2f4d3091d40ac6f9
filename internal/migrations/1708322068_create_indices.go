package migrations

import (
	"gofr.dev/pkg/gofr/migration"
)

const createIndexItemName = `create index idx_items_name
on items (name);`

func createIndices() migration.Migrate {
	return migration.Migrate{
		UP: func(d migration.Datasource) error {
			_, err := d.SQL.Exec(createIndexItemName)
			if err != nil {
				return err
			}

			return nil
		},
	}
}
