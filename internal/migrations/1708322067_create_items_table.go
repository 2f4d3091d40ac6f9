package migrations

import (
	"gofr.dev/pkg/gofr/migration"
)

const createTableItems = `create table if not exists items
(
    id         bigint unsigned auto_increment
        primary key,
    name       varchar(255) not null,
    created_at timestamp    not null default current_timestamp
);
`

func createItemsTable() migration.Migrate {
	return migration.Migrate{
		UP: func(d migration.Datasource) error {
			_, err := d.SQL.Exec(createTableItems)

			return err
		},
	}
}
