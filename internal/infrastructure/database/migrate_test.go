package database

import (
	"io/fs"
	"strings"
	"testing"

	"contractor-booking/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationURL(t *testing.T) {
	url := MigrationURL(config.DBConfig{
		Host:     "db",
		Port:     "5432",
		User:     "booking",
		Password: "p@ss word",
		Name:     "contractors",
	})

	assert.Equal(t, "pgx5://booking:p%40ss%20word@db:5432/contractors?sslmode=disable", url)
}

func TestEmbeddedMigrations_ArePaired(t *testing.T) {
	entries, err := fs.ReadDir(migrationFiles, "migrations")
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	ups, downs := map[string]bool{}, map[string]bool{}
	for _, e := range entries {
		name := e.Name()
		switch {
		case strings.HasSuffix(name, ".up.sql"):
			ups[strings.TrimSuffix(name, ".up.sql")] = true
		case strings.HasSuffix(name, ".down.sql"):
			downs[strings.TrimSuffix(name, ".down.sql")] = true
		}
	}
	assert.Equal(t, ups, downs)
}

func TestInitMigration_DeclaresSlotConstraint(t *testing.T) {
	body, err := fs.ReadFile(migrationFiles, "migrations/000001_init_schema.up.sql")
	require.NoError(t, err)
	assert.Contains(t, string(body), "CONSTRAINT ux_slot_reservations_slot UNIQUE (contractor_id, slot_date, slot_time)")
}
