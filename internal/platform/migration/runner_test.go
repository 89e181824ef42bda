// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package migration_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/credauth/internal/platform/migration"
)

func TestPgx5URL(t *testing.T) {
	tests := map[string]string{
		"postgres://u:p@h:5432/db":   "pgx5://u:p@h:5432/db",
		"postgresql://u:p@h:5432/db": "pgx5://u:p@h:5432/db",
		"pgx5://u:p@h:5432/db":       "pgx5://u:p@h:5432/db",
		"host=h dbname=db":           "host=h dbname=db",
	}

	for input, want := range tests {
		assert.Equal(t, want, migration.Pgx5URL(input), input)
	}
}
