package checkout

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseIsolation(t *testing.T) {
	cases := map[string]sql.IsolationLevel{
		"serializable":    sql.LevelSerializable,
		"SERIALIZABLE":    sql.LevelSerializable,
		"repeatable_read": sql.LevelRepeatableRead,
		"read_committed":  sql.LevelReadCommitted,
		"":                sql.LevelSerializable,
		" bogus ":         sql.LevelSerializable, // typos must not weaken isolation
	}
	for in, want := range cases {
		require.Equal(t, want, ParseIsolation(in), "input %q", in)
	}
}
