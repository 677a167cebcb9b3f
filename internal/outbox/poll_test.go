package outbox

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSelectForUpdateSQL_UsesSkipLockedAndTableName(t *testing.T) {
	sql := selectForUpdateSQL(orderOutboxTable)
	require.Contains(t, sql, "FOR UPDATE SKIP LOCKED")
	require.Contains(t, sql, orderOutboxTable)

	sql = selectForUpdateSQL(executionOutboxTable)
	require.Contains(t, sql, executionOutboxTable)
	require.True(t, strings.Count(sql, executionOutboxTable) >= 1)
}
