package repository

import (
	"strings"
	"sync"
	"testing"
	"time"

	"korus/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
	"gorm.io/gorm/utils/tests"
)

// dryRunDB builds SQL without a database and records every statement the
// repository generates.
func dryRunDB(t *testing.T) (*gorm.DB, *[]string) {
	t.Helper()
	db, err := gorm.Open(tests.DummyDialector{}, &gorm.Config{DryRun: true})
	require.NoError(t, err)

	var captured []string
	capture := func(tx *gorm.DB) {
		if sql := tx.Statement.SQL.String(); sql != "" {
			captured = append(captured, sql)
		}
	}
	require.NoError(t, db.Callback().Query().After("gorm:query").Register("capture_query_sql", capture))
	require.NoError(t, db.Callback().Row().After("gorm:row").Register("capture_row_sql", capture))
	return db, &captured
}

func TestDistributionQueriesUseModelColumns(t *testing.T) {
	s, err := schema.Parse(&models.TokenDistribution{}, &sync.Map{}, schema.NamingStrategy{})
	require.NoError(t, err)
	require.Contains(t, s.FieldsByDBName, "tokens_earned")
	require.NotContains(t, s.FieldsByDBName, "tokens_received")

	db, captured := dryRunDB(t)
	repo := NewDistributionRepository(db)
	weekStart := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)

	// Dry-run never reaches a database; only the generated SQL matters.
	_, _ = repo.TotalEarned("alice")
	_, _ = repo.ListByWeek(weekStart)
	_, _ = repo.ListByWallet("alice", 10, 0)
	_, _ = repo.UnsettledIntents(weekStart)

	require.NotEmpty(t, *captured)
	for _, sql := range *captured {
		require.NotContains(t, sql, "tokens_received", "query references a column the model does not have: %s", sql)
	}

	var sawSum, sawOrder bool
	for _, sql := range *captured {
		if strings.Contains(sql, "SUM(tokens_earned)") {
			sawSum = true
		}
		if strings.Contains(sql, "tokens_earned DESC") {
			sawOrder = true
		}
	}
	require.True(t, sawSum, "TotalEarned should sum tokens_earned, got: %v", *captured)
	require.True(t, sawOrder, "ListByWeek should order by tokens_earned, got: %v", *captured)
}
