package obs

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInitTracerRejectsUnknownExporter(t *testing.T) {
	_, err := InitTracer(context.Background(), TracingConfig{Exporter: "jaeger"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "jaeger")
}

func TestInitTracerNoneExporter(t *testing.T) {
	shutdown, err := InitTracer(context.Background(), TracingConfig{Exporter: "none"})
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	require.NoError(t, shutdown(context.Background()))
}

func TestSQLVerb(t *testing.T) {
	require.Equal(t, "select", sqlVerb("SELECT id FROM videos"))
	require.Equal(t, "insert", sqlVerb("\n\tINSERT INTO entitlements VALUES ($1)"))
	require.Equal(t, "query", sqlVerb("   "))
}

func TestSummarizeSQLCollapsesAndCaps(t *testing.T) {
	require.Equal(t, "SELECT 1", summarizeSQL("SELECT\n\t1"))

	long := "SELECT " + strings.Repeat("x", statementAttrLimit)
	got := summarizeSQL(long)
	require.Len(t, got, statementAttrLimit+3)
	require.True(t, strings.HasSuffix(got, "..."))
}
