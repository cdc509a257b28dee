package repository

import (
	"strings"
	"testing"
)

func TestInsertMetricsPlaceholdersMatchColumns(t *testing.T) {
	idx := strings.Index(insertMetricsQuery, "VALUES")
	if idx < 0 {
		t.Fatalf("no VALUES clause in insert query")
	}
	columns := strings.Count(insertMetricsQuery[:idx], ",") + 1
	placeholders := strings.Count(insertMetricsQuery[idx:], "?")
	if placeholders != columns {
		t.Fatalf("insert binds %d placeholders for %d columns", placeholders, columns)
	}
	if columns != 21 {
		t.Fatalf("columns = %d, want 21", columns)
	}
}
