package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/calbyte/sessiongraph/internal/domain"
)

// Cypher clauses that mutate the graph. Matched on word boundaries so
// property names containing these words pass.
var blockedCypherPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bCREATE\b`),
	regexp.MustCompile(`(?i)\bMERGE\b`),
	regexp.MustCompile(`(?i)\bDELETE\b`),
	regexp.MustCompile(`(?i)\bDETACH\b`),
	regexp.MustCompile(`(?i)\bSET\b`),
	regexp.MustCompile(`(?i)\bREMOVE\b`),
	regexp.MustCompile(`(?i)\bDROP\b`),
	regexp.MustCompile(`(?i)\bCALL\s+\{`),
	regexp.MustCompile(`(?i)\bLOAD\s+CSV\b`),
}

const defaultQueryLimit = 100

// ValidateCypher rejects queries containing write clauses.
func ValidateCypher(query string) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return fmt.Errorf("empty query")
	}

	if strings.Count(query, ";") > 1 {
		return fmt.Errorf("multiple statements not allowed")
	}

	for _, pattern := range blockedCypherPatterns {
		if pattern.MatchString(query) {
			return fmt.Errorf("blocked query pattern detected")
		}
	}

	return nil
}

// EnforceLimit appends a LIMIT clause when the query has none.
func EnforceLimit(query string, maxRows int) string {
	if strings.Contains(strings.ToUpper(query), "LIMIT") {
		return query
	}
	query = strings.TrimSuffix(strings.TrimSpace(query), ";")
	return fmt.Sprintf("%s LIMIT %d", query, maxRows)
}

// GraphQueryTool runs an arbitrary read-only Cypher query.
type GraphQueryTool struct {
	querier domain.GraphQuerier
}

func NewGraphQueryTool(querier domain.GraphQuerier) *GraphQueryTool {
	return &GraphQueryTool{querier: querier}
}

func (t *GraphQueryTool) Schema() Schema {
	return Schema{
		Name:        "run_graph_query",
		Description: "Run a read-only Cypher query against the customer graph; write clauses are rejected",
		InputSchema: objectSchema([]string{"query"}, map[string]any{
			"query":  map[string]any{"type": "string"},
			"params": map[string]any{"type": "object"},
		}),
	}
}

func (t *GraphQueryTool) Execute(ctx context.Context, args json.RawMessage) (any, error) {
	var in struct {
		Query  string         `json:"query"`
		Params map[string]any `json:"params"`
	}
	if err := decodeArgs(args, &in); err != nil {
		return nil, err
	}

	if err := ValidateCypher(in.Query); err != nil {
		return nil, err
	}

	query := EnforceLimit(in.Query, defaultQueryLimit)
	rows, err := t.querier.ReadQuery(ctx, query, in.Params)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"row_count": len(rows),
		"rows":      rows,
	}, nil
}
