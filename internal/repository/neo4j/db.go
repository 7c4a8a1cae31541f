package neo4j

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/calbyte/sessiongraph/internal/config"
)

// DB wraps the Neo4j driver
type DB struct {
	driver   neo4j.DriverWithContext
	database string
}

// NewDB creates a new Neo4j driver and verifies connectivity
func NewDB(ctx context.Context, cfg config.Neo4jConfig) (*DB, error) {
	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.Username, cfg.Password, ""))
	if err != nil {
		return nil, fmt.Errorf("failed to create neo4j driver: %w", err)
	}

	// Verify connection
	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, fmt.Errorf("failed to connect to neo4j: %w", err)
	}

	return &DB{driver: driver, database: cfg.Database}, nil
}

// Close closes the driver
func (db *DB) Close(ctx context.Context) error {
	return db.driver.Close(ctx)
}

// session opens a driver session bound to the configured database.
func (db *DB) session(ctx context.Context, mode neo4j.AccessMode) neo4j.SessionWithContext {
	return db.driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   mode,
		DatabaseName: db.database,
	})
}

// read runs a read query and collects every record as a map.
func (db *DB) read(ctx context.Context, query string, params map[string]any) ([]map[string]any, error) {
	sess := db.session(ctx, neo4j.AccessModeRead)
	defer sess.Close(ctx)

	rows, err := neo4j.ExecuteRead(ctx, sess, func(tx neo4j.ManagedTransaction) ([]map[string]any, error) {
		result, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}

		var rows []map[string]any
		for result.Next(ctx) {
			record := result.Record()
			row := make(map[string]any, len(record.Keys))
			for i, key := range record.Keys {
				row[key] = record.Values[i]
			}
			rows = append(rows, row)
		}
		return rows, result.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("read query failed: %w", err)
	}
	return rows, nil
}

// write runs a write query, discarding any returned records.
func (db *DB) write(ctx context.Context, query string, params map[string]any) error {
	sess := db.session(ctx, neo4j.AccessModeWrite)
	defer sess.Close(ctx)

	_, err := neo4j.ExecuteWrite(ctx, sess, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}
		return result.Consume(ctx)
	})
	if err != nil {
		return fmt.Errorf("write query failed: %w", err)
	}
	return nil
}

// ReadQuery runs an arbitrary read query. Callers must reject write
// clauses before invoking it; the read transaction is the backstop.
func (db *DB) ReadQuery(ctx context.Context, query string, params map[string]any) ([]map[string]any, error) {
	return db.read(ctx, query, params)
}

// nodeProps extracts the property map from a value returned for a node.
func nodeProps(v any) (map[string]any, bool) {
	switch n := v.(type) {
	case neo4j.Node:
		return n.Props, true
	case map[string]any:
		return n, true
	}
	return nil, false
}
