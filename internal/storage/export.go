package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// exportTables are dumped in this order. Table names never come from input.
var exportTables = []string{"workouts", "trainings", "sync_state"}

// Dump reads every cached table as rows of column -> value. NULL columns
// are left out, since TOML has no null.
func (s *Storage) Dump(ctx context.Context) (map[string][]map[string]any, error) {
	dump := make(map[string][]map[string]any, len(exportTables))

	for _, table := range exportTables {
		rows, err := s.DB.QueryContext(ctx, fmt.Sprintf("SELECT * FROM %s", table))
		if err != nil {
			return nil, fmt.Errorf("querying table %s: %w", table, err)
		}

		cols, err := rows.Columns()
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("getting columns for table %s: %w", table, err)
		}

		tableData := []map[string]any{}
		for rows.Next() {
			values := make([]any, len(cols))
			valuePtrs := make([]any, len(cols))
			for i := range values {
				valuePtrs[i] = &values[i]
			}
			if err := rows.Scan(valuePtrs...); err != nil {
				rows.Close()
				return nil, fmt.Errorf("scanning row in table %s: %w", table, err)
			}

			rowMap := make(map[string]any, len(cols))
			for i, col := range cols {
				switch v := values[i].(type) {
				case nil:
				case []byte:
					rowMap[col] = string(v)
				default:
					rowMap[col] = v
				}
			}
			tableData = append(tableData, rowMap)
		}
		err = rows.Err()
		rows.Close()
		if err != nil {
			return nil, fmt.Errorf("iterating table %s: %w", table, err)
		}

		dump[table] = tableData
	}
	return dump, nil
}

// WriteTOML encodes the whole cache as TOML.
func (s *Storage) WriteTOML(ctx context.Context, w io.Writer) error {
	dump, err := s.Dump(ctx)
	if err != nil {
		return err
	}
	if err := toml.NewEncoder(w).Encode(dump); err != nil {
		return fmt.Errorf("encoding TOML: %w", err)
	}
	return nil
}

// ExportTOML writes the cache dump to outputPath, relative paths resolved
// against the working directory.
func (s *Storage) ExportTOML(ctx context.Context, outputPath string) (string, error) {
	outputPath, err := filepath.Abs(outputPath)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return "", err
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return "", fmt.Errorf("creating export file: %w", err)
	}
	defer f.Close()

	if err := s.WriteTOML(ctx, f); err != nil {
		return "", err
	}
	return outputPath, f.Close()
}

// DefaultExportPath is cache_dump.toml inside the config directory.
func DefaultExportPath(configDir string) string {
	return filepath.Join(configDir, "cache_dump.toml")
}
