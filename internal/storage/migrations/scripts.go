package migrations

import (
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"
)

// ErrQuotedSemicolon is returned for a migration the statement splitter would cut
// inside a string literal.
var ErrQuotedSemicolon = errors.New("semicolon inside string literal")

// script is one migration file split into executable statements.
type script struct {
	name  string
	stmts []string
}

// sqlFiles lists the .sql files of dir in fsys in lexical order.
func sqlFiles(fsys fs.FS, dir string) ([]string, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read embedded %s migrations: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}

// loadScripts reads every migration of dir and splits it for drivers that
// execute one statement per call (ClickHouse, MySQL without multiStatements).
func loadScripts(fsys fs.FS, dir string) ([]script, error) {
	files, err := sqlFiles(fsys, dir)
	if err != nil {
		return nil, err
	}

	scripts := make([]script, 0, len(files))
	for _, name := range files {
		data, err := fs.ReadFile(fsys, dir+"/"+name)
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", name, err)
		}
		if err := checkQuotedSemicolons(string(data)); err != nil {
			return nil, fmt.Errorf("migration %s: %w", name, err)
		}
		scripts = append(scripts, script{name: name, stmts: splitStatements(string(data))})
	}
	return scripts, nil
}

// splitStatements cuts SQL on semicolons after dropping blank and "--" lines.
// Quoted semicolons and /* */ comments are not understood; loadScripts rejects
// the former via checkQuotedSemicolons.
func splitStatements(input string) []string {
	var kept []string
	for _, line := range strings.Split(input, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "--") {
			continue
		}
		kept = append(kept, line)
	}

	var stmts []string
	for _, part := range strings.Split(strings.Join(kept, "\n"), ";") {
		if stmt := strings.TrimSpace(part); stmt != "" {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}

// checkQuotedSemicolons reports a semicolon inside a single-quoted literal.
// Doubled quotes ('') are escapes.
func checkQuotedSemicolons(sql string) error {
	quoted := false
	for i := 0; i < len(sql); i++ {
		switch sql[i] {
		case '\'':
			if quoted && i+1 < len(sql) && sql[i+1] == '\'' {
				i++
				continue
			}
			quoted = !quoted
		case ';':
			if quoted {
				return fmt.Errorf("%w at offset %d", ErrQuotedSemicolon, i)
			}
		}
	}
	return nil
}
