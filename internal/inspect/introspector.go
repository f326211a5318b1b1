// Package inspect provides schema-driven access to arbitrary SQLite
// databases. Table and column names are only ever interpolated into SQL
// after a membership check against the schema read from sqlite_master;
// values are always bound as parameters. That membership check is the sole
// injection defense and every query path goes through it.
package inspect

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/boomhacked/BrowserHunter/internal/browser"
	"github.com/boomhacked/BrowserHunter/internal/evidence"
)

// Per-call failures. The introspector session stays usable after either.
var (
	ErrUnknownTable  = errors.New("unknown table")
	ErrUnknownColumn = errors.New("unknown column")
)

// Column describes one column of a table as declared in the schema.
type Column struct {
	Name         string
	DeclaredType string
	NotNull      bool
	Default      string
	PrimaryKey   bool
}

// ValueKind tags a Value with its SQLite storage class.
type ValueKind int

const (
	KindNull ValueKind = iota
	KindInteger
	KindFloat
	KindText
	KindBlob
)

// Value is one cell of a result row. Text carries the rendering for Text
// and Blob kinds; blobs are decoded as UTF-8 when valid and hex-escaped
// otherwise.
type Value struct {
	Kind  ValueKind
	Int   int64
	Float float64
	Text  string
}

// String renders the value for display.
func (v Value) String() string {
	switch v.Kind {
	case KindNull:
		return ""
	case KindInteger:
		return fmt.Sprintf("%d", v.Int)
	case KindFloat:
		return fmt.Sprintf("%g", v.Float)
	default:
		return v.Text
	}
}

// TableSummary pairs a table with its row and column counts.
type TableSummary struct {
	Name        string
	RowCount    int64
	ColumnCount int
	Columns     []string
}

// Summary describes a whole database.
type Summary struct {
	Path       string
	FileName   string
	Size       int64
	Hash       string
	Family     string
	TableCount int
	Tables     []TableSummary
}

// Introspector browses an arbitrary SQLite file through a read-only
// snapshot. It caches the table allow-list at construction.
type Introspector struct {
	snap    *evidence.Snapshot
	log     *zap.Logger
	family  string
	tables  []string
	allowed map[string]bool
}

// New acquires a snapshot of the file at path (any extension accepted) and
// reads its schema. The caller must Close the introspector.
func New(path string, log *zap.Logger) (*Introspector, error) {
	if log == nil {
		log = zap.NewNop()
	}
	snap, err := evidence.OpenRelaxed(path, log)
	if err != nil {
		return nil, err
	}

	in := &Introspector{snap: snap, log: log}
	if err := in.loadTables(); err != nil {
		snap.Close()
		return nil, err
	}
	in.family = in.detectFamily()
	log.Debug("database opened",
		zap.String("file", evidence.Redact(path)),
		zap.String("family", in.family),
		zap.Int("tables", len(in.tables)))
	return in, nil
}

// Close releases the snapshot and its temp copies.
func (in *Introspector) Close() error { return in.snap.Close() }

// Family returns the detected browser family label.
func (in *Introspector) Family() string { return in.family }

// Hash returns the SHA-256 digest of the source file.
func (in *Introspector) Hash() string { return in.snap.SourceHash }

func (in *Introspector) loadTables() error {
	rows, err := in.snap.DB().Query(`
		SELECT name FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name`)
	if err != nil {
		return fmt.Errorf("read schema: %w", err)
	}
	defer rows.Close()

	in.allowed = map[string]bool{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return fmt.Errorf("read schema: %w", err)
		}
		in.tables = append(in.tables, name)
		in.allowed[name] = true
	}
	return rows.Err()
}

// detectFamily infers the browser family, filename first, table shape as
// fallback. Unknown families remain fully browsable.
func (in *Introspector) detectFamily() string {
	name := strings.ToLower(filepath.Base(in.snap.SourcePath))
	parent := strings.ToLower(filepath.Dir(in.snap.SourcePath))

	if strings.Contains(name, "places.sqlite") {
		return "Firefox"
	}
	if strings.Contains(name, "history") {
		switch {
		case strings.Contains(parent, "chrome"):
			return "Chrome"
		case strings.Contains(parent, "edge"):
			return "Edge"
		}
	}

	if in.allowed["moz_places"] || in.allowed["moz_historyvisits"] {
		return "Firefox"
	}
	if in.allowed["urls"] && in.allowed["visits"] {
		return "Chrome"
	}
	return browser.FamilyUnknown
}

// checkTable enforces the allow-list before any identifier interpolation.
func (in *Introspector) checkTable(table string) error {
	if !in.allowed[table] {
		return fmt.Errorf("%w: %q", ErrUnknownTable, table)
	}
	return nil
}

// quoteIdent quotes an already-validated identifier so unusual table
// names (spaces, keywords) still parse.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// Tables returns the table names of the database in schema order.
func (in *Introspector) Tables() []string {
	out := make([]string, len(in.tables))
	copy(out, in.tables)
	return out
}

// Columns returns the declared columns of a table.
func (in *Introspector) Columns(table string) ([]Column, error) {
	if err := in.checkTable(table); err != nil {
		return nil, err
	}

	rows, err := in.snap.DB().Query(`PRAGMA table_info(` + quoteIdent(table) + `)`)
	if err != nil {
		return nil, fmt.Errorf("table info %s: %w", table, err)
	}
	defer rows.Close()

	var cols []Column
	for rows.Next() {
		var (
			cid, notNull, pk int
			name, declared   string
			dflt             sql.NullString
		)
		if err := rows.Scan(&cid, &name, &declared, &notNull, &dflt, &pk); err != nil {
			return nil, fmt.Errorf("table info %s: %w", table, err)
		}
		cols = append(cols, Column{
			Name:         name,
			DeclaredType: declared,
			NotNull:      notNull != 0,
			Default:      dflt.String,
			PrimaryKey:   pk != 0,
		})
	}
	return cols, rows.Err()
}

// ColumnNames returns just the column names of a table.
func (in *Introspector) ColumnNames(table string) ([]string, error) {
	cols, err := in.Columns(table)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	return names, nil
}

// Rows returns up to limit rows of a table starting at offset. limit <= 0
// means no limit; negative offsets are clamped to zero.
func (in *Introspector) Rows(table string, limit, offset int) ([]string, [][]Value, error) {
	if err := in.checkTable(table); err != nil {
		return nil, nil, err
	}
	names, err := in.ColumnNames(table)
	if err != nil {
		return nil, nil, err
	}

	query := `SELECT * FROM ` + quoteIdent(table)
	args := []interface{}{}
	if limit > 0 {
		if offset < 0 {
			offset = 0
		}
		query += ` LIMIT ? OFFSET ?`
		args = append(args, limit, offset)
	}

	values, err := in.scan(query, len(names), args...)
	if err != nil {
		return nil, nil, fmt.Errorf("read table %s: %w", table, err)
	}
	in.log.Debug("table read",
		zap.String("table", table), zap.Int("rows", len(values)))
	return names, values, nil
}

// RowCount returns the number of rows in a table.
func (in *Introspector) RowCount(table string) (int64, error) {
	if err := in.checkTable(table); err != nil {
		return 0, err
	}
	var n int64
	err := in.snap.DB().QueryRow(`SELECT COUNT(*) FROM ` + quoteIdent(table)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return n, nil
}

// Search returns the rows of a table where any of the given columns
// contains term as a substring. A nil or empty columns slice searches
// every column. The term is always a bound parameter.
func (in *Introspector) Search(table, term string, columns []string) ([]string, [][]Value, error) {
	if err := in.checkTable(table); err != nil {
		return nil, nil, err
	}
	names, err := in.ColumnNames(table)
	if err != nil {
		return nil, nil, err
	}

	if len(columns) == 0 {
		columns = names
	} else {
		known := map[string]bool{}
		for _, n := range names {
			known[n] = true
		}
		for _, c := range columns {
			if !known[c] {
				return nil, nil, fmt.Errorf("%w: %q in table %q", ErrUnknownColumn, c, table)
			}
		}
	}

	var clauses []string
	var args []interface{}
	for _, c := range columns {
		clauses = append(clauses, quoteIdent(c)+` LIKE ?`)
		args = append(args, "%"+term+"%")
	}

	query := `SELECT * FROM ` + quoteIdent(table) +
		` WHERE ` + strings.Join(clauses, " OR ")
	values, err := in.scan(query, len(names), args...)
	if err != nil {
		return nil, nil, fmt.Errorf("search table %s: %w", table, err)
	}
	return names, values, nil
}

// Summary collects file metadata plus per-table row and column counts.
func (in *Introspector) Summary() (*Summary, error) {
	s := &Summary{
		Path:       in.snap.SourcePath,
		FileName:   evidence.Redact(in.snap.SourcePath),
		Size:       in.snap.SourceSize,
		Hash:       in.snap.SourceHash,
		Family:     in.family,
		TableCount: len(in.tables),
	}
	for _, table := range in.tables {
		count, err := in.RowCount(table)
		if err != nil {
			return nil, err
		}
		names, err := in.ColumnNames(table)
		if err != nil {
			return nil, err
		}
		s.Tables = append(s.Tables, TableSummary{
			Name:        table,
			RowCount:    count,
			ColumnCount: len(names),
			Columns:     names,
		})
	}
	return s, nil
}

// scan runs a query and converts each row into tagged Values.
func (in *Introspector) scan(query string, width int, args ...interface{}) ([][]Value, error) {
	rows, err := in.snap.DB().Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out [][]Value
	raw := make([]interface{}, width)
	ptrs := make([]interface{}, width)
	for i := range raw {
		ptrs[i] = &raw[i]
	}

	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make([]Value, width)
		for i, cell := range raw {
			row[i] = convert(cell)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// convert maps a driver value to a tagged Value.
func convert(cell interface{}) Value {
	switch v := cell.(type) {
	case nil:
		return Value{Kind: KindNull}
	case int64:
		return Value{Kind: KindInteger, Int: v}
	case float64:
		return Value{Kind: KindFloat, Float: v}
	case string:
		return Value{Kind: KindText, Text: v}
	case []byte:
		if utf8.Valid(v) {
			return Value{Kind: KindBlob, Text: string(v)}
		}
		return Value{Kind: KindBlob, Text: fmt.Sprintf("%x", v)}
	default:
		return Value{Kind: KindText, Text: fmt.Sprintf("%v", v)}
	}
}
