package cli

import (
	"fmt"
	"strings"

	"github.com/boomhacked/BrowserHunter/internal/inspect"
)

// Execute implements the go-flags Commander interface for InspectCommand.
func (c *InspectCommand) Execute(args []string) error {
	cfg, err := loadConfig(c.globals)
	if err != nil {
		return err
	}
	log := newLogger(c.globals, cfg)
	defer log.Sync()

	in, err := inspect.New(c.Args.File, log)
	if err != nil {
		return err
	}
	defer in.Close()

	switch {
	case c.Table != "" && c.Term != "":
		return c.printSearch(in)
	case c.Table != "":
		return c.printRows(in)
	default:
		return c.printSummary(in)
	}
}

type inspectSummaryJSON struct {
	File   string             `json:"file"`
	Hash   string             `json:"sha256"`
	Family string             `json:"family"`
	Tables []inspectTableJSON `json:"tables"`
}

type inspectTableJSON struct {
	Name    string   `json:"name"`
	Rows    int64    `json:"rows"`
	Columns []string `json:"columns"`
}

func (c *InspectCommand) printSummary(in *inspect.Introspector) error {
	summary, err := in.Summary()
	if err != nil {
		return err
	}

	if c.globals != nil && c.globals.JSON {
		out := inspectSummaryJSON{
			File:   c.Args.File,
			Hash:   in.Hash(),
			Family: summary.Family,
		}
		for _, t := range summary.Tables {
			out.Tables = append(out.Tables, inspectTableJSON{Name: t.Name, Rows: t.RowCount, Columns: t.Columns})
		}
		return printJSON(out)
	}

	fmt.Printf("File:    %s\n", c.Args.File)
	fmt.Printf("SHA-256: %s\n", in.Hash())
	fmt.Printf("Family:  %s\n", summary.Family)
	fmt.Println()
	for _, t := range summary.Tables {
		fmt.Printf("%-28s %8d rows\n", t.Name, t.RowCount)
		fmt.Printf("  %s\n", strings.Join(t.Columns, ", "))
	}
	return nil
}

type inspectRowsJSON struct {
	Table   string     `json:"table"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

func (c *InspectCommand) printRows(in *inspect.Introspector) error {
	cols, rows, err := in.Rows(c.Table, c.Limit, c.Offset)
	if err != nil {
		return err
	}
	return c.renderRows(cols, rows)
}

func (c *InspectCommand) printSearch(in *inspect.Introspector) error {
	cols, rows, err := in.Search(c.Table, c.Term, c.Columns)
	if err != nil {
		return err
	}
	return c.renderRows(cols, rows)
}

func (c *InspectCommand) renderRows(cols []string, rows [][]inspect.Value) error {
	rendered := make([][]string, len(rows))
	for i, row := range rows {
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = v.String()
		}
		rendered[i] = cells
	}

	if c.globals != nil && c.globals.JSON {
		return printJSON(inspectRowsJSON{Table: c.Table, Columns: cols, Rows: rendered})
	}

	fmt.Println(strings.Join(cols, " | "))
	for _, cells := range rendered {
		fmt.Println(strings.Join(cells, " | "))
	}
	fmt.Printf("\n%d rows\n", len(rendered))
	return nil
}
