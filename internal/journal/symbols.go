package journal

import (
	"bufio"
	"fmt"
	"os"
)

// symbolTable is the in-memory dictionary for a dictionary-encoded column:
// one distinct string per line of the column's ".symbols" side file, with
// the line number (0-based) as the encoded id stored in the column's data
// file.
type symbolTable struct {
	values []string
}

func loadSymbolTable(path string) (*symbolTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var st symbolTable
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		st.values = append(st.values, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan symbol table %s: %w", path, err)
	}
	return &st, nil
}

func (st *symbolTable) lookup(id int) (string, bool) {
	if id < 0 || id >= len(st.values) {
		return "", false
	}
	return st.values[id], true
}
