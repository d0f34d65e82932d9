// Package classtable loads the class-code lookup used for reporting: an
// integer pixel value mapped to a human-readable label and category.
package classtable

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// Class is one row of the lookup.
type Class struct {
	Code     int32
	Label    string
	Category string
}

// Table maps class codes to labels. Reporting only; tiling never consults it.
type Table struct {
	classes map[int32]Class
}

// Load parses a CSV with a `code,label,category` header. Unknown extra
// columns are ignored; a missing category column is allowed.
func Load(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, eris.Wrap(err, "classtable: read header")
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	codeIdx, ok := col["code"]
	if !ok {
		return nil, eris.New("classtable: missing code column")
	}
	labelIdx, ok := col["label"]
	if !ok {
		return nil, eris.New("classtable: missing label column")
	}
	catIdx, hasCat := col["category"]

	t := &Table{classes: make(map[int32]Class)}
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrapf(err, "classtable: line %d", line)
		}
		if codeIdx >= len(record) || labelIdx >= len(record) {
			continue
		}
		code, err := strconv.ParseInt(strings.TrimSpace(record[codeIdx]), 10, 32)
		if err != nil {
			return nil, eris.Wrapf(err, "classtable: line %d: bad code %q", line, record[codeIdx])
		}
		c := Class{
			Code:  int32(code),
			Label: strings.TrimSpace(record[labelIdx]),
		}
		if hasCat && catIdx < len(record) {
			c.Category = strings.TrimSpace(record[catIdx])
		}
		t.classes[c.Code] = c
	}
	return t, nil
}

// LoadFile opens and parses a class table CSV.
func LoadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "classtable: open %s", path)
	}
	defer f.Close()
	return Load(f)
}

// Len returns the number of classes.
func (t *Table) Len() int {
	return len(t.classes)
}

// Lookup returns the class for a code.
func (t *Table) Lookup(code int32) (Class, bool) {
	c, ok := t.classes[code]
	return c, ok
}

// Label returns the label for a code, or "class <code>" when unknown.
func (t *Table) Label(code int32) string {
	if c, ok := t.classes[code]; ok {
		return c.Label
	}
	return fmt.Sprintf("class %d", code)
}
