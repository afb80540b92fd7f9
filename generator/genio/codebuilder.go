package genio

import (
	"bufio"
	"fmt"
	"strings"

	"golang.org/x/tools/imports"
)

// CodeBuilder is a wrapper around [strings.Builder] that simplifies
// building Go code.
//
// The zero value is safely ready to use.
type CodeBuilder struct {
	// Indent is the indentation level (indentation is tabs).
	Indent int

	b strings.Builder
}

// Write appends a raw string to the internal [strings.Builder].
func (w *CodeBuilder) Write(s string) {
	w.b.WriteString(s)
}

// Append writes the given string line by line with correct indentation.
func (w *CodeBuilder) Append(s string) {
	sc := bufio.NewScanner(strings.NewReader(s))
	for sc.Scan() {
		w.Linef("%v", sc.Text())
	}
}

// Linef writes a single line, prepended by the current indentation.
//
// Takes format and args like [fmt.Printf].
func (w *CodeBuilder) Linef(format string, args ...any) {
	if format == "" {
		w.b.WriteString("\n")
		return
	}
	for i := 0; i < w.Indent; i++ {
		w.b.WriteString("\t")
	}
	w.b.WriteString(fmt.Sprintf(format, args...))
	w.b.WriteString("\n")
}

// Block writes "header {", runs body one indentation level deeper and
// closes the brace.
func (w *CodeBuilder) Block(header string, body func()) {
	w.Linef("%v {", header)
	w.Indent++
	body()
	w.Indent--
	w.Linef("}")
}

// String returns the current code without applying any formatting.
func (w *CodeBuilder) String() string {
	return w.b.String()
}

// FmtString attempts to format the current code as Go source code,
// sorting and grouping the imports.
func (w *CodeBuilder) FmtString() (string, error) {
	code, err := imports.Process("", []byte(w.String()), &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: true,
	})
	if err != nil {
		return "", err
	}
	return string(code), nil
}

func (w *CodeBuilder) Reset() {
	w.Indent = 0
	w.b.Reset()
}
