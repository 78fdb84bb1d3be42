package trace

import (
	"fmt"
	"io"
	"strings"

	"github.com/valyala/fasttemplate"
)

const (
	templateStartTag = "{{"
	templateEndTag   = "}}"
)

// Formatter turns a format and its arguments into the finished message.
type Formatter interface {
	Format(format string, args []any) string
}

// PrintfFormatter formats with fmt.Sprintf verbs.
type PrintfFormatter struct{}

// Format implements Formatter.
func (PrintfFormatter) Format(format string, args []any) string {
	return fmt.Sprintf(format, args...)
}

// ExpandTemplate replaces {{tag}} placeholders in tmpl with values[tag].
// Surrounding spaces inside the braces are ignored. Tags without a value are
// left in place, and so is a template with an unterminated tag.
func ExpandTemplate(tmpl string, values map[string]any) string {
	if !strings.Contains(tmpl, templateStartTag) {
		return tmpl
	}

	var sb strings.Builder
	_, err := fasttemplate.ExecuteFunc(tmpl, templateStartTag, templateEndTag, &sb, func(w io.Writer, tag string) (int, error) {
		v, ok := values[strings.TrimSpace(tag)]
		if !ok {
			return io.WriteString(w, templateStartTag+tag+templateEndTag)
		}
		if s, ok := v.(string); ok {
			return io.WriteString(w, s)
		}
		return fmt.Fprint(w, v)
	})
	if err != nil {
		// unterminated tag
		return tmpl
	}
	return sb.String()
}
