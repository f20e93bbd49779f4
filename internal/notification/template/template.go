// Package template renders notification text from named, versioned templates.
//
// Placeholders use the {{name}} syntax; whitespace inside the braces is ignored. A placeholder
// without a binding is left in the output exactly as written, so a missing variable shows up
// in the delivered message instead of failing the whole notification.
package template

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/valyala/fasttemplate"
)

const (
	startTag = "{{"
	endTag   = "}}"
)

// Vars binds placeholder names to values. Strings are inserted verbatim; integers and floats
// are formatted in their shortest decimal form.
type Vars map[string]any

// Render substitutes every bound placeholder in text in a single pass. Substituted values are
// never re-scanned for placeholders.
func Render(text string, vars Vars) string {
	return fasttemplate.ExecuteFuncString(text, startTag, endTag, func(w io.Writer, tag string) (int, error) {
		value, ok := vars[strings.TrimSpace(tag)]
		if !ok {
			return io.WriteString(w, startTag+tag+endTag)
		}
		return io.WriteString(w, formatValue(value))
	})
}

func formatValue(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint:
		return strconv.FormatUint(uint64(v), 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}
