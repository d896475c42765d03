package application

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrTemplateField is returned when a URL template references a placeholder
// that the match cannot fill.
var ErrTemplateField = errors.New("unknown url template field")

// formatTemplate substitutes {}, {N} and {name} placeholders. {{ and }}
// produce literal braces. Any format spec or conversion after ':' or '!'
// inside a placeholder is ignored.
func formatTemplate(template string, args []string, kwargs map[string]string) (string, error) {
	var b strings.Builder
	b.Grow(len(template))

	next := 0
	for i := 0; i < len(template); i++ {
		ch := template[i]
		switch ch {
		case '{':
			if i+1 < len(template) && template[i+1] == '{' {
				b.WriteByte('{')
				i++
				continue
			}

			end := strings.IndexByte(template[i+1:], '}')
			if end < 0 {
				return "", fmt.Errorf("unmatched '{' in url template %q", template)
			}

			field := template[i+1 : i+1+end]
			value, err := lookupField(field, &next, args, kwargs)
			if err != nil {
				return "", err
			}

			b.WriteString(value)
			i += end + 1
		case '}':
			if i+1 < len(template) && template[i+1] == '}' {
				b.WriteByte('}')
				i++
				continue
			}
			return "", fmt.Errorf("single '}' in url template %q", template)
		default:
			b.WriteByte(ch)
		}
	}

	return b.String(), nil
}

// lookupField resolves one placeholder. An empty field takes the next
// positional argument.
func lookupField(field string, next *int, args []string, kwargs map[string]string) (string, error) {
	if i := strings.IndexAny(field, ":!"); i >= 0 {
		field = field[:i]
	}

	if field == "" {
		idx := *next
		*next++
		if idx >= len(args) {
			return "", fmt.Errorf("positional field %d: %w", idx, ErrTemplateField)
		}
		return args[idx], nil
	}

	if idx, err := strconv.Atoi(field); err == nil {
		if idx < 0 || idx >= len(args) {
			return "", fmt.Errorf("positional field %d: %w", idx, ErrTemplateField)
		}
		return args[idx], nil
	}

	value, ok := kwargs[field]
	if !ok {
		return "", fmt.Errorf("named field %q: %w", field, ErrTemplateField)
	}
	return value, nil
}
