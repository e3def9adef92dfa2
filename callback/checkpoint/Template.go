package checkpoint

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"github.com/samuelfneumann/gotrain/callback"
)

// ErrInvalidTemplate is returned when a filename template cannot be
// parsed
var ErrInvalidTemplate = errors.New("invalid filename template")

// formatSpec matches the supported subset of format specifications:
// an optional sign, zero padding, width, precision, and type.
var formatSpec = regexp.MustCompile(`^([+ ]?)(0?)([0-9]*)(?:\.([0-9]+))?([dfeEgGs]?)$`)

// positional matches a field of the form 0[key], which looks up key
// in the first (and only) argument to the template
var positional = regexp.MustCompile(`^0\[([^\]]+)\]$`)

// field is a single replacement field of a Template
type field struct {
	literal string // Text preceding the field
	key     string // Metric to substitute, empty for trailing text
	verb    string // fmt verb to format the metric with
	integer bool   // Whether to truncate the metric to an integer
}

// Template is a filename template with replacement fields that are
// substituted with metric values. Fields are written {key} or
// {key:spec}, where spec is a format specification such as 03d or .4f.
// Fields may also be written {0[key]}. Literal braces are written {{
// and }}.
type Template struct {
	text   string
	fields []field
}

// ParseTemplate parses a filename template
func ParseTemplate(text string) (*Template, error) {
	t := &Template{text: text}

	var literal strings.Builder
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case c == '{' && i+1 < len(text) && text[i+1] == '{':
			literal.WriteByte('{')
			i++

		case c == '}' && i+1 < len(text) && text[i+1] == '}':
			literal.WriteByte('}')
			i++

		case c == '}':
			return nil, errors.Wrapf(ErrInvalidTemplate,
				"parsetemplate: unmatched '}' at %d in %q", i, text)

		case c == '{':
			end := strings.IndexByte(text[i:], '}')
			if end < 0 {
				return nil, errors.Wrapf(ErrInvalidTemplate,
					"parsetemplate: unmatched '{' at %d in %q", i, text)
			}

			f, err := parseField(text[i+1 : i+end])
			if err != nil {
				return nil, errors.Wrapf(err, "parsetemplate: %q", text)
			}
			f.literal = literal.String()
			literal.Reset()
			t.fields = append(t.fields, f)
			i += end

		default:
			literal.WriteByte(c)
		}
	}
	t.fields = append(t.fields, field{literal: literal.String()})

	return t, nil
}

// parseField parses the contents of a replacement field, without its
// enclosing braces
func parseField(s string) (field, error) {
	key, spec := s, ""
	if i := strings.IndexByte(s, ':'); i >= 0 {
		key, spec = s[:i], s[i+1:]
	}

	if m := positional.FindStringSubmatch(key); m != nil {
		key = m[1]
	}
	if key == "" {
		return field{}, errors.Wrapf(ErrInvalidTemplate,
			"parsefield: empty field name in {%v}", s)
	}

	m := formatSpec.FindStringSubmatch(spec)
	if m == nil {
		return field{}, errors.Wrapf(ErrInvalidTemplate,
			"parsefield: unsupported format specification %q", spec)
	}
	sign, zero, width, precision, typ := m[1], m[2], m[3], m[4], m[5]

	f := field{key: key}
	verb := "%" + sign + zero + width
	switch typ {
	case "d":
		if precision != "" {
			return field{}, errors.Wrapf(ErrInvalidTemplate,
				"parsefield: precision not allowed with integer format %q",
				spec)
		}
		f.integer = true
		verb += "d"

	case "", "s":
		if precision != "" {
			verb += "." + precision + "g"
		} else {
			verb += "v"
		}

	default:
		if precision != "" {
			verb += "." + precision
		}
		verb += typ
	}
	f.verb = verb

	return f, nil
}

// String returns the unparsed template
func (t *Template) String() string {
	return t.text
}

// Keys returns the metrics referenced by the template, in order
func (t *Template) Keys() []string {
	keys := make([]string, 0, len(t.fields))
	for _, f := range t.fields {
		if f.key != "" {
			keys = append(keys, f.key)
		}
	}
	return keys
}

// Format substitutes the values in metrics into the template. An error
// wrapping callback.ErrMissingMetric is returned if the template
// references a metric not in metrics.
func (t *Template) Format(metrics map[string]float64) (string, error) {
	var out strings.Builder
	for _, f := range t.fields {
		out.WriteString(f.literal)
		if f.key == "" {
			continue
		}

		v, err := callback.Lookup(metrics, f.key)
		if err != nil {
			return "", errors.Wrapf(err, "format: %q", t.text)
		}

		if f.integer {
			fmt.Fprintf(&out, f.verb, int64(v))
		} else {
			fmt.Fprintf(&out, f.verb, v)
		}
	}
	return out.String(), nil
}
