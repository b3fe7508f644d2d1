package datatree

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

const jsonIndent = "  "

// RenderJSON writes n as an indented JSON document terminated by a newline.
// Map order is preserved. Non-ASCII text and HTML characters are written
// as-is. Non-finite floats become null.
func RenderJSON(n Node) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, n, 0); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func writeJSON(buf *bytes.Buffer, n Node, depth int) error {
	switch n.kind {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		buf.WriteString(strconv.FormatBool(n.b))
	case KindInt:
		buf.WriteString(strconv.FormatInt(n.i, 10))
	case KindFloat:
		buf.WriteString(jsonFloat(n.f))
	case KindString:
		s, err := jsonString(n.s)
		if err != nil {
			return err
		}
		buf.WriteString(s)
	case KindList:
		if len(n.items) == 0 {
			buf.WriteString("[]")
			return nil
		}
		buf.WriteString("[\n")
		for i, it := range n.items {
			buf.WriteString(strings.Repeat(jsonIndent, depth+1))
			if err := writeJSON(buf, it, depth+1); err != nil {
				return err
			}
			if i < len(n.items)-1 {
				buf.WriteByte(',')
			}
			buf.WriteByte('\n')
		}
		buf.WriteString(strings.Repeat(jsonIndent, depth))
		buf.WriteByte(']')
	case KindMap:
		if len(n.fields) == 0 {
			buf.WriteString("{}")
			return nil
		}
		buf.WriteString("{\n")
		for i, f := range n.fields {
			buf.WriteString(strings.Repeat(jsonIndent, depth+1))
			key, err := jsonString(f.Key)
			if err != nil {
				return err
			}
			buf.WriteString(key)
			buf.WriteString(": ")
			if err := writeJSON(buf, f.Value, depth+1); err != nil {
				return err
			}
			if i < len(n.fields)-1 {
				buf.WriteByte(',')
			}
			buf.WriteByte('\n')
		}
		buf.WriteString(strings.Repeat(jsonIndent, depth))
		buf.WriteByte('}')
	}
	return nil
}

func jsonFloat(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "null"
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}

func jsonString(s string) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
