package datatree

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

var luauReserved = map[string]bool{
	"and": true, "break": true, "continue": true, "do": true, "else": true,
	"elseif": true, "end": true, "export": true, "false": true, "for": true,
	"function": true, "if": true, "in": true, "local": true, "nil": true,
	"not": true, "or": true, "repeat": true, "return": true, "then": true,
	"true": true, "type": true, "until": true, "while": true,
}

var luauEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\r", `\r`,
)

// LuauOptions controls how RenderLuau lays out a module.
type LuauOptions struct {
	// SortRootKeys orders the top-level map by key.
	SortRootKeys bool
	// OmitEmpty drops map entries whose value is null, an empty list or an
	// empty map.
	OmitEmpty bool
}

// RenderLuau writes n as a Luau module returning a literal table.
func RenderLuau(n Node, opts LuauOptions) []byte {
	if opts.SortRootKeys {
		n = n.SortedKeys()
	}
	var sb strings.Builder
	sb.WriteString("return ")
	writeLuau(&sb, n, 0, opts)
	sb.WriteByte('\n')
	return []byte(sb.String())
}

// LuauString quotes s as a Luau string literal.
func LuauString(s string) string {
	return `"` + luauEscaper.Replace(s) + `"`
}

// LuauNumber formats f the way the literal-table documents expect: whole
// values lose their fractional part, others keep at most two decimals.
func LuauNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "0/0"
	case math.IsInf(f, 1):
		return "math.huge"
	case math.IsInf(f, -1):
		return "-math.huge"
	}
	if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		return strconv.FormatInt(int64(f), 10)
	}
	s := strconv.FormatFloat(f, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" {
		return "0"
	}
	return s
}

// LuauKey renders a table key, bracketing it when it is not a plain identifier.
func LuauKey(key string) string {
	if identPattern.MatchString(key) && !luauReserved[key] {
		return key
	}
	return "[" + LuauString(key) + "]"
}

func writeLuau(sb *strings.Builder, n Node, indent int, opts LuauOptions) {
	switch n.kind {
	case KindNull:
		sb.WriteString("nil")
	case KindBool:
		sb.WriteString(strconv.FormatBool(n.b))
	case KindInt:
		sb.WriteString(strconv.FormatInt(n.i, 10))
	case KindFloat:
		sb.WriteString(LuauNumber(n.f))
	case KindString:
		sb.WriteString(LuauString(n.s))
	case KindList:
		writeLuauList(sb, n, indent, opts)
	case KindMap:
		writeLuauMap(sb, n, indent, opts)
	}
}

func writeLuauList(sb *strings.Builder, n Node, indent int, opts LuauOptions) {
	if len(n.items) == 0 {
		sb.WriteString("{}")
		return
	}
	if !n.hasContainer() {
		sb.WriteString("{ ")
		for i, it := range n.items {
			if i > 0 {
				sb.WriteString(", ")
			}
			writeLuau(sb, it, indent, opts)
		}
		sb.WriteString(" }")
		return
	}
	inner := strings.Repeat("\t", indent+1)
	sb.WriteString("{\n")
	for _, it := range n.items {
		sb.WriteString(inner)
		writeLuau(sb, it, indent+1, opts)
		sb.WriteString(",\n")
	}
	sb.WriteString(strings.Repeat("\t", indent))
	sb.WriteByte('}')
}

func writeLuauMap(sb *strings.Builder, n Node, indent int, opts LuauOptions) {
	fields := n.fields
	if opts.OmitEmpty {
		fields = make([]Field, 0, len(n.fields))
		for _, f := range n.fields {
			if !sparseEmpty(f.Value) {
				fields = append(fields, f)
			}
		}
	}
	if len(fields) == 0 {
		sb.WriteString("{}")
		return
	}
	inner := strings.Repeat("\t", indent+1)
	sb.WriteString("{\n")
	for _, f := range fields {
		sb.WriteString(inner)
		sb.WriteString(LuauKey(f.Key))
		sb.WriteString(" = ")
		writeLuau(sb, f.Value, indent+1, opts)
		sb.WriteString(",\n")
	}
	sb.WriteString(strings.Repeat("\t", indent))
	sb.WriteByte('}')
}

// sparseEmpty reports whether n renders as nothing once empty entries are
// dropped, so a map holding only empty values is itself omitted.
func sparseEmpty(n Node) bool {
	if n.kind != KindMap {
		return n.IsEmpty()
	}
	for _, f := range n.fields {
		if !sparseEmpty(f.Value) {
			return false
		}
	}
	return true
}
