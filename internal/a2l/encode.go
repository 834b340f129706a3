package a2l

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// Write renders the document as A2L text. Output depends only on the content
// of f, so writing a reloaded copy reproduces it byte for byte.
func (f *File) Write() string {
	w := &writer{}
	w.keywords(reflect.ValueOf(f).Elem(), 0)
	return w.b.String()
}

type writer struct {
	b strings.Builder
}

func (w *writer) line(depth int, s string) {
	for i := 0; i < depth; i++ {
		w.b.WriteString("  ")
	}
	w.b.WriteString(s)
	w.b.WriteByte('\n')
}

func (w *writer) keywords(v reflect.Value, depth int) {
	for _, fi := range infoOf(v.Type()).keywords {
		fv := v.Field(fi.index)
		switch fv.Kind() {
		case reflect.Bool:
			if fv.Bool() {
				w.line(depth, fi.keyword)
			}
		case reflect.Slice:
			for i := 0; i < fv.Len(); i++ {
				w.element(fv.Index(i).Elem(), fi, depth)
			}
		case reflect.Pointer:
			if !fv.IsNil() {
				w.element(fv.Elem(), fi, depth)
			}
		default:
			w.element(fv, fi, depth)
		}
	}
}

func (w *writer) element(v reflect.Value, fi *fieldInfo, depth int) {
	switch {
	case fi.raw:
		head := "/begin " + fi.keyword
		if text := v.Addr().Interface().(rawHolder).rawText(); text != "" {
			head += " " + text
		}
		w.line(depth, head)
		w.line(depth, "/end "+fi.keyword)
	case fi.block:
		args, rows := arguments(v, fi, true)
		w.line(depth, joinArgs("/begin "+fi.keyword, args))
		for _, row := range rows {
			w.line(depth+1, row)
		}
		if v.Kind() == reflect.Struct {
			w.keywords(v, depth+1)
		}
		w.line(depth, "/end "+fi.keyword)
	default:
		args, _ := arguments(v, fi, false)
		w.line(depth, joinArgs(fi.keyword, args))
	}
}

// arguments renders the positional values of v. Inside a block, elements of
// a variadic struct list and everything after it become rows of their own.
func arguments(v reflect.Value, fi *fieldInfo, block bool) (args, rows []string) {
	if v.Kind() != reflect.Struct {
		return []string{formatScalar(v, fi)}, nil
	}
	for _, pf := range infoOf(v.Type()).positional {
		fv := v.Field(pf.index)
		var vals []string
		if fv.Kind() != reflect.Slice {
			vals = []string{formatScalar(fv, pf)}
		} else {
			for i := 0; i < fv.Len(); i++ {
				ev := fv.Index(i)
				if ev.Kind() != reflect.Pointer {
					vals = append(vals, formatScalar(ev, pf))
					continue
				}
				sub, _ := arguments(ev.Elem(), pf, false)
				if block {
					rows = append(rows, strings.Join(sub, " "))
				} else {
					args = append(args, sub...)
				}
			}
		}
		if block && len(rows) > 0 {
			rows = append(rows, vals...)
		} else {
			args = append(args, vals...)
		}
	}
	return args, rows
}

func joinArgs(head string, args []string) string {
	if len(args) == 0 || (len(args) == 1 && args[0] == "") {
		return head
	}
	return head + " " + strings.Join(args, " ")
}

func formatScalar(v reflect.Value, fi *fieldInfo) string {
	switch v.Kind() {
	case reflect.String:
		s := v.String()
		if fi.quoted || (!isEnum(v.Type()) && !isIdent(s)) {
			return quote(s)
		}
		return s
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if fi.hex {
			return fmt.Sprintf("0x%X", v.Uint())
		}
		return strconv.FormatUint(v.Uint(), 10)
	case reflect.Float32, reflect.Float64:
		return FormatFloat(v.Float())
	case reflect.Bool:
		return strconv.FormatBool(v.Bool())
	}
	return ""
}

// FormatFloat renders integral values without exponent or fraction and
// everything else in the shortest form that parses back to the same value.
func FormatFloat(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func isIdent(s string) bool {
	if s == "" || !isIdentStart(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !isIdentChar(s[i]) {
			return false
		}
	}
	return true
}

var quoter = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\t", `\t`, "\r", `\r`)

func quote(s string) string {
	return `"` + quoter.Replace(s) + `"`
}

// Inline renders a value on a single line the way it follows its keyword.
// Nested optional parts are prefixed with their keyword. Nil renders as "".
func Inline(v any) string {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return ""
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return ""
	}
	if rv.Kind() == reflect.String {
		return rv.String()
	}
	return inline(rv, &fieldInfo{})
}

func inline(v reflect.Value, fi *fieldInfo) string {
	if v.Kind() != reflect.Struct {
		return formatScalar(v, fi)
	}
	parts, _ := arguments(v, fi, false)
	for _, kf := range infoOf(v.Type()).keywords {
		fv := v.Field(kf.index)
		switch fv.Kind() {
		case reflect.Bool:
			if fv.Bool() {
				parts = append(parts, kf.keyword)
			}
		case reflect.Slice:
			for i := 0; i < fv.Len(); i++ {
				parts = append(parts, joinArgs(kf.keyword, []string{inline(fv.Index(i).Elem(), kf)}))
			}
		case reflect.Pointer:
			if !fv.IsNil() {
				parts = append(parts, joinArgs(kf.keyword, []string{inline(fv.Elem(), kf)}))
			}
		}
	}
	return strings.Join(parts, " ")
}
