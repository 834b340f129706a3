package a2l

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Warning reports input that was skipped while loading.
type Warning struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

func (w Warning) String() string {
	return fmt.Sprintf("line %d: %s", w.Line, w.Message)
}

// Load parses A2L text into a File. Unknown keywords and blocks are skipped
// and reported as warnings; structural problems fail with a *ParseError.
func Load(text string) (*File, []Warning, error) {
	toks, err := lex(text)
	if err != nil {
		return nil, nil, err
	}
	d := &decoder{src: text, toks: toks}
	f := &File{}
	if err := d.keywords(reflect.ValueOf(f).Elem(), ""); err != nil {
		return nil, nil, err
	}
	return f, d.warnings, nil
}

type decoder struct {
	src      string
	toks     []token
	pos      int
	warnings []Warning
	ifData   []*IfData
}

func (d *decoder) peek() token { return d.toks[d.pos] }

func (d *decoder) next() token {
	t := d.toks[d.pos]
	if t.kind != tokEOF {
		d.pos++
	}
	return t
}

func (d *decoder) errorf(t token, format string, args ...any) error {
	return &ParseError{Line: t.line, Msg: fmt.Sprintf(format, args...)}
}

func (d *decoder) warnf(t token, format string, args ...any) {
	d.warnings = append(d.warnings, Warning{Line: t.line, Message: fmt.Sprintf(format, args...)})
}

// keywords decodes the optional section of v until /end closing, or until
// the end of input when closing is empty.
func (d *decoder) keywords(v reflect.Value, closing string) error {
	info := infoOf(v.Type())
	seen := make(map[string]bool)
	for {
		t := d.peek()
		switch t.kind {
		case tokEOF:
			if closing != "" {
				return d.errorf(t, "missing /end %s", closing)
			}
			return d.finish(v, info, seen, t)
		case tokEnd:
			if closing == "" {
				return d.errorf(t, "unexpected /end")
			}
			d.next()
			if name := d.next(); name.kind != tokIdent || name.text != closing {
				return d.errorf(name, "expected /end %s, found /end %s", closing, name.text)
			}
			return d.finish(v, info, seen, t)
		case tokBegin:
			d.next()
			name := d.next()
			if name.kind != tokIdent {
				return d.errorf(name, "expected block name after /begin, found %s", name.kind)
			}
			fi := info.byKeyword[name.text]
			if fi == nil || !fi.block {
				d.warnf(name, "unknown block %s skipped", name.text)
				if err := d.skipBlock(name.text); err != nil {
					return err
				}
				continue
			}
			seen[fi.keyword] = true
			if err := d.keyword(v.Field(fi.index), fi, info.byKeyword, name); err != nil {
				return err
			}
		case tokIdent:
			d.next()
			fi := info.byKeyword[t.text]
			if fi == nil || fi.block {
				d.warnf(t, "unknown keyword %s skipped", t.text)
				d.skipArgs(info.byKeyword)
				continue
			}
			seen[fi.keyword] = true
			if err := d.keyword(v.Field(fi.index), fi, info.byKeyword, t); err != nil {
				return err
			}
		default:
			d.next()
			d.warnf(t, "unexpected %s %q skipped", t.kind, t.text)
		}
	}
}

func (d *decoder) finish(v reflect.Value, info *structInfo, seen map[string]bool, at token) error {
	for _, kf := range info.keywords {
		if v.Field(kf.index).Kind() == reflect.Struct && !seen[kf.keyword] {
			return d.errorf(at, "missing %s", kf.keyword)
		}
	}
	if m, ok := v.Addr().Interface().(*Module); ok {
		d.resolveIfData(m)
	}
	return nil
}

func (d *decoder) keyword(fv reflect.Value, fi *fieldInfo, outer map[string]*fieldInfo, at token) error {
	switch fv.Kind() {
	case reflect.Bool:
		fv.SetBool(true)
		return nil
	case reflect.Slice:
		elem := reflect.New(fv.Type().Elem().Elem())
		if err := d.value(elem.Elem(), fi, outer); err != nil {
			return err
		}
		fv.Set(reflect.Append(fv, elem))
		return nil
	case reflect.Pointer:
		if !fv.IsNil() {
			d.warnf(at, "duplicate %s, keeping the last", fi.keyword)
		}
		elem := reflect.New(fv.Type().Elem())
		if err := d.value(elem.Elem(), fi, outer); err != nil {
			return err
		}
		fv.Set(elem)
		return nil
	default:
		return d.value(fv, fi, outer)
	}
}

func (d *decoder) value(v reflect.Value, fi *fieldInfo, outer map[string]*fieldInfo) error {
	if fi.raw {
		text, err := d.captureRaw(fi.keyword)
		if err != nil {
			return err
		}
		v.Addr().Interface().(rawHolder).setRawText(text)
		if blk, ok := v.Addr().Interface().(*IfData); ok {
			d.ifData = append(d.ifData, blk)
		}
		return nil
	}
	if v.Kind() == reflect.Struct {
		return d.body(v, fi, outer)
	}
	if err := d.scalar(v, fi); err != nil {
		return err
	}
	if fi.block {
		return d.expectEnd(fi.keyword)
	}
	return nil
}

func (d *decoder) expectEnd(kw string) error {
	t := d.next()
	if t.kind != tokEnd {
		return d.errorf(t, "expected /end %s, found %s %q", kw, t.kind, t.text)
	}
	if name := d.next(); name.text != kw {
		return d.errorf(name, "expected /end %s, found /end %s", kw, name.text)
	}
	return nil
}

// body decodes the positional fields of v and, for blocks, the keyword
// section up to the closing /end. Variadic arguments of a plain keyword end
// at the keywords of the enclosing block.
func (d *decoder) body(v reflect.Value, fi *fieldInfo, outer map[string]*fieldInfo) error {
	info := infoOf(v.Type())
	stop := outer
	if fi.block {
		stop = info.byKeyword
	}
	for _, pf := range info.positional {
		if err := d.positional(v.Field(pf.index), pf, stop); err != nil {
			return err
		}
	}
	if !fi.block {
		return nil
	}
	return d.keywords(v, fi.keyword)
}

func (d *decoder) positional(fv reflect.Value, pf *fieldInfo, stop map[string]*fieldInfo) error {
	if fv.Kind() != reflect.Slice {
		return d.scalar(fv, pf)
	}
	et := fv.Type().Elem()
	for d.startsValue(et, stop) {
		ev := reflect.New(et).Elem()
		if et.Kind() == reflect.Pointer {
			ev.Set(reflect.New(et.Elem()))
			if err := d.body(ev.Elem(), &fieldInfo{}, stop); err != nil {
				return err
			}
		} else if err := d.scalar(ev, pf); err != nil {
			return err
		}
		fv.Set(reflect.Append(fv, ev))
	}
	return nil
}

// startsValue reports whether the next token can begin a value of type t.
func (d *decoder) startsValue(t reflect.Type, stop map[string]*fieldInfo) bool {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() == reflect.Struct {
		info := infoOf(t)
		if len(info.positional) == 0 {
			return false
		}
		t = t.Field(info.positional[0].index).Type
	}
	tok := d.peek()
	switch t.Kind() {
	case reflect.String:
		if tok.kind == tokString {
			return !isEnum(t)
		}
		return tok.kind == tokIdent && stop[tok.text] == nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return tok.kind == tokNumber
	}
	return false
}

func (d *decoder) scalar(v reflect.Value, fi *fieldInfo) error {
	t := d.next()
	switch v.Kind() {
	case reflect.String:
		if isEnum(v.Type()) {
			if t.kind != tokIdent {
				return d.errorf(t, "expected %s, found %s %q", v.Type().Name(), t.kind, t.text)
			}
			for _, allowed := range v.Interface().(enumerated).enumValues() {
				if allowed == t.text {
					v.SetString(t.text)
					return nil
				}
			}
			return d.errorf(t, "invalid %s value %q", v.Type().Name(), t.text)
		}
		if t.kind != tokIdent && t.kind != tokString {
			return d.errorf(t, "expected %s for %s, found %s %q", expected(fi), fi.name, t.kind, t.text)
		}
		v.SetString(t.text)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if t.kind != tokNumber {
			return d.errorf(t, "expected integer for %s, found %s %q", fi.name, t.kind, t.text)
		}
		n, err := parseInt(t.text, v.Type().Bits())
		if err != nil {
			return d.errorf(t, "invalid integer %q for %s", t.text, fi.name)
		}
		v.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if t.kind != tokNumber {
			return d.errorf(t, "expected integer for %s, found %s %q", fi.name, t.kind, t.text)
		}
		n, err := parseUint(t.text, v.Type().Bits())
		if err != nil {
			return d.errorf(t, "invalid unsigned integer %q for %s", t.text, fi.name)
		}
		v.SetUint(n)
	case reflect.Float32, reflect.Float64:
		if t.kind != tokNumber {
			return d.errorf(t, "expected number for %s, found %s %q", fi.name, t.kind, t.text)
		}
		f, err := parseFloat(t.text)
		if err != nil {
			return d.errorf(t, "invalid number %q for %s", t.text, fi.name)
		}
		v.SetFloat(f)
	default:
		return d.errorf(t, "unsupported field type %s", v.Type())
	}
	return nil
}

func expected(fi *fieldInfo) string {
	if fi.quoted {
		return "string"
	}
	return "identifier"
}

// captureRaw returns the source text between the block name just consumed
// and its matching /end.
func (d *decoder) captureRaw(kw string) (string, error) {
	start := d.toks[d.pos-1].end
	depth := 0
	for {
		t := d.next()
		switch t.kind {
		case tokEOF:
			return "", d.errorf(t, "missing /end %s", kw)
		case tokBegin:
			depth++
		case tokEnd:
			if depth > 0 {
				depth--
				continue
			}
			if name := d.next(); name.text != kw {
				return "", d.errorf(name, "expected /end %s, found /end %s", kw, name.text)
			}
			return strings.TrimSpace(d.src[start:t.start]), nil
		}
	}
}

func (d *decoder) skipBlock(kw string) error {
	_, err := d.captureRaw(kw)
	return err
}

// skipArgs discards the arguments of an unknown keyword.
func (d *decoder) skipArgs(known map[string]*fieldInfo) {
	for {
		t := d.peek()
		switch t.kind {
		case tokEOF, tokBegin, tokEnd:
			return
		case tokIdent:
			if known[t.text] != nil {
				return
			}
		}
		d.next()
	}
}

// resolveIfData marks the module's IF_DATA blocks whose tag the module's
// A2ML declares.
func (d *decoder) resolveIfData(m *Module) {
	var decl string
	if m.A2ml != nil {
		decl = m.A2ml.Text
	}
	for _, blk := range d.ifData {
		tag := blk.Tag()
		blk.Valid = tag != "" && strings.Contains(decl, `"`+tag+`"`)
	}
	d.ifData = nil
}

func parseInt(s string, bits int) (int64, error) {
	sign, body := splitSign(s)
	if hex, ok := cutHexPrefix(body); ok {
		return strconv.ParseInt(sign+hex, 16, bits)
	}
	return strconv.ParseInt(s, 10, bits)
}

func parseUint(s string, bits int) (uint64, error) {
	sign, body := splitSign(s)
	if sign == "-" {
		return 0, strconv.ErrRange
	}
	if hex, ok := cutHexPrefix(body); ok {
		return strconv.ParseUint(hex, 16, bits)
	}
	return strconv.ParseUint(body, 10, bits)
}

func parseFloat(s string) (float64, error) {
	sign, body := splitSign(s)
	if hex, ok := cutHexPrefix(body); ok {
		n, err := strconv.ParseUint(hex, 16, 64)
		if err != nil {
			return 0, err
		}
		if sign == "-" {
			return -float64(n), nil
		}
		return float64(n), nil
	}
	return strconv.ParseFloat(s, 64)
}

func splitSign(s string) (string, string) {
	if strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
		return s[:1], s[1:]
	}
	return "", s
}

func cutHexPrefix(s string) (string, bool) {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return s[2:], true
	}
	return s, false
}
