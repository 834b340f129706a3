package a2l

import (
	"reflect"
	"strings"
	"sync"
)

type fieldInfo struct {
	index   int
	name    string
	keyword string
	block   bool
	raw     bool
	quoted  bool
	hex     bool
}

type structInfo struct {
	positional []*fieldInfo
	keywords   []*fieldInfo
	byKeyword  map[string]*fieldInfo
}

var structCache sync.Map // reflect.Type -> *structInfo

func infoOf(t reflect.Type) *structInfo {
	if v, ok := structCache.Load(t); ok {
		return v.(*structInfo)
	}
	info := &structInfo{byKeyword: make(map[string]*fieldInfo)}
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		tag := sf.Tag.Get("a2l")
		if tag == "-" || !sf.IsExported() {
			continue
		}
		fi := &fieldInfo{index: i, name: sf.Name}
		parts := strings.Split(tag, ",")
		fi.keyword = parts[0]
		for _, opt := range parts[1:] {
			switch opt {
			case "block":
				fi.block = true
			case "raw":
				fi.raw = true
			case "quoted":
				fi.quoted = true
			case "hex":
				fi.hex = true
			}
		}
		if fi.keyword == "" {
			info.positional = append(info.positional, fi)
			continue
		}
		info.keywords = append(info.keywords, fi)
		info.byKeyword[fi.keyword] = fi
	}
	v, _ := structCache.LoadOrStore(t, info)
	return v.(*structInfo)
}

// rawHolder is implemented by blocks whose content is kept verbatim.
type rawHolder interface {
	rawText() string
	setRawText(string)
}

func (a *A2ml) rawText() string       { return a.Text }
func (a *A2ml) setRawText(s string)   { a.Text = s }
func (d *IfData) rawText() string     { return d.Text }
func (d *IfData) setRawText(s string) { d.Text = s }

func isEnum(t reflect.Type) bool {
	return t.Kind() == reflect.String && t.Implements(reflect.TypeOf((*enumerated)(nil)).Elem())
}
