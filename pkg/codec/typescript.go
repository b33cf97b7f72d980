package codec

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/dop251/goja"
	"github.com/evanw/esbuild/pkg/api"

	"github.com/aretw0/tome/pkg/core"
)

// TypeScript reads and writes sidebars.ts modules as scaffolded by the site
// generator. Decoding compiles the module to CommonJS with esbuild and
// evaluates it in a sandboxed goja runtime.
type TypeScript struct{}

// Name returns "ts".
func (TypeScript) Name() string { return "ts" }

// Extensions returns ".ts".
func (TypeScript) Extensions() []string { return []string{".ts"} }

// Decode evaluates a TypeScript sidebars module and decodes its default export.
func (TypeScript) Decode(r io.Reader) (core.Sidebars, error) {
	return decodeModule(r, api.LoaderTS)
}

// Encode writes a module in the layout the site generator scaffolds.
func (TypeScript) Encode(w io.Writer, sbs core.Sidebars) error {
	var buf bytes.Buffer
	buf.WriteString("import type {SidebarsConfig} from '@docusaurus/plugin-content-docs';\n\n")
	buf.WriteString("const sidebars: SidebarsConfig = ")
	writeSidebarsLiteral(&buf, sbs)
	buf.WriteString(";\n\nexport default sidebars;\n")
	_, err := w.Write(buf.Bytes())
	return err
}

// JavaScript handles the CommonJS sidebars.js flavour.
type JavaScript struct{}

// Name returns "js".
func (JavaScript) Name() string { return "js" }

// Extensions returns the CommonJS and ES module extensions.
func (JavaScript) Extensions() []string { return []string{".js", ".cjs", ".mjs"} }

// Decode evaluates a JavaScript sidebars module and decodes its export.
func (JavaScript) Decode(r io.Reader) (core.Sidebars, error) {
	return decodeModule(r, api.LoaderJS)
}

// Encode writes a CommonJS module with a type annotation comment.
func (JavaScript) Encode(w io.Writer, sbs core.Sidebars) error {
	var buf bytes.Buffer
	buf.WriteString("// @ts-check\n\n")
	buf.WriteString("/** @type {import('@docusaurus/plugin-content-docs').SidebarsConfig} */\n")
	buf.WriteString("const sidebars = ")
	writeSidebarsLiteral(&buf, sbs)
	buf.WriteString(";\n\nmodule.exports = sidebars;\n")
	_, err := w.Write(buf.Bytes())
	return err
}

// evalTimeout bounds the evaluation of a sidebars module.
var evalTimeout = 2 * time.Second

func decodeModule(r io.Reader, loader api.Loader) (core.Sidebars, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	result := api.Transform(string(src), api.TransformOptions{
		Loader:   loader,
		Format:   api.FormatCommonJS,
		Target:   api.ES2017,
		LogLevel: api.LogLevelSilent,
	})
	if len(result.Errors) > 0 {
		var msgs []string
		for _, m := range result.Errors {
			if m.Location != nil {
				msgs = append(msgs, fmt.Sprintf("%d:%d: %s", m.Location.Line, m.Location.Column, m.Text))
			} else {
				msgs = append(msgs, m.Text)
			}
		}
		return nil, fmt.Errorf("esbuild errors:\n%s", strings.Join(msgs, "\n"))
	}

	data, err := evalExport(string(result.Code))
	if err != nil {
		return nil, err
	}
	return decodeJSON(data)
}

// evalExport runs a CommonJS module and returns its export as JSON.
// An ES module default export wins over the exports object itself.
// Modules cannot require anything.
func evalExport(code string) ([]byte, error) {
	vm := goja.New()
	module := vm.NewObject()
	exports := vm.NewObject()
	if err := module.Set("exports", exports); err != nil {
		return nil, err
	}
	if err := vm.Set("module", module); err != nil {
		return nil, err
	}
	if err := vm.Set("exports", exports); err != nil {
		return nil, err
	}
	if err := vm.Set("require", func(call goja.FunctionCall) goja.Value {
		panic(vm.NewGoError(fmt.Errorf("require(%q): sidebars modules must be self-contained", call.Argument(0).String())))
	}); err != nil {
		return nil, err
	}

	timer := time.AfterFunc(evalTimeout, func() {
		vm.Interrupt(fmt.Sprintf("sidebars module still running after %s", evalTimeout))
	})
	defer timer.Stop()

	if _, err := vm.RunScript("sidebars", code); err != nil {
		return nil, fmt.Errorf("failed to evaluate sidebars module: %w", err)
	}

	value := module.Get("exports")
	if value == nil || goja.IsUndefined(value) || goja.IsNull(value) {
		return nil, errors.New("sidebars module exports nothing")
	}
	obj := value.ToObject(vm)
	if esm := obj.Get("__esModule"); esm != nil && esm.ToBoolean() {
		value = obj.Get("default")
		if value == nil || goja.IsUndefined(value) {
			return nil, errors.New("sidebars module has no default export")
		}
	} else if value.SameAs(exports) && len(obj.Keys()) == 0 {
		return nil, errors.New("sidebars module exports nothing")
	}

	stringify, ok := goja.AssertFunction(vm.Get("JSON").ToObject(vm).Get("stringify"))
	if !ok {
		return nil, errors.New("JSON.stringify is not available")
	}
	out, err := stringify(goja.Undefined(), value)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize sidebars export: %w", err)
	}
	if goja.IsUndefined(out) {
		return nil, errors.New("sidebars export is not serializable")
	}
	return []byte(out.String()), nil
}

var identRe = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

func writeSidebarsLiteral(buf *bytes.Buffer, sbs core.Sidebars) {
	if len(sbs) == 0 {
		buf.WriteString("{}")
		return
	}
	buf.WriteString("{\n")
	for _, sb := range sbs {
		indent(buf, 1)
		buf.WriteString(jsKey(sb.Name))
		buf.WriteString(": ")
		writeItemsLiteral(buf, sb.Items, 1)
		buf.WriteString(",\n")
	}
	buf.WriteString("}")
}

func writeItemsLiteral(buf *bytes.Buffer, items []core.Item, depth int) {
	if len(items) == 0 {
		buf.WriteString("[]")
		return
	}
	buf.WriteString("[\n")
	for _, it := range items {
		indent(buf, depth+1)
		writeItemLiteral(buf, it, depth+1)
		buf.WriteString(",\n")
	}
	indent(buf, depth)
	buf.WriteString("]")
}

func writeItemLiteral(buf *bytes.Buffer, it core.Item, depth int) {
	field := func(key, val string) {
		indent(buf, depth+1)
		buf.WriteString(key)
		buf.WriteString(": ")
		buf.WriteString(val)
		buf.WriteString(",\n")
	}

	switch {
	case it.Category != nil:
		c := it.Category
		buf.WriteString("{\n")
		field("type", jsString(core.TypeCategory))
		field("label", jsString(c.Label))
		field("collapsible", fmt.Sprint(c.Collapsible))
		field("collapsed", fmt.Sprint(c.Collapsed))
		indent(buf, depth+1)
		buf.WriteString("items: ")
		writeItemsLiteral(buf, c.Items, depth+1)
		buf.WriteString(",\n")
		indent(buf, depth)
		buf.WriteString("}")
	case it.Label != "":
		buf.WriteString("{\n")
		field("type", jsString(core.TypeDoc))
		field("id", jsString(it.DocID))
		field("label", jsString(it.Label))
		indent(buf, depth)
		buf.WriteString("}")
	default:
		buf.WriteString(jsString(it.DocID))
	}
}

func indent(buf *bytes.Buffer, depth int) {
	buf.WriteString(strings.Repeat("  ", depth))
}

func jsKey(name string) string {
	if identRe.MatchString(name) {
		return name
	}
	return jsString(name)
}

// jsString quotes s with single quotes.
func jsString(s string) string {
	var b strings.Builder
	b.WriteByte('\'')
	for _, r := range s {
		switch r {
		case '\'':
			b.WriteString(`\'`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\u2028':
			b.WriteString(`\u2028`)
		case '\u2029':
			b.WriteString(`\u2029`)
		default:
			if r < 0x20 {
				fmt.Fprintf(&b, `\x%02x`, r)
				continue
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte('\'')
	return b.String()
}
