package codec_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/tome/pkg/book"
	"github.com/aretw0/tome/pkg/codec"
	"github.com/aretw0/tome/pkg/core"
	"github.com/aretw0/tome/pkg/schema"
)

func readFixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return data
}

func sample() core.Sidebars {
	return core.Sidebars{
		{Name: "guideSidebar", Items: []core.Item{
			core.Doc("intro"),
			core.Cat("Part I", core.Docs("part1/a", "part1/b")...),
			core.LabeledDoc("interactive-demo", "Try it: Q&A"),
		}},
		{Name: "api-reference", Items: []core.Item{
			{Category: &core.Category{Label: "It's \"quoted\"", Collapsible: false, Items: core.Docs("api/x")}},
			{Category: &core.Category{Label: "Empty", Collapsible: true, Collapsed: true, Items: []core.Item{}}},
		}},
	}
}

func TestTypeScriptDecodesSiteFile(t *testing.T) {
	sbs, err := codec.Unmarshal(codec.TypeScript{}, readFixture(t, "sidebars.ts"))
	require.NoError(t, err)
	assert.Equal(t, book.Sidebars(), sbs)
}

func TestTypeScriptEncodesSiteFile(t *testing.T) {
	out, err := codec.Marshal(codec.TypeScript{}, book.Sidebars())
	require.NoError(t, err)
	assert.Equal(t, string(readFixture(t, "sidebars.ts")), string(out))
}

func TestRoundTrip(t *testing.T) {
	for _, c := range codec.All() {
		t.Run(c.Name(), func(t *testing.T) {
			want := sample()

			first, err := codec.Marshal(c, want)
			require.NoError(t, err)

			got, err := codec.Unmarshal(c, first)
			require.NoError(t, err, string(first))
			assert.Equal(t, want, got)

			second, err := codec.Marshal(c, got)
			require.NoError(t, err)
			assert.Equal(t, string(first), string(second), "encoding must be stable")
		})
	}
}

func TestCrossFormat(t *testing.T) {
	ts, err := codec.Unmarshal(codec.TypeScript{}, readFixture(t, "sidebars.ts"))
	require.NoError(t, err)

	j, err := codec.Marshal(codec.JSON{}, ts)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(j), "{\n  \"guideSidebar\": [\n    \"intro\",\n"), string(j))

	y, err := codec.Marshal(codec.YAML{}, ts)
	require.NoError(t, err)
	fromYAML, err := codec.Unmarshal(codec.YAML{}, y)
	require.NoError(t, err)
	assert.Equal(t, ts, fromYAML)
}

func TestJSONEncodingShape(t *testing.T) {
	out, err := codec.Marshal(codec.JSON{}, core.Sidebars{{Name: "s", Items: []core.Item{
		core.Doc("intro"),
		core.Cat("A & B", core.Doc("x")),
	}}})
	require.NoError(t, err)

	want := `{
  "s": [
    "intro",
    {
      "type": "category",
      "label": "A & B",
      "collapsible": true,
      "collapsed": false,
      "items": [
        "x"
      ]
    }
  ]
}
`
	assert.Equal(t, want, string(out))
}

func TestJSONDecodeRunsSchema(t *testing.T) {
	_, err := codec.Unmarshal(codec.JSON{}, []byte(`{"s": [{"type": "category", "label": "A"}]}`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, schema.ErrInvalid))
}

func TestYAMLDecode(t *testing.T) {
	src := `
tutorial:
  - intro
  - type: category
    label: Basics
    items:
      - basics/one
  - type: doc
    id: basics/two
docs:
  - other
`
	sbs, err := codec.Unmarshal(codec.YAML{}, []byte(src))
	require.NoError(t, err)
	assert.Equal(t, []string{"tutorial", "docs"}, sbs.Names())

	tut, _ := sbs.Get("tutorial")
	require.Len(t, tut.Items, 3)
	cat := tut.Items[1].Category
	require.NotNil(t, cat)
	assert.True(t, cat.Collapsible)
	assert.True(t, cat.Collapsed, "missing collapsed defaults to true")
	assert.Equal(t, core.Doc("basics/two"), tut.Items[2])

	_, err = codec.Unmarshal(codec.YAML{}, nil)
	assert.Error(t, err)

	_, err = codec.Unmarshal(codec.YAML{}, []byte("s:\n  - 3\n"))
	assert.True(t, errors.Is(err, schema.ErrInvalid))
}

func TestModuleDecodeVariants(t *testing.T) {
	tests := []struct {
		name  string
		codec codec.Codec
		src   string
		want  core.Sidebars
	}{
		{
			name:  "inline default export with satisfies",
			codec: codec.TypeScript{},
			src:   `export default { docs: ['a', "b"] } satisfies Record<string, unknown>;`,
			want:  core.Sidebars{{Name: "docs", Items: core.Docs("a", "b")}},
		},
		{
			name:  "commonjs with comments and quoted keys",
			codec: codec.JavaScript{},
			src: `// @ts-check
/** @type {import('@docusaurus/plugin-content-docs').SidebarsConfig} */
const sidebars = {
  // main navigation
  'my-sidebar': [
    'intro', /* inline */
    {type: 'category', label: 'Tab\tand \'quote\'', items: [], collapsible: true, collapsed: false},
  ],
};
module.exports = sidebars;
`,
			want: core.Sidebars{{Name: "my-sidebar", Items: []core.Item{
				core.Doc("intro"),
				{Category: &core.Category{Label: "Tab\tand 'quote'", Collapsible: true, Items: []core.Item{}}},
			}}},
		},
		{
			name:  "typed binding and template string",
			codec: codec.TypeScript{},
			src: "import type {SidebarsConfig} from '@docusaurus/plugin-content-docs';\n" +
				"const sidebars: SidebarsConfig = { s: [`intro`, 'caf\\u00e9'] };\n" +
				"export default sidebars;\n",
			want: core.Sidebars{{Name: "s", Items: core.Docs("intro", "café")}},
		},
		{
			name:  "spread and template substitution",
			codec: codec.TypeScript{},
			src: "const part = 'part1';\n" +
				"const chapters = ['chapter01', 'chapter02'].map((c) => `${part}/${c}`);\n" +
				"export default { s: ['intro', ...chapters] };\n",
			want: core.Sidebars{{Name: "s", Items: core.Docs("intro", "part1/chapter01", "part1/chapter02")}},
		},
		{
			name:  "es module javascript",
			codec: codec.JavaScript{},
			src:   "export default { b: ['x'], a: ['y'] };\n",
			want:  core.Sidebars{{Name: "b", Items: core.Docs("x")}, {Name: "a", Items: core.Docs("y")}},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := codec.Unmarshal(tc.codec, []byte(tc.src))
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestModuleDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"syntax error", `export default { s: [ };`},
		{"no export", `const sidebars = { s: ['a'] };`},
		{"require", `export default { s: require('./items') };`},
		{"value import", "import items from './items';\nexport default { s: items };"},
		{"thrown error", `throw new Error('boom');`},
		{"runaway loop", `export default (() => { for (;;) {} })();`},
		{"schema violation", `export default { s: [{type: 'link', href: '/'}] };`},
		{"exported call", `export default build();`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := codec.Unmarshal(codec.TypeScript{}, []byte(tc.src))
			assert.Error(t, err)
		})
	}
}

func TestRegistry(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"sidebars.ts", "ts"},
		{"sidebars.js", "js"},
		{"config/sidebars.JSON", "json"},
		{"sidebars.yml", "yaml"},
		{"sidebars.yaml", "yaml"},
	}
	for _, tc := range tests {
		c, err := codec.ForPath(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, c.Name(), tc.in)
	}

	for _, name := range []string{"json", "YAML", "yml", "typescript", ".ts", "javascript", "cjs"} {
		_, err := codec.ForName(name)
		assert.NoError(t, err, name)
	}

	_, err := codec.ForPath("sidebars.toml")
	assert.True(t, errors.Is(err, codec.ErrUnknownFormat))
	_, err = codec.ForPath("sidebars")
	assert.True(t, errors.Is(err, codec.ErrUnknownFormat))
	_, err = codec.ForName("xml")
	assert.True(t, errors.Is(err, codec.ErrUnknownFormat))
}

func TestEncodeEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, codec.TypeScript{}.Encode(&buf, nil))
	assert.Contains(t, buf.String(), "const sidebars: SidebarsConfig = {};")

	got, err := codec.Unmarshal(codec.TypeScript{}, buf.Bytes())
	require.NoError(t, err)
	assert.Empty(t, got)
}
