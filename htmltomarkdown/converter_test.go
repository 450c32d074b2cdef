package htmltomarkdown_test

import (
	"strings"
	"testing"

	"github.com/fwojciec/pagecollect"
	"github.com/fwojciec/pagecollect/htmltomarkdown"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ pagecollect.Converter = (*htmltomarkdown.Converter)(nil)

func TestConverter_Convert(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		html    string
		pageURL string
		want    []string
	}{
		{
			name: "headings and emphasis",
			html: `<h1>Weekly menu</h1><h2>Monday</h2><p><strong>Soup</strong> and <em>bread</em>.</p>`,
			want: []string{"# Weekly menu", "## Monday", "**Soup**", "*bread*"},
		},
		{
			name: "lists",
			html: `<ul><li>Flour</li><li>Water</li></ul><ol><li>Mix</li><li>Bake</li></ol>`,
			want: []string{"- Flour", "- Water", "1. Mix", "2. Bake"},
		},
		{
			name: "fenced code keeps its language",
			html: "<p>Run <code>make</code> first.</p><pre><code class=\"language-sh\">make install\n</code></pre>",
			want: []string{"`make`", "```sh", "make install"},
		},
		{
			name: "tables stay tabular",
			html: `<table><thead><tr><th>Item</th><th>Price</th></tr></thead>` +
				`<tbody><tr><td>Kettle</td><td>30</td></tr></tbody></table>`,
			want: []string{"Item", "Price", "Kettle", "|", "---"},
		},
		{
			name: "quotes",
			html: `<blockquote><p>Measure twice.</p></blockquote>`,
			want: []string{"> Measure twice."},
		},
		{
			name:    "relative links resolve against the page",
			html:    `<p>Read the <a href="/shop/returns">returns policy</a>.</p>`,
			pageURL: "https://store.example.com/shop/kettle",
			want:    []string{"[returns policy](https://store.example.com/shop/returns)"},
		},
	}

	conv := htmltomarkdown.NewConverter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			md, err := conv.Convert(tt.html, tt.pageURL)
			require.NoError(t, err)
			for _, w := range tt.want {
				assert.Contains(t, md, w)
			}
		})
	}
}

func TestConverter_Convert_CollapsesBlankLines(t *testing.T) {
	t.Parallel()

	md, err := htmltomarkdown.NewConverter().Convert("\n<p>One</p><div></div><div></div><p>Two</p>\n", "")
	require.NoError(t, err)

	assert.NotContains(t, md, "\n\n\n")
	assert.True(t, strings.HasPrefix(md, "One"))
	assert.True(t, strings.HasSuffix(md, "Two"))
}

func TestConverter_Convert_RejectsBlankInput(t *testing.T) {
	t.Parallel()

	for _, html := range []string{"", "  \n\t"} {
		_, err := htmltomarkdown.NewConverter().Convert(html, "")
		require.Error(t, err)
		assert.Equal(t, pagecollect.EINVALID, pagecollect.ErrorCode(err))
	}
}
