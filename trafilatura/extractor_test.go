package trafilatura_test

import (
	"testing"

	"github.com/fwojciec/pagecollect"
	"github.com/fwojciec/pagecollect/trafilatura"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ pagecollect.Extractor = (*trafilatura.Extractor)(nil)

const recipePage = `<!DOCTYPE html>
<html>
<head>
<title>Sourdough - Home Kitchen</title>
<meta property="og:title" content="Simple sourdough loaf">
</head>
<body>
<nav class="site-nav"><ul><li><a href="/">Home</a></li><li><a href="/recipes">Recipes</a></li></ul></nav>
<article>
<h1>Simple sourdough loaf</h1>
<p>Feed the starter the evening before and leave it somewhere warm overnight.</p>
<p>In the morning mix the flour, water and starter, then rest the dough for an hour before adding salt.</p>
<pre><code>bake(temp=250, minutes=40)</code></pre>
<p>See the <a href="/recipes/starter">starter guide</a> if yours is sluggish.</p>
</article>
<footer><p>Copyright 2026 Home Kitchen</p><nav>Privacy | Terms</nav></footer>
</body>
</html>`

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	res, err := trafilatura.NewExtractor().Extract(recipePage, "https://kitchen.example.com/recipes/sourdough")
	require.NoError(t, err)

	assert.NotEmpty(t, res.Title)
	assert.Contains(t, res.ContentHTML, "Feed the starter")
	assert.Contains(t, res.ContentHTML, "bake(temp=250")
	assert.NotContains(t, res.ContentHTML, "site-nav")
	assert.NotContains(t, res.ContentHTML, "Copyright 2026")
}

func TestExtractor_Extract_KeepsLinks(t *testing.T) {
	t.Parallel()

	res, err := trafilatura.NewExtractor().Extract(recipePage, "https://kitchen.example.com/recipes/sourdough")
	require.NoError(t, err)

	assert.Contains(t, res.ContentHTML, "<a ")
	assert.Contains(t, res.ContentHTML, "starter guide")
}

func TestExtractor_Extract_MinimalPage(t *testing.T) {
	t.Parallel()

	res, err := trafilatura.NewExtractor().Extract(`<html><body><p>Just one line of text</p></body></html>`, "")
	require.NoError(t, err)
	assert.Contains(t, res.ContentHTML, "Just one line of text")
}

func TestExtractor_Extract_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		html    string
		pageURL string
	}{
		{name: "empty input", html: ""},
		{name: "whitespace input", html: " \n "},
		{name: "invalid page URL", html: "<p>x</p>", pageURL: "://bad"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := trafilatura.NewExtractor().Extract(tt.html, tt.pageURL)
			require.Error(t, err)
			assert.Equal(t, pagecollect.EINVALID, pagecollect.ErrorCode(err))
		})
	}
}
