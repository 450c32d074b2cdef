// Package htmltomarkdown converts extracted article HTML into Markdown
// page text.
package htmltomarkdown

import (
	"regexp"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/fwojciec/pagecollect"
)

var _ pagecollect.Converter = (*Converter)(nil)

// blankRuns matches three or more consecutive newlines.
var blankRuns = regexp.MustCompile(`\n{3,}`)

// Converter renders article HTML as Markdown with tables kept as pipe
// tables, which LLMs read more reliably than flattened cell text.
type Converter struct {
	conv *converter.Converter
}

func NewConverter() *Converter {
	return &Converter{
		conv: converter.NewConverter(converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		)),
	}
}

// Convert returns html as Markdown. Relative links and images are resolved
// against pageURL when it is set. Runs of blank lines collapse to one.
func (c *Converter) Convert(html, pageURL string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", pagecollect.Errorf(pagecollect.EINVALID, "empty HTML input")
	}

	var md string
	var err error
	if pageURL != "" {
		md, err = c.conv.ConvertString(html, converter.WithDomain(pageURL))
	} else {
		md, err = c.conv.ConvertString(html)
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(blankRuns.ReplaceAllString(md, "\n\n")), nil
}
