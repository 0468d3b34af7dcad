package markdown

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"sync"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
)

// Code blocks are emitted with classes only; HighlightCSS supplies the colors
// for both color schemes.
var (
	codeFormatter = chromahtml.New(chromahtml.WithClasses(true))

	highlightThemes = []struct {
		scheme string
		style  string
	}{
		{scheme: "light", style: "github"},
		{scheme: "dark", style: "monokai"},
	}

	highlightCSS = sync.OnceValue(func() template.CSS {
		return template.CSS(buildHighlightCSS())
	})
)

func HighlightCSS() template.CSS {
	return highlightCSS()
}

func buildHighlightCSS() string {
	var out strings.Builder
	for _, theme := range highlightThemes {
		rules, err := styleRules(theme.style)
		if err != nil || rules == "" {
			continue
		}
		fmt.Fprintf(&out, "@media (prefers-color-scheme: %s) {\n%s}\n", theme.scheme, rules)
	}
	return out.String()
}

func styleRules(name string) (string, error) {
	style := styles.Get(name)
	if style == nil {
		style = styles.Fallback
	}

	var buf bytes.Buffer
	if err := codeFormatter.WriteCSS(&buf, style); err != nil {
		return "", err
	}
	return buf.String(), nil
}
