package selector

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/newshound/newshound/internal/config"
	"github.com/newshound/newshound/internal/types"
)

// evalCSS applies a CSS rule via goquery. It returns the first match, or
// every match joined with rule.Join when that is set.
func evalCSS(page *types.Page, rule config.SelectorRule) (string, error) {
	doc, err := page.Document()
	if err != nil {
		return "", err
	}

	matches := doc.Find(rule.Expression)
	if matches.Length() == 0 {
		return "", nil
	}

	if rule.Join != "" {
		var parts []string
		var firstErr error
		matches.Each(func(i int, sel *goquery.Selection) {
			val, err := cssValue(sel, rule.Attribute)
			if err != nil && firstErr == nil {
				firstErr = err
			}
			if val = strings.TrimSpace(val); val != "" {
				parts = append(parts, val)
			}
		})
		if firstErr != nil {
			return "", firstErr
		}
		return strings.Join(parts, rule.Join), nil
	}

	return cssValue(matches.First(), rule.Attribute)
}

// cssValue extracts text, HTML or a named attribute from a selection.
func cssValue(sel *goquery.Selection, attribute string) (string, error) {
	switch attribute {
	case "", "text":
		return sel.Text(), nil
	case "html", "innerHTML":
		return sel.Html()
	case "outerHTML":
		return goquery.OuterHtml(sel)
	default:
		val, _ := sel.Attr(attribute)
		return val, nil
	}
}
