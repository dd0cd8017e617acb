package selector

import (
	"strings"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"

	"github.com/newshound/newshound/internal/config"
	"github.com/newshound/newshound/internal/types"
)

// evalXPath applies an XPath rule via htmlquery. It returns the first
// matching node's value, or every match joined with rule.Join when that
// is set. An invalid expression is returned as an error so the resolver
// can skip the rule.
func evalXPath(page *types.Page, rule config.SelectorRule) (string, error) {
	root, err := page.Root()
	if err != nil {
		return "", err
	}

	nodes, err := htmlquery.QueryAll(root, rule.Expression)
	if err != nil {
		return "", err
	}
	if len(nodes) == 0 {
		return "", nil
	}

	if rule.Join != "" {
		var parts []string
		for _, node := range nodes {
			if val := strings.TrimSpace(xpathValue(node, rule.Attribute)); val != "" {
				parts = append(parts, val)
			}
		}
		return strings.Join(parts, rule.Join), nil
	}

	return xpathValue(nodes[0], rule.Attribute), nil
}

// xpathValue extracts text, HTML or a named attribute from a node.
func xpathValue(node *html.Node, attribute string) string {
	switch attribute {
	case "", "text":
		return htmlquery.InnerText(node)
	case "html", "innerHTML":
		return htmlquery.OutputHTML(node, false)
	case "outerHTML":
		return htmlquery.OutputHTML(node, true)
	default:
		return htmlquery.SelectAttr(node, attribute)
	}
}
