package substitution

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-asciidoc/pkg/interfaces"
)

// HTMLConverter renders inline spans as HTML fragments. It is the default
// converter; hosts targeting other formats supply their own.
type HTMLConverter struct{}

var quotedTags = map[string]string{
	"strong":      "strong",
	"emphasis":    "em",
	"monospaced":  "code",
	"mark":        "mark",
	"superscript": "sup",
	"subscript":   "sub",
}

// ConvertInline implements interfaces.InlineConverter.
func (HTMLConverter) ConvertInline(node interfaces.InlineNode) string {
	switch node.InlineKind() {
	case interfaces.InlineQuoted:
		return convertQuoted(node)
	case interfaces.InlineAnchor:
		return convertAnchor(node)
	case interfaces.InlineBreak:
		return node.Text() + "<br>"
	case interfaces.InlineButton:
		return `<b class="button">` + node.Text() + "</b>"
	case interfaces.InlineCallout:
		return `<b class="conum">(` + node.Text() + ")</b>"
	case interfaces.InlineFootnote:
		return convertFootnote(node)
	case interfaces.InlineImage:
		return convertImage(node)
	case interfaces.InlineIndexTerm:
		return node.Text()
	case interfaces.InlineKbd:
		return convertKbd(node)
	case interfaces.InlineMenu:
		return convertMenu(node)
	}
	return node.Text()
}

func convertQuoted(node interfaces.InlineNode) string {
	open, close := "", ""
	switch typ := node.Type(); typ {
	case "double":
		open, close = "&#8220;", "&#8221;"
	case "single":
		open, close = "&#8216;", "&#8217;"
	case "unquoted":
	default:
		if tag, ok := quotedTags[typ]; ok {
			return "<" + tag + htmlAttrs(node) + ">" + node.Text() + "</" + tag + ">"
		}
	}
	if attrs := htmlAttrs(node); attrs != "" {
		return open + "<span" + attrs + ">" + node.Text() + "</span>" + close
	}
	return open + node.Text() + close
}

func htmlAttrs(node interfaces.InlineNode) string {
	var b strings.Builder
	if id := node.ID(); id != "" {
		fmt.Fprintf(&b, ` id="%s"`, id)
	}
	if role := node.Role(); role != "" {
		fmt.Fprintf(&b, ` class="%s"`, role)
	}
	return b.String()
}

func convertAnchor(node interfaces.InlineNode) string {
	switch node.Type() {
	case "xref":
		return fmt.Sprintf(`<a href="%s">%s</a>`, node.Target(), node.Text())
	case "ref":
		return fmt.Sprintf(`<a id="%s"></a>`, node.Target())
	case "bibref":
		return fmt.Sprintf(`<a id="%s"></a>[%s]`, node.Target(), node.Text())
	}
	var b strings.Builder
	fmt.Fprintf(&b, `<a href="%s"`, node.Target())
	if id := node.ID(); id != "" {
		fmt.Fprintf(&b, ` id="%s"`, id)
	}
	if role := node.Role(); role != "" {
		fmt.Fprintf(&b, ` class="%s"`, role)
	}
	if title, ok := node.Attr("title"); ok && title != "" {
		fmt.Fprintf(&b, ` title="%s"`, title)
	}
	if window, ok := node.Attr("window"); ok && window != "" {
		fmt.Fprintf(&b, ` target="%s"`, window)
		if window == "_blank" {
			b.WriteString(` rel="noopener"`)
		}
	}
	b.WriteString(">" + node.Text() + "</a>")
	return b.String()
}

func convertFootnote(node interfaces.InlineNode) string {
	index, _ := node.Attr("index")
	switch node.Type() {
	case "ref":
		return fmt.Sprintf(`<sup class="footnoteref">[<a class="footnote" href="#_footnotedef_%s" title="View footnote.">%s</a>]</sup>`, index, index)
	case "xref":
		return fmt.Sprintf(`<sup class="footnoteref red" title="Unresolved footnote reference.">[%s]</sup>`, node.Text())
	}
	id := ""
	if target := node.Target(); target != "" {
		id = fmt.Sprintf(` id="_footnote_%s"`, target)
	}
	return fmt.Sprintf(`<sup class="footnote"%s>[<a id="_footnoteref_%s" class="footnote" href="#_footnotedef_%s" title="View footnote.">%s</a>]</sup>`, id, index, index, index)
}

func convertImage(node interfaces.InlineNode) string {
	if node.Type() == "icon" {
		alt, _ := node.Attr("alt")
		if alt == "" {
			alt = node.Target()
		}
		return fmt.Sprintf(`<span class="icon">[%s]</span>`, alt)
	}
	var b strings.Builder
	class := "image"
	if role := node.Role(); role != "" {
		class += " " + role
	}
	fmt.Fprintf(&b, `<span class="%s"><img src="%s"`, class, node.Target())
	alt, _ := node.Attr("alt")
	fmt.Fprintf(&b, ` alt="%s"`, alt)
	for _, name := range []string{"width", "height", "title"} {
		if v, ok := node.Attr(name); ok && v != "" {
			fmt.Fprintf(&b, ` %s="%s"`, name, v)
		}
	}
	b.WriteString("></span>")
	return b.String()
}

func convertKbd(node interfaces.InlineNode) string {
	raw, _ := node.Attr("keys")
	keys := strings.Split(raw, "\x1f")
	if len(keys) == 1 {
		return "<kbd>" + keys[0] + "</kbd>"
	}
	parts := make([]string, len(keys))
	for i, key := range keys {
		parts[i] = "<kbd>" + key + "</kbd>"
	}
	return `<span class="keyseq">` + strings.Join(parts, "+") + "</span>"
}

func convertMenu(node interfaces.InlineNode) string {
	menu, _ := node.Attr("menu")
	item, ok := node.Attr("menuitem")
	if !ok || item == "" {
		return `<b class="menuref">` + menu + "</b>"
	}
	caret := `&#160;<b class="caret">&#8250;</b> `
	var b strings.Builder
	b.WriteString(`<span class="menuseq"><b class="menu">` + menu + "</b>" + caret)
	if subs, ok := node.Attr("submenus"); ok && subs != "" {
		for _, sub := range strings.Split(subs, "\x1f") {
			b.WriteString(`<b class="submenu">` + sub + "</b>" + caret)
		}
	}
	b.WriteString(`<b class="menuitem">` + item + "</b></span>")
	return b.String()
}
