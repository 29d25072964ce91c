package substitution

import (
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/goliatone/go-asciidoc/internal/attrlist"
	"github.com/goliatone/go-asciidoc/internal/diagnostics"
	"github.com/goliatone/go-asciidoc/pkg/interfaces"
)

const idPattern = `[\p{L}_:][\p{L}\p{N}_\-:.]*`

var (
	kbdRx      = regexp.MustCompile(`(\\)?kbd:\[((?:\\\]|[^\]])+?)\]`)
	btnRx      = regexp.MustCompile(`(\\)?btn:\[((?:\\\]|[^\]])+?)\]`)
	menuRx     = regexp.MustCompile(`(\\)?menu:([\p{L}\p{N}_]|[\p{L}\p{N}_][^\n\[]*?\S)\[ *((?:\\\]|[^\]])*?)\]`)
	imageRx    = regexp.MustCompile(`(?s)(\\)?(image|icon):([^:\s\[](?:[^\n\[]*[^\s\[])?)\[(|.*?[^\\])\]`)
	indexHidRx = regexp.MustCompile(`(?s)(\\)?\(\(\((.+?)\)\)\)`)
	indexVisRx = regexp.MustCompile(`(?s)(\\)?\(\((.+?)\)\)`)
	indexMacRx = regexp.MustCompile(`(?s)(\\)?indexterm(2?):\[(.*?[^\\])\]`)
	urlTextRx  = regexp.MustCompile("(?s)(^|[\\s>()\\[\\];\"'\u0092\u0097]|&lt;)(\\\\)?((?:https?|file|ftp|irc)://[^\\s\\[\\]]+)\\[(|.*?[^\\\\])\\]")
	linkRx     = regexp.MustCompile(`(?s)(\\)?(link|mailto):([^\s\[][^\s\[]*)\[(|.*?[^\\])\]`)
	emailRx    = regexp.MustCompile(`([\\>:/])?[\p{L}\p{N}_](?:&amp;|[\p{L}\p{N}_\-.%+])*@[\p{L}\p{N}][\p{L}\p{N}_\-.]*\.[a-z]{2,5}\b`)
	biblioRx   = regexp.MustCompile(`\[\[\[(` + idPattern + `)(?:, *(.+?))?\]\]\]`)
	anchorRx   = regexp.MustCompile(`(?s)(\\)?(?:\[\[(` + idPattern + `)(?:, *(.+?))?\]\]|anchor:(` + idPattern + `)\[(?:\]|(.*?[^\\])\]))`)
	footnoteRx = regexp.MustCompile(`(?s)(\\)?footnote(?:(ref):|:([\p{L}\p{N}_-]+)?)\[(|.*?[^\\])\]`)
	xrefRx     = regexp.MustCompile(`(?s)(\\)?(?:(?:&lt;&lt;|<<)([\p{L}\p{N}_#/.:{][^,\n]*?)(?:, *(.*?))?(?:&gt;&gt;|>>)|xref:([^\s\[]+)\[(|.*?[^\\])\])`)
)

// macros converts inline macros. Every conversion is held behind a
// placeholder until the pass ends so later patterns never match inside
// generated markup.
func (st *state) macros(text string) string {
	if strings.Contains(text, "kbd:") || strings.Contains(text, "btn:") || strings.Contains(text, "menu:") {
		text = st.uiMacros(text)
	}
	if strings.Contains(text, "image:") || strings.Contains(text, "icon:") {
		text = st.imageMacros(text)
	}
	if strings.Contains(text, "((") || strings.Contains(text, "indexterm") {
		text = st.indexTerms(text)
	}
	if strings.Contains(text, "://") || strings.Contains(text, "link:") || strings.Contains(text, "mailto:") {
		text = st.links(text)
	}
	if strings.Contains(text, "@") {
		text = st.emails(text)
	}
	if strings.Contains(text, "[[") || strings.Contains(text, "anchor:") {
		text = st.anchors(text)
	}
	if strings.Contains(text, "footnote") {
		text = st.footnotes(text)
	}
	if strings.Contains(text, "&lt;&lt;") || strings.Contains(text, "<<") || strings.Contains(text, "xref:") {
		text = st.xrefs(text)
	}
	if len(st.held) > 0 {
		text = st.release(text)
	}
	return text
}

func (st *state) uiMacros(text string) string {
	text = replaceAllSubmatch(kbdRx, text, func(m []string) string {
		if m[1] != "" {
			return m[0][1:]
		}
		keys := splitKeys(unescapeBracket(m[2]))
		return st.hold(st.convert(interfaces.InlineKbd, "", "", "", map[string]string{
			"keys": strings.Join(keys, "\x1f"),
		}))
	})
	text = replaceAllSubmatch(btnRx, text, func(m []string) string {
		if m[1] != "" {
			return m[0][1:]
		}
		return st.hold(st.convert(interfaces.InlineButton, "", unescapeBracket(m[2]), "", nil))
	})
	return replaceAllSubmatch(menuRx, text, func(m []string) string {
		if m[1] != "" {
			return m[0][1:]
		}
		menu := strings.TrimSpace(m[2])
		var items []string
		if raw := strings.TrimSpace(unescapeBracket(m[3])); raw != "" {
			sep := ","
			if strings.Contains(raw, "&gt;") {
				sep = "&gt;"
			}
			for _, item := range strings.Split(raw, sep) {
				items = append(items, strings.TrimSpace(item))
			}
		}
		attrs := map[string]string{"menu": menu}
		if len(items) > 0 {
			attrs["menuitem"] = items[len(items)-1]
			if len(items) > 1 {
				attrs["submenus"] = strings.Join(items[:len(items)-1], "\x1f")
			}
		}
		return st.hold(st.convert(interfaces.InlineMenu, "", menu, "", attrs))
	})
}

// splitKeys splits a kbd value on + (or , when no + separates keys). A
// trailing doubled delimiter names the delimiter key itself.
func splitKeys(value string) []string {
	value = strings.TrimSpace(value)
	if len(value) <= 1 {
		return []string{value}
	}
	delim := "+"
	if !strings.Contains(value[:len(value)-1], "+") && strings.Contains(value, ",") {
		delim = ","
	}
	trailing := false
	if strings.HasSuffix(value, delim) {
		trailing = true
		value = strings.TrimSpace(value[:len(value)-1])
		value = strings.TrimSuffix(value, delim)
	}
	var keys []string
	for _, key := range strings.Split(value, delim) {
		if key = strings.TrimSpace(key); key != "" {
			keys = append(keys, key)
		}
	}
	if trailing {
		keys = append(keys, delim)
	}
	return keys
}

func (st *state) imageMacros(text string) string {
	return replaceAllSubmatch(imageRx, text, func(m []string) string {
		if m[1] != "" {
			return m[0][1:]
		}
		kind, target := m[2], m[3]
		list := attrlist.Parse(unescapeBracket(m[4]))
		var attrs map[string]string
		if kind == "icon" {
			attrs = list.Map("size")
		} else {
			attrs = list.Map("alt", "width", "height")
			if attrs["alt"] == "" {
				attrs["alt"] = defaultAlt(target)
				attrs["default-alt"] = attrs["alt"]
			}
		}
		return st.hold(st.convert(interfaces.InlineImage, kind, "", target, attrs))
	})
}

// defaultAlt derives alt text from the image file name.
func defaultAlt(target string) string {
	name := path.Base(target)
	name = strings.TrimSuffix(name, path.Ext(name))
	return strings.NewReplacer("-", " ", "_", " ").Replace(name)
}

func (st *state) indexTerms(text string) string {
	text = replaceAllSubmatch(indexHidRx, text, func(m []string) string {
		if m[1] != "" {
			return m[0][1:]
		}
		return ""
	})
	text = replaceAllSubmatch(indexMacRx, text, func(m []string) string {
		if m[1] != "" {
			return m[0][1:]
		}
		if m[2] == "" {
			return ""
		}
		term, _ := attrlist.Parse(unescapeBracket(m[3])).Positional(1)
		return st.hold(st.convert(interfaces.InlineIndexTerm, "visible", term, "", nil))
	})
	return replaceAllSubmatch(indexVisRx, text, func(m []string) string {
		if m[1] != "" {
			return m[0][1:]
		}
		return st.hold(st.convert(interfaces.InlineIndexTerm, "visible", m[2], "", nil))
	})
}

func (st *state) links(text string) string {
	if strings.Contains(text, "://") && strings.Contains(text, "[") {
		text = replaceAllSubmatch(urlTextRx, text, func(m []string) string {
			lead := m[1]
			if m[2] != "" {
				return lead + st.hold(m[0][len(lead)+1:])
			}
			return lead + st.hold(st.link(m[3], unescapeBracket(m[4]), ""))
		})
	}
	if strings.Contains(text, "link:") || strings.Contains(text, "mailto:") {
		text = replaceAllSubmatch(linkRx, text, func(m []string) string {
			if m[1] != "" {
				return m[0][1:]
			}
			target := m[3]
			if m[2] == "mailto" {
				return st.hold(st.mailto(target, unescapeBracket(m[4])))
			}
			return st.hold(st.link(target, unescapeBracket(m[4]), ""))
		})
	}
	if strings.Contains(text, "://") {
		text = st.bareURLs(text)
	}
	return text
}

// bareURLs links URLs found by the strict matcher when they start a word,
// follow punctuation or sit inside angle brackets.
func (st *state) bareURLs(text string) string {
	locs := st.s.urls.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return text
	}
	var b strings.Builder
	last := 0
	for _, loc := range locs {
		start, end := loc[0], loc[1]
		if start < last {
			continue
		}
		// escaped angle brackets are never part of the URL
		for _, entity := range []string{"&gt;", "&lt;"} {
			if cut := strings.Index(text[start:], entity); cut >= 0 && start+cut < end {
				end = start + cut
			}
		}
		url := text[start:end]
		if url == "" {
			continue
		}
		before := text[last:start]
		switch {
		case strings.HasSuffix(before, `\`):
			b.WriteString(before[:len(before)-1])
			b.WriteString(url)
		case strings.HasSuffix(before, "&lt;") && strings.HasPrefix(text[end:], "&gt;"):
			b.WriteString(before[:len(before)-len("&lt;")])
			b.WriteString(st.hold(st.link(url, "", "bare")))
			end += len("&gt;")
		case bareURLPrefixOK(text, start):
			b.WriteString(before)
			b.WriteString(st.hold(st.link(url, "", "bare")))
		default:
			b.WriteString(before)
			b.WriteString(url)
		}
		last = end
	}
	b.WriteString(text[last:])
	return b.String()
}

func bareURLPrefixOK(text string, start int) bool {
	if start == 0 || strings.HasSuffix(text[:start], "&lt;") {
		return true
	}
	r := lastRune(text[:start])
	if r < 0x80 && isSpaceByte(byte(r)) {
		return true
	}
	return strings.ContainsRune(">()[];\"'\u0092\u0097", r)
}

// link renders a link anchor. text may carry an attribute list
// ("Label,role=x,window=_blank") and a trailing ^ for a blank target.
func (st *state) link(target, text, role string) string {
	attrs := map[string]string{}
	if role != "" {
		attrs["role"] = role
	}
	if strings.Contains(text, "=") {
		list := attrlist.Parse(text)
		text, _ = list.Positional(1)
		for _, name := range []string{"role", "window", "id", "title"} {
			if v, ok := list.Named(name); ok {
				attrs[name] = v
			}
		}
	}
	if strings.HasSuffix(text, "^") {
		text = strings.TrimSuffix(text, "^")
		attrs["window"] = "_blank"
	}
	if text == "" {
		text = target
		if _, hide := st.s.table.Get("hide-uri-scheme"); hide {
			if idx := strings.Index(text, "://"); idx >= 0 {
				text = text[idx+3:]
			}
		}
	}
	return st.convert(interfaces.InlineAnchor, "link", text, target, attrs)
}

func (st *state) mailto(address, text string) string {
	attrs := map[string]string{}
	if strings.Contains(text, ",") || strings.Contains(text, "=") {
		list := attrlist.Parse(text)
		text, _ = list.Positional(1)
		subject, _ := list.Positional(2)
		body, _ := list.Positional(3)
		var query []string
		if subject != "" {
			query = append(query, "subject="+escapeQuery(subject))
		}
		if body != "" {
			query = append(query, "body="+escapeQuery(body))
		}
		if len(query) > 0 {
			address += "?" + strings.Join(query, "&amp;")
		}
	}
	target := "mailto:" + address
	if text == "" {
		text = strings.SplitN(address, "?", 2)[0]
	}
	return st.convert(interfaces.InlineAnchor, "link", text, target, attrs)
}

func escapeQuery(value string) string {
	return strings.NewReplacer(" ", "%20", "&", "%26", "?", "%3F", "=", "%3D").Replace(value)
}

func (st *state) emails(text string) string {
	return replaceAllSubmatch(emailRx, text, func(m []string) string {
		switch m[1] {
		case `\`:
			return m[0][1:]
		case ">", ":", "/":
			return m[0]
		}
		return st.hold(st.convert(interfaces.InlineAnchor, "link", m[0], "mailto:"+m[0], nil))
	})
}

func (st *state) anchors(text string) string {
	if strings.Contains(text, "[[[") {
		text = replaceAllSubmatch(biblioRx, text, func(m []string) string {
			id, label := m[1], m[2]
			if label == "" {
				label = id
			}
			if !st.s.ids.Has(id) {
				st.s.ids.Register(id, "["+label+"]", st.scope.Node)
			}
			return st.hold(st.convert(interfaces.InlineAnchor, "bibref", label, id, nil))
		})
	}
	return replaceAllSubmatch(anchorRx, text, func(m []string) string {
		if m[1] != "" {
			return m[0][1:]
		}
		id, reftext := m[2], m[3]
		if id == "" {
			id, reftext = m[4], unescapeBracket(m[5])
		}
		if !st.s.ids.Has(id) {
			st.s.ids.Register(id, reftext, st.scope.Node)
		}
		return st.hold(st.convert(interfaces.InlineAnchor, "ref", reftext, id, nil))
	})
}

func (st *state) footnotes(text string) string {
	return replaceAllSubmatch(footnoteRx, text, func(m []string) string {
		if m[1] != "" {
			return m[0][1:]
		}
		var id, body string
		if m[2] == "ref" {
			parts := strings.SplitN(m[4], ",", 2)
			id = strings.TrimSpace(parts[0])
			if len(parts) > 1 {
				body = strings.TrimSpace(parts[1])
			}
		} else {
			id, body = m[3], strings.TrimSpace(m[4])
		}
		body = unescapeBracket(body)

		if body == "" && id != "" {
			index, ok := st.s.footnotes.Ref(id)
			if !ok {
				st.warn(diagnostics.CodeUnresolvedFootnote, "invalid footnote reference: %s", id)
				return st.hold(st.convert(interfaces.InlineFootnote, "xref", id, id, nil))
			}
			return st.hold(st.convert(interfaces.InlineFootnote, "ref", "", id, map[string]string{
				"index": strconv.Itoa(index),
			}))
		}
		body = st.release(st.xrefs(st.anchors(body)))
		if len(st.passthroughs) > 0 {
			body = st.restorePassthroughs(body)
		}
		index := st.s.footnotes.Add(id, body)
		return st.hold(st.convert(interfaces.InlineFootnote, "", body, id, map[string]string{
			"index": strconv.Itoa(index),
		}))
	})
}

func (st *state) xrefs(text string) string {
	return replaceAllSubmatch(xrefRx, text, func(m []string) string {
		if m[1] != "" {
			return m[0][1:]
		}
		target, label := m[2], m[3]
		if target == "" {
			target, label = m[4], unescapeBracket(m[5])
		}
		target = strings.TrimSpace(target)
		label = strings.TrimSpace(label)

		refid, href := st.xrefTarget(target)
		if href != "#"+refid {
			if label == "" {
				label = target
			}
			return st.hold(st.convert(interfaces.InlineAnchor, "xref", label, href, map[string]string{"refid": refid}))
		}
		if label == "" {
			resolved, ok := st.resolveXref(refid)
			if !ok {
				st.warn(diagnostics.CodeUnresolvedXref, "possible invalid reference: %s", refid)
				label = "[" + refid + "]"
			} else {
				label = resolved
			}
		}
		return st.hold(st.convert(interfaces.InlineAnchor, "xref", label, href, map[string]string{"refid": refid}))
	})
}

// xrefTarget splits "doc.adoc#frag" style targets into the reference id and
// the link href.
func (st *state) xrefTarget(target string) (string, string) {
	file, frag, hasFrag := strings.Cut(target, "#")
	if !hasFrag {
		if ext := path.Ext(file); ext == ".adoc" || ext == ".asciidoc" || ext == ".asc" {
			return "", st.outputPath(file)
		}
		return target, "#" + target
	}
	if file == "" {
		return frag, "#" + frag
	}
	href := st.outputPath(file)
	if frag != "" {
		href += "#" + frag
	}
	return frag, href
}

func (st *state) outputPath(file string) string {
	suffix := st.s.table.Value("outfilesuffix", ".html")
	if ext := path.Ext(file); ext != "" {
		file = strings.TrimSuffix(file, ext)
	}
	return file + suffix
}

type titleSource interface {
	RawTitle() string
	ConvertedTitle() (string, bool)
}

// resolveXref returns the display text for an internal reference. Titles of
// nodes not yet reached by the substitution pass get a light conversion.
func (st *state) resolveXref(id string) (string, bool) {
	entry, ok := st.s.ids.Lookup(id)
	if !ok {
		return "", false
	}
	if entry.Reftext != "" {
		return st.s.Apply(entry.Reftext, reftextSubs), true
	}
	if node, ok := entry.Node.(titleSource); ok {
		if converted, done := node.ConvertedTitle(); done {
			return converted, true
		}
		if raw := node.RawTitle(); raw != "" {
			return st.s.Apply(raw, reftextSubs), true
		}
	}
	return st.s.ids.Resolve(id)
}

var reftextSubs = []interfaces.Substitution{
	interfaces.SubSpecialCharacters,
	interfaces.SubQuotes,
	interfaces.SubReplacements,
}

func unescapeBracket(s string) string {
	return strings.ReplaceAll(s, `\]`, "]")
}
