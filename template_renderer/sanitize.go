/*
	Copyright 2023 Google Inc.
	Licensed under the Apache License, Version 2.0 (the "License");
	you may not use this file except in compliance with the License.
	You may obtain a copy of the License at
		https://www.apache.org/licenses/LICENSE-2.0
	Unless required by applicable law or agreed to in writing, software
	distributed under the License is distributed on an "AS IS" BASIS,
	WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
	See the License for the specific language governing permissions and
	limitations under the License.
*/

package templaterenderer

import (
	"html"
	"regexp"
	"strings"

	"github.com/golang/glog"
	nethtml "golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// allowedTags lists the elements kept by the sanitizer.  Other elements are
// dropped, but their text content is kept.
var allowedTags = map[atom.Atom]bool{
	atom.A: true, atom.B: true, atom.Blockquote: true, atom.Br: true,
	atom.Code: true, atom.Div: true, atom.Em: true, atom.H1: true,
	atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Hr: true, atom.I: true, atom.Img: true, atom.Li: true, atom.Ol: true,
	atom.P: true, atom.Pre: true, atom.S: true, atom.Small: true,
	atom.Span: true, atom.Strong: true, atom.Sub: true, atom.Sup: true,
	atom.Table: true, atom.Tbody: true, atom.Td: true, atom.Th: true,
	atom.Thead: true, atom.Tr: true, atom.U: true, atom.Ul: true,
}

// droppedContent lists the elements dropped along with everything inside
// them.
var droppedContent = map[atom.Atom]bool{
	atom.Script: true, atom.Style: true, atom.Iframe: true, atom.Object: true,
	atom.Embed: true, atom.Noscript: true, atom.Template: true,
	atom.Textarea: true, atom.Title: true, atom.Svg: true, atom.Math: true,
	atom.Frameset: true, atom.Frame: true, atom.Noembed: true,
	atom.Noframes: true, atom.Select: true, atom.Applet: true,
}

type attrKind int

const (
	plainAttr attrKind = iota
	urlAttr
	styleAttr
)

// allowedAttrs maps attribute names to their kind.  Element-specific
// attributes are further restricted by allowedOn.
var allowedAttrs = map[string]attrKind{
	"class":   plainAttr,
	"title":   plainAttr,
	"alt":     plainAttr,
	"width":   plainAttr,
	"height":  plainAttr,
	"colspan": plainAttr,
	"rowspan": plainAttr,
	"align":   plainAttr,
	"target":  plainAttr,
	"rel":     plainAttr,
	"href":    urlAttr,
	"src":     urlAttr,
	"style":   styleAttr,
}

var allowedOn = map[string]map[atom.Atom]bool{
	"href":    {atom.A: true},
	"target":  {atom.A: true},
	"rel":     {atom.A: true},
	"src":     {atom.Img: true},
	"alt":     {atom.Img: true},
	"colspan": {atom.Td: true, atom.Th: true},
	"rowspan": {atom.Td: true, atom.Th: true},
}

// allowedCSS lists the CSS properties kept in style attributes.
var allowedCSS = map[string]bool{
	"color": true, "background-color": true, "font-weight": true,
	"font-style": true, "font-size": true, "font-family": true,
	"text-align": true, "text-decoration": true, "text-transform": true,
	"line-height": true, "letter-spacing": true, "white-space": true,
	"margin": true, "margin-top": true, "margin-right": true,
	"margin-bottom": true, "margin-left": true, "padding": true,
	"padding-top": true, "padding-right": true, "padding-bottom": true,
	"padding-left": true, "border": true, "border-top": true,
	"border-bottom": true, "border-left": true, "border-right": true,
	"border-color": true, "border-radius": true, "border-width": true,
	"border-style": true, "width": true, "height": true, "max-width": true,
	"display": true, "opacity": true, "vertical-align": true,
}

var (
	placeholderRE = regexp.MustCompile(`\{\{\s*([^{}]*?)\s*\}\}`)
	cssValueRE    = regexp.MustCompile(`^[#%,.\w\s()+\-'"/]*$`)
	schemeRE      = regexp.MustCompile(`(?i)((?:java|vb|live)script\s*):`)
	handlerRE     = regexp.MustCompile(`(?i)(\bon[a-z]+\s*)=`)
)

// defang character-references the colon of script URL schemes and the
// equals sign of event-handler assignments in already-escaped text, so
// that neither appears verbatim in the output.  The rendered text is
// unchanged.
func defang(escaped string) string {
	escaped = schemeRE.ReplaceAllString(escaped, "${1}&#58;")
	return handlerRE.ReplaceAllString(escaped, "${1}&#61;")
}

// escape HTML-escapes and defangs text.
func escape(text string) string {
	return defang(html.EscapeString(text))
}

// piece is a literal string or, if path is set, a placeholder.
type piece struct {
	literal string
	path    string
	isPath  bool
}

func split(s string) []piece {
	var ret []piece
	last := 0
	for _, m := range placeholderRE.FindAllStringSubmatchIndex(s, -1) {
		if m[0] > last {
			ret = append(ret, piece{literal: s[last:m[0]]})
		}
		ret = append(ret, piece{path: s[m[2]:m[3]], isPath: true})
		last = m[1]
	}
	if last < len(s) {
		ret = append(ret, piece{literal: s[last:]})
	}
	return ret
}

// segment is one part of a compiled template: safe literal markup, a text
// placeholder, or an attribute whose value contains placeholders.
type segment struct {
	markup string
	// Set for escaped literal text.
	text string
	// Set for text placeholders.
	path   string
	isPath bool
	// Set for attributes with interpolated values.
	attrName  string
	attrKind  attrKind
	attrValue []piece
}

// safeCSS returns the allowed declarations of a style attribute value, and
// whether anything was removed.
func safeCSS(style string) (string, bool) {
	var kept []string
	stripped := false
	for _, decl := range strings.Split(style, ";") {
		decl = strings.TrimSpace(decl)
		if decl == "" {
			continue
		}
		name, value, ok := strings.Cut(decl, ":")
		name = strings.ToLower(strings.TrimSpace(name))
		value = strings.TrimSpace(value)
		lower := strings.ToLower(value)
		if !ok || !allowedCSS[name] || !cssValueRE.MatchString(value) ||
			strings.Contains(lower, "url(") || strings.Contains(lower, "expression(") ||
			strings.Contains(lower, "javascript:") {
			stripped = true
			continue
		}
		kept = append(kept, name+": "+value)
	}
	return strings.Join(kept, "; "), stripped
}

var safeSchemes = map[string]bool{"http": true, "https": true, "mailto": true}

// safeURL returns true if u is relative, or uses an allowed scheme.
func safeURL(u string) bool {
	u = strings.TrimSpace(u)
	// Control characters and whitespace don't break up a scheme.
	cleaned := strings.Map(func(r rune) rune {
		if r <= ' ' || r == 0x7f {
			return -1
		}
		return r
	}, u)
	colon := strings.IndexByte(cleaned, ':')
	if colon < 0 {
		return true
	}
	if slash := strings.IndexAny(cleaned, "/?#"); slash >= 0 && slash < colon {
		// The colon is in a path, query, or fragment.
		return true
	}
	return safeSchemes[strings.ToLower(cleaned[:colon])]
}

// attrValue returns the sanitized form of a literal attribute value, or
// false if the attribute must be dropped.
func attrValue(kind attrKind, val string) (string, bool) {
	switch kind {
	case urlAttr:
		return val, safeURL(val)
	case styleAttr:
		css, _ := safeCSS(val)
		return css, css != ""
	}
	return val, true
}

func writeAttr(sb *strings.Builder, name, val string) {
	sb.WriteByte(' ')
	sb.WriteString(name)
	sb.WriteString(`="`)
	sb.WriteString(escape(val))
	sb.WriteByte('"')
}

// sanitize tokenizes src and returns its allowed content as segments.
// Anything the tokenizer can't interpret is dropped.
func sanitize(src string) (segments []segment, stripped int) {
	var sb strings.Builder
	flush := func() {
		if sb.Len() > 0 {
			segments = append(segments, segment{markup: sb.String()})
			sb.Reset()
		}
	}
	var open []atom.Atom
	skipDepth := 0
	z := nethtml.NewTokenizer(strings.NewReader(src))
	for {
		tt := z.Next()
		if tt == nethtml.ErrorToken {
			break
		}
		tok := z.Token()
		switch tt {
		case nethtml.TextToken:
			if skipDepth > 0 {
				continue
			}
			for _, p := range split(tok.Data) {
				if p.isPath {
					flush()
					segments = append(segments, segment{path: p.path, isPath: true})
				} else if p.literal != "" {
					flush()
					segments = append(segments, segment{text: html.EscapeString(p.literal)})
				}
			}
		case nethtml.StartTagToken, nethtml.SelfClosingTagToken:
			if droppedContent[tok.DataAtom] {
				stripped++
				if tt == nethtml.StartTagToken {
					skipDepth++
				}
				continue
			}
			if skipDepth > 0 {
				continue
			}
			if !allowedTags[tok.DataAtom] {
				stripped++
				continue
			}
			sb.WriteByte('<')
			sb.WriteString(tok.DataAtom.String())
			for _, a := range tok.Attr {
				name := strings.ToLower(a.Key)
				kind, ok := allowedAttrs[name]
				if ok && allowedOn[name] != nil && !allowedOn[name][tok.DataAtom] {
					ok = false
				}
				if !ok || a.Namespace != "" {
					stripped++
					continue
				}
				if pieces := split(a.Val); hasPath(pieces) {
					flush()
					segments = append(segments, segment{attrName: name, attrKind: kind, attrValue: pieces})
					continue
				}
				val, ok := attrValue(kind, a.Val)
				if !ok {
					stripped++
					continue
				}
				writeAttr(&sb, name, val)
			}
			sb.WriteByte('>')
			if tt == nethtml.StartTagToken && !isVoid(tok.DataAtom) {
				open = append(open, tok.DataAtom)
			}
		case nethtml.EndTagToken:
			if droppedContent[tok.DataAtom] {
				if skipDepth > 0 {
					skipDepth--
				}
				continue
			}
			if skipDepth > 0 || !allowedTags[tok.DataAtom] {
				continue
			}
			// Close the matching open element, and everything opened
			// within it.
			for idx := len(open) - 1; idx >= 0; idx-- {
				if open[idx] != tok.DataAtom {
					continue
				}
				for len(open) > idx {
					sb.WriteString("</" + open[len(open)-1].String() + ">")
					open = open[:len(open)-1]
				}
				break
			}
		case nethtml.CommentToken, nethtml.DoctypeToken:
			stripped++
		}
	}
	for len(open) > 0 {
		sb.WriteString("</" + open[len(open)-1].String() + ">")
		open = open[:len(open)-1]
	}
	flush()
	if stripped > 0 {
		glog.Warningf("template sanitizer removed %d disallowed items", stripped)
	}
	return segments, stripped
}

func hasPath(pieces []piece) bool {
	for _, p := range pieces {
		if p.isPath {
			return true
		}
	}
	return false
}

func isVoid(a atom.Atom) bool {
	switch a {
	case atom.Br, atom.Hr, atom.Img:
		return true
	}
	return false
}
