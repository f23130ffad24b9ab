package parse

import (
	"strings"
)

// cursor is a forward-only lexical reader over source text. It recognizes
// just enough of the declaration grammar (annotations, modifiers, type
// tokens, identifiers, balanced brackets) to recover signatures; it never
// builds a tree.
type cursor struct {
	src string
	pos int
}

type annotation struct {
	name string // last segment of the qualified name, without "@"
	args string // text between the parentheses, "" when absent
}

var modifierWords = map[string]struct{}{
	"public":       {},
	"protected":    {},
	"private":      {},
	"static":       {},
	"final":        {},
	"abstract":     {},
	"synchronized": {},
	"native":       {},
	"transient":    {},
	"volatile":     {},
	"default":      {},
	"strictfp":     {},
}

func (c *cursor) eof() bool { return c.pos >= len(c.src) }

func (c *cursor) peek() byte {
	if c.eof() {
		return 0
	}
	return c.src[c.pos]
}

func (c *cursor) skipSpace() {
	for !c.eof() {
		switch c.src[c.pos] {
		case ' ', '\t', '\n', '\r', '\f':
			c.pos++
		default:
			return
		}
	}
}

func isIdentStart(b byte) bool {
	return b == '_' || b == '$' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isIdentPart(b byte) bool {
	return isIdentStart(b) || (b >= '0' && b <= '9')
}

// ident reads one identifier after optional whitespace.
func (c *cursor) ident() (string, bool) {
	c.skipSpace()
	if c.eof() || !isIdentStart(c.src[c.pos]) {
		return "", false
	}
	start := c.pos
	for !c.eof() && isIdentPart(c.src[c.pos]) {
		c.pos++
	}
	return c.src[start:c.pos], true
}

// qualifiedIdent reads a dotted identifier such as "java.util.List".
func (c *cursor) qualifiedIdent() (string, bool) {
	first, ok := c.ident()
	if !ok {
		return "", false
	}
	name := first
	for {
		save := c.pos
		c.skipSpace()
		if c.peek() != '.' {
			c.pos = save
			return name, true
		}
		c.pos++
		next, ok := c.ident()
		if !ok {
			c.pos = save
			return name, true
		}
		name += "." + next
	}
}

// balanced reads a bracketed group starting at the current (non-space)
// character, which must be open. It returns the inner text and leaves the
// cursor after the matching close. String and char literals are skipped so
// brackets inside them do not count.
func (c *cursor) balanced(open, close byte) (string, bool) {
	c.skipSpace()
	if c.peek() != open {
		return "", false
	}
	start := c.pos + 1
	depth := 0
	for !c.eof() {
		switch ch := c.src[c.pos]; ch {
		case '"', '\'':
			c.skipLiteral()
			continue
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				inner := c.src[start:c.pos]
				c.pos++
				return inner, true
			}
		}
		c.pos++
	}
	return "", false
}

// skipLiteral advances past a string, text block or char literal starting
// at the cursor. An unterminated literal runs to end of input.
func (c *cursor) skipLiteral() {
	if strings.HasPrefix(c.src[c.pos:], `"""`) {
		end := strings.Index(c.src[c.pos+3:], `"""`)
		if end < 0 {
			c.pos = len(c.src)
			return
		}
		c.pos += 3 + end + 3
		return
	}
	quote := c.src[c.pos]
	c.pos++
	for !c.eof() {
		switch c.src[c.pos] {
		case '\\':
			c.pos += 2
			continue
		case quote:
			c.pos++
			return
		case '\n':
			return
		}
		c.pos++
	}
}

// annotation reads one "@Name" or "@Name(args)". "@interface" is not an
// annotation.
func (c *cursor) annotation() (annotation, bool) {
	save := c.pos
	c.skipSpace()
	if c.peek() != '@' {
		c.pos = save
		return annotation{}, false
	}
	c.pos++
	name, ok := c.qualifiedIdent()
	if !ok || name == "interface" {
		c.pos = save
		return annotation{}, false
	}
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	a := annotation{name: name}
	afterName := c.pos
	c.skipSpace()
	if c.peek() == '(' {
		args, ok := c.balanced('(', ')')
		if !ok {
			c.pos = save
			return annotation{}, false
		}
		a.args = args
	} else {
		c.pos = afterName
	}
	return a, true
}

// annotations reads zero or more consecutive annotations.
func (c *cursor) annotations() []annotation {
	var out []annotation
	for {
		a, ok := c.annotation()
		if !ok {
			return out
		}
		out = append(out, a)
	}
}

// modifiers reads zero or more modifier keywords.
func (c *cursor) modifiers() []string {
	var out []string
	for {
		save := c.pos
		word, ok := c.ident()
		if !ok {
			return out
		}
		if _, isMod := modifierWords[word]; !isMod {
			c.pos = save
			return out
		}
		out = append(out, word)
	}
}

// typeParams skips a generic method type-parameter list such as "<T>".
func (c *cursor) typeParams() {
	save := c.pos
	c.skipSpace()
	if c.peek() != '<' {
		c.pos = save
		return
	}
	if _, ok := c.balanced('<', '>'); !ok {
		c.pos = save
	}
}

// typeToken reads a type: a qualified name, an optional generic segment and
// any array brackets or varargs marker. Whitespace inside the token is
// collapsed to single spaces.
func (c *cursor) typeToken() (string, bool) {
	save := c.pos
	name, ok := c.qualifiedIdent()
	if !ok {
		c.pos = save
		return "", false
	}
	var b strings.Builder
	b.WriteString(name)

	mark := c.pos
	c.skipSpace()
	if c.peek() == '<' {
		args, ok := c.balanced('<', '>')
		if !ok {
			c.pos = save
			return "", false
		}
		b.WriteString("<" + collapseSpace(args) + ">")
	} else {
		c.pos = mark
	}

	for {
		mark = c.pos
		c.skipSpace()
		switch {
		case strings.HasPrefix(c.src[c.pos:], "[]"):
			c.pos += 2
			b.WriteString("[]")
		case strings.HasPrefix(c.src[c.pos:], "..."):
			c.pos += 3
			b.WriteString("...")
		default:
			c.pos = mark
			return b.String(), true
		}
	}
}

// skipThrows skips an optional "throws A, B" clause.
func (c *cursor) skipThrows() {
	save := c.pos
	word, ok := c.ident()
	if !ok || word != "throws" {
		c.pos = save
		return
	}
	for {
		if _, ok := c.qualifiedIdent(); !ok {
			return
		}
		mark := c.pos
		c.skipSpace()
		if c.peek() != ',' {
			c.pos = mark
			return
		}
		c.pos++
	}
}

// next returns the next non-space byte without consuming it.
func (c *cursor) next() byte {
	c.skipSpace()
	return c.peek()
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// splitTopLevel splits s on commas that are not nested inside <>, (), [],
// {} or literals.
func splitTopLevel(s string) []string {
	var parts []string
	depth := 0
	start := 0
	c := cursor{src: s}
	for !c.eof() {
		switch ch := c.src[c.pos]; ch {
		case '"', '\'':
			c.skipLiteral()
			continue
		case '<', '(', '[', '{':
			depth++
		case '>', ')', ']', '}':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:c.pos])
				start = c.pos + 1
			}
		}
		c.pos++
	}
	return append(parts, s[start:])
}

// blankLiterals replaces the contents of string and char literals with
// spaces, keeping the quotes and the overall length.
func blankLiterals(s string) string {
	b := []byte(s)
	c := cursor{src: s}
	for !c.eof() {
		ch := c.src[c.pos]
		if ch != '"' && ch != '\'' {
			c.pos++
			continue
		}
		start := c.pos
		c.skipLiteral()
		for i := start + 1; i < c.pos-1 && i < len(b); i++ {
			if b[i] != '\n' && b[i] != '"' && b[i] != '\'' {
				b[i] = ' '
			}
		}
	}
	return string(b)
}
