// scanner.go implements the bracket-aware scanning primitives every entity parser builds on.
package keymap

import (
	"regexp"
	"strings"
	"unicode"
)

// NotFound is returned by FindMatching when the delimiter never closes.
const NotFound = -1

// closers maps each opening delimiter to its closing counterpart.
var closers = map[byte]byte{
	'(': ')',
	'{': '}',
	'[': ']',
}

// FindMatching returns the index of the delimiter closing the one at open.
// Only the same delimiter pair is counted; string and character literals
// are skipped. Returns NotFound if depth never returns to zero.
func FindMatching(text string, open int) int {
	if open < 0 || open >= len(text) {
		return NotFound
	}
	opener := text[open]
	closer, ok := closers[opener]
	if !ok {
		return NotFound
	}

	depth := 0
	for i := open; i < len(text); i++ {
		switch c := text[i]; c {
		case '"', '\'':
			i = skipLiteral(text, i)
		case opener:
			depth++
		case closer:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return NotFound
}

// skipLiteral returns the index of the quote closing the literal at pos.
func skipLiteral(text string, pos int) int {
	quote := text[pos]
	for i := pos + 1; i < len(text); i++ {
		switch text[i] {
		case '\\':
			i++
		case quote:
			return i
		case '\n':
			// unterminated literal; resume scanning on the next line
			return i
		}
	}
	return len(text) - 1
}

// SplitArgs splits an argument list on top-level commas. A comma is
// top-level when parenthesis, bracket and brace depth are all zero.
// Parts are trimmed; a trailing empty part (trailing comma) is dropped.
func SplitArgs(text string) []string {
	var parts []string
	depth := 0
	start := 0

	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '"', '\'':
			i = skipLiteral(text, i)
		case '(', '{', '[':
			depth++
		case ')', '}', ']':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, strings.TrimSpace(text[start:i]))
				start = i + 1
			}
		}
	}

	if last := strings.TrimSpace(text[start:]); last != "" {
		parts = append(parts, last)
	}
	return parts
}

// StripComments removes /* */ and // comments that are not inside literals.
// Newlines inside block comments are kept so line structure survives.
func StripComments(text string) string {
	var sb strings.Builder
	sb.Grow(len(text))

	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case c == '"' || c == '\'':
			end := skipLiteral(text, i)
			sb.WriteString(text[i : end+1])
			i = end
		case c == '/' && i+1 < len(text) && text[i+1] == '*':
			end := strings.Index(text[i+2:], "*/")
			if end < 0 {
				return sb.String()
			}
			sb.WriteString(strings.Repeat("\n", strings.Count(text[i:i+2+end], "\n")))
			i += 2 + end + 1
		case c == '/' && i+1 < len(text) && text[i+1] == '/':
			end := strings.IndexByte(text[i:], '\n')
			if end < 0 {
				return sb.String()
			}
			i += end - 1
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

// CompactWhitespace removes all whitespace and line continuations from a
// single argument, so LT(1, KC_A) becomes LT(1,KC_A).
func CompactWhitespace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '\\' {
			return -1
		}
		return r
	}, s)
}

// User section markers.
const (
	userIncludeBegin = "/* USER INCLUDE BEGIN */"
	userIncludeEnd   = "/* USER INCLUDE END */"
	userCodeBegin    = "/* USER CODE BEGIN */"
	userCodeEnd      = "/* USER CODE END */"
)

// ExtractUserSections returns the trimmed bodies of the user include and
// user code blocks. It must run before StripComments, since the markers
// are themselves comments.
func ExtractUserSections(text string) (includes, code string) {
	return between(text, userIncludeBegin, userIncludeEnd), between(text, userCodeBegin, userCodeEnd)
}

func between(text, begin, end string) string {
	start := strings.Index(text, begin)
	if start < 0 {
		return ""
	}
	start += len(begin)
	stop := strings.Index(text[start:], end)
	if stop < 0 {
		return ""
	}
	return strings.TrimSpace(text[start : start+stop])
}

// findBlock locates a declaration matched by decl, whose match must end at
// an opening delimiter, and returns the text between that delimiter and its
// match. found is false when the declaration is absent.
func findBlock(text string, decl *regexp.Regexp, entity string) (body string, found bool, err error) {
	loc := decl.FindStringIndex(text)
	if loc == nil {
		return "", false, nil
	}
	open := loc[1] - 1
	end := FindMatching(text, open)
	if end == NotFound {
		return "", true, unbalanced(entity, open)
	}
	return text[open+1 : end], true, nil
}

// call is one NAME(args) occurrence found by nextCall.
type call struct {
	Name string
	Args string
	End  int // index just past the closing parenthesis
}

// nextCall finds the next call whose head matches head (which must end
// with the opening parenthesis) at or after from. ok is false when no
// further call exists.
func nextCall(text string, head *regexp.Regexp, from int, entity string) (c call, ok bool, err error) {
	if from >= len(text) {
		return call{}, false, nil
	}
	loc := head.FindStringIndex(text[from:])
	if loc == nil {
		return call{}, false, nil
	}
	open := from + loc[1] - 1
	end := FindMatching(text, open)
	if end == NotFound {
		return call{}, false, unbalanced(entity, open)
	}
	name := strings.TrimSpace(strings.TrimSuffix(text[from+loc[0]:open+1], "("))
	return call{Name: name, Args: text[open+1 : end], End: end + 1}, true, nil
}
