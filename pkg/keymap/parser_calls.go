// parser_calls.go holds the shared loop for entities stored as NAME(...) calls inside an array.
package keymap

import "regexp"

// collectCalls walks the array matched by decl and hands the split
// arguments of every head call to accept until limit entries are accepted.
// accept returns false for a malformed call, which is skipped.
// found reports whether the array exists at all.
func collectCalls(text string, decl, head *regexp.Regexp, limit int, entity string, w *Warnings, accept func(index int, args []string) bool) (found bool, n int, err error) {
	body, found, err := findBlock(text, decl, entity)
	if err != nil || !found {
		return found, 0, err
	}

	pos := 0
	for {
		c, ok, err := nextCall(body, head, pos, entity)
		if err != nil {
			return true, n, err
		}
		if !ok {
			break
		}
		pos = c.End
		if n == limit {
			w.Add("more %s entries than %d declared, extras ignored", entity, limit)
			break
		}
		if accept(n, SplitArgs(c.Args)) {
			n++
		}
	}
	if n < limit {
		w.Add("found %d of %d %s entries, padding with defaults", n, limit, entity)
	}
	return true, n, nil
}
