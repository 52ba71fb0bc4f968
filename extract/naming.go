package extract

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// propName returns the property name of an accessor, or "" when name is
// not an accessor. Boolean accessors may use the "is" prefix.
func propName(name string, boolean bool) string {
	if boolean {
		if rest, ok := cutAccessor(name, "is", "Is"); ok {
			return decapitalize(rest)
		}
	}
	if rest, ok := cutAccessor(name, "get", "Get"); ok {
		return decapitalize(rest)
	}
	return ""
}

// cutAccessor removes a prefix that is followed by an upper-case letter.
func cutAccessor(name string, prefixes ...string) (string, bool) {
	for _, p := range prefixes {
		rest, ok := strings.CutPrefix(name, p)
		if !ok {
			continue
		}
		if r, _ := utf8.DecodeRuneInString(rest); unicode.IsUpper(r) {
			return rest, true
		}
	}
	return "", false
}

// decapitalize lower-cases the first letter unless the name starts with
// two upper-case letters ("URL" stays "URL").
func decapitalize(s string) string {
	first, n := utf8.DecodeRuneInString(s)
	if second, _ := utf8.DecodeRuneInString(s[n:]); unicode.IsUpper(first) && unicode.IsUpper(second) {
		return s
	}
	return string(unicode.ToLower(first)) + s[n:]
}
