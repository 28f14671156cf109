// Package payload turns an unreliable raw request body into a structured
// financial profile. Bodies arrive strictly encoded, escaped one level too
// many, form-wrapped, or serialized with non-standard quoting; an ordered
// chain of parse strategies absorbs all of those shapes.
package payload

import (
	"encoding/json"
	"net/url"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pulsovital/financials/finance"
)

const previewLimit = 400

// Preview truncates text for diagnostics and logs, so malformed bodies never
// reach error messages or log lines whole.
func Preview(s string) string {
	if len(s) > previewLimit {
		return s[:previewLimit]
	}
	return s
}

// DecodeError reports a body no strategy could parse.
type DecodeError struct {
	Preview string
}

func (e *DecodeError) Error() string {
	return "no decode strategy matched body: " + e.Preview
}

// InvalidPayloadError reports a body that parsed to something other than an
// object.
type InvalidPayloadError struct {
	Preview string
}

func (e *InvalidPayloadError) Error() string {
	return "decoded payload is not an object: " + e.Preview
}

// MissingProfileError reports a payload without a usable datos_crudos
// section.
type MissingProfileError struct{}

func (e *MissingProfileError) Error() string {
	return "datos_crudos is missing, not an object, or empty"
}

// A strategy either parses the text or signals that it did not match.
type strategy func(text string) (any, bool)

var strategies = []strategy{
	parseStrict,
	parseUnescaped,
	parseForm,
	parseLiteral,
}

// Decode parses a raw request body into a typed profile and flags.
//
// Strategies run in order, first success wins: strict JSON, heuristic
// unescape then strict JSON, "body="-prefixed form decoding, and a
// permissive map/list literal parse. A top-level string result is unwrapped
// and re-decoded (double-encoded documents). The flags section is optional
// and tolerated in any broken shape; the profile section is not.
func Decode(text string) (finance.Profile, finance.Flags, error) {
	v, ok := decodeValue(text)
	if !ok {
		return finance.Profile{}, finance.Flags{}, &DecodeError{Preview: Preview(text)}
	}

	// Unwrap documents encoded once or twice as a string.
	for i := 0; i < 2; i++ {
		s, isString := v.(string)
		if !isString {
			break
		}
		inner, ok := parseMaybeEscaped(s)
		if !ok {
			return finance.Profile{}, finance.Flags{}, &DecodeError{Preview: Preview(s)}
		}
		v = inner
	}

	doc, ok := v.(map[string]any)
	if !ok {
		return finance.Profile{}, finance.Flags{}, &InvalidPayloadError{Preview: Preview(text)}
	}

	rawProfile := doc["datos_crudos"]
	if s, isString := rawProfile.(string); isString {
		inner, ok := parseMaybeEscaped(s)
		if !ok {
			return finance.Profile{}, finance.Flags{}, &MissingProfileError{}
		}
		rawProfile = inner
	}
	profileMap, ok := rawProfile.(map[string]any)
	if !ok || len(profileMap) == 0 {
		return finance.Profile{}, finance.Flags{}, &MissingProfileError{}
	}

	flagsMap, _ := doc["flags"].(map[string]any)

	return finance.ProfileFrom(profileMap), finance.FlagsFrom(flagsMap), nil
}

func decodeValue(text string) (any, bool) {
	for _, parse := range strategies {
		if v, ok := parse(text); ok {
			return v, true
		}
	}
	return nil, false
}

func parseStrict(text string) (any, bool) {
	var v any
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return nil, false
	}
	return v, true
}

// parseUnescaped handles bodies whose whitespace arrived as literal
// two-character escape sequences outside of string literals.
func parseUnescaped(text string) (any, bool) {
	if !looksEscaped(text) {
		return nil, false
	}
	return parseStrict(unescape(text))
}

// parseForm handles bodies submitted as a form field: "body=" followed by
// the URL-encoded document, with + standing for space.
func parseForm(text string) (any, bool) {
	rest, found := strings.CutPrefix(text, "body=")
	if !found {
		return nil, false
	}
	decoded, err := url.QueryUnescape(rest)
	if err != nil {
		return nil, false
	}
	if v, ok := parseStrict(decoded); ok {
		return v, true
	}
	return parseUnescaped(decoded)
}

// parseLiteral accepts map/list literals with non-standard quoting (single
// quotes, unquoted keys) via YAML flow syntax. Only attempted on texts that
// look like a literal, and only container results count, so arbitrary junk
// is not slurped into a scalar.
func parseLiteral(text string) (any, bool) {
	t := strings.TrimSpace(text)
	if !strings.HasPrefix(t, "{") && !strings.HasPrefix(t, "[") {
		return nil, false
	}
	var v any
	if err := yaml.Unmarshal([]byte(t), &v); err != nil {
		return nil, false
	}
	switch v.(type) {
	case map[string]any, []any:
		return v, true
	}
	return nil, false
}

// parseMaybeEscaped re-decodes an unwrapped string value, trying the
// unescaped form first when the text shows escape-sequence symptoms.
func parseMaybeEscaped(text string) (any, bool) {
	if looksEscaped(text) {
		if v, ok := parseStrict(unescape(text)); ok {
			return v, true
		}
	}
	return parseStrict(text)
}

// looksEscaped detects literal \n, \t, \r sequences sitting outside string
// literals: they show up near the start of the text, or densely in the
// first ~200 characters.
func looksEscaped(text string) bool {
	head := text
	if len(head) > 200 {
		head = head[:200]
	}
	count := 0
	for _, esc := range []string{`\n`, `\t`, `\r`} {
		if i := strings.Index(head, esc); i >= 0 && i < 20 {
			return true
		}
		count += strings.Count(head, esc)
	}
	return count >= 4
}

var whitespaceUnescaper = strings.NewReplacer(`\n`, "\n", `\t`, "\t", `\r`, "\r")

func unescape(text string) string {
	return whitespaceUnescaper.Replace(text)
}
