package consensus

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/edvin/mailwatch/internal/resolver"
)

// nullKey is the comparison key of an absent record.
const nullKey = "null"

// Key returns the comparison key of a resolver answer.
func Key(a resolver.Answer) string {
	if a == nil {
		return nullKey
	}
	return Normalize(a.Raw())
}

// Normalize canonicalizes a raw record shape into an order-independent,
// type-stable string. It is only a grouping key; callers keep the original
// record as the sample.
//
// Lists keep their element order, since TXT segment order is significant,
// but nested lists are concatenated so chunking differences collapse. Maps
// are serialized with sorted keys. Scalars use their string form.
func Normalize(v any) string {
	switch x := v.(type) {
	case nil:
		return nullKey
	case string:
		return x
	case []string:
		return encode(x)
	case []any:
		elems := make([]string, len(x))
		for i, e := range x {
			elems[i] = element(e)
		}
		return encode(elems)
	case map[string]any:
		return encode(x)
	default:
		return fmt.Sprint(x)
	}
}

func element(e any) string {
	switch x := e.(type) {
	case string:
		return x
	case []string:
		return strings.Join(x, "")
	case []any:
		var b strings.Builder
		for _, inner := range x {
			b.WriteString(element(inner))
		}
		return b.String()
	default:
		return Normalize(x)
	}
}

// encode marshals v as compact JSON without HTML escaping. encoding/json
// sorts map keys, which makes field order irrelevant.
func encode(v any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Sprint(v)
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
