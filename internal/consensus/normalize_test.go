package consensus

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/edvin/mailwatch/internal/resolver"
)

func TestNormalize_Null(t *testing.T) {
	assert.Equal(t, "null", Normalize(nil))
	assert.Equal(t, "null", Key(nil))
}

func TestNormalize_ObjectFieldOrderIrrelevant(t *testing.T) {
	a := map[string]any{"exchange": "a", "priority": 1}
	b := map[string]any{"priority": 1, "exchange": "a"}
	assert.Equal(t, Normalize(a), Normalize(b))
	assert.Equal(t, `{"exchange":"a","priority":1}`, Normalize(a))
}

func TestNormalize_NumericWidthIrrelevant(t *testing.T) {
	a := map[string]any{"exchange": "a", "priority": uint16(10)}
	b := map[string]any{"priority": 10, "exchange": "a"}
	assert.Equal(t, Normalize(a), Normalize(b))
}

func TestNormalize_ListKeepsOrder(t *testing.T) {
	assert.NotEqual(t, Normalize([]string{"a", "b"}), Normalize([]string{"b", "a"}))
	assert.Equal(t, `["a","b"]`, Normalize([]string{"a", "b"}))
}

func TestNormalize_NestedChunksCollapse(t *testing.T) {
	chunked := []any{[]string{"v=spf1 ", "include:x"}, "-all"}
	flat := []any{"v=spf1 include:x", "-all"}
	assert.Equal(t, Normalize(flat), Normalize(chunked))

	deeper := []any{[]any{"v=spf1 ", []string{"include:", "x"}}, "-all"}
	assert.Equal(t, Normalize(flat), Normalize(deeper))
}

func TestNormalize_StringsAndScalars(t *testing.T) {
	assert.Equal(t, "plain", Normalize("plain"))
	assert.Equal(t, "42", Normalize(42))
	assert.Equal(t, "true", Normalize(true))
}

func TestNormalize_NoHTMLEscaping(t *testing.T) {
	assert.Equal(t, `["a<b>&c"]`, Normalize([]string{"a<b>&c"}))
}

func TestKey_AnswersIgnoreTTL(t *testing.T) {
	a := resolver.MXAnswer{Exchange: "mx.example.com.", Priority: 10, TTLValue: 300}
	b := resolver.MXAnswer{Exchange: "mx.example.com.", Priority: 10, TTLValue: 17}
	assert.Equal(t, Key(a), Key(b))

	c := resolver.MXAnswer{Exchange: "mx.example.com.", Priority: 20}
	assert.NotEqual(t, Key(a), Key(c))

	t1 := resolver.TLSAAnswer{Usage: 3, Selector: 1, MatchingType: 1, Certificate: "AB"}
	t2 := resolver.TLSAAnswer{Usage: 3, Selector: 1, MatchingType: 1, Certificate: "ab", TTLValue: 5}
	assert.Equal(t, Key(t1), Key(t2))
}
