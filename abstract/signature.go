package abstract

import (
	"strconv"
	"strings"

	"github.com/gradforge/gradforge/immutable"
)

// SignatureKey returns a canonical string identifying this AbstractValue
// for cache-keying purposes: its kind, shape (if an array), element
// signatures (if composite), and -- when HasLiteral -- its literal. Two
// values with equal SignatureKey are the same normalize_args output
// (§4.3 Caching).
func (v Value) SignatureKey() string {
	var b strings.Builder
	v.writeKey(&b)
	return b.String()
}

func (v Value) writeKey(b *strings.Builder) {
	b.WriteString(v.Kind.String())
	switch v.Kind {
	case KindArray:
		b.WriteString(v.Shape.String())
	case KindTuple, KindList:
		b.WriteString("[")
		for i, e := range v.Elements {
			if i > 0 {
				b.WriteString(",")
			}
			e.writeKey(b)
		}
		b.WriteString("]")
	case KindClass:
		b.WriteString(":")
		b.WriteString(v.Class)
	case KindFunction:
		if v.FnKnown {
			b.WriteString(":")
			b.WriteString(v.FnSymbol.String())
		}
	case KindScalar:
		// no further structure
	}
	if v.HasLiteral {
		b.WriteString("=")
		b.WriteString(literalString(v.Literal))
	}
}

func literalString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return "?"
	}
}

// CacheKey builds the canonical [immutable.Key] a meta-graph cache uses
// to look up a previously generated Graph for a normalized argument
// signature (§4.3 Caching, §8 property 6).
func CacheKey(args []Value) immutable.Key {
	components := make([]any, len(args))
	for i, a := range args {
		components[i] = a.SignatureKey()
	}
	return immutable.WrapKey(components)
}
