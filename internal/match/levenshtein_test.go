package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevenshtein(t *testing.T) {
	t.Parallel()

	tests := []struct {
		a        string
		b        string
		expected int
	}{
		{"", "", 0},
		{"hello", "hello", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"a", "b", 1},
		{"a", "ab", 1},
		{"abc", "ab", 1},
		{"kitten", "sitting", 3},
		{"saturday", "sunday", 3},
		{"Hello", "hello", 1},
		{"adress", "address", 1},
		{"straße", "strasse", 2}, // counted in runes, not bytes
	}

	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, Levenshtein(tt.a, tt.b))
			assert.Equal(t, tt.expected, Levenshtein(tt.b, tt.a), "symmetry")
		})
	}
}

func TestSimilarity(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 1.0, Similarity("", ""), 0.001)
	assert.InDelta(t, 0.0, Similarity("abc", "xyz"), 0.001)
	assert.InDelta(t, 1.0-3.0/7.0, Similarity("kitten", "sitting"), 0.001)

	assert.InDelta(t, 1.0, NameSimilarity("CustomerName", "customer_name"), 0.001)
	assert.InDelta(t, 1.0, NameSimilarity("OrderID", "orderid"), 0.001)
	assert.Less(t, NameSimilarity("Email", "Password"), 0.5)
}

func BenchmarkLevenshtein(b *testing.B) {
	for b.Loop() {
		Levenshtein("ShipAddress", "ShippedDate")
	}
}
