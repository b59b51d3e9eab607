package internal

import (
	"maps"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIterSeq2Concat(t *testing.T) {
	assert := assert.New(t)

	a := slices.All([]string{"a", "b"})
	b := slices.All([]string{"c"})

	var keys []int
	var values []string
	for key, value := range IterSeq2Concat(a, b) {
		keys = append(keys, key)
		values = append(values, value)
	}

	assert.Equal([]int{0, 1, 0}, keys)
	assert.Equal([]string{"a", "b", "c"}, values)

	// Later sequences override earlier ones when collected.
	merged := maps.Collect(IterSeq2Concat(
		maps.All(map[string]int{"x": 1, "y": 2}),
		maps.All(map[string]int{"y": 3}),
	))
	assert.Equal(map[string]int{"x": 1, "y": 3}, merged)

	// Early exit.
	count := 0
	for range IterSeq2Concat(a, b) {
		count++
		if count == 2 {
			break
		}
	}
	assert.Equal(2, count)
}
