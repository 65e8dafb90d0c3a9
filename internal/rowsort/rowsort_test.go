package rowsort

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_By(t *testing.T) {
	assert := assert.New(t)

	input := []string{
		"c9e0-row",
		"11ab-row",
		"8d27-row",
	}

	expect := []string{
		"11ab-row",
		"8d27-row",
		"c9e0-row",
	}

	actual := By(input, func(left, right string) bool {
		return left < right
	})

	assert.Equal(expect, actual)

	// input must be left unmodified
	assert.Equal([]string{"c9e0-row", "11ab-row", "8d27-row"}, input)
}

func Test_By_EmptyAndNilCases(t *testing.T) {
	assert := assert.New(t)

	assert.Empty(By([]int{}, func(l, r int) bool { return l < r }))
	assert.Equal([]int{3, 1}, By([]int{3, 1}, nil))
}
