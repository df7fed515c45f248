package wishlist

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInOrder(t *testing.T) {
	items := []Item{{ID: "b", Name: "B"}, {ID: "a", Name: "A"}, {ID: "c", Name: "C"}}

	got := inOrder([]string{"c", "gone", "a", "b"}, items)
	if assert.Len(t, got, 3) {
		assert.Equal(t, "c", got[0].ID)
		assert.Equal(t, "a", got[1].ID)
		assert.Equal(t, "b", got[2].ID)
	}
	assert.Empty(t, inOrder(nil, items))
	assert.NotNil(t, inOrder(nil, nil))
}
