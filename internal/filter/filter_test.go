package filter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsCleanEmpty(t *testing.T) {
	assert.True(t, IsClean(""))
}

func TestIsCleanPlainText(t *testing.T) {
	assert.True(t, IsClean("cleantext"))
	assert.True(t, IsClean("Satsang at the Temple"))
}

func TestIsCleanRejectsEveryDenylistEntry(t *testing.T) {
	for _, word := range Denylist() {
		assert.False(t, IsClean("foo "+word+" bar"), word)
		assert.False(t, IsClean("foo "+strings.ToUpper(word)+" bar"), word)
	}
}

func TestIsCleanMatchesInsideLongerWords(t *testing.T) {
	// substring semantics: an innocuous word containing an entry is rejected
	assert.False(t, IsClean("Shitake mushrooms"))
	assert.False(t, IsClean("Saalasar Dham"))
}

func TestAllClean(t *testing.T) {
	assert.True(t, AllClean("Satsang", "", "Temple"))
	assert.False(t, AllClean("Satsang", "Gandu road"))
}

func TestDenylistReturnsCopy(t *testing.T) {
	list := Denylist()
	list[0] = "changed"
	assert.NotEqual(t, "changed", Denylist()[0])
}
