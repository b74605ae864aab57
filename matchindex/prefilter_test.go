package matchindex

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrigramFilterNoFalseNegatives(t *testing.T) {
	dictRunes := ToRunes([]string{"the quick brown fox", "jumps over the lazy dog"})
	f := buildTrigramFilter(dictRunes)

	for _, entry := range dictRunes {
		for o := 0; o+trigramWindow <= len(entry); o++ {
			assert.True(t, f.mayContain(entry[o:o+trigramWindow]), "trigram %q must be reported present", string(entry[o:o+trigramWindow]))
		}
	}
}

func TestTrigramFilterRejectsAbsentTrigram(t *testing.T) {
	dictRunes := ToRunes([]string{"aaaaaaaaaa"})
	f := buildTrigramFilter(dictRunes)

	assert.False(t, f.mayContain([]rune("xyz")))
}

// The prefilter must never change Build's result, only its internal work:
// a position that the filter would skip has no candidates anyway once
// minSavings enforces length >= trigramWindow.
func TestBuildPrefilterDoesNotChangeResults(t *testing.T) {
	dict := ToRunes([]string{"the quick brown fox jumps over the lazy dog"})
	payload := []rune("a completely unrelated string with no match xyz")

	idx := Build(dict, payload, 2, 0)
	for i, c := range idx {
		assert.Emptyf(t, c, "position %d should have no candidates", i)
	}
}
