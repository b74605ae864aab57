package matchindex

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildFindsMatches(t *testing.T) {
	dict := ToRunes([]string{"hello world"})
	payload := []rune("world peace")

	idx := Build(dict, payload, 2, 0)
	cands := idx[0]
	assert.NotEmpty(t, cands)

	found := false
	for _, c := range cands {
		if c.DocIndex == 0 && c.Offset == 6 && c.Length == 5 {
			found = true
		}
	}
	assert.True(t, found, "expected a length-5 match at offset 6")
}

func TestBuildRecordsAllLengthsAboveThreshold(t *testing.T) {
	dict := ToRunes([]string{"abcdef"})
	payload := []rune("abcdef")

	idx := Build(dict, payload, 2, 0)
	lengths := map[int]bool{}
	for _, c := range idx[0] {
		lengths[c.Length] = true
	}
	assert.True(t, lengths[3])
	assert.True(t, lengths[4])
	assert.True(t, lengths[5])
	assert.True(t, lengths[6])
	assert.False(t, lengths[2], "lengths at or below the threshold must be excluded")
}

func TestBuildRespectsCandidateCap(t *testing.T) {
	dict := ToRunes([]string{"aaaaaaaaaa"})
	payload := []rune("aaaaaaaaaa")

	idx := Build(dict, payload, 0, 3)
	assert.LessOrEqual(t, len(idx[0]), 3)
}

func TestMaxEntryLen(t *testing.T) {
	dict := ToRunes([]string{"short", "a longer entry"})
	assert.Equal(t, len("a longer entry"), MaxEntryLen(dict))
}

func TestBuildEmptyDictionaryYieldsNoCandidates(t *testing.T) {
	idx := Build(nil, []rune("payload"), 2, 0)
	for _, c := range idx {
		assert.Empty(t, c)
	}
}
