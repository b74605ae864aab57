package matchindex

import (
	"hash"
	"hash/fnv"
)

// trigramFilter is a Bloom filter over the dictionary's 3-rune windows:
// before Build scans every dictionary entry at a payload position, it first
// asks the filter whether the next three runes could possibly start a match
// anywhere in the dictionary at all. A negative answer is certain (no false
// negatives) and skips the O(|D|) inner scan outright; a positive answer
// still requires the real scan, since the filter cannot rule out a false
// positive.
type trigramFilter struct {
	bits    []bool
	hashers []hash.Hash32
}

const trigramWindow = 3

// newTrigramFilter sizes the bitset at 8 bits per expected trigram (a
// conventional Bloom sizing for a handful-of-percent false-positive rate at
// 2-3 hash functions) and uses two independent FNV variants as its hash
// functions.
func newTrigramFilter(expectedTrigrams int) *trigramFilter {
	m := expectedTrigrams * 8
	if m < 64 {
		m = 64
	}
	return &trigramFilter{
		bits:    make([]bool, m),
		hashers: []hash.Hash32{fnv.New32(), fnv.New32a()},
	}
}

func (f *trigramFilter) add(trigram []rune) {
	key := string(trigram)
	for _, h := range f.hashers {
		h.Reset()
		h.Write([]byte(key))
		f.bits[int(h.Sum32())%len(f.bits)] = true
	}
}

// mayContain reports whether trigram could possibly occur in the
// dictionary. false is certain; true requires confirmation by the caller.
func (f *trigramFilter) mayContain(trigram []rune) bool {
	key := string(trigram)
	for _, h := range f.hashers {
		h.Reset()
		h.Write([]byte(key))
		if !f.bits[int(h.Sum32())%len(f.bits)] {
			return false
		}
	}
	return true
}

// buildTrigramFilter indexes every 3-rune window of every dictionary entry.
// Entries shorter than trigramWindow contribute nothing and are simply
// never hit by mayContain, which is correct: they can never satisfy the
// minSavings>2 threshold Build enforces.
func buildTrigramFilter(dictRunes [][]rune) *trigramFilter {
	expected := 0
	for _, entry := range dictRunes {
		if len(entry) >= trigramWindow {
			expected += len(entry) - trigramWindow + 1
		}
	}

	f := newTrigramFilter(expected)
	for _, entry := range dictRunes {
		for o := 0; o+trigramWindow <= len(entry); o++ {
			f.add(entry[o : o+trigramWindow])
		}
	}
	return f
}
