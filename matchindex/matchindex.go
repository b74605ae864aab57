// Package matchindex precomputes, for every payload position, the set of
// dictionary back-references worth offering to the DP compressor. The
// matcher itself is the textbook "extend while equal" scan; the candidate
// cap bounds work per position on degenerate inputs (long runs of one
// character can otherwise produce quadratic candidate lists). A trigram
// Bloom filter (prefilter.go) rules out the O(|D|) inner scan outright at
// positions that cannot possibly start a match.
package matchindex

// Candidate is one back-reference worth considering at a given payload
// position: dictionary entry d, offset o within D[d], and match length L,
// all in rune (code point) units.
type Candidate struct {
	DocIndex int
	Offset   int
	Length   int
}

// Index holds the candidates for every payload position: Index[i] is the
// set of references usable when encoding starting at position i.
type Index [][]Candidate

// ToRunes decodes every dictionary entry into its rune slice once, so the
// matcher and the DP compressor share a single code-point indexing scheme
// instead of re-decoding UTF-8 on every comparison.
func ToRunes(dict []string) [][]rune {
	out := make([][]rune, len(dict))
	for i, s := range dict {
		out[i] = []rune(s)
	}
	return out
}

// MaxEntryLen returns M_global: the maximum rune length of any dictionary
// entry, used as the bound for the reference length field width.
func MaxEntryLen(dictRunes [][]rune) int {
	m := 0
	for _, entry := range dictRunes {
		if len(entry) > m {
			m = len(entry)
		}
	}
	return m
}

// Build enumerates, for each position i in payload, every (docIndex, offset,
// length) back-reference whose length exceeds minSavings. For a given
// (docIndex, offset) pair matching at payload[i], every prefix length from
// minSavings+1 up to the full extension is recorded: the DP needs the
// shorter options too, since the longest match is not always the cheapest
// one once downstream costs are taken into account.
//
// maxCandidates caps the number of candidates kept per position (0 means
// unlimited); this is the encoder-side resource guard called out in the
// concurrency/resource model, tunable without affecting decode correctness.
func Build(dictRunes [][]rune, payload []rune, minSavings int, maxCandidates int) Index {
	mGlobal := MaxEntryLen(dictRunes)
	idx := make(Index, len(payload))

	// The trigram prefilter only ever rules out matches of length >=
	// trigramWindow; it is only sound to skip the full scan on a negative
	// answer when every candidate Build would keep is at least that long.
	usePrefilter := minSavings+1 >= trigramWindow
	var filter *trigramFilter
	if usePrefilter {
		filter = buildTrigramFilter(dictRunes)
	}

	for i := range payload {
		var cands []Candidate

		if usePrefilter && i+trigramWindow <= len(payload) && !filter.mayContain(payload[i:i+trigramWindow]) {
			idx[i] = nil
			continue
		}

	docs:
		for d, entry := range dictRunes {
			for o := range entry {
				if entry[o] != payload[i] {
					continue
				}

				maxLen := mGlobal
				if rem := len(payload) - i; rem < maxLen {
					maxLen = rem
				}
				if rem := len(entry) - o; rem < maxLen {
					maxLen = rem
				}

				l := 0
				for l < maxLen && entry[o+l] == payload[i+l] {
					l++
				}

				for length := minSavings + 1; length <= l; length++ {
					cands = append(cands, Candidate{DocIndex: d, Offset: o, Length: length})
					if maxCandidates > 0 && len(cands) >= maxCandidates {
						break docs
					}
				}
			}
		}

		idx[i] = cands
	}

	return idx
}
