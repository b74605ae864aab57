package selector

import (
	"context"
	"math/bits"

	"stego/bitio"
	"stego/carrier"
	"stego/finder"
)

// AngleEmbedding is the angle selector's outcome: the ordered picks, what
// was left behind, how many bits each step cost, and the bitstream
// remainder after the coordinator's second (and final) consumer has run.
type AngleEmbedding struct {
	BitsUsed         bitio.Bits
	BitsCount        int
	RemainingBits    bitio.Bits
	SelectedAngles   []carrier.Angle
	UnselectedAngles []carrier.Angle
	InsufficientBits bool
	Truncated        bool

	// Snippet and SnippetDocIndex are set when a Finder was supplied and
	// located the first selected angle's source quote in one of the
	// search-result documents. FinderWarning names which of the three
	// finder-related warning kinds applies, or is empty on success or when
	// no Finder was supplied.
	Snippet         *string
	SnippetDocIndex *int
	FinderWarning   string
}

// angleStepBits is the bit width a single angle-selection step consumes
// against a pool of size r: 0 for r<=1, else the bare ceil(log2(r)), not
// bitio.Width, which reserves an extra slot for a sentinel value this
// selector never needs. The two functions agree except at exact powers of
// two, where Width(4)=3 but angleStepBits(4)=2.
func angleStepBits(r int) int {
	if r <= 1 {
		return 0
	}
	return bits.Len(uint(r - 1))
}

// flattenAngles lays out groups document-major: all of document 0's angles,
// then document 1's, and so on, preserving within-document order.
func flattenAngles(groups [][]carrier.Angle) []carrier.Angle {
	var pool []carrier.Angle
	for _, g := range groups {
		pool = append(pool, g...)
	}
	return pool
}

// SelectAngles iteratively consumes bits to pick an ordered subset of the
// pooled angles. r is the reader left over after the comment selector has
// run. target<=0 means "fill the pool" (target = pool size). When find is
// non-nil and at least one angle is selected, it is invoked once on the
// first selected angle's source quote against docs (the carrier's
// search-result documents); a miss, low score, or transport failure
// degrades to a nil snippet plus a FinderWarning rather than failing the
// selection.
func SelectAngles(ctx context.Context, r *bitio.Reader, groups [][]carrier.Angle, target int, docs []string, find finder.Finder, lowScoreThreshold float64) AngleEmbedding {
	pool := flattenAngles(groups)
	if target <= 0 {
		target = len(pool)
	}
	if target > len(pool) {
		target = len(pool)
	}

	var bitsUsed bitio.Bits
	var selected []carrier.Angle
	insufficient := false

	for k := 0; k < target && len(pool) > 0; k++ {
		rSize := len(pool)
		needed := angleStepBits(rSize)

		var idx uint64
		if needed > 0 {
			used, ins := r.Take(needed)
			bitsUsed.Append(used)
			if ins {
				insufficient = true
			}
			idx = used.ToUint() % uint64(rSize)
		}

		selected = append(selected, pool[idx])
		pool = append(pool[:idx], pool[idx+1:]...)
	}

	remaining := r.Remaining()
	// angle_truncated: the target count was reached (rather than the pool
	// running dry) while compressed bits representing further picks were
	// still available; those bits are simply left on the floor.
	truncated := len(selected) == target && len(pool) > 0 && remaining.Len() > 0

	emb := AngleEmbedding{
		BitsUsed:         bitsUsed,
		BitsCount:        bitsUsed.Len(),
		RemainingBits:    remaining,
		SelectedAngles:   selected,
		UnselectedAngles: pool,
		InsufficientBits: insufficient,
		Truncated:        truncated,
	}

	if find != nil && len(selected) > 0 {
		attachSnippet(ctx, &emb, selected[0], docs, find, lowScoreThreshold)
	}

	return emb
}

func attachSnippet(ctx context.Context, emb *AngleEmbedding, first carrier.Angle, docs []string, find finder.Finder, lowScoreThreshold float64) {
	match, err := find.Find(ctx, first.SourceQuote, docs)
	if err != nil {
		emb.FinderWarning = "finder_unavailable"
		return
	}
	if match.BestMatch == nil {
		emb.FinderWarning = "finder_bad_response"
		return
	}
	if match.Score < lowScoreThreshold {
		emb.FinderWarning = "finder_low_score"
		return
	}

	emb.Snippet = match.BestMatch
	idx := match.Index
	emb.SnippetDocIndex = &idx
}
