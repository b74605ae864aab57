// Package selector implements the two positional selectors that drive the
// covert channel: the comment selector picks a single node out of the
// flattened reply tree, and the angle selector picks an ordered subset of
// editorial angles out of the pooled per-document lists. Both consume bits
// from a shared bitio.Reader, which is why they live in one package: the
// pipeline coordinator hands the same reader to both in sequence.
package selector

import (
	"stego/bitio"
	"stego/carrier"
	"stego/thread"
)

// TargetPost is the distinguished comment selector result naming the post
// itself rather than a comment in F.
const TargetPost = "post"

// TargetComment is the comment selector result naming a comment in F.
const TargetComment = "comment"

// CommentContext projects a flattened node (or the post) to the fields the
// output record exposes: author-or-unknown, body, id, parent id, permalink.
type CommentContext struct {
	Author    string `json:"author"`
	Body      string `json:"body"`
	ID        string `json:"id"`
	ParentID  string `json:"parent_id"`
	Permalink string `json:"permalink"`
}

// CommentEmbedding is the comment selector's outcome: which bits were
// consumed, the resolved index, what kind of node it names, and, when it
// names a comment, the root-first ancestor chain leading to it.
type CommentEmbedding struct {
	BitsUsed           bitio.Bits
	BitsCount          int
	SelectionIndex     uint64
	TargetType         string
	Context            CommentContext
	PickedCommentChain []CommentContext
	InsufficientBits   bool
}

func projectPost(post carrier.Post) CommentContext {
	return CommentContext{
		Author:    authorOrUnknown(post.Author),
		Body:      post.Selftext,
		ID:        post.ID,
		ParentID:  "",
		Permalink: post.Permalink,
	}
}

func projectComment(c carrier.CommentNode) CommentContext {
	return CommentContext{
		Author:    authorOrUnknown(c.Author),
		Body:      c.Body,
		ID:        c.ID,
		ParentID:  c.ParentID,
		Permalink: c.Permalink,
	}
}

func authorOrUnknown(author string) string {
	if author == "" {
		return "unknown"
	}
	return author
}

// SelectComment pops width(|F|) bits, clamps the value into [0, n] via
// modulo when it exceeds n, and resolves 0 to the post itself or s to
// F[s-1]. When a comment is targeted, the ancestor chain is reconstructed
// root-first via thread.AncestorChain, which already applies the tolerant
// parent-id lookup both sides of the channel share.
func SelectComment(r *bitio.Reader, post carrier.Post, f thread.Flattened, rootID string) CommentEmbedding {
	n := len(f.List)
	k := bitio.Width(n)

	used, insufficient := r.Take(k)
	s := used.ToUint()
	if s > uint64(n) {
		s = s % uint64(n+1)
	}

	emb := CommentEmbedding{
		BitsUsed:         used,
		BitsCount:        k,
		SelectionIndex:   s,
		InsufficientBits: insufficient,
	}

	if s == 0 {
		emb.TargetType = TargetPost
		emb.Context = projectPost(post)
		return emb
	}

	emb.TargetType = TargetComment
	target := f.List[s-1]
	emb.Context = projectComment(target)

	chain, err := thread.AncestorChain(target, rootID, f)
	if err != nil {
		// A cycle in adversarially corrupted parent-ids: the chain walker
		// already bailed out safely, fall back to the single-node chain.
		chain = []carrier.CommentNode{target}
	}

	projected := make([]CommentContext, len(chain))
	for i, c := range chain {
		projected[i] = projectComment(c)
	}
	emb.PickedCommentChain = projected

	return emb
}
