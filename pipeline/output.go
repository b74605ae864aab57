package pipeline

import (
	"stego/carrier"
	"stego/compress"
	"stego/selector"
)

// TokenRef is a token projected to the external interface's {doc|null, idx,
// len} shape: Doc is nil for a literal, and the index of the dictionary
// entry for a reference.
type TokenRef struct {
	Doc *int `json:"doc"`
	Idx int  `json:"idx"`
	Len int  `json:"len"`
}

func projectTokens(tokens []compress.Token) []TokenRef {
	refs := make([]TokenRef, 0, len(tokens))
	for _, t := range tokens {
		switch v := t.(type) {
		case compress.Literal:
			refs = append(refs, TokenRef{Doc: nil, Idx: 0, Len: v.Length})
		case compress.Reference:
			doc := v.DocIndex
			refs = append(refs, TokenRef{Doc: &doc, Idx: v.Offset, Len: v.Length})
		}
	}
	return refs
}

// CompressionSummary is the output record's "compression" field.
type CompressionSummary struct {
	Method           string     `json:"method"`
	Payload          string     `json:"payload"`
	Compressed       string     `json:"compressed"`
	CompressedLength int        `json:"compressedLength"`
	OriginalLength   int        `json:"originalLength"`
	Ratio            float64    `json:"ratio"`
	References       []TokenRef `json:"references"`
}

// CommentEmbeddingOut is the output record's "commentEmbedding" field.
type CommentEmbeddingOut struct {
	BitsUsed           string                    `json:"bitsUsed"`
	BitsCount          int                       `json:"bitsCount"`
	TargetType         string                    `json:"targetType"`
	Context            selector.CommentContext   `json:"context"`
	PickedCommentChain []selector.CommentContext `json:"pickedCommentChain"`
	InsufficientBits   bool                      `json:"insufficientBits"`
}

// AngleEmbeddingOut is the output record's "angleEmbedding" field.
type AngleEmbeddingOut struct {
	BitsUsed         string          `json:"bitsUsed"`
	BitsCount        int             `json:"bitsCount"`
	RemainingBits    string          `json:"remainingBits"`
	SelectedAngles   []carrier.Angle `json:"selectedAngles"`
	UnselectedAngles []carrier.Angle `json:"unselectedAngles"`
	InsufficientBits bool            `json:"insufficientBits"`
	Snippet          *string         `json:"snippet,omitempty"`
	SnippetDocIndex  *int            `json:"snippetDocIndex,omitempty"`
}

// OutputRecord is the pipeline coordinator's result: the external output
// shape plus an invocation id for cross-invocation log correlation (never
// referenced by the protocol itself).
type OutputRecord struct {
	InvocationID      string              `json:"invocationId"`
	Compression       CompressionSummary  `json:"compression"`
	CommentEmbedding  CommentEmbeddingOut `json:"commentEmbedding"`
	AngleEmbedding    AngleEmbeddingOut   `json:"angleEmbedding"`
	TotalBitsEmbedded int                 `json:"totalBitsEmbedded"`
	FullEncodedBits   string              `json:"fullEncodedBits"`
	Warnings          []string            `json:"warnings"`
}
