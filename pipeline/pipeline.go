// Package pipeline composes the dictionary builder, DP compressor, comment
// selector, and angle selector in their fixed order, accumulates warnings
// instead of failing on recoverable conditions, and formats the external
// output record.
package pipeline

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/tiendc/go-deepcopy"

	"stego/bitio"
	"stego/carrier"
	"stego/compress"
	"stego/config"
	"stego/dictionary"
	"stego/finder"
	"stego/matchindex"
	"stego/selector"
	"stego/thread"
)

// Encode runs the full pipeline: build dictionary -> compress -> comment
// selector on the full bitstream -> angle selector on the leftover. rec and
// cfg are deep-copied first so a caller fanning Encode out across a worker
// pool over a shared record never observes cross-goroutine mutation: the
// encoder stays pure with respect to its inputs.
func Encode(ctx context.Context, rec carrier.Record, payload string, targetAngleCount int, cfg config.Config, find finder.Finder) (OutputRecord, error) {
	if payload == "" {
		return OutputRecord{}, ErrInvalidPayload
	}

	var recCopy carrier.Record
	var cfgCopy config.Config
	if err := deepcopy.Copy(&recCopy, &rec); err != nil {
		return OutputRecord{}, fmt.Errorf("pipeline: copy carrier record: %w", err)
	}
	if err := deepcopy.Copy(&cfgCopy, &cfg); err != nil {
		return OutputRecord{}, fmt.Errorf("pipeline: copy config: %w", err)
	}
	rec, cfg = recCopy, cfgCopy

	invocationID := uuid.New().String()

	flattened, err := thread.Flatten(rec.Post.Comments)
	if err != nil {
		return OutputRecord{}, FatalInvariantError{Reason: fmt.Sprintf("flatten comment forest: %v", err)}
	}

	dict := dictionary.Build(rec.Post, flattened.List)

	dictRunes := matchindex.ToRunes(dict)
	idx := matchindex.Build(dictRunes, []rune(payload), cfg.MinMatchSavings, cfg.MaxMatchCandidates)

	result := compress.Compress(payload, dict, idx, cfg)

	var warnings []Warning
	if result.Mode == compress.ModeUncompressed && len(dict) > 0 {
		warnings = append(warnings, Warning{Kind: WarnCompressionInefficient})
	}

	reader := bitio.NewReader(result.Bits)

	commentEmb := selector.SelectComment(reader, rec.Post, flattened, rec.Post.ID)
	if commentEmb.InsufficientBits {
		warnings = append(warnings, Warning{Kind: WarnCommentBitsPadded})
	}

	angleEmb := selector.SelectAngles(ctx, reader, rec.Angles, targetAngleCount, rec.Post.SearchResults, find, cfg.FinderLowScoreThreshold)
	if angleEmb.InsufficientBits {
		warnings = append(warnings, Warning{Kind: WarnAngleBitsPadded})
	}
	if angleEmb.Truncated {
		warnings = append(warnings, Warning{Kind: WarnAngleTruncated})
	}
	switch angleEmb.FinderWarning {
	case "finder_unavailable":
		warnings = append(warnings, Warning{Kind: WarnFinderUnavailable})
	case "finder_low_score":
		warnings = append(warnings, Warning{Kind: WarnFinderLowScore})
	case "finder_bad_response":
		warnings = append(warnings, Warning{Kind: WarnFinderBadResponse})
	}

	out := formatOutput(invocationID, payload, result, commentEmb, angleEmb, warnings)
	return out, nil
}

func formatOutput(invocationID, payload string, result compress.Result, commentEmb selector.CommentEmbedding, angleEmb selector.AngleEmbedding, warnings []Warning) OutputRecord {
	ratio := 0.0
	if result.OriginalLen > 0 {
		ratio = float64(result.CompressedLen()) / float64(result.OriginalLen)
	}

	totalBits := commentEmb.BitsCount + angleEmb.BitsCount
	var fullBits bitio.Bits
	fullBits.Append(commentEmb.BitsUsed)
	fullBits.Append(angleEmb.BitsUsed)

	return OutputRecord{
		InvocationID: invocationID,
		Compression: CompressionSummary{
			Method:           result.Mode.String(),
			Payload:          payload,
			Compressed:       result.Bits.String(),
			CompressedLength: result.CompressedLen(),
			OriginalLength:   result.OriginalLen,
			Ratio:            ratio,
			References:       projectTokens(result.Tokens),
		},
		CommentEmbedding: CommentEmbeddingOut{
			BitsUsed:           commentEmb.BitsUsed.String(),
			BitsCount:          commentEmb.BitsCount,
			TargetType:         commentEmb.TargetType,
			Context:            commentEmb.Context,
			PickedCommentChain: commentEmb.PickedCommentChain,
			InsufficientBits:   commentEmb.InsufficientBits,
		},
		AngleEmbedding: AngleEmbeddingOut{
			BitsUsed:         angleEmb.BitsUsed.String(),
			BitsCount:        angleEmb.BitsCount,
			RemainingBits:    angleEmb.RemainingBits.String(),
			SelectedAngles:   angleEmb.SelectedAngles,
			UnselectedAngles: angleEmb.UnselectedAngles,
			InsufficientBits: angleEmb.InsufficientBits,
			Snippet:          angleEmb.Snippet,
			SnippetDocIndex:  angleEmb.SnippetDocIndex,
		},
		TotalBitsEmbedded: totalBits,
		FullEncodedBits:   fullBits.String(),
		Warnings:          renderWarnings(warnings),
	}
}
