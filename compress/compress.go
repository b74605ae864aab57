// Package compress implements the dictionary-based DP compressor: it picks
// the minimum-bit encoding of a payload as a sequence of literal and
// back-reference tokens, emits the packed bitstream with its mode flag, and
// provides the matching reference decoder. Encoder and decoder live in the
// same package deliberately so they can never drift on a field width.
package compress

import (
	"fmt"

	"stego/bitio"
	"stego/config"
	"stego/matchindex"
)

// Mode is the bitstream's leading bit: which of the two token grammars the
// rest of the stream uses.
type Mode int

const (
	ModeUncompressed Mode = 0
	ModeDictionary   Mode = 1
)

// String renders the mode the way the external output record names it.
func (m Mode) String() string {
	if m == ModeDictionary {
		return "dictionary"
	}
	return "standard"
}

// Token is the closed, two-variant sum LITERAL | REFERENCE. It is modeled
// as a tagged variant rather than a polymorphic record: Literal and
// Reference are the only two implementations and neither carries behavior.
type Token interface {
	isToken()
}

// Literal is a run of L code points carried verbatim.
type Literal struct {
	Length int // code points, 1..MaxLiteralLen
	Text   string
}

func (Literal) isToken() {}

// Reference is a back-reference into dictionary entry DocIndex at Offset,
// Length code points long.
type Reference struct {
	DocIndex int
	Offset   int
	Length   int
}

func (Reference) isToken() {}

// Result is the outcome of a single Compress call.
type Result struct {
	Mode        Mode
	Bits        bitio.Bits // mode flag followed by the chosen grammar
	Tokens      []Token    // nil when Mode == ModeUncompressed
	OriginalLen int        // 8 * byte_length(payload)
}

// CompressedLen is the total bit length of Bits, mode flag included.
func (r Result) CompressedLen() int { return r.Bits.Len() }

// Compress runs the minimum-bit-cost DP over payload against dict, using
// idx as the precomputed set of candidate back-references, and returns the
// cheaper of the dictionary-mode and uncompressed-mode encodings.
func Compress(payload string, dict []string, idx matchindex.Index, cfg config.Config) Result {
	runes := []rune(payload)
	n := len(runes)
	dictRunes := matchindex.ToRunes(dict)
	mGlobal := matchindex.MaxEntryLen(dictRunes)

	originalLen := 8 * bitio.ByteLength(payload)
	uncompressedModeSize := 1 + originalLen

	dp := make([]int, n+1)
	choice := make([]Token, n)

	widthD := bitio.Width(len(dict))
	widthLiteralLen := bitio.Width(cfg.MaxLiteralLen)
	widthRefLen := bitio.Width(mGlobal)

	for i := n - 1; i >= 0; i-- {
		best := -1
		var bestTok Token

		maxL := cfg.MaxLiteralLen
		if rem := n - i; rem < maxL {
			maxL = rem
		}
		for l := 1; l <= maxL; l++ {
			text := string(runes[i : i+l])
			cost := 1 + widthLiteralLen + 8*bitio.ByteLength(text) + dp[i+l]
			if best == -1 || cost < best {
				best = cost
				bestTok = Literal{Length: l, Text: text}
			}
		}

		for _, c := range idx[i] {
			widthOffset := bitio.Width(len(dictRunes[c.DocIndex]))
			cost := 1 + widthD + widthOffset + widthRefLen + dp[i+c.Length]
			if cost < best {
				best = cost
				bestTok = Reference{DocIndex: c.DocIndex, Offset: c.Offset, Length: c.Length}
			}
		}

		dp[i] = best
		choice[i] = bestTok
	}

	tokens, dictBits := emit(runes, choice, dict, dictRunes, cfg, mGlobal)
	dictModeSize := 1 + dictBits.Len()

	if n == 0 || dictModeSize >= uncompressedModeSize {
		var out bitio.Bits
		out.AppendBit(0)
		out.Append(bitio.ToBits(payload))
		return Result{Mode: ModeUncompressed, Bits: out, OriginalLen: originalLen}
	}

	var out bitio.Bits
	out.AppendBit(1)
	out.Append(dictBits)
	return Result{Mode: ModeDictionary, Bits: out, Tokens: tokens, OriginalLen: originalLen}
}

func emit(runes []rune, choice []Token, dict []string, dictRunes [][]rune, cfg config.Config, mGlobal int) ([]Token, bitio.Bits) {
	var tokens []Token
	var out bitio.Bits

	i := 0
	for i < len(runes) {
		switch t := choice[i].(type) {
		case Literal:
			out.AppendBit(0)
			out.Append(bitio.EncodeInt(uint64(t.Length), cfg.MaxLiteralLen))
			out.Append(bitio.ToBits(t.Text))
			tokens = append(tokens, t)
			i += t.Length
		case Reference:
			out.AppendBit(1)
			out.Append(bitio.EncodeInt(uint64(t.DocIndex), len(dict)))
			out.Append(bitio.EncodeInt(uint64(t.Offset), len(dictRunes[t.DocIndex])))
			out.Append(bitio.EncodeInt(uint64(t.Length), mGlobal))
			tokens = append(tokens, t)
			i += t.Length
		default:
			// Only reachable if the DP left a position unresolved, which is
			// an implementation bug rather than a bad input.
			panic(fmt.Sprintf("compress: no token chosen at position %d", i))
		}
	}

	return tokens, out
}

// Decode is the reference decoder: fed the exact Bits an encoder produced
// (with the same dict and cfg.MaxLiteralLen it used), it reconstructs the
// original payload exactly, routing on the leading mode flag. MaxLiteralLen
// is the one config field that is a protocol parameter rather than a pure
// encoder-side heuristic, since it fixes the literal-length field width.
func Decode(all bitio.Bits, dict []string, cfg config.Config) (string, error) {
	dictRunes := matchindex.ToRunes(dict)
	mGlobal := matchindex.MaxEntryLen(dictRunes)

	r := bitio.NewReader(all)
	modeBit, insufficient := r.Take(1)
	if insufficient {
		return "", fmt.Errorf("compress: decode: bitstream has no mode flag")
	}

	if modeBit.ToUint() == 0 {
		return decodeUncompressed(r)
	}
	return decodeDictionary(r, dict, dictRunes, mGlobal, cfg)
}

func decodeUncompressed(r *bitio.Reader) (string, error) {
	rem := r.Remaining()
	if rem.Len()%8 != 0 {
		return "", fmt.Errorf("compress: decode: uncompressed payload is not a whole number of bytes (%d bits)", rem.Len())
	}
	buf := make([]byte, rem.Len()/8)
	for i := range buf {
		var b byte
		for bit := 0; bit < 8; bit++ {
			b = (b << 1) | rem.Bit(i*8+bit)
		}
		buf[i] = b
	}
	return string(buf), nil
}

func decodeDictionary(r *bitio.Reader, dict []string, dictRunes [][]rune, mGlobal int, cfg config.Config) (string, error) {
	widthD := bitio.Width(len(dict))
	widthLiteralLen := bitio.Width(cfg.MaxLiteralLen)
	widthRefLen := bitio.Width(mGlobal)

	var out []rune
	for r.Remaining().Len() > 0 {
		kindBit, _ := r.Take(1)

		if kindBit.ToUint() == 0 {
			length, _ := r.TakeUint(widthLiteralLen)
			// length counts code points, so each code point's byte count is
			// read off the leading one bits of its UTF-8 lead byte.
			var textBits bitio.Bits
			insufficient := false
			for k := uint64(0); k < length && !insufficient; k++ {
				lead, insLead := r.TakeUint(8)
				textBits.AppendUint(lead, 8)
				extra := 0
				for mask := uint64(0x40); lead&0x80 != 0 && lead&mask != 0 && extra < 3; mask >>= 1 {
					extra++
				}
				tail, insTail := r.Take(8 * extra)
				textBits.Append(tail)
				insufficient = insLead || insTail
			}
			if insufficient {
				return "", fmt.Errorf("compress: decode: literal of length %d truncated", length)
			}
			text, err := bitsToString(textBits)
			if err != nil {
				return "", err
			}
			out = append(out, []rune(text)...)
			continue
		}

		docIndex, _ := r.TakeUint(widthD)
		if int(docIndex) >= len(dict) {
			return "", fmt.Errorf("compress: decode: reference doc index %d out of range", docIndex)
		}
		widthOffset := bitio.Width(len(dictRunes[docIndex]))
		offset, _ := r.TakeUint(widthOffset)
		length, _ := r.TakeUint(widthRefLen)

		entry := dictRunes[docIndex]
		if int(offset)+int(length) > len(entry) {
			return "", fmt.Errorf("compress: decode: reference [%d:%d+%d] exceeds dictionary entry %d of length %d", offset, offset, length, docIndex, len(entry))
		}
		out = append(out, entry[offset:offset+length]...)
	}

	return string(out), nil
}

func bitsToString(b bitio.Bits) (string, error) {
	if b.Len()%8 != 0 {
		return "", fmt.Errorf("compress: decode: literal bit length %d is not a whole number of bytes", b.Len())
	}
	buf := make([]byte, b.Len()/8)
	for i := range buf {
		var by byte
		for bit := 0; bit < 8; bit++ {
			by = (by << 1) | b.Bit(i*8+bit)
		}
		buf[i] = by
	}
	return string(buf), nil
}
