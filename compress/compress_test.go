package compress

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stego/bitio"
	"stego/config"
	"stego/matchindex"
)

func compressWith(payload string, dict []string, cfg config.Config) Result {
	dictRunes := matchindex.ToRunes(dict)
	idx := matchindex.Build(dictRunes, []rune(payload), cfg.MinMatchSavings, cfg.MaxMatchCandidates)
	return Compress(payload, dict, idx, cfg)
}

// Empty dictionary, payload "A" -> mode 0, compressed = "0" + "01000001".
func TestCompressEmptyDictionaryUncompressed(t *testing.T) {
	cfg := config.Default()
	result := compressWith("A", nil, cfg)

	assert.Equal(t, ModeUncompressed, result.Mode)
	assert.Equal(t, "001000001", result.Bits.String())
}

// Payload equals a dictionary entry exactly -> single REFERENCE token
// covering the whole entry, dictionary mode chosen.
func TestCompressWholeEntryReference(t *testing.T) {
	cfg := config.Default()
	dict := []string{"the quick brown fox jumps over the lazy dog"}
	result := compressWith(dict[0], dict, cfg)

	require.Equal(t, ModeDictionary, result.Mode)
	require.Len(t, result.Tokens, 1)
	ref, ok := result.Tokens[0].(Reference)
	require.True(t, ok, "expected a single Reference token")
	assert.Equal(t, 0, ref.DocIndex)
	assert.Equal(t, 0, ref.Offset)
	assert.Equal(t, len([]rune(dict[0])), ref.Length)

	mGlobal := len([]rune(dict[0]))
	wantLen := 1 + 1 + bitio.Width(len(dict)) + bitio.Width(len([]rune(dict[0]))) + bitio.Width(mGlobal)
	assert.Equal(t, wantLen, result.CompressedLen())

	decoded, err := Decode(result.Bits, dict, cfg)
	require.NoError(t, err)
	assert.Equal(t, dict[0], decoded)
}

// Payload shares no matchable substring with the dictionary -> mode falls
// back to uncompressed.
func TestCompressFallbackOnNoMatches(t *testing.T) {
	cfg := config.Default()
	dict := []string{"aaaaaaaaaaaaaaaaaaaaaaaaaaaa"}
	result := compressWith("Zq7!xR2#vL9@", dict, cfg)

	assert.Equal(t, ModeUncompressed, result.Mode)
}

// Round-trip for varied payloads and dictionaries.
func TestRoundTrip(t *testing.T) {
	cfg := config.Default()
	cases := []struct {
		payload string
		dict    []string
	}{
		{"", nil},
		{"hello world", []string{"hello there", "a whole new world"}},
		{"the lazy dog sleeps while the quick fox runs", []string{"the quick brown fox", "the lazy dog barks"}},
		{"日本語のテキストも扱えるはず", []string{"日本語のサンプルテキスト"}},
		{"aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", []string{"aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"}},
	}
	for _, c := range cases {
		if c.payload == "" {
			continue // empty payload is rejected upstream by the coordinator
		}
		result := compressWith(c.payload, c.dict, cfg)
		decoded, err := Decode(result.Bits, c.dict, cfg)
		require.NoError(t, err, "payload %q", c.payload)
		assert.Equal(t, c.payload, decoded, "payload %q", c.payload)
	}
}

// Every emitted token's bit length equals the declared width sum for its
// kind.
func TestTokenWidthLaw(t *testing.T) {
	cfg := config.Default()
	dict := []string{"the quick brown fox jumps over the lazy dog repeatedly"}
	payload := "the quick brown fox jumps elsewhere"
	result := compressWith(payload, dict, cfg)
	require.Equal(t, ModeDictionary, result.Mode)

	dictRunes := matchindex.ToRunes(dict)
	mGlobal := matchindex.MaxEntryLen(dictRunes)
	widthD := bitio.Width(len(dict))
	widthLiteralLen := bitio.Width(cfg.MaxLiteralLen)
	widthRefLen := bitio.Width(mGlobal)

	total := 1 // mode flag
	for _, tok := range result.Tokens {
		switch t2 := tok.(type) {
		case Literal:
			total += 1 + widthLiteralLen + 8*bitio.ByteLength(t2.Text)
		case Reference:
			widthOffset := bitio.Width(len(dictRunes[t2.DocIndex]))
			total += 1 + widthD + widthOffset + widthRefLen
		}
	}
	assert.Equal(t, total, result.CompressedLen())
}

// The chosen mode's length never exceeds the other mode's length for the
// same payload/dictionary.
func TestModeMinimality(t *testing.T) {
	cfg := config.Default()
	cases := []struct {
		payload string
		dict    []string
	}{
		{"repeat repeat repeat repeat", []string{"repeat repeat repeat"}},
		{"xyz123", []string{"no overlap here"}},
	}
	for _, c := range cases {
		dictRunes := matchindex.ToRunes(c.dict)
		idx := matchindex.Build(dictRunes, []rune(c.payload), cfg.MinMatchSavings, cfg.MaxMatchCandidates)
		result := Compress(c.payload, c.dict, idx, cfg)

		uncompressedSize := 1 + 8*bitio.ByteLength(c.payload)
		assert.LessOrEqualf(t, result.CompressedLen(), uncompressedSize, "payload %q", c.payload)
	}
}
