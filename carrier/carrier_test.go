package carrier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRecordCanonicalShape(t *testing.T) {
	raw := []byte(`{"post": {"id": "p1", "selftext": "hello"}, "angles": [[{"source_quote": "q", "tangent": "t", "category": "c"}]]}`)

	rec, err := ParseRecord(raw)
	require.NoError(t, err)
	assert.Equal(t, "p1", rec.Post.ID)
	assert.Equal(t, "hello", rec.Post.Selftext)
	require.Len(t, rec.Angles, 1)
	assert.Equal(t, "q", rec.Angles[0][0].SourceQuote)
}

func TestParseRecordUnwrapsDataShape(t *testing.T) {
	raw := []byte(`{"data": {"id": "p1"}, "angles": []}`)

	rec, err := ParseRecord(raw)
	require.NoError(t, err)
	assert.Equal(t, "p1", rec.Post.ID)
}

func TestParseRecordRejectsNeitherShape(t *testing.T) {
	raw := []byte(`{"angles": []}`)

	_, err := ParseRecord(raw)
	assert.Error(t, err)
}

func TestParsePayloadBareString(t *testing.T) {
	p, err := ParsePayload([]byte(`"secret"`))
	require.NoError(t, err)
	assert.Equal(t, "secret", p)
}

func TestParsePayloadWrapped(t *testing.T) {
	p, err := ParsePayload([]byte(`{"payload": "secret"}`))
	require.NoError(t, err)
	assert.Equal(t, "secret", p)
}

func TestAngleEqualityIgnoresSourceDocument(t *testing.T) {
	docA, docB := 0, 1
	a := Angle{SourceQuote: "q", Tangent: "t", Category: "c", SourceDocument: &docA}
	b := Angle{SourceQuote: "q", Tangent: "t", Category: "c", SourceDocument: &docB}
	assert.True(t, a.Equal(b))

	c := Angle{SourceQuote: "different", Tangent: "t", Category: "c"}
	assert.False(t, a.Equal(c))
}
