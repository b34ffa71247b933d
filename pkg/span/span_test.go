package span

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpan_Zero(t *testing.T) {
	assert.True(t, Span{}.Zero())
	assert.False(t, Span{Start: 1, End: 1}.Zero())
	assert.False(t, Span{Start: 0, End: 3}.Zero())
}

func TestSpan_Len(t *testing.T) {
	assert.Equal(t, 5, Span{Start: 2, End: 7}.Len())
	assert.Equal(t, 0, Span{Start: 7, End: 2}.Len())
	assert.Equal(t, 0, Span{}.Len())
}

func TestSpan_Slice(t *testing.T) {
	content := []byte("SELECT * FROM orders")
	assert.Equal(t, "SELECT", Span{Start: 0, End: 6}.Slice(content))
	assert.Equal(t, "orders", Span{Start: 14, End: 20}.Slice(content))

	// Out of bounds clamps rather than panics.
	assert.Equal(t, "orders", Span{Start: 14, End: 100}.Slice(content))
	assert.Equal(t, "", Span{Start: 100, End: 200}.Slice(content))
}

func TestCover(t *testing.T) {
	a := Span{Start: 5, End: 10}
	b := Span{Start: 2, End: 8}
	assert.Equal(t, Span{Start: 2, End: 10}, Cover(a, b))
	assert.Equal(t, Span{Start: 2, End: 10}, Cover(b, a))
}

func TestByteOffsetToLineColumn(t *testing.T) {
	content := []byte("line one\nline two\nline three")

	tests := []struct {
		name   string
		offset int
		want   LineColumn
	}{
		{"start", 0, LineColumn{Line: 1, Column: 1}},
		{"mid first line", 4, LineColumn{Line: 1, Column: 5}},
		{"start of second line", 9, LineColumn{Line: 2, Column: 1}},
		{"third line", 19, LineColumn{Line: 3, Column: 2}},
		{"past end clamps", 1000, LineColumn{Line: 3, Column: 11}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ByteOffsetToLineColumn(content, tt.offset))
		})
	}
}

func TestByteOffsetToLineColumn_InvalidUTF8(t *testing.T) {
	content := []byte{'a', 0xff, 'b', '\n', 'c'}
	got := ByteOffsetToLineColumn(content, 4)
	assert.Equal(t, 2, got.Line)
}
