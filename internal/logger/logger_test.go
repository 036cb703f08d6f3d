package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineAndColumnForLoc(t *testing.T) {
	source := Source{Contents: "first\nsecond\r\nthird"}

	line, column := source.LineAndColumnForLoc(Loc{Start: 0})
	assert.Equal(t, 1, line)
	assert.Equal(t, 0, column)

	line, column = source.LineAndColumnForLoc(Loc{Start: 6})
	assert.Equal(t, 2, line)
	assert.Equal(t, 0, column)

	line, column = source.LineAndColumnForLoc(Loc{Start: 8})
	assert.Equal(t, 2, line)
	assert.Equal(t, 2, column)

	line, column = source.LineAndColumnForLoc(Loc{Start: 14})
	assert.Equal(t, 3, line)
	assert.Equal(t, 0, column)
}

func TestLocationOrNil(t *testing.T) {
	source := Source{PrettyPath: "a.js", Contents: "let x = 1;\nrequire(foo);\n"}

	location := LocationOrNil(&source, Range{Loc: Loc{Start: 11}, Len: 13})
	require.NotNil(t, location)
	assert.Equal(t, "a.js", location.File)
	assert.Equal(t, 2, location.Line)
	assert.Equal(t, 0, location.Column)
	assert.Equal(t, 13, location.Length)
	assert.Equal(t, "require(foo);", location.LineText)

	assert.Nil(t, LocationOrNil(nil, Range{}))
}

func TestRangeOfString(t *testing.T) {
	source := Source{Contents: `require("a\"b");`}

	r := source.RangeOfString(Loc{Start: 8})
	assert.Equal(t, int32(8), r.Loc.Start)
	assert.Equal(t, `"a\"b"`, source.TextForRange(r))

	// Not pointing at a quote
	assert.Equal(t, int32(0), source.RangeOfString(Loc{Start: 0}).Len)
}

func TestDeferLog(t *testing.T) {
	log := NewDeferLog()
	assert.False(t, log.HasErrors())

	source := Source{PrettyPath: "a.js", Contents: "x\ny\n"}
	log.AddError(&source, Loc{Start: 2}, "second line problem")
	log.AddError(&source, Loc{Start: 0}, "first line problem")
	assert.True(t, log.HasErrors())

	msgs := log.Done()
	require.Len(t, msgs, 2)

	// Messages come back sorted by location
	assert.Equal(t, "first line problem", msgs[0].Data.Text)
	assert.Equal(t, "second line problem", msgs[1].Data.Text)
}

func TestMsgString(t *testing.T) {
	source := Source{PrettyPath: "a.js", Contents: "require(foo);\n"}
	msg := Msg{
		Kind: Error,
		Data: MsgData{
			Text:     "something went wrong",
			Location: LocationOrNil(&source, Range{Loc: Loc{Start: 8}, Len: 3}),
		},
	}

	text := msg.String(TerminalInfo{})
	assert.Equal(t, "a.js:1:8: error: something went wrong\nrequire(foo);\n        ^~~\n", text)
}
