package logger

// Diagnostics are rendered in a clang-like layout: a file:line:column prefix,
// the message, the offending source line, and a caret marking the span. Each
// message captures the line text up front so it can be shown even after the
// source buffer is gone.

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
)

type Loc struct {
	// Byte offset from the start of the file, 0-based
	Start int32
}

type Range struct {
	Loc Loc
	Len int32
}

func (r Range) End() int32 {
	return r.Loc.Start + r.Len
}

type Source struct {
	// Shown in diagnostics and other user-visible output
	PrettyPath string

	Contents string
}

func (s *Source) TextForRange(r Range) string {
	return s.Contents[r.Loc.Start:r.End()]
}

// RangeOfString returns the span of the quoted literal beginning at "loc",
// including both quote characters, or a zero-length range when "loc" does not
// point at a quote.
func (s *Source) RangeOfString(loc Loc) Range {
	contents := s.Contents
	start := int(loc.Start)
	if start >= len(contents) {
		return Range{Loc: loc}
	}

	quote := contents[start]
	if quote != '"' && quote != '\'' {
		return Range{Loc: loc}
	}

	for i := start + 1; i < len(contents); i++ {
		switch contents[i] {
		case quote:
			return Range{Loc: loc, Len: int32(i + 1 - start)}
		case '\\':
			i++ // the next character is escaped
		}
	}

	return Range{Loc: loc}
}

type MsgKind uint8

const (
	Error MsgKind = iota
	Warning
	Note
)

var msgKindNames = [...]string{"error", "warning", "note"}

func (kind MsgKind) String() string {
	return msgKindNames[kind]
}

type MsgLocation struct {
	File     string
	Line     int // 1-based
	Column   int // 0-based, in bytes
	Length   int // in bytes
	LineText string
}

type MsgData struct {
	Text     string
	Location *MsgLocation
}

type Msg struct {
	Kind MsgKind
	Data MsgData
}

// Log buffers diagnostics while the lexer and parser run, so they can be
// sorted by position and rendered once the work is done. It is safe for
// concurrent use.
type Log struct {
	mutex     sync.Mutex
	msgs      []Msg
	hasErrors bool
}

func NewDeferLog() *Log {
	return &Log{}
}

func (log *Log) AddMsg(msg Msg) {
	log.mutex.Lock()
	defer log.mutex.Unlock()
	if msg.Kind == Error {
		log.hasErrors = true
	}
	log.msgs = append(log.msgs, msg)
}

func (log *Log) HasErrors() bool {
	log.mutex.Lock()
	defer log.mutex.Unlock()
	return log.hasErrors
}

// Done returns the buffered messages ordered by source position
func (log *Log) Done() []Msg {
	log.mutex.Lock()
	defer log.mutex.Unlock()
	sort.SliceStable(log.msgs, func(i int, j int) bool {
		return msgBefore(log.msgs[i], log.msgs[j])
	})
	return log.msgs
}

func msgBefore(a Msg, b Msg) bool {
	al, bl := a.Data.Location, b.Data.Location
	switch {
	case al == nil || bl == nil:
		return al == nil && bl != nil
	case al.File != bl.File:
		return al.File < bl.File
	case al.Line != bl.Line:
		return al.Line < bl.Line
	case al.Column != bl.Column:
		return al.Column < bl.Column
	}
	return a.Data.Text < b.Data.Text
}

func (log *Log) AddError(source *Source, loc Loc, text string) {
	log.AddRangeError(source, Range{Loc: loc}, text)
}

func (log *Log) AddRangeError(source *Source, r Range, text string) {
	log.AddMsg(Msg{
		Kind: Error,
		Data: MsgData{
			Text:     text,
			Location: LocationOrNil(source, r),
		},
	})
}

func LocationOrNil(source *Source, r Range) *MsgLocation {
	if source == nil {
		return nil
	}

	lineCount, columnCount, lineStart, lineEnd := computeLineAndColumn(source.Contents, int(r.Loc.Start))

	return &MsgLocation{
		File:     source.PrettyPath,
		Line:     lineCount + 1, // 0-based to 1-based
		Column:   columnCount,
		Length:   int(r.Len),
		LineText: source.Contents[lineStart:lineEnd],
	}
}

// LineAndColumnForLoc returns the 1-based line and 0-based byte column of a
// location, matching the convention used by MsgLocation.
func (s *Source) LineAndColumnForLoc(loc Loc) (line int, column int) {
	lineCount, columnCount, _, _ := computeLineAndColumn(s.Contents, int(loc.Start))
	return lineCount + 1, columnCount
}

func computeLineAndColumn(contents string, offset int) (lineCount int, columnCount int, lineStart int, lineEnd int) {
	if offset > len(contents) {
		offset = len(contents)
	}

	// Scan up to the offset and count lines
	for i := 0; i < offset; i++ {
		switch contents[i] {
		case '\n':
			lineStart = i + 1
			lineCount++
		case '\r':
			lineStart = i + 1
			lineCount++
			if i+1 < len(contents) && contents[i+1] == '\n' {
				i++
				lineStart = i + 1
			}
		}
	}

	// Scan forward to the end of the line
	lineEnd = offset
	for lineEnd < len(contents) && contents[lineEnd] != '\n' && contents[lineEnd] != '\r' {
		lineEnd++
	}

	columnCount = offset - lineStart
	return
}

func hasNoColorEnvironmentVariable() bool {
	// https://no-color.org/
	_, ok := os.LookupEnv("NO_COLOR")
	return ok
}

type TerminalInfo struct {
	IsTTY           bool
	UseColorEscapes bool
	Width           int
	Height          int
}

const colorReset = "\033[0m"
const colorRed = "\033[31m"
const colorBold = "\033[1m"
const colorResetBold = "\033[0;1m"
const colorMagenta = "\033[35m"
const colorResetDim = "\033[0;37m"
const colorGreen = "\033[32m"

func (msg Msg) String(terminalInfo TerminalInfo) string {
	return msgString(terminalInfo.UseColorEscapes, msg.Kind, msg.Data)
}

func msgString(useColor bool, kind MsgKind, data MsgData) string {
	var kindColor string
	prefixColor := colorBold
	messageColor := colorResetBold

	switch kind {
	case Error:
		kindColor = colorRed
	case Warning:
		kindColor = colorMagenta
	case Note:
		prefixColor = ""
		kindColor = colorBold
		messageColor = ""
	default:
		panic("Internal error")
	}

	if data.Location == nil {
		if useColor {
			return fmt.Sprintf("%s%s%s: %s%s%s\n",
				prefixColor, kindColor, kind.String(),
				messageColor, data.Text,
				colorReset)
		}
		return fmt.Sprintf("%s: %s\n", kind.String(), data.Text)
	}

	loc := data.Location
	caret := detailCaret(loc)

	if useColor {
		return fmt.Sprintf("%s%s:%d:%d: %s%s: %s%s%s\n%s\n%s%s%s\n",
			prefixColor, loc.File, loc.Line, loc.Column,
			kindColor, kind.String(),
			messageColor, data.Text,
			colorResetDim, loc.LineText,
			colorGreen, caret,
			colorReset)
	}

	return fmt.Sprintf("%s:%d:%d: %s: %s\n%s\n%s\n",
		loc.File, loc.Line, loc.Column, kind.String(), data.Text, loc.LineText, caret)
}

func detailCaret(loc *MsgLocation) string {
	var sb strings.Builder
	for i := 0; i < loc.Column && i < len(loc.LineText); i++ {
		if loc.LineText[i] == '\t' {
			sb.WriteByte('\t')
		} else {
			sb.WriteByte(' ')
		}
	}
	sb.WriteByte('^')
	for i := 1; i < loc.Length && loc.Column+i < len(loc.LineText); i++ {
		sb.WriteByte('~')
	}
	return sb.String()
}
