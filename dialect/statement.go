package dialect

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

const maxHeadWords = 5

// StatementRules describe how a product's scripts are split into statements.
type StatementRules struct {
	// Delimiter terminates a statement, e.g. ";".
	Delimiter string

	// DelimiterDirective is a line prefix that changes the delimiter, e.g. "DELIMITER" (MySQL).
	DelimiterDirective string

	// BatchSeparator is a line that on its own terminates the pending statement, e.g. "GO".
	BatchSeparator string

	// BlockTerminator is a line that on its own terminates a block statement, e.g. "/" (Oracle).
	// Without it, block statements end at the delimiter after their BEGIN/END nesting closes.
	BlockTerminator string

	// BlockPrefixes are leading keyword sequences that start a block statement,
	// e.g. "CREATE TRIGGER" or "CREATE OR REPLACE PROCEDURE".
	BlockPrefixes []string

	// Quotes lists the characters that open string or identifier literals. "[" closes with "]".
	Quotes string

	// BackslashEscapes enables backslash escapes inside quoted literals (not inside backticks).
	BackslashEscapes bool

	// DollarQuoting enables $tag$ ... $tag$ literals (PostgreSQL).
	DollarQuoting bool

	// NestedComments allows /* */ comments to nest (PostgreSQL).
	NestedComments bool

	// HashComments treats "#" as the start of a line comment (MySQL).
	HashComments bool
}

// Statement is one complete statement of a script.
type Statement struct {
	// SQL is the statement text without its delimiter, trimmed.
	SQL string

	// Line is the 1-based line on which the statement starts.
	Line int

	// Delimiter is what terminated the statement; empty when it ran to the end of the script.
	Delimiter string
}

// StatementBuilder is a parsing session for one script. It is fed line by line and
// yields complete statements. Builders never share state; create one per script.
type StatementBuilder struct {
	rules     StatementRules
	delimiter string

	buf        strings.Builder
	hasContent bool
	startLine  int
	line       int

	inQuote    bool
	quoteOpen  byte
	quoteClose byte

	inDollar  bool
	dollarTag string

	commentDepth  int
	inLineComment bool

	word       strings.Builder
	head       []string
	block      bool
	blockDepth int
	pendingEnd bool

	completed []Statement
}

// NewStatementBuilder creates a builder that applies rules for its whole lifetime.
func NewStatementBuilder(rules StatementRules) *StatementBuilder {
	if rules.Delimiter == "" {
		rules.Delimiter = ";"
	}

	return &StatementBuilder{
		rules:     rules,
		delimiter: rules.Delimiter,
	}
}

// Delimiter returns the delimiter currently in effect. A DELIMITER directive can change it mid-script.
func (b *StatementBuilder) Delimiter() string {
	return b.delimiter
}

// IsTerminated reports whether no statement is pending.
func (b *StatementBuilder) IsTerminated() bool {
	return !b.hasContent && !b.inLiteral()
}

// AddLine feeds the next script line (without its line break).
func (b *StatementBuilder) AddLine(line string) {
	b.line++
	line = strings.TrimSuffix(line, "\r")
	trimmed := strings.TrimSpace(line)

	if !b.inLiteral() {
		if b.applyDelimiterDirective(trimmed) {
			return
		}

		if b.rules.BatchSeparator != "" && strings.EqualFold(trimmed, b.rules.BatchSeparator) {
			b.terminate(b.rules.BatchSeparator)
			return
		}

		if b.rules.BlockTerminator != "" && trimmed == b.rules.BlockTerminator {
			b.terminate(b.rules.BlockTerminator)
			return
		}
	}

	b.scan(line)

	if !b.hasContent && !b.inLiteral() {
		b.buf.Reset() // blank or comment-only line between statements
		return
	}

	b.buf.WriteByte('\n')
}

// Next pops the oldest completed statement.
func (b *StatementBuilder) Next() (Statement, bool) {
	if len(b.completed) == 0 {
		return Statement{}, false
	}

	s := b.completed[0]
	b.completed = b.completed[1:]

	return s, true
}

// Flush completes a trailing statement that has no delimiter. It fails when the
// script ended inside a quoted literal or a block comment.
func (b *StatementBuilder) Flush() error {
	if b.inLiteral() {
		return errors.Join(
			ErrUnterminatedStatement,
			fmt.Errorf("script ends inside %s opened in statement starting at line %d", b.literalKind(), b.startLine),
		)
	}

	b.flushWord()
	b.terminate("")

	return nil
}

// Parse splits a whole script.
func (b *StatementBuilder) Parse(r io.Reader) ([]Statement, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	statements := make([]Statement, 0)
	for scanner.Scan() {
		b.AddLine(scanner.Text())
		statements = b.drain(statements)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if err := b.Flush(); err != nil {
		return nil, err
	}

	return b.drain(statements), nil
}

func (b *StatementBuilder) drain(into []Statement) []Statement {
	for {
		s, ok := b.Next()
		if !ok {
			return into
		}
		into = append(into, s)
	}
}

func (b *StatementBuilder) applyDelimiterDirective(trimmed string) bool {
	directive := b.rules.DelimiterDirective
	if directive == "" || b.hasContent || len(trimmed) <= len(directive) {
		return false
	}
	if !strings.EqualFold(trimmed[:len(directive)], directive) || !isSpace(trimmed[len(directive)]) {
		return false
	}

	if d := strings.TrimSpace(trimmed[len(directive):]); d != "" {
		b.delimiter = d
	}
	b.buf.Reset()

	return true
}

func (b *StatementBuilder) scan(line string) {
	segStart := 0

	for i := 0; i < len(line); {
		c := line[i]

		switch {
		case b.commentDepth > 0:
			switch {
			case strings.HasPrefix(line[i:], "*/"):
				b.commentDepth--
				i += 2
			case b.rules.NestedComments && strings.HasPrefix(line[i:], "/*"):
				b.commentDepth++
				i += 2
			default:
				i++
			}
			continue

		case b.inDollar:
			closing := "$" + b.dollarTag + "$"
			if strings.HasPrefix(line[i:], closing) {
				b.inDollar = false
				i += len(closing)
				continue
			}
			i++
			continue

		case b.inQuote:
			if b.rules.BackslashEscapes && c == '\\' && b.quoteOpen != '`' {
				i += 2
				continue
			}
			if c == b.quoteClose {
				if i+1 < len(line) && line[i+1] == b.quoteClose {
					i += 2 // doubled quote
					continue
				}
				b.inQuote = false
			}
			i++
			continue
		}

		if strings.HasPrefix(line[i:], b.delimiter) {
			b.flushWord()
			if b.canTerminate() {
				b.buf.WriteString(line[segStart:i])
				b.terminate(b.delimiter)
				i += len(b.delimiter)
				segStart = i
				continue
			}
		}

		switch {
		case strings.HasPrefix(line[i:], "--") || (b.rules.HashComments && c == '#'):
			b.flushWord()
			b.inLineComment = true
			i = len(line)

		case strings.HasPrefix(line[i:], "/*"):
			b.flushWord()
			b.commentDepth = 1
			i += 2

		case b.rules.DollarQuoting && c == '$' && (i == 0 || !isWordChar(line[i-1])):
			tag, ok := dollarTagAt(line, i)
			if !ok {
				b.flushWord()
				b.markContent()
				i++
				continue
			}
			b.flushWord()
			b.markContent()
			b.inDollar = true
			b.dollarTag = tag
			i += len(tag) + 2

		case strings.IndexByte(b.rules.Quotes, c) >= 0:
			b.flushWord()
			b.markContent()
			b.inQuote = true
			b.quoteOpen = c
			b.quoteClose = closingQuote(c)
			i++

		case isWordChar(c):
			b.markContent()
			b.word.WriteByte(c)
			i++

		default:
			b.flushWord()
			if !isSpace(c) {
				b.markContent()
			}
			i++
		}
	}

	b.flushWord()
	b.inLineComment = false
	b.buf.WriteString(line[segStart:])
}

func (b *StatementBuilder) canTerminate() bool {
	if !b.block {
		return true
	}
	if b.rules.BlockTerminator != "" {
		return false
	}

	if b.pendingEnd {
		b.pendingEnd = false
		b.closeBlock()
	}

	return b.blockDepth == 0
}

func (b *StatementBuilder) terminate(delimiter string) {
	sql := strings.TrimSpace(b.buf.String())
	if b.hasContent && sql != "" {
		b.completed = append(b.completed, Statement{SQL: sql, Line: b.startLine, Delimiter: delimiter})
	}

	b.buf.Reset()
	b.word.Reset()
	b.hasContent = false
	b.startLine = 0
	b.head = b.head[:0]
	b.block = false
	b.blockDepth = 0
	b.pendingEnd = false
}

func (b *StatementBuilder) markContent() {
	if !b.hasContent {
		b.hasContent = true
		b.startLine = b.line
	}
}

func (b *StatementBuilder) flushWord() {
	if b.word.Len() == 0 {
		return
	}

	w := strings.ToUpper(b.word.String())
	b.word.Reset()

	if len(b.head) < maxHeadWords {
		b.head = append(b.head, w)
		if !b.block && b.headMatchesBlockPrefix() {
			b.block = true
		}
	}

	if b.block && b.rules.BlockTerminator == "" {
		b.countBlockWord(w)
	}
}

// countBlockWord tracks BEGIN and CASE nesting. An END is held until the next word
// shows whether it closes a block or a control statement such as END IF.
func (b *StatementBuilder) countBlockWord(w string) {
	if b.pendingEnd {
		b.pendingEnd = false

		switch w {
		case "IF", "WHILE", "LOOP", "FOR", "REPEAT":
			return
		case "CASE":
			b.closeBlock()
			return
		default:
			b.closeBlock()
		}
	}

	switch w {
	case "BEGIN", "CASE":
		b.blockDepth++
	case "END":
		b.pendingEnd = true
	}
}

func (b *StatementBuilder) closeBlock() {
	if b.blockDepth > 0 {
		b.blockDepth--
	}
}

func (b *StatementBuilder) headMatchesBlockPrefix() bool {
	head := strings.Join(b.head, " ")
	for _, p := range b.rules.BlockPrefixes {
		prefix := strings.ToUpper(strings.Join(strings.Fields(p), " "))
		if prefix == "" {
			continue
		}
		if head == prefix || strings.HasPrefix(head, prefix+" ") {
			return true
		}
	}

	return false
}

func (b *StatementBuilder) inLiteral() bool {
	return b.inQuote || b.inDollar || b.commentDepth > 0
}

func (b *StatementBuilder) literalKind() string {
	switch {
	case b.inQuote:
		return fmt.Sprintf("a %c quoted literal", b.quoteOpen)
	case b.inDollar:
		return fmt.Sprintf("a $%s$ quoted literal", b.dollarTag)
	default:
		return "a block comment"
	}
}

func dollarTagAt(line string, i int) (string, bool) {
	j := i + 1
	for j < len(line) && line[j] != '$' {
		c := line[j]
		if !(c == '_' || isLetter(c) || (j > i+1 && isDigit(c))) {
			return "", false
		}
		j++
	}
	if j >= len(line) {
		return "", false
	}

	return line[i+1 : j], true
}

func closingQuote(open byte) byte {
	if open == '[' {
		return ']'
	}

	return open
}

func isWordChar(c byte) bool {
	return c == '_' || isLetter(c) || isDigit(c) || c >= 0x80
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}
