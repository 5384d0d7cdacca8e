package dsl

import (
	"fmt"
	"io"
	"strconv"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	dslLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		{Name: "Newline", Pattern: `\n+`},
		{Name: "BlockComment", Pattern: `/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`},
		{Name: "LineComment", Pattern: `//[^\n]*`},
		{Name: "HashComment", Pattern: `#[^\n]*`},
		{Name: "Number", Pattern: `\d+`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
		{Name: "Symbol", Pattern: `[-.:;]`},
		{Name: "LBrace", Pattern: `{`},
		{Name: "RBrace", Pattern: `}`},
	})

	documentParser = participle.MustBuild[Document](
		participle.Lexer(dslLexer),
		participle.Elide("Whitespace", "LineComment", "BlockComment", "HashComment"),
	)
)

// Document is the root AST node of a .tally file.
//
//	tracker v1 {
//	  defaults { orientation: landscape }
//	  sheet "Al-Mulk" { range: 1 - 30  repetitions: 10 }
//	}
type Document struct {
	Pos      lexer.Position `parser:"" json:"-"`
	Version  string         `parser:"Newline* 'tracker' @Ident"`
	Sections []*Section     `parser:"'{' Newline* ( @@ Newline* )* '}' Newline*"`
}

// Section is either a defaults block or a sheet declaration.
type Section struct {
	Defaults *DefaultsSection `parser:"  @@"`
	Sheet    *SheetSection    `parser:"| @@"`
}

// Kind returns the human-readable section type.
func (s *Section) Kind() string {
	switch {
	case s == nil:
		return "unknown"
	case s.Defaults != nil:
		return "defaults"
	case s.Sheet != nil:
		return "sheet"
	default:
		return "unknown"
	}
}

// DefaultsSection 的属性作用于其后声明的所有 sheet。
type DefaultsSection struct {
	Block *Block `parser:"'defaults' @@"`
}

// SheetSection 声明一张表格，标题写在关键字之后。
type SheetSection struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Title StringLiteral  `parser:"'sheet' @String"`
	Block *Block         `parser:"@@"`
}

// Block is a delimited list of assignments.
type Block struct {
	Entries []*Assignment `parser:"'{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

// Assignment uses colon syntax (key: value).
type Assignment struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Key   string         `parser:"@Ident"`
	Value *Value         `parser:"':' @@"`
}

// Value represents property values.
type Value struct {
	Number *NumberOrRange `parser:"  @@"`
	String *StringLiteral `parser:"| @String"`
	Bool   *Boolean       `parser:"| @( 'true' | 'false' )"`
	Ident  *string        `parser:"| @Ident"`
}

// NumberOrRange captures `5`, `1 - 30` or `1..30`.
type NumberOrRange struct {
	From int  `parser:"@Number"`
	To   *int `parser:"( ( '-' | '.' '.' ) @Number )?"`
}

// StringLiteral unquotes Go-style strings on capture.
type StringLiteral string

// Capture implements participle.Capture.
func (s *StringLiteral) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("string literal capture requires value")
	}
	val, err := strconv.Unquote(values[0])
	if err != nil {
		return err
	}
	*s = StringLiteral(val)
	return nil
}

// Boolean captures the keywords true/false.
type Boolean bool

// Capture implements participle.Capture.
func (b *Boolean) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("boolean capture requires value")
	}
	*b = values[0] == "true"
	return nil
}

// Parse parses DSL content from an io.Reader.
func Parse(r io.Reader) (*Document, error) {
	return documentParser.Parse("", r)
}

// ParseString parses DSL content from a string.
func ParseString(input string) (*Document, error) {
	return documentParser.ParseString("", input)
}

// ParseFile parses DSL content from r, using name in error positions.
func ParseFile(name string, r io.Reader) (*Document, error) {
	return documentParser.Parse(name, r)
}
