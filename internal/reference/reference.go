// Package reference parses scripture references typed by users, such as
// "John 3:16", "1 John 2", "gen 1" or "يوحنا ٣:١٦".
package reference

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Reference is a parsed reference. Zero means the part was not given.
type Reference struct {
	// Book is the book name as typed, whitespace-normalised.
	Book     string
	Chapter  int
	Verse    int
	VerseEnd int
}

// String formats the reference as "Book C:V-E".
func (r Reference) String() string {
	var b strings.Builder
	b.WriteString(r.Book)
	if r.Chapter > 0 {
		fmt.Fprintf(&b, " %d", r.Chapter)
		if r.Verse > 0 {
			fmt.Fprintf(&b, ":%d", r.Verse)
			if r.VerseEnd > 0 {
				fmt.Fprintf(&b, "-%d", r.VerseEnd)
			}
		}
	}
	return b.String()
}

type ast struct {
	Book     string `@Book`
	Chapter  *int   `( @Number`
	Verse    *int   `  ( ":" @Number`
	VerseEnd *int   `    ( "-" @Number )? )? )?`
}

var refLexer = lexer.MustSimple([]lexer.SimpleRule{
	// Book names in any script, with an optional leading ordinal:
	// Genesis, Gen., 1John, 1 John, Song of Songs, يوحنا الأولى, 1يو
	{Name: "Book", Pattern: `(?:\d\s*)?[\p{L}\p{M}]+(?:\s+[\p{L}\p{M}]+)*\.?`},
	{Name: "Number", Pattern: `\d+`},
	{Name: "Colon", Pattern: `:`},
	{Name: "Dash", Pattern: `-`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var refParser = participle.MustBuild[ast](
	participle.Lexer(refLexer),
	participle.Elide("Whitespace"),
)

var (
	digitFold = strings.NewReplacer("٠", "0", "١", "1", "٢", "2", "٣", "3", "٤", "4", "٥", "5", "٦", "6", "٧", "7", "٨", "8", "٩", "9")
	dotVerse  = regexp.MustCompile(`(\d)\.(\d)`)
	spaceRun  = regexp.MustCompile(`\s+`)
	punctFold = strings.NewReplacer("：", ":", "–", "-", "—", "-")
)

// Parse parses a reference. The book must be present; chapter and verse
// are optional.
func Parse(input string) (Reference, error) {
	s := strings.TrimSpace(punctFold.Replace(digitFold.Replace(input)))
	s = dotVerse.ReplaceAllString(s, "$1:$2")
	if s == "" {
		return Reference{}, fmt.Errorf("parse reference: empty input")
	}

	tree, err := refParser.ParseString("", s)
	if err != nil {
		return Reference{}, fmt.Errorf("parse reference %q: %w", input, err)
	}

	ref := Reference{Book: spaceRun.ReplaceAllString(strings.TrimSpace(tree.Book), " ")}
	if tree.Chapter != nil {
		ref.Chapter = *tree.Chapter
	}
	if tree.Verse != nil {
		ref.Verse = *tree.Verse
	}
	if tree.VerseEnd != nil {
		ref.VerseEnd = *tree.VerseEnd
	}

	if ref.VerseEnd > 0 && ref.VerseEnd < ref.Verse {
		return Reference{}, fmt.Errorf("parse reference %q: verse range ends before it starts", input)
	}
	return ref, nil
}
