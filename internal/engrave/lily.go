package engrave

import (
	"fmt"
	"strings"
)

// Elem is a fragment of LilyPond source.
type Elem interface {
	String() string
}

// Pitch is a LilyPond absolute pitch: a note name plus octave marks
// relative to the octave below middle C.
type Pitch struct {
	Name   string
	Octave int
}

func (p Pitch) String() string {
	n := p.Name
	switch marks := p.Octave - 3; {
	case marks > 0:
		n += strings.Repeat("'", marks)
	case marks < 0:
		n += strings.Repeat(",", -marks)
	}
	return n
}

// Note is a pitch with a duration denominator (2 = half, 4 = quarter).
type Note struct {
	Pitch
	Duration int
}

func (n Note) String() string {
	return fmt.Sprintf("%s%d", n.Pitch.String(), n.Duration)
}

// Command is a literal LilyPond command such as `\clef bass`.
type Command string

func (c Command) String() string { return string(c) }

// Compound joins its elements with spaces.
type Compound struct {
	Elems []Elem
}

func (c Compound) String() string {
	parts := make([]string, 0, len(c.Elems))
	for _, e := range c.Elems {
		parts = append(parts, e.String())
	}
	return strings.Join(parts, " ")
}

// Seq is sequential music: `{ ... }`.
type Seq struct {
	Compound
}

func (s Seq) String() string {
	return fmt.Sprintf("{ %s }", s.Compound.String())
}

// Par is simultaneous music: `<< ... >>`.
type Par struct {
	Compound
}

func (p Par) String() string {
	return fmt.Sprintf("<< %s >>", p.Compound.String())
}

// Context instantiates a named context: `\new Staff = "Staff_1" { ... }`.
type Context struct {
	Type  string
	Name  string
	Music Elem
}

func (c Context) String() string {
	if c.Name == "" {
		return fmt.Sprintf("\\new %s %s", c.Type, c.Music)
	}
	return fmt.Sprintf("\\new %s = %q %s", c.Type, c.Name, c.Music)
}
