package script

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// Script is a parsed route script.
type Script struct {
	Commands []*Command `parser:"@@*"`
}

// Command is one script statement. Exactly one field is set.
//
//	layer "F.Cu"
//	width 0.25
//	begin 10 20
type Command struct {
	Pos lexer.Position

	Layer   *string  `parser:"  \"layer\" @String"`
	Width   *float64 `parser:"| \"width\" @Number"`
	Begin   *Coord   `parser:"| \"begin\" @@"`
	Move    *Coord   `parser:"| \"move\" @@"`
	Extend  *Coord   `parser:"| \"extend\" @@"`
	End     *Coord   `parser:"| \"end\" @@"`
	Corner  bool     `parser:"| @\"corner\""`
	Posture bool     `parser:"| @\"posture\""`
	Abort   bool     `parser:"| @\"abort\""`
}

// Coord is a position in millimetres.
type Coord struct {
	X float64 `parser:"@Number"`
	Y float64 `parser:"@Number"`
}

// Op returns the keyword of the command.
func (c *Command) Op() string {
	switch {
	case c.Layer != nil:
		return "layer"
	case c.Width != nil:
		return "width"
	case c.Begin != nil:
		return "begin"
	case c.Move != nil:
		return "move"
	case c.Extend != nil:
		return "extend"
	case c.End != nil:
		return "end"
	case c.Corner:
		return "corner"
	case c.Posture:
		return "posture"
	case c.Abort:
		return "abort"
	}
	return ""
}

// Coord returns the position argument of the command, if it has one.
func (c *Command) Coord() (*Coord, bool) {
	for _, p := range []*Coord{c.Begin, c.Move, c.Extend, c.End} {
		if p != nil {
			return p, true
		}
	}
	return nil, false
}
