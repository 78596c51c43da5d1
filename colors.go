package toon

import (
	"github.com/fatih/color"
)

type ColorAttr int

const (
	KeyColor ColorAttr = iota
	ValueColor
	SepColor
)

type Colorable struct {
	Kind Kind
	Attr ColorAttr
}

// Colors maps a node kind and the role of a piece of text to a colouring
// function. Text with no entry is passed to Default.
type Colors struct {
	Default func(string) string
	Map     map[Colorable]func(string) string
}

// NewColors returns the default terminal palette. Whether escape codes are
// actually emitted follows color.NoColor.
func NewColors() *Colors {
	colors := &Colors{
		Default: colorDefault,
		Map:     map[Colorable]func(string) string{},
	}

	colors.Map[Colorable{Kind: KindRecord, Attr: KeyColor}] = sprint(color.RGB(128, 168, 196))
	colors.Map[Colorable{Kind: KindRecord, Attr: SepColor}] = sprint(color.RGB(196, 128, 128))
	colors.Map[Colorable{Kind: KindSequence, Attr: SepColor}] = sprint(color.RGB(255, 0, 196))

	able := Colorable{Attr: ValueColor}
	able.Kind = KindNull
	colors.Map[able] = sprint(color.RGB(168, 0, 196))
	able.Kind = KindBool
	colors.Map[able] = sprint(color.New(color.FgCyan))
	for _, k := range []Kind{KindInt, KindFloat, KindDecimal} {
		able.Kind = k
		colors.Map[able] = sprint(color.RGB(128, 216, 236))
	}
	for _, k := range []Kind{KindDate, KindDateTime} {
		able.Kind = k
		colors.Map[able] = sprint(color.RGB(198, 198, 46))
	}
	able.Kind = KindText
	colors.Map[able] = sprint(color.RGB(8, 196, 16))

	return colors
}

func sprint(c *color.Color) func(string) string {
	return func(s string) string { return c.Sprint(s) }
}

func colorDefault(v string) string { return v }

// Color applies the colouring registered for (k, a) to s.
func (c *Colors) Color(k Kind, a ColorAttr, s string) string {
	return c.Get(k, a)(s)
}

func (c *Colors) Get(k Kind, a ColorAttr) func(string) string {
	f := c.Map[Colorable{Kind: k, Attr: a}]
	if f == nil {
		if c.Default == nil {
			return colorDefault
		}
		return c.Default
	}
	return f
}
