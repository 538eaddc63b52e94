package content

import (
	"fmt"

	"github.com/jsphweid/quint/bartime"
	qerrors "github.com/jsphweid/quint/errors"
	"golang.org/x/exp/slices"
)

// AttributeKind names the articulations and connections a note can carry.
type AttributeKind int

const (
	AttrTie AttributeKind = iota
	AttrSlur
	AttrStaccato
	AttrAccent
	AttrFermata
)

var attributeNames = [...]string{
	AttrTie:      "tie",
	AttrSlur:     "slur",
	AttrStaccato: "staccato",
	AttrAccent:   "accent",
	AttrFermata:  "fermata",
}

func (k AttributeKind) Valid() bool {
	return k >= AttrTie && k <= AttrFermata
}

func (k AttributeKind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("AttributeKind(%d)", int(k))
	}
	return attributeNames[k]
}

// Attribute is one marking on a note. Value is free text, e.g. "start" or
// "stop" for ties and slurs.
type Attribute struct {
	Kind  AttributeKind
	Value string
}

// NoteConfig describes a note. A nil Pitch makes a rest. Duration defaults
// to Type dotted Dots times; set it for tuplets.
type NoteConfig struct {
	Pitch      Pitch
	Type       Type
	Dots       int
	Duration   *bartime.Time
	Attributes []Attribute
}

// Note is an immutable note or rest.
type Note struct {
	pitch    Pitch
	typ      Type
	dots     int
	duration *bartime.Time
	attrs    map[AttributeKind]Attribute
}

func NewNote(cfg NoteConfig) (*Note, error) {
	if !cfg.Type.Valid() {
		return nil, qerrors.WithMetadata(qerrors.CodeInvalidArgument,
			"unknown note type", map[string]string{"type": cfg.Type.String()})
	}
	if cfg.Dots < 0 || cfg.Dots > MaxDots {
		return nil, qerrors.WithMetadata(qerrors.CodeInvalidArgument,
			fmt.Sprintf("a note takes 0 to %d dots", MaxDots),
			map[string]string{"dots": fmt.Sprint(cfg.Dots)})
	}
	d := cfg.Duration
	if d == nil {
		d = cfg.Type.Dotted(cfg.Dots)
	} else if d.Sign() <= 0 {
		return nil, qerrors.WithMetadata(qerrors.CodeInvalidArgument,
			"note duration must be positive", map[string]string{"duration": d.String()})
	}
	n := &Note{
		pitch:    cfg.Pitch,
		typ:      cfg.Type,
		dots:     cfg.Dots,
		duration: d,
		attrs:    map[AttributeKind]Attribute{},
	}
	for _, a := range cfg.Attributes {
		if !a.Kind.Valid() {
			return nil, qerrors.WithMetadata(qerrors.CodeInvalidArgument,
				"unknown note attribute", map[string]string{"kind": a.Kind.String()})
		}
		n.attrs[a.Kind] = a
	}
	return n, nil
}

// Spell writes d as a dotted type where possible and as a tuplet of the
// nearest shorter type otherwise. A nil pitch spells a rest.
func Spell(p Pitch, d *bartime.Time, attrs ...Attribute) (*Note, error) {
	cfg := NoteConfig{Pitch: p, Attributes: attrs}
	if d == nil {
		return nil, qerrors.New(qerrors.CodeInvalidArgument, "note duration is nil")
	}
	if typ, dots, ok := Describe(d); ok {
		cfg.Type, cfg.Dots = typ, dots
	} else {
		cfg.Type, cfg.Duration = Floor(d), d
	}
	return NewNote(cfg)
}

func (n *Note) Pitch() (Pitch, bool) {
	return n.pitch, n.pitch != nil
}

func (n *Note) Duration() *bartime.Time {
	return n.duration
}

func (n *Note) Type() Type {
	return n.typ
}

func (n *Note) Dots() int {
	return n.dots
}

func (n *Note) IsRest() bool {
	return n.pitch == nil
}

func (n *Note) Attribute(kind AttributeKind) (Attribute, bool) {
	a, ok := n.attrs[kind]
	return a, ok
}

// Attributes returns the markings ordered by kind.
func (n *Note) Attributes() []Attribute {
	res := make([]Attribute, 0, len(n.attrs))
	for _, a := range n.attrs {
		res = append(res, a)
	}
	slices.SortFunc(res, func(a, b Attribute) int {
		return int(a.Kind) - int(b.Kind)
	})
	return res
}

// Config returns a NoteConfig that rebuilds n.
func (n *Note) Config() NoteConfig {
	return NoteConfig{
		Pitch:      n.pitch,
		Type:       n.typ,
		Dots:       n.dots,
		Duration:   n.duration,
		Attributes: n.Attributes(),
	}
}

// With returns a copy of n carrying a, replacing any marking of the same
// kind.
func (n *Note) With(a Attribute) (*Note, error) {
	cfg := n.Config()
	cfg.Attributes = append(cfg.Attributes, a)
	return NewNote(cfg)
}

func (n *Note) String() string {
	name := "r"
	if n.pitch != nil {
		name = n.pitch.String()
	}
	s := fmt.Sprintf("%s:%s", name, n.typ.Symbol())
	for i := 0; i < n.dots; i++ {
		s += "."
	}
	if n.duration != n.typ.Dotted(n.dots) {
		s += "@" + n.duration.String()
	}
	return s
}
