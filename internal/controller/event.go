package controller

import (
	"fmt"

	"github.com/san-kum/gesturenav/internal/geom"
)

type EventKind uint8

const (
	PointerDown EventKind = iota + 1
	PointerMove
	PointerUp
	KeySnap
	Resize
)

func (k EventKind) String() string {
	switch k {
	case PointerDown:
		return "down"
	case PointerMove:
		return "move"
	case PointerUp:
		return "up"
	case KeySnap:
		return "snap"
	case Resize:
		return "resize"
	}
	return fmt.Sprintf("EventKind(%d)", uint8(k))
}

// Grab says which point a drag holds. The orbit controller only has the handle.
type Grab uint8

const (
	GrabNone Grab = iota
	GrabHandle
	GrabControl
)

func (g Grab) String() string {
	switch g {
	case GrabHandle:
		return "handle"
	case GrabControl:
		return "control"
	}
	return "none"
}

type Event struct {
	Kind     EventKind
	Pos      geom.Vec2
	Grab     Grab
	Touch    bool
	Viewport geom.Rect

	// DefaultPrevented is set by the controller on touch moves during a
	// drag; the host must suppress native scrolling and zooming.
	DefaultPrevented bool
}

func (e *Event) PreventDefault() { e.DefaultPrevented = true }

func Down(p geom.Vec2, g Grab) Event    { return Event{Kind: PointerDown, Pos: p, Grab: g} }
func Move(p geom.Vec2) Event            { return Event{Kind: PointerMove, Pos: p} }
func TouchMove(p geom.Vec2) Event       { return Event{Kind: PointerMove, Pos: p, Touch: true} }
func Up(p geom.Vec2) Event              { return Event{Kind: PointerUp, Pos: p} }
func Snap() Event                       { return Event{Kind: KeySnap} }
func ResizeTo(viewport geom.Rect) Event { return Event{Kind: Resize, Viewport: viewport} }
