// Package navigator is the state machine behind the interactive viewer. It
// only tracks which screen is visible and which slot is selected; decoding
// and drawing are left to the caller.
package navigator

import "fmt"

type State int

const (
	MainMenu State = iota
	HeaderView
	SlotBrowsing
	Terminated
)

func (s State) String() string {
	switch s {
	case MainMenu:
		return "MainMenu"
	case HeaderView:
		return "HeaderView"
	case SlotBrowsing:
		return "SlotBrowsing"
	case Terminated:
		return "Terminated"
	}

	return fmt.Sprintf("State(%d)", int(s))
}

type Event int

const (
	// Other is any input without a meaning of its own. It still dismisses
	// the header screen.
	Other Event = iota
	SelectHeader
	SelectBrowse
	Next
	Previous
	Cancel
)

type ViewKind int

const (
	ViewNone ViewKind = iota
	ViewMenu
	ViewHeader
	ViewSlot
	// ViewNoSlots is the notice shown instead of entering an empty slot list.
	ViewNoSlots
)

// View tells the caller what to draw. Index is valid only for ViewSlot and
// is always within [0, slot count).
type View struct {
	Kind  ViewKind
	Index int
}

func (v View) String() string {
	if v.Kind == ViewSlot {
		return fmt.Sprintf("slot %d", v.Index)
	}

	return fmt.Sprintf("view %d", v.Kind)
}

type Navigator struct {
	slots int
	state State
	index int
}

// New starts in MainMenu for a table with the given number of slots.
func New(slots int) *Navigator {
	if slots < 0 {
		slots = 0
	}

	return &Navigator{slots: slots, state: MainMenu}
}

func (n *Navigator) State() State {
	return n.state
}

// Index is the selected slot; meaningful only in SlotBrowsing.
func (n *Navigator) Index() int {
	return n.index
}

func (n *Navigator) SlotCount() int {
	return n.slots
}

// Current returns the view matching the current state.
func (n *Navigator) Current() View {
	switch n.state {
	case MainMenu:
		return View{Kind: ViewMenu}
	case HeaderView:
		return View{Kind: ViewHeader}
	case SlotBrowsing:
		return View{Kind: ViewSlot, Index: n.index}
	}

	return View{Kind: ViewNone}
}

// Step applies ev and returns the view to draw next. changed is false when
// the input left the state and index untouched, in which case redrawing is
// optional.
func (n *Navigator) Step(ev Event) (v View, changed bool) {
	state, index := n.state, n.index

	switch n.state {
	case MainMenu:
		switch ev {
		case SelectHeader:
			n.state = HeaderView
		case SelectBrowse:
			if n.slots == 0 {
				return View{Kind: ViewNoSlots}, true
			}

			n.state = SlotBrowsing
			n.index = 0
		case Cancel:
			n.state = Terminated
		case Other, Next, Previous:
		}
	case HeaderView:
		n.state = MainMenu
	case SlotBrowsing:
		switch ev {
		case Next:
			if n.index+1 < n.slots {
				n.index++
			}
		case Previous:
			if n.index > 0 {
				n.index--
			}
		case Cancel:
			n.state = MainMenu
		case Other, SelectHeader, SelectBrowse:
		}
	case Terminated:
	}

	return n.Current(), state != n.state || index != n.index
}
