package richtext

import "strings"

// Hotkey binds a key chord to the mark it toggles. "mod" is Cmd on macOS
// and Ctrl elsewhere.
type Hotkey struct {
	Chord string
	Mark  Mark
}

// Hotkeys is the toolbar's keyboard map.
var Hotkeys = []Hotkey{
	{Chord: "mod+b", Mark: Bold},
	{Chord: "mod+i", Mark: Italic},
	{Chord: "mod+u", Mark: Underline},
	{Chord: "mod+`", Mark: Code},
}

// KeyEvent is a keydown as reported by the browser.
type KeyEvent struct {
	Key   string `json:"key"`
	Ctrl  bool   `json:"ctrlKey"`
	Meta  bool   `json:"metaKey"`
	Alt   bool   `json:"altKey"`
	Shift bool   `json:"shiftKey"`
	MacOS bool   `json:"macOS"`
}

// Matches reports whether ev is exactly chord: the named key with the named
// modifiers held and no others.
func (ev KeyEvent) Matches(chord string) bool {
	var ctrl, meta, alt, shift bool
	parts := strings.Split(strings.ToLower(chord), "+")
	key := parts[len(parts)-1]
	for _, mod := range parts[:len(parts)-1] {
		switch mod {
		case "mod":
			if ev.MacOS {
				meta = true
			} else {
				ctrl = true
			}
		case "ctrl", "control":
			ctrl = true
		case "meta", "cmd", "command":
			meta = true
		case "alt", "option":
			alt = true
		case "shift":
			shift = true
		default:
			return false
		}
	}
	return ev.Ctrl == ctrl && ev.Meta == meta && ev.Alt == alt && ev.Shift == shift &&
		strings.ToLower(ev.Key) == key
}

// HandleKeyDown toggles the mark bound to ev, if any, and reports whether
// the event was consumed.
func (e *Editor) HandleKeyDown(ev KeyEvent) bool {
	handled := false
	for _, hk := range Hotkeys {
		if ev.Matches(hk.Chord) {
			e.ToggleMark(hk.Mark)
			handled = true
		}
	}
	return handled
}
