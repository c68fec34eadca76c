package ui

import tea "github.com/charmbracelet/bubbletea"

type KeyMap struct {
	Filter       tea.Key
	ClearFilter  tea.Key
	Sort         tea.Key
	PrevColumn   tea.Key
	NextColumn   tea.Key
	PrevPage     tea.Key
	NextPage     tea.Key
	FirstPage    tea.Key
	LastPage     tea.Key
	PageSizeUp   tea.Key
	PageSizeDown tea.Key
	Open         tea.Key
	Inspect      tea.Key
	CopyRow      tea.Key
	Export       tea.Key
	Pause        tea.Key
	AppLogs      tea.Key
	Help         tea.Key
	Quit         tea.Key
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Filter:       tea.Key{Type: tea.KeyRunes, Runes: []rune{'/'}},
		ClearFilter:  tea.Key{Type: tea.KeyRunes, Runes: []rune{'F'}},
		Sort:         tea.Key{Type: tea.KeyRunes, Runes: []rune{'s'}},
		PrevColumn:   tea.Key{Type: tea.KeyLeft},
		NextColumn:   tea.Key{Type: tea.KeyRight},
		PrevPage:     tea.Key{Type: tea.KeyRunes, Runes: []rune{'p'}},
		NextPage:     tea.Key{Type: tea.KeyRunes, Runes: []rune{'n'}},
		FirstPage:    tea.Key{Type: tea.KeyRunes, Runes: []rune{'g'}},
		LastPage:     tea.Key{Type: tea.KeyRunes, Runes: []rune{'G'}},
		PageSizeUp:   tea.Key{Type: tea.KeyRunes, Runes: []rune{'z'}},
		PageSizeDown: tea.Key{Type: tea.KeyRunes, Runes: []rune{'Z'}},
		Open:         tea.Key{Type: tea.KeyEnter},
		Inspect:      tea.Key{Type: tea.KeyRunes, Runes: []rune{'i'}},
		CopyRow:      tea.Key{Type: tea.KeyRunes, Runes: []rune{'c'}},
		Export:       tea.Key{Type: tea.KeyRunes, Runes: []rune{'e'}},
		Pause:        tea.Key{Type: tea.KeyRunes, Runes: []rune{' '}},
		AppLogs:      tea.Key{Type: tea.KeyRunes, Runes: []rune{'L'}},
		Help:         tea.Key{Type: tea.KeyRunes, Runes: []rune{'?'}},
		Quit:         tea.Key{Type: tea.KeyRunes, Runes: []rune{'q'}},
	}
}

func keyMatches(msg tea.KeyMsg, k tea.Key) bool {
	if k.Type != tea.KeyRunes {
		return msg.Type == k.Type
	}
	if len(k.Runes) > 0 {
		return msg.String() == string(k.Runes)
	}
	return false
}

func keyCmd(k tea.Key) tea.Cmd {
	return func() tea.Msg {
		if k.Type == tea.KeyRunes {
			return tea.KeyMsg{Type: k.Type, Runes: k.Runes}
		}
		return tea.KeyMsg{Type: k.Type}
	}
}

func keyLabel(k tea.Key) string {
	switch k.Type {
	case tea.KeyRunes:
		if len(k.Runes) == 1 && k.Runes[0] == ' ' {
			return "space"
		}
		return string(k.Runes)
	case tea.KeyEnter:
		return "enter"
	case tea.KeyEsc:
		return "esc"
	case tea.KeyLeft:
		return "left"
	case tea.KeyRight:
		return "right"
	case tea.KeyUp:
		return "up"
	case tea.KeyDown:
		return "down"
	default:
		return k.String()
	}
}
