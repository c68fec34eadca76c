package ui

import "github.com/charmbracelet/lipgloss"

type Styles struct {
	Base        lipgloss.Style
	Title       lipgloss.Style
	Status      lipgloss.Style
	Error       lipgloss.Style
	Help        lipgloss.Style
	PopupBox    lipgloss.Style
	PopupTitle  lipgloss.Style
	PagerOn     lipgloss.Style
	PagerOff    lipgloss.Style
	SizeActive  lipgloss.Style
	TableStyles TableStyles
	JSON        JSONStyles
}

type TableStyles struct {
	Header         lipgloss.Style
	HeaderSelected lipgloss.Style
	Cell           lipgloss.Style
	Selected       lipgloss.Style
	ReadOnly       lipgloss.Style
}

type JSONStyles struct {
	Key, String, Number, Bool, Null, Punct lipgloss.Style
}

func NewStyles(dark bool) Styles {
	s := Styles{}
	accent, dim, popup := lipgloss.Color("27"), lipgloss.Color("8"), lipgloss.Color("12")
	if dark {
		accent, dim, popup = lipgloss.Color("81"), lipgloss.Color("240"), lipgloss.Color("60")
		s.Base = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	} else {
		s.Base = lipgloss.NewStyle()
	}
	s.Title = lipgloss.NewStyle().Bold(true).Foreground(accent)
	s.Status = lipgloss.NewStyle().Foreground(dim)
	s.Error = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	s.Help = lipgloss.NewStyle().Foreground(dim)
	s.PopupBox = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(popup).Padding(1, 2)
	s.PopupTitle = lipgloss.NewStyle().Bold(true).Foreground(accent)
	s.PagerOn = lipgloss.NewStyle().Bold(true)
	s.PagerOff = lipgloss.NewStyle().Foreground(dim)
	s.SizeActive = lipgloss.NewStyle().Bold(true).Foreground(accent)
	s.TableStyles = TableStyles{
		Header:         lipgloss.NewStyle().Bold(true).PaddingRight(1),
		HeaderSelected: lipgloss.NewStyle().Bold(true).Underline(true),
		Cell:           lipgloss.NewStyle().PaddingRight(1),
		Selected:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("220")),
		ReadOnly:       lipgloss.NewStyle(),
	}
	s.JSON = JSONStyles{
		Key:    lipgloss.NewStyle().Foreground(accent),
		String: lipgloss.NewStyle().Foreground(lipgloss.Color("114")),
		Number: lipgloss.NewStyle().Foreground(lipgloss.Color("215")),
		Bool:   lipgloss.NewStyle().Foreground(lipgloss.Color("177")),
		Null:   lipgloss.NewStyle().Foreground(dim),
		Punct:  lipgloss.NewStyle().Foreground(dim),
	}
	return s
}
