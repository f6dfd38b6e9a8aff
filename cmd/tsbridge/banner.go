package main

import (
	"github.com/charmbracelet/lipgloss"

	"tsbridge/internal/version"
)

var (
	bannerTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("42"))

	bannerSubtitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245")).
				Italic(true)

	bannerBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
)

// banner renders the root command's long description: a bordered block
// naming the tool and its version, styled the way an interactive CLI
// would introduce itself before diving into --help output.
func banner() string {
	title := bannerTitleStyle.Render("tsbridge")
	subtitle := bannerSubtitleStyle.Render("source maps and a virtual-file host for SRC-to-TGT transpilation")
	body := title + "  " + version.Version + "\n" + subtitle
	return bannerBoxStyle.Render(body)
}
