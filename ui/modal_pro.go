package ui

import "strings"

func (a App) renderProModal() string {
	modalWidth := 60
	if a.width < modalWidth+10 {
		modalWidth = a.width - 10
	}

	var lines []string
	lines = append(lines, centerTextLine("Accedi per attivare la modalità Pro", modalWidth))
	lines = append(lines, strings.Repeat(" ", modalWidth))
	lines = append(lines, centerTextLine(a.proUser.View(), modalWidth))
	lines = append(lines, centerTextLine(a.proPass.View(), modalWidth))

	if a.proErr != "" {
		lines = append(lines, strings.Repeat(" ", modalWidth))
		lines = append(lines, centerTextLine(ErrorStyle.Bold(true).Render("⚠ "+a.proErr), modalWidth))
	}

	return RenderThreeSectionModal(
		"Pro mode",
		lines,
		FormatFooter("Tab", "Switch field", "Enter", "Login", "Esc", "Cancel"),
		ModalTypePro,
		modalWidth,
		a.width,
		a.height,
	)
}
