package controllers

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/rios0rios0/rangebump/internal/domain/entities"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	oldStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	newStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	urlStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// upgradeJSON is one entry of the --json output.
type upgradeJSON struct {
	Old  string `json:"old"`
	New  string `json:"new"`
	URL  string `json:"url,omitempty"`
	PURL string `json:"purl,omitempty"`
}

func writeJSON(w io.Writer, result *entities.CheckResult) error {
	out := make(map[string]upgradeJSON, len(result.Upgrades))
	for _, u := range result.Upgrades {
		out[u.Name] = upgradeJSON{Old: u.OldRange, New: u.NewRange, URL: u.InfoURL, PURL: u.PURL}
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	return nil
}

func writeTable(w io.Writer, result *entities.CheckResult) {
	rows := make([][]string, 0, len(result.Upgrades))
	for _, u := range result.Upgrades {
		rows = append(rows, []string{u.Name, u.OldRange, "→", u.NewRange, u.InfoURL})
	}

	t := table.New().
		Border(lipgloss.HiddenBorder()).
		Headers("Package", "Current", "", "Target", "Info").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			style := lipgloss.NewStyle().PaddingRight(1)
			if row == table.HeaderRow {
				return style.Inherit(headerStyle)
			}
			switch col {
			case 1:
				return style.Inherit(oldStyle)
			case 3:
				return style.Inherit(newStyle)
			case 4:
				return style.Inherit(urlStyle)
			default:
				return style
			}
		})

	_, _ = fmt.Fprintln(w, t.Render())
}
