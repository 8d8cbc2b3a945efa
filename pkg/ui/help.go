package ui

import "github.com/charmbracelet/glamour"

const helpMarkdown = `# lv

Interactive graph canvas.

## Mouse

| Input | Action |
|---|---|
| Left press on entity | Drag it; dependent arrows follow live |
| Left press on empty space | Pan the view |
| Wheel | Zoom at the cursor |

## Keys

| Key | Action |
|---|---|
| l | Cycle layout (spring, circular, random, force-directed, spectral) |
| r | Reset the view to fit the graph |
| + / - | Zoom in / out |
| 0 | Reset zoom to 100% |
| y | Copy the hovered entity's label |
| ? | Toggle this help |
| q | Quit (or close help) |
`

func renderHelp() string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(72),
	)
	if err != nil {
		return helpMarkdown
	}
	out, err := r.Render(helpMarkdown)
	if err != nil {
		return helpMarkdown
	}
	return out
}
