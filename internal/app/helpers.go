package app

import "strings"

// wordWrap breaks text at spaces so no line exceeds width, except single
// words longer than width.
func wordWrap(text string, width int) string {
	if width <= 0 {
		return text
	}

	var lines []string
	var current string
	for _, word := range strings.Fields(text) {
		switch {
		case current == "":
			current = word
		case len(current)+1+len(word) <= width:
			current += " " + word
		default:
			lines = append(lines, current)
			current = word
		}
	}
	if current != "" {
		lines = append(lines, current)
	}
	return strings.Join(lines, "\n")
}

// statusText fits text onto the single status line.
func statusText(text string, width int) string {
	lines := strings.SplitN(wordWrap(text, width), "\n", 2)
	if len(lines) > 1 {
		return lines[0] + " ..."
	}
	return lines[0]
}
