package pdf

import (
	"strings"

	"github.com/jung-kurt/gofpdf"
)

const ellipsis = "..."

// measurer computes string widths with the core font metrics of gofpdf.
// It is not safe for concurrent use; every composition creates its own.
type measurer struct {
	pdf *gofpdf.Fpdf
	tr  func(string) string
}

func newMeasurer() *measurer {
	pdf := gofpdf.New("P", "mm", "A4", "")
	return &measurer{
		pdf: pdf,
		tr:  pdf.UnicodeTranslatorFromDescriptor(""),
	}
}

func (m *measurer) width(f Font, s string) float64 {
	m.pdf.SetFont(f.Family, f.Style, f.Size)
	return m.pdf.GetStringWidth(m.tr(s))
}

// unprintable returns the runes of s that the core fonts cannot encode.
// gofpdf replaces them with '.' when drawing.
func unprintable(s string) []rune {
	tr := gofpdf.New("P", "mm", "A4", "").UnicodeTranslatorFromDescriptor("")
	var out []rune
	for _, r := range s {
		if r != '.' && tr(string(r)) == "." {
			out = append(out, r)
		}
	}
	return out
}

// truncate shortens s with an ellipsis until it fits in maxW
func (m *measurer) truncate(f Font, s string, maxW float64) string {
	if m.width(f, s) <= maxW {
		return s
	}
	runes := []rune(s)
	for n := len(runes) - 1; n > 0; n-- {
		candidate := strings.TrimRight(string(runes[:n]), " ") + ellipsis
		if m.width(f, candidate) <= maxW {
			return candidate
		}
	}
	return ellipsis
}

// wrap breaks text into lines no wider than maxW. Newlines start new lines;
// words longer than a line are broken by character.
func (m *measurer) wrap(f Font, text string, maxW float64) []string {
	text = strings.TrimSpace(strings.ReplaceAll(text, "\r\n", "\n"))
	if text == "" {
		return nil
	}

	var lines []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}

		line := ""
		for _, word := range words {
			for word != "" && m.width(f, word) > maxW {
				head, rest := m.breakWord(f, word, maxW)
				if line != "" {
					lines = append(lines, line)
					line = ""
				}
				lines = append(lines, head)
				word = rest
			}
			if word == "" {
				continue
			}

			candidate := word
			if line != "" {
				candidate = line + " " + word
			}
			if m.width(f, candidate) <= maxW {
				line = candidate
				continue
			}
			lines = append(lines, line)
			line = word
		}
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// breakWord splits off the longest prefix of word that fits in maxW (at least one rune)
func (m *measurer) breakWord(f Font, word string, maxW float64) (string, string) {
	runes := []rune(word)
	n := 1
	for n < len(runes) && m.width(f, string(runes[:n+1])) <= maxW {
		n++
	}
	return string(runes[:n]), string(runes[n:])
}
