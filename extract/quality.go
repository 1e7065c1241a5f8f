package extract

// PrintableRatio measures how much of the extracted text is usable prose.
// PDFs with broken font encodings produce private-use glyphs or replacement
// characters instead of text; a low ratio means extraction failed even though
// runs came back.
func PrintableRatio(runs []TextRun) float64 {
	var total, printable int
	for _, run := range runs {
		for _, r := range run.Text {
			total++
			if !isGarbageRune(r) {
				printable++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(printable) / float64(total)
}

// Readable reports whether a document carries enough real text to analyze.
func Readable(doc *Document, minRatio float64) bool {
	if doc == nil || len(doc.Runs) == 0 {
		return false
	}
	return PrintableRatio(doc.Runs) >= minRatio
}

func isGarbageRune(r rune) bool {
	switch {
	case r >= 0xE000 && r <= 0xF8FF: // private use area
		return true
	case r == 0xFFFD: // replacement character
		return true
	case r < 0x20 && r != '\n' && r != '\r' && r != '\t':
		return true
	}
	return false
}
