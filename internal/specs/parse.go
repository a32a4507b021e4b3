package specs

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// linePattern splits "1.5 oz Bourbon" into amount, optional unit, and
	// name. At least one space must separate the quantity from the name so
	// that "1.5 Ozark Rye" keeps its full ingredient text.
	linePattern = regexp.MustCompile(`(?i)^([\d.]+)\s*(oz|dashes|dash|cl|ml)?\s+(.*)`)

	// leadingQuantity matches the measure prefix stripped by CleanName:
	// a run of digits, dots, slashes, and spaces, optionally ending in a
	// unit word.
	leadingQuantity = regexp.MustCompile(`(?i)^[\d./\s]+(?:(?:oz|dashes|dash|cl|ml)\b)?\s*`)
)

// Line is the structured reading of one spec line.
type Line struct {
	Amount     float64
	Unit       string
	Ingredient string
}

// ParseLine breaks a spec line into amount, unit, and ingredient name.
// Lines that do not open with a quantity (like "Splash of soda") degrade
// to a zero amount with the whole line preserved as the ingredient, which
// keeps unparseable input displayable instead of lost.
func ParseLine(line string) Line {
	groups := linePattern.FindStringSubmatch(line)
	if groups == nil {
		return Line{Ingredient: line}
	}

	amount, err := strconv.ParseFloat(groups[1], 64)
	if err != nil {
		return Line{Ingredient: line}
	}

	return Line{
		Amount:     amount,
		Unit:       groups[2],
		Ingredient: groups[3],
	}
}

// CleanName strips the leading measure from a spec line, leaving only the
// descriptive ingredient text. Lines without a leading quantity come back
// trimmed but otherwise unchanged. The strip runs once per call: a cleaned
// name may itself open with digits ("151 proof rum"), so callers clean each
// raw line once rather than re-cleaning output.
func CleanName(line string) string {
	trimmed := strings.TrimSpace(line)
	return strings.TrimSpace(leadingQuantity.ReplaceAllString(trimmed, ""))
}

// SplitLines breaks a raw text block into its non-empty trimmed lines.
func SplitLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// NormalizeBlock derives the two menu views of a raw ingredient block: the
// cleaned ingredient names and the spec lines with metric volumes converted
// to ounces. Both slices are parallel to the block's non-empty lines.
func NormalizeBlock(text string) (names []string, converted []string) {
	lines := SplitLines(text)
	names = make([]string, 0, len(lines))
	converted = make([]string, 0, len(lines))
	for _, line := range lines {
		names = append(names, CleanName(line))
		converted = append(converted, ConvertMetric(line))
	}
	return names, converted
}
