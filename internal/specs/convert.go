package specs

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// metricPattern finds embedded metric volume tokens such as "30ml" or "4 cl".
// Bare numbers without a unit never match.
var metricPattern = regexp.MustCompile(`(?i)(\d+\.?\d*)\s*(ml|cl)`)

const mlPerOunce = 30.0

// ConvertMetric rewrites every metric volume token in text as a rounded
// US-ounce measure, leaving all other text untouched. Quantities are snapped
// to the nearest quarter ounce for menu readability: a remainder under 0.12
// rounds down, anything at or above rounds up. Pours that land under 0.15 oz
// come back as "dash". Output text contains no ml/cl tokens, so converting a
// second time is a no-op.
func ConvertMetric(text string) string {
	return metricPattern.ReplaceAllStringFunc(text, func(match string) string {
		groups := metricPattern.FindStringSubmatch(match)
		if len(groups) != 3 {
			return match
		}

		value, err := strconv.ParseFloat(groups[1], 64)
		if err != nil {
			return match
		}

		if strings.EqualFold(groups[2], "cl") {
			value *= 10
		}

		ounces := math.Round(value/mlPerOunce*100) / 100
		if ounces < 0.15 {
			return "dash"
		}

		remainder := math.Mod(ounces, 0.25)
		if remainder < 0.12 {
			ounces -= remainder
		} else {
			ounces += 0.25 - remainder
		}

		return strings.ReplaceAll(fmt.Sprintf("%.2f oz", ounces), ".00", "")
	})
}
