package tiers

import "strconv"

// ParseTierLabel extracts the first run of ASCII digits from a textual
// tier label. It reports false for an empty label, a label without digits
// or a run that does not fit in an int.
func ParseTierLabel(label string) (int, bool) {
	start := -1
	end := len(label)
	for i := 0; i < len(label); i++ {
		isDigit := label[i] >= '0' && label[i] <= '9'
		if start < 0 {
			if isDigit {
				start = i
			}
			continue
		}
		if !isDigit {
			end = i
			break
		}
	}
	if start < 0 {
		return 0, false
	}
	n, err := strconv.Atoi(label[start:end])
	if err != nil {
		return 0, false
	}
	return n, true
}
