package sales

import (
	"regexp"
	"strconv"
)

var lotProgressPattern = regexp.MustCompile(`(\d+)\s*/\s*(\d+)`)

// Lot is one page of the ERP sales feed.
type Lot struct {
	Records []Record

	// Descriptor is the free-text progress line, e.g.
	// "lot obtained: 3/21. total comprobantes: 20989".
	Descriptor string
}

// TotalLots parses the total number of lots from the first "n/total" pair of
// the descriptor. It returns 1 when the descriptor cannot be parsed.
func (l Lot) TotalLots() int {
	return ParseTotalLots(l.Descriptor)
}

func ParseTotalLots(descriptor string) int {
	match := lotProgressPattern.FindStringSubmatch(descriptor)
	if match == nil {
		return 1
	}
	total, err := strconv.Atoi(match[2])
	if err != nil || total < 1 {
		return 1
	}
	return total
}
