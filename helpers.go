package stagd

// BytesScanner allows to iterate over a byte slice split by a separator
// without allocating substrings.
type BytesScanner struct {
	source         []byte
	index          int
	separator      byte
	emitEmptySlice bool
}

// NewBytesScanner creates a scanner over source split by separator.
func NewBytesScanner(source []byte, separator byte) *BytesScanner {
	return &BytesScanner{
		source:         source,
		index:          0,
		separator:      separator,
		emitEmptySlice: len(source) == 0,
	}
}

// HasNext reports whether there is at least one more segment.
func (scanner *BytesScanner) HasNext() bool {
	return scanner.index < len(scanner.source) || scanner.emitEmptySlice
}

// Next returns the next segment. Must be called only after HasNext
// reported true.
func (scanner *BytesScanner) Next() (segment []byte) {
	if scanner.emitEmptySlice {
		scanner.emitEmptySlice = false
		return []byte{}
	}

	start := scanner.index
	for scanner.index < len(scanner.source) {
		if scanner.source[scanner.index] == scanner.separator {
			segment = scanner.source[start:scanner.index]
			scanner.incrementIndex()
			return segment
		}
		scanner.index++
	}
	return scanner.source[start:]
}

func (scanner *BytesScanner) incrementIndex() {
	scanner.index++
	if scanner.index == len(scanner.source) {
		scanner.emitEmptySlice = true
	}
}
