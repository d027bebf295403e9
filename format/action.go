package format

// ValueAction is the 1-byte tag preceding an auto-collected value update
// whose encoded width is at least ActionTagMinWidth bytes.
type ValueAction uint8

const (
	ValueWrite ValueAction = 0 // ValueWrite is followed by the full value.
	ValueCarry ValueAction = 1 // ValueCarry repeats the previous recorded value.
)

// ContigAction is the 1-byte tag preceding every contiguous container update.
type ContigAction uint8

const (
	ContigArrive   ContigAction = 0 // ContigArrive appends one element to the back.
	ContigDepart   ContigAction = 1 // ContigDepart pops one element from the front.
	ContigBookends ContigAction = 2 // ContigBookends appends to the back and pops from the front.
	ContigChange   ContigAction = 3 // ContigChange overwrites one element in place.
	ContigCarry    ContigAction = 4 // ContigCarry repeats the previous list.
	ContigFull     ContigAction = 5 // ContigFull replaces the list wholesale.
)

// ActionTagMinWidth is the smallest value width that is delta encoded. Smaller
// values are always written directly since a tag would not save space.
const ActionTagMinWidth = 16

func (a ValueAction) String() string {
	switch a {
	case ValueWrite:
		return "WRITE"
	case ValueCarry:
		return "CARRY"
	default:
		return "Unknown"
	}
}

func (a ContigAction) String() string {
	switch a {
	case ContigArrive:
		return "ARRIVE"
	case ContigDepart:
		return "DEPART"
	case ContigBookends:
		return "BOOKENDS"
	case ContigChange:
		return "CHANGE"
	case ContigCarry:
		return "CARRY"
	case ContigFull:
		return "FULL"
	default:
		return "Unknown"
	}
}
