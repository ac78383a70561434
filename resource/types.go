package resource

import "strings"

// Flags select the pixel layout of a single record.
type Flags uint16

const (
	// FlagNibble packs two pixels per byte, high nibble first. Every stored
	// line is padded to a whole byte.
	FlagNibble Flags = 0x0010
	// FlagXYSwapped stores pixels column by column.
	FlagXYSwapped Flags = 0x0020
	// FlagTransparent reserves index 0 as fully transparent.
	FlagTransparent Flags = 0x0040
	// FlagCompressed marks record bytes as run-length packed.
	FlagCompressed Flags = 0x0080
	// FlagSkipFill encodes transparent runs as a zero byte and a count.
	FlagSkipFill Flags = 0x0100

	knownFlags = FlagNibble | FlagXYSwapped | FlagTransparent | FlagCompressed | FlagSkipFill
)

var flagNames = []struct {
	flag Flags
	name string
}{
	{FlagNibble, "nibble"},
	{FlagXYSwapped, "xy-swapped"},
	{FlagTransparent, "transparent"},
	{FlagCompressed, "compressed"},
	{FlagSkipFill, "skip-fill"},
}

func (f Flags) has(flag Flags) bool { return f&flag == flag }

func (f Flags) String() string {
	var names []string
	for _, fn := range flagNames {
		if f.has(fn.flag) {
			names = append(names, fn.name)
		}
	}
	if f&^knownFlags != 0 {
		names = append(names, "unknown")
	}
	if len(names) == 0 {
		return "Flags(linear)"
	}
	return "Flags(" + strings.Join(names, "|") + ")"
}
