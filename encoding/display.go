package encoding

import (
	"fmt"
	"strconv"

	"github.com/arloliu/simtrace/format"
)

// FormatValue renders a decoded value as text.
//
// DisplayHex renders integers as 0x-prefixed lower-case hex and DisplayBoolAlpha
// renders integers as true/false. Non-integer values ignore the display format.
func FormatValue(v any, display format.DisplayFormat) string {
	switch val := v.(type) {
	case nil:
		return ""
	case int64:
		switch display {
		case format.DisplayHex:
			return "0x" + strconv.FormatUint(uint64(val), 16) //nolint:gosec
		case format.DisplayBoolAlpha:
			return strconv.FormatBool(val != 0)
		}

		return strconv.FormatInt(val, 10)
	case uint64:
		switch display {
		case format.DisplayHex:
			return "0x" + strconv.FormatUint(val, 16)
		case format.DisplayBoolAlpha:
			return strconv.FormatBool(val != 0)
		}

		return strconv.FormatUint(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case string:
		return val
	default:
		return fmt.Sprint(val)
	}
}
