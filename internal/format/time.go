package format

import (
	"time"
)

// palmEpochOffset is the number of seconds between 1904-01-01 and 1970-01-01.
const palmEpochOffset = 2082844800

// PalmTime converts a PDB timestamp to time.Time. Timestamps with the top
// bit set count unsigned seconds from 1904-01-01; others are signed Unix
// seconds. Zero means unset and maps to the zero time.
func PalmTime(v uint32) time.Time {
	if v == 0 {
		return time.Time{}
	}
	if v&0x80000000 != 0 {
		return time.Unix(int64(v)-palmEpochOffset, 0).UTC()
	}
	return time.Unix(int64(int32(v)), 0).UTC()
}
