package generate

import (
	"fmt"
	"regexp"
	"strconv"
)

// Memory unit sizes. The B/KB/MB/... suffixes scale by 1024: the derived
// unit readouts of the generated program are floor divisions by these
// sizes and downstream test suites pin the exact truncated values.
const (
	unitB  int64 = 1
	unitKB int64 = 1024
	unitMB int64 = 1024 * 1024
	unitGB int64 = 1024 * 1024 * 1024
	unitTB int64 = 1024 * 1024 * 1024 * 1024
	unitPB int64 = 1024 * 1024 * 1024 * 1024 * 1024
)

var memoryRe = regexp.MustCompile(`^([0-9]+)(B|KB|MB|GB|TB|PB)$`)

// ParseMemory converts a size literal like "512MB" to a byte count. The
// same grammar is implemented by WgParseMemory in the generated script;
// both must agree.
func ParseMemory(s string) (int64, error) {
	m := memoryRe.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("invalid memory value %q, expected <number><B|KB|MB|GB|TB|PB>", s)
	}
	n, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid memory value %q: %w", s, err)
	}
	var mult int64
	switch m[2] {
	case "B":
		mult = unitB
	case "KB":
		mult = unitKB
	case "MB":
		mult = unitMB
	case "GB":
		mult = unitGB
	case "TB":
		mult = unitTB
	case "PB":
		mult = unitPB
	}
	if n != 0 && mult > (1<<63-1)/n {
		return 0, fmt.Errorf("memory value %q overflows", s)
	}
	return n * mult, nil
}

// MemoryUnits holds a byte count re-derived in every coarser unit. Each
// field is the floor division of the byte count by the unit size, never an
// independently rounded value.
type MemoryUnits struct {
	B  int64
	KB int64
	MB int64
	GB int64
	TB int64
	PB int64
}

// DeriveMemoryUnits computes every coarser unit from a byte count.
func DeriveMemoryUnits(bytes int64) MemoryUnits {
	return MemoryUnits{
		B:  bytes,
		KB: bytes / unitKB,
		MB: bytes / unitMB,
		GB: bytes / unitGB,
		TB: bytes / unitTB,
		PB: bytes / unitPB,
	}
}
