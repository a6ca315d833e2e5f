package dungeon

import (
	"fmt"
	"strconv"
	"strings"
)

// shareCodeVersion is the version tag this build emits and accepts.
// Decoders must reject any other version per the forward-compatibility
// contract: a future version bump must not be silently misread.
const shareCodeVersion = 1

// ShareCode encodes a seed's numeric value as "v<version>:<base36>".
func ShareCode(seed Seed) string {
	return fmt.Sprintf("v%d:%s", shareCodeVersion, strconv.FormatUint(uint64(seed.NumericValue), 36))
}

// DecodeShareCode parses a share code back into a numeric seed value.
// It rejects malformed codes and any version other than the one this
// build emits.
func DecodeShareCode(code string) (uint32, error) {
	parts := strings.SplitN(code, ":", 2)
	if len(parts) != 2 || len(parts[0]) < 2 || parts[0][0] != 'v' {
		return 0, &Error{Code: ErrSeedDecode, Message: fmt.Sprintf("malformed share code %q", code)}
	}
	version, err := strconv.Atoi(parts[0][1:])
	if err != nil {
		return 0, &Error{Code: ErrSeedDecode, Message: fmt.Sprintf("malformed version in share code %q", code)}
	}
	if version != shareCodeVersion {
		return 0, &Error{Code: ErrSeedDecode, Message: fmt.Sprintf("unsupported share code version %d", version)}
	}
	numeric, err := strconv.ParseUint(parts[1], 36, 32)
	if err != nil {
		return 0, &Error{Code: ErrSeedDecode, Message: fmt.Sprintf("malformed seed in share code %q", code)}
	}
	return uint32(numeric), nil
}
