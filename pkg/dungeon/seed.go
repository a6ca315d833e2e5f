package dungeon

import "hash/fnv"

// Seed carries both the entropy actually fed to every PRNG stream
// (NumericValue) and its human-facing provenance (StringValue,
// Timestamp). Only NumericValue affects generation; the rest is
// metadata for display and debugging.
type Seed struct {
	NumericValue uint32 `json:"numericValue"`
	StringValue  string `json:"stringValue,omitempty"`
	Timestamp    uint64 `json:"timestamp"`
}

// NormalizeSeed accepts either a numeric seed or a string seed (hashed
// via FNV-1a into a 32-bit value) and returns the canonical Seed used
// to derive the four RNG streams. timestamp is provenance only and
// never affects generation output.
func NormalizeSeed(value any, timestamp uint64) (Seed, error) {
	switch v := value.(type) {
	case uint32:
		return Seed{NumericValue: v, Timestamp: timestamp}, nil
	case int:
		if v < 0 {
			return Seed{}, &Error{Code: ErrSeedDecode, Message: "numeric seed must be non-negative"}
		}
		return Seed{NumericValue: uint32(v), Timestamp: timestamp}, nil
	case string:
		if v == "" {
			return Seed{}, &Error{Code: ErrSeedDecode, Message: "string seed must not be empty"}
		}
		h := fnv.New32a()
		_, _ = h.Write([]byte(v))
		return Seed{NumericValue: h.Sum32(), StringValue: v, Timestamp: timestamp}, nil
	default:
		return Seed{}, &Error{Code: ErrSeedDecode, Message: "seed must be a uint32, int, or string"}
	}
}
