package ipheat

import "strings"

// ValueMode governs how an input weight is transformed before being
// written to a cell.
type ValueMode int

const (
	// ModeScaled divides weights by the number of addresses per pixel,
	// so a single address and a fully covering range contribute
	// comparable magnitude at any granularity. The division truncates
	// toward zero; at fine granularity small weights legitimately
	// truncate to nothing.
	ModeScaled ValueMode = iota
	// ModeRaw writes weights unchanged.
	ModeRaw
	// ModeCategorical treats weights as category ids. Unpainted cells
	// hold the sentinel -1 and render transparent.
	ModeCategorical
)

// ParseValueMode parses a value mode name, case-insensitively.
func ParseValueMode(s string) (ValueMode, error) {
	switch strings.ToLower(s) {
	case "scaled":
		return ModeScaled, nil
	case "raw":
		return ModeRaw, nil
	case "categorical":
		return ModeCategorical, nil
	default:
		return 0, &ErrUnknownValueMode{Name: s}
	}
}

func (m ValueMode) String() string {
	switch m {
	case ModeScaled:
		return "scaled"
	case ModeRaw:
		return "raw"
	case ModeCategorical:
		return "categorical"
	default:
		return "unknown"
	}
}

// modePlan fixes a mode's write behavior at session construction:
// the cell fill value, the single-address transform, and the
// range-overlap transform. Selecting the plan once keeps mode branching
// out of the per-record paint path.
type modePlan struct {
	initValue int32
	single    func(value int32, perPixel uint64) int32
	ranged    func(value int32, overlap, perPixel uint64) int32
}

func identitySingle(value int32, _ uint64) int32 { return value }

func identityRanged(value int32, _, _ uint64) int32 { return value }

func planFor(mode ValueMode) modePlan {
	switch mode {
	case ModeCategorical:
		return modePlan{
			initValue: noDataSentinel,
			single:    identitySingle,
			ranged:    identityRanged,
		}
	case ModeRaw:
		return modePlan{
			initValue: 0,
			single:    identitySingle,
			ranged:    identityRanged,
		}
	default: // ModeScaled
		return modePlan{
			initValue: 0,
			single: func(value int32, perPixel uint64) int32 {
				return int32(float64(value) / float64(perPixel))
			},
			ranged: func(value int32, overlap, perPixel uint64) int32 {
				return int32(float64(value) * float64(overlap) / float64(perPixel))
			},
		}
	}
}
