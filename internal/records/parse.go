package records

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/CynaCons/OpenT-A2L-Forge/internal/a2l"
	"github.com/CynaCons/OpenT-A2L-Forge/internal/apperr"
)

var dataTypes = map[string]a2l.DataType{
	"UBYTE":        a2l.Ubyte,
	"SBYTE":        a2l.Sbyte,
	"UWORD":        a2l.Uword,
	"SWORD":        a2l.Sword,
	"ULONG":        a2l.Ulong,
	"SLONG":        a2l.Slong,
	"A_UINT64":     a2l.AUint64,
	"AUINT64":      a2l.AUint64,
	"A_INT64":      a2l.AInt64,
	"AINT64":       a2l.AInt64,
	"FLOAT16_IEEE": a2l.Float16Ieee,
	"FLOAT32_IEEE": a2l.Float32Ieee,
	"FLOAT64_IEEE": a2l.Float64Ieee,
}

var characteristicTypes = map[string]a2l.CharacteristicType{
	"ASCII":   a2l.Ascii,
	"CURVE":   a2l.Curve,
	"MAP":     a2l.Map,
	"CUBOID":  a2l.Cuboid,
	"CUBE_4":  a2l.Cube4,
	"CUBE4":   a2l.Cube4,
	"CUBE_5":  a2l.Cube5,
	"CUBE5":   a2l.Cube5,
	"VAL_BLK": a2l.ValBlk,
	"VALBLK":  a2l.ValBlk,
	"VALUE":   a2l.Value,
}

// ParseDataType maps s onto a DataType, ignoring case.
func ParseDataType(s string) (a2l.DataType, error) {
	if dt, ok := dataTypes[strings.ToUpper(s)]; ok {
		return dt, nil
	}
	return "", fmt.Errorf("%w: data type %s", apperr.ErrInvalidEnum, s)
}

// ParseCharacteristicType maps s onto a CharacteristicType, ignoring case.
func ParseCharacteristicType(s string) (a2l.CharacteristicType, error) {
	if ct, ok := characteristicTypes[strings.ToUpper(s)]; ok {
		return ct, nil
	}
	return "", fmt.Errorf("%w: characteristic type %s", apperr.ErrInvalidEnum, s)
}

func ParseHex32(s string) (uint32, error) {
	v, err := parseHex(s, 32)
	return uint32(v), err
}

func ParseHex64(s string) (uint64, error) {
	return parseHex(s, 64)
}

// parseHex accepts surrounding space and an optional 0x or 0X prefix.
func parseHex(s string, bits int) (uint64, error) {
	clean := strings.TrimSpace(s)
	if rest, ok := strings.CutPrefix(clean, "0x"); ok {
		clean = rest
	} else if rest, ok := strings.CutPrefix(clean, "0X"); ok {
		clean = rest
	}
	v, err := strconv.ParseUint(clean, 16, bits)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", apperr.ErrInvalidHex, s)
	}
	return v, nil
}

// FormatHex renders v as 0x followed by uppercase digits.
func FormatHex(v uint64) string {
	return "0x" + strings.ToUpper(strconv.FormatUint(v, 16))
}

// present reports whether an optional hex input carries a value.
func present(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}
