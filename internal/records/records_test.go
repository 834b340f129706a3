package records

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CynaCons/OpenT-A2L-Forge/internal/a2l"
	"github.com/CynaCons/OpenT-A2L-Forge/internal/apperr"
	"github.com/CynaCons/OpenT-A2L-Forge/internal/models"
	"github.com/CynaCons/OpenT-A2L-Forge/internal/testutil"
)

func load(t *testing.T) *a2l.File {
	t.Helper()
	f, _, err := a2l.Load(testutil.SampleA2L)
	require.NoError(t, err)
	return f
}

func strPtr(s string) *string { return &s }

func TestGetMeasurement(t *testing.T) {
	f := load(t)

	got, err := GetMeasurement(f, "EngineSpeed")
	require.NoError(t, err)
	assert.Equal(t, models.MeasurementData{
		Name:           "EngineSpeed",
		LongIdentifier: "Crankshaft speed",
		Datatype:       "UWORD",
		Conversion:     "CM_Speed",
		Resolution:     1,
		Accuracy:       0,
		LowerLimit:     0,
		UpperLimit:     8000,
		EcuAddress:     strPtr("0x1000"),
	}, got)

	got, err = GetMeasurement(f, "CoolantTemp")
	require.NoError(t, err)
	assert.Nil(t, got.EcuAddress)

	_, err = GetMeasurement(f, "Missing")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
	assert.Contains(t, err.Error(), "'Missing'")
}

func TestUpdateMeasurement_FullReplace(t *testing.T) {
	f := load(t)
	err := UpdateMeasurement(f, "EngineSpeed", models.MeasurementData{
		Name:           "Rpm",
		LongIdentifier: "Engine rpm",
		Datatype:       "float32_ieee",
		Conversion:     "NO_COMPU_METHOD",
		Resolution:     2.9,
		Accuracy:       0.5,
		LowerLimit:     -10,
		UpperLimit:     10000,
		EcuAddress:     strPtr(" 0XabC "),
	})
	require.NoError(t, err)

	_, err = GetMeasurement(f, "EngineSpeed")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	got, err := GetMeasurement(f, "Rpm")
	require.NoError(t, err)
	assert.Equal(t, "FLOAT32_IEEE", got.Datatype)
	assert.Equal(t, 2.0, got.Resolution)
	assert.Equal(t, 0.5, got.Accuracy)
	assert.Equal(t, "0xABC", *got.EcuAddress)

	m := f.Project.Module[0].Measurement[0]
	require.NotNil(t, m.PhysUnit, "fields outside the payload are untouched")
}

func TestUpdateMeasurement_BlankAddressClears(t *testing.T) {
	f := load(t)
	data, err := GetMeasurement(f, "EngineSpeed")
	require.NoError(t, err)

	data.EcuAddress = strPtr("  ")
	require.NoError(t, UpdateMeasurement(f, "EngineSpeed", data))
	assert.Nil(t, f.Project.Module[0].Measurement[0].EcuAddress)
}

func TestUpdateMeasurement_ValidationLeavesRecordUntouched(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*models.MeasurementData)
		target error
	}{
		{"bad datatype", func(d *models.MeasurementData) { d.Datatype = "UINT9" }, apperr.ErrInvalidEnum},
		{"bad address", func(d *models.MeasurementData) { d.EcuAddress = strPtr("0xZZ") }, apperr.ErrInvalidHex},
		{"address overflow", func(d *models.MeasurementData) { d.EcuAddress = strPtr("0x100000000") }, apperr.ErrInvalidHex},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := load(t)
			before := f.Write()
			data, err := GetMeasurement(f, "EngineSpeed")
			require.NoError(t, err)
			data.Name = "Changed"
			tc.mutate(&data)

			err = UpdateMeasurement(f, "EngineSpeed", data)
			assert.True(t, errors.Is(err, tc.target), "got %v", err)
			assert.Equal(t, before, f.Write())
		})
	}
}

func TestUpdateMeasurement_NotFound(t *testing.T) {
	f := load(t)
	err := UpdateMeasurement(f, "Nope", models.MeasurementData{Datatype: "UBYTE"})
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestCharacteristic_RoundTrip(t *testing.T) {
	f := load(t)
	got, err := GetCharacteristic(f, "IdleTarget")
	require.NoError(t, err)
	assert.Equal(t, "VALUE", got.CharacteristicType)
	assert.Equal(t, "0x2000", got.Address)
	assert.Equal(t, "0xFF", *got.BitMask)

	got.CharacteristicType = "valblk"
	got.Address = "4000"
	got.BitMask = nil
	require.NoError(t, UpdateCharacteristic(f, "IdleTarget", got))

	c := f.Project.Module[0].Characteristic[0]
	assert.Equal(t, a2l.ValBlk, c.CharacteristicType)
	assert.Equal(t, uint32(0x4000), c.Address)
	assert.Nil(t, c.BitMask)
}

func TestUpdateCharacteristic_InvalidHexKeepsAddress(t *testing.T) {
	f := load(t)
	data, err := GetCharacteristic(f, "IdleTarget")
	require.NoError(t, err)

	data.Address = "0xG000"
	err = UpdateCharacteristic(f, "IdleTarget", data)
	assert.True(t, errors.Is(err, apperr.ErrInvalidHex))

	after, err := GetCharacteristic(f, "IdleTarget")
	require.NoError(t, err)
	assert.Equal(t, "0x2000", after.Address)

	data, _ = GetCharacteristic(f, "IdleTarget")
	data.BitMask = strPtr("0xFFFFFFFFFFFFFFFF")
	require.NoError(t, UpdateCharacteristic(f, "IdleTarget", data))
	assert.Equal(t, uint64(math.MaxUint64), f.Project.Module[0].Characteristic[0].BitMask.Mask)

	data.BitMask = strPtr("mask")
	assert.True(t, errors.Is(UpdateCharacteristic(f, "IdleTarget", data), apperr.ErrInvalidHex))

	data.BitMask = nil
	data.CharacteristicType = "CUBE_6"
	assert.True(t, errors.Is(UpdateCharacteristic(f, "IdleTarget", data), apperr.ErrInvalidEnum))
}

func TestAxisPts(t *testing.T) {
	f := load(t)
	got, err := GetAxisPts(f, "SpeedAxis")
	require.NoError(t, err)
	assert.Equal(t, models.AxisPtsData{
		Name:           "SpeedAxis",
		LongIdentifier: "Speed breakpoints",
		Address:        "0x3000",
		InputQuantity:  "EngineSpeed",
		DepositRecord:  "RL_Value",
		MaxDiff:        0,
		Conversion:     "CM_Speed",
		MaxAxisPoints:  8,
		LowerLimit:     0,
		UpperLimit:     8000,
	}, got)

	got.MaxAxisPoints = 16
	got.Address = "0x3100"
	require.NoError(t, UpdateAxisPts(f, "SpeedAxis", got))
	assert.Equal(t, uint16(16), f.Project.Module[0].AxisPts[0].MaxAxisPoints)

	got.Address = ""
	assert.True(t, errors.Is(UpdateAxisPts(f, "SpeedAxis", got), apperr.ErrInvalidHex))

	_, err = GetAxisPts(f, "Missing")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestParseEnums(t *testing.T) {
	for in, want := range map[string]a2l.DataType{
		"ubyte": a2l.Ubyte, "AUINT64": a2l.AUint64, "a_int64": a2l.AInt64, "AINT64": a2l.AInt64,
	} {
		got, err := ParseDataType(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	for in, want := range map[string]a2l.CharacteristicType{
		"cube4": a2l.Cube4, "CUBE_5": a2l.Cube5, "ValBlk": a2l.ValBlk, "map": a2l.Map,
	} {
		got, err := ParseCharacteristicType(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := ParseDataType("")
	assert.True(t, errors.Is(err, apperr.ErrInvalidEnum))
}

func TestNarrowResolution(t *testing.T) {
	assert.Equal(t, uint16(0), narrowResolution(-3))
	assert.Equal(t, uint16(0), narrowResolution(math.NaN()))
	assert.Equal(t, uint16(7), narrowResolution(7.99))
	assert.Equal(t, uint16(math.MaxUint16), narrowResolution(1e9))
}

func TestFormatHex(t *testing.T) {
	assert.Equal(t, "0x0", FormatHex(0))
	assert.Equal(t, "0xDEADBEEF", FormatHex(0xdeadbeef))
}
