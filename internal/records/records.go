// Package records reads and replaces the editable fields of measurements,
// characteristics and axis points. Lookups scan modules in order and the
// first record with a matching name wins.
package records

import (
	"fmt"
	"math"

	"github.com/CynaCons/OpenT-A2L-Forge/internal/a2l"
	"github.com/CynaCons/OpenT-A2L-Forge/internal/apperr"
	"github.com/CynaCons/OpenT-A2L-Forge/internal/models"
)

func find[T a2l.NamedRecord](f *a2l.File, collection func(*a2l.Module) []T, name string) (T, bool) {
	for _, m := range f.Project.Module {
		for _, r := range collection(m) {
			if r.ObjectName() == name {
				return r, true
			}
		}
	}
	var zero T
	return zero, false
}

func measurements(m *a2l.Module) []*a2l.Measurement       { return m.Measurement }
func characteristics(m *a2l.Module) []*a2l.Characteristic { return m.Characteristic }
func axisPts(m *a2l.Module) []*a2l.AxisPts                { return m.AxisPts }

func notFound(kind, name string) error {
	return fmt.Errorf("%w: %s '%s'", apperr.ErrNotFound, kind, name)
}

func GetMeasurement(f *a2l.File, name string) (models.MeasurementData, error) {
	m, ok := find(f, measurements, name)
	if !ok {
		return models.MeasurementData{}, notFound("measurement", name)
	}
	data := models.MeasurementData{
		Name:           m.Name,
		LongIdentifier: m.LongIdentifier,
		Datatype:       string(m.Datatype),
		Conversion:     m.Conversion,
		Resolution:     float64(m.Resolution),
		Accuracy:       m.Accuracy,
		LowerLimit:     m.LowerLimit,
		UpperLimit:     m.UpperLimit,
	}
	if m.EcuAddress != nil {
		s := FormatHex(uint64(m.EcuAddress.Address))
		data.EcuAddress = &s
	}
	return data, nil
}

// UpdateMeasurement replaces every editable field of the named measurement,
// including its name. A blank ECU address removes it. Nothing is written
// unless all of data validates.
func UpdateMeasurement(f *a2l.File, name string, data models.MeasurementData) error {
	datatype, err := ParseDataType(data.Datatype)
	if err != nil {
		return err
	}
	var addr *a2l.EcuAddress
	if present(data.EcuAddress) {
		v, err := ParseHex32(*data.EcuAddress)
		if err != nil {
			return fmt.Errorf("ecu address: %w", err)
		}
		addr = &a2l.EcuAddress{Address: v}
	}

	m, ok := find(f, measurements, name)
	if !ok {
		return notFound("measurement", name)
	}
	m.SetObjectName(data.Name)
	m.LongIdentifier = data.LongIdentifier
	m.Datatype = datatype
	m.Conversion = data.Conversion
	m.Resolution = narrowResolution(data.Resolution)
	m.Accuracy = data.Accuracy
	m.LowerLimit = data.LowerLimit
	m.UpperLimit = data.UpperLimit
	m.EcuAddress = addr
	return nil
}

func GetCharacteristic(f *a2l.File, name string) (models.CharacteristicData, error) {
	c, ok := find(f, characteristics, name)
	if !ok {
		return models.CharacteristicData{}, notFound("characteristic", name)
	}
	data := models.CharacteristicData{
		Name:               c.Name,
		LongIdentifier:     c.LongIdentifier,
		CharacteristicType: string(c.CharacteristicType),
		Address:            FormatHex(uint64(c.Address)),
		Deposit:            c.Deposit,
		MaxDiff:            c.MaxDiff,
		Conversion:         c.Conversion,
		LowerLimit:         c.LowerLimit,
		UpperLimit:         c.UpperLimit,
	}
	if c.BitMask != nil {
		s := FormatHex(c.BitMask.Mask)
		data.BitMask = &s
	}
	return data, nil
}

// UpdateCharacteristic replaces every editable field of the named
// characteristic. A blank bit mask removes it.
func UpdateCharacteristic(f *a2l.File, name string, data models.CharacteristicData) error {
	ctype, err := ParseCharacteristicType(data.CharacteristicType)
	if err != nil {
		return err
	}
	addr, err := ParseHex32(data.Address)
	if err != nil {
		return fmt.Errorf("address: %w", err)
	}
	var mask *a2l.BitMask
	if present(data.BitMask) {
		v, err := ParseHex64(*data.BitMask)
		if err != nil {
			return fmt.Errorf("bit mask: %w", err)
		}
		mask = &a2l.BitMask{Mask: v}
	}

	c, ok := find(f, characteristics, name)
	if !ok {
		return notFound("characteristic", name)
	}
	c.SetObjectName(data.Name)
	c.LongIdentifier = data.LongIdentifier
	c.CharacteristicType = ctype
	c.Address = addr
	c.Deposit = data.Deposit
	c.MaxDiff = data.MaxDiff
	c.Conversion = data.Conversion
	c.LowerLimit = data.LowerLimit
	c.UpperLimit = data.UpperLimit
	c.BitMask = mask
	return nil
}

func GetAxisPts(f *a2l.File, name string) (models.AxisPtsData, error) {
	a, ok := find(f, axisPts, name)
	if !ok {
		return models.AxisPtsData{}, notFound("axis points", name)
	}
	return models.AxisPtsData{
		Name:           a.Name,
		LongIdentifier: a.LongIdentifier,
		Address:        FormatHex(uint64(a.Address)),
		InputQuantity:  a.InputQuantity,
		DepositRecord:  a.DepositRecord,
		MaxDiff:        a.MaxDiff,
		Conversion:     a.Conversion,
		MaxAxisPoints:  a.MaxAxisPoints,
		LowerLimit:     a.LowerLimit,
		UpperLimit:     a.UpperLimit,
	}, nil
}

func UpdateAxisPts(f *a2l.File, name string, data models.AxisPtsData) error {
	addr, err := ParseHex32(data.Address)
	if err != nil {
		return fmt.Errorf("address: %w", err)
	}

	a, ok := find(f, axisPts, name)
	if !ok {
		return notFound("axis points", name)
	}
	a.SetObjectName(data.Name)
	a.LongIdentifier = data.LongIdentifier
	a.Address = addr
	a.InputQuantity = data.InputQuantity
	a.DepositRecord = data.DepositRecord
	a.MaxDiff = data.MaxDiff
	a.Conversion = data.Conversion
	a.MaxAxisPoints = data.MaxAxisPoints
	a.LowerLimit = data.LowerLimit
	a.UpperLimit = data.UpperLimit
	return nil
}

// narrowResolution truncates toward zero and saturates at the uint16 range.
// NaN maps to zero.
func narrowResolution(v float64) uint16 {
	switch {
	case math.IsNaN(v) || v <= 0:
		return 0
	case v >= math.MaxUint16:
		return math.MaxUint16
	}
	return uint16(v)
}
