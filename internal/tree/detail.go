package tree

import (
	"fmt"
	"strconv"

	"github.com/CynaCons/OpenT-A2L-Forge/internal/a2l"
)

// Absent is shown for optional attributes that are not set.
const Absent = "—"

// Detail is one labelled attribute of a record.
type Detail struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

func text(label, value string) Detail { return Detail{Label: label, Value: value} }

func number(label string, f float64) Detail { return Detail{Label: label, Value: formatNumber(f)} }

func integer[N ~int | ~int16 | ~int32 | ~uint16 | ~uint32](label string, n N) Detail {
	return Detail{Label: label, Value: strconv.FormatInt(int64(n), 10)}
}

func count(label string, n int) Detail { return integer(label, n) }

func hex(label string, n uint32) Detail { return Detail{Label: label, Value: fmt.Sprintf("0x%X", n)} }

func limits(lower, upper float64) Detail {
	return Detail{Label: "Limits", Value: formatNumber(lower) + " .. " + formatNumber(upper)}
}

func optional[T any](label string, v *T) Detail {
	if v == nil {
		return Detail{Label: label, Value: Absent}
	}
	return Detail{Label: label, Value: a2l.Inline(v)}
}

func flag(label string, set bool) Detail {
	if !set {
		return Detail{Label: label, Value: Absent}
	}
	return Detail{Label: label, Value: "true"}
}

func formatNumber(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

func describe(longIdentifier string) *string {
	if longIdentifier == "" {
		return nil
	}
	return &longIdentifier
}

// Project maps a record to its description and its ordered attribute rows.
// Kinds without a long identifier have no description.
func Project(r a2l.Record) (*string, []Detail) {
	switch v := r.(type) {
	case *a2l.Measurement:
		return describe(v.LongIdentifier), []Detail{
			text("Long identifier", v.LongIdentifier),
			text("Datatype", string(v.Datatype)),
			text("Conversion", v.Conversion),
			integer("Resolution", v.Resolution),
			number("Accuracy", v.Accuracy),
			limits(v.LowerLimit, v.UpperLimit),
			optional("Address type", v.AddressType),
			optional("ECU address", v.EcuAddress),
			optional("ECU address ext", v.EcuAddressExtension),
			optional("Byte order", v.ByteOrder),
			optional("Array size", v.ArraySize),
			optional("Bit mask", v.BitMask),
			optional("Bit operation", v.BitOperation),
			optional("Display identifier", v.DisplayIdentifier),
			optional("Format", v.Format),
			optional("Function list", v.FunctionList),
			optional("Layout", v.Layout),
			optional("Matrix dim", v.MatrixDim),
			optional("Max refresh", v.MaxRefresh),
			optional("Model link", v.ModelLink),
			optional("Phys unit", v.PhysUnit),
			flag("Read/Write", v.ReadWrite),
			optional("Ref memory segment", v.RefMemorySegment),
			optional("Symbol link", v.SymbolLink),
			optional("Virtual", v.Virtual),
			count("Annotations", len(v.Annotation)),
			count("IF_DATA blocks", len(v.IfData)),
		}
	case *a2l.Characteristic:
		return describe(v.LongIdentifier), []Detail{
			text("Long identifier", v.LongIdentifier),
			text("Type", string(v.CharacteristicType)),
			hex("Address", v.Address),
			text("Deposit", v.Deposit),
			number("Max diff", v.MaxDiff),
			text("Conversion", v.Conversion),
			limits(v.LowerLimit, v.UpperLimit),
			optional("Bit mask", v.BitMask),
			optional("Byte order", v.ByteOrder),
			optional("Calibration access", v.CalibrationAccess),
			optional("Display identifier", v.DisplayIdentifier),
			optional("Encoding", v.Encoding),
			optional("Extended limits", v.ExtendedLimits),
			optional("Format", v.Format),
			optional("Function list", v.FunctionList),
			flag("Guard rails", v.GuardRails),
			optional("Matrix dim", v.MatrixDim),
			optional("Max refresh", v.MaxRefresh),
			optional("Model link", v.ModelLink),
			optional("Phys unit", v.PhysUnit),
			flag("Read only", v.ReadOnly),
			optional("Ref memory segment", v.RefMemorySegment),
			optional("Step size", v.StepSize),
			optional("Symbol link", v.SymbolLink),
			count("Axis descriptors", len(v.AxisDescr)),
			count("Annotations", len(v.Annotation)),
			count("IF_DATA blocks", len(v.IfData)),
		}
	case *a2l.AxisPts:
		return describe(v.LongIdentifier), []Detail{
			text("Long identifier", v.LongIdentifier),
			hex("Address", v.Address),
			text("Input quantity", v.InputQuantity),
			text("Deposit record", v.DepositRecord),
			number("Max diff", v.MaxDiff),
			text("Conversion", v.Conversion),
			integer("Max axis points", v.MaxAxisPoints),
			limits(v.LowerLimit, v.UpperLimit),
			optional("Byte order", v.ByteOrder),
			optional("Calibration access", v.CalibrationAccess),
			optional("Deposit", v.Deposit),
			optional("Display identifier", v.DisplayIdentifier),
			optional("Extended limits", v.ExtendedLimits),
			optional("Format", v.Format),
			optional("Function list", v.FunctionList),
			flag("Guard rails", v.GuardRails),
			optional("Max refresh", v.MaxRefresh),
			optional("Model link", v.ModelLink),
			optional("Monotony", v.Monotony),
			optional("Phys unit", v.PhysUnit),
			flag("Read only", v.ReadOnly),
			optional("Ref memory segment", v.RefMemorySegment),
			optional("Step size", v.StepSize),
			optional("Symbol link", v.SymbolLink),
			count("Annotations", len(v.Annotation)),
			count("IF_DATA blocks", len(v.IfData)),
		}
	case *a2l.CompuMethod:
		return describe(v.LongIdentifier), []Detail{
			text("Long identifier", v.LongIdentifier),
			text("Conversion type", string(v.ConversionType)),
			text("Format", v.Format),
			text("Unit", v.Unit),
			optional("Coeffs", v.Coeffs),
			optional("Coeffs linear", v.CoeffsLinear),
			optional("Compu tab ref", v.CompuTabRef),
			optional("Formula", v.Formula),
			optional("Ref unit", v.RefUnit),
			optional("Status string ref", v.StatusStringRef),
		}
	case *a2l.CompuTab:
		return describe(v.LongIdentifier), []Detail{
			text("Long identifier", v.LongIdentifier),
			text("Conversion type", string(v.ConversionType)),
			integer("Value pairs", v.NumberValuePairs),
			count("Entries", len(v.TabEntry)),
			optional("Default value", v.DefaultValue),
			optional("Default value numeric", v.DefaultValueNumeric),
		}
	case *a2l.CompuVtab:
		return describe(v.LongIdentifier), []Detail{
			text("Long identifier", v.LongIdentifier),
			text("Conversion type", string(v.ConversionType)),
			integer("Value pairs", v.NumberValuePairs),
			count("Entries", len(v.ValuePairs)),
			optional("Default value", v.DefaultValue),
		}
	case *a2l.CompuVtabRange:
		return describe(v.LongIdentifier), []Detail{
			text("Long identifier", v.LongIdentifier),
			integer("Value triples", v.NumberValueTriples),
			count("Entries", len(v.ValueTriples)),
			optional("Default value", v.DefaultValue),
		}
	case *a2l.RecordLayout:
		return nil, []Detail{
			count("Fields set", layoutFieldsSet(v)),
			count("Reserved entries", len(v.Reserved)),
			flag("Static record layout", v.StaticRecordLayout),
			flag("Static address offsets", v.StaticAddressOffsets),
		}
	case *a2l.Function:
		return describe(v.LongIdentifier), []Detail{
			text("Long identifier", v.LongIdentifier),
			optional("AR component", v.ArComponent),
			optional("Def characteristic", v.DefCharacteristic),
			optional("Function version", v.FunctionVersion),
			optional("In measurement", v.InMeasurement),
			optional("Loc measurement", v.LocMeasurement),
			optional("Out measurement", v.OutMeasurement),
			optional("Ref characteristic", v.RefCharacteristic),
			optional("Sub function", v.SubFunction),
			count("Annotations", len(v.Annotation)),
			count("IF_DATA blocks", len(v.IfData)),
		}
	case *a2l.Group:
		return describe(v.LongIdentifier), []Detail{
			text("Long identifier", v.LongIdentifier),
			optional("Function list", v.FunctionList),
			optional("Ref characteristic", v.RefCharacteristic),
			optional("Ref measurement", v.RefMeasurement),
			flag("Root", v.Root),
			optional("Sub group", v.SubGroup),
			count("Annotations", len(v.Annotation)),
			count("IF_DATA blocks", len(v.IfData)),
		}
	case *a2l.Unit:
		return describe(v.LongIdentifier), []Detail{
			text("Long identifier", v.LongIdentifier),
			text("Display", v.Display),
			text("Unit type", string(v.UnitType)),
			optional("Ref unit", v.RefUnit),
			optional("SI exponents", v.SiExponents),
			optional("Unit conversion", v.UnitConversion),
		}
	case *a2l.Frame:
		return describe(v.LongIdentifier), []Detail{
			text("Long identifier", v.LongIdentifier),
			integer("Scaling unit", v.ScalingUnit),
			integer("Rate", v.Rate),
			optional("Frame measurement", v.FrameMeasurement),
			count("IF_DATA blocks", len(v.IfData)),
		}
	case *a2l.Blob:
		return describe(v.LongIdentifier), []Detail{
			text("Long identifier", v.LongIdentifier),
			hex("Start address", v.StartAddress),
			integer("Size", v.Size),
			optional("Address type", v.AddressType),
			optional("Calibration access", v.CalibrationAccess),
			optional("Display identifier", v.DisplayIdentifier),
			optional("ECU address ext", v.EcuAddressExtension),
			optional("Max refresh", v.MaxRefresh),
			optional("Model link", v.ModelLink),
			optional("Symbol link", v.SymbolLink),
			count("Annotations", len(v.Annotation)),
			count("IF_DATA blocks", len(v.IfData)),
		}
	case *a2l.Instance:
		return describe(v.LongIdentifier), []Detail{
			text("Long identifier", v.LongIdentifier),
			text("Type ref", v.TypeRef),
			hex("Start address", v.StartAddress),
			optional("Address type", v.AddressType),
			optional("Calibration access", v.CalibrationAccess),
			optional("Display identifier", v.DisplayIdentifier),
			optional("ECU address ext", v.EcuAddressExtension),
			optional("Layout", v.Layout),
			optional("Matrix dim", v.MatrixDim),
			optional("Max refresh", v.MaxRefresh),
			optional("Model link", v.ModelLink),
			flag("Read/Write", v.ReadWrite),
			optional("Symbol link", v.SymbolLink),
			count("Overwrite entries", len(v.Overwrite)),
			count("Annotations", len(v.Annotation)),
			count("IF_DATA blocks", len(v.IfData)),
		}
	case *a2l.Transformer:
		return nil, []Detail{
			text("Version", v.Version),
			text("DLL (32-bit)", v.Dllname32),
			text("DLL (64-bit)", v.Dllname64),
			integer("Timeout", v.Timeout),
			text("Trigger", string(v.Trigger)),
			text("Inverse transformer", v.InverseTransformer),
			optional("In objects", v.TransformerInObjects),
			optional("Out objects", v.TransformerOutObjects),
		}
	case *a2l.TypedefAxis:
		return describe(v.LongIdentifier), []Detail{
			text("Long identifier", v.LongIdentifier),
			text("Input quantity", v.InputQuantity),
			text("Record layout", v.RecordLayout),
			number("Max diff", v.MaxDiff),
			text("Conversion", v.Conversion),
			integer("Max axis points", v.MaxAxisPoints),
			limits(v.LowerLimit, v.UpperLimit),
			optional("Byte order", v.ByteOrder),
			optional("Deposit", v.Deposit),
			optional("Extended limits", v.ExtendedLimits),
			optional("Format", v.Format),
			optional("Monotony", v.Monotony),
			optional("Phys unit", v.PhysUnit),
			optional("Step size", v.StepSize),
		}
	case *a2l.TypedefBlob:
		return describe(v.LongIdentifier), []Detail{
			text("Long identifier", v.LongIdentifier),
			integer("Size", v.Size),
			optional("Address type", v.AddressType),
		}
	case *a2l.TypedefCharacteristic:
		return describe(v.LongIdentifier), []Detail{
			text("Long identifier", v.LongIdentifier),
			text("Type", string(v.CharacteristicType)),
			text("Record layout", v.RecordLayout),
			number("Max diff", v.MaxDiff),
			text("Conversion", v.Conversion),
			limits(v.LowerLimit, v.UpperLimit),
			optional("Bit mask", v.BitMask),
			optional("Byte order", v.ByteOrder),
			flag("Discrete", v.Discrete),
			optional("Encoding", v.Encoding),
			optional("Extended limits", v.ExtendedLimits),
			optional("Format", v.Format),
			optional("Matrix dim", v.MatrixDim),
			optional("Number", v.Number),
			optional("Phys unit", v.PhysUnit),
			optional("Step size", v.StepSize),
			count("Axis descriptors", len(v.AxisDescr)),
		}
	case *a2l.TypedefMeasurement:
		return describe(v.LongIdentifier), []Detail{
			text("Long identifier", v.LongIdentifier),
			text("Datatype", string(v.Datatype)),
			text("Conversion", v.Conversion),
			integer("Resolution", v.Resolution),
			number("Accuracy", v.Accuracy),
			limits(v.LowerLimit, v.UpperLimit),
			optional("Address type", v.AddressType),
			optional("Bit mask", v.BitMask),
			optional("Bit operation", v.BitOperation),
			optional("Byte order", v.ByteOrder),
			flag("Discrete", v.Discrete),
			optional("Error mask", v.ErrorMask),
			optional("Format", v.Format),
			optional("Layout", v.Layout),
			optional("Matrix dim", v.MatrixDim),
			optional("Phys unit", v.PhysUnit),
		}
	case *a2l.TypedefStructure:
		return describe(v.LongIdentifier), []Detail{
			text("Long identifier", v.LongIdentifier),
			integer("Total size", v.TotalSize),
			optional("Address type", v.AddressType),
			flag("Consistent exchange", v.ConsistentExchange),
			optional("Symbol type link", v.SymbolTypeLink),
			count("Structure components", len(v.StructureComponent)),
		}
	case *a2l.ModCommon:
		return nil, []Detail{
			text("Comment", v.Comment),
			optional("Byte order", v.ByteOrder),
			optional("Data size", v.DataSize),
			optional("Deposit", v.Deposit),
			optional("S-Rec layout", v.SRecLayout),
			optional("Alignment byte", v.AlignmentByte),
			optional("Alignment float16", v.AlignmentFloat16Ieee),
			optional("Alignment float32", v.AlignmentFloat32Ieee),
			optional("Alignment float64", v.AlignmentFloat64Ieee),
			optional("Alignment int64", v.AlignmentInt64),
			optional("Alignment long", v.AlignmentLong),
			optional("Alignment word", v.AlignmentWord),
		}
	case *a2l.ModPar:
		return nil, []Detail{
			text("Comment", v.Comment),
			optional("CPU type", v.CpuType),
			optional("Customer", v.Customer),
			optional("Customer no", v.CustomerNo),
			optional("ECU", v.Ecu),
			optional("EPK", v.Epk),
			optional("No. of interfaces", v.NoOfInterfaces),
			optional("Supplier", v.Supplier),
			optional("User", v.User),
			optional("Version", v.Version),
			count("Addr EPK", len(v.AddrEpk)),
			count("Calibration methods", len(v.CalibrationMethod)),
			count("Memory layouts", len(v.MemoryLayout)),
			count("Memory segments", len(v.MemorySegment)),
			count("System constants", len(v.SystemConstant)),
		}
	case *a2l.VariantCoding:
		return nil, []Detail{
			count("Var characteristic", len(v.VarCharacteristic)),
			count("Var criterion", len(v.VarCriterion)),
			count("Var forbidden comb", len(v.VarForbiddenComb)),
			optional("Var naming", v.VarNaming),
			optional("Var separator", v.VarSeparator),
		}
	case *a2l.A2ml:
		return nil, []Detail{count("A2ML text length", len(v.Text))}
	case *a2l.IfData:
		items := "none"
		if v.Valid {
			items = "present"
		}
		return nil, []Detail{
			text("Valid", strconv.FormatBool(v.Valid)),
			text("Items", items),
		}
	case *a2l.UserRights:
		return nil, []Detail{
			text("User level", v.UserLevelId),
			flag("Read only", v.ReadOnly),
			count("Ref groups", len(v.RefGroup)),
		}
	}
	return nil, nil
}

func layoutFieldsSet(r *a2l.RecordLayout) int {
	present := []bool{
		r.AlignmentByte != nil,
		r.AlignmentFloat16Ieee != nil,
		r.AlignmentFloat32Ieee != nil,
		r.AlignmentFloat64Ieee != nil,
		r.AlignmentInt64 != nil,
		r.AlignmentLong != nil,
		r.AlignmentWord != nil,
		r.AxisPtsX != nil,
		r.AxisPtsY != nil,
		r.AxisPtsZ != nil,
		r.AxisPts4 != nil,
		r.AxisPts5 != nil,
		r.FncValues != nil,
		r.Identification != nil,
		r.StaticRecordLayout,
		r.StaticAddressOffsets,
	}
	n := 0
	for _, p := range present {
		if p {
			n++
		}
	}
	return n
}
