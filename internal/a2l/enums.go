package a2l

// enumerated is implemented by keyword-valued string types. The decoder
// rejects any token outside enumValues.
type enumerated interface {
	enumValues() []string
}

// DataType is the storage type of a measured or calibrated value.
type DataType string

const (
	Ubyte       DataType = "UBYTE"
	Sbyte       DataType = "SBYTE"
	Uword       DataType = "UWORD"
	Sword       DataType = "SWORD"
	Ulong       DataType = "ULONG"
	Slong       DataType = "SLONG"
	AUint64     DataType = "A_UINT64"
	AInt64      DataType = "A_INT64"
	Float16Ieee DataType = "FLOAT16_IEEE"
	Float32Ieee DataType = "FLOAT32_IEEE"
	Float64Ieee DataType = "FLOAT64_IEEE"
)

func (DataType) enumValues() []string {
	return []string{"UBYTE", "SBYTE", "UWORD", "SWORD", "ULONG", "SLONG", "A_UINT64", "A_INT64",
		"FLOAT16_IEEE", "FLOAT32_IEEE", "FLOAT64_IEEE"}
}

// CharacteristicType is the shape of a calibration object.
type CharacteristicType string

const (
	Ascii  CharacteristicType = "ASCII"
	Curve  CharacteristicType = "CURVE"
	Map    CharacteristicType = "MAP"
	Cuboid CharacteristicType = "CUBOID"
	Cube4  CharacteristicType = "CUBE_4"
	Cube5  CharacteristicType = "CUBE_5"
	ValBlk CharacteristicType = "VAL_BLK"
	Value  CharacteristicType = "VALUE"
)

func (CharacteristicType) enumValues() []string {
	return []string{"ASCII", "CURVE", "MAP", "CUBOID", "CUBE_4", "CUBE_5", "VAL_BLK", "VALUE"}
}

type ConversionType string

const (
	Identical ConversionType = "IDENTICAL"
	Form      ConversionType = "FORM"
	Linear    ConversionType = "LINEAR"
	RatFunc   ConversionType = "RAT_FUNC"
	TabIntp   ConversionType = "TAB_INTP"
	TabNointp ConversionType = "TAB_NOINTP"
	TabVerb   ConversionType = "TAB_VERB"
)

func (ConversionType) enumValues() []string {
	return []string{"IDENTICAL", "FORM", "LINEAR", "RAT_FUNC", "TAB_INTP", "TAB_NOINTP", "TAB_VERB"}
}

type ByteOrder string

const (
	LittleEndian    ByteOrder = "LITTLE_ENDIAN"
	BigEndian       ByteOrder = "BIG_ENDIAN"
	MsbLast         ByteOrder = "MSB_LAST"
	MsbFirst        ByteOrder = "MSB_FIRST"
	MsbFirstMswLast ByteOrder = "MSB_FIRST_MSW_LAST"
	MsbLastMswFirst ByteOrder = "MSB_LAST_MSW_FIRST"
)

func (ByteOrder) enumValues() []string {
	return []string{"LITTLE_ENDIAN", "BIG_ENDIAN", "MSB_LAST", "MSB_FIRST", "MSB_FIRST_MSW_LAST", "MSB_LAST_MSW_FIRST"}
}

type AddrType string

func (AddrType) enumValues() []string {
	return []string{"PBYTE", "PWORD", "PLONG", "PLONGLONG", "DIRECT"}
}

type CalibrationAccess string

func (CalibrationAccess) enumValues() []string {
	return []string{"CALIBRATION", "NO_CALIBRATION", "NOT_IN_MCD_SYSTEM", "OFFLINE_CALIBRATION"}
}

type IndexMode string

func (IndexMode) enumValues() []string {
	return []string{"ALTERNATE_CURVES", "ALTERNATE_WITH_X", "ALTERNATE_WITH_Y", "COLUMN_DIR", "ROW_DIR"}
}

type IndexOrder string

func (IndexOrder) enumValues() []string { return []string{"INDEX_INCR", "INDEX_DECR"} }

type Monotony string

func (Monotony) enumValues() []string {
	return []string{"MON_DECREASE", "MON_INCREASE", "STRICT_DECREASE", "STRICT_INCREASE",
		"MONOTONOUS", "STRICT_MON", "NOT_MON"}
}

type DepositMode string

func (DepositMode) enumValues() []string { return []string{"ABSOLUTE", "DIFFERENCE"} }

type UnitType string

func (UnitType) enumValues() []string { return []string{"DERIVED", "EXTENDED_SI"} }

type Trigger string

func (Trigger) enumValues() []string { return []string{"ON_CHANGE", "ON_USER_REQUEST"} }

type Encoding string

func (Encoding) enumValues() []string { return []string{"UTF8", "UTF16", "UTF32"} }

type AxisAttribute string

func (AxisAttribute) enumValues() []string {
	return []string{"CURVE_AXIS", "COM_AXIS", "FIX_AXIS", "RES_AXIS", "STD_AXIS"}
}

type DataSize string

func (DataSize) enumValues() []string { return []string{"BYTE", "WORD", "LONG"} }

type VarNaming string

// APLHANUM is the spelling the format defines.
func (VarNaming) enumValues() []string { return []string{"NUMERIC", "APLHANUM"} }
