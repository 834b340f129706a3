package a2l

// Struct tags drive the codec. A field tagged with a keyword is optional and
// may appear in any order after the positional fields; a field without a
// keyword is positional. Options:
//
//	block   the keyword is written as /begin KEYWORD ... /end KEYWORD
//	raw     the block content is kept verbatim
//	quoted  the string is written as a quoted string
//	hex     the integer is written as 0x-prefixed hexadecimal
//
// Slices of pointers under a keyword hold repeated occurrences. Positional
// slices are variadic and consume values until the next keyword.

// File is a parsed A2L document.
type File struct {
	Asap2Version *Version `a2l:"ASAP2_VERSION"`
	A2mlVersion  *Version `a2l:"A2ML_VERSION"`
	Project      Project  `a2l:"PROJECT,block"`
}

type Version struct {
	VersionNo uint16
	UpgradeNo uint16
}

type Project struct {
	Name           string
	LongIdentifier string    `a2l:",quoted"`
	Header         *Header   `a2l:"HEADER,block"`
	Module         []*Module `a2l:"MODULE,block"`
}

type Header struct {
	Comment   string  `a2l:",quoted"`
	Version   *string `a2l:"VERSION,quoted"`
	ProjectNo *string `a2l:"PROJECT_NO"`
}

// NewHeader returns a header carrying only a comment.
func NewHeader(comment string) *Header {
	return &Header{Comment: comment}
}

// Module holds every record collection of one ECU description. Field order is
// the order in which the writer emits the collections.
type Module struct {
	Name                  string
	LongIdentifier        string                   `a2l:",quoted"`
	A2ml                  *A2ml                    `a2l:"A2ML,block,raw"`
	ModPar                *ModPar                  `a2l:"MOD_PAR,block"`
	ModCommon             *ModCommon               `a2l:"MOD_COMMON,block"`
	IfData                []*IfData                `a2l:"IF_DATA,block,raw"`
	CompuMethod           []*CompuMethod           `a2l:"COMPU_METHOD,block"`
	CompuTab              []*CompuTab              `a2l:"COMPU_TAB,block"`
	CompuVtab             []*CompuVtab             `a2l:"COMPU_VTAB,block"`
	CompuVtabRange        []*CompuVtabRange        `a2l:"COMPU_VTAB_RANGE,block"`
	Unit                  []*Unit                  `a2l:"UNIT,block"`
	RecordLayout          []*RecordLayout          `a2l:"RECORD_LAYOUT,block"`
	Measurement           []*Measurement           `a2l:"MEASUREMENT,block"`
	Characteristic        []*Characteristic        `a2l:"CHARACTERISTIC,block"`
	AxisPts               []*AxisPts               `a2l:"AXIS_PTS,block"`
	Blob                  []*Blob                  `a2l:"BLOB,block"`
	Instance              []*Instance              `a2l:"INSTANCE,block"`
	Function              []*Function              `a2l:"FUNCTION,block"`
	Group                 []*Group                 `a2l:"GROUP,block"`
	Frame                 []*Frame                 `a2l:"FRAME,block"`
	Transformer           []*Transformer           `a2l:"TRANSFORMER,block"`
	TypedefAxis           []*TypedefAxis           `a2l:"TYPEDEF_AXIS,block"`
	TypedefBlob           []*TypedefBlob           `a2l:"TYPEDEF_BLOB,block"`
	TypedefCharacteristic []*TypedefCharacteristic `a2l:"TYPEDEF_CHARACTERISTIC,block"`
	TypedefMeasurement    []*TypedefMeasurement    `a2l:"TYPEDEF_MEASUREMENT,block"`
	TypedefStructure      []*TypedefStructure      `a2l:"TYPEDEF_STRUCTURE,block"`
	UserRights            []*UserRights            `a2l:"USER_RIGHTS,block"`
	VariantCoding         *VariantCoding           `a2l:"VARIANT_CODING,block"`
}

// Record is any entry held by a Module.
type Record interface {
	isRecord()
}

// NamedRecord is a record addressed by its name within its collection.
type NamedRecord interface {
	Record
	ObjectName() string
	SetObjectName(name string)
}

type Measurement struct {
	Name                string
	LongIdentifier      string `a2l:",quoted"`
	Datatype            DataType
	Conversion          string
	Resolution          uint16
	Accuracy            float64
	LowerLimit          float64
	UpperLimit          float64
	AddressType         *AddrType     `a2l:"ADDRESS_TYPE"`
	Annotation          []*Annotation `a2l:"ANNOTATION,block"`
	ArraySize           *uint16       `a2l:"ARRAY_SIZE"`
	BitMask             *BitMask      `a2l:"BIT_MASK"`
	BitOperation        *BitOperation `a2l:"BIT_OPERATION,block"`
	ByteOrder           *ByteOrder    `a2l:"BYTE_ORDER"`
	Discrete            bool          `a2l:"DISCRETE"`
	DisplayIdentifier   *string       `a2l:"DISPLAY_IDENTIFIER"`
	EcuAddress          *EcuAddress   `a2l:"ECU_ADDRESS"`
	EcuAddressExtension *int16        `a2l:"ECU_ADDRESS_EXTENSION"`
	ErrorMask           *BitMask      `a2l:"ERROR_MASK"`
	Format              *string       `a2l:"FORMAT,quoted"`
	FunctionList        *IdentList    `a2l:"FUNCTION_LIST,block"`
	IfData              []*IfData     `a2l:"IF_DATA,block,raw"`
	Layout              *IndexMode    `a2l:"LAYOUT"`
	MatrixDim           *MatrixDim    `a2l:"MATRIX_DIM"`
	MaxRefresh          *MaxRefresh   `a2l:"MAX_REFRESH"`
	ModelLink           *string       `a2l:"MODEL_LINK,quoted"`
	PhysUnit            *string       `a2l:"PHYS_UNIT,quoted"`
	ReadWrite           bool          `a2l:"READ_WRITE"`
	RefMemorySegment    *string       `a2l:"REF_MEMORY_SEGMENT"`
	SymbolLink          *SymbolLink   `a2l:"SYMBOL_LINK"`
	Virtual             *IdentList    `a2l:"VIRTUAL,block"`
}

// NewMeasurement returns a measurement with zero limits and no conversion.
func NewMeasurement(name string, datatype DataType) *Measurement {
	return &Measurement{Name: name, Datatype: datatype, Conversion: "NO_COMPU_METHOD"}
}

type Characteristic struct {
	Name               string
	LongIdentifier     string `a2l:",quoted"`
	CharacteristicType CharacteristicType
	Address            uint32 `a2l:",hex"`
	Deposit            string
	MaxDiff            float64
	Conversion         string
	LowerLimit         float64
	UpperLimit         float64
	Annotation         []*Annotation      `a2l:"ANNOTATION,block"`
	AxisDescr          []*AxisDescr       `a2l:"AXIS_DESCR,block"`
	BitMask            *BitMask           `a2l:"BIT_MASK"`
	ByteOrder          *ByteOrder         `a2l:"BYTE_ORDER"`
	CalibrationAccess  *CalibrationAccess `a2l:"CALIBRATION_ACCESS"`
	DisplayIdentifier  *string            `a2l:"DISPLAY_IDENTIFIER"`
	Encoding           *Encoding          `a2l:"ENCODING"`
	ExtendedLimits     *Limits            `a2l:"EXTENDED_LIMITS"`
	Format             *string            `a2l:"FORMAT,quoted"`
	FunctionList       *IdentList         `a2l:"FUNCTION_LIST,block"`
	GuardRails         bool               `a2l:"GUARD_RAILS"`
	IfData             []*IfData          `a2l:"IF_DATA,block,raw"`
	MatrixDim          *MatrixDim         `a2l:"MATRIX_DIM"`
	MaxRefresh         *MaxRefresh        `a2l:"MAX_REFRESH"`
	ModelLink          *string            `a2l:"MODEL_LINK,quoted"`
	Number             *uint16            `a2l:"NUMBER"`
	PhysUnit           *string            `a2l:"PHYS_UNIT,quoted"`
	ReadOnly           bool               `a2l:"READ_ONLY"`
	RefMemorySegment   *string            `a2l:"REF_MEMORY_SEGMENT"`
	StepSize           *float64           `a2l:"STEP_SIZE"`
	SymbolLink         *SymbolLink        `a2l:"SYMBOL_LINK"`
}

type AxisPts struct {
	Name                string
	LongIdentifier      string `a2l:",quoted"`
	Address             uint32 `a2l:",hex"`
	InputQuantity       string
	DepositRecord       string
	MaxDiff             float64
	Conversion          string
	MaxAxisPoints       uint16
	LowerLimit          float64
	UpperLimit          float64
	Annotation          []*Annotation      `a2l:"ANNOTATION,block"`
	ByteOrder           *ByteOrder         `a2l:"BYTE_ORDER"`
	CalibrationAccess   *CalibrationAccess `a2l:"CALIBRATION_ACCESS"`
	Deposit             *DepositMode       `a2l:"DEPOSIT"`
	DisplayIdentifier   *string            `a2l:"DISPLAY_IDENTIFIER"`
	EcuAddressExtension *int16             `a2l:"ECU_ADDRESS_EXTENSION"`
	ExtendedLimits      *Limits            `a2l:"EXTENDED_LIMITS"`
	Format              *string            `a2l:"FORMAT,quoted"`
	FunctionList        *IdentList         `a2l:"FUNCTION_LIST,block"`
	GuardRails          bool               `a2l:"GUARD_RAILS"`
	IfData              []*IfData          `a2l:"IF_DATA,block,raw"`
	MaxRefresh          *MaxRefresh        `a2l:"MAX_REFRESH"`
	ModelLink           *string            `a2l:"MODEL_LINK,quoted"`
	Monotony            *Monotony          `a2l:"MONOTONY"`
	PhysUnit            *string            `a2l:"PHYS_UNIT,quoted"`
	ReadOnly            bool               `a2l:"READ_ONLY"`
	RefMemorySegment    *string            `a2l:"REF_MEMORY_SEGMENT"`
	StepSize            *float64           `a2l:"STEP_SIZE"`
	SymbolLink          *SymbolLink        `a2l:"SYMBOL_LINK"`
}

type CompuMethod struct {
	Name            string
	LongIdentifier  string `a2l:",quoted"`
	ConversionType  ConversionType
	Format          string        `a2l:",quoted"`
	Unit            string        `a2l:",quoted"`
	Coeffs          *Coeffs       `a2l:"COEFFS"`
	CoeffsLinear    *CoeffsLinear `a2l:"COEFFS_LINEAR"`
	CompuTabRef     *string       `a2l:"COMPU_TAB_REF"`
	Formula         *Formula      `a2l:"FORMULA,block"`
	RefUnit         *string       `a2l:"REF_UNIT"`
	StatusStringRef *string       `a2l:"STATUS_STRING_REF"`
}

type CompuTab struct {
	Name                string
	LongIdentifier      string `a2l:",quoted"`
	ConversionType      ConversionType
	NumberValuePairs    uint16
	TabEntry            []*TabEntry
	DefaultValue        *string  `a2l:"DEFAULT_VALUE,quoted"`
	DefaultValueNumeric *float64 `a2l:"DEFAULT_VALUE_NUMERIC"`
}

type CompuVtab struct {
	Name             string
	LongIdentifier   string `a2l:",quoted"`
	ConversionType   ConversionType
	NumberValuePairs uint16
	ValuePairs       []*ValuePair
	DefaultValue     *string `a2l:"DEFAULT_VALUE,quoted"`
}

type CompuVtabRange struct {
	Name               string
	LongIdentifier     string `a2l:",quoted"`
	NumberValueTriples uint16
	ValueTriples       []*ValueTriple
	DefaultValue       *string `a2l:"DEFAULT_VALUE,quoted"`
}

type RecordLayout struct {
	Name                 string
	AlignmentByte        *uint16     `a2l:"ALIGNMENT_BYTE"`
	AlignmentFloat16Ieee *uint16     `a2l:"ALIGNMENT_FLOAT16_IEEE"`
	AlignmentFloat32Ieee *uint16     `a2l:"ALIGNMENT_FLOAT32_IEEE"`
	AlignmentFloat64Ieee *uint16     `a2l:"ALIGNMENT_FLOAT64_IEEE"`
	AlignmentInt64       *uint16     `a2l:"ALIGNMENT_INT64"`
	AlignmentLong        *uint16     `a2l:"ALIGNMENT_LONG"`
	AlignmentWord        *uint16     `a2l:"ALIGNMENT_WORD"`
	AxisPtsX             *AxisPtsDim `a2l:"AXIS_PTS_X"`
	AxisPtsY             *AxisPtsDim `a2l:"AXIS_PTS_Y"`
	AxisPtsZ             *AxisPtsDim `a2l:"AXIS_PTS_Z"`
	AxisPts4             *AxisPtsDim `a2l:"AXIS_PTS_4"`
	AxisPts5             *AxisPtsDim `a2l:"AXIS_PTS_5"`
	FncValues            *FncValues  `a2l:"FNC_VALUES"`
	Identification       *Position   `a2l:"IDENTIFICATION"`
	NoAxisPtsX           *Position   `a2l:"NO_AXIS_PTS_X"`
	NoAxisPtsY           *Position   `a2l:"NO_AXIS_PTS_Y"`
	Reserved             []*Reserved `a2l:"RESERVED"`
	StaticAddressOffsets bool        `a2l:"STATIC_ADDRESS_OFFSETS"`
	StaticRecordLayout   bool        `a2l:"STATIC_RECORD_LAYOUT"`
}

type Function struct {
	Name              string
	LongIdentifier    string        `a2l:",quoted"`
	Annotation        []*Annotation `a2l:"ANNOTATION,block"`
	ArComponent       *ArComponent  `a2l:"AR_COMPONENT,block"`
	DefCharacteristic *IdentList    `a2l:"DEF_CHARACTERISTIC,block"`
	FunctionVersion   *string       `a2l:"FUNCTION_VERSION,quoted"`
	IfData            []*IfData     `a2l:"IF_DATA,block,raw"`
	InMeasurement     *IdentList    `a2l:"IN_MEASUREMENT,block"`
	LocMeasurement    *IdentList    `a2l:"LOC_MEASUREMENT,block"`
	OutMeasurement    *IdentList    `a2l:"OUT_MEASUREMENT,block"`
	RefCharacteristic *IdentList    `a2l:"REF_CHARACTERISTIC,block"`
	SubFunction       *IdentList    `a2l:"SUB_FUNCTION,block"`
}

type Group struct {
	Name              string
	LongIdentifier    string        `a2l:",quoted"`
	Annotation        []*Annotation `a2l:"ANNOTATION,block"`
	FunctionList      *IdentList    `a2l:"FUNCTION_LIST,block"`
	IfData            []*IfData     `a2l:"IF_DATA,block,raw"`
	RefCharacteristic *IdentList    `a2l:"REF_CHARACTERISTIC,block"`
	RefMeasurement    *IdentList    `a2l:"REF_MEASUREMENT,block"`
	Root              bool          `a2l:"ROOT"`
	SubGroup          *IdentList    `a2l:"SUB_GROUP,block"`
}

type Unit struct {
	Name           string
	LongIdentifier string `a2l:",quoted"`
	Display        string `a2l:",quoted"`
	UnitType       UnitType
	RefUnit        *string         `a2l:"REF_UNIT"`
	SiExponents    *SiExponents    `a2l:"SI_EXPONENTS"`
	UnitConversion *UnitConversion `a2l:"UNIT_CONVERSION"`
}

type Frame struct {
	Name             string
	LongIdentifier   string `a2l:",quoted"`
	ScalingUnit      uint16
	Rate             uint32
	FrameMeasurement *IdentList `a2l:"FRAME_MEASUREMENT"`
	IfData           []*IfData  `a2l:"IF_DATA,block,raw"`
}

type Blob struct {
	Name                string
	LongIdentifier      string `a2l:",quoted"`
	StartAddress        uint32 `a2l:",hex"`
	Size                uint32
	AddressType         *AddrType          `a2l:"ADDRESS_TYPE"`
	Annotation          []*Annotation      `a2l:"ANNOTATION,block"`
	CalibrationAccess   *CalibrationAccess `a2l:"CALIBRATION_ACCESS"`
	DisplayIdentifier   *string            `a2l:"DISPLAY_IDENTIFIER"`
	EcuAddressExtension *int16             `a2l:"ECU_ADDRESS_EXTENSION"`
	IfData              []*IfData          `a2l:"IF_DATA,block,raw"`
	MaxRefresh          *MaxRefresh        `a2l:"MAX_REFRESH"`
	ModelLink           *string            `a2l:"MODEL_LINK,quoted"`
	SymbolLink          *SymbolLink        `a2l:"SYMBOL_LINK"`
}

type Instance struct {
	Name                string
	LongIdentifier      string `a2l:",quoted"`
	TypeRef             string
	StartAddress        uint32             `a2l:",hex"`
	AddressType         *AddrType          `a2l:"ADDRESS_TYPE"`
	Annotation          []*Annotation      `a2l:"ANNOTATION,block"`
	CalibrationAccess   *CalibrationAccess `a2l:"CALIBRATION_ACCESS"`
	DisplayIdentifier   *string            `a2l:"DISPLAY_IDENTIFIER"`
	EcuAddressExtension *int16             `a2l:"ECU_ADDRESS_EXTENSION"`
	IfData              []*IfData          `a2l:"IF_DATA,block,raw"`
	Layout              *IndexMode         `a2l:"LAYOUT"`
	MatrixDim           *MatrixDim         `a2l:"MATRIX_DIM"`
	MaxRefresh          *MaxRefresh        `a2l:"MAX_REFRESH"`
	ModelLink           *string            `a2l:"MODEL_LINK,quoted"`
	Overwrite           []*Overwrite       `a2l:"OVERWRITE,block"`
	ReadWrite           bool               `a2l:"READ_WRITE"`
	SymbolLink          *SymbolLink        `a2l:"SYMBOL_LINK"`
}

type Transformer struct {
	Name                  string
	Version               string `a2l:",quoted"`
	Dllname32             string `a2l:",quoted"`
	Dllname64             string `a2l:",quoted"`
	Timeout               uint32
	Trigger               Trigger
	InverseTransformer    string
	TransformerInObjects  *IdentList `a2l:"TRANSFORMER_IN_OBJECTS,block"`
	TransformerOutObjects *IdentList `a2l:"TRANSFORMER_OUT_OBJECTS,block"`
}

type TypedefAxis struct {
	Name           string
	LongIdentifier string `a2l:",quoted"`
	InputQuantity  string
	RecordLayout   string
	MaxDiff        float64
	Conversion     string
	MaxAxisPoints  uint16
	LowerLimit     float64
	UpperLimit     float64
	ByteOrder      *ByteOrder   `a2l:"BYTE_ORDER"`
	Deposit        *DepositMode `a2l:"DEPOSIT"`
	ExtendedLimits *Limits      `a2l:"EXTENDED_LIMITS"`
	Format         *string      `a2l:"FORMAT,quoted"`
	Monotony       *Monotony    `a2l:"MONOTONY"`
	PhysUnit       *string      `a2l:"PHYS_UNIT,quoted"`
	StepSize       *float64     `a2l:"STEP_SIZE"`
}

type TypedefBlob struct {
	Name           string
	LongIdentifier string `a2l:",quoted"`
	Size           uint32
	AddressType    *AddrType `a2l:"ADDRESS_TYPE"`
}

type TypedefCharacteristic struct {
	Name               string
	LongIdentifier     string `a2l:",quoted"`
	CharacteristicType CharacteristicType
	RecordLayout       string
	MaxDiff            float64
	Conversion         string
	LowerLimit         float64
	UpperLimit         float64
	AxisDescr          []*AxisDescr `a2l:"AXIS_DESCR,block"`
	BitMask            *BitMask     `a2l:"BIT_MASK"`
	ByteOrder          *ByteOrder   `a2l:"BYTE_ORDER"`
	Discrete           bool         `a2l:"DISCRETE"`
	Encoding           *Encoding    `a2l:"ENCODING"`
	ExtendedLimits     *Limits      `a2l:"EXTENDED_LIMITS"`
	Format             *string      `a2l:"FORMAT,quoted"`
	MatrixDim          *MatrixDim   `a2l:"MATRIX_DIM"`
	Number             *uint16      `a2l:"NUMBER"`
	PhysUnit           *string      `a2l:"PHYS_UNIT,quoted"`
	StepSize           *float64     `a2l:"STEP_SIZE"`
}

type TypedefMeasurement struct {
	Name           string
	LongIdentifier string `a2l:",quoted"`
	Datatype       DataType
	Conversion     string
	Resolution     uint16
	Accuracy       float64
	LowerLimit     float64
	UpperLimit     float64
	AddressType    *AddrType     `a2l:"ADDRESS_TYPE"`
	BitMask        *BitMask      `a2l:"BIT_MASK"`
	BitOperation   *BitOperation `a2l:"BIT_OPERATION,block"`
	ByteOrder      *ByteOrder    `a2l:"BYTE_ORDER"`
	Discrete       bool          `a2l:"DISCRETE"`
	ErrorMask      *BitMask      `a2l:"ERROR_MASK"`
	Format         *string       `a2l:"FORMAT,quoted"`
	Layout         *IndexMode    `a2l:"LAYOUT"`
	MatrixDim      *MatrixDim    `a2l:"MATRIX_DIM"`
	PhysUnit       *string       `a2l:"PHYS_UNIT,quoted"`
}

type TypedefStructure struct {
	Name               string
	LongIdentifier     string `a2l:",quoted"`
	TotalSize          uint32
	AddressType        *AddrType             `a2l:"ADDRESS_TYPE"`
	ConsistentExchange bool                  `a2l:"CONSISTENT_EXCHANGE"`
	StructureComponent []*StructureComponent `a2l:"STRUCTURE_COMPONENT,block"`
	SymbolTypeLink     *string               `a2l:"SYMBOL_TYPE_LINK,quoted"`
}

type ModCommon struct {
	Comment              string       `a2l:",quoted"`
	AlignmentByte        *uint16      `a2l:"ALIGNMENT_BYTE"`
	AlignmentFloat16Ieee *uint16      `a2l:"ALIGNMENT_FLOAT16_IEEE"`
	AlignmentFloat32Ieee *uint16      `a2l:"ALIGNMENT_FLOAT32_IEEE"`
	AlignmentFloat64Ieee *uint16      `a2l:"ALIGNMENT_FLOAT64_IEEE"`
	AlignmentInt64       *uint16      `a2l:"ALIGNMENT_INT64"`
	AlignmentLong        *uint16      `a2l:"ALIGNMENT_LONG"`
	AlignmentWord        *uint16      `a2l:"ALIGNMENT_WORD"`
	ByteOrder            *ByteOrder   `a2l:"BYTE_ORDER"`
	DataSize             *uint16      `a2l:"DATA_SIZE"`
	Deposit              *DepositMode `a2l:"DEPOSIT"`
	SRecLayout           *string      `a2l:"S_REC_LAYOUT"`
}

type ModPar struct {
	Comment           string               `a2l:",quoted"`
	AddrEpk           []*AddrEpk           `a2l:"ADDR_EPK"`
	CalibrationMethod []*CalibrationMethod `a2l:"CALIBRATION_METHOD,block"`
	CpuType           *string              `a2l:"CPU_TYPE,quoted"`
	Customer          *string              `a2l:"CUSTOMER,quoted"`
	CustomerNo        *string              `a2l:"CUSTOMER_NO,quoted"`
	Ecu               *string              `a2l:"ECU,quoted"`
	Epk               *string              `a2l:"EPK,quoted"`
	MemoryLayout      []*MemoryLayout      `a2l:"MEMORY_LAYOUT,block"`
	MemorySegment     []*MemorySegment     `a2l:"MEMORY_SEGMENT,block"`
	NoOfInterfaces    *uint16              `a2l:"NO_OF_INTERFACES"`
	Supplier          *string              `a2l:"SUPPLIER,quoted"`
	SystemConstant    []*SystemConstant    `a2l:"SYSTEM_CONSTANT"`
	User              *string              `a2l:"USER,quoted"`
	Version           *string              `a2l:"VERSION,quoted"`
}

type VariantCoding struct {
	VarCharacteristic []*VarCharacteristic `a2l:"VAR_CHARACTERISTIC,block"`
	VarCriterion      []*VarCriterion      `a2l:"VAR_CRITERION,block"`
	VarForbiddenComb  []*VarForbiddenComb  `a2l:"VAR_FORBIDDEN_COMB,block"`
	VarNaming         *VarNaming           `a2l:"VAR_NAMING"`
	VarSeparator      *string              `a2l:"VAR_SEPARATOR,quoted"`
}

// A2ml holds the module's format-extension declaration verbatim.
type A2ml struct {
	Text string
}

// IfData holds one vendor-specific block verbatim. Valid reports whether the
// module's A2ML declares the block's tag.
type IfData struct {
	Text  string
	Valid bool `a2l:"-"`
}

// Tag is the first word of the block, naming the interface it configures.
func (d *IfData) Tag() string {
	for i, c := range d.Text {
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			return d.Text[:i]
		}
	}
	return d.Text
}

type UserRights struct {
	UserLevelId string
	ReadOnly    bool         `a2l:"READ_ONLY"`
	RefGroup    []*IdentList `a2l:"REF_GROUP,block"`
}

// Nested structures.

type EcuAddress struct {
	Address uint32 `a2l:",hex"`
}

type BitMask struct {
	Mask uint64 `a2l:",hex"`
}

type BitOperation struct {
	LeftShift  *uint32 `a2l:"LEFT_SHIFT"`
	RightShift *uint32 `a2l:"RIGHT_SHIFT"`
	SignExtend bool    `a2l:"SIGN_EXTEND"`
}

// IdentList is a whitespace separated list of object names.
type IdentList struct {
	Names []string
}

type MatrixDim struct {
	Dims []uint16
}

type MaxRefresh struct {
	ScalingUnit uint16
	Rate        uint32
}

type SymbolLink struct {
	SymbolName string `a2l:",quoted"`
	Offset     int32
}

type Limits struct {
	LowerLimit float64
	UpperLimit float64
}

type Annotation struct {
	AnnotationLabel  *string         `a2l:"ANNOTATION_LABEL,quoted"`
	AnnotationOrigin *string         `a2l:"ANNOTATION_ORIGIN,quoted"`
	AnnotationText   *AnnotationText `a2l:"ANNOTATION_TEXT,block"`
}

type AnnotationText struct {
	Lines []string `a2l:",quoted"`
}

type AxisDescr struct {
	Attribute      AxisAttribute
	InputQuantity  string
	Conversion     string
	MaxAxisPoints  uint16
	LowerLimit     float64
	UpperLimit     float64
	AxisPtsRef     *string      `a2l:"AXIS_PTS_REF"`
	ByteOrder      *ByteOrder   `a2l:"BYTE_ORDER"`
	CurveAxisRef   *string      `a2l:"CURVE_AXIS_REF"`
	Deposit        *DepositMode `a2l:"DEPOSIT"`
	ExtendedLimits *Limits      `a2l:"EXTENDED_LIMITS"`
	FixAxisPar     *FixAxisPar  `a2l:"FIX_AXIS_PAR"`
	FixAxisParDist *FixAxisPar  `a2l:"FIX_AXIS_PAR_DIST"`
	Format         *string      `a2l:"FORMAT,quoted"`
	MaxGrad        *float64     `a2l:"MAX_GRAD"`
	Monotony       *Monotony    `a2l:"MONOTONY"`
	PhysUnit       *string      `a2l:"PHYS_UNIT,quoted"`
	ReadOnly       bool         `a2l:"READ_ONLY"`
	StepSize       *float64     `a2l:"STEP_SIZE"`
}

type FixAxisPar struct {
	Offset        float64
	Shift         float64
	NumberAPoints uint16
}

type Coeffs struct {
	A, B, C, D, E, F float64
}

type CoeffsLinear struct {
	A, B float64
}

type Formula struct {
	Fx         string  `a2l:",quoted"`
	FormulaInv *string `a2l:"FORMULA_INV,quoted"`
}

type TabEntry struct {
	InVal  float64
	OutVal float64
}

type ValuePair struct {
	InVal  float64
	OutVal string `a2l:",quoted"`
}

type ValueTriple struct {
	InValMin float64
	InValMax float64
	OutVal   string `a2l:",quoted"`
}

type AxisPtsDim struct {
	Position   uint16
	Datatype   DataType
	IndexIncr  IndexOrder
	Addressing AddrType
}

type FncValues struct {
	Position    uint16
	Datatype    DataType
	IndexMode   IndexMode
	AddressType AddrType
}

type Position struct {
	Position uint16
	Datatype DataType
}

type Reserved struct {
	Position uint16
	DataSize DataSize
}

type ArComponent struct {
	ComponentType string  `a2l:",quoted"`
	ArPrototypeOf *string `a2l:"AR_PROTOTYPE_OF"`
}

type SiExponents struct {
	Length            int16
	Mass              int16
	Time              int16
	ElectricCurrent   int16
	Temperature       int16
	AmountOfSubstance int16
	LuminousIntensity int16
}

type UnitConversion struct {
	Gradient float64
	Offset   float64
}

type Overwrite struct {
	Name           string
	AxisNumber     uint32
	Conversion     *string   `a2l:"CONVERSION"`
	ExtendedLimits *Limits   `a2l:"EXTENDED_LIMITS"`
	Format         *string   `a2l:"FORMAT,quoted"`
	InputQuantity  *string   `a2l:"INPUT_QUANTITY"`
	Limits         *Limits   `a2l:"LIMITS"`
	Monotony       *Monotony `a2l:"MONOTONY"`
	PhysUnit       *string   `a2l:"PHYS_UNIT,quoted"`
}

type StructureComponent struct {
	ComponentName  string
	ComponentType  string
	AddressOffset  uint32     `a2l:",hex"`
	AddressType    *AddrType  `a2l:"ADDRESS_TYPE"`
	Layout         *IndexMode `a2l:"LAYOUT"`
	MatrixDim      *MatrixDim `a2l:"MATRIX_DIM"`
	SymbolTypeLink *string    `a2l:"SYMBOL_TYPE_LINK,quoted"`
}

type AddrEpk struct {
	Address uint32 `a2l:",hex"`
}

type CalibrationMethod struct {
	Method  string `a2l:",quoted"`
	Version uint32
}

type MemoryLayout struct {
	PrgType string
	Address uint32 `a2l:",hex"`
	Size    uint32
	Offsets []int32
}

type MemorySegment struct {
	Name           string
	LongIdentifier string `a2l:",quoted"`
	PrgType        string
	MemoryType     string
	Attribute      string
	Address        uint32 `a2l:",hex"`
	Size           uint32
	Offsets        []int32
}

type SystemConstant struct {
	Name  string `a2l:",quoted"`
	Value string `a2l:",quoted"`
}

type VarCharacteristic struct {
	Name          string
	CriterionName []string
	VarAddress    *VarAddress `a2l:"VAR_ADDRESS,block"`
}

type VarAddress struct {
	Addresses []uint32 `a2l:",hex"`
}

type VarCriterion struct {
	Name                       string
	LongIdentifier             string `a2l:",quoted"`
	Values                     []string
	VarMeasurement             *string `a2l:"VAR_MEASUREMENT"`
	VarSelectionCharacteristic *string `a2l:"VAR_SELECTION_CHARACTERISTIC"`
}

type VarForbiddenComb struct {
	Combination []*CriterionValue
}

type CriterionValue struct {
	Criterion string
	Value     string
}
