package testutil

// SampleA2L is a small but complete document: one module with an A2ML
// declaration, module parameters, conversions, two measurements, a
// characteristic, an axis, a function and a unit.
const SampleA2L = `ASAP2_VERSION 1 71
/begin PROJECT Demo "Demo project"
  /begin HEADER "Bench ECU"
    VERSION "V1.0"
  /end HEADER
  /begin MODULE Engine "Engine control"
    /begin A2ML
      block "IF_DATA" taggedunion if_data {
        "XCP" struct { uint; };
      };
    /end A2ML
    /begin MOD_PAR "Engine parameters"
      ECU "EngineECU"
      /begin MEMORY_SEGMENT Cal "Calibration" DATA FLASH INTERN 0x80000 0x1000 -1 -1 -1 -1 -1
      /end MEMORY_SEGMENT
    /end MOD_PAR
    /begin MOD_COMMON "Common"
      BYTE_ORDER MSB_LAST
      ALIGNMENT_BYTE 1
    /end MOD_COMMON
    /begin IF_DATA XCP 1 /end IF_DATA
    /begin COMPU_METHOD CM_Speed "Speed conversion" LINEAR "%6.2" "km/h"
      COEFFS_LINEAR 0.5 0
    /end COMPU_METHOD
    /begin COMPU_VTAB VT_Gear "Gear names" TAB_VERB 2
      0 "Neutral"
      1 "First"
      DEFAULT_VALUE "Unknown"
    /end COMPU_VTAB
    /begin RECORD_LAYOUT RL_Value
      FNC_VALUES 1 UBYTE COLUMN_DIR DIRECT
    /end RECORD_LAYOUT
    /* engine speed as sampled by the crank sensor */
    /begin MEASUREMENT EngineSpeed "Crankshaft speed" UWORD CM_Speed 1 0 0 8000
      ECU_ADDRESS 0x1000
      FORMAT "%6.1"
      PHYS_UNIT "rpm"
    /end MEASUREMENT
    /begin MEASUREMENT CoolantTemp "" SBYTE NO_COMPU_METHOD 1 0 -40 150
    /end MEASUREMENT
    /begin CHARACTERISTIC IdleTarget "Idle speed target" VALUE 0x2000 RL_Value 0 CM_Speed 500 1500
      BIT_MASK 0xFF
      /begin IF_DATA XCP 2 /end IF_DATA
    /end CHARACTERISTIC
    /begin AXIS_PTS SpeedAxis "Speed breakpoints" 0x3000 EngineSpeed RL_Value 0 CM_Speed 8 0 8000
    /end AXIS_PTS
    /begin FUNCTION Idle "Idle control"
      /begin REF_CHARACTERISTIC IdleTarget /end REF_CHARACTERISTIC
    /end FUNCTION
    /begin UNIT U_rpm "revolutions per minute" "rpm" DERIVED
    /end UNIT
  /end MODULE
/end PROJECT
`

// EmptyModuleA2L holds a single module without records.
const EmptyModuleA2L = `ASAP2_VERSION 1 71
/begin PROJECT Bare ""
  /begin MODULE Empty ""
  /end MODULE
/end PROJECT
`
