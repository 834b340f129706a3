package mcpserver

// FormatContract describes the A2L subset the editor reads and writes, and
// the conventions LLM consumers should follow when editing documents.
const FormatContract = `# A2L Forge Format Contract

Documents are ASAM MCD-2 MC (A2L) text files. The editor loads one document
at a time; every tool operates on that document.

## Structure

` + "```" + `
ASAP2_VERSION 1 71
/begin PROJECT <Name> "<description>"
  /begin HEADER "<comment>"
    VERSION "<version>"
  /end HEADER
  /begin MODULE <Name> "<description>"
    ... records ...
  /end MODULE
/end PROJECT
` + "```" + `

## Supported records

MEASUREMENT, CHARACTERISTIC, AXIS_PTS, COMPU_METHOD, COMPU_TAB, COMPU_VTAB,
COMPU_VTAB_RANGE, RECORD_LAYOUT, FUNCTION, GROUP, UNIT, FRAME, BLOB, INSTANCE,
TRANSFORMER, TYPEDEF_AXIS, TYPEDEF_BLOB, TYPEDEF_CHARACTERISTIC,
TYPEDEF_MEASUREMENT, TYPEDEF_STRUCTURE, MOD_COMMON, MOD_PAR, VARIANT_CODING,
A2ML, IF_DATA, USER_RIGHTS.

Unknown keywords are skipped and reported as parse warnings. A2ML and IF_DATA
blocks are preserved verbatim. An IF_DATA block is valid when the module's
A2ML declares its tag.

## Editing rules

1. **Names** are A2L identifiers: letters, digits, ` + "`_`" + `, ` + "`.`" + ` and ` + "`[]`" + `.
2. **Renames are global.** Renaming a measurement, characteristic or axis
   points record renames every record of that kind with the same name in
   every module.
3. **Updates replace the whole record.** Read with get_<kind>, change fields,
   and send the full object back with update_<kind>.
4. **Addresses** are hex strings (` + "`0x1000`" + `); the prefix is optional. A blank
   ECU address or bit mask removes it.
5. **Datatypes**: UBYTE, SBYTE, UWORD, SWORD, ULONG, SLONG, A_UINT64, A_INT64,
   FLOAT16_IEEE, FLOAT32_IEEE, FLOAT64_IEEE. Case is ignored.
6. **Characteristic types**: ASCII, CURVE, MAP, CUBOID, CUBE_4, CUBE_5,
   VAL_BLK, VALUE.
7. **Resolution** is stored as an integer 0..65535; fractions are truncated.
8. **Imported symbols** become UBYTE measurements with limits 0..255 and
   NO_COMPU_METHOD. Duplicate names are not rejected.

## Workflow

- load_a2l (or load_a2l_from_url), then list_entities or list_tree.
- Edit with rename_entity, set_module_description and update_<kind>.
- export_a2l to review, save_a2l to write to the workspace.
`
