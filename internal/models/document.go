// Package models defines the serializable payloads exchanged with clients.
package models

import "time"

// Metadata summarizes the loaded document.
type Metadata struct {
	ProjectName           string   `json:"project_name"`
	ProjectLongIdentifier string   `json:"project_long_identifier"`
	ModuleNames           []string `json:"module_names"`
	HeaderComment         *string  `json:"header_comment"`
	Asap2Version          *string  `json:"asap2_version"`
	WarningCount          int      `json:"warning_count"`
}

// EntityKind names one of the kinds that support rename.
type EntityKind string

const (
	KindModule         EntityKind = "Module"
	KindMeasurement    EntityKind = "Measurement"
	KindCharacteristic EntityKind = "Characteristic"
	KindAxisPts        EntityKind = "AxisPts"
)

// EntityKinds lists every EntityKind in listing order.
var EntityKinds = []EntityKind{KindModule, KindMeasurement, KindCharacteristic, KindAxisPts}

// Entity is the flattened view of a module or one of its core records.
// Only modules carry a long identifier.
type Entity struct {
	Kind           EntityKind `json:"kind"`
	Name           string     `json:"name"`
	LongIdentifier *string    `json:"long_identifier"`
}

// UpdateResult is returned by every entity-level mutation.
type UpdateResult struct {
	Metadata Metadata `json:"metadata"`
	Entities []Entity `json:"entities"`
}

// MeasurementData is the editable subset of a measurement.
type MeasurementData struct {
	Name           string  `json:"name"`
	LongIdentifier string  `json:"long_identifier"`
	Datatype       string  `json:"datatype"`
	Conversion     string  `json:"conversion"`
	Resolution     float64 `json:"resolution"`
	Accuracy       float64 `json:"accuracy"`
	LowerLimit     float64 `json:"lower_limit"`
	UpperLimit     float64 `json:"upper_limit"`
	EcuAddress     *string `json:"ecu_address"`
}

// CharacteristicData is the editable subset of a characteristic.
type CharacteristicData struct {
	Name               string  `json:"name"`
	LongIdentifier     string  `json:"long_identifier"`
	CharacteristicType string  `json:"characteristic_type"`
	Address            string  `json:"address"`
	Deposit            string  `json:"deposit"`
	MaxDiff            float64 `json:"max_diff"`
	Conversion         string  `json:"conversion"`
	LowerLimit         float64 `json:"lower_limit"`
	UpperLimit         float64 `json:"upper_limit"`
	BitMask            *string `json:"bit_mask"`
}

// AxisPtsData is the editable subset of an axis points record.
type AxisPtsData struct {
	Name           string  `json:"name"`
	LongIdentifier string  `json:"long_identifier"`
	Address        string  `json:"address"`
	InputQuantity  string  `json:"input_quantity"`
	DepositRecord  string  `json:"deposit_record"`
	MaxDiff        float64 `json:"max_diff"`
	Conversion     string  `json:"conversion"`
	MaxAxisPoints  uint16  `json:"max_axis_points"`
	LowerLimit     float64 `json:"lower_limit"`
	UpperLimit     float64 `json:"upper_limit"`
}

// FileInfo describes a document file in the workspace.
type FileInfo struct {
	Path      string    `json:"path"`
	Size      int64     `json:"size"`
	UpdatedAt time.Time `json:"updated_at"`
}
