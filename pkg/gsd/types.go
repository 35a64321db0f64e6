package gsd

import "time"

// SondeType is the radiosonde instrument code carried on the station
// identifier line of a report.
type SondeType int

const (
	SondeTypeA         SondeType = 10
	SondeTypeB         SondeType = 11
	SondeSpaceDataCorp SondeType = 12
)

// WindUnits identifies how wind speeds in a report are encoded.
type WindUnits string

const (
	WindUnitsKnots    WindUnits = "kt"
	WindUnitsTenthsMS WindUnits = "ms"
)

// SoundingDatum is one vertical level of a sounding. Temp and DewPt are
// tenths of degrees C; Pressure keeps whatever precision the source
// used (whole or tenths of millibars). Optional fields are nil when the
// source carried the 99999 sentinel or no value at all.
type SoundingDatum struct {
	Pressure int  `json:"pressure"`
	Height   int  `json:"height"`
	Temp     int  `json:"temp"`
	DewPt    *int `json:"dewpt,omitempty"`
	WindDir  int  `json:"windDir"`
	WindSpd  int  `json:"windSpd"`
	HHMM     *int `json:"hhmm,omitempty"`
	Bearing  *int `json:"bearing,omitempty"`
	Range    *int `json:"range,omitempty"`
}

// SoundingReport is one complete sounding: the header fields of a GSD
// report block plus its valid data levels in source order.
type SoundingReport struct {
	Type        string          `json:"type"`
	Date        time.Time       `json:"date"`
	CAPE        int             `json:"cape"`
	CIN         int             `json:"cin"`
	WBAN        *int            `json:"wban,omitempty"`
	WMO         *int            `json:"wmo,omitempty"`
	Latitude    float64         `json:"lat"`
	Longitude   float64         `json:"lon"`
	Elevation   *int            `json:"elev,omitempty"`
	ReleaseTime *int            `json:"rtime,omitempty"`
	StationID   string          `json:"stationId"`
	Sonde       SondeType       `json:"sonde"`
	WindUnits   WindUnits       `json:"windUnits"`
	Data        []SoundingDatum `json:"data"`
}
