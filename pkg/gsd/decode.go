package gsd

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// sentinelMissing is the format's reserved "not applicable" marker. It
// is filtered on every numeric field, even ones where 99999 could in
// principle be a real value.
const sentinelMissing = 99999

var monthsByName = map[string]time.Month{
	"jan": time.January,
	"feb": time.February,
	"mar": time.March,
	"apr": time.April,
	"may": time.May,
	"jun": time.June,
	"jul": time.July,
	"aug": time.August,
	"sep": time.September,
	"oct": time.October,
	"nov": time.November,
	"dec": time.December,
}

// intAt decodes the token at position idx as an optional integer. A
// missing token, an unparseable token, and the 99999 sentinel all
// collapse to nil.
func intAt(tokens []string, idx int) *int {
	if idx >= len(tokens) {
		return nil
	}
	v, err := strconv.Atoi(tokens[idx])
	if err != nil || v == sentinelMissing {
		return nil
	}
	return &v
}

// decodeDateLine reads the report type and valid time from the second
// line of a block: type, hour, day, three-letter month name, year.
func decodeDateLine(tokens []string) (string, time.Time, error) {
	if len(tokens) == 0 {
		return "", time.Time{}, fmt.Errorf("date line missing report type")
	}
	reportType := tokens[0]

	hour := intAt(tokens, 1)
	day := intAt(tokens, 2)
	year := intAt(tokens, 4)
	if hour == nil || day == nil || year == nil {
		return "", time.Time{}, fmt.Errorf("date line missing hour, day or year: %q", strings.Join(tokens, " "))
	}

	if len(tokens) < 4 {
		return "", time.Time{}, fmt.Errorf("date line missing month")
	}
	month, ok := monthsByName[strings.ToLower(tokens[3])]
	if !ok {
		return "", time.Time{}, fmt.Errorf("unrecognized month %q", tokens[3])
	}

	// Presence is checked above, so hour 0 (a midnight sounding) is
	// accepted; only genuinely impossible values are rejected.
	if *hour < 0 || *hour > 23 || *day < 1 || *day > 31 || *year < 1 {
		return "", time.Time{}, fmt.Errorf("date out of range: hour=%d day=%d year=%d", *hour, *day, *year)
	}

	date := time.Date(*year, month, *day, *hour, 0, 0, 0, time.UTC)
	if date.Day() != *day || date.Month() != month || date.Year() != *year {
		return "", time.Time{}, fmt.Errorf("invalid calendar date: %d %s %d", *day, tokens[3], *year)
	}

	return reportType, date, nil
}

// decodeCapeCinLine reads CAPE and CIN from the third line of a block.
func decodeCapeCinLine(tokens []string) (int, int, error) {
	cape := intAt(tokens, 1)
	cin := intAt(tokens, 3)
	if cape == nil || cin == nil {
		return 0, 0, fmt.Errorf("cape/cin line missing values: %q", strings.Join(tokens, " "))
	}
	return *cape, *cin, nil
}

type stationIdentification struct {
	wban, wmo   *int
	lat, lon    float64
	elev, rtime *int
}

// repairCoordinateTokens fixes an upstream quirk where a negative
// longitude abuts the latitude field with no separator ("3782-07854").
// The combined token is split on its last internal minus sign and the
// halves spliced back in, shifting elevation and release time into
// their own slots again. Lines whose latitude token parses as an
// integer are returned unchanged.
func repairCoordinateTokens(tokens []string) []string {
	if len(tokens) < 4 {
		return tokens
	}
	lat := tokens[3]
	if _, err := strconv.Atoi(lat); err == nil {
		return tokens
	}
	cut := strings.LastIndex(lat, "-")
	if cut <= 0 {
		return tokens
	}
	repaired := make([]string, 0, len(tokens)+1)
	repaired = append(repaired, tokens[:3]...)
	repaired = append(repaired, lat[:cut], lat[cut:])
	repaired = append(repaired, tokens[4:]...)
	return repaired
}

// decodeStationIdentification reads a code-1 line: wban, wmo,
// latitude, longitude, elevation, release time. Coordinates arrive as
// signed hundredths of degrees and are the only required fields.
func decodeStationIdentification(tokens []string) (stationIdentification, error) {
	tokens = repairCoordinateTokens(tokens)

	var ident stationIdentification
	if len(tokens) < 5 {
		return ident, fmt.Errorf("station identification line too short: %q", strings.Join(tokens, " "))
	}

	lat, err := strconv.ParseFloat(tokens[3], 64)
	if err != nil {
		return ident, fmt.Errorf("parsing latitude %q: %w", tokens[3], err)
	}
	lon, err := strconv.ParseFloat(tokens[4], 64)
	if err != nil {
		return ident, fmt.Errorf("parsing longitude %q: %w", tokens[4], err)
	}

	ident.wban = intAt(tokens, 1)
	ident.wmo = intAt(tokens, 2)
	ident.lat = lat / 100
	ident.lon = lon / 100
	ident.elev = intAt(tokens, 5)
	ident.rtime = intAt(tokens, 6)
	return ident, nil
}

type stationIdentifier struct {
	stationID string
	sonde     SondeType
	windUnits WindUnits
}

// decodeStationIdentifier reads a code-3 line: station identifier,
// sonde code, wind units. All three are required and the two codes
// must be recognized for the report to be usable.
func decodeStationIdentifier(tokens []string) (stationIdentifier, error) {
	var ident stationIdentifier
	if len(tokens) < 4 {
		return ident, fmt.Errorf("station identifier line too short: %q", strings.Join(tokens, " "))
	}
	ident.stationID = tokens[1]

	sonde := intAt(tokens, 2)
	if sonde == nil {
		return ident, fmt.Errorf("missing sonde code: %q", strings.Join(tokens, " "))
	}
	switch SondeType(*sonde) {
	case SondeTypeA, SondeTypeB, SondeSpaceDataCorp:
		ident.sonde = SondeType(*sonde)
	default:
		return ident, fmt.Errorf("unrecognized sonde code %d", *sonde)
	}

	switch WindUnits(tokens[3]) {
	case WindUnitsKnots, WindUnitsTenthsMS:
		ident.windUnits = WindUnits(tokens[3])
	default:
		return ident, fmt.Errorf("unrecognized wind units %q", tokens[3])
	}

	return ident, nil
}

// decodeLevelLine reads a data line (codes 4, 5 and 9). The second
// return is false when any required field is absent; such lines are
// dropped by the assembler rather than reported as errors, since
// sparse levels are routine in this format.
func decodeLevelLine(tokens []string) (SoundingDatum, bool) {
	pressure := intAt(tokens, 1)
	height := intAt(tokens, 2)
	temp := intAt(tokens, 3)
	windDir := intAt(tokens, 5)
	windSpd := intAt(tokens, 6)
	if pressure == nil || height == nil || temp == nil || windDir == nil || windSpd == nil {
		return SoundingDatum{}, false
	}

	return SoundingDatum{
		Pressure: *pressure,
		Height:   *height,
		Temp:     *temp,
		DewPt:    intAt(tokens, 4),
		WindDir:  *windDir,
		WindSpd:  *windSpd,
		HHMM:     intAt(tokens, 7),
		Bearing:  intAt(tokens, 8),
		Range:    intAt(tokens, 9),
	}, true
}
