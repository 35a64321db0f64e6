// Package gsd decodes NOAA GSL "GSD" formatted sounding text into
// structured reports. Input is one or more report blocks separated by
// blank lines; each block carries three header lines followed by
// type-coded station and level lines. Parsing is pure: no I/O, no
// retained state, safe for concurrent use.
package gsd

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// lineType is the leading integer code that classifies every line
// after the three positional header lines of a block.
type lineType int

const (
	lineStationIdentification lineType = 1
	lineSoundingChecks        lineType = 2
	lineStationIdentifier     lineType = 3
	lineMandatoryLevel        lineType = 4
	lineSignificantLevel      lineType = 5
	lineWindLevel             lineType = 6
	lineTropopauseLevel       lineType = 7
	lineSurfaceLevel          lineType = 9
)

var blockSeparator = regexp.MustCompile(`\n[ \t\r]*\n`)

// splitReports divides raw multi-report text into blocks on blank-line
// boundaries, dropping blocks that are empty or whitespace only.
func splitReports(raw string) []string {
	var blocks []string
	for _, block := range blockSeparator.Split(raw, -1) {
		if strings.TrimSpace(block) == "" {
			continue
		}
		blocks = append(blocks, block)
	}
	return blocks
}

// assembleReport parses one report block. A block with fewer than
// three lines yields no report and no error; structural damage to a
// header line is an error that rejects the whole block.
func assembleReport(block string) (*SoundingReport, error) {
	lines := strings.Split(strings.TrimSpace(block), "\n")
	if len(lines) < 3 {
		return nil, nil
	}

	// The first line is a free-text station meta line, kept only for
	// its existence. The type and valid time are on the second line,
	// CAPE/CIN on the third.
	reportType, date, err := decodeDateLine(strings.Fields(lines[1]))
	if err != nil {
		return nil, err
	}
	cape, cin, err := decodeCapeCinLine(strings.Fields(lines[2]))
	if err != nil {
		return nil, err
	}

	var (
		identification *stationIdentification
		identifier     *stationIdentifier
		data           []SoundingDatum
	)

	for _, line := range lines[3:] {
		tokens := strings.Fields(line)
		if len(tokens) == 0 {
			continue
		}
		code, err := strconv.Atoi(tokens[0])
		if err != nil {
			continue
		}

		switch lineType(code) {
		case lineStationIdentification:
			if identification != nil {
				continue
			}
			ident, err := decodeStationIdentification(tokens)
			if err != nil {
				return nil, err
			}
			identification = &ident
		case lineStationIdentifier:
			if identifier != nil {
				continue
			}
			ident, err := decodeStationIdentifier(tokens)
			if err != nil {
				return nil, err
			}
			identifier = &ident
		case lineMandatoryLevel, lineSignificantLevel, lineSurfaceLevel:
			if datum, ok := decodeLevelLine(tokens); ok {
				data = append(data, datum)
			}
		case lineSoundingChecks, lineWindLevel, lineTropopauseLevel:
			// Recognized but carry nothing this decoder keeps.
		}
	}

	if identification == nil {
		return nil, errors.New("missing station identification line")
	}
	if identifier == nil {
		return nil, errors.New("missing station identifier line")
	}

	return &SoundingReport{
		Type:        reportType,
		Date:        date,
		CAPE:        cape,
		CIN:         cin,
		WBAN:        identification.wban,
		WMO:         identification.wmo,
		Latitude:    identification.lat,
		Longitude:   identification.lon,
		Elevation:   identification.elev,
		ReleaseTime: identification.rtime,
		StationID:   identifier.stationID,
		Sonde:       identifier.sonde,
		WindUnits:   identifier.windUnits,
		Data:        data,
	}, nil
}

// Parse decodes one or more blank-line separated GSD report blocks,
// returning the reports in input order. A structurally damaged report
// fails the whole call, wrapped with its block position. Input that
// yields no reports at all, including the empty string, returns a
// *FormatError.
func Parse(raw string) ([]SoundingReport, error) {
	var reports []SoundingReport
	for i, block := range splitReports(raw) {
		report, err := assembleReport(block)
		if err != nil {
			return nil, fmt.Errorf("parsing report block %d: %w", i+1, err)
		}
		if report == nil {
			continue
		}
		reports = append(reports, *report)
	}

	if len(reports) == 0 {
		return nil, &FormatError{}
	}
	return reports, nil
}
