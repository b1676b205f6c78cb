// Package loader reads raw telescope lightcurve files into records the
// derivation can consume. Two encodings are supported: whitespace-separated
// text tables and FITS binary tables, both carrying the standard ten-column
// Chandra lightcurve layout.
package loader

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strconv"
	"strings"

	"github.com/fluxlc/fluxlc/internal/coords"
	"github.com/fluxlc/fluxlc/internal/lightcurve"
)

// Column layout of the standard lightcurve table.
const (
	colCounts   = 4
	colExposure = 7
	numColumns  = 10
)

var (
	// ErrUnsupportedFormat is returned when the filename carries neither a
	// txt nor a fits marker.
	ErrUnsupportedFormat = errors.New("loader: unsupported lightcurve format")

	// ErrMalformedTable is returned when a file's table layout cannot be read.
	ErrMalformedTable = errors.New("loader: malformed lightcurve table")
)

// ReadFile reads the raw records from a lightcurve file, dispatching on the
// filename: anything containing "txt" is read as a text table, anything
// containing "fits" as a FITS binary table.
func ReadFile(filepath string) ([]lightcurve.RawRecord, error) {
	f, err := os.Open(filepath)
	if err != nil {
		return nil, fmt.Errorf("loader: open %s: %w", filepath, err)
	}
	defer f.Close()

	name := path.Base(filepath)
	switch {
	case strings.Contains(name, "txt"):
		return ReadText(f)
	case strings.Contains(name, "fits"):
		return ReadFITS(f)
	default:
		return nil, ErrUnsupportedFormat
	}
}

// ReadText parses a whitespace-separated lightcurve table. A header line is
// present when the first byte of the stream is alphabetic and is skipped.
func ReadText(r io.Reader) ([]lightcurve.RawRecord, error) {
	br := bufio.NewReader(r)

	first, err := br.Peek(1)
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("%w: empty file", ErrMalformedTable)
		}
		return nil, fmt.Errorf("loader: read: %w", err)
	}
	hasHeader := isAlpha(first[0])

	var records []lightcurve.RawRecord
	scanner := bufio.NewScanner(br)
	line := 0
	for scanner.Scan() {
		line++
		if line == 1 && hasHeader {
			continue
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) < numColumns {
			return nil, fmt.Errorf("%w: line %d has %d columns, want %d",
				ErrMalformedTable, line, len(fields), numColumns)
		}

		counts, err := strconv.ParseFloat(fields[colCounts], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d counts: %v", ErrMalformedTable, line, err)
		}
		exposure, err := strconv.ParseFloat(fields[colExposure], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d exposure: %v", ErrMalformedTable, line, err)
		}

		records = append(records, lightcurve.RawRecord{Exposure: exposure, Counts: counts})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("loader: scan: %w", err)
	}
	return records, nil
}

// ExtractMetadata derives the observation metadata from a lightcurve path.
// Filenames follow "J<coords>_<obsid>_lc.<ext>".
func ExtractMetadata(filepath string) (lightcurve.Metadata, error) {
	name := path.Base(filepath)

	parts := strings.Split(name, "_")
	if len(parts) < 2 {
		return lightcurve.Metadata{}, fmt.Errorf("%w: filename %q", ErrMalformedTable, name)
	}

	sourceCoords, err := coords.ExtractFromFilename(name)
	if err != nil {
		return lightcurve.Metadata{}, err
	}

	return lightcurve.Metadata{
		ObsID:        parts[1],
		SourceCoords: sourceCoords,
		Path:         filepath,
	}, nil
}

// Load reads a lightcurve file and derives the observation aggregate in one
// step, using the instrument sampling interval binSeconds.
func Load(filepath string, binSeconds float64) (*lightcurve.Lightcurve, error) {
	records, err := ReadFile(filepath)
	if err != nil {
		return nil, err
	}

	meta, err := ExtractMetadata(filepath)
	if err != nil {
		return nil, err
	}

	return lightcurve.Derive(records, binSeconds, meta)
}

func isAlpha(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
