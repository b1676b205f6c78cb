// Package coords handles the J2000 source coordinates embedded in lightcurve
// filenames: extraction, conversion to degrees, and proximity matching for
// catalog searches.
package coords

import (
	"errors"
	"path"
	"strconv"
	"strings"
)

// ErrMalformedCoordinates is returned when a coordinate string or filename
// does not carry a parseable J2000 position.
var ErrMalformedCoordinates = errors.New("coords: malformed J2000 coordinates")

// SearchWindow is the relative half-width of the coordinate match window used
// by catalog searches (5 parts per million around the file's position).
const SearchWindow = 0.000005

// ExtractFromFilename pulls the J2000 coordinates out of a lightcurve
// filename such as "J121856.3+142611_acis_1575_lc.fits" and returns them in
// "HH MM SS.S +DD MM SS" form. A path is reduced to its base name first.
func ExtractFromFilename(filename string) (string, error) {
	name := path.Base(filename)

	sign := "-"
	if strings.Contains(name, "+") {
		sign = "+"
	}

	head := strings.TrimPrefix(strings.SplitN(name, "_", 2)[0], "J")
	parts := strings.SplitN(head, sign, 2)
	if len(parts) != 2 || len(parts[0]) < 5 || len(parts[1]) < 5 {
		return "", ErrMalformedCoordinates
	}

	ra := parts[0][0:2] + " " + parts[0][2:4] + " " + parts[0][4:]
	dec := parts[1][0:2] + " " + parts[1][2:4] + " " + parts[1][4:]
	return ra + " " + sign + dec, nil
}

// ToDegrees converts "HH MM SS.S +DD MM SS" J2000 coordinates to
// (ra, dec) in decimal degrees. Right ascension is hour-angle based,
// so one hour spans 15 degrees.
func ToDegrees(coordinates string) (ra, dec float64, err error) {
	fields := strings.Fields(coordinates)
	if len(fields) != 6 {
		return 0, 0, ErrMalformedCoordinates
	}

	vals := make([]float64, 6)
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimPrefix(f, "+"), 64)
		if err != nil {
			return 0, 0, ErrMalformedCoordinates
		}
		vals[i] = v
	}

	ra = (vals[0] + vals[1]/60 + vals[2]/3600) * 15

	decSign := 1.0
	if strings.HasPrefix(fields[3], "-") {
		decSign = -1
		vals[3] = -vals[3]
	}
	dec = decSign * (vals[3] + vals[4]/60 + vals[5]/3600)
	return ra, dec, nil
}

// WithinWindow reports whether search lies inside the relative SearchWindow
// around file. Bounds are ordered first so negative declinations match
// symmetrically.
func WithinWindow(file, search float64) bool {
	lo := file * (1 - SearchWindow)
	hi := file * (1 + SearchWindow)
	if lo > hi {
		lo, hi = hi, lo
	}
	return lo <= search && search <= hi
}

// Match reports whether the source named by filename sits within the search
// window of the given J2000 coordinates.
func Match(filename, coordinates string) (bool, error) {
	searchRA, searchDec, err := ToDegrees(coordinates)
	if err != nil {
		return false, err
	}

	fileCoords, err := ExtractFromFilename(filename)
	if err != nil {
		return false, err
	}
	fileRA, fileDec, err := ToDegrees(fileCoords)
	if err != nil {
		return false, err
	}

	return WithinWindow(fileRA, searchRA) && WithinWindow(fileDec, searchDec), nil
}
