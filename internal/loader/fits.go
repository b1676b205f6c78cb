package loader

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/fluxlc/fluxlc/internal/lightcurve"
)

// FITS files are sequences of 2880-byte blocks. Headers hold 80-byte keyword
// cards; the lightcurve table lives in the first BINTABLE extension.
const (
	fitsBlockSize = 2880
	fitsCardSize  = 80
)

type fitsColumn struct {
	name   string
	typ    byte
	repeat int
	offset int // byte offset within a row
	width  int // bytes per element
}

// ReadFITS parses the first binary-table extension of a FITS stream and
// returns its COUNTS and EXPOSURE columns as raw records.
func ReadFITS(r io.Reader) ([]lightcurve.RawRecord, error) {
	// Primary HDU: header plus (usually empty) data unit.
	primary, err := readFITSHeader(r)
	if err != nil {
		return nil, err
	}
	if _, ok := primary["SIMPLE"]; !ok {
		return nil, fmt.Errorf("%w: missing SIMPLE card", ErrMalformedTable)
	}
	if err := skipFITSData(r, primary); err != nil {
		return nil, err
	}

	// First extension must be the lightcurve binary table.
	header, err := readFITSHeader(r)
	if err != nil {
		return nil, err
	}
	if xt := strings.Trim(header["XTENSION"], "' "); xt != "BINTABLE" {
		return nil, fmt.Errorf("%w: extension %q is not a binary table", ErrMalformedTable, xt)
	}

	rowBytes, err := headerInt(header, "NAXIS1")
	if err != nil {
		return nil, err
	}
	rows, err := headerInt(header, "NAXIS2")
	if err != nil {
		return nil, err
	}
	fields, err := headerInt(header, "TFIELDS")
	if err != nil {
		return nil, err
	}

	columns, err := tableColumns(header, fields)
	if err != nil {
		return nil, err
	}

	var countsCol, exposureCol *fitsColumn
	for i := range columns {
		switch columns[i].name {
		case "COUNTS":
			countsCol = &columns[i]
		case "EXPOSURE":
			exposureCol = &columns[i]
		}
	}
	if countsCol == nil || exposureCol == nil {
		return nil, fmt.Errorf("%w: table lacks COUNTS or EXPOSURE columns", ErrMalformedTable)
	}

	row := make([]byte, rowBytes)
	records := make([]lightcurve.RawRecord, 0, rows)
	for i := 0; i < rows; i++ {
		if _, err := io.ReadFull(r, row); err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", ErrMalformedTable, i, err)
		}

		counts, err := decodeFITSValue(row, countsCol)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", ErrMalformedTable, i, err)
		}
		exposure, err := decodeFITSValue(row, exposureCol)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", ErrMalformedTable, i, err)
		}

		records = append(records, lightcurve.RawRecord{Exposure: exposure, Counts: counts})
	}
	return records, nil
}

// readFITSHeader reads whole blocks of cards until the END card, returning
// keyword -> raw value.
func readFITSHeader(r io.Reader) (map[string]string, error) {
	header := make(map[string]string)
	block := make([]byte, fitsBlockSize)

	for {
		if _, err := io.ReadFull(r, block); err != nil {
			return nil, fmt.Errorf("%w: header: %v", ErrMalformedTable, err)
		}

		for i := 0; i < fitsBlockSize; i += fitsCardSize {
			card := string(block[i : i+fitsCardSize])
			keyword := strings.TrimSpace(card[:8])
			if keyword == "END" {
				return header, nil
			}
			if keyword == "" || keyword == "COMMENT" || keyword == "HISTORY" {
				continue
			}
			if len(card) > 10 && card[8] == '=' {
				value := card[10:]
				if idx := strings.Index(value, " /"); idx >= 0 {
					value = value[:idx]
				}
				header[keyword] = strings.TrimSpace(value)
			}
		}
	}
}

// headerInt parses the named keyword card as an integer.
func headerInt(header map[string]string, key string) (int, error) {
	value, ok := header[key]
	if !ok {
		return 0, fmt.Errorf("%w: missing %s card", ErrMalformedTable, key)
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("%w: %s card %q", ErrMalformedTable, key, value)
	}
	return n, nil
}

// skipFITSData advances past an HDU's data unit, including block padding.
func skipFITSData(r io.Reader, header map[string]string) error {
	naxis, err := headerInt(header, "NAXIS")
	if err != nil || naxis == 0 {
		return nil
	}
	bitpix, err := headerInt(header, "BITPIX")
	if err != nil {
		return err
	}

	size := int64(abs(bitpix) / 8)
	for i := 1; i <= naxis; i++ {
		n, err := headerInt(header, "NAXIS"+strconv.Itoa(i))
		if err != nil {
			return err
		}
		size *= int64(n)
	}
	if size == 0 {
		return nil
	}

	padded := (size + fitsBlockSize - 1) / fitsBlockSize * fitsBlockSize
	if _, err := io.CopyN(io.Discard, r, padded); err != nil {
		return fmt.Errorf("%w: data unit: %v", ErrMalformedTable, err)
	}
	return nil
}

// tableColumns resolves the TTYPEn/TFORMn cards into byte-addressed columns.
func tableColumns(header map[string]string, fields int) ([]fitsColumn, error) {
	columns := make([]fitsColumn, fields)
	offset := 0
	for i := 1; i <= fields; i++ {
		name := strings.Trim(header["TTYPE"+strconv.Itoa(i)], "' ")
		form := strings.Trim(header["TFORM"+strconv.Itoa(i)], "' ")
		if form == "" {
			return nil, fmt.Errorf("%w: missing TFORM%d", ErrMalformedTable, i)
		}

		repeat := 1
		j := 0
		for j < len(form) && form[j] >= '0' && form[j] <= '9' {
			j++
		}
		if j > 0 {
			r, err := strconv.Atoi(form[:j])
			if err != nil {
				return nil, fmt.Errorf("%w: TFORM%d %q", ErrMalformedTable, i, form)
			}
			repeat = r
		}
		if j >= len(form) {
			return nil, fmt.Errorf("%w: TFORM%d %q", ErrMalformedTable, i, form)
		}

		typ := form[j]
		width, err := fitsTypeWidth(typ)
		if err != nil {
			return nil, fmt.Errorf("%w: TFORM%d: %v", ErrMalformedTable, i, err)
		}

		columns[i-1] = fitsColumn{
			name:   name,
			typ:    typ,
			repeat: repeat,
			offset: offset,
			width:  width,
		}
		offset += repeat * width
	}
	return columns, nil
}

func fitsTypeWidth(typ byte) (int, error) {
	switch typ {
	case 'L', 'B', 'A':
		return 1, nil
	case 'I':
		return 2, nil
	case 'J', 'E':
		return 4, nil
	case 'K', 'D':
		return 8, nil
	default:
		return 0, fmt.Errorf("unsupported column type %q", typ)
	}
}

// decodeFITSValue reads the first element of a column in a row. FITS binary
// tables are big-endian.
func decodeFITSValue(row []byte, col *fitsColumn) (float64, error) {
	if col.offset+col.width > len(row) {
		return 0, fmt.Errorf("column %s overruns row", col.name)
	}
	b := row[col.offset : col.offset+col.width]

	switch col.typ {
	case 'D':
		return math.Float64frombits(binary.BigEndian.Uint64(b)), nil
	case 'E':
		return float64(math.Float32frombits(binary.BigEndian.Uint32(b))), nil
	case 'J':
		return float64(int32(binary.BigEndian.Uint32(b))), nil
	case 'K':
		return float64(int64(binary.BigEndian.Uint64(b))), nil
	case 'I':
		return float64(int16(binary.BigEndian.Uint16(b))), nil
	case 'B':
		return float64(b[0]), nil
	default:
		return 0, fmt.Errorf("column %s has non-numeric type %q", col.name, col.typ)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
