package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/pdscatter/internal/dataset"
)

// Header names used by the GBD exports.
const (
	ColLocation  = "location_name"
	ColSex       = "sex_name"
	ColYear      = "year"
	ColRisk      = "rei_name"
	ColMeasureID = "measure_id"
	ColValue     = "val"
	ColCountry   = "Country"
	ColGroup     = "Group"
)

// Name trims s and converts it to Unicode NFC.
func Name(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// table iterates the records of one CSV file by header name.
type table struct {
	file   string
	r      *csv.Reader
	cols   map[string]int
	record []string
}

func newTable(r io.Reader, file string, required ...string) (*table, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, &ParseError{File: file, Column: required[0], Err: fmt.Errorf("%w: empty file", ErrMissingColumn)}
	}
	if err != nil {
		return nil, &ParseError{File: file, Line: 1, Err: err}
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimPrefix(h, "\ufeff")
		cols[strings.TrimSpace(h)] = i
	}
	for _, name := range required {
		if _, ok := cols[name]; !ok {
			return nil, &ParseError{File: file, Column: name, Err: ErrMissingColumn}
		}
	}

	return &table{file: file, r: cr, cols: cols}, nil
}

// next advances to the next record. It returns false at EOF.
func (t *table) next() (bool, error) {
	rec, err := t.r.Read()
	if errors.Is(err, io.EOF) {
		return false, nil
	}
	if err != nil {
		var pe *csv.ParseError
		if errors.As(err, &pe) {
			return false, &ParseError{File: t.file, Line: pe.Line, Err: pe.Err}
		}
		return false, &ParseError{File: t.file, Err: err}
	}
	t.record = rec
	return true, nil
}

func (t *table) line() int {
	line, _ := t.r.FieldPos(0)
	return line
}

func (t *table) str(col string) (string, error) {
	i := t.cols[col]
	if i >= len(t.record) {
		return "", &ParseError{File: t.file, Line: t.line(), Column: col, Err: errors.New("short record")}
	}
	return t.record[i], nil
}

func (t *table) name(col string) (string, error) {
	s, err := t.str(col)
	if err != nil {
		return "", err
	}
	s = Name(s)
	if s == "" {
		return "", &ParseError{File: t.file, Line: t.line(), Column: col, Err: errors.New("empty value")}
	}
	return s, nil
}

func (t *table) integer(col string) (int, error) {
	s, err := t.str(col)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, &ParseError{File: t.file, Line: t.line(), Column: col, Err: err}
	}
	return n, nil
}

func (t *table) number(col string) (float64, error) {
	s, err := t.str(col)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, &ParseError{File: t.file, Line: t.line(), Column: col, Err: err}
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &ParseError{File: t.file, Line: t.line(), Column: col, Err: ErrNonFinite}
	}
	return v, nil
}

// key reads the (location, sex, year) columns.
func (t *table) key() (dataset.Key, error) {
	var k dataset.Key
	var err error
	if k.Location, err = t.name(ColLocation); err != nil {
		return k, err
	}
	if k.Sex, err = t.name(ColSex); err != nil {
		return k, err
	}
	if k.Year, err = t.integer(ColYear); err != nil {
		return k, err
	}
	return k, nil
}

// ReadRisks reads a risk export (all-risks or direct-cause).
func ReadRisks(r io.Reader, file string) ([]dataset.RiskRow, error) {
	t, err := newTable(r, file, ColLocation, ColSex, ColYear, ColRisk, ColValue)
	if err != nil {
		return nil, err
	}

	var rows []dataset.RiskRow
	for {
		ok, err := t.next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return rows, nil
		}
		k, err := t.key()
		if err != nil {
			return nil, err
		}
		category, err := t.name(ColRisk)
		if err != nil {
			return nil, err
		}
		v, err := t.number(ColValue)
		if err != nil {
			return nil, err
		}
		rows = append(rows, dataset.RiskRow{
			Location: k.Location,
			Sex:      k.Sex,
			Year:     k.Year,
			Category: category,
			Value:    v,
		})
	}
}

// ReadMeasures reads the incidence/prevalence export.
func ReadMeasures(r io.Reader, file string) ([]dataset.MeasureRow, error) {
	t, err := newTable(r, file, ColLocation, ColSex, ColYear, ColMeasureID, ColValue)
	if err != nil {
		return nil, err
	}

	var rows []dataset.MeasureRow
	for {
		ok, err := t.next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return rows, nil
		}
		k, err := t.key()
		if err != nil {
			return nil, err
		}
		id, err := t.integer(ColMeasureID)
		if err != nil {
			return nil, err
		}
		v, err := t.number(ColValue)
		if err != nil {
			return nil, err
		}
		rows = append(rows, dataset.MeasureRow{
			Location:  k.Location,
			Sex:       k.Sex,
			Year:      k.Year,
			MeasureID: id,
			Value:     v,
		})
	}
}

// ReadRegions reads the country to region mapping. A country listed twice
// is a DUPLICATE_REGION integrity error.
func ReadRegions(r io.Reader, file string) (dataset.RegionMap, error) {
	t, err := newTable(r, file, ColCountry, ColGroup)
	if err != nil {
		return nil, err
	}

	regions := dataset.RegionMap{}
	for {
		ok, err := t.next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return regions, nil
		}
		country, err := t.name(ColCountry)
		if err != nil {
			return nil, err
		}
		group, err := t.name(ColGroup)
		if err != nil {
			return nil, err
		}
		if _, dup := regions[country]; dup {
			return nil, dataset.NewDuplicateRegionError(country)
		}
		regions[country] = group
	}
}
