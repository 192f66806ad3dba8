package cluster

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/litescript/ls-cluster/internal/astro"
)

// Column layout of a snapshot row.
var fieldNames = [...]string{"x", "y", "z", "vx", "vy", "vz", "mass", "type"}

const (
	posFields  = 3
	velFields  = 6
	massFields = 7
	typeFields = 8
)

// ParseRecord converts the fields of one data row into a Star.
//
// Defaults depend only on the row length: a group is defaulted when the row
// is too short to contain it. A present field that is not a float is an
// error and no Star is returned.
func ParseRecord(fields []string) (Star, error) {
	star := Star{
		Position: DefaultPosition,
		Velocity: DefaultVelocity,
		Mass:     DefaultMass,
		Type:     ParseTypeCode(DefaultTypeCode),
	}

	if len(fields) >= posFields {
		v, err := parseVec(fields, 0)
		if err != nil {
			return Star{}, err
		}
		star.Position = v
	}

	if len(fields) >= velFields {
		v, err := parseVec(fields, 3)
		if err != nil {
			return Star{}, err
		}
		star.Velocity = v
	}

	if len(fields) >= massFields {
		m, err := parseFloat(fields, 6)
		if err != nil {
			return Star{}, err
		}
		star.Mass = m
	}

	if len(fields) >= typeFields {
		star.Type = ParseTypeCode(fields[7])
	}

	return star, nil
}

func parseVec(fields []string, start int) (astro.Vec3, error) {
	var xyz [3]float64
	for i := range xyz {
		f, err := parseFloat(fields, start+i)
		if err != nil {
			return astro.Vec3{}, err
		}
		xyz[i] = f
	}
	return astro.Vec3{X: xyz[0], Y: xyz[1], Z: xyz[2]}, nil
}

func parseFloat(fields []string, idx int) (float64, error) {
	s := fields[idx]
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) {
			err = numErr.Err
		}
		return 0, &FieldError{Field: fieldNames[idx], Value: s, cause: err}
	}
	return f, nil
}

// Read parses a snapshot CSV stream. The first row is a header and is
// discarded; data rows may omit trailing columns.
func Read(r io.Reader) ([]Star, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	if _, err := cr.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyInput
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	stars := make([]Star, 0, 1024)
	for row := 0; ; row++ {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", row, err)
		}

		star, err := ParseRecord(fields)
		if err != nil {
			line, _ := cr.FieldPos(0)
			return nil, &ParseError{Row: row, Line: line, Err: err}
		}
		stars = append(stars, star)
	}

	return stars, nil
}
