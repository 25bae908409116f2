package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/titaniclabs/titanic-api/services/passenger/internal/models"
)

// Load reads the historical passenger dataset. Fractional ages are rounded
// down, blank cabins become null, and malformed rows are skipped and
// reported rather than aborting the preload.
func Load(path string) ([]models.Passenger, []error, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("dataset: read header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{"PassengerId", "Name", "Pclass", "Sex", "Fare", "Embarked", "Destination"} {
		if _, ok := col[required]; !ok {
			return nil, nil, fmt.Errorf("dataset: missing column %q", required)
		}
	}

	var (
		passengers []models.Passenger
		skipped    []error
	)
	for line := 2; ; line++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			skipped = append(skipped, fmt.Errorf("line %d: %w", line, err))
			continue
		}

		p, err := parseRow(col, row)
		if err != nil {
			skipped = append(skipped, fmt.Errorf("line %d: %w", line, err))
			continue
		}
		passengers = append(passengers, p)
	}

	return passengers, skipped, nil
}

func field(col map[string]int, row []string, name string) string {
	i, ok := col[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func parseRow(col map[string]int, row []string) (models.Passenger, error) {
	var p models.Passenger

	id, err := strconv.ParseUint(field(col, row, "PassengerId"), 10, 64)
	if err != nil {
		return p, fmt.Errorf("bad PassengerId: %w", err)
	}
	pclass, err := strconv.Atoi(field(col, row, "Pclass"))
	if err != nil {
		return p, fmt.Errorf("bad Pclass: %w", err)
	}
	fare, err := strconv.ParseFloat(field(col, row, "Fare"), 64)
	if err != nil {
		return p, fmt.Errorf("bad Fare: %w", err)
	}

	p = models.Passenger{
		ID:          uint(id),
		Name:        field(col, row, "Name"),
		Pclass:      pclass,
		Sex:         field(col, row, "Sex"),
		Fare:        fare,
		Embarked:    field(col, row, "Embarked"),
		Destination: field(col, row, "Destination"),
		Ticket:      field(col, row, "Ticket"),
	}

	if raw := field(col, row, "Age"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			age := int(v)
			p.Age = &age
		}
	}
	if cabin := field(col, row, "Cabin"); cabin != "" {
		p.Cabin = &cabin
	}

	return p, nil
}
