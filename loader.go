package facilityspread

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/pkg/errors"
)

// LoadPlacesCSV reads the places.csv file (header `place_id,type,name`,
// §6). Only `place_id` is parsed and retained; the `type` and `name`
// fields of each row are read but discarded. Rows are kept in file order, so a
// place_id's internal row index is stable across a run.
func LoadPlacesCSV(r io.Reader) (*PlaceTable, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		return nil, wrap(err, "read places header")
	}
	if err := requireColumns(header, "place_id", "type", "name"); err != nil {
		return nil, err
	}

	var ids []int64
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, wrap(err, "read places row")
		}
		id, err := strconv.ParseInt(row[0], 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "parse place_id %q", row[0])
		}
		ids = append(ids, id)
	}
	return NewPlaceTable(ids), nil
}

// LoadSchedulesCSV reads the schedules.csv file (header
// `schedule_id,start,place_type,risk`, §6) into raw ScheduleRow records,
// ready for CompileSchedules.
func LoadSchedulesCSV(r io.Reader) ([]ScheduleRow, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		return nil, wrap(err, "read schedules header")
	}
	if err := requireColumns(header, "schedule_id", "start", "place_type", "risk"); err != nil {
		return nil, err
	}

	var rows []ScheduleRow
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, wrap(err, "read schedules row")
		}
		sid, err := strconv.Atoi(row[0])
		if err != nil {
			return nil, errors.Wrapf(err, "parse schedule_id %q", row[0])
		}
		start, err := strconv.Atoi(row[1])
		if err != nil {
			return nil, errors.Wrapf(err, "parse start %q", row[1])
		}
		risk, err := strconv.ParseFloat(row[3], 64)
		if err != nil {
			return nil, errors.Wrapf(err, "parse risk %q", row[3])
		}
		rows = append(rows, ScheduleRow{ScheduleID: sid, Start: start, PlaceType: row[2], Risk: risk})
	}
	return rows, nil
}

// residentsCanonicalHeader is the one resident CSV layout this engine
// accepts (§9's layout decision, SPEC_FULL §4): the scalar
// cell/cafeteria/morning_act/noon_act/evening_act columns the original
// model actually ships, not the commented-out activities|cafeterias list
// layout. A file written against the other layout fails LoadResidentsCSV
// with *BadConfigError.
var residentsCanonicalHeader = []string{"person_id", "schedule_id", "cell", "cafeteria", "morning_act", "noon_act", "evening_act"}

// LoadResidentsCSV reads the residents.csv file against the canonical
// layout and resolves every place_id/schedule_id reference through the
// given PlaceTable/ScheduleTable.
func LoadResidentsCSV(r io.Reader, places *PlaceTable, schedules *ScheduleTable) (*ResidentTable, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		return nil, wrap(err, "read residents header")
	}
	if !headerEquals(header, residentsCanonicalHeader) {
		return nil, &BadConfigError{Field: "residents_file", Reason: "expected canonical layout person_id,schedule_id,cell,cafeteria,morning_act,noon_act,evening_act"}
	}

	builder := NewResidentBuilder(places.IDMap(), schedules.IDs)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, wrap(err, "read residents row")
		}
		rec, err := parseResidentRow(row)
		if err != nil {
			return nil, err
		}
		if err := builder.Add(rec); err != nil {
			return nil, err
		}
	}
	return builder.Build(), nil
}

func parseResidentRow(row []string) (ResidentRecord, error) {
	ints := make([]int, len(row))
	for i, field := range row {
		v, err := strconv.Atoi(field)
		if err != nil {
			return ResidentRecord{}, errors.Wrapf(err, "parse resident field %q", field)
		}
		ints[i] = v
	}
	return ResidentRecord{
		PersonID:     ints[0],
		ScheduleID:   ints[1],
		CellID:       ints[2],
		CafeteriaID:  ints[3],
		MorningActID: ints[4],
		NoonActID:    ints[5],
		EveningActID: ints[6],
	}, nil
}

func requireColumns(header []string, want ...string) error {
	if !headerEquals(header, want) {
		return &BadConfigError{Field: "csv header", Reason: "expected " + csvJoin(want) + ", got " + csvJoin(header)}
	}
	return nil
}

func headerEquals(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range want {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func csvJoin(fields []string) string {
	out := ""
	for i, f := range fields {
		if i > 0 {
			out += ","
		}
		out += f
	}
	return out
}
