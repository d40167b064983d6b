package service

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

var ErrNoHeader = errors.New("sheet has no recognizable header row")

// sheetColumns maps accepted header spellings to request fields.
var sheetColumns = map[string]string{
	"name":            "name",
	"volunteer":       "name",
	"volunteer name":  "name",
	"avatar":          "avatar",
	"rating":          "rating",
	"skills":          "skills",
	"project":         "project",
	"time commitment": "time",
	"commitment":      "time",
	"location":        "location",
	"request date":    "date",
	"date":            "date",
}

// SkippedRow explains why a spreadsheet row did not become a request.
type SkippedRow struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// ParseRequestSheet reads pending requests from the first sheet of an xlsx
// workbook. The first row naming at least a volunteer and a project column is
// the header; rows missing either are skipped.
func ParseRequestSheet(r io.Reader) ([]VolunteerRequest, []SkippedRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, nil, fmt.Errorf("read rows: %w", err)
	}

	header, cols := -1, map[string]int(nil)
	for i, row := range rows {
		if found := headerColumns(row); found != nil {
			header, cols = i, found
			break
		}
	}
	if header < 0 {
		return nil, nil, ErrNoHeader
	}

	var out []VolunteerRequest
	var skipped []SkippedRow
	for i := header + 1; i < len(rows); i++ {
		row := rows[i]
		cell := func(field string) string {
			idx, ok := cols[field]
			if !ok || idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}
		if isBlank(row) {
			continue
		}
		name, project := cell("name"), cell("project")
		if name == "" || project == "" {
			skipped = append(skipped, SkippedRow{Row: i + 1, Reason: "missing volunteer name or project"})
			continue
		}
		var rating float64
		if v := cell("rating"); v != "" {
			rating, err = strconv.ParseFloat(v, 64)
			if err != nil || rating < 0 || rating > 5 {
				skipped = append(skipped, SkippedRow{Row: i + 1, Reason: fmt.Sprintf("invalid rating %q", v)})
				continue
			}
		}
		out = append(out, VolunteerRequest{
			Volunteer: Volunteer{
				Name:   name,
				Avatar: cell("avatar"),
				Rating: rating,
				Skills: splitSkills(cell("skills")),
			},
			Project:        project,
			TimeCommitment: cell("time"),
			Location:       cell("location"),
			RequestDate:    cell("date"),
		})
	}
	return out, skipped, nil
}

func headerColumns(row []string) map[string]int {
	cols := map[string]int{}
	for i, v := range row {
		if field, ok := sheetColumns[strings.ToLower(strings.TrimSpace(v))]; ok {
			if _, dup := cols[field]; !dup {
				cols[field] = i
			}
		}
	}
	_, hasName := cols["name"]
	_, hasProject := cols["project"]
	if !hasName || !hasProject {
		return nil
	}
	return cols
}

func splitSkills(s string) []string {
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ';' })
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// sheetHeader is the header row WriteRequestSheet emits.
var sheetHeader = []interface{}{"Name", "Avatar", "Rating", "Skills", "Project", "Time Commitment", "Location", "Request Date"}

// WriteRequestSheet writes reqs as a workbook ParseRequestSheet accepts.
func WriteRequestSheet(w io.Writer, reqs []VolunteerRequest) error {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	if err := f.SetSheetRow(sheet, "A1", &sheetHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, r := range reqs {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			r.Volunteer.Name, r.Volunteer.Avatar, r.Volunteer.Rating, strings.Join(r.Volunteer.Skills, ", "),
			r.Project, r.TimeCommitment, r.Location, r.RequestDate,
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
