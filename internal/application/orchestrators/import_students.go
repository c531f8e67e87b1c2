package orchestrators

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"log/slog"
	"net/mail"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"dojohub/internal/application/console"
	"dojohub/internal/domain/student"
	"dojohub/internal/domain/subscription"
)

// ConsoleForImport defines the console interface needed by ImportStudents.
type ConsoleForImport interface {
	Students() []student.Student
	Subscription() subscription.Subscription
	AddStudent(ctx context.Context, s student.Student) error
	UpdateStudent(ctx context.Context, id string, patch student.Patch) error
}

// ImportStudentsInput carries the CSV stream and import options.
// PRE: Reader is a CSV stream with a header row containing at least NAME.
// INVARIANT: Existing students are never deleted; IDs are preserved on update.
type ImportStudentsInput struct {
	Reader     io.Reader
	DryRun     bool
	UpdateMode bool
}

// ImportStudentsResult holds aggregate counts and per-row errors from an import run.
type ImportStudentsResult struct {
	Total   int                    `json:"total"`
	Created int                    `json:"created"`
	Updated int                    `json:"updated"`
	Skipped int                    `json:"skipped"`
	Errors  []ImportStudentsRowErr `json:"errors,omitempty"`
	DryRun  bool                   `json:"dryRun"`
	Unknown []string               `json:"unknownColumns,omitempty"`
}

// ImportStudentsRowErr describes a problem with a single CSV row.
type ImportStudentsRowErr struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ImportStudentsDeps holds dependencies for the import orchestrator.
type ImportStudentsDeps struct {
	Console    ConsoleForImport
	GenerateID func() string
}

// ErrImportMissingColumn is returned when the header lacks a required column.
var ErrImportMissingColumn = errors.New("CSV missing required column: NAME")

// ExecuteImportStudents parses a CSV stream and creates or updates students.
// Rows are matched to existing students by email.
// PRE: Input.Reader contains a CSV with a NAME column
// POST: Students created/updated/skipped according to DryRun and UpdateMode;
// new students stop being created once the plan's limit is reached
// INVARIANT: When DryRun=true no writes occur
func ExecuteImportStudents(ctx context.Context, input ImportStudentsInput, deps ImportStudentsDeps) (ImportStudentsResult, error) {
	genID := deps.GenerateID
	if genID == nil {
		genID = func() string { return uuid.New().String() }
	}

	cr := csv.NewReader(input.Reader)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return ImportStudentsResult{}, err
	}
	colIdx := make(map[string]int, len(header))
	for i, h := range header {
		colIdx[strings.ToUpper(strings.TrimSpace(h))] = i
	}
	if _, ok := colIdx["NAME"]; !ok {
		return ImportStudentsResult{}, ErrImportMissingColumn
	}

	known := map[string]bool{
		"NAME": true, "EMAIL": true, "PHONE": true, "BIRTHDATE": true,
		"BELT": true, "STRIPES": true, "STATUS": true, "FEE": true, "NOTES": true,
	}
	var unknownCols []string
	for _, h := range header {
		if !known[strings.ToUpper(strings.TrimSpace(h))] {
			unknownCols = append(unknownCols, h)
		}
	}

	getCol := func(row []string, col string) string {
		i, ok := colIdx[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	byEmail := make(map[string]student.Student)
	active := 0
	for _, s := range deps.Console.Students() {
		if s.Email != "" {
			byEmail[strings.ToLower(s.Email)] = s
		}
		if s.IsActive() {
			active++
		}
	}
	sub := deps.Console.Subscription()

	result := ImportStudentsResult{DryRun: input.DryRun, Unknown: unknownCols}
	rowNum := 1

	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		rowNum++
		if err != nil {
			result.Errors = append(result.Errors, ImportStudentsRowErr{Row: rowNum, Message: "unreadable row"})
			continue
		}
		result.Total++

		s := student.Student{
			Name:      getCol(row, "NAME"),
			Phone:     getCol(row, "PHONE"),
			BirthDate: getCol(row, "BIRTHDATE"),
			Belt:      normalizeBelt(getCol(row, "BELT")),
			Notes:     getCol(row, "NOTES"),
			Status:    strings.ToLower(getCol(row, "STATUS")),
		}
		if raw := getCol(row, "EMAIL"); raw != "" {
			addr, parseErr := mail.ParseAddress(raw)
			if parseErr != nil {
				result.Errors = append(result.Errors, ImportStudentsRowErr{Row: rowNum, Message: "invalid email: " + raw})
				continue
			}
			s.Email = strings.ToLower(addr.Address)
		}
		if s.Status != student.StatusInactive {
			s.Status = student.StatusActive
		}
		s.Stripes, _ = strconv.Atoi(getCol(row, "STRIPES"))
		s.MonthlyFee, _ = strconv.ParseFloat(strings.ReplaceAll(getCol(row, "FEE"), ",", "."), 64)

		if err := s.Validate(); err != nil {
			result.Errors = append(result.Errors, ImportStudentsRowErr{Row: rowNum, Message: err.Error()})
			continue
		}

		existing, exists := byEmail[s.Email]
		exists = exists && s.Email != ""
		if exists && !input.UpdateMode {
			result.Skipped++
			continue
		}
		if !exists && s.IsActive() && !sub.Admits(active) {
			result.Errors = append(result.Errors, ImportStudentsRowErr{Row: rowNum, Message: subscription.ErrStudentLimitReached.Error()})
			continue
		}

		if input.DryRun {
			if exists {
				result.Updated++
			} else {
				result.Created++
				if s.IsActive() {
					active++
				}
			}
			continue
		}

		if exists {
			if err := deps.Console.UpdateStudent(ctx, existing.ID, importPatch(s)); err != nil && !errors.Is(err, console.ErrPersist) {
				result.Errors = append(result.Errors, ImportStudentsRowErr{Row: rowNum, Message: err.Error()})
				continue
			}
			result.Updated++
			continue
		}

		s.ID = genID()
		if err := deps.Console.AddStudent(ctx, s); err != nil && !errors.Is(err, console.ErrPersist) {
			slog.Error("students_import_add_failed", "row", rowNum, "email", s.Email, "error", err)
			result.Errors = append(result.Errors, ImportStudentsRowErr{Row: rowNum, Message: err.Error()})
			continue
		}
		byEmail[s.Email] = s
		if s.IsActive() {
			active++
		}
		result.Created++
	}

	slog.Info("students_import",
		"dry_run", input.DryRun,
		"update_mode", input.UpdateMode,
		"total", result.Total,
		"created", result.Created,
		"updated", result.Updated,
		"skipped", result.Skipped,
		"errors", len(result.Errors),
	)
	return result, nil
}

// importPatch builds a patch that overwrites only the columns the row filled in.
func importPatch(s student.Student) student.Patch {
	p := student.Patch{Name: &s.Name, Status: &s.Status}
	if s.Phone != "" {
		p.Phone = &s.Phone
	}
	if s.BirthDate != "" {
		p.BirthDate = &s.BirthDate
	}
	if s.Belt != "" {
		p.Belt = &s.Belt
	}
	if s.Stripes > 0 {
		p.Stripes = &s.Stripes
	}
	if s.MonthlyFee > 0 {
		p.MonthlyFee = &s.MonthlyFee
	}
	if s.Notes != "" {
		p.Notes = &s.Notes
	}
	return p
}

// normalizeBelt maps a belt cell to its canonical spelling, case-insensitively.
// Unknown values are returned unchanged so validation can report them.
func normalizeBelt(raw string) string {
	for _, b := range student.Belts {
		if strings.EqualFold(raw, b) {
			return b
		}
	}
	return raw
}
