// Package export renders the employee document roster as CSV or XLSX.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"hrdesk/internal/domain"
	"hrdesk/internal/upload"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// StatusMissing marks a slot without a committed document.
const StatusMissing = "missing"

const sheetName = "Roster"

var baseColumns = []string{
	"Employee Code",
	"Full Name",
	"Email",
	"Department",
	"Position",
	"Status",
	"Hire Date",
}

// Roster is one row per employee with the verification status of every catalog slot.
type Roster struct {
	slots     []upload.Definition
	required  map[string]bool
	employees []domain.Employee
	statuses  map[uuid.UUID]map[string]domain.VerificationStatus
}

// NewRoster joins employees with their slot status rows.
func NewRoster(catalog *upload.Catalog, employees []domain.Employee, matrix []domain.EmployeeDocumentStatus) *Roster {
	r := &Roster{
		slots:     catalog.Slots,
		required:  make(map[string]bool),
		employees: employees,
		statuses:  make(map[uuid.UUID]map[string]domain.VerificationStatus, len(employees)),
	}
	for _, id := range catalog.Required() {
		r.required[id] = true
	}
	for _, m := range matrix {
		row, ok := r.statuses[m.EmployeeID]
		if !ok {
			row = make(map[string]domain.VerificationStatus)
			r.statuses[m.EmployeeID] = row
		}
		row[m.SlotID] = m.VerificationStatus
	}
	return r
}

// Header returns the column names: employee fields, one column per slot, then completeness.
func (r *Roster) Header() []string {
	h := append([]string(nil), baseColumns...)
	for _, s := range r.slots {
		h = append(h, s.Label)
	}
	return append(h, "Required Complete")
}

// Rows returns the data rows in employee order.
func (r *Roster) Rows() [][]string {
	rows := make([][]string, 0, len(r.employees))
	for i := range r.employees {
		rows = append(rows, r.row(&r.employees[i]))
	}
	return rows
}

func (r *Roster) row(e *domain.Employee) []string {
	row := []string{
		e.EmployeeCode,
		e.FullName,
		e.Email,
		e.Department,
		e.Position,
		string(e.Status),
		formatDate(e.HireDate),
	}
	statuses := r.statuses[e.ID]
	complete := true
	for _, s := range r.slots {
		st, ok := statuses[s.ID]
		if !ok {
			row = append(row, StatusMissing)
		} else {
			row = append(row, string(st))
		}
		if r.required[s.ID] && (!ok || st == domain.VerificationRejected) {
			complete = false
		}
	}
	return append(row, formatBool(complete))
}

// WriteCSV writes the roster as CSV prefixed with a UTF-8 BOM.
func (r *Roster) WriteCSV(w io.Writer) error {
	if _, err := w.Write(BOM); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(r.Header()); err != nil {
		return err
	}
	if err := cw.WriteAll(r.Rows()); err != nil {
		return err
	}
	return cw.Error()
}

// WriteXLSX writes the roster as a single-sheet workbook with a frozen bold header.
func (r *Roster) WriteXLSX(w io.Writer) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	header := r.Header()
	if err := f.SetSheetRow(sheetName, "A1", toCells(header)); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, row := range r.Rows() {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetName, cell, toCells(row)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}
	last, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheetName, "A1", last+"1", bold); err != nil {
		return fmt.Errorf("styling header: %w", err)
	}
	if err := f.SetColWidth(sheetName, "A", last, 18); err != nil {
		return fmt.Errorf("sizing columns: %w", err)
	}
	if err := f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freezing header: %w", err)
	}

	_, err = f.WriteTo(w)
	return err
}

func toCells(row []string) *[]interface{} {
	cells := make([]interface{}, len(row))
	for i, v := range row {
		cells[i] = v
	}
	return &cells
}

func formatBool(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename replaces characters unsafe in Content-Disposition with _ and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns {sanitized_name}_{YYYY-MM-DD}.{ext}.
func BuildFilename(name, ext string) string {
	return fmt.Sprintf("%s_%s.%s", SanitizeFilename(name), time.Now().Format("2006-01-02"), ext)
}
