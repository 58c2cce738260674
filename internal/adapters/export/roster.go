// Package export writes roster spreadsheets.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/AchilleasB/creche-admin/console-service/internal/core/domain"
)

const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Sheet names of the generated workbooks.
const (
	StudentSheet = "Students"
	StaffSheet   = "Staff"
)

var studentHeaders = []string{
	"Name", "Date of Birth", "Facility", "Parent Name", "Parent Email",
	"Parent Phone", "Parent Address", "Fees Owed", "Fees Paid",
}

var staffHeaders = []string{
	"Name", "Staff Number", "Position", "Qualification", "Facility", "Email", "Phone",
}

// WriteStudents writes one row per student. facilityNames maps facility IDs
// to display names; unknown IDs are written as-is.
func WriteStudents(w io.Writer, students []*domain.Student, facilityNames map[string]string) error {
	rows := make([][]any, 0, len(students))
	for _, s := range students {
		rows = append(rows, []any{
			s.Name, s.DateOfBirth, nameOr(facilityNames, s.FacilityID), s.ParentName, s.ParentEmail,
			s.ParentPhoneNumber, s.ParentAddress, s.FeesOwed, s.FeesPaid,
		})
	}
	return writeSheet(w, StudentSheet, studentHeaders, rows)
}

func WriteStaff(w io.Writer, staff []*domain.Staff, facilityNames map[string]string) error {
	rows := make([][]any, 0, len(staff))
	for _, s := range staff {
		rows = append(rows, []any{
			s.Name, s.StaffNumber, s.Position, s.Qualification,
			nameOr(facilityNames, s.FacilityID), s.Email, s.PhoneNumber,
		})
	}
	return writeSheet(w, StaffSheet, staffHeaders, rows)
}

func nameOr(names map[string]string, id string) string {
	if n, ok := names[id]; ok && n != "" {
		return n
	}
	return id
}

func writeSheet(w io.Writer, sheet string, headers []string, rows [][]any) error {
	f := excelize.NewFile()
	defer f.Close()

	// The default workbook comes with Sheet1; rename it so there is one sheet.
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}

	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return err
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	if err := f.SetCellStyle(sheet, "A1", last, bold); err != nil {
		return err
	}

	for r, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", r+2, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
