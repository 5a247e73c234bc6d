package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/openswad/swad-backend/internal/repository"
	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

// ExportService renders course group rosters as spreadsheet workbooks.
type ExportService struct {
	typeRepo   *repository.GroupTypeRepository
	groupRepo  *repository.GroupRepository
	courseRepo *repository.CourseRepository
	log        zerolog.Logger
}

// NewExportService creates a new ExportService.
func NewExportService(
	typeRepo *repository.GroupTypeRepository,
	groupRepo *repository.GroupRepository,
	courseRepo *repository.CourseRepository,
	log zerolog.Logger,
) *ExportService {
	return &ExportService{
		typeRepo:   typeRepo,
		groupRepo:  groupRepo,
		courseRepo: courseRepo,
		log:        log.With().Str("component", "export_service").Logger(),
	}
}

// CourseGroupsWorkbook builds an .xlsx workbook with one sheet per group
// type of the course, each listing its groups and enrolled students.
// Returns the serialized workbook and a suggested file name.
func (s *ExportService) CourseGroupsWorkbook(ctx context.Context, courseID int64) (*bytes.Buffer, string, error) {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, "", fmt.Errorf("get course: %w", err)
	}

	types, err := s.typeRepo.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, "", fmt.Errorf("list group types: %w", err)
	}

	groups, err := s.groupRepo.ListByCourse(ctx, courseID, 0)
	if err != nil {
		return nil, "", fmt.Errorf("list groups: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, "", fmt.Errorf("create style: %w", err)
	}

	for i, gt := range types {
		// Sheet names are capped at 31 chars by the format.
		sheet := fmt.Sprintf("%d %s", i+1, gt.Name)
		if len(sheet) > 31 {
			sheet = sheet[:31]
		}
		if i == 0 {
			f.SetSheetName("Sheet1", sheet)
		} else {
			if _, err := f.NewSheet(sheet); err != nil {
				return nil, "", fmt.Errorf("new sheet: %w", err)
			}
		}

		f.SetCellValue(sheet, "A1", "Group")
		f.SetCellValue(sheet, "B1", "Open")
		f.SetCellValue(sheet, "C1", "Students")
		f.SetCellValue(sheet, "D1", "Capacity")
		f.SetCellValue(sheet, "E1", "Student")
		f.SetCellValue(sheet, "F1", "Email")
		f.SetCellStyle(sheet, "A1", "F1", header)
		f.SetColWidth(sheet, "A", "A", 24)
		f.SetColWidth(sheet, "E", "F", 32)

		row := 2
		for _, g := range groups {
			if g.GroupTypeID != gt.ID {
				continue
			}

			capacity := "unlimited"
			if g.Capacity != nil {
				capacity = fmt.Sprintf("%d", *g.Capacity)
			}

			members, err := s.groupRepo.ListMembers(ctx, g.ID)
			if err != nil {
				return nil, "", fmt.Errorf("list members of group %d: %w", g.ID, err)
			}

			f.SetCellValue(sheet, fmt.Sprintf("A%d", row), g.Name)
			f.SetCellValue(sheet, fmt.Sprintf("B%d", row), g.Open)
			f.SetCellValue(sheet, fmt.Sprintf("C%d", row), g.NumMembers)
			f.SetCellValue(sheet, fmt.Sprintf("D%d", row), capacity)

			if len(members) == 0 {
				row++
				continue
			}
			for _, m := range members {
				f.SetCellValue(sheet, fmt.Sprintf("E%d", row), m.Name)
				f.SetCellValue(sheet, fmt.Sprintf("F%d", row), m.Email)
				row++
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("serialize workbook: %w", err)
	}

	name := fmt.Sprintf("groups_%s_%d.xlsx", course.ShortName, course.Year)
	return buf, name, nil
}
