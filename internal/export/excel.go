package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/dgallion1/mategest/internal/assessment"
)

const (
	summarySheet      = "Summary"
	competenciesSheet = "Competencies"
	kpisSheet         = "KPIs"
	diagnosticsSheet  = "Diagnostics"
	profileSheet      = "Profile"
)

// WriteXLSX writes the report as a workbook with Summary, Competencies and
// KPIs sheets. A Diagnostics sheet is added when the engine dropped
// anything, and a Profile sheet when profileText is not empty.
func WriteXLSX(w io.Writer, r *assessment.Report, profileText string) error {
	if r == nil {
		return fmt.Errorf("nil report")
	}
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return err
	}
	for _, name := range []string{competenciesSheet, kpisSheet} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("create %s sheet: %w", name, err)
		}
	}

	styles, err := newStyles(f)
	if err != nil {
		return fmt.Errorf("create styles: %w", err)
	}

	if err := writeSummarySheet(f, styles, r); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}
	if err := writeCompetenciesSheet(f, styles, r); err != nil {
		return fmt.Errorf("failed to create competencies sheet: %w", err)
	}
	if err := writeKPIsSheet(f, styles, r); err != nil {
		return fmt.Errorf("failed to create kpis sheet: %w", err)
	}
	if len(r.Diagnostics) > 0 {
		if err := writeDiagnosticsSheet(f, styles, r); err != nil {
			return fmt.Errorf("failed to create diagnostics sheet: %w", err)
		}
	}
	if strings.TrimSpace(profileText) != "" {
		if err := writeProfileSheet(f, styles, profileText); err != nil {
			return fmt.Errorf("failed to create profile sheet: %w", err)
		}
	}

	f.SetActiveSheet(0)
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

type sheetStyles struct {
	title  int
	header int
	label  int
	wrap   int
}

func newStyles(f *excelize.File) (sheetStyles, error) {
	var s sheetStyles
	var err error
	s.title, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
	})
	if err != nil {
		return s, err
	}
	s.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return s, err
	}
	s.label, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return s, err
	}
	s.wrap, err = f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Vertical: "top", WrapText: true},
	})
	return s, err
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

func writeHeader(f *excelize.File, sheet string, style int, headers []string) error {
	for i, h := range headers {
		name, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, name, h); err != nil {
			return err
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
		return err
	}
	return f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
}

func writeSummarySheet(f *excelize.File, s sheetStyles, r *assessment.Report) error {
	f.SetColWidth(summarySheet, "A", "A", 25)
	f.SetColWidth(summarySheet, "B", "B", 50)

	row := 1
	f.SetCellValue(summarySheet, cell("A", row), "MATE anterior")
	f.SetCellStyle(summarySheet, cell("A", row), cell("B", row), s.title)
	f.MergeCell(summarySheet, cell("A", row), cell("B", row))
	row += 2

	rows := [][2]any{
		{"Nombre:", r.SubjectName},
		{"Período:", r.Period},
		{"Competencias:", len(r.Competencies)},
		{"Resumen:", r.Summary()},
		{"Generado:", time.Now().Format("2006-01-02 15:04:05")},
	}
	if r.Metrics != nil {
		rows = append(rows,
			[2]any{"Indicadores:", len(r.Metrics.KPIs)},
			[2]any{"Comentarios:", r.Metrics.Comments},
			[2]any{"Pasa:", r.Metrics.PassFail},
		)
	}
	for _, kv := range rows {
		if err := f.SetCellValue(summarySheet, cell("A", row), kv[0]); err != nil {
			return err
		}
		f.SetCellStyle(summarySheet, cell("A", row), cell("A", row), s.label)
		if err := f.SetCellValue(summarySheet, cell("B", row), kv[1]); err != nil {
			return err
		}
		row++
	}
	return nil
}

func writeCompetenciesSheet(f *excelize.File, s sheetStyles, r *assessment.Report) error {
	if err := writeHeader(f, competenciesSheet, s.header, []string{"ID", "Competencia", "Nivel", "Categoría", "Descripción", "Observaciones"}); err != nil {
		return err
	}
	f.SetColWidth(competenciesSheet, "A", "A", 24)
	f.SetColWidth(competenciesSheet, "B", "B", 40)
	f.SetColWidth(competenciesSheet, "C", "D", 14)
	f.SetColWidth(competenciesSheet, "E", "F", 60)

	row := 2
	for _, info := range assessment.Competencies {
		rec, ok := r.Competencies[info.ID]
		if !ok {
			continue
		}
		values := []any{string(info.ID), info.DisplayName, rec.Level, rec.Category.Label(), rec.Description, rec.Observations}
		if err := f.SetSheetRow(competenciesSheet, cell("A", row), &values); err != nil {
			return err
		}
		f.SetCellStyle(competenciesSheet, cell("E", row), cell("F", row), s.wrap)
		row++
	}
	return nil
}

func writeKPIsSheet(f *excelize.File, s sheetStyles, r *assessment.Report) error {
	if err := writeHeader(f, kpisSheet, s.header, []string{"Indicador", "Período", "Pasa", "Texto"}); err != nil {
		return err
	}
	f.SetColWidth(kpisSheet, "A", "C", 14)
	f.SetColWidth(kpisSheet, "D", "D", 80)
	if r.Metrics == nil {
		return nil
	}
	for i, k := range r.Metrics.KPIs {
		row := i + 2
		values := []any{string(k.Name), k.Period, string(k.PassFail), k.SourceText}
		if err := f.SetSheetRow(kpisSheet, cell("A", row), &values); err != nil {
			return err
		}
		f.SetCellStyle(kpisSheet, cell("D", row), cell("D", row), s.wrap)
	}
	return nil
}

func writeDiagnosticsSheet(f *excelize.File, s sheetStyles, r *assessment.Report) error {
	if _, err := f.NewSheet(diagnosticsSheet); err != nil {
		return err
	}
	if err := writeHeader(f, diagnosticsSheet, s.header, []string{"Tipo", "Posición", "Etiqueta", "Detalle"}); err != nil {
		return err
	}
	f.SetColWidth(diagnosticsSheet, "A", "A", 22)
	f.SetColWidth(diagnosticsSheet, "C", "D", 40)
	for i, d := range r.Diagnostics {
		values := []any{string(d.Kind), d.Offset, d.Label, d.Detail}
		if err := f.SetSheetRow(diagnosticsSheet, cell("A", i+2), &values); err != nil {
			return err
		}
	}
	return nil
}

func writeProfileSheet(f *excelize.File, s sheetStyles, text string) error {
	if _, err := f.NewSheet(profileSheet); err != nil {
		return err
	}
	f.SetColWidth(profileSheet, "A", "A", 120)
	for i, line := range strings.Split(strings.TrimSpace(text), "\n") {
		c := cell("A", i+1)
		if err := f.SetCellValue(profileSheet, c, line); err != nil {
			return err
		}
		if strings.HasPrefix(line, "#") {
			f.SetCellStyle(profileSheet, c, c, s.label)
		}
	}
	return nil
}
