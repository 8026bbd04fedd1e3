package infra

import (
	"fmt"
	"io"

	"github.com/acavalcante04/erp-security/internal/model"

	"github.com/xuri/excelize/v2"
)

const abaOrdensServico = "Ordens de Servico"

var cabecalhoOrdensServico = []string{
	"Número", "Abertura", "Finalização", "Status", "Cliente", "Técnico",
	"Orçamento", "Valor bruto", "Desconto", "Valor total", "Problema", "Laudo técnico",
}

// EscreverPlanilhaOrdensServico writes an XLSX workbook with one row per order.
// Cliente, Tecnico and OrcamentoOrigem are read when preloaded.
func EscreverPlanilhaOrdensServico(w io.Writer, ordens []model.OrdemServico) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := abaOrdensServico
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("planilha: %w", err)
	}

	boldStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
	})
	// numFmt 4 = "#,##0.00"
	moneyStyle, _ := f.NewStyle(&excelize.Style{NumFmt: 4})

	for i, h := range cabecalhoOrdensServico {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := col + "1"
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, boldStyle)
	}

	for i, os := range ordens {
		row := i + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), os.Numero)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), os.DataAbertura.Format(dataBR))
		if os.DataFinalizacao != nil {
			f.SetCellValue(sheet, fmt.Sprintf("C%d", row), os.DataFinalizacao.Format(dataBR))
		}
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), os.Status)
		if os.Cliente != nil {
			f.SetCellValue(sheet, fmt.Sprintf("E%d", row), os.Cliente.Nome)
		}
		if os.Tecnico != nil {
			f.SetCellValue(sheet, fmt.Sprintf("F%d", row), os.Tecnico.Nome)
		}
		if os.OrcamentoOrigem != nil {
			f.SetCellValue(sheet, fmt.Sprintf("G%d", row), os.OrcamentoOrigem.Numero)
		}
		// money cells are display-only; amounts are never re-read from the sheet
		f.SetCellValue(sheet, fmt.Sprintf("H%d", row), os.ValorBruto.InexactFloat64())
		f.SetCellValue(sheet, fmt.Sprintf("I%d", row), os.Desconto.InexactFloat64())
		f.SetCellValue(sheet, fmt.Sprintf("J%d", row), os.ValorTotal.InexactFloat64())
		f.SetCellValue(sheet, fmt.Sprintf("K%d", row), os.DescricaoProblema)
		f.SetCellValue(sheet, fmt.Sprintf("L%d", row), os.LaudoTecnico)
	}
	if len(ordens) > 0 {
		f.SetCellStyle(sheet, "H2", fmt.Sprintf("J%d", len(ordens)+1), moneyStyle)
	}

	widths := []float64{10, 12, 12, 16, 30, 22, 11, 14, 12, 14, 45, 45}
	for i, wd := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheet, col, col, wd)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("planilha: write: %w", err)
	}
	return nil
}
