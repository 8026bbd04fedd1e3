package infra

// pdf.go renders quotes, service orders and warranty terms with go-pdf/fpdf.
// Everything is written to an io.Writer; nothing touches the filesystem.

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/acavalcante04/erp-security/internal/model"

	"github.com/go-pdf/fpdf"
)

const dataBR = "02/01/2006"

// documento bundles an A4 page with a cp1252 translator so accented text renders
// with the core fonts.
type documento struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
	w   float64 // usable width
}

func novoDocumento(titulo string) *documento {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)
	pdf.SetTitle(titulo, true)
	pdf.AddPage()
	pageW, _ := pdf.GetPageSize()
	return &documento{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor(""), w: pageW - 30}
}

func (d *documento) cell(w, h float64, txt, border string, ln int, align string) {
	d.pdf.CellFormat(w, h, d.tr(txt), border, ln, align, false, 0, "")
}

func (d *documento) separador() {
	y := d.pdf.GetY()
	d.pdf.Line(15, y, 15+d.w, y)
	d.pdf.Ln(3)
}

// ── Header / footer ──────────────────────────────────────────────────────────

func (d *documento) cabecalho(emp DadosEmpresa, titulo, subtitulo string) {
	d.pdf.SetFont("Helvetica", "B", 14)
	d.cell(d.w, 8, emp.Nome, "", 1, "L")

	d.pdf.SetFont("Helvetica", "", 8)
	var linhas []string
	if emp.CNPJ != "" {
		linhas = append(linhas, "CNPJ: "+emp.CNPJ)
	}
	if emp.Endereco != "" {
		linhas = append(linhas, emp.Endereco)
	}
	contato := strings.TrimSpace(strings.Join(naoVazios(emp.Telefone, emp.Email, emp.Site), "  |  "))
	if contato != "" {
		linhas = append(linhas, contato)
	}
	for _, l := range linhas {
		d.cell(d.w, 4, l, "", 1, "L")
	}
	d.pdf.Ln(2)
	d.separador()

	d.pdf.SetFont("Helvetica", "B", 12)
	d.cell(d.w*0.6, 7, titulo, "", 0, "L")
	d.pdf.SetFont("Helvetica", "", 9)
	d.cell(d.w*0.4, 7, subtitulo, "", 1, "R")
	d.pdf.Ln(2)
}

func (d *documento) campo(rotulo, valor string) {
	d.pdf.SetFont("Helvetica", "B", 9)
	d.cell(35, 5, rotulo, "", 0, "L")
	d.pdf.SetFont("Helvetica", "", 9)
	d.pdf.MultiCell(d.w-35, 5, d.tr(valor), "", "L", false)
}

func (d *documento) tabelaItens(itens []model.ItemOrcamento) {
	col := []float64{d.w * 0.50, d.w * 0.12, d.w * 0.19, d.w * 0.19}

	d.pdf.SetFont("Helvetica", "B", 9)
	d.pdf.SetFillColor(230, 230, 230)
	for i, h := range []string{"Descrição", "Qtd", "Preço unit.", "Subtotal"} {
		align := "R"
		if i == 0 {
			align = "L"
		}
		d.pdf.CellFormat(col[i], 6, d.tr(h), "B", 0, align, true, 0, "")
	}
	d.pdf.Ln(-1)

	d.pdf.SetFont("Helvetica", "", 9)
	for _, it := range itens {
		nome := "-"
		if it.Produto != nil {
			nome = it.Produto.Nome
		}
		d.cell(col[0], 6, truncar(nome, 55), "", 0, "L")
		d.cell(col[1], 6, fmt.Sprintf("%d", it.Quantidade), "", 0, "R")
		d.cell(col[2], 6, moeda(it.PrecoUnitario.StringFixed(2)), "", 0, "R")
		d.cell(col[3], 6, moeda(it.Subtotal.StringFixed(2)), "", 1, "R")
	}
	d.pdf.Ln(1)
	d.separador()
}

func (d *documento) totais(bruto, desconto, total string) {
	rot := d.w * 0.81
	val := d.w * 0.19
	d.pdf.SetFont("Helvetica", "", 9)
	d.cell(rot, 5, "Valor bruto:", "", 0, "R")
	d.cell(val, 5, moeda(bruto), "", 1, "R")
	d.cell(rot, 5, "Desconto:", "", 0, "R")
	d.cell(val, 5, "- "+moeda(desconto), "", 1, "R")
	d.pdf.SetFont("Helvetica", "B", 11)
	d.cell(rot, 7, "TOTAL:", "", 0, "R")
	d.cell(val, 7, moeda(total), "", 1, "R")
}

func (d *documento) assinaturas(esquerda, direita string) {
	d.pdf.Ln(20)
	half := d.w/2 - 5
	y := d.pdf.GetY()
	d.pdf.Line(15, y, 15+half, y)
	d.pdf.Line(15+half+10, y, 15+d.w, y)
	d.pdf.Ln(1)
	d.pdf.SetFont("Helvetica", "", 8)
	d.cell(half+10, 4, esquerda, "", 0, "C")
	d.cell(half, 4, direita, "", 1, "C")
}

func (d *documento) rodape(emitidoEm time.Time) {
	d.pdf.SetY(-20)
	d.pdf.SetFont("Helvetica", "I", 7)
	d.cell(d.w, 4, "Documento emitido em "+emitidoEm.Format("02/01/2006 15:04"), "", 1, "C")
}

// ── Public renderers ─────────────────────────────────────────────────────────

// RenderOrcamentoPDF writes the quote document. Itens (with Produto) and Cliente
// must be preloaded.
func RenderOrcamentoPDF(w io.Writer, emp DadosEmpresa, o *model.Orcamento) error {
	d := novoDocumento(fmt.Sprintf("Orçamento #%d", o.Numero))
	d.cabecalho(emp, fmt.Sprintf("ORÇAMENTO Nº %d", o.Numero), "Válido até "+o.Validade.Format(dataBR))

	if o.Cliente != nil {
		d.campo("Cliente:", o.Cliente.Nome)
		d.campo("CPF/CNPJ:", o.Cliente.CPFCNPJ)
		d.campo("Telefone:", o.Cliente.Telefone)
	}
	d.campo("Emissão:", o.CreatedAt.Format(dataBR))
	d.pdf.Ln(3)

	d.tabelaItens(o.Itens)
	d.totais(o.ValorBruto.StringFixed(2), o.Desconto.StringFixed(2), o.ValorTotal.StringFixed(2))

	if strings.TrimSpace(o.Observacoes) != "" {
		d.pdf.Ln(4)
		d.campo("Condições:", o.Observacoes)
	}
	d.assinaturas(emp.Nome, "Cliente")
	d.rodape(time.Now())

	return d.pdf.Output(w)
}

// RenderOrdemServicoPDF writes the work-order sheet. When the order came from a
// quote, OrcamentoOrigem.Itens are printed as the bill of materials.
func RenderOrdemServicoPDF(w io.Writer, emp DadosEmpresa, os *model.OrdemServico) error {
	d := novoDocumento(fmt.Sprintf("Ordem de Serviço #%d", os.Numero))
	d.cabecalho(emp, fmt.Sprintf("ORDEM DE SERVIÇO Nº %d", os.Numero), "Status: "+os.Status)

	if os.Cliente != nil {
		d.campo("Cliente:", os.Cliente.Nome)
		d.campo("Telefone:", os.Cliente.Telefone)
	}
	if os.Tecnico != nil {
		d.campo("Técnico:", os.Tecnico.Nome)
	}
	d.campo("Abertura:", os.DataAbertura.Format(dataBR))
	if os.DataFinalizacao != nil {
		d.campo("Finalização:", os.DataFinalizacao.Format(dataBR))
	}
	if os.OrcamentoOrigem != nil {
		d.campo("Orçamento:", fmt.Sprintf("#%d", os.OrcamentoOrigem.Numero))
	}
	d.pdf.Ln(2)
	d.campo("Problema:", os.DescricaoProblema)
	if os.LaudoTecnico != "" {
		d.campo("Laudo técnico:", os.LaudoTecnico)
	}
	d.pdf.Ln(3)

	if os.OrcamentoOrigem != nil && len(os.OrcamentoOrigem.Itens) > 0 {
		d.tabelaItens(os.OrcamentoOrigem.Itens)
	} else {
		d.separador()
	}
	d.totais(os.ValorBruto.StringFixed(2), os.Desconto.StringFixed(2), os.ValorTotal.StringFixed(2))
	d.assinaturas("Técnico responsável", "Cliente")
	d.rodape(time.Now())

	return d.pdf.Output(w)
}

// RenderTermoGarantiaPDF writes the warranty term for the products delivered by a
// service order.
func RenderTermoGarantiaPDF(w io.Writer, emp DadosEmpresa, os *model.OrdemServico, linhas []LinhaGarantia) error {
	d := novoDocumento(fmt.Sprintf("Termo de Garantia - OS #%d", os.Numero))
	d.cabecalho(emp, "TERMO DE GARANTIA", fmt.Sprintf("OS Nº %d", os.Numero))

	if os.Cliente != nil {
		d.campo("Cliente:", os.Cliente.Nome)
		d.campo("CPF/CNPJ:", os.Cliente.CPFCNPJ)
	}
	d.pdf.Ln(3)

	col := []float64{d.w * 0.52, d.w * 0.12, d.w * 0.16, d.w * 0.20}
	d.pdf.SetFont("Helvetica", "B", 9)
	d.pdf.SetFillColor(230, 230, 230)
	for i, h := range []string{"Produto", "Qtd", "Garantia", "Válida até"} {
		d.pdf.CellFormat(col[i], 6, d.tr(h), "B", 0, "L", true, 0, "")
	}
	d.pdf.Ln(-1)
	d.pdf.SetFont("Helvetica", "", 9)
	for _, l := range linhas {
		d.cell(col[0], 6, truncar(l.Produto, 55), "", 0, "L")
		d.cell(col[1], 6, fmt.Sprintf("%d", l.Quantidade), "", 0, "L")
		d.cell(col[2], 6, fmt.Sprintf("%d meses", l.GarantiaMeses), "", 0, "L")
		d.cell(col[3], 6, l.ValidaAte.Format(dataBR), "", 1, "L")
	}
	d.pdf.Ln(4)

	d.pdf.SetFont("Helvetica", "", 8)
	for _, clausula := range clausulasGarantia {
		d.pdf.MultiCell(d.w, 4, d.tr(clausula), "", "J", false)
		d.pdf.Ln(1)
	}
	d.assinaturas(emp.Nome, "Cliente")
	d.rodape(time.Now())

	return d.pdf.Output(w)
}

var clausulasGarantia = []string{
	"1. A garantia cobre defeitos de fabricação e de instalação pelo prazo indicado para cada produto, contado a partir da conclusão do serviço.",
	"2. Não estão cobertos danos causados por descargas elétricas, umidade, mau uso, violação de lacres ou intervenção de terceiros.",
	"3. Para acionar a garantia, apresente este termo e entre em contato pelos canais informados no cabeçalho.",
}

func moeda(v string) string {
	return "R$ " + strings.Replace(v, ".", ",", 1)
}

func truncar(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func naoVazios(vs ...string) []string {
	var out []string
	for _, v := range vs {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
