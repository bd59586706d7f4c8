// Package pdf genera el informe de existencias del botiquín en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + Fecha de corte │ Totales de inventario    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Medicamento | Stock | Nivel de reorden              │
//	│  ─────────────────────────────────────────────────────────  │
//	│  ALERTAS DE REPOSICIÓN: Medicamento | Stock | Días cobert.  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  PRÓXIMOS VENCIMIENTOS: Lote | Medicamento | Vence | Stock  │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	appreporting "github.com/jhoicas/Botiquin-api/internal/application/reporting"
	"github.com/jhoicas/Botiquin-api/internal/domain/entity"
	"github.com/jhoicas/Botiquin-api/internal/domain/repository"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 96, Blue: 80}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 170, Green: 40, Blue: 30}
)

// StockReportGenerator implementa reporting.StockPDFGenerator usando Maroto v2.
type StockReportGenerator struct{}

var _ appreporting.StockPDFGenerator = (*StockReportGenerator)(nil)

// NewStockReportGenerator construye el generador.
func NewStockReportGenerator() *StockReportGenerator { return &StockReportGenerator{} }

// Generate genera el PDF y devuelve sus bytes.
func (g *StockReportGenerator) Generate(_ context.Context, data appreporting.StockReportData) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Informe de existencias", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(data))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(sectionTitle("EXISTENCIAS POR MEDICAMENTO"))
	m.AddRows(stockHeaderRow())
	for _, r := range stockRows(data.Stock) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(2))
	m.AddRows(sectionTitle("ALERTAS DE REPOSICIÓN"))
	if len(data.Alerts) == 0 {
		m.AddRows(emptyRow("Sin alertas de reposición."))
	} else {
		m.AddRows(alertHeaderRow())
		for _, r := range alertRows(data.Alerts) {
			m.AddRows(r)
		}
	}

	m.AddRows(line.NewRow(2))
	m.AddRows(sectionTitle("PRÓXIMOS VENCIMIENTOS"))
	if len(data.Expiring) == 0 {
		m.AddRows(emptyRow("Sin lotes próximos a vencer."))
	} else {
		m.AddRows(expiryHeaderRow())
		for _, r := range expiryRows(data.Expiring, data.MedicineNames) {
			m.AddRows(r)
		}
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(data appreporting.StockReportData) core.Row {
	fecha := data.GeneratedAt.Format("02/01/2006 15:04")
	totales := "—"
	if data.Totals != nil {
		totales = fmt.Sprintf("%d medicamentos  ·  %d lotes  ·  %s unidades",
			data.Totals.Medicines, data.Totals.Batches,
			data.Totals.UnitsInStock.StringFixed(0))
	}
	return row.New(18).Add(
		col.New(7).Add(
			text.New("INFORME DE EXISTENCIAS", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Fecha de corte: "+fecha, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(totales, props.Text{
				Size: 8, Align: align.Right, Top: 10, Color: colorGray,
			}),
		),
	)
}

func sectionTitle(label string) core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 9, Color: colorPrimary, Top: 2,
		}),
	))
}

func emptyRow(label string) core.Row {
	return row.New(6).Add(col.New(12).Add(
		text.New(label, props.Text{Size: 8, Color: colorGray, Top: 1, Left: 2}),
	))
}

func headerCell(label string, size int, a align.Type) core.Col {
	return col.New(size).Add(text.New(label, props.Text{
		Style: fontstyle.Bold, Size: 8, Align: a, Top: 1,
	}))
}

func stockHeaderRow() core.Row {
	return row.New(7).Add(
		headerCell("Medicamento", 7, align.Left),
		headerCell("Stock", 2, align.Right),
		headerCell("Nivel de reorden", 3, align.Right),
	)
}

func stockRows(stock []repository.MedicineStockResult) []core.Row {
	result := make([]core.Row, 0, len(stock))
	for _, s := range stock {
		nameColor := colorGray
		if s.TotalStock.LessThanOrEqual(s.ReorderLevel) {
			nameColor = colorAlert
		}
		result = append(result, row.New(6).Add(
			col.New(7).Add(text.New(
				fmt.Sprintf("%s (%s)", s.Name, s.MedicineID),
				props.Text{Size: 8, Top: 1, Color: nameColor},
			)),
			col.New(2).Add(text.New(
				s.TotalStock.StringFixed(0),
				props.Text{Size: 8, Align: align.Right, Top: 1},
			)),
			col.New(3).Add(text.New(
				s.ReorderLevel.StringFixed(0),
				props.Text{Size: 8, Align: align.Right, Top: 1},
			)),
		))
	}
	return result
}

func alertHeaderRow() core.Row {
	return row.New(7).Add(
		headerCell("Medicamento", 6, align.Left),
		headerCell("Stock", 2, align.Right),
		headerCell("Umbral", 2, align.Right),
		headerCell("Días cobert.", 2, align.Right),
	)
}

func alertRows(alerts []repository.ReorderAlertResult) []core.Row {
	result := make([]core.Row, 0, len(alerts))
	for _, a := range alerts {
		result = append(result, row.New(6).Add(
			col.New(6).Add(text.New(
				fmt.Sprintf("%s (%s)", a.Name, a.MedicineID),
				props.Text{Size: 8, Top: 1, Color: colorAlert},
			)),
			col.New(2).Add(text.New(
				a.TotalStock.StringFixed(0),
				props.Text{Size: 8, Align: align.Right, Top: 1},
			)),
			col.New(2).Add(text.New(
				a.AlertLevel.StringFixed(2),
				props.Text{Size: 8, Align: align.Right, Top: 1},
			)),
			col.New(2).Add(text.New(
				a.DaysCover.StringFixed(1),
				props.Text{Size: 8, Align: align.Right, Top: 1},
			)),
		))
	}
	return result
}

func expiryHeaderRow() core.Row {
	return row.New(7).Add(
		headerCell("Lote", 2, align.Left),
		headerCell("Medicamento", 6, align.Left),
		headerCell("Vence", 2, align.Right),
		headerCell("Stock", 2, align.Right),
	)
}

func expiryRows(batches []*entity.Batch, names map[string]string) []core.Row {
	result := make([]core.Row, 0, len(batches))
	for _, b := range batches {
		vence := "—"
		if b.ExpiryDate != nil {
			vence = b.ExpiryDate.Format("02/01/2006")
		}
		name := names[b.MedicineID]
		if name == "" {
			name = b.MedicineID
		}
		result = append(result, row.New(6).Add(
			col.New(2).Add(text.New(
				b.BatchNo,
				props.Text{Size: 8, Top: 1},
			)),
			col.New(6).Add(text.New(
				name,
				props.Text{Size: 8, Top: 1},
			)),
			col.New(2).Add(text.New(
				vence,
				props.Text{Size: 8, Align: align.Right, Top: 1},
			)),
			col.New(2).Add(text.New(
				b.StockUnits.StringFixed(0),
				props.Text{Size: 8, Align: align.Right, Top: 1},
			)),
		))
	}
	return result
}
