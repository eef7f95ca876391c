// Package pdf implementa la generación del acta de salida de bodega de una
// liberación de stock.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + Tipo   │  N° Liberación + Estado + Fecha  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  ORIGEN: bodega de salida  /  DESTINO: si es traslado        │
//	│  ACTORES: solicitó / aprobó / liberó / recibió               │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: SKU | Producto | Solicitado | Liberado | Lote/Serie  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: notas + leyenda de control interno                  │
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

	apprelease "github.com/NextWave-98/api-sub002/internal/application/release"
	"github.com/NextWave-98/api-sub002/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var releaseTypeLabels = map[entity.ReleaseType]string{
	entity.ReleaseJobUsage:       "Consumo en orden de trabajo",
	entity.ReleaseBranchTransfer: "Traslado entre sucursales",
	entity.ReleaseDisposal:       "Baja / disposición",
	entity.ReleaseInternalUse:    "Uso interno",
	entity.ReleaseSample:         "Muestra",
	entity.ReleasePromotion:      "Promoción",
	entity.ReleaseOther:          "Otro",
}

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoReleaseNoteGenerator implementa release.ReleaseNotePDFGenerator usando Maroto v2.
type MarotoReleaseNoteGenerator struct{}

// NewMarotoReleaseNoteGenerator construye el generador.
func NewMarotoReleaseNoteGenerator() *MarotoReleaseNoteGenerator { return &MarotoReleaseNoteGenerator{} }

// GenerateReleaseNotePDF genera el acta y devuelve sus bytes.
func (g *MarotoReleaseNoteGenerator) GenerateReleaseNotePDF(
	_ context.Context,
	release *entity.StockRelease,
	from, to *entity.Location,
	lines []apprelease.ReleaseLineForPDF,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Acta de Salida de Bodega", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(release))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(locationsRow(release, from, to))
	m.AddRows(actorsRow(release))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableLineRows(lines) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	for _, r := range footerRows(release) {
		m.AddRows(r)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título + tipo (izq) y número + estado + fecha (der).
func headerRow(release *entity.StockRelease) core.Row {
	typeLabel := releaseTypeLabels[release.Type]
	if typeLabel == "" {
		typeLabel = string(release.Type)
	}
	fecha := release.RequestedAt.Format("02/01/2006")

	return row.New(18).Add(
		col.New(7).Add(
			text.New("ACTA DE SALIDA DE BODEGA", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(typeLabel, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(release.ReleaseNumber, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 1,
			}),
			text.New("Estado: "+string(release.Status), props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
			text.New("Solicitada: "+fecha, props.Text{
				Size: 8, Align: align.Right, Top: 13, Color: colorGray,
			}),
		),
	)
}

// locationsRow: origen y, si es traslado, destino.
func locationsRow(release *entity.StockRelease, from, to *entity.Location) core.Row {
	origen := fmt.Sprintf("ORIGEN: %s (%s)", from.Name, from.Code)
	destino := "—"
	if to != nil {
		destino = fmt.Sprintf("%s (%s)", to.Name, to.Code)
	}
	_ = release
	return row.New(12).Add(
		col.New(6).Add(
			text.New(origen, props.Text{Style: fontstyle.Bold, Size: 9, Top: 2}),
			text.New(nonEmpty(from.Address, ""), props.Text{Size: 8, Top: 8, Color: colorGray}),
		),
		col.New(6).Add(
			text.New("DESTINO: "+destino, props.Text{Style: fontstyle.Bold, Size: 9, Top: 2}),
		),
	)
}

// actorsRow: quién solicitó, aprobó, liberó y recibió.
func actorsRow(release *entity.StockRelease) core.Row {
	return row.New(10).Add(
		col.New(12).Add(
			text.New(fmt.Sprintf("Solicitó: %s   |   Aprobó: %s   |   Liberó: %s   |   Recibió: %s",
				nonEmpty(release.RequestedBy, "—"),
				nonEmpty(release.ApprovedBy, "—"),
				nonEmpty(release.ReleasedBy, "—"),
				nonEmpty(release.ReceivedBy, "—"),
			), props.Text{Size: 8, Top: 2, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de líneas.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("SKU", 2, align.Left),
		h("Producto", 4, align.Left),
		h("Solicitado", 2, align.Right),
		h("Liberado", 2, align.Right),
		h("Lote / Serie", 2, align.Left),
	)
}

// tableLineRows: una fila por línea de la liberación.
func tableLineRows(lines []apprelease.ReleaseLineForPDF) []core.Row {
	result := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		released := "—"
		if l.Item.ReleasedQuantity != nil {
			released = fmt.Sprintf("%d", *l.Item.ReleasedQuantity)
		}
		batchSerial := l.Item.BatchNumber
		if l.Item.SerialNumber != "" {
			if batchSerial != "" {
				batchSerial += " / "
			}
			batchSerial += l.Item.SerialNumber
		}
		result = append(result, row.New(7).Add(
			col.New(2).Add(text.New(
				nonEmpty(l.ProductSKU, "—"),
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(4).Add(text.New(
				l.ProductName,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				fmt.Sprintf("%d", l.Item.RequestedQuantity),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(2).Add(text.New(
				released,
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(2).Add(text.New(
				nonEmpty(batchSerial, "—"),
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
		))
	}
	return result
}

// footerRows: notas de la liberación + leyenda de control interno.
func footerRows(release *entity.StockRelease) []core.Row {
	rows := []core.Row{}
	if release.Notes != "" {
		rows = append(rows, row.New(10).Add(col.New(12).Add(
			text.New("Notas:", props.Text{Style: fontstyle.Bold, Size: 8, Top: 1}),
			text.New(release.Notes, props.Text{Size: 8, Top: 6, Color: colorGray}),
		)))
	}
	rows = append(rows, row.New(8).Add(col.New(12).Add(
		text.New(
			"Documento de control interno de inventario. Toda salida de bodega queda "+
				"registrada en el libro de movimientos con su cantidad antes y después.",
			props.Text{Size: 6.5, Color: colorGray, Top: 2},
		),
	)))
	return rows
}

// nonEmpty devuelve s o el fallback si está vacío.
func nonEmpty(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
