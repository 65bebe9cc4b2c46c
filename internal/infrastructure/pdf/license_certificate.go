// Package pdf genera el certificado de licencia en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: ComptaVision          │  CERTIFICADO DE LICENCIA    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CLAVE: CV-AAAA-XXXX-XXXX (grande)                          │
//	│  TABLA: Plan | Puestos | Estado                              │
//	│  FECHAS: Emisión / Vencimiento / Activación                  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TITULAR: cabinet vinculado (o "sin vincular")               │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: QR con la clave + leyenda                           │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
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

	"github.com/comptavision/comptavision-api/internal/application/license"
	"github.com/comptavision/comptavision-api/internal/domain/entity"
)

var _ license.CertificateGenerator = (*CertificateGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorRevoked = &props.Color{Red: 170, Green: 30, Blue: 30}
)

const dateLayout = "02/01/2006"

// ── Generator ─────────────────────────────────────────────────────────────────

// CertificateGenerator implementa license.CertificateGenerator usando Maroto v2.
type CertificateGenerator struct {
	issuer string
}

// NewCertificateGenerator construye el generador. issuer es el nombre que firma el certificado.
func NewCertificateGenerator(issuer string) *CertificateGenerator {
	return &CertificateGenerator{issuer: nonEmpty(issuer, "ComptaVision")}
}

// GenerateLicenseCertificate genera el PDF y devuelve sus bytes. tenant puede ser nil.
func (g *CertificateGenerator) GenerateLicenseCertificate(
	_ context.Context,
	l *entity.License,
	tenant *entity.Tenant,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(15).WithRightMargin(15).
		WithTopMargin(15).WithBottomMargin(15).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 10}).
		WithTitle("Certificado de licencia "+l.LicenseKey, true).
		WithAuthor(g.issuer, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(g.issuer))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(keyRow(l))
	m.AddRows(summaryHeaderRow(), summaryRow(l))
	m.AddRows(datesRow(l))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(holderRow(tenant))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(l))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar certificado: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(issuer string) core.Row {
	return row.New(16).Add(
		col.New(6).Add(
			text.New(issuer, props.Text{
				Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 2,
			}),
		),
		col.New(6).Add(
			text.New("CERTIFICADO DE LICENCIA", props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 4,
			}),
		),
	)
}

func keyRow(l *entity.License) core.Row {
	return row.New(22).Add(
		col.New(12).Add(
			text.New("CLAVE DE LICENCIA", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorGray, Top: 3,
			}),
			text.New(l.LicenseKey, props.Text{
				Style: fontstyle.Bold, Size: 18, Top: 9,
			}),
		),
	)
}

func summaryHeaderRow() core.Row {
	h := func(label string) core.Col {
		return col.New(4).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
		}))
	}
	return row.New(6).Add(h("PLAN"), h("PUESTOS"), h("ESTADO"))
}

func summaryRow(l *entity.License) core.Row {
	statusColor := colorPrimary
	if l.Status == entity.LicenseStatusRevoked || l.Status == entity.LicenseStatusExpired {
		statusColor = colorRevoked
	}
	return row.New(10).Add(
		col.New(4).Add(text.New(l.Plan, props.Text{Size: 11, Top: 1})),
		col.New(4).Add(text.New(fmt.Sprintf("%d", l.Seats), props.Text{Size: 11, Top: 1})),
		col.New(4).Add(text.New(l.Status, props.Text{Style: fontstyle.Bold, Size: 11, Top: 1, Color: statusColor})),
	)
}

func datesRow(l *entity.License) core.Row {
	activated := "—"
	if l.ActivatedAt != nil {
		activated = l.ActivatedAt.Format(dateLayout)
	}
	cell := func(label, value string) core.Col {
		return col.New(4).Add(
			text.New(label, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorGray, Top: 1}),
			text.New(value, props.Text{Size: 10, Top: 6}),
		)
	}
	return row.New(14).Add(
		cell("EMISIÓN", formatDate(l.IssuedAt)),
		cell("VENCIMIENTO", formatDate(l.ExpiresAt)),
		cell("ACTIVACIÓN", activated),
	)
}

func holderRow(tenant *entity.Tenant) core.Row {
	if tenant == nil {
		return row.New(14).Add(col.New(12).Add(
			text.New("TITULAR", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New("Licencia sin vincular a un cabinet.", props.Text{Size: 10, Top: 7, Color: colorGray}),
		))
	}
	return row.New(18).Add(col.New(12).Add(
		text.New("TITULAR", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
		text.New(tenant.Name, props.Text{Style: fontstyle.Bold, Size: 11, Top: 6}),
		text.New(fmt.Sprintf("Slug: %s   |   País: %s   |   Moneda: %s",
			tenant.Slug, nonEmpty(tenant.Country, "—"), nonEmpty(tenant.Currency, "—"),
		), props.Text{Size: 8, Top: 13, Color: colorGray}),
	))
}

func footerRow(l *entity.License) core.Row {
	return row.New(45).Add(
		col.New(4).Add(code.NewQr(l.LicenseKey, props.Rect{Percent: 90, Center: true})),
		col.New(8).Add(
			text.New("Active la licencia desde su cabinet con la clave indicada.", props.Text{
				Size: 9, Top: 6, Left: 3, Color: colorGray,
			}),
			text.New("La licencia solo puede vincularse a un cabinet y no es transferible.", props.Text{
				Size: 8, Top: 16, Left: 3, Color: colorGray,
			}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "—"
	}
	return t.UTC().Format(dateLayout)
}
