package report

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuilderOutputsPDF(t *testing.T) {
	b := NewBuilder()
	b.Title("Reporte semanal de órdenes")
	b.Subtitle("Semana del 2026-03-02 al 2026-03-08")
	b.SectionTitle("Órdenes por técnico")
	b.Line("Gómez cerró 4 órdenes")
	b.Divider()

	out, err := b.Output()
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestBuilderTableEstimateGrowsWithRows(t *testing.T) {
	b := NewBuilder()
	table := Table{
		Headers: []string{"Cliente", "Estado"},
		Widths:  []float64{0.5, 0.5},
		Rows:    [][]string{{"CL-1001", "Cerrada"}},
	}
	one := b.EstimateTableHeight(table)

	table.Rows = append(table.Rows, []string{"CL-1002", "Pendiente"}, []string{"CL-1003", "Cancelada"})
	three := b.EstimateTableHeight(table)
	require.Greater(t, three, one)
}

func TestBuilderLongTableSpansPages(t *testing.T) {
	b := NewBuilder()
	b.Title("Listado")

	table := Table{
		Headers: []string{"Cliente", "Observación"},
		Widths:  []float64{0.3, 0.7},
	}
	for i := 0; i < 120; i++ {
		table.Rows = append(table.Rows, []string{
			fmt.Sprintf("CL-%04d", i),
			"visita de control, sin novedades en el enlace",
		})
	}
	b.DrawTable(table)

	out, err := b.Output()
	require.NoError(t, err)
	// 120 rows cannot fit a single A4 page: expect the /Pages node plus
	// at least two /Page objects
	require.GreaterOrEqual(t, bytes.Count(out, []byte("/Type /Page")), 3)
}

func TestBuilderImageRejectsGarbage(t *testing.T) {
	b := NewBuilder()
	err := b.Image([]byte("not a png"), 100, 40)
	require.Error(t, err)

	// builder stays usable after a bad image
	b.Line("sin gráfico")
	out, errOut := b.Output()
	require.NoError(t, errOut)
	require.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}
