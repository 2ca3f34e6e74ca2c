package report

import (
	"errors"
	"fmt"
	"io"

	"github.com/wcharczuk/go-chart/v2"
)

// Slice is one pie-chart segment: a medicine and its stocked quantity.
type Slice struct {
	Name     string
	Quantity int64
}

// ErrNoData is returned when there is nothing to chart.
var ErrNoData = errors.New("no data to chart")

// RenderPie writes a quantity-by-medicine pie chart as PNG to w.
func RenderPie(w io.Writer, title string, slices []Slice) error {
	values := make([]chart.Value, 0, len(slices))
	for _, s := range slices {
		if s.Quantity <= 0 {
			continue
		}
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s (%d)", s.Name, s.Quantity),
			Value: float64(s.Quantity),
		})
	}
	if len(values) == 0 {
		return ErrNoData
	}

	pie := chart.PieChart{
		Title:  title,
		Width:  800,
		Height: 600,
		Values: values,
	}
	if err := pie.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}
