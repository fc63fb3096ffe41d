package svg

import (
	"fmt"
	"html/template"
	"strings"
)

// StackedBars renders a stacked vertical bar chart: one bar per label, one
// segment per series. All values must be non-negative; series count and
// lengths must agree with labels.
func StackedBars(width, height int, series [][]float64, labels []string, opts BarOpts) (string, error) {
	if len(series) == 0 {
		return "", fmt.Errorf("svg: at least one series required")
	}
	if len(labels) == 0 {
		return "", fmt.Errorf("svg: labels required")
	}
	for _, s := range series {
		if len(s) != len(labels) {
			return "", fmt.Errorf("svg: series length must match labels")
		}
		for _, v := range s {
			if v < 0 {
				return "", fmt.Errorf("svg: stacked values must be non-negative")
			}
		}
	}
	width, height, padding, tickCount := barDefaults(width, height, opts)
	axisColor := fallback(opts.AxisColor, "#475569")
	gridColor := fallback(opts.GridColor, "#cbd5f5")

	chartWidth := float64(width) - 2*padding
	chartHeight := float64(height) - 2*padding
	if chartWidth <= 0 || chartHeight <= 0 {
		return "", fmt.Errorf("svg: viewport too small")
	}

	maxVal := 0.0
	for i := range labels {
		total := 0.0
		for _, s := range series {
			total += s[i]
		}
		if total > maxVal {
			maxVal = total
		}
	}
	if almostEqual(maxVal, 0) {
		maxVal = 1
	}
	scale := chartHeight / maxVal

	groupWidth := chartWidth / float64(len(labels))
	barWidth := groupWidth * 0.6

	titleID := makeID(opts.Title, "stacked-title")
	descID := makeID(opts.Title, "stacked-desc")

	var b strings.Builder
	b.WriteString(fmt.Sprintf("<svg xmlns=\"http://www.w3.org/2000/svg\" viewBox=\"0 0 %d %d\" role=\"img\" aria-labelledby=\"%s %s\">", width, height, titleID, descID))
	b.WriteString(fmt.Sprintf("<title id=\"%s\">%s</title>", titleID, template.HTMLEscapeString(fallback(opts.Title, "Stacked bar chart"))))
	b.WriteString(fmt.Sprintf("<desc id=\"%s\">%s</desc>", descID, template.HTMLEscapeString(fallback(opts.Description, "Stacked comparison"))))

	writeTicks(&b, padding, chartWidth, chartHeight, 0, maxVal, tickCount, gridColor, axisColor)
	writeAxes(&b, padding, chartWidth, chartHeight, axisColor)

	for i, label := range labels {
		x := padding + float64(i)*groupWidth + (groupWidth-barWidth)/2
		y := padding + chartHeight
		for si, s := range series {
			segment := s[i] * scale
			if segment <= 0 {
				continue
			}
			y -= segment
			b.WriteString(fmt.Sprintf("<rect x=\"%.2f\" y=\"%.2f\" width=\"%.2f\" height=\"%.2f\" fill=\"%s\" aria-label=\"%s %s\"></rect>", x, y, barWidth, segment, seriesColor(opts, si), template.HTMLEscapeString(seriesLabel(opts, si)), template.HTMLEscapeString(label)))
		}
		center := padding + float64(i)*groupWidth + groupWidth/2
		b.WriteString(fmt.Sprintf("<text x=\"%.2f\" y=\"%.2f\" fill=\"%s\" font-size=\"10\" text-anchor=\"middle\">%s</text>", center, padding+chartHeight+14, axisColor, template.HTMLEscapeString(trimLabel(label))))
	}

	writeLegend(&b, padding, len(series), opts, axisColor)
	b.WriteString("</svg>")
	return b.String(), nil
}

// HorizontalBars renders one horizontal bar per label. Suited to categorical
// distributions whose labels are too wide for a vertical axis.
func HorizontalBars(width, height int, values []float64, labels []string, opts BarOpts) (string, error) {
	if len(values) == 0 || len(values) != len(labels) {
		return "", fmt.Errorf("svg: values and labels must align")
	}
	width, height, padding, tickCount := barDefaults(width, height, opts)
	axisColor := fallback(opts.AxisColor, "#475569")
	gridColor := fallback(opts.GridColor, "#cbd5f5")

	labelGutter := 120.0
	chartWidth := float64(width) - 2*padding - labelGutter
	chartHeight := float64(height) - 2*padding
	if chartWidth <= 0 || chartHeight <= 0 {
		return "", fmt.Errorf("svg: viewport too small")
	}

	maxVal := 0.0
	for _, v := range values {
		if v < 0 {
			return "", fmt.Errorf("svg: horizontal values must be non-negative")
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if almostEqual(maxVal, 0) {
		maxVal = 1
	}
	scale := chartWidth / maxVal

	rowHeight := chartHeight / float64(len(values))
	barHeight := rowHeight * 0.6
	originX := padding + labelGutter

	titleID := makeID(opts.Title, "hbar-title")
	descID := makeID(opts.Title, "hbar-desc")

	var b strings.Builder
	b.WriteString(fmt.Sprintf("<svg xmlns=\"http://www.w3.org/2000/svg\" viewBox=\"0 0 %d %d\" role=\"img\" aria-labelledby=\"%s %s\">", width, height, titleID, descID))
	b.WriteString(fmt.Sprintf("<title id=\"%s\">%s</title>", titleID, template.HTMLEscapeString(fallback(opts.Title, "Bar chart"))))
	b.WriteString(fmt.Sprintf("<desc id=\"%s\">%s</desc>", descID, template.HTMLEscapeString(fallback(opts.Description, "Categorical distribution"))))

	for i := 0; i <= tickCount; i++ {
		ratio := float64(i) / float64(tickCount)
		x := originX + ratio*chartWidth
		value := maxVal * ratio
		b.WriteString(fmt.Sprintf("<line x1=\"%.2f\" y1=\"%.2f\" x2=\"%.2f\" y2=\"%.2f\" stroke=\"%s\" stroke-width=\"0.5\" stroke-dasharray=\"2,4\" aria-hidden=\"true\"></line>", x, padding, x, padding+chartHeight, gridColor))
		b.WriteString(fmt.Sprintf("<text x=\"%.2f\" y=\"%.2f\" fill=\"%s\" font-size=\"10\" text-anchor=\"middle\">%s</text>", x, padding+chartHeight+14, axisColor, template.HTMLEscapeString(formatTick(value))))
	}
	b.WriteString(fmt.Sprintf("<line x1=\"%.2f\" y1=\"%.2f\" x2=\"%.2f\" y2=\"%.2f\" stroke=\"%s\" stroke-width=\"1\"></line>", originX, padding, originX, padding+chartHeight, axisColor))

	color := seriesColor(opts, 0)
	for i, value := range values {
		y := padding + float64(i)*rowHeight + (rowHeight-barHeight)/2
		barLen := value * scale
		b.WriteString(fmt.Sprintf("<rect x=\"%.2f\" y=\"%.2f\" width=\"%.2f\" height=\"%.2f\" fill=\"%s\" aria-label=\"%s\"></rect>", originX, y, barLen, barHeight, color, template.HTMLEscapeString(labels[i])))
		b.WriteString(fmt.Sprintf("<text x=\"%.2f\" y=\"%.2f\" fill=\"%s\" font-size=\"10\" text-anchor=\"end\">%s</text>", originX-6, y+barHeight/2+4, axisColor, template.HTMLEscapeString(trimLabel(labels[i]))))
		b.WriteString(fmt.Sprintf("<text x=\"%.2f\" y=\"%.2f\" fill=\"%s\" font-size=\"10\" text-anchor=\"start\">%s</text>", originX+barLen+4, y+barHeight/2+4, axisColor, template.HTMLEscapeString(formatTick(value))))
	}

	b.WriteString("</svg>")
	return b.String(), nil
}

// GroupedBars renders side-by-side bars per label, one per series. Used for
// the effectiveness view where totals and problem counts sit next to each
// other.
func GroupedBars(width, height int, series [][]float64, labels []string, opts BarOpts) (string, error) {
	if len(series) == 0 {
		return "", fmt.Errorf("svg: at least one series required")
	}
	if len(labels) == 0 {
		return "", fmt.Errorf("svg: labels required")
	}
	for _, s := range series {
		if len(s) != len(labels) {
			return "", fmt.Errorf("svg: series length must match labels")
		}
	}
	width, height, padding, tickCount := barDefaults(width, height, opts)
	axisColor := fallback(opts.AxisColor, "#475569")
	gridColor := fallback(opts.GridColor, "#cbd5f5")

	chartWidth := float64(width) - 2*padding
	chartHeight := float64(height) - 2*padding
	if chartWidth <= 0 || chartHeight <= 0 {
		return "", fmt.Errorf("svg: viewport too small")
	}

	maxVal := 0.0
	for _, s := range series {
		for _, v := range s {
			if v > maxVal {
				maxVal = v
			}
		}
	}
	if almostEqual(maxVal, 0) {
		maxVal = 1
	}
	scale := chartHeight / maxVal

	groupWidth := chartWidth / float64(len(labels))
	barWidth := groupWidth * 0.8 / float64(len(series))

	titleID := makeID(opts.Title, "bar-title")
	descID := makeID(opts.Title, "bar-desc")

	var b strings.Builder
	b.WriteString(fmt.Sprintf("<svg xmlns=\"http://www.w3.org/2000/svg\" viewBox=\"0 0 %d %d\" role=\"img\" aria-labelledby=\"%s %s\">", width, height, titleID, descID))
	b.WriteString(fmt.Sprintf("<title id=\"%s\">%s</title>", titleID, template.HTMLEscapeString(fallback(opts.Title, "Bar chart"))))
	b.WriteString(fmt.Sprintf("<desc id=\"%s\">%s</desc>", descID, template.HTMLEscapeString(fallback(opts.Description, "Grouped bar comparison"))))

	writeTicks(&b, padding, chartWidth, chartHeight, 0, maxVal, tickCount, gridColor, axisColor)
	writeAxes(&b, padding, chartWidth, chartHeight, axisColor)

	for i, label := range labels {
		baseX := padding + float64(i)*groupWidth + groupWidth*0.1
		for si, s := range series {
			barLen := s[i] * scale
			x := baseX + float64(si)*barWidth
			y := padding + chartHeight - barLen
			b.WriteString(fmt.Sprintf("<rect x=\"%.2f\" y=\"%.2f\" width=\"%.2f\" height=\"%.2f\" fill=\"%s\" aria-label=\"%s %s\"></rect>", x, y, barWidth, barLen, seriesColor(opts, si), template.HTMLEscapeString(seriesLabel(opts, si)), template.HTMLEscapeString(label)))
		}
		center := padding + float64(i)*groupWidth + groupWidth/2
		b.WriteString(fmt.Sprintf("<text x=\"%.2f\" y=\"%.2f\" fill=\"%s\" font-size=\"10\" text-anchor=\"middle\">%s</text>", center, padding+chartHeight+14, axisColor, template.HTMLEscapeString(trimLabel(label))))
	}

	writeLegend(&b, padding, len(series), opts, axisColor)
	b.WriteString("</svg>")
	return b.String(), nil
}

func barDefaults(width, height int, opts BarOpts) (int, int, float64, int) {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	padding := opts.Padding
	if padding <= 0 {
		padding = DefaultPadding
	}
	tickCount := opts.TickCount
	if tickCount <= 0 {
		tickCount = DefaultTicks
	}
	return width, height, padding, tickCount
}

func seriesColor(opts BarOpts, i int) string {
	if i < len(opts.Colors) && strings.TrimSpace(opts.Colors[i]) != "" {
		return opts.Colors[i]
	}
	return palette[i%len(palette)]
}

func seriesLabel(opts BarOpts, i int) string {
	if i < len(opts.SeriesLabels) && strings.TrimSpace(opts.SeriesLabels[i]) != "" {
		return opts.SeriesLabels[i]
	}
	return fmt.Sprintf("Serie %d", i+1)
}

func trimLabel(label string) string {
	const maxLen = 14
	runes := []rune(label)
	if len(runes) <= maxLen {
		return label
	}
	return string(runes[:maxLen-1]) + "…"
}

func writeTicks(b *strings.Builder, padding, chartWidth, chartHeight, minVal, maxVal float64, tickCount int, gridColor, axisColor string) {
	for i := 0; i <= tickCount; i++ {
		ratio := float64(i) / float64(tickCount)
		value := minVal + (maxVal-minVal)*ratio
		y := padding + chartHeight - ratio*chartHeight
		b.WriteString(fmt.Sprintf("<line x1=\"%.2f\" y1=\"%.2f\" x2=\"%.2f\" y2=\"%.2f\" stroke=\"%s\" stroke-width=\"0.5\" stroke-dasharray=\"2,4\" aria-hidden=\"true\"></line>", padding, y, padding+chartWidth, y, gridColor))
		b.WriteString(fmt.Sprintf("<text x=\"%.2f\" y=\"%.2f\" fill=\"%s\" font-size=\"10\" text-anchor=\"end\">%s</text>", padding-6, y+4, axisColor, template.HTMLEscapeString(formatTick(value))))
	}
}

func writeAxes(b *strings.Builder, padding, chartWidth, chartHeight float64, axisColor string) {
	b.WriteString(fmt.Sprintf("<g stroke=\"%s\">", axisColor))
	b.WriteString(fmt.Sprintf("<line x1=\"%.2f\" y1=\"%.2f\" x2=\"%.2f\" y2=\"%.2f\" stroke-width=\"1\"></line>", padding, padding, padding, padding+chartHeight))
	b.WriteString(fmt.Sprintf("<line x1=\"%.2f\" y1=\"%.2f\" x2=\"%.2f\" y2=\"%.2f\" stroke-width=\"1\"></line>", padding, padding+chartHeight, padding+chartWidth, padding+chartHeight))
	b.WriteString("</g>")
}

func writeLegend(b *strings.Builder, padding float64, count int, opts BarOpts, axisColor string) {
	legendY := padding - 12
	if legendY < 12 {
		legendY = 12
	}
	legendX := padding
	for i := 0; i < count; i++ {
		b.WriteString(fmt.Sprintf("<rect x=\"%.2f\" y=\"%.2f\" width=\"10\" height=\"10\" fill=\"%s\"></rect>", legendX, legendY-8, seriesColor(opts, i)))
		b.WriteString(fmt.Sprintf("<text x=\"%.2f\" y=\"%.2f\" fill=\"%s\" font-size=\"10\" text-anchor=\"start\">%s</text>", legendX+14, legendY, axisColor, template.HTMLEscapeString(seriesLabel(opts, i))))
		legendX += 110
	}
}
