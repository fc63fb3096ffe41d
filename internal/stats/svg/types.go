package svg

// LineOpts customises the daily-series line chart.
type LineOpts struct {
	Title       string
	Description string
	StrokeColor string
	FillColor   string
	AxisColor   string
	GridColor   string
	Padding     float64
	ShowDots    bool
	TickCount   int
}

// BarOpts customises the bar chart renderers.
type BarOpts struct {
	Title        string
	Description  string
	SeriesLabels []string
	Colors       []string
	AxisColor    string
	GridColor    string
	Padding      float64
	TickCount    int
}

// Defaults for the report charts.
const (
	DefaultWidth   = 720
	DefaultHeight  = 240
	DefaultPadding = 24.0
	DefaultTicks   = 6
)

// palette is cycled when BarOpts.Colors runs short.
var palette = []string{"#0ea5e9", "#f97316", "#22c55e", "#a855f7", "#ef4444"}
