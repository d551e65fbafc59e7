package overlay

// LegendEntry is one row of the static legend.
type LegendEntry struct {
	Symbol string `json:"symbol" yaml:"symbol"`
	Color  string `json:"color" yaml:"color"`
	Label  string `json:"label" yaml:"label"`
}

// Legend returns one entry per overlay, in control order: a square swatch for
// area styles and a dot for point styles.
func Legend() []LegendEntry {
	configs := Configs()
	entries := make([]LegendEntry, 0, len(configs))
	for _, c := range configs {
		e := LegendEntry{Label: c.LegendLabel}
		switch s := c.Style.(type) {
		case AreaStyle:
			e.Symbol, e.Color = "■", s.Color
		case PointStyle:
			e.Symbol, e.Color = "●", s.FillColor
		}
		entries = append(entries, e)
	}
	return entries
}
