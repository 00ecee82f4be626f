package ote

// Subset of the OTE chart-data payload we care about. The endpoint feeds
// the public market charts, prices sit in the data line whose tooltip is
// "Price".
type chartData struct {
	Axis  axisData   `json:"axis"`
	Data  dataLines  `json:"data"`
	Graph chartGraph `json:"graph"`
}

type axisData struct {
	X axisDef `json:"x"`
	Y axisDef `json:"y"`
}

type axisDef struct {
	Decimals int    `json:"decimals"`
	Legend   string `json:"legend"`
	Step     int    `json:"step"`
}

type chartGraph struct {
	Title string `json:"title"`
}

type dataLines struct {
	DataLine []dataLine `json:"dataLine"`
}

type dataLine struct {
	Title   string      `json:"title"`
	Tooltip string      `json:"tooltip"`
	Type    string      `json:"type"`
	Point   []dataPoint `json:"point"`
}

type dataPoint struct {
	X string  `json:"x"`
	Y float64 `json:"y"`
}
