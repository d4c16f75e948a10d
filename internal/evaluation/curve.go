package evaluation

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"
)

// AccuracyPoint is one step of the replay's accuracy series
type AccuracyPoint struct {
	Time       time.Time `json:"time"`
	Rolling    float64   `json:"rolling"`
	Cumulative float64   `json:"cumulative"`
	Scored     int       `json:"scored"`
}

// AccuracyCurve is a time-ordered series of accuracy points
type AccuracyCurve []AccuracyPoint

// GetDeltas returns step changes in the rolling hit rate
func (c AccuracyCurve) GetDeltas() []float64 {
	if len(c) < 2 {
		return []float64{}
	}
	deltas := make([]float64, 0, len(c)-1)
	for i := 1; i < len(c); i++ {
		deltas = append(deltas, c[i].Rolling-c[i-1].Rolling)
	}
	return deltas
}

// GetVolatility calculates standard deviation of rolling hit rate changes
func (c AccuracyCurve) GetVolatility() float64 {
	return stddev(c.GetDeltas())
}

// FinalCumulative returns the last cumulative hit rate
func (c AccuracyCurve) FinalCumulative() float64 {
	if len(c) == 0 {
		return 0
	}
	return c[len(c)-1].Cumulative
}

// ToCSV exports the accuracy curve to CSV string
func (c AccuracyCurve) ToCSV() string {
	var buf bytes.Buffer
	buf.WriteString("time,rolling,cumulative,scored\n")
	for _, point := range c {
		buf.WriteString(point.Time.Format(time.RFC3339))
		buf.WriteString(",")
		buf.WriteString(formatFloat(point.Rolling))
		buf.WriteString(",")
		buf.WriteString(formatFloat(point.Cumulative))
		buf.WriteString(",")
		buf.WriteString(strconv.Itoa(point.Scored))
		buf.WriteString("\n")
	}
	return buf.String()
}

// ToJSON exports the accuracy curve to JSON string
func (c AccuracyCurve) ToJSON() string {
	data, _ := json.Marshal(c)
	return string(data)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
