package figure

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Tick is a numeric axis tick.
type Tick struct {
	Value float64 `yaml:"value"`
	Label string  `yaml:"label"`
}

// TimeTick is a time axis tick.
type TimeTick struct {
	Time  time.Time `yaml:"time"`
	Label string    `yaml:"label"`
}

// TickFormat selects a tick label formatter.
type TickFormat string

const (
	FormatThousands TickFormat = "thousands"
	FormatPlain     TickFormat = "plain"
	FormatPercent   TickFormat = "percent"
)

// ParseTickFormat accepts the formatter names; empty means plain.
func ParseTickFormat(s string) (TickFormat, error) {
	switch TickFormat(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatPlain:
		return FormatPlain, nil
	case FormatThousands:
		return FormatThousands, nil
	case FormatPercent:
		return FormatPercent, nil
	default:
		return "", fmt.Errorf("unknown tick format %q", s)
	}
}

// Thousands formats v as "Nk" when v >= 1000 (N is the integer part of v/1000) and as the
// integer part of v otherwise: 45000 -> "45k", 1500 -> "1k", 500 -> "500".
func Thousands(v float64) string {
	if v >= 1000 {
		return strconv.Itoa(int(v/1000)) + "k"
	}
	return strconv.Itoa(int(v))
}

// Compact formats v with fewer decimals as it grows.
func Compact(v float64) string {
	if v == 0 {
		return "0"
	}
	av := math.Abs(v)
	switch {
	case av >= 100:
		return strconv.FormatFloat(math.Round(v), 'f', 0, 64)
	case av >= 10:
		return trimZeros(strconv.FormatFloat(v, 'f', 1, 64))
	default:
		return trimZeros(strconv.FormatFloat(v, 'f', 2, 64))
	}
}

func trimZeros(s string) string {
	if !strings.Contains(s, ".") {
		return s
	}
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

// FormatTick formats v with the selected formatter.
func FormatTick(f TickFormat, v float64) string {
	switch f {
	case FormatThousands:
		return Thousands(v)
	case FormatPercent:
		return Compact(v) + "%"
	default:
		return Compact(v)
	}
}

// FixedTicks returns ticks min, min+step, ... up to and including max.
func FixedTicks(min, max, step float64, f TickFormat) []Tick {
	if step <= 0 || max < min || math.IsNaN(min) || math.IsNaN(max) {
		return nil
	}
	n := int(math.Floor((max-min)/step+1e-9)) + 1
	out := make([]Tick, 0, n)
	for i := 0; i < n; i++ {
		v := round6(min + float64(i)*step)
		out = append(out, Tick{Value: v, Label: FormatTick(f, v)})
	}
	return out
}

// NiceBounds expands [min,max] by 5% and rounds outwards to the order of magnitude of the span.
func NiceBounds(min, max float64) (float64, float64) {
	if math.IsNaN(min) || math.IsNaN(max) {
		return min, max
	}
	if max <= min {
		max = min + 1
	}
	span := max - min
	pad := span * 0.05
	a := min - pad
	b := max + pad
	mag := math.Pow(10, math.Floor(math.Log10(span)))
	if !math.IsInf(mag, 0) && mag > 0 {
		a = math.Floor(a/mag) * mag
		b = math.Ceil(b/mag) * mag
	}
	return a, b
}

// NiceTicks picks about n ticks with a 1, 2, 2.5 or 5 ×10^k step covering [min,max]. It
// returns the axis range the ticks span. With anchorZero and non-negative data the range
// starts at 0.
func NiceTicks(min, max float64, n int, anchorZero bool, f TickFormat) (float64, float64, []Tick) {
	if n < 2 || math.IsNaN(min) || math.IsNaN(max) {
		return min, max, nil
	}
	if anchorZero && min >= 0 {
		min = 0
	}
	if max <= min {
		max = min + 1
	}
	span := max - min
	mag := math.Pow(10, math.Floor(math.Log10(span/float64(n-1))))
	bestStep := mag
	bestScore := math.MaxFloat64
	for _, c := range []float64{1, 2, 2.5, 5, 10} {
		step := c * mag
		count := math.Ceil(span/step) + 1
		if score := math.Abs(count - float64(n)); score < bestScore {
			bestScore = score
			bestStep = step
		}
	}
	start := math.Floor(min/bestStep) * bestStep
	end := math.Ceil(max/bestStep) * bestStep
	return start, end, FixedTicks(start, end, bestStep, f)
}

func round6(v float64) float64 { return math.Round(v*1e6) / 1e6 }

// timeStep is a calendar step for a time axis.
type timeStep struct {
	months int
	format string
}

// pickTimeStep selects a readable calendar step for a span.
func pickTimeStep(span time.Duration) timeStep {
	const year = 365 * 24 * time.Hour
	switch {
	case span <= 180*24*time.Hour:
		return timeStep{months: 1, format: "Jan 2006"}
	case span <= 2*year:
		return timeStep{months: 3, format: "Jan 2006"}
	case span <= 6*year:
		return timeStep{months: 12, format: "2006"}
	case span <= 15*year:
		return timeStep{months: 24, format: "2006"}
	case span <= 40*year:
		return timeStep{months: 60, format: "2006"}
	default:
		return timeStep{months: 120, format: "2006"}
	}
}

// TimeTicks returns calendar-aligned ticks inside [min,max]. Yearly steps land on years
// divisible by the step; sub-yearly steps on month starts. At most 20 ticks are produced.
func TimeTicks(min, max time.Time) []TimeTick {
	if max.Before(min) {
		min, max = max, min
	}
	st := pickTimeStep(max.Sub(min))
	min, max = min.UTC(), max.UTC()
	var t time.Time
	if st.months >= 12 {
		years := st.months / 12
		y := min.Year()
		if r := y % years; r != 0 {
			y += years - r
		}
		t = time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC)
		if t.Before(min) {
			t = t.AddDate(years, 0, 0)
		}
	} else {
		t = time.Date(min.Year(), min.Month(), 1, 0, 0, 0, 0, time.UTC)
		for m := int(t.Month()) - 1; m%st.months != 0; m = int(t.Month()) - 1 {
			t = t.AddDate(0, 1, 0)
		}
		if t.Before(min) {
			t = t.AddDate(0, st.months, 0)
		}
	}
	var out []TimeTick
	for ; !t.After(max); t = t.AddDate(0, st.months, 0) {
		out = append(out, TimeTick{Time: t, Label: t.Format(st.format)})
		if len(out) >= 20 {
			break
		}
	}
	return out
}

// Period is the granularity used to label a timestamp.
type Period string

const (
	PeriodDay     Period = "day"
	PeriodMonth   Period = "month"
	PeriodQuarter Period = "quarter"
	PeriodYear    Period = "year"
)

// ParsePeriod accepts the period names; empty means day.
func ParsePeriod(s string) (Period, error) {
	switch Period(strings.ToLower(strings.TrimSpace(s))) {
	case "", PeriodDay:
		return PeriodDay, nil
	case PeriodMonth:
		return PeriodMonth, nil
	case PeriodQuarter:
		return PeriodQuarter, nil
	case PeriodYear:
		return PeriodYear, nil
	default:
		return "", fmt.Errorf("unknown period %q", s)
	}
}

// PeriodLabel formats t at the period's granularity: "2022 Q2", "Jan 2022", "2022", "2022-01-02".
func PeriodLabel(t time.Time, p Period) string {
	switch p {
	case PeriodQuarter:
		return fmt.Sprintf("%d Q%d", t.Year(), (int(t.Month())-1)/3+1)
	case PeriodMonth:
		return t.Format("Jan 2006")
	case PeriodYear:
		return t.Format("2006")
	default:
		return t.Format("2006-01-02")
	}
}
