package stats

// Band classifies a percentage score for display.
type Band int

const (
	BandPoor Band = iota
	BandFair
	BandGood
)

// ScoreBand returns BandGood from 80, BandFair from 60, else BandPoor.
func ScoreBand(score float64) Band {
	switch {
	case score >= 80:
		return BandGood
	case score >= 60:
		return BandFair
	default:
		return BandPoor
	}
}

func (b Band) String() string {
	switch b {
	case BandGood:
		return "good"
	case BandFair:
		return "fair"
	default:
		return "poor"
	}
}
