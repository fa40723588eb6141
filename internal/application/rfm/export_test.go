package rfm

var (
	Quintiles  = quintiles
	TrendLabel = trendLabel
	TrendScore = trendScore
)
