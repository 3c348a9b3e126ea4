package service

// French source-withholding neutral rate grid, monthly, metropole 2024.
// The band rate applies to the whole taxable net, it is not marginal.
type band struct {
	upToCents int64 // inclusive upper bound, 0 means no bound
	rate      float64
}

var neutralRateGrid = []band{
	{upToCents: 159_100, rate: 0},
	{upToCents: 165_300, rate: 0.005},
	{upToCents: 175_900, rate: 0.013},
	{upToCents: 187_700, rate: 0.021},
	{upToCents: 200_600, rate: 0.029},
	{upToCents: 211_300, rate: 0.035},
	{upToCents: 225_300, rate: 0.041},
	{upToCents: 266_600, rate: 0.053},
	{upToCents: 315_600, rate: 0.075},
	{upToCents: 438_000, rate: 0.099},
	{upToCents: 568_700, rate: 0.119},
	{upToCents: 820_100, rate: 0.138},
	{upToCents: 1_143_700, rate: 0.158},
	{upToCents: 1_593_100, rate: 0.179},
	{upToCents: 2_451_100, rate: 0.20},
	{upToCents: 5_295_600, rate: 0.24},
	{upToCents: 0, rate: 0.43},
}

func neutralRate(taxableCents int64) float64 {
	for _, b := range neutralRateGrid {
		if b.upToCents == 0 || taxableCents <= b.upToCents {
			return b.rate
		}
	}
	return 0
}
