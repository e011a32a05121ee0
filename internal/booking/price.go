package booking

// PriceCalculator maps route-segment length to a per-seat fare.  The
// segment length is the index distance between the departure and
// arrival stations in the route's station sequence; with a valid
// station order it is always at least one hop.  Both constants come
// from configuration, never from process-wide state.
type PriceCalculator struct {
	BasePrice  int64 // flat component of every fare
	PerHopRate int64 // added once per station hop
}

// Price returns the fare for one seat over a segment of the given
// number of station hops.
func (p PriceCalculator) Price(hops int) int64 {
	return p.BasePrice + int64(hops)*p.PerHopRate
}
