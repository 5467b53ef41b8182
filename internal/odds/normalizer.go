// Package odds normalizes bookmaker prices: many books' quotes reduce to one
// consensus price pair, American prices convert to implied probabilities, and
// the bookmaker margin is removed to produce fair probabilities.
package odds

import (
	"math"
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/gridiron-edge/internal/models"
)

// Normalizer reduces raw market quotes to consensus prices and fair
// probabilities. When preferred books are configured, the first preferred book
// quoting both sides of a market wins; otherwise the per-side median across
// all books is used, medians being robust to a single book's outlier line.
type Normalizer struct {
	preferredBooks []string
	logger         *logrus.Logger
}

// NewNormalizer creates a normalizer. An empty preferred list means pure
// median consensus.
func NewNormalizer(preferredBooks []string, logger *logrus.Logger) *Normalizer {
	if logger == nil {
		logger = logrus.New()
	}
	return &Normalizer{preferredBooks: preferredBooks, logger: logger}
}

// Consensus reduces all quotes for one market of one game to a single price
// pair. A side no book quoted stays nil; nil is never collapsed to zero, since
// an American price of 0 is meaningless.
func (n *Normalizer) Consensus(quotes []models.MarketQuote) models.ConsensusQuote {
	out := models.ConsensusQuote{Book: "consensus"}
	if len(quotes) == 0 {
		return out
	}
	out.GameKey = quotes[0].GameKey
	out.MarketType = quotes[0].MarketType

	if quotes[0].MarketType == models.MarketTypeSpread {
		quotes = closestToZeroCluster(quotes)
	}

	if preferred := n.preferredQuote(quotes); preferred != nil {
		return *preferred
	}

	var homePrices, awayPrices, homePoints []float64
	for i := range quotes {
		q := &quotes[i]
		switch q.Side {
		case models.SideHome:
			homePrices = append(homePrices, q.Price)
			if q.Point != nil {
				homePoints = append(homePoints, *q.Point)
			}
		case models.SideAway:
			awayPrices = append(awayPrices, q.Price)
		}
	}

	if v, ok := median(homePrices); ok {
		out.HomePrice = &v
	}
	if v, ok := median(awayPrices); ok {
		out.AwayPrice = &v
	}
	if v, ok := median(homePoints); ok {
		out.HomePoint = &v
	}
	return out
}

// preferredQuote returns the first preferred book's quote pair when that book
// priced both sides, else nil.
func (n *Normalizer) preferredQuote(quotes []models.MarketQuote) *models.ConsensusQuote {
	for _, book := range n.preferredBooks {
		var home, away *models.MarketQuote
		for i := range quotes {
			if quotes[i].Book != book {
				continue
			}
			switch quotes[i].Side {
			case models.SideHome:
				home = &quotes[i]
			case models.SideAway:
				away = &quotes[i]
			}
		}
		if home != nil && away != nil {
			out := models.ConsensusQuote{
				GameKey:    home.GameKey,
				MarketType: home.MarketType,
				HomePrice:  &home.Price,
				AwayPrice:  &away.Price,
				HomePoint:  home.Point,
				Book:       book,
			}
			return &out
		}
	}
	return nil
}

// closestToZeroCluster restricts spread quotes to the books whose home line is
// nearest pick'em, the most comparable cluster across books.
func closestToZeroCluster(quotes []models.MarketQuote) []models.MarketQuote {
	minAbs := math.Inf(1)
	for i := range quotes {
		if quotes[i].Side == models.SideHome && quotes[i].Point != nil {
			if abs := math.Abs(*quotes[i].Point); abs < minAbs {
				minAbs = abs
			}
		}
	}
	if math.IsInf(minAbs, 1) {
		return quotes
	}

	books := map[string]struct{}{}
	for i := range quotes {
		if quotes[i].Side == models.SideHome && quotes[i].Point != nil && math.Abs(*quotes[i].Point) == minAbs {
			books[quotes[i].Book] = struct{}{}
		}
	}

	clustered := make([]models.MarketQuote, 0, len(quotes))
	for i := range quotes {
		if _, ok := books[quotes[i].Book]; ok {
			clustered = append(clustered, quotes[i])
		}
	}
	return clustered
}

// PriceToProb converts an American price to its implied probability.
func PriceToProb(price float64) float64 {
	if price >= 0 {
		return 100.0 / (price + 100.0)
	}
	return -price / (-price + 100.0)
}

// PriceToProbPtr is the nil-propagating form: a nil price yields a nil
// probability, never zero.
func PriceToProbPtr(price *float64) *float64 {
	if price == nil {
		return nil
	}
	p := PriceToProb(*price)
	return &p
}

// RemoveVig rescales two raw implied probabilities for complementary outcomes
// so they sum to one. Undefined (nil, nil) when either input is nil or the sum
// is non-positive. Already-fair inputs pass through unchanged.
func RemoveVig(probA, probB *float64) (*float64, *float64) {
	if probA == nil || probB == nil {
		return nil, nil
	}
	total := *probA + *probB
	if total <= 0 {
		return nil, nil
	}
	fairA := *probA / total
	fairB := *probB / total
	return &fairA, &fairB
}

// FairProbs converts a consensus quote into vig-removed probabilities for the
// home and away sides. Nil prices propagate as nil probabilities.
func (n *Normalizer) FairProbs(quote models.ConsensusQuote) (*float64, *float64) {
	return RemoveVig(PriceToProbPtr(quote.HomePrice), PriceToProbPtr(quote.AwayPrice))
}

// median returns the middle value (mean of middle pair for even counts).
func median(vals []float64) (float64, bool) {
	if len(vals) == 0 {
		return 0, false
	}
	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid], true
	}
	return (sorted[mid-1] + sorted[mid]) / 2.0, true
}
