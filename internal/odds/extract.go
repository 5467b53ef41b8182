package odds

import (
	"time"

	"github.com/yourusername/gridiron-edge/internal/models"
	"github.com/yourusername/gridiron-edge/internal/teams"
)

// Odds API payload shapes. One event per game, a nested collection of
// bookmakers, each carrying one or more markets with per-side outcomes.
type (
	// Event is one game's odds across all books.
	Event struct {
		ID         string      `json:"id"`
		HomeTeam   string      `json:"home_team"`
		AwayTeam   string      `json:"away_team"`
		CommenceAt time.Time   `json:"commence_time"`
		Bookmakers []Bookmaker `json:"bookmakers"`
	}

	// Bookmaker is one book's markets for an event.
	Bookmaker struct {
		Key     string   `json:"key"`
		Markets []Market `json:"markets"`
	}

	// Market is one market type; "h2h" is moneyline, "spreads" is point spread.
	Market struct {
		Key      string    `json:"key"`
		Outcomes []Outcome `json:"outcomes"`
	}

	// Outcome is one side's price. Point is present for spread markets.
	Outcome struct {
		Name  string   `json:"name"`
		Price float64  `json:"price"`
		Point *float64 `json:"point"`
	}
)

const (
	marketKeyMoneyline = "h2h"
	marketKeySpreads   = "spreads"
)

// Matchup builds the join key used to align odds events with schedule rows,
// since odds feeds carry no season or week.
func Matchup(home, away string) string {
	return away + "@" + home
}

// ExtractQuotes flattens odds events into per-book, per-side market quotes
// with canonical team codes. Events with unresolvable teams are dropped and
// counted by the resolver rather than failing the batch.
func ExtractQuotes(events []Event, resolver *teams.Resolver) []models.MarketQuote {
	now := time.Now().UTC()
	var quotes []models.MarketQuote

	for i := range events {
		ev := &events[i]
		home, away, ok := resolver.ResolvePair(ev.HomeTeam, ev.AwayTeam)
		if !ok {
			continue
		}
		key := Matchup(home, away)

		for _, book := range ev.Bookmakers {
			for _, market := range book.Markets {
				var marketType models.MarketType
				switch market.Key {
				case marketKeyMoneyline:
					marketType = models.MarketTypeMoneyline
				case marketKeySpreads:
					marketType = models.MarketTypeSpread
				default:
					continue
				}

				for _, outcome := range market.Outcomes {
					team, ok := resolver.Resolve(outcome.Name)
					if !ok {
						continue
					}
					var side models.Side
					switch team {
					case home:
						side = models.SideHome
					case away:
						side = models.SideAway
					default:
						continue
					}
					quotes = append(quotes, models.MarketQuote{
						GameKey:    key,
						Book:       book.Key,
						MarketType: marketType,
						Side:       side,
						Price:      outcome.Price,
						Point:      outcome.Point,
						FetchedAt:  now,
					})
				}
			}
		}
	}
	return quotes
}

// GroupQuotes splits a flat quote list by (game, market type) so each group
// can be reduced to one consensus quote.
func GroupQuotes(quotes []models.MarketQuote) map[string]map[models.MarketType][]models.MarketQuote {
	grouped := map[string]map[models.MarketType][]models.MarketQuote{}
	for _, q := range quotes {
		byMarket, ok := grouped[q.GameKey]
		if !ok {
			byMarket = map[models.MarketType][]models.MarketQuote{}
			grouped[q.GameKey] = byMarket
		}
		byMarket[q.MarketType] = append(byMarket[q.MarketType], q)
	}
	return grouped
}

// ConsensusByGame extracts and reduces events to one moneyline consensus quote
// per matchup, carrying the canonical team codes forward.
func (n *Normalizer) ConsensusByGame(events []Event, resolver *teams.Resolver) map[string]models.ConsensusQuote {
	quotes := ExtractQuotes(events, resolver)
	grouped := GroupQuotes(quotes)

	out := make(map[string]models.ConsensusQuote, len(grouped))
	for i := range events {
		ev := &events[i]
		home, away, ok := resolver.ResolvePair(ev.HomeTeam, ev.AwayTeam)
		if !ok {
			continue
		}
		key := Matchup(home, away)
		byMarket, ok := grouped[key]
		if !ok {
			continue
		}
		moneylines, ok := byMarket[models.MarketTypeMoneyline]
		if !ok {
			continue
		}
		consensus := n.Consensus(moneylines)
		consensus.HomeTeam = home
		consensus.AwayTeam = away
		out[key] = consensus
	}
	return out
}
