package props

import (
	"math"
	"sort"
)

// Market keys supported by the built-in registry
const (
	MarketHits        = "hits"
	MarketHomeRuns    = "home_runs"
	MarketRBIs        = "rbis"
	MarketTotalBases  = "total_bases"
	MarketRuns        = "runs"
	MarketStrikeouts  = "strikeouts"
	MarketStolenBases = "stolen_bases"
	MarketWalks       = "walks"
)

// Field synonyms in lookup priority order. Upstream providers disagree on
// naming, so each market accepts every spelling seen in ingested data.
var (
	hitFields        = []string{"hits", "total_hits", "h"}
	homeRunFields    = []string{"home_runs", "hr", "homeruns", "homers"}
	rbiFields        = []string{"rbis", "rbi", "runs_batted_in"}
	totalBaseFields  = []string{"total_bases", "tb", "bases"}
	runFields        = []string{"runs", "runs_scored", "r"}
	strikeoutFields  = []string{"strikeouts", "so", "k", "ks", "pitcher_strikeouts"}
	stolenBaseFields = []string{"stolen_bases", "sb", "steals"}
	walkFields       = []string{"walks", "bb", "base_on_balls"}
)

// MarketRule maps one betting market onto the stat fields that can produce
// its per-game value. AcceptedFields is tried in priority order; fallback
// runs only when none of them carry a usable value.
type MarketRule struct {
	Key            string
	AcceptedFields []string
	fallback       func(fields map[string]float64) (float64, bool)
}

// Registry resolves market keys to their extraction rules
type Registry struct {
	rules map[string]MarketRule
}

// NewRegistry builds the built-in market registry using the given parameters
// for the fallback estimators. A nil params uses the defaults.
func NewRegistry(params *Params) *Registry {
	if params == nil {
		params = DefaultParams()
	}

	r := &Registry{rules: make(map[string]MarketRule)}

	r.register(MarketRule{Key: MarketHits, AcceptedFields: hitFields})
	r.register(MarketRule{Key: MarketHomeRuns, AcceptedFields: homeRunFields})
	r.register(MarketRule{
		Key:            MarketRBIs,
		AcceptedFields: rbiFields,
		// Heuristic estimate from hits and home runs, not a box-score
		// reconstruction. Accuracy against real RBI data is unvalidated.
		fallback: func(fields map[string]float64) (float64, bool) {
			hits, hitsOK := lookupAny(fields, hitFields)
			homeRuns, hrOK := lookupAny(fields, homeRunFields)
			if !hitsOK && !hrOK {
				return 0, false
			}
			return hits*params.RBIPerHit + homeRuns, true
		},
	})
	r.register(MarketRule{
		Key:            MarketTotalBases,
		AcceptedFields: totalBaseFields,
		// Same caveat as the RBI estimate.
		fallback: func(fields map[string]float64) (float64, bool) {
			hits, hitsOK := lookupAny(fields, hitFields)
			homeRuns, hrOK := lookupAny(fields, homeRunFields)
			if !hitsOK && !hrOK {
				return 0, false
			}
			return hits*params.TotalBasesPerHit + homeRuns*params.TotalBasesPerHomeRun, true
		},
	})
	r.register(MarketRule{Key: MarketRuns, AcceptedFields: runFields})
	r.register(MarketRule{Key: MarketStrikeouts, AcceptedFields: strikeoutFields})
	r.register(MarketRule{Key: MarketStolenBases, AcceptedFields: stolenBaseFields})
	r.register(MarketRule{Key: MarketWalks, AcceptedFields: walkFields})

	return r
}

func (r *Registry) register(rule MarketRule) {
	r.rules[rule.Key] = rule
}

// Supports reports whether a rule exists for the given market key
func (r *Registry) Supports(marketKey string) bool {
	_, ok := r.rules[marketKey]
	return ok
}

// Markets returns the supported market keys in sorted order
func (r *Registry) Markets() []string {
	keys := make([]string, 0, len(r.rules))
	for key := range r.rules {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Extract produces the per-game prop value for a market from a raw stat bag.
// It tries each accepted field name in priority order, then the market's
// fallback estimator. A missing rule returns UnsupportedMarketError; a record
// that cannot yield a value returns ErrValueUnavailable so the caller can
// exclude it from aggregation rather than coercing it to zero.
func (r *Registry) Extract(marketKey string, fields map[string]float64) (float64, error) {
	rule, ok := r.rules[marketKey]
	if !ok {
		return 0, NewUnsupportedMarketError(marketKey)
	}

	if v, ok := lookupAny(fields, rule.AcceptedFields); ok {
		return v, nil
	}

	if rule.fallback != nil {
		if v, ok := rule.fallback(fields); ok {
			return v, nil
		}
	}

	return 0, ErrValueUnavailable
}

// lookupAny returns the first finite value found under any of the given
// field names
func lookupAny(fields map[string]float64, names []string) (float64, bool) {
	for _, name := range names {
		if v, ok := fields[name]; ok && isFinite(v) {
			return v, true
		}
	}
	return 0, false
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
