package props

import "strings"

// Matchup names the two sides of a scheduled game
type Matchup struct {
	Home string
	Away string
}

// ContextResolver fills in opponent and home/away for records whose upstream
// source did not deliver authoritative event data. It is the aggregator's
// only variation point: swap the resolver, not the aggregation logic.
type ContextResolver interface {
	Resolve(record RawGameStat) (opponent string, isHome *bool)
}

// ScheduleContextResolver resolves game context from known matchups keyed by
// game id. Team names from different providers rarely agree exactly, so sides
// are matched by case-insensitive substring comparison. A record whose team
// matches neither side resolves to nothing and the aggregator applies its
// away default.
type ScheduleContextResolver struct {
	matchups map[string]Matchup
}

// NewScheduleContextResolver creates a resolver over the given matchups
func NewScheduleContextResolver(matchups map[string]Matchup) *ScheduleContextResolver {
	return &ScheduleContextResolver{matchups: matchups}
}

// Resolve looks up the record's game and determines which side the record's
// team was on
func (r *ScheduleContextResolver) Resolve(record RawGameStat) (string, *bool) {
	matchup, ok := r.matchups[record.GameID]
	if !ok {
		return "", nil
	}

	if TeamMatches(record.Team, matchup.Home) {
		isHome := true
		return matchup.Away, &isHome
	}
	if TeamMatches(record.Team, matchup.Away) {
		isHome := false
		return matchup.Home, &isHome
	}

	return "", nil
}

// StaticContextResolver trusts whatever the record already carries and never
// supplies anything. Used when no schedule data is available.
type StaticContextResolver struct{}

// NewStaticContextResolver creates a pass-through resolver
func NewStaticContextResolver() *StaticContextResolver {
	return &StaticContextResolver{}
}

// Resolve returns nothing; the record's own fields stand
func (r *StaticContextResolver) Resolve(record RawGameStat) (string, *bool) {
	return "", nil
}

// TeamMatches compares two team identifiers with case-insensitive
// bidirectional substring matching, so "Yankees" and "New York Yankees"
// style mismatches across providers still line up. Empty strings never match.
func TeamMatches(a, b string) bool {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}
