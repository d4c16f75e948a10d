// Package roster resolves athlete identity queries against stored rosters.
package roster

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalizer canonicalizes athlete and team names from various sources
type Normalizer struct {
	teamNameMap map[string]string // Maps provider team names to canonical names
}

// NewNormalizer creates a new name normalizer
func NewNormalizer() *Normalizer {
	return &Normalizer{
		teamNameMap: buildTeamNameMap(),
	}
}

// NormalizeAthleteName canonicalizes an athlete display name. "Last, First"
// orderings are flipped, periods in initials dropped, diacritics folded and
// whitespace collapsed.
func (n *Normalizer) NormalizeAthleteName(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ""
	}

	// Flip "Judge, Aaron" into "Aaron Judge"
	if comma := strings.Index(trimmed, ","); comma >= 0 {
		last := strings.TrimSpace(trimmed[:comma])
		first := strings.TrimSpace(trimmed[comma+1:])
		trimmed = first + " " + last
	}

	trimmed = strings.ReplaceAll(trimmed, ".", "")
	trimmed = foldDiacritics(trimmed)

	return titleCase(trimmed)
}

// foldDiacritics strips combining marks so "Acuña" matches "Acuna"
func foldDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return folded
}

// NormalizeTeam converts provider-specific team names to canonical format
func (n *Normalizer) NormalizeTeam(team string) string {
	if team == "" {
		return ""
	}

	// Try exact match first
	if canonical, ok := n.teamNameMap[strings.ToUpper(strings.TrimSpace(team))]; ok {
		return canonical
	}

	// Return normalized version (title case)
	return titleCase(team)
}

// titleCase lowercases the input, collapses whitespace and capitalizes each word
func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// buildTeamNameMap returns mapping of team name variations to canonical names
func buildTeamNameMap() map[string]string {
	return map[string]string{
		// AL East
		"NYY":                  "New York Yankees",
		"YANKEES":              "New York Yankees",
		"NEW YORK YANKEES":     "New York Yankees",
		"BOS":                  "Boston Red Sox",
		"RED SOX":              "Boston Red Sox",
		"BOSTON RED SOX":       "Boston Red Sox",
		"TB":                   "Tampa Bay Rays",
		"TBR":                  "Tampa Bay Rays",
		"RAYS":                 "Tampa Bay Rays",
		"TAMPA BAY RAYS":       "Tampa Bay Rays",
		"TOR":                  "Toronto Blue Jays",
		"BLUE JAYS":            "Toronto Blue Jays",
		"TORONTO BLUE JAYS":    "Toronto Blue Jays",
		"BAL":                  "Baltimore Orioles",
		"ORIOLES":              "Baltimore Orioles",
		"BALTIMORE ORIOLES":    "Baltimore Orioles",
		// AL Central
		"CLE":                  "Cleveland Guardians",
		"GUARDIANS":            "Cleveland Guardians",
		"CLEVELAND GUARDIANS":  "Cleveland Guardians",
		"MIN":                  "Minnesota Twins",
		"TWINS":                "Minnesota Twins",
		"MINNESOTA TWINS":      "Minnesota Twins",
		"DET":                  "Detroit Tigers",
		"TIGERS":               "Detroit Tigers",
		"DETROIT TIGERS":       "Detroit Tigers",
		"KC":                   "Kansas City Royals",
		"KCR":                  "Kansas City Royals",
		"ROYALS":               "Kansas City Royals",
		"KANSAS CITY ROYALS":   "Kansas City Royals",
		"CWS":                  "Chicago White Sox",
		"CHW":                  "Chicago White Sox",
		"WHITE SOX":            "Chicago White Sox",
		"CHICAGO WHITE SOX":    "Chicago White Sox",
		// AL West
		"HOU":                  "Houston Astros",
		"ASTROS":               "Houston Astros",
		"HOUSTON ASTROS":       "Houston Astros",
		"SEA":                  "Seattle Mariners",
		"MARINERS":             "Seattle Mariners",
		"SEATTLE MARINERS":     "Seattle Mariners",
		"TEX":                  "Texas Rangers",
		"RANGERS":              "Texas Rangers",
		"TEXAS RANGERS":        "Texas Rangers",
		"LAA":                  "Los Angeles Angels",
		"ANGELS":               "Los Angeles Angels",
		"LOS ANGELES ANGELS":   "Los Angeles Angels",
		"ATH":                  "Athletics",
		"OAK":                  "Athletics",
		"ATHLETICS":            "Athletics",
		// NL East
		"ATL":                  "Atlanta Braves",
		"BRAVES":               "Atlanta Braves",
		"ATLANTA BRAVES":       "Atlanta Braves",
		"PHI":                  "Philadelphia Phillies",
		"PHILLIES":             "Philadelphia Phillies",
		"PHILADELPHIA PHILLIES": "Philadelphia Phillies",
		"NYM":                  "New York Mets",
		"METS":                 "New York Mets",
		"NEW YORK METS":        "New York Mets",
		"MIA":                  "Miami Marlins",
		"MARLINS":              "Miami Marlins",
		"MIAMI MARLINS":        "Miami Marlins",
		"WSH":                  "Washington Nationals",
		"WAS":                  "Washington Nationals",
		"NATIONALS":            "Washington Nationals",
		"WASHINGTON NATIONALS": "Washington Nationals",
		// NL Central
		"MIL":                  "Milwaukee Brewers",
		"BREWERS":              "Milwaukee Brewers",
		"MILWAUKEE BREWERS":    "Milwaukee Brewers",
		"CHC":                  "Chicago Cubs",
		"CUBS":                 "Chicago Cubs",
		"CHICAGO CUBS":         "Chicago Cubs",
		"STL":                  "St. Louis Cardinals",
		"CARDINALS":            "St. Louis Cardinals",
		"ST. LOUIS CARDINALS":  "St. Louis Cardinals",
		"ST LOUIS CARDINALS":   "St. Louis Cardinals",
		"CIN":                  "Cincinnati Reds",
		"REDS":                 "Cincinnati Reds",
		"CINCINNATI REDS":      "Cincinnati Reds",
		"PIT":                  "Pittsburgh Pirates",
		"PIRATES":              "Pittsburgh Pirates",
		"PITTSBURGH PIRATES":   "Pittsburgh Pirates",
		// NL West
		"LAD":                  "Los Angeles Dodgers",
		"DODGERS":              "Los Angeles Dodgers",
		"LOS ANGELES DODGERS":  "Los Angeles Dodgers",
		"SD":                   "San Diego Padres",
		"SDP":                  "San Diego Padres",
		"PADRES":               "San Diego Padres",
		"SAN DIEGO PADRES":     "San Diego Padres",
		"SF":                   "San Francisco Giants",
		"SFG":                  "San Francisco Giants",
		"GIANTS":               "San Francisco Giants",
		"SAN FRANCISCO GIANTS": "San Francisco Giants",
		"ARI":                  "Arizona Diamondbacks",
		"AZ":                   "Arizona Diamondbacks",
		"DIAMONDBACKS":         "Arizona Diamondbacks",
		"DBACKS":               "Arizona Diamondbacks",
		"ARIZONA DIAMONDBACKS": "Arizona Diamondbacks",
		"COL":                  "Colorado Rockies",
		"ROCKIES":              "Colorado Rockies",
		"COLORADO ROCKIES":     "Colorado Rockies",
	}
}
