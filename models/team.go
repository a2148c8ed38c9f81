package models

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
)

// Team represents an NFL team
type Team struct {
	Abbr    string `json:"abbr"`
	City    string `json:"city"`
	Name    string `json:"name"`
	IconURL string `json:"iconURL"`
}

// String returns a string representation of the team
func (t Team) String() string {
	return t.City + " " + t.Name
}

var nflTeams = map[string]Team{
	"ARI": {Abbr: "ARI", City: "Arizona", Name: "Cardinals"},
	"ATL": {Abbr: "ATL", City: "Atlanta", Name: "Falcons"},
	"BAL": {Abbr: "BAL", City: "Baltimore", Name: "Ravens"},
	"BUF": {Abbr: "BUF", City: "Buffalo", Name: "Bills"},
	"CAR": {Abbr: "CAR", City: "Carolina", Name: "Panthers"},
	"CHI": {Abbr: "CHI", City: "Chicago", Name: "Bears"},
	"CIN": {Abbr: "CIN", City: "Cincinnati", Name: "Bengals"},
	"CLE": {Abbr: "CLE", City: "Cleveland", Name: "Browns"},
	"DAL": {Abbr: "DAL", City: "Dallas", Name: "Cowboys"},
	"DEN": {Abbr: "DEN", City: "Denver", Name: "Broncos"},
	"DET": {Abbr: "DET", City: "Detroit", Name: "Lions"},
	"GB":  {Abbr: "GB", City: "Green Bay", Name: "Packers"},
	"HOU": {Abbr: "HOU", City: "Houston", Name: "Texans"},
	"IND": {Abbr: "IND", City: "Indianapolis", Name: "Colts"},
	"JAX": {Abbr: "JAX", City: "Jacksonville", Name: "Jaguars"},
	"KC":  {Abbr: "KC", City: "Kansas City", Name: "Chiefs"},
	"LA":  {Abbr: "LA", City: "Los Angeles", Name: "Rams"},
	"LAC": {Abbr: "LAC", City: "Los Angeles", Name: "Chargers"},
	"LV":  {Abbr: "LV", City: "Las Vegas", Name: "Raiders"},
	"MIA": {Abbr: "MIA", City: "Miami", Name: "Dolphins"},
	"MIN": {Abbr: "MIN", City: "Minnesota", Name: "Vikings"},
	"NE":  {Abbr: "NE", City: "New England", Name: "Patriots"},
	"NO":  {Abbr: "NO", City: "New Orleans", Name: "Saints"},
	"NYG": {Abbr: "NYG", City: "New York", Name: "Giants"},
	"NYJ": {Abbr: "NYJ", City: "New York", Name: "Jets"},
	"PHI": {Abbr: "PHI", City: "Philadelphia", Name: "Eagles"},
	"PIT": {Abbr: "PIT", City: "Pittsburgh", Name: "Steelers"},
	"SEA": {Abbr: "SEA", City: "Seattle", Name: "Seahawks"},
	"SF":  {Abbr: "SF", City: "San Francisco", Name: "49ers"},
	"TB":  {Abbr: "TB", City: "Tampa Bay", Name: "Buccaneers"},
	"TEN": {Abbr: "TEN", City: "Tennessee", Name: "Titans"},
	"WAS": {Abbr: "WAS", City: "Washington", Name: "Commanders"},
}

// Alternate codes used by scoreboards and older pick sheets
var teamAliases = map[string]string{
	"ARZ": "ARI",
	"BLT": "BAL",
	"CLV": "CLE",
	"HST": "HOU",
	"JAG": "JAX",
	"JAC": "JAX",
	"LAR": "LA",
	"PHL": "PHI",
	"WSH": "WAS",
	"WFT": "WAS",
}

// StandardizeTeam maps a team code (or one of its known aliases) to the
// canonical code. Unknown codes return ErrUnknownTeam.
func StandardizeTeam(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if canonical, ok := teamAliases[code]; ok {
		code = canonical
	}
	if _, ok := nflTeams[code]; !ok {
		return "", errors.Wrapf(ErrUnknownTeam, "team %q", code)
	}
	return code, nil
}

// IsValidTeam reports whether code is a canonical team code
func IsValidTeam(code string) bool {
	_, ok := nflTeams[code]
	return ok
}

// GetTeam returns team metadata for a canonical code
func GetTeam(code string) (Team, bool) {
	team, ok := nflTeams[code]
	if !ok {
		return Team{}, false
	}
	team.IconURL = TeamLogoURL(code)
	return team, true
}

// TeamCodes returns all canonical team codes in alphabetical order
func TeamCodes() []string {
	codes := make([]string, 0, len(nflTeams))
	for code := range nflTeams {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// TeamLogoURL returns the ESPN CDN logo for a team. ESPN still files the
// Rams under "lar" and Washington under "wsh".
func TeamLogoURL(code string) string {
	espnCode := strings.ToLower(code)
	switch code {
	case "LA":
		espnCode = "lar"
	case "WAS":
		espnCode = "wsh"
	}
	return fmt.Sprintf("https://a.espncdn.com/i/teamlogos/nfl/500/%s.png", espnCode)
}
