package service

import "strings"

// GlobalRoomName is the hub room every authenticated user may join.
const GlobalRoomName = "FootySocial Hub"

// TeamNames is the fan room catalog provisioned at startup.
var TeamNames = []string{
	"Arsenal",
	"Aston Villa",
	"Bournemouth",
	"Brentford",
	"Brighton & Hove Albion",
	"Burnley",
	"Chelsea",
	"Crystal Palace",
	"Everton",
	"Fulham",
	"Liverpool",
	"Luton Town",
	"Manchester City",
	"Manchester United",
	"Newcastle United",
	"Nottingham Forest",
	"Sheffield United",
	"Tottenham Hotspur",
	"West Ham United",
	"Wolverhampton Wanderers",
}

// teamAliases maps common short forms to the canonical catalog name. Keys are
// normalized (lowercased, trimmed).
var teamAliases = map[string]string{
	"spurs":           "Tottenham Hotspur",
	"tottenham":       "Tottenham Hotspur",
	"man city":        "Manchester City",
	"city":            "Manchester City",
	"man united":      "Manchester United",
	"man utd":         "Manchester United",
	"united":          "Manchester United",
	"wolves":          "Wolverhampton Wanderers",
	"villa":           "Aston Villa",
	"brighton":        "Brighton & Hove Albion",
	"forest":          "Nottingham Forest",
	"nott'm forest":   "Nottingham Forest",
	"newcastle":       "Newcastle United",
	"west ham":        "West Ham United",
	"sheffield utd":   "Sheffield United",
	"blades":          "Sheffield United",
	"afc bournemouth": "Bournemouth",
	"luton":           "Luton Town",
	"palace":          "Crystal Palace",
	"gunners":         "Arsenal",
}

var canonicalByKey = func() map[string]string {
	m := make(map[string]string, len(TeamNames))
	for _, name := range TeamNames {
		m[normalizeTeam(name)] = name
	}
	return m
}()

func normalizeTeam(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// CanonicalTeam resolves a user-declared team name to its catalog form,
// case/whitespace-insensitively and through known aliases. It returns "" when
// the name matches no club.
func CanonicalTeam(name string) string {
	key := normalizeTeam(name)
	if key == "" {
		return ""
	}
	if canon, ok := teamAliases[key]; ok {
		return canon
	}
	if canon, ok := canonicalByKey[key]; ok {
		return canon
	}
	return ""
}
