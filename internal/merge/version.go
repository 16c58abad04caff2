package merge

// Semantic versions of each merger's field policy. Bumping one invalidates
// every cached result that transitively depends on it, because the composed
// version strings below feed the result-cache key.
const (
	weatherPolicy  = "w1"
	addressPolicy  = "a2"
	venuePolicy    = "v2"
	personPolicy   = "c2"
	playerPolicy   = "p1"
	teamPolicy     = "t3"
	mediaPolicy    = "m1"
	dividendPolicy = "d1"
	gamePolicy     = "g4"
)

// WeatherVersion is the weather merger's policy version.
func WeatherVersion() string { return weatherPolicy }

// AddressVersion covers the address policy and its nested weather policy.
func AddressVersion() string { return addressPolicy + "." + WeatherVersion() }

// VenueVersion covers the venue policy and its nested address policy.
func VenueVersion() string { return venuePolicy + "." + AddressVersion() }

// PersonVersion covers coach/umpire/owner merging and nested addresses.
func PersonVersion() string { return personPolicy + "." + AddressVersion() }

// PlayerVersion is the player merger's policy version.
func PlayerVersion() string { return playerPolicy }

// TeamVersion covers team merging and everything nested under a team.
func TeamVersion() string {
	return teamPolicy + "." + PlayerVersion() + "." + PersonVersion()
}

// GameVersion covers the whole merge graph rooted at a game. This is the
// string the orchestrator mixes into merge-group cache keys.
func GameVersion() string {
	return gamePolicy + "." + dividendPolicy + "." + mediaPolicy + "." +
		TeamVersion() + "." + VenueVersion() + "." + PersonVersion()
}
