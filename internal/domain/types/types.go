// Package types contains read shapes shared by the repository, service and API layers.
package types

import "time"

// MinUsersForTop250 is the population at which top-250 badges switch on.
const MinUsersForTop250 = 300

// LeaderboardUser is a persisted leaderboard row.
type LeaderboardUser struct {
	Username      string    `json:"username"`
	TotalSolved   int       `json:"totalSolved"`
	Easy          int       `json:"easy"`
	Medium        int       `json:"medium"`
	Hard          int       `json:"hard"`
	Tier          string    `json:"tier"`
	FirstSeenAt   time.Time `json:"joinedAt"`
	LastUpdatedAt time.Time `json:"-"`
}

// Entry is a ranked leaderboard row.
type Entry struct {
	Rank int `json:"rank"`
	LeaderboardUser
}

// Leaderboard is the response of GET /api/leaderboard.
type Leaderboard struct {
	TotalUsers        int     `json:"totalUsers"`
	MinUsersForTop250 int     `json:"minUsersForTop250"`
	Top250Active      bool    `json:"top250Active"`
	Entries           []Entry `json:"leaderboard"`
}

// TierCount is one row of the tier distribution.
type TierCount struct {
	Tier  string `json:"tier"`
	Count int    `json:"count"`
}

// LeaderboardStats is the response of GET /api/leaderboard/stats.
type LeaderboardStats struct {
	TotalUsers        int         `json:"totalUsers"`
	MinUsersForTop250 int         `json:"minUsersForTop250"`
	Top250Active      bool        `json:"top250Active"`
	UsersNeeded       int         `json:"usersNeeded"`
	TierDistribution  []TierCount `json:"tierDistribution"`
}

// RankInfo is the response of GET /api/leaderboard/rank/{username}. Only
// Found is encoded when the user is not ranked.
type RankInfo struct {
	Found bool `json:"found"`
	*Standing
}

// Standing is a ranked user's position.
type Standing struct {
	Username    string `json:"username"`
	TotalSolved int    `json:"totalSolved"`
	Tier        string `json:"tier"`
	Rank        int    `json:"rank"`
	TotalUsers  int    `json:"totalUsers"`
	IsTop250    bool   `json:"isTop250"`
	IsTop10     bool   `json:"isTop10"`
	Percentile  int    `json:"percentile"`
}

// Top250Active reports whether the population is large enough for badges.
func Top250Active(totalUsers int) bool {
	return totalUsers >= MinUsersForTop250
}

// UsersNeeded returns how many more users are needed to activate badges.
func UsersNeeded(totalUsers int) int {
	return max(0, MinUsersForTop250-totalUsers)
}

// TierInfo is the response of GET /api/tier/{total}.
type TierInfo struct {
	TotalSolved int    `json:"totalSolved"`
	Tier        string `json:"tier"`
	Min         int    `json:"min"`
	Max         *int   `json:"max"`
	NextTier    string `json:"nextTier,omitempty"`
	ToNextTier  int    `json:"toNextTier,omitempty"`
}
