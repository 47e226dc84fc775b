package repository

import (
	"context"
	"hash/fnv"
	"math"
	"sync"

	"github.com/devakmmm/LeetInsight/internal/domain/tier"
	"github.com/devakmmm/LeetInsight/internal/domain/types"
	"github.com/devakmmm/LeetInsight/pkg/metrics"
)

// Treap-based, in-memory rank index over leaderboard rows.
//
// Ordering: total DESC, then username ASC (deterministic).
// "less" means ranks earlier, so in-order traversal yields the leaderboard
// from best to worst. Every node carries its subtree size, which makes
// "how many users solved strictly more" an O(log n) walk.

type node struct {
	username string
	total    int
	prio     uint64
	left     *node
	right    *node
	size     int
}

func nsize(n *node) int {
	if n == nil {
		return 0
	}
	return n.size
}

func fix(n *node) {
	if n != nil {
		n.size = 1 + nsize(n.left) + nsize(n.right)
	}
}

// less returns true if (aTotal, aName) should appear before (bTotal, bName).
func less(aTotal int, aName string, bTotal int, bName string) bool {
	if aTotal != bTotal {
		return aTotal > bTotal
	}
	return aName < bName
}

func rotateRight(y *node) *node {
	x := y.left
	y.left = x.right
	x.right = y
	fix(y)
	fix(x)
	return x
}

func rotateLeft(x *node) *node {
	y := x.right
	x.right = y.left
	y.left = x
	fix(x)
	fix(y)
	return y
}

// priorityOf hashes the username so the tree shape does not depend on
// insertion order or totals.
func priorityOf(username string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(username))
	return h.Sum64()
}

func insert(n *node, username string, total int) *node {
	if n == nil {
		return &node{username: username, total: total, prio: priorityOf(username), size: 1}
	}
	if less(total, username, n.total, n.username) {
		n.left = insert(n.left, username, total)
		if n.left.prio > n.prio {
			n = rotateRight(n)
		}
	} else {
		n.right = insert(n.right, username, total)
		if n.right.prio > n.prio {
			n = rotateLeft(n)
		}
	}
	fix(n)
	return n
}

func deleteNode(n *node, username string, total int) *node {
	if n == nil {
		return nil
	}
	switch {
	case total == n.total && username == n.username:
		if n.left == nil {
			return n.right
		}
		if n.right == nil {
			return n.left
		}
		if n.left.prio > n.right.prio {
			n = rotateRight(n)
			n.right = deleteNode(n.right, username, total)
		} else {
			n = rotateLeft(n)
			n.left = deleteNode(n.left, username, total)
		}
	case less(total, username, n.total, n.username):
		n.left = deleteNode(n.left, username, total)
	default:
		n.right = deleteNode(n.right, username, total)
	}
	fix(n)
	return n
}

// countGreater returns the number of nodes whose total is strictly above total.
func countGreater(n *node, total int) int {
	count := 0
	for n != nil {
		if n.total > total {
			count += 1 + nsize(n.left)
			n = n.right
		} else {
			n = n.left
		}
	}
	return count
}

// collectTopN appends up to limit rows in rank order.
func collectTopN(n *node, limit int, rows map[string]types.LeaderboardUser, out *[]types.Entry) {
	if n == nil || len(*out) >= limit {
		return
	}
	collectTopN(n.left, limit, rows, out)
	if len(*out) < limit {
		if row, ok := rows[n.username]; ok {
			*out = append(*out, types.Entry{Rank: len(*out) + 1, LeaderboardUser: row})
		}
	}
	if len(*out) < limit {
		collectTopN(n.right, limit, rows, out)
	}
}

// RankIndex mirrors leaderboard_users in memory for ranking queries.
type RankIndex struct {
	mu     sync.RWMutex
	root   *node
	byName map[string]types.LeaderboardUser
	tiers  map[string]int
}

// NewRankIndex creates an empty index.
func NewRankIndex() *RankIndex {
	return &RankIndex{
		byName: make(map[string]types.LeaderboardUser),
		tiers:  make(map[string]int),
	}
}

// Load replaces the index contents with rows from the store.
func (r *RankIndex) Load(ctx context.Context, src LeaderboardStore) error {
	rows, err := src.LeaderboardUsers(ctx)
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.root = nil
	r.byName = make(map[string]types.LeaderboardUser, len(rows))
	r.tiers = make(map[string]int)
	for _, row := range rows {
		r.upsertLocked(row)
	}
	n := len(r.byName)
	r.mu.Unlock()

	metrics.UpdateLeaderboardUsers(n)
	return nil
}

// Upsert inserts or repositions a row in O(log n) expected time. A row whose
// LastUpdatedAt is older than the indexed one is ignored and Upsert reports
// false.
func (r *RankIndex) Upsert(row types.LeaderboardUser) bool {
	r.mu.Lock()
	applied := r.upsertLocked(row)
	n := len(r.byName)
	r.mu.Unlock()

	metrics.UpdateLeaderboardUsers(n)
	return applied
}

func (r *RankIndex) upsertLocked(row types.LeaderboardUser) bool {
	if old, ok := r.byName[row.Username]; ok {
		if !row.LastUpdatedAt.IsZero() && row.LastUpdatedAt.Before(old.LastUpdatedAt) {
			return false
		}
		r.root = deleteNode(r.root, old.Username, old.TotalSolved)
		r.tiers[old.Tier]--
		if row.FirstSeenAt.IsZero() {
			row.FirstSeenAt = old.FirstSeenAt
		}
	}
	if row.Tier == "" {
		row.Tier = tier.Classify(row.TotalSolved)
	}
	r.byName[row.Username] = row
	r.tiers[row.Tier]++
	r.root = insert(r.root, row.Username, row.TotalSolved)
	return true
}

// Count returns the number of ranked users.
func (r *RankIndex) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byName)
}

// TopN returns the first n rows, ranked by position starting at 1.
func (r *RankIndex) TopN(n int) ([]types.Entry, error) {
	if n < 1 {
		metrics.RecordErrorByComponent("repository", "invalid_limit")
		return nil, ErrInvalidLimit
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]types.Entry, 0, min(n, len(r.byName)))
	collectTopN(r.root, n, r.byName, &out)
	return out, nil
}

// Rank returns the user's standing. Users with equal totals share a rank:
// rank is one plus the number of users who solved strictly more.
func (r *RankIndex) Rank(username string) types.RankInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	row, ok := r.byName[username]
	if !ok {
		return types.RankInfo{Found: false}
	}

	total := len(r.byName)
	rank := 1 + countGreater(r.root, row.TotalSolved)
	active := types.Top250Active(total)

	return types.RankInfo{
		Found: true,
		Standing: &types.Standing{
			Username:    row.Username,
			TotalSolved: row.TotalSolved,
			Tier:        row.Tier,
			Rank:        rank,
			TotalUsers:  total,
			IsTop250:    active && rank <= 250,
			IsTop10:     active && rank <= 10,
			Percentile:  int(math.Round((1 - float64(rank)/float64(total)) * 100)),
		},
	}
}

// TierDistribution returns non-empty tiers, highest tier first.
func (r *RankIndex) TierDistribution() []types.TierCount {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]types.TierCount, 0, len(r.tiers))
	for _, name := range tier.Names() {
		if c := r.tiers[name]; c > 0 {
			out = append(out, types.TierCount{Tier: name, Count: c})
		}
	}
	return out
}
