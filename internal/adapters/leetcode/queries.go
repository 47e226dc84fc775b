package leetcode

import "encoding/json"

const profileQuery = `
query getUserProfile($username: String!) {
  matchedUser(username: $username) {
    username
    submitStats {
      acSubmissionNum {
        difficulty
        count
      }
    }
  }
}`

const recentSubmissionsQuery = `
query recentAcSubmissions($username: String!, $limit: Int!) {
  recentSubmissionList(username: $username, limit: $limit) {
    title
    titleSlug
    timestamp
    statusDisplay
    lang
  }
}`

const tagStatsQuery = `
query skillStats($username: String!) {
  matchedUser(username: $username) {
    tagProblemCounts {
      advanced { tagName tagSlug problemsSolved }
      intermediate { tagName tagSlug problemsSolved }
      fundamental { tagName tagSlug problemsSolved }
    }
  }
}`

type gqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type gqlResponse struct {
	Data   json.RawMessage  `json:"data"`
	Errors []map[string]any `json:"errors"`
}

type profileData struct {
	MatchedUser *struct {
		Username    string `json:"username"`
		SubmitStats struct {
			AcSubmissionNum []struct {
				Difficulty string `json:"difficulty"`
				Count      int    `json:"count"`
			} `json:"acSubmissionNum"`
		} `json:"submitStats"`
	} `json:"matchedUser"`
}

type recentData struct {
	RecentSubmissionList []struct {
		Title         string `json:"title"`
		TitleSlug     string `json:"titleSlug"`
		Timestamp     string `json:"timestamp"`
		StatusDisplay string `json:"statusDisplay"`
		Lang          string `json:"lang"`
	} `json:"recentSubmissionList"`
}

type tagCount struct {
	TagName        string `json:"tagName"`
	TagSlug        string `json:"tagSlug"`
	ProblemsSolved *int   `json:"problemsSolved"`
}

type tagData struct {
	MatchedUser *struct {
		TagProblemCounts *struct {
			Advanced     []tagCount `json:"advanced"`
			Intermediate []tagCount `json:"intermediate"`
			Fundamental  []tagCount `json:"fundamental"`
		} `json:"tagProblemCounts"`
	} `json:"matchedUser"`
}
