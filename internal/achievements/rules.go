// Package achievements holds the achievement catalog and the threshold rules evaluated against a
// user's activity snapshot.
package achievements

import "github.com/anonto42/discgolf/backend/internal/models"

// Snapshot is the set of activity counters a rule can look at. It is computed fresh for every evaluation.
type Snapshot struct {
	RoundsPlayed          int64 `json:"rounds_played"`
	DistinctCoursesPlayed int64 `json:"distinct_courses_played"`
	AcceptedFriendships   int64 `json:"accepted_friendships"`
	CompletedGoals        int64 `json:"completed_goals"`
}

// Rule maps one catalog definition to the predicate that unlocks it
type Rule struct {
	Definition models.AchievementDefinition
	Met        func(Snapshot) bool
}

// Key is the definition name the award is stored under
func (r Rule) Key() string { return r.Definition.Name }

const (
	FirstRound   = "First Round"
	CenturyClub  = "Century Club"
	CourseMaster = "Course Master"
	SocialPlayer = "Social Player"
	GoalSetter   = "Goal Setter"
)

var rules = []Rule{
	{
		Definition: models.AchievementDefinition{
			Name:         FirstRound,
			Description:  "Complete your first round of disc golf.",
			Category:     "rounds",
			CriteriaText: "Complete 1 round",
			Points:       10,
			Icon:         "flag",
		},
		Met: func(s Snapshot) bool { return s.RoundsPlayed >= 1 },
	},
	{
		Definition: models.AchievementDefinition{
			Name:         CenturyClub,
			Description:  "Complete 100 rounds.",
			Category:     "rounds",
			CriteriaText: "Complete 100 rounds",
			Points:       100,
			Icon:         "trophy",
		},
		Met: func(s Snapshot) bool { return s.RoundsPlayed >= 100 },
	},
	{
		Definition: models.AchievementDefinition{
			Name:         CourseMaster,
			Description:  "Play rounds on 10 different courses.",
			Category:     "exploration",
			CriteriaText: "Complete rounds on 10 distinct courses",
			Points:       50,
			Icon:         "map",
		},
		Met: func(s Snapshot) bool { return s.DistinctCoursesPlayed >= 10 },
	},
	{
		Definition: models.AchievementDefinition{
			Name:         SocialPlayer,
			Description:  "Make 5 friends.",
			Category:     "social",
			CriteriaText: "Have 5 accepted friendships",
			Points:       25,
			Icon:         "users",
		},
		Met: func(s Snapshot) bool { return s.AcceptedFriendships >= 5 },
	},
	{
		Definition: models.AchievementDefinition{
			Name:         GoalSetter,
			Description:  "Complete your first goal.",
			Category:     "goals",
			CriteriaText: "Complete 1 goal",
			Points:       15,
			Icon:         "target",
		},
		Met: func(s Snapshot) bool { return s.CompletedGoals >= 1 },
	},
}

// Rules returns the rule table in evaluation order
func Rules() []Rule {
	out := make([]Rule, len(rules))
	copy(out, rules)
	return out
}

// Catalog returns the definitions to seed, in rule order
func Catalog() []models.AchievementDefinition {
	defs := make([]models.AchievementDefinition, 0, len(rules))
	for _, r := range rules {
		defs = append(defs, r.Definition)
	}
	return defs
}

// Satisfied returns the rules whose predicate holds for s, in table order
func Satisfied(s Snapshot) []Rule {
	var met []Rule
	for _, r := range rules {
		if r.Met(s) {
			met = append(met, r)
		}
	}
	return met
}

// MetricValue reads the snapshot counter a goal metric tracks. ok is false for unknown metrics.
func (s Snapshot) MetricValue(metric string) (value int64, ok bool) {
	switch metric {
	case models.GoalMetricRoundsPlayed:
		return s.RoundsPlayed, true
	case models.GoalMetricCoursesPlayed:
		return s.DistinctCoursesPlayed, true
	case models.GoalMetricFriends:
		return s.AcceptedFriendships, true
	}
	return 0, false
}
