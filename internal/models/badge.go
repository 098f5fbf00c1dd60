package models

// Badge is a login-streak achievement referenced by value into User.Badges.
type Badge struct {
	ID          string `json:"id" bson:"id"`
	Name        string `json:"name" bson:"name"`
	Description string `json:"description" bson:"description"`
	Icon        string `json:"icon" bson:"icon"`
}

// Static badge catalog ids.
const (
	BadgeStreak3 = "badge-1"
	BadgeStreak7 = "badge-2"
)

// BadgeCatalog returns the static badge reference data.
func BadgeCatalog() []Badge {
	return []Badge{
		{ID: BadgeStreak3, Name: "Consistent Learner", Description: "Logged in for 3 consecutive days.", Icon: "🥉"},
		{ID: BadgeStreak7, Name: "Dedicated Student", Description: "Logged in for 7 consecutive days.", Icon: "🏆"},
	}
}
