package domain

type User struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Nickname  string `json:"nickname"`
	AvatarURL string `json:"avatarUrl"`
}

// LocalDefaultUserID marks the user fabricated client-side when the
// gateway cannot provide or create one.
const LocalDefaultUserID = "local-default"

func DefaultUser() User {
	return User{
		ID:        LocalDefaultUserID,
		Username:  "爷爷奶奶",
		Nickname:  "默认用户",
		AvatarURL: "/images/user_default.png",
	}
}
