package identity

type User struct {
	Id          string `json:"id" msgpack:"id"`
	Username    string `json:"username" msgpack:"username"`
	DisplayName string `json:"display_name" msgpack:"display_name"`
	Avatar      string `json:"avatar,omitempty" msgpack:"avatar,omitempty"`
}

// Viewer is the identity acting on a comment section. The zero value is an
// anonymous (logged-out) viewer.
type Viewer struct {
	User User
}

func (v Viewer) Authenticated() bool {
	return v.User.Id != ""
}
