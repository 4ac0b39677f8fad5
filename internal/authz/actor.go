package authz

// Actor is the identity performing an operation. A nil *Actor means the
// request is anonymous.
type Actor struct {
	ID          uint
	Username    string
	Email       string
	DisplayName string
	IsSuperuser bool
}

// Label returns the name to display for the actor.
func (a *Actor) Label() string {
	if a == nil {
		return ""
	}
	if a.DisplayName != "" {
		return a.DisplayName
	}
	return a.Username
}
