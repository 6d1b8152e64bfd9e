package entity

// Principal is the authenticated actor as reported by the identity provider.
type Principal struct {
	ID           string  `json:"id"`
	FullName     string  `json:"full_name,omitempty"`
	FirstName    string  `json:"first_name,omitempty"`
	AvatarURL    *string `json:"avatar_url,omitempty"`
	PrimaryEmail *string `json:"primary_email,omitempty"`
}

// DisplayName picks full name, then first name, then "Anonymous".
func (p Principal) DisplayName() string {
	if p.FullName != "" {
		return p.FullName
	}
	if p.FirstName != "" {
		return p.FirstName
	}
	return "Anonymous"
}
