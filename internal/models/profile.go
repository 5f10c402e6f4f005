package models

// Profile describes the portfolio owner.
type Profile struct {
	Name  string       `json:"name" yaml:"name"`
	Role  string       `json:"role" yaml:"role"`
	Blurb string       `json:"blurb" yaml:"blurb"`
	Links ProfileLinks `json:"links" yaml:"links"`
}

// ProfileLinks holds the owner's external profiles.
type ProfileLinks struct {
	GitHub   string `json:"github,omitempty" yaml:"github"`
	Resume   string `json:"resume,omitempty" yaml:"resume"`
	LinkedIn string `json:"linkedin,omitempty" yaml:"linkedin"`
}
