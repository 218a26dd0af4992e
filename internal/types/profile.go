package types

// ProfileUpdate holds the profile fields a user may change. Nil fields are left as is.
type ProfileUpdate struct {
	Bio      *string
	Location *string
	Picture  *Upload
}
