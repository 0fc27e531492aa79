package services

// Identity is the principal established by a valid access or refresh token.
type Identity struct {
	UserID uint
}

// Authorize allows the call only when identity owns the resource.
func Authorize(identity Identity, ownerID uint) error {
	if identity.UserID == 0 || identity.UserID != ownerID {
		return ErrForbidden
	}
	return nil
}
