package helpers

import (
	"fmt"

	"github.com/yigit/mentormatch/internal/app/models"
)

const placeholderImageURL = "https://placehold.co/500x500.jpg?text=%s"

// PlaceholderImageURL returns the generic avatar shown for role
func PlaceholderImageURL(role models.RoleType) string {
	return fmt.Sprintf(placeholderImageURL, role.Label())
}

// ProfileImageURL returns the public URL of user's profile image, falling
// back to the role placeholder when no image was uploaded.
func ProfileImageURL(user *models.User) string {
	if user.HasImage() {
		return fmt.Sprintf("/images/%s/%d", user.Role, user.ID)
	}
	return PlaceholderImageURL(user.Role)
}
