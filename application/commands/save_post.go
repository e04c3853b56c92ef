package commands

import (
	"fmt"

	"composer2/domain/core/entities"
	"composer2/domain/core/valueobjects"
)

// SavePostCommand commits the live draft to the post API. An empty
// draft identity means create; otherwise the existing post is updated.
// Status carries the target publication state the composer chose
// (save as draft, or schedule).
type SavePostCommand struct {
	UserID string
	Status entities.PostStatus

	// Window is the calendar period the dashboard currently displays.
	// When set, the cached lists for that window are resynchronized
	// after a successful save.
	Window valueobjects.PeriodWindow
}

// Validate implements the Command interface
func (c SavePostCommand) Validate() error {
	if c.UserID == "" {
		return fmt.Errorf("user ID is required")
	}
	if !c.Status.IsValid() {
		return fmt.Errorf("invalid post status: %q", c.Status)
	}
	if c.Status == entities.StatusPublic {
		return fmt.Errorf("posts cannot be saved directly as public")
	}
	return nil
}
