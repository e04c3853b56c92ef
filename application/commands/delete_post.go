package commands

import (
	"fmt"

	"composer2/domain/core/valueobjects"
)

// DeletePostCommand removes a persisted post. A command with an empty
// PostID is a deliberate no-op: a draft that never reached the backend
// has nothing to delete.
type DeletePostCommand struct {
	UserID string
	PostID string

	// Window is the calendar period to resynchronize after the delete.
	Window valueobjects.PeriodWindow
}

// Validate implements the Command interface
func (c DeletePostCommand) Validate() error {
	if c.UserID == "" {
		return fmt.Errorf("user ID is required")
	}
	return nil
}
