package commands

import (
	"fmt"
	"time"

	"composer2/domain/core/entities"
)

// Patch commands update a single composer field. The set of commands
// is closed: every editable field has its own type, so an unknown
// field cannot be smuggled in through a string key. Platform
// selection deliberately has no patch command; platforms are chosen
// at save time through the full draft.

// PatchCommand is implemented by every field patch
type PatchCommand interface {
	Validate() error

	// User returns the owning user.
	User() string

	// Apply writes the field into a draft copy.
	Apply(d *entities.Draft)
}

// PatchPostKindCommand changes the content format (post, story, reel)
type PatchPostKindCommand struct {
	UserID string
	Kind   entities.PostKind
}

// Validate implements the Command interface
func (c PatchPostKindCommand) Validate() error {
	if c.UserID == "" {
		return fmt.Errorf("user ID is required")
	}
	if !c.Kind.IsValid() {
		return fmt.Errorf("invalid post kind: %q", c.Kind)
	}
	return nil
}

// User implements PatchCommand
func (c PatchPostKindCommand) User() string { return c.UserID }

// Apply implements PatchCommand
func (c PatchPostKindCommand) Apply(d *entities.Draft) { d.Kind = c.Kind }

// PatchScheduleCommand changes the schedule date
type PatchScheduleCommand struct {
	UserID       string
	ScheduleDate time.Time
}

// Validate implements the Command interface
func (c PatchScheduleCommand) Validate() error {
	if c.UserID == "" {
		return fmt.Errorf("user ID is required")
	}
	if c.ScheduleDate.IsZero() {
		return fmt.Errorf("schedule date is required")
	}
	return nil
}

// User implements PatchCommand
func (c PatchScheduleCommand) User() string { return c.UserID }

// Apply implements PatchCommand
func (c PatchScheduleCommand) Apply(d *entities.Draft) { d.ScheduleDate = c.ScheduleDate }

// PatchMediaCommand replaces the attached media set
type PatchMediaCommand struct {
	UserID    string
	MediaURLs []string
}

// Validate implements the Command interface
func (c PatchMediaCommand) Validate() error {
	if c.UserID == "" {
		return fmt.Errorf("user ID is required")
	}
	return nil
}

// User implements PatchCommand
func (c PatchMediaCommand) User() string { return c.UserID }

// Apply implements PatchCommand
func (c PatchMediaCommand) Apply(d *entities.Draft) {
	d.MediaURLs = append([]string{}, c.MediaURLs...)
}

// PatchLocationCommand sets platform location tags. A nil field leaves
// the existing value untouched.
type PatchLocationCommand struct {
	UserID              string
	InstagramLocationID *string
	FacebookLocationID  *string
}

// Validate implements the Command interface
func (c PatchLocationCommand) Validate() error {
	if c.UserID == "" {
		return fmt.Errorf("user ID is required")
	}
	if c.InstagramLocationID == nil && c.FacebookLocationID == nil {
		return fmt.Errorf("at least one location field is required")
	}
	return nil
}

// User implements PatchCommand
func (c PatchLocationCommand) User() string { return c.UserID }

// Apply implements PatchCommand
func (c PatchLocationCommand) Apply(d *entities.Draft) {
	if c.InstagramLocationID != nil {
		d.InstagramLocationID = *c.InstagramLocationID
	}
	if c.FacebookLocationID != nil {
		d.FacebookLocationID = *c.FacebookLocationID
	}
}
