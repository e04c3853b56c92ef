package validators

import (
	"fmt"
	"strings"
	"time"

	"composer2/domain/core/entities"
	pkgerrors "composer2/pkg/errors"
)

// DraftValidator validates draft-related domain rules before a draft
// is handed to the post API
type DraftValidator struct {
	titleMaxLength   int
	contentMaxLength int
	hashtagMaxLength int
	maxMediaItems    int
}

// NewDraftValidator creates a validator with default rules
func NewDraftValidator() *DraftValidator {
	return &DraftValidator{
		titleMaxLength:   200,
		contentMaxLength: 10000,
		hashtagMaxLength: 500,
		maxMediaItems:    10,
	}
}

// ValidateForSave checks everything a draft needs before a save or
// schedule round-trip. The schedule check happens here, locally,
// so a past-dated draft never generates a network call.
func (v *DraftValidator) ValidateForSave(d entities.Draft, now time.Time) error {
	if d.UserID == "" {
		return pkgerrors.NewValidationError("draft has no owner")
	}

	if !d.Status.IsValid() {
		return pkgerrors.NewValidationError(fmt.Sprintf("unknown post status: %q", d.Status))
	}

	if !d.Kind.IsValid() {
		return pkgerrors.NewValidationError(fmt.Sprintf("unknown post kind: %q", d.Kind))
	}

	if d.ScheduleDate.Before(now) {
		return pkgerrors.NewValidationError("schedule date is in the past; pick a future date and time")
	}

	if len(strings.TrimSpace(d.Title)) > v.titleMaxLength {
		return pkgerrors.NewValidationError(fmt.Sprintf("title exceeds %d characters", v.titleMaxLength))
	}

	if len(d.Content) > v.contentMaxLength {
		return pkgerrors.NewValidationError(fmt.Sprintf("content exceeds %d characters", v.contentMaxLength))
	}

	if len(d.Hashtag) > v.hashtagMaxLength {
		return pkgerrors.NewValidationError(fmt.Sprintf("hashtags exceed %d characters", v.hashtagMaxLength))
	}

	if len(d.MediaURLs) > v.maxMediaItems {
		return pkgerrors.NewValidationError(fmt.Sprintf("at most %d media items per post", v.maxMediaItems))
	}

	for _, p := range d.Platforms {
		if !p.IsValid() {
			return pkgerrors.NewValidationError(fmt.Sprintf("unknown platform: %q", p))
		}
	}

	return nil
}
