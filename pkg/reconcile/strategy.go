package reconcile

import (
	"fmt"
	"strings"

	"github.com/agentstation/envsync/pkg/errors"
)

// CommentPolicy decides when a local file's comments replace the template's.
type CommentPolicy string

const (
	// CommentsUnit adopts the local leading and inline comments together, and
	// only when the template entry has no comment of either kind.
	CommentsUnit CommentPolicy = "unit"

	// CommentsField adopts the local leading block and the local inline
	// comment independently, each only when the template lacks that field.
	CommentsField CommentPolicy = "field"
)

// LocalOnlyPolicy decides what happens to keys that exist only in the local file.
type LocalOnlyPolicy string

const (
	// LocalOnlyAppend keeps local-only keys after the template-driven entries.
	LocalOnlyAppend LocalOnlyPolicy = "append"

	// LocalOnlyDrop removes local-only keys from the output.
	LocalOnlyDrop LocalOnlyPolicy = "drop"
)

// String returns the string representation of the policy.
func (p CommentPolicy) String() string {
	return string(p)
}

// IsValid checks if the policy is known.
func (p CommentPolicy) IsValid() bool {
	switch p {
	case CommentsUnit, CommentsField:
		return true
	default:
		return false
	}
}

// String returns the string representation of the policy.
func (p LocalOnlyPolicy) String() string {
	return string(p)
}

// IsValid checks if the policy is known.
func (p LocalOnlyPolicy) IsValid() bool {
	switch p {
	case LocalOnlyAppend, LocalOnlyDrop:
		return true
	default:
		return false
	}
}

// ParseCommentPolicy converts a string to a CommentPolicy with validation.
func ParseCommentPolicy(s string) (CommentPolicy, error) {
	p := CommentPolicy(strings.ToLower(strings.TrimSpace(s)))
	if p == "" {
		return CommentsUnit, nil
	}
	if !p.IsValid() {
		return "", &errors.ValidationError{
			Field:   "comments",
			Value:   s,
			Message: fmt.Sprintf("unknown comment policy %q: must be one of: unit, field", s),
		}
	}
	return p, nil
}

// ParseLocalOnlyPolicy converts a string to a LocalOnlyPolicy with validation.
func ParseLocalOnlyPolicy(s string) (LocalOnlyPolicy, error) {
	p := LocalOnlyPolicy(strings.ToLower(strings.TrimSpace(s)))
	if p == "" {
		return LocalOnlyAppend, nil
	}
	if !p.IsValid() {
		return "", &errors.ValidationError{
			Field:   "local-only",
			Value:   s,
			Message: fmt.Sprintf("unknown local-only policy %q: must be one of: append, drop", s),
		}
	}
	return p, nil
}
