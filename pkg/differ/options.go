package differ

// Option is a functional option for configuring Differ
type Option func(*differ)

// WithRedactedValues replaces non-empty values in the changeset with a
// placeholder so reports never print secrets.
func WithRedactedValues(enabled bool) Option {
	return func(d *differ) {
		d.redact = enabled
	}
}

// WithCommentComparison enables/disables reporting of comment changes.
// With comparison disabled, only values, key order and blank lines count.
func WithCommentComparison(enabled bool) Option {
	return func(d *differ) {
		d.comments = enabled
	}
}
