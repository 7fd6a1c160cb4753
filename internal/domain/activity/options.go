package activity

// ListActivityOptions filters an activity listing. Empty filters match
// everything.
type ListActivityOptions struct {
	ProjectID    string
	ActivityType *ActivityType
	Limit        int
	Offset       int
}

// normalized applies DefaultListLimit and clears a negative offset.
func (o ListActivityOptions) normalized() ListActivityOptions {
	if o.Limit <= 0 {
		o.Limit = DefaultListLimit
	}
	if o.Offset < 0 {
		o.Offset = 0
	}
	return o
}
