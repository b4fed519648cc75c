package enums

// QueryStatus tracks whether a customer query has been answered.
type QueryStatus string

const (
	QueryStatusPending   QueryStatus = "pending"
	QueryStatusResponded QueryStatus = "responded"
)

// String implements fmt.Stringer.
func (s QueryStatus) String() string {
	return string(s)
}

// IsValid reports whether the status is recognized.
func (s QueryStatus) IsValid() bool {
	return s == QueryStatusPending || s == QueryStatusResponded
}
