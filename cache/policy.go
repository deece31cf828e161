package cache

//go:generate go tool stringer -type=RefreshPolicy -trimprefix=Refresh -output=policy_string.go

// RefreshPolicy decides what happens when an entry outlives its lifespan.
type RefreshPolicy int

const (
	// RefreshNone entries expire and are removed.
	RefreshNone RefreshPolicy = iota
	// RefreshOnRead entries are renewed by their producer on the next read.
	RefreshOnRead
)
