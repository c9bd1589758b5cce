package universe

import (
	"errors"
	"time"
)

var errEmptyAsset = errors.New("asset identifier cannot be empty")

// Universe returns the tradeable assets at an instant
type Universe interface {
	Assets(t time.Time) []string
}

// Static is a fixed list of assets, tradeable at every instant
type Static struct {
	assets []string
}

// Dynamic holds assets which enter the universe at their own start date
// and never leave it
type Dynamic struct {
	starts map[string]time.Time
}
