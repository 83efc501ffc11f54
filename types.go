package corpus

import "github.com/garethredfern/redfern-dev-sub002/content"

// Series and Navigation are defined alongside the article model; aliased here
// so callers of the index API stay within one package.
type (
	Series     = content.Series
	Navigation = content.Navigation
)
