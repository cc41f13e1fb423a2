package checklist

import "time"

// timeNow is a package-level variable for testability.
// Tests can replace this to stamp events deterministically.
var timeNow = time.Now
