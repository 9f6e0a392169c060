//go:build release

package global

import "fmt"

var MAJOR = 0
var MINOR = 1
var PATCH = 0

var Version = fmt.Sprintf("%d.%d.%d", MAJOR, MINOR, PATCH)

const Dev = false
