// Package all imports all backends implemented by the input package.
package all

import (
	_ "github.com/noriah/bowlgate/input/parec"
	_ "github.com/noriah/bowlgate/input/stdinput"
)
