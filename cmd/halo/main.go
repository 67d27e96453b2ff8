// Command halo validates WGSL fragment shaders and renders them live.
package main

import (
	"errors"
	"fmt"
	"os"

	_ "github.com/gogpu/wgpu/hal/allbackends"
)

func main() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, errInvalid) {
			fmt.Fprintln(os.Stderr, "halo:", err)
		}
		os.Exit(1)
	}
}
