package main

import (
	"fmt"
	"os"

	"github.com/ocfkit/svcagent"
)

func main() {
	root, exit := buildRoot()
	if err := root.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(int(svcagent.GenericError))
	}
	os.Exit(*exit)
}
