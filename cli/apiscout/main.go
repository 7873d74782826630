package main

import (
	"os"

	apiscoutcmder "github.com/driftwoodlabs/apiscout/cmd/apiscout"
)

func main() {
	cmd := apiscoutcmder.NewApiscoutCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
