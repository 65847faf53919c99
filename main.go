package main

import (
	"os"

	"github.com/jonesrussell/north-cloud/reviews/cmd"
	"github.com/jonesrussell/north-cloud/reviews/cmd/common"
)

func main() {
	if err := cmd.Execute(); err != nil {
		common.PrintErrorf("Error: %v", err)
		os.Exit(1)
	}
}
