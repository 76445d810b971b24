// guardian-hub is the control plane of the guardian predictive
// maintenance service.
package main

import (
	"os"

	_ "go.uber.org/automaxprocs"

	"github.com/guardian-io/guardian/cmd/guardian-hub/app"
)

func main() {
	if err := app.NewHubCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
