// @title                       Project Requests API
// @version                     1.0
// @description                 Tracks automation and maintenance project requests through review, estimation and execution.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Bearer token issued by the identity service
package main

import (
	"context"
	"os"

	"github.com/automation-hub/project-requests/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
