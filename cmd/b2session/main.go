package main

import (
	"context"
	"os"

	"github.com/unkn0wn-root/b2session/cmd/b2session/app"
)

func main() {
	if err := app.Execute(context.Background()); err != nil {
		os.Exit(1)
	}
}
