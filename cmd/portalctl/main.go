package main

import (
	"context"
	"os"

	"github.com/dmitrijs2005/estateportal/internal/cli"
)

func main() {
	os.Exit(cli.Main(context.Background()))
}
