package main

import (
	"context"

	"github.com/deppfellow/dytool-backend/cmd/dytool/commands"
)

func main() {
	commands.ExecuteContext(context.Background())
}
