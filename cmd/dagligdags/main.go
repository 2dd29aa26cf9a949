package main

import "github.com/dagligdags/backend/internal/cli"

func main() {
	cli.Execute()
}
