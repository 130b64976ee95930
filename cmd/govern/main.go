package main

import (
	"boscoin.io/govern/cmd/govern/cmd"
)

func main() {
	cmd.Execute()
}
