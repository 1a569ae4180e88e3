package main

import "github.com/dropmount/dropmount/cmd/dropmount/cmd"

func main() {
	cmd.Execute()
}
