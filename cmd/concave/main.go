package main

import "github.com/MeKo-Tech/concave/cmd/concave/cmd"

func main() {
	cmd.Execute()
}
