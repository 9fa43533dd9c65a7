package main

import "github.com/textlift/textlift/cmd/textlift/cmd"

func main() {
	cmd.Execute()
}
