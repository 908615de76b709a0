package main

import "github.com/jsphweid/reducely/cmd"

func main() {
	cmd.Execute()
}
