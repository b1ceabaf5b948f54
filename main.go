package main

import "github.com/bz888/loanchat/cmd"

func main() {
	cmd.Execute()
}
