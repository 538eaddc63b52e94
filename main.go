package main

import "github.com/jsphweid/quint/cmd"

func main() {
	cmd.Execute()
}
