package main

import "github.com/foodorder/apiserver/cmd"

func main() {
	cmd.Execute()
}
