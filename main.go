package main

import "github.com/khrees2412/predicta/cmd"

func main() {
	cmd.Execute()
}
