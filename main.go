package main

import "github.com/koki-develop/resizer/cmd"

func main() {
	cmd.Execute()
}
