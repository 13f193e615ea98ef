package main

import (
	"github.com/kintrospect/kintrospect/cmd"
)

func main() {
	cmd.Execute()
}
