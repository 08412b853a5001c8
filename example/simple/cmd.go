package main

import (
	"fmt"

	"github.com/zincware/aaargs"
)

type Config struct {
	Filename string `arg:",help:file to greet"`
	Name     string `arg:"-N --name,default:default name,help:your name"`
	Age      int    `arg:"-A --age,default:18,help:your age"`
	Verbose  bool   `arg:"-v --verbose,help:say more"`
}

// main.go
// `go run cmd.go -h`
// output:
// Usage:
//	cmd <FILENAME> [flags]
//
// Flags:
//	-A, --age int       your age (default 18)
//	-h, --help          help for cmd
//	-N, --name string   your name (default "default name")
//	-v, --verbose       say more
//
// `go run cmd.go notes.txt --age 133`
// output: main.Config{Filename:"notes.txt", Name:"default name", Age:133, Verbose:false}
//

func main() {
	cfg := aaargs.MustNew[Config]().MustParse()
	fmt.Printf("%#v\n", *cfg)
}
