// `MIRROR_LIMIT=2GB go run cmd.go -m push --retry 3 origin a.txt b.txt`
// output:
//	{
//		"Remote": "origin",
//		"Files": [
//			"a.txt",
//			"b.txt"
//		],
//		"Mode": "push",
//		"Retry": 3,
//		"Limit": 2000000000,
//		"Timeout": 30000000000,
//		"Verbosity": 0,
//		"Tags": null,
//		"Debug": false,
//		"Color": true
//	}
//
// `go run cmd.go -h`
// output:
//	mirror files to a remote
//
//	Usage:
//	  mirror <REMOTE> FILE... [flags]
//
//	Flags:
//	  -c, --color               colored output (default true)
//	      --debug               enable debug mode
//	  -h, --help                help for mirror
//	      --limit bytes         transfer limit (default 1.0 GB)
//	  -m, --mode {push,pull}    transfer direction (default "pull")
//	      --retry int           retries per file (default 1)
//	  -t, --tag strings         tag the transfer, repeatable
//	      --timeout duration    per file timeout (default 30s)
//	  -v, --verbosity count     -vvv for more
//	      --version             version for mirror
//
//	files are sent in order
//

package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/zincware/aaargs"
)

type Flag struct {
	aaargs.Meta `arg:"prog:mirror,short:mirror files to a remote,epilog:files are sent in order,version:1.0.0"`

	Remote string   `arg:",help:where files go"`
	Files  []string `arg:",name:file,nargs:+,help:files to send"`
	Transfer
	Verbosity int      `arg:"-v --verbosity,action:count,help:-vvv for more"`
	Tags      []string `arg:"-t --tag,dest:tags,help:tag the transfer\\, repeatable"`
	Debug     bool     `arg:",help:enable debug mode"`
	Color     bool     `arg:"-c --color,action:store_false,help:colored output"`
	NoUse     string   `arg:"-"`
}

type Transfer struct {
	Mode    string        `arg:"-m --mode,choices:push|pull,default:pull,help:transfer direction"`
	Retry   int           `arg:",default:1,help:retries per file,positional:false"`
	Limit   aaargs.Bytes  `arg:",default:1GB,help:transfer limit,positional:false"`
	Timeout time.Duration `arg:",default:30s,help:per file timeout,positional:false"`
}

func (f *Flag) String() string {
	str, _ := json.MarshalIndent(f, "", "\t")
	return string(str)
}

func main() {
	v := aaargs.MustNew[Flag](aaargs.WithEnvPrefix("mirror")).MustParse()
	fmt.Printf("%s\n", v)
}
