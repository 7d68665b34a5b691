// Command blifcat parses a BLIF netlist and prints a one-line summary
// per model, in the spirit of the teacher's cmd/compile (parse to a
// model) and cmd/score (load and report statistics) tools.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/golang/glog"
	"github.com/kho/easy"

	"github.com/alex-s168/turbo-blif"
)

func main() {
	var args struct {
		File string `name:"file" usage:"BLIF file to parse; '-' or empty for stdin"`
	}
	follow := flag.Bool("search", false, "follow .search directives using the local filesystem")
	gobOut := flag.String("gob", "", "if set, write the parsed AST as gob to this path")
	easy.ParseFlagsAndArgs(&args)

	var result *blif.Blif
	var err error

	switch {
	case *follow && args.File != "" && args.File != "-":
		result, err = blif.ParseMulti(args.File, blif.FileSystemLookup())
	case args.File == "" || args.File == "-":
		result, err = blif.ParseReader("stdin", os.Stdin)
	default:
		f, openErr := easy.Open(args.File)
		if openErr != nil {
			glog.Fatalf("blifcat: %v", openErr)
		}
		defer f.Close()
		result, err = blif.ParseReader(args.File, f)
	}
	if err != nil {
		glog.Fatalf("blifcat: %v", err)
	}

	for _, m := range result.Models {
		gates, ffs, libGates, libFFs, fsms, subs := 0, 0, 0, 0, 0, 0
		for _, c := range m.Commands {
			switch c.Kind {
			case blif.CmdGate:
				gates++
			case blif.CmdFlipFlop:
				ffs++
			case blif.CmdLibGate:
				libGates++
			case blif.CmdLibFlipFlop:
				libFFs++
			case blif.CmdFSM:
				fsms++
			case blif.CmdSubModel:
				subs++
			}
		}
		fmt.Printf("%s: %d gate(s), %d latch(es), %d lib gate(s), %d lib latch(es), %d fsm(s), %d subckt(s)\n",
			m.Meta.Name, gates, ffs, libGates, libFFs, fsms, subs)
	}

	if len(result.Pending()) > 0 {
		glog.Warningf("blifcat: %d unresolved .search path(s): %v", len(result.Pending()), result.Pending())
	}

	if *gobOut != "" {
		w := easy.MustCreate(*gobOut)
		defer w.Close()
		if err := result.WriteGob(w); err != nil {
			glog.Fatalf("blifcat: %v", err)
		}
	}
}
