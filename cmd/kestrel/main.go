package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/kestrelchess/kestrel/pkg/engine"
	"github.com/kestrelchess/kestrel/pkg/engine/uci"
	"github.com/seekerror/logw"
)

var (
	depth    = flag.Uint("depth", 0, "Search depth limit, in plies (zero for no limit)")
	hash     = flag.Uint("hash", 64, "Transposition table size, in MB")
	noise    = flag.Uint("noise", 10, "Evaluation noise, in millipawns (zero if deterministic)")
	contempt = flag.Int("contempt", 0, "Draw contempt, in centipawns")
)

func init() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, `usage: kestrel [options]

KESTREL is a UCI chess engine.
Options:
`)
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()
	ctx := context.Background()

	e := engine.New(ctx, "kestrel", "kestrel contributors", engine.WithOptions(engine.Options{
		Depth:    *depth,
		Hash:     *hash,
		Noise:    *noise,
		Contempt: *contempt,
	}))

	in := engine.ReadStdinLines(ctx)
	switch <-in {
	case uci.ProtocolName:
		driver, out := uci.NewDriver(ctx, e, in)
		go engine.WriteStdoutLines(ctx, out)

		<-driver.Closed()

	default:
		flag.Usage()
		logw.Exitf(ctx, "Protocol not supported")
	}
}
