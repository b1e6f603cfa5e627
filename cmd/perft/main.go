// Command perft counts leaf nodes of the move generation tree, for
// validating the rules engine against known reference values.
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/TR-Jackson/Chess/pkg/chess"
)

var (
	fen    = flag.String("fen", chess.StartposFEN, "position to count from")
	depth  = flag.Int("depth", 4, "search depth in plies")
	divide = flag.Bool("divide", false, "print per-move subtotals")
)

func main() {
	flag.Parse()

	pos, err := chess.ParseFEN(*fen)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bad fen: %v\n", err)
		os.Exit(1)
	}

	start := time.Now()
	var total uint64

	if *divide {
		counts := chess.PerftDivide(&pos, *depth)
		moves := make([]chess.Move, 0, len(counts))
		for m := range counts {
			moves = append(moves, m)
		}
		sort.Slice(moves, func(i, j int) bool { return moves[i].String() < moves[j].String() })
		for _, m := range moves {
			fmt.Printf("%s: %d\n", m, counts[m])
			total += counts[m]
		}
	} else {
		total = chess.Perft(&pos, *depth)
	}

	elapsed := time.Since(start)
	nps := float64(total) / elapsed.Seconds()
	fmt.Printf("perft(%d) = %d in %s (%.0f nodes/s)\n", *depth, total, elapsed.Round(time.Millisecond), nps)
}
