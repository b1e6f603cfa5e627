// Command play runs a terminal game against the engine: the human enters
// moves in coordinate notation, the engine answers with a background search.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/muesli/termenv"
	"github.com/rs/zerolog"

	"github.com/TR-Jackson/Chess/pkg/chess"
	"github.com/TR-Jackson/Chess/pkg/mcts"
)

var (
	fen         = flag.String("fen", chess.StartposFEN, "starting position")
	movetime    = flag.Int("movetime", 3000, "engine thinking time in milliseconds")
	rolloutPly  = flag.Int("rollout-depth", mcts.DefaultRolloutDepth, "rollout ply cutoff")
	exploration = flag.Float64("exploration", mcts.ExplorationParam, "UCT exploration constant")
	playBlack   = flag.Bool("black", false, "play the black pieces")
	verbose     = flag.Bool("verbose", false, "log engine internals")
)

var pieceGlyphs = map[chess.Piece]string{
	chess.Pawn: "P", chess.Knight: "N", chess.Bishop: "B",
	chess.Rook: "R", chess.Queen: "Q", chess.King: "K",
	-chess.Pawn: "p", -chess.Knight: "n", -chess.Bishop: "b",
	-chess.Rook: "r", -chess.Queen: "q", -chess.King: "k",
}

func printBoard(out *termenv.Output, pos *chess.Position) {
	light := out.Color("180")
	dark := out.Color("94")
	whitePiece := out.Color("15")
	blackPiece := out.Color("0")

	for rank := int8(7); rank >= 0; rank-- {
		fmt.Printf("%d ", rank+1)
		for file := int8(0); file < 8; file++ {
			sq := chess.SquareAt(file, rank)
			pc := pos.Squares[sq]

			cell := " " + pieceGlyphs[pc] + " "
			if pc == chess.Empty {
				cell = "   "
			}

			style := out.String(cell)
			if (file+rank)%2 == 0 {
				style = style.Background(dark)
			} else {
				style = style.Background(light)
			}
			if pc > 0 {
				style = style.Foreground(whitePiece)
			} else if pc < 0 {
				style = style.Foreground(blackPiece)
			}
			fmt.Print(style.String())
		}
		fmt.Println()
	}
	fmt.Println("   a  b  c  d  e  f  g  h")
}

func readHumanMove(reader *bufio.Reader, pos *chess.Position) (chess.Move, bool) {
	for {
		fmt.Print("your move> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return chess.Move{}, false
		}
		line = strings.TrimSpace(line)
		switch line {
		case "quit", "exit":
			return chess.Move{}, false
		case "moves":
			for _, m := range pos.GenerateLegalMoves() {
				fmt.Printf("%s ", m)
			}
			fmt.Println()
			continue
		}

		parsed, ok := chess.ParseMove(line)
		if !ok {
			fmt.Println("enter moves like e2e4 or e7e8q ('moves' lists them, 'quit' exits)")
			continue
		}
		move, ok := pos.FindMove(parsed.From, parsed.To, parsed.Promotion)
		if !ok {
			fmt.Printf("%s is not legal here\n", line)
			continue
		}
		return move, true
	}
}

func main() {
	flag.Parse()

	logger := zerolog.Nop()
	if *verbose {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	}

	pos, err := chess.ParseFEN(*fen)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bad fen: %v\n", err)
		os.Exit(1)
	}

	driver := mcts.NewSearchDriver(pos, mcts.DriverConfig{
		Exploration:  *exploration,
		RolloutDepth: *rolloutPly,
		Logger:       logger,
	})
	driver.Tree().Listener.
		OnDepth(func(stats mcts.TreeStats) {
			fmt.Printf("info eval %.2f depth %d cps %d cycles %d best %s\n",
				stats.Eval, stats.Maxdepth, stats.Cps, stats.Cycles, stats.BestMove)
		})

	out := termenv.NewOutput(os.Stdout)
	reader := bufio.NewReader(os.Stdin)
	humanIsWhite := !*playBlack

	for {
		current := driver.Position()
		printBoard(out, &current)

		if terminal, result := current.IsTerminal(); terminal {
			switch result {
			case chess.WhiteWins:
				fmt.Println("checkmate, white wins")
			case chess.BlackWins:
				fmt.Println("checkmate, black wins")
			default:
				fmt.Println("draw")
			}
			return
		}

		var move chess.Move
		if current.WhiteToMove == humanIsWhite {
			var ok bool
			move, ok = readHumanMove(reader, &current)
			if !ok {
				return
			}
		} else {
			limits := mcts.DefaultLimits().
				SetMovetime(*movetime).
				SetRolloutDepth(*rolloutPly)
			if err := driver.Start(context.Background(), limits); err != nil {
				fmt.Fprintf(os.Stderr, "search: %v\n", err)
				return
			}
			driver.Wait()

			res, ok := driver.TakeResult()
			if !ok {
				fmt.Println("engine found no move, resigning")
				return
			}
			move = res.Move
			fmt.Printf("bestmove %s (%.0f%% of %d visits, depth %d)\n",
				res.Move, res.VisitShare*100, res.RootVisits, res.Depth)
		}

		if err := driver.PlayMove(move); err != nil {
			fmt.Fprintf(os.Stderr, "play %s: %v\n", move, err)
			return
		}
	}
}
