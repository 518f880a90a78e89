// Package uci is the text-protocol driver named in spec.md section 6:
// out of scope for the search core itself, but the interface that
// drives it. Grounded on the teacher's pkg/uci/protocol.go, adapted
// from pkg/common's types to internal/search/internal/chess and
// extended with the "go perft" pseudo-command SPEC_FULL.md's FEATURES
// SUPPLEMENTED section calls for.
package uci

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ChizhovVadim/CounterGo/internal/chess"
	"github.com/ChizhovVadim/CounterGo/internal/search"
)

// Engine is the narrow surface Protocol drives; internal/search.Engine
// satisfies it directly.
type Engine interface {
	Prepare()
	Search(ctx context.Context, params search.SearchParams) search.SearchInfo
}

// Clearer is implemented by engines that reset heuristic state between
// games ("ucinewgame"); internal/search.Engine does this through its
// Pool.
type Clearer interface {
	Clear()
}

type Protocol struct {
	name         string
	author       string
	version      string
	options      []Option
	engine       Engine
	positions    []chess.Position
	thinking     bool
	engineOutput chan search.SearchInfo
	cancel       context.CancelFunc
}

func New(name, author, version string, engine Engine, options []Option) *Protocol {
	var initPosition, err = chess.NewPositionFromFEN(chess.InitialPositionFen)
	if err != nil {
		panic(err)
	}
	return &Protocol{
		name:      name,
		author:    author,
		version:   version,
		engine:    engine,
		options:   options,
		positions: []chess.Position{initPosition},
	}
}

func (p *Protocol) Run(logger *log.Logger) {
	var commands = make(chan string)

	go func() {
		defer close(commands)
		readCommands(commands)
	}()

	var searchResult search.SearchInfo
	for {
		select {
		case si, ok := <-p.engineOutput:
			if ok {
				fmt.Println(searchInfoToUci(si))
				searchResult = si
			} else {
				if len(searchResult.MainLine) != 0 {
					fmt.Printf("bestmove %v\n", searchResult.MainLine[0])
				}
				p.thinking = false
				p.cancel = nil
				p.engineOutput = nil
				searchResult = search.SearchInfo{}
			}
		case commandLine, ok := <-commands:
			if !ok {
				return
			}
			var err = p.handle(commandLine)
			if err != nil {
				logger.Println(err)
			}
		}
	}
}

func readCommands(commands chan<- string) {
	var scanner = bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)
	for scanner.Scan() {
		var commandLine = scanner.Text()
		if commandLine == "quit" {
			return
		}
		if commandLine != "" {
			commands <- commandLine
		}
	}
}

func (p *Protocol) handle(commandLine string) error {
	var fields = strings.Fields(commandLine)
	if len(fields) == 0 {
		return nil
	}
	var commandName = fields[0]
	fields = fields[1:]

	if p.thinking {
		if commandName == "stop" {
			p.cancel()
			return nil
		}
		return errors.New("search still run")
	}

	var h func(fields []string) error

	switch commandName {
	case "uci":
		h = p.uciCommand
	case "setoption":
		h = p.setOptionCommand
	case "isready":
		h = p.isReadyCommand
	case "position":
		h = p.positionCommand
	case "go":
		h = p.goCommand
	case "ucinewgame":
		h = p.uciNewGameCommand
	case "ponderhit":
		h = p.ponderhitCommand
	}

	if h == nil {
		return errors.New("command not found")
	}

	return h(fields)
}

func (p *Protocol) uciCommand(fields []string) error {
	fmt.Printf("id name %s %s\n", p.name, p.version)
	fmt.Printf("id author %s\n", p.author)
	for _, option := range p.options {
		fmt.Println(option.UciString())
	}
	fmt.Println("uciok")
	return nil
}

func (p *Protocol) setOptionCommand(fields []string) error {
	var valueIndex = findIndexString(fields, "value")
	if len(fields) < 4 || valueIndex < 2 || valueIndex+1 >= len(fields) {
		return errors.New("invalid setoption arguments")
	}
	var name, value = strings.Join(fields[1:valueIndex], " "), fields[valueIndex+1]
	for _, option := range p.options {
		if strings.EqualFold(option.UciName(), name) {
			return option.Set(value)
		}
	}
	return errors.New("unhandled option")
}

func (p *Protocol) isReadyCommand(fields []string) error {
	p.engine.Prepare()
	fmt.Println("readyok")
	return nil
}

func (p *Protocol) positionCommand(fields []string) error {
	var args = fields
	if len(args) == 0 {
		return errors.New("unknown position command")
	}
	var token = args[0]
	var fen string
	var movesIndex = findIndexString(args, "moves")
	if token == "startpos" {
		fen = chess.InitialPositionFen
	} else if token == "fen" {
		if movesIndex == -1 {
			fen = strings.Join(args[1:], " ")
		} else {
			fen = strings.Join(args[1:movesIndex], " ")
		}
	} else {
		return errors.New("unknown position command")
	}
	var pos, err = chess.NewPositionFromFEN(fen)
	if err != nil {
		return err
	}
	var positions = []chess.Position{pos}
	if movesIndex >= 0 && movesIndex+1 < len(args) {
		for _, smove := range args[movesIndex+1:] {
			var move = chess.ParseMoveLAN(&positions[len(positions)-1], smove)
			if move == chess.MoveEmpty {
				return errors.New("parse move failed")
			}
			var child chess.Position
			if !positions[len(positions)-1].DoMove(move, &child) {
				return errors.New("illegal move")
			}
			positions = append(positions, child)
		}
	}
	p.positions = positions
	return nil
}

// goCommand also serves the "go perft <depth>" pseudo-command
// SPEC_FULL.md's FEATURES SUPPLEMENTED section adds for movegen
// validation, bypassing the search engine entirely.
func (p *Protocol) goCommand(fields []string) error {
	if len(fields) >= 2 && fields[0] == "perft" {
		return p.perftCommand(fields[1:])
	}

	var limits = parseLimits(fields)
	var ctx, cancel = context.WithCancel(context.Background())
	p.cancel = cancel
	p.thinking = true
	p.engineOutput = make(chan search.SearchInfo, 3)
	var positions = p.positions
	go func() {
		var searchResult = p.engine.Search(ctx, search.SearchParams{
			Positions: positions,
			Limits:    limits,
			Progress: func(si search.SearchInfo) {
				select {
				case p.engineOutput <- si:
				default:
				}
			},
		})
		p.engineOutput <- searchResult
		close(p.engineOutput)
	}()
	return nil
}

func (p *Protocol) perftCommand(fields []string) error {
	if len(fields) == 0 {
		return errors.New("perft requires a depth")
	}
	var depth, err = strconv.Atoi(fields[0])
	if err != nil {
		return err
	}
	var pos = p.positions[len(p.positions)-1]
	var start = time.Now()
	var nodes = chess.Perft(&pos, depth)
	var elapsed = time.Since(start)
	fmt.Printf("info string perft depth %v nodes %v time %v\n",
		depth, nodes, elapsed.Milliseconds())
	return nil
}

func (p *Protocol) uciNewGameCommand(fields []string) error {
	if c, ok := p.engine.(Clearer); ok {
		c.Clear()
	}
	return nil
}

func (p *Protocol) ponderhitCommand(fields []string) error {
	return errors.New("not implemented")
}

func searchInfoToUci(si search.SearchInfo) string {
	var sb = &strings.Builder{}
	fmt.Fprintf(sb, "info depth %v", si.Depth)
	if si.SelDepth != 0 {
		fmt.Fprintf(sb, " seldepth %v", si.SelDepth)
	}
	if si.MultiPV != 0 {
		fmt.Fprintf(sb, " multipv %v", si.MultiPV)
	}
	if si.Score.Mate != 0 {
		fmt.Fprintf(sb, " score mate %v", si.Score.Mate)
	} else {
		fmt.Fprintf(sb, " score cp %v", si.Score.Centipawns)
	}
	if si.WDL != nil {
		fmt.Fprintf(sb, " wdl %v %v %v", si.WDL.Win, si.WDL.Draw, si.WDL.Loss)
	}
	var timeMs = si.Time.Milliseconds()
	var nps = si.Nodes * 1000 / (timeMs + 1)
	fmt.Fprintf(sb, " nodes %v time %v nps %v", si.Nodes, timeMs, nps)
	if len(si.MainLine) != 0 {
		fmt.Fprintf(sb, " pv")
		for _, move := range si.MainLine {
			sb.WriteString(" ")
			sb.WriteString(move.String())
		}
	}
	return sb.String()
}

func parseLimits(args []string) (result search.LimitsType) {
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "ponder":
			result.Ponder = true
		case "wtime":
			result.WhiteTime = parseMs(args, &i)
		case "btime":
			result.BlackTime = parseMs(args, &i)
		case "winc":
			result.WhiteIncrement = parseMs(args, &i)
		case "binc":
			result.BlackIncrement = parseMs(args, &i)
		case "movestogo":
			result.MovesToGo, _ = strconv.Atoi(next(args, &i))
		case "depth":
			result.Depth, _ = strconv.Atoi(next(args, &i))
		case "nodes":
			var n, _ = strconv.ParseInt(next(args, &i), 10, 64)
			result.Nodes = n
		case "movetime":
			result.MoveTime = parseMs(args, &i)
		case "infinite":
			result.Infinite = true
		}
	}
	return
}

func next(args []string, i *int) string {
	if *i+1 < len(args) {
		*i++
		return args[*i]
	}
	return ""
}

func parseMs(args []string, i *int) time.Duration {
	var v, _ = strconv.Atoi(next(args, i))
	return time.Duration(v) * time.Millisecond
}

func findIndexString(slice []string, value string) int {
	for i, v := range slice {
		if v == value {
			return i
		}
	}
	return -1
}
