package main

import (
	"context"
	"flag"
	"log"
	"math/rand"
	"os"
	"runtime"

	"github.com/ChizhovVadim/CounterGo/internal/book"
	"github.com/ChizhovVadim/CounterGo/internal/chess"
	"github.com/ChizhovVadim/CounterGo/internal/eval"
	"github.com/ChizhovVadim/CounterGo/internal/experience"
	"github.com/ChizhovVadim/CounterGo/internal/search"
	"github.com/ChizhovVadim/CounterGo/internal/tablebase"
	"github.com/ChizhovVadim/CounterGo/internal/uci"
)

/*
Counter Copyright (C) 2017-2023 Vadim Chizhov
This program is free software: you can redistribute it and/or modify it under the terms of the GNU General Public License as published by the Free Software Foundation, either version 3 of the License, or (at your option) any later version.
This program is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the GNU General Public License for more details.
You should have received a copy of the GNU General Public License along with this program. If not, see <http://www.gnu.org/licenses/>.
*/

const (
	name   = "Counter"
	author = "Vadim Chizhov"
)

var (
	versionName = "dev"
	buildDate   = "(null)"
	gitRevision = "(null)"
	flgBook     string
	flgExpDir   string
)

func main() {
	flag.StringVar(&flgBook, "book", "", "path to a Polyglot .bin opening book")
	flag.StringVar(&flgExpDir, "experience", "", "directory for the persisted experience store")
	flag.Parse()

	var logger = log.New(os.Stderr, "", log.LstdFlags|log.Lshortfile)

	logger.Println(name,
		"VersionName", versionName,
		"BuildDate", buildDate,
		"GitRevision", gitRevision,
		"RuntimeVersion", runtime.Version(),
		"GOARCH", runtime.GOARCH,
		"GOOS", runtime.GOOS,
		"NumCPU", runtime.NumCPU(),
	)

	var eng = search.NewEngine(eval.NewService())
	eng.Pool.SetTablebase(tablebase.NoopProber{})

	if flgExpDir != "" {
		var store, err = experience.Open(flgExpDir)
		if err != nil {
			logger.Println("experience store:", err)
		} else {
			defer store.Close()
			eng.SetExperienceStore(store)
		}
	}

	var ob *book.Book
	if flgBook != "" {
		var loaded, err = book.LoadPolyglot(flgBook)
		if err != nil {
			logger.Println("opening book:", err)
		} else {
			ob = loaded
			logger.Println("opening book loaded", "entries", ob.Size())
		}
	}

	var protocol = uci.New(name, author, versionName, &bookEngine{inner: eng, book: ob, rng: rand.New(rand.NewSource(1))},
		[]uci.Option{
			&uci.IntOption{Name: "Hash", Min: 4, Max: 1 << 16, Value: &eng.Options.Hash},
			&uci.IntOption{Name: "Threads", Min: 1, Max: runtime.NumCPU(), Value: &eng.Options.Threads},
			&uci.IntOption{Name: "MultiPV", Min: 1, Max: 32, Value: &eng.Options.MultiPV},
			&uci.BoolOption{Name: "NeverClearHash", Value: &eng.Options.NeverClearHash},
			&uci.BoolOption{Name: "UCI_ShowWDL", Value: &eng.Options.ShowWDL},
			&uci.StringOption{Name: "SyzygyPath", Value: &eng.Options.SyzygyPath},
			&uci.BoolOption{Name: "Syzygy50MoveRule", Value: &eng.Options.Syzygy50MoveRule},
			&uci.IntOption{Name: "SyzygyProbeDepth", Min: 1, Max: 100, Value: &eng.Options.SyzygyProbeDepth},
			&uci.IntOption{Name: "SyzygyProbeLimit", Min: 0, Max: 7, Value: &eng.Options.SyzygyProbeLimit},
			&uci.IntOption{Name: "Variety", Min: 0, Max: 40, Value: &eng.Options.Variety},
			&uci.BoolOption{Name: "DynamicContempt", Value: &eng.Options.DynamicContempt},
			&uci.IntOption{Name: "multiPV Search", Min: 0, Max: 5, Value: &eng.Options.TacticalMultiPV},
		},
	)
	protocol.Run(logger)
}

// bookEngine intercepts "go" just long enough to answer instantly from
// the loaded opening book, falling back to the real engine once the
// book runs out of coverage; this is the only collaborator that needs
// to know the book exists at all.
type bookEngine struct {
	inner *search.Engine
	book  *book.Book
	rng   *rand.Rand
}

func (b *bookEngine) Prepare() { b.inner.Prepare() }
func (b *bookEngine) Clear()   { b.inner.Clear() }

func (b *bookEngine) Search(ctx context.Context, params search.SearchParams) search.SearchInfo {
	if b.book != nil {
		var pos = params.Positions[len(params.Positions)-1]
		if mv, ok := b.book.Probe(&pos, b.rng); ok {
			return search.SearchInfo{MainLine: []chess.Move{mv}}
		}
	}
	return b.inner.Search(ctx, params)
}
