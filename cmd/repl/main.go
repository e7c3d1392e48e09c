// Command repl is an interactive front-end over the resolution engine.
//
// Consulted files hold one sentence per line in the parser's syntax,
// with '#' comments. Each input line is asked as a query; SIGINT cancels
// the query in flight.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/chzyer/readline"

	"github.com/herbrand/fol-engine/parser"
	"github.com/herbrand/fol-engine/resolution"
)

var (
	consultFiles = flag.String("consult-files", "", "Comma-separated files to consult, in order")
	query        = flag.String("query", "", "Initial query to issue")
	interactive  = flag.Bool("interactive", true, "Whether the REPL is interactive")
	explain      = flag.Bool("explain", true, "Whether to print derivations for positive results")
)

type ctx struct {
	interrupt chan os.Signal
	kb        *resolution.KnowledgeBase
	readline  *readline.Instance
}

func main() {
	flag.Parse()
	if !*interactive && len(*query) == 0 {
		log.Fatal("No query provided for non-interactive REPL")
	}

	ctx := ctx{}
	ctx.interrupt = make(chan os.Signal, 1)
	signal.Notify(ctx.interrupt, syscall.SIGINT)

	ctx.kb = resolution.NewKnowledgeBase(resolution.DefaultConfig(), nil)
	for _, file := range strings.Split(*consultFiles, ",") {
		if len(file) == 0 {
			continue
		}
		consultFile(ctx.kb, file)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:                 "?- ",
		HistoryFile:            "/tmp/readline-history",
		DisableAutoSaveHistory: true,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer rl.Close()
	ctx.readline = rl

	ctx.mainLoop()
}

func consultFile(kb *resolution.KnowledgeBase, filename string) {
	bs, err := os.ReadFile(filename)
	if err != nil {
		log.Print(err)
		return
	}
	sentences, err := parser.Sentences(string(bs))
	if err != nil {
		log.Print(err)
		return
	}
	kb.TellMany(sentences)
}

func (ctx ctx) mainLoop() {
	if len(*query) > 0 {
		ctx.ask(*query)
	}
	if !*interactive {
		return
	}
	for {
		line, err := ctx.readline.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			return
		}
		if err != nil {
			log.Print(err)
			return
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		ctx.readline.SaveHistory(line)
		ctx.ask(line)
	}
}

// ask runs one query to completion, cancelling it on SIGINT.
func (ctx ctx) ask(text string) {
	goal, err := parser.Sentence(text)
	if err != nil {
		fmt.Println(err)
		return
	}
	q, err := ctx.kb.NewQuery(goal)
	if err != nil {
		fmt.Println(err)
		return
	}
	defer q.Dispose()

	queryCtx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-ctx.interrupt:
				cancel()
				return
			case <-queryCtx.Done():
				return
			}
		}
	}()
	err = q.Complete(queryCtx)
	cancel()
	<-done
	if err != nil {
		fmt.Println(err)
		return
	}
	result, err := q.Result()
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(result)
	if result && *explain {
		explanation, err := q.Explain()
		if err != nil {
			fmt.Println(err)
			return
		}
		fmt.Print(explanation)
	}
}
