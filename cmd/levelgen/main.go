package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/milk9111/levelforge/assembly"
	"github.com/milk9111/levelforge/chunks"
	"github.com/milk9111/levelforge/export"
	"github.com/milk9111/levelforge/levels"
	"github.com/milk9111/levelforge/pipeline"
	"github.com/milk9111/levelforge/validate"
	"golang.design/x/clipboard"
	"gopkg.in/yaml.v3"
)

func main() {
	out := flag.String("out", "generated_levels", "output directory for level YAML")
	count := flag.Int("count", 1, "number of levels to generate")
	seed := flag.Int64("seed", 1, "seed for the first level")
	width := flag.Int("width", 30, "level width in cells")
	height := flag.Int("height", 20, "level height in cells")
	theme := flag.String("theme", "ward", "chunk theme")
	difficulty := flag.Int("difficulty", 1, "maximum chunk difficulty")
	scripts := flag.String("scripts", "chunks/scripts", "directory checked for chunk scripts before the embedded ones")
	generate := flag.Int("generate", 0, "extra scripted chunks to add to the library per level")
	dump := flag.Bool("dump", false, "print a debug dump of the first exported level")
	listChunks := flag.Bool("chunks", false, "print the chunk library as YAML and exit")
	copyYAML := flag.Bool("copy", false, "copy the first exported level YAML to the clipboard")
	watch := flag.Bool("watch", false, "regenerate when chunk scripts change")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg := levels.DefaultConfig()
	cfg.Width = *width
	cfg.Height = *height

	src := &chunks.ScriptSource{Dir: *scripts, Theme: *theme, Difficulty: *difficulty, Seed: *seed}

	if *listChunks {
		library, err := src.Chunks(ctx)
		if err != nil {
			log.Fatal(err)
		}
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		if err := enc.Encode(library); err != nil {
			log.Fatal(err)
		}
		return
	}

	p := &pipeline.Pipeline{
		Config:     cfg,
		Source:     src,
		Generator:  &chunks.ScriptGenerator{Dir: *scripts, Seed: *seed},
		Generated:  *generate,
		Theme:      *theme,
		Difficulty: *difficulty,
		NewAssembler: func(s int64) assembly.Assembler {
			opts := assembly.DefaultOptions()
			opts.Theme = *theme
			opts.MaxDifficulty = *difficulty
			opts.Seed = s
			return assembly.NewSlotAssembler(opts)
		},
		Validator: validate.All(
			validate.Consistency{},
			validate.Required{Refs: []string{"sp", "ex"}},
		),
		Exporter: export.FileExporter{Dir: *out},
	}

	generateOnce := func() {
		results, err := p.Batch(ctx, *count, *seed)
		if err != nil {
			log.Printf("levelgen: %v", err)
		}
		for _, r := range results {
			fmt.Println(r.Path)
		}
		if len(results) > 0 && (*dump || *copyYAML) {
			report(results[0].Level, *dump, *copyYAML)
		}
	}

	generateOnce()
	if !*watch {
		return
	}

	w, err := chunks.NewWatcher(src)
	if err != nil {
		log.Fatalf("levelgen: watch %s: %v", *scripts, err)
	}
	defer w.Close()
	log.Printf("levelgen: watching %s", *scripts)

	for {
		select {
		case r, ok := <-w.Reloads:
			if !ok {
				return
			}
			if r.Err != nil {
				log.Printf("levelgen: %s: script error: %v", r.Path, r.Err)
				continue
			}
			log.Printf("levelgen: %s reloaded with %d chunks, regenerating", r.Path, len(r.Chunks))
			p.Source = chunks.Library(r.Chunks)
			generateOnce()
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			log.Printf("levelgen: watch error: %v", err)
		case <-ctx.Done():
			return
		}
	}
}

// report dumps and copies the first exported level.
func report(l *levels.Level, dump, copyYAML bool) {
	if dump {
		fmt.Print(l.String())
	}
	if !copyYAML {
		return
	}
	if err := clipboard.Init(); err != nil {
		log.Printf("levelgen: clipboard unavailable: %v", err)
		return
	}
	var buf bytes.Buffer
	if err := l.EncodeYAML(&buf); err != nil {
		log.Printf("levelgen: %v", err)
		return
	}
	clipboard.Write(clipboard.FmtText, buf.Bytes())
	log.Printf("levelgen: copied %d bytes of YAML to the clipboard", buf.Len())
}
