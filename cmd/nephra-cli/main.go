// Command nephra-cli queries the catalog from the terminal and maintains the
// local database.
//
// Usage:
//
//	nephra-cli <command> [flags] [args]
//
// Commands: migrate, cleanup, top, latest, recommended, search, detail, chapter.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"

	"github.com/spf13/pflag"
	"github.com/vrsandeep/nephra-go/internal/catalog"
	"github.com/vrsandeep/nephra-go/internal/config"
	"github.com/vrsandeep/nephra-go/internal/models"
	"github.com/vrsandeep/nephra-go/internal/view"
)

type command struct {
	usage string
	run   func(ctx context.Context, cfg *config.Config, args []string) error
}

var commands = map[string]command{
	"migrate":     {"apply database migrations", runMigrate},
	"cleanup":     {"delete expired local sessions", runCleanup},
	"top":         {"list the top chart (--all-time for the all time chart)", runTop},
	"latest":      {"list the latest updates (--type project|mirror)", runLatest},
	"recommended": {"list recommendations (--format manga|manhwa|manhua)", runRecommended},
	"search":      {"search titles: search <query>", runSearch},
	"detail":      {"show a title and its chapters: detail <manga-id>", runDetail},
	"chapter":     {"list the page images of a chapter: chapter <chapter-id>", runChapter},
}

func main() {
	log.SetFlags(0)

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2)
	}
	cmd, ok := commands[os.Args[1]]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", os.Args[1])
		printUsage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cmd.run(ctx, cfg, os.Args[2:]); err != nil {
		log.Fatalf("%s: %v", os.Args[1], err)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "Usage: nephra-cli <command> [flags] [args]")
	fmt.Fprintln(os.Stderr, "\nCommands:")
	w := tabwriter.NewWriter(os.Stderr, 0, 0, 2, ' ', 0)
	for _, name := range sortedCommands() {
		fmt.Fprintf(w, "  %s\t%s\n", name, commands[name].usage)
	}
	w.Flush()
}

// pagingFlags registers the shared --page and --size flags.
func pagingFlags(fs *pflag.FlagSet) (page, size *int) {
	page = fs.IntP("page", "p", 1, "page number")
	size = fs.IntP("size", "n", 0, "page size (0 uses the catalog default)")
	return page, size
}

func printList(list []models.Manga) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tTYPE\tFORMAT\tRATING")
	for _, card := range view.NewCards(list) {
		rating := "-"
		if card.Rated {
			rating = card.Rating
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", card.ID, card.Title, card.Type, card.Format, rating)
	}
	w.Flush()
}

func newCatalog(cfg *config.Config) *catalog.Catalog {
	return catalog.NewFromConfig(cfg)
}

func joinArgs(fs *pflag.FlagSet) string {
	return strings.TrimSpace(strings.Join(fs.Args(), " "))
}
