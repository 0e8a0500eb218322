package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/pflag"
	"github.com/vrsandeep/nephra-go/internal/assets"
	"github.com/vrsandeep/nephra-go/internal/catalog"
	"github.com/vrsandeep/nephra-go/internal/config"
	"github.com/vrsandeep/nephra-go/internal/db"
	"github.com/vrsandeep/nephra-go/internal/store"
	"github.com/vrsandeep/nephra-go/internal/view"
)

func sortedCommands() []string {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func runMigrate(ctx context.Context, cfg *config.Config, args []string) error {
	database, err := db.Open(cfg.Database.Path, assets.MigrationsFS)
	if err != nil {
		return err
	}
	defer database.Close()
	fmt.Printf("Database at %s is up to date.\n", cfg.Database.Path)
	return nil
}

func runCleanup(ctx context.Context, cfg *config.Config, args []string) error {
	database, err := db.Open(cfg.Database.Path, assets.MigrationsFS)
	if err != nil {
		return err
	}
	defer database.Close()

	removed, err := store.New(database).DeleteExpiredSessions()
	if err != nil {
		return err
	}
	fmt.Printf("Removed %d expired sessions.\n", removed)
	return nil
}

func runTop(ctx context.Context, cfg *config.Config, args []string) error {
	fs := pflag.NewFlagSet("top", pflag.ExitOnError)
	allTime := fs.Bool("all-time", false, "show the all time chart instead of the daily one")
	page, size := pagingFlags(fs)
	fs.Parse(args)

	c := newCatalog(cfg)
	top := c.TopDaily
	if *allTime {
		top = c.TopAllTime
	}
	list, err := top(ctx, *page, *size)
	if err != nil {
		return err
	}
	printList(list)
	return nil
}

func runLatest(ctx context.Context, cfg *config.Config, args []string) error {
	fs := pflag.NewFlagSet("latest", pflag.ExitOnError)
	listType := fs.StringP("type", "t", catalog.TypeProject, "project or mirror")
	page, size := pagingFlags(fs)
	fs.Parse(args)

	if *listType != catalog.TypeProject && *listType != catalog.TypeMirror {
		return fmt.Errorf("invalid type %q", *listType)
	}
	list, err := newCatalog(cfg).LatestByType(ctx, *listType, *page, *size)
	if err != nil {
		return err
	}
	printList(list)
	return nil
}

func runRecommended(ctx context.Context, cfg *config.Config, args []string) error {
	fs := pflag.NewFlagSet("recommended", pflag.ExitOnError)
	format := fs.StringP("format", "f", catalog.FormatManga, "manga, manhwa or manhua")
	page, size := pagingFlags(fs)
	fs.Parse(args)

	switch *format {
	case catalog.FormatManga, catalog.FormatManhwa, catalog.FormatManhua:
	default:
		return fmt.Errorf("invalid format %q", *format)
	}
	list, err := newCatalog(cfg).RecommendedByFormat(ctx, *format, *page, *size)
	if err != nil {
		return err
	}
	printList(list)
	return nil
}

func runSearch(ctx context.Context, cfg *config.Config, args []string) error {
	fs := pflag.NewFlagSet("search", pflag.ExitOnError)
	page, size := pagingFlags(fs)
	fs.Parse(args)

	query := joinArgs(fs)
	if query == "" {
		return errors.New("missing search query")
	}
	list, err := newCatalog(cfg).Search(ctx, query, *page, *size)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Printf("No results found for %q\n", query)
		return nil
	}
	printList(list)
	return nil
}

func runDetail(ctx context.Context, cfg *config.Config, args []string) error {
	fs := pflag.NewFlagSet("detail", pflag.ExitOnError)
	fs.Parse(args)

	id := joinArgs(fs)
	if id == "" {
		return errors.New("missing manga id")
	}
	detail := newCatalog(cfg).MangaDetail(ctx, id)
	if detail.Metadata == nil {
		return errors.New("manga not found")
	}

	m := detail.Metadata
	fmt.Println(m.Title)
	if m.AlternativeTitle != nil && *m.AlternativeTitle != "" {
		fmt.Println(*m.AlternativeTitle)
	}
	fmt.Printf("Status: %s\n", view.StatusText(m.Status))
	if rating, ok := view.RatingBadge(m.UserRate); ok {
		fmt.Printf("Rating: %s\n", rating)
	}
	if genres := m.Genres(); len(genres) > 0 {
		fmt.Printf("Genres: %v\n", genres)
	}
	if m.Description != nil {
		fmt.Printf("\n%s\n", view.PlainText(*m.Description))
	}

	fmt.Printf("\nChapters (%d)\n", len(detail.Chapters))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, ch := range detail.Chapters {
		title := ""
		if ch.Title != nil {
			title = *ch.Title
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", ch.ChapterID, view.ChapterNumber(ch.ChapterNumber), title, view.ReleaseDate(ch))
	}
	return w.Flush()
}

func runChapter(ctx context.Context, cfg *config.Config, args []string) error {
	fs := pflag.NewFlagSet("chapter", pflag.ExitOnError)
	fs.Parse(args)

	id := joinArgs(fs)
	if id == "" {
		return errors.New("missing chapter id")
	}
	pages, err := newCatalog(cfg).ChapterImages(ctx, id)
	if err != nil {
		return err
	}
	if pages.Info != nil {
		fmt.Printf("Chapter %s\n", view.ChapterNumber(pages.Info.ChapterNumber))
	}
	if len(pages.Images) == 0 {
		fmt.Println("No images available for this chapter")
		return nil
	}
	for i, src := range pages.Images {
		fmt.Printf("%3d  %s\n", i+1, src)
	}
	return nil
}
