package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/aube/minimal-log/internal/app"
	"github.com/aube/minimal-log/internal/config"
	"github.com/aube/minimal-log/internal/drive"
	"github.com/aube/minimal-log/internal/logger"
	"github.com/aube/minimal-log/internal/service"
	"github.com/aube/minimal-log/internal/store"
	"github.com/aube/minimal-log/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewAppLogger("minimalog")

	cfg, err := config.GetConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	storages, err := store.NewStorages(cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create local storage")
	}

	factory := drive.NewGoogleSessionFactory(cfg.Drive, log)
	services := service.NewServices(storages, factory, cfg, log)

	if err = run(context.Background(), services, cfg.Args); err != nil {
		fmt.Fprintln(os.Stderr, app.UserMessage(err))
		log.Fatal().Err(err).Msg("command failed")
	}
}

func run(ctx context.Context, services *service.Services, args []string) error {
	if len(args) == 0 {
		printUsage()
		return nil
	}

	command, rest := args[0], args[1:]

	switch command {
	case "add":
		return runAdd(ctx, services, rest)
	case "list":
		return runList(ctx, services.Memories.List)
	case "favorites":
		return runList(ctx, services.Memories.Favorites)
	case "search":
		if len(rest) == 0 {
			return errors.New("usage: search <query>")
		}
		return runList(ctx, func(ctx context.Context) ([]models.Memory, error) {
			return services.Memories.Search(ctx, strings.Join(rest, " "))
		})
	case "today":
		return runToday(ctx, services)
	case "favorite":
		return runFavorite(ctx, services, rest)
	case "delete":
		return runDelete(ctx, services, rest)
	case "backup":
		return runBackup(ctx, services, rest)
	case "restore":
		return runRestore(ctx, services, rest)
	case "auto-backup":
		return runAutoBackup(ctx, services, rest)
	default:
		printUsage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func runAdd(ctx context.Context, services *service.Services, args []string) error {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	imagePath := fs.String("image", "", "photo file to import")
	tagsCSV := fs.String("tags", "", "comma-separated tags")
	dateArg := fs.String("date", "", "entry date as 2006-01-02, defaults to today")
	if err := fs.Parse(args); err != nil {
		return err
	}

	rest := fs.Args()
	if len(rest) == 0 {
		return errors.New("usage: add [-image file] [-tags a,b] [-date 2006-01-02] <title> [description]")
	}

	memory := models.Memory{
		Title: rest[0],
		Date:  time.Now(),
	}
	if len(rest) > 1 {
		memory.Description = rest[1]
	}

	if *dateArg != "" {
		date, err := time.Parse("2006-01-02", *dateArg)
		if err != nil {
			return fmt.Errorf("invalid date %q: %w", *dateArg, err)
		}
		memory.Date = date
	}

	if *tagsCSV != "" {
		for _, tag := range strings.Split(*tagsCSV, ",") {
			memory.Tags = append(memory.Tags, strings.TrimSpace(tag))
		}
	}

	var imageSource io.Reader
	if *imagePath != "" {
		f, err := os.Open(*imagePath)
		if err != nil {
			return fmt.Errorf("open image %s: %w", *imagePath, err)
		}
		defer f.Close()
		imageSource = f
	}

	id, err := services.Memories.Add(ctx, memory, imageSource)
	if err != nil {
		return err
	}

	fmt.Printf("added memory #%d\n", id)
	return nil
}

func runList(ctx context.Context, fetch func(context.Context) ([]models.Memory, error)) error {
	memories, err := fetch(ctx)
	if err != nil {
		return err
	}

	if len(memories) == 0 {
		fmt.Println("no memories")
		return nil
	}

	for _, m := range memories {
		printMemory(m)
	}
	return nil
}

func runToday(ctx context.Context, services *service.Services) error {
	memory, ok, err := services.Memories.Today(ctx, time.Now())
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("no memories yet")
		return nil
	}

	printMemory(memory)
	return nil
}

func runFavorite(ctx context.Context, services *service.Services, args []string) error {
	id, err := parseID(args, "favorite")
	if err != nil {
		return err
	}

	state, err := services.Memories.ToggleFavorite(ctx, id)
	if err != nil {
		return err
	}

	if state {
		fmt.Printf("memory #%d marked as favorite\n", id)
	} else {
		fmt.Printf("memory #%d is no longer a favorite\n", id)
	}
	return nil
}

func runDelete(ctx context.Context, services *service.Services, args []string) error {
	id, err := parseID(args, "delete")
	if err != nil {
		return err
	}

	if err = services.Memories.Delete(ctx, id); err != nil {
		return err
	}

	fmt.Printf("memory #%d deleted\n", id)
	return nil
}

func runBackup(ctx context.Context, services *service.Services, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: backup <account>")
	}

	ts, err := services.Backup.BackupNow(ctx, args[0])
	if err != nil {
		return err
	}

	fmt.Printf("backup uploaded at %s\n", ts.Format(time.RFC3339))
	return nil
}

func runRestore(ctx context.Context, services *service.Services, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: restore <account>")
	}

	if err := services.Backup.RestoreLatest(ctx, args[0]); err != nil {
		return err
	}

	fmt.Println("backup restored; restart to load the recovered data")
	return nil
}

func runAutoBackup(ctx context.Context, services *service.Services, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: auto-backup <account> [interval]")
	}

	var interval time.Duration
	if len(args) > 1 {
		parsed, err := time.ParseDuration(args[1])
		if err != nil {
			return fmt.Errorf("invalid interval %q: %w", args[1], err)
		}
		interval = parsed
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	services.BackupJob.Start(ctx, args[0], interval)
	defer services.BackupJob.Stop()

	fmt.Println("automatic backup running; press Ctrl+C to stop")
	<-ctx.Done()
	return nil
}

func parseID(args []string, command string) (int64, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("usage: %s <id>", command)
	}

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid memory id %q", args[0])
	}
	return id, nil
}

func printMemory(m models.Memory) {
	marker := " "
	if m.IsFavorite {
		marker = "*"
	}

	fmt.Printf("%s #%d %s  %s\n", marker, m.ID, m.Date.Format("2006-01-02"), m.Title)
	if m.Description != "" {
		fmt.Printf("     %s\n", m.Description)
	}
	if len(m.Tags) > 0 {
		fmt.Printf("     tags: %s\n", strings.Join(m.Tags, ", "))
	}
	if m.ImagePath != "" {
		fmt.Printf("     image: %s\n", m.ImagePath)
	}
}

func printUsage() {
	fmt.Println(`usage: minimalog [flags] <command>

commands:
  add [-image file] [-tags a,b] [-date 2006-01-02] <title> [description]
                                           create a memory
  list                                     list all memories
  favorites                                list favorite memories
  search <query>                           search title, description and tags
  today                                    show the memory of the day
  favorite <id>                            toggle the favorite flag
  delete <id>                              delete a memory and its image
  backup <account>                         upload a backup archive
  restore <account>                        restore the latest backup archive
  auto-backup <account> [interval]         upload backups on a schedule`)
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	if buildDate == "" {
		buildDate = "N/A"
	}
	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
