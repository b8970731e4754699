// Command matterlog-grep searches a chatroom's transcripts from the terminal,
// using the same matching and ordering as the web viewer.
//
//	matterlog-grep [-logs DIR] [-c] CHATROOM QUERY
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/V4T54L/matterlog/internal/adapter/repository/fs"
	"github.com/V4T54L/matterlog/internal/domain"
	"github.com/V4T54L/matterlog/internal/pkg/config"
	"github.com/V4T54L/matterlog/internal/usecase"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		return 2
	}

	flags := flag.NewFlagSet("matterlog-grep", flag.ContinueOnError)
	logsPath := flags.String("logs", cfg.LogsPath, "logs root directory")
	countOnly := flags.Bool("c", false, "print only the number of matching lines")
	if err := flags.Parse(args); err != nil {
		return 2
	}
	if flags.NArg() < 2 {
		fmt.Fprintln(os.Stderr, "usage: matterlog-grep [-logs DIR] [-c] CHATROOM QUERY")
		return 2
	}
	chatroom := flags.Arg(0)
	query := strings.Join(flags.Args()[1:], " ")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	search := usecase.NewSearchUseCase(fs.NewLogStore(*logsPath), nil)
	res, err := search.Search(ctx, chatroom, query)
	switch {
	case errors.Is(err, domain.ErrEmptyQuery):
		fmt.Fprintln(os.Stderr, "query must not be empty")
		return 2
	case errors.Is(err, domain.ErrChatroomNotFound):
		fmt.Fprintf(os.Stderr, "chatroom %q not found in %s\n", chatroom, *logsPath)
		return 2
	case err != nil:
		fmt.Fprintf(os.Stderr, "search failed: %v\n", err)
		return 2
	}

	if *countOnly {
		fmt.Println(res.Count())
	} else {
		newRenderer().write(os.Stdout, res)
	}
	if res.Count() == 0 {
		return 1
	}
	return 0
}
