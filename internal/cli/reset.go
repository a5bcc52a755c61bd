package cli

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mrlokans/diary/internal/config"
	"github.com/mrlokans/diary/internal/database"
	"github.com/mrlokans/diary/internal/logging"
)

var ErrAborted = errors.New("aborted")

// ResetCommand wipes every entry, attachment and setting from the store.
type ResetCommand struct {
	DatabasePath string
	Yes          bool

	In  io.Reader
	Out io.Writer
}

func NewResetCommand() *ResetCommand {
	return &ResetCommand{In: os.Stdin, Out: os.Stdout}
}

func (cmd *ResetCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("reset", flag.ContinueOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the diary database")
	fs.BoolVar(&cmd.Yes, "yes", false, "Do not ask for confirmation")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s reset [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Delete every diary entry, photo, voice message and setting.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

func (cmd *ResetCommand) Run(ctx context.Context) error {
	if !cmd.Yes {
		fmt.Fprintf(cmd.Out, "This permanently deletes everything in %s. Type 'yes' to continue: ", cmd.DatabasePath)
		answer, err := bufio.NewReader(cmd.In).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		if strings.TrimSpace(strings.ToLower(answer)) != "yes" {
			return ErrAborted
		}
	}

	db, err := database.NewDatabase(cmd.DatabasePath, database.Options{
		Logger: logging.NewWithWriter(io.Discard, "error", true),
	})
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.ClearAll(ctx); err != nil {
		return err
	}

	fmt.Fprintf(cmd.Out, "Store cleared: %s\n", cmd.DatabasePath)
	return nil
}
