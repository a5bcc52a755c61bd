package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/mrlokans/diary/internal/config"
	"github.com/mrlokans/diary/internal/database"
	"github.com/mrlokans/diary/internal/logging"
)

// SweepCommand deletes photos and voice messages whose entry no longer exists.
type SweepCommand struct {
	DatabasePath string

	Out io.Writer
}

func NewSweepCommand() *SweepCommand {
	return &SweepCommand{Out: os.Stdout}
}

func (cmd *SweepCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("sweep", flag.ContinueOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the diary database")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s sweep [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Remove attachments left behind by entries that failed to save.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

func (cmd *SweepCommand) Run(ctx context.Context) error {
	db, err := database.NewDatabase(cmd.DatabasePath, database.Options{
		Logger: logging.NewWithWriter(io.Discard, "error", true),
	})
	if err != nil {
		return err
	}
	defer db.Close()

	deleted, err := db.DeleteOrphanAttachments(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.Out, "Removed %d orphaned attachments\n", deleted)
	return nil
}
