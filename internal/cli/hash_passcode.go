package cli

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/mrlokans/diary/internal/auth"
)

// HashPasscodeCommand prints the bcrypt hash to put in AUTH_PASSCODE_HASH.
type HashPasscodeCommand struct {
	Passcode string
	Cost     int

	In  io.Reader
	Out io.Writer
}

func NewHashPasscodeCommand() *HashPasscodeCommand {
	return &HashPasscodeCommand{In: os.Stdin, Out: os.Stdout}
}

func (cmd *HashPasscodeCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("hash-passcode", flag.ContinueOnError)

	fs.StringVar(&cmd.Passcode, "passcode", "", "Passcode to hash (read from stdin if empty)")
	fs.IntVar(&cmd.Cost, "cost", bcrypt.DefaultCost, "bcrypt cost")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s hash-passcode [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Hash a passcode for the AUTH_PASSCODE_HASH environment variable.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExample:\n")
		fmt.Fprintf(os.Stderr, "  export AUTH_PASSCODE_HASH=$(%s hash-passcode -passcode 2580)\n", os.Args[0])
	}

	return fs.Parse(args)
}

func (cmd *HashPasscodeCommand) Run() error {
	passcode := cmd.Passcode
	if passcode == "" {
		line, err := bufio.NewReader(cmd.In).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		passcode = strings.TrimRight(line, "\r\n")
	}

	hash, err := auth.HashPasscode(passcode, cmd.Cost)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.Out, hash)
	return nil
}
