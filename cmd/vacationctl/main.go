// Command vacationctl is a command-line client for the vacation booking API.
//
// Usage:
//
//	vacationctl [-base-url URL] [-token TOKEN] <command> [flags] [args]
//
// The base URL and token default to $VACATIONS_API_URL and $VACATIONS_TOKEN.
// Run "vacationctl help" for the list of commands.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkordes/vacation-booking/backend/client"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr, os.Getenv))
}

// errUsage marks errors caused by bad command-line input. They exit with 2.
var errUsage = errors.New("usage")

// cli carries what every command needs.
type cli struct {
	api    *client.Client
	stdout io.Writer
	stderr io.Writer
}

type command struct {
	name    string
	args    string
	summary string
	run     func(ctx context.Context, c *cli, args []string) error
}

var commands = []command{
	{"signup", "-first F -last L -email E -password P", "create an account and print its token", cmdSignUp},
	{"signin", "-email E -password P", "sign in and print a token", cmdSignIn},
	{"whoami", "", "show the signed-in user", cmdWhoAmI},
	{"list", "[-page N]", "list one page of vacations", cmdList},
	{"future", "", "list vacations that have not started", cmdFuture},
	{"get", "ID", "show one vacation", cmdGet},
	{"add", "-destination D -description T -start DATE -end DATE -price P -image FILE [-image-name N]", "add a vacation (admin)", cmdAdd},
	{"edit", "ID -destination D -description T -start DATE -end DATE -price P -image FILE [-image-name N]", "replace a vacation (admin)", cmdEdit},
	{"delete", "ID", "delete a vacation (admin)", cmdDelete},
	{"follow", "ID", "follow a vacation", cmdFollow},
	{"unfollow", "ID", "stop following a vacation", cmdUnfollow},
	{"followed", "", "list the vacations you follow", cmdFollowed},
	{"report", "[-csv]", "follower count per vacation (admin)", cmdReport},
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer, getenv func(string) string) int {
	fs := flag.NewFlagSet("vacationctl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	baseURL := fs.String("base-url", envOr(getenv, "VACATIONS_API_URL", client.DefaultBaseURL), "API root URL ($VACATIONS_API_URL)")
	token := fs.String("token", getenv("VACATIONS_TOKEN"), "bearer token ($VACATIONS_TOKEN)")
	fs.Usage = func() { usage(fs) }
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	name := fs.Arg(0)
	if name == "" || name == "help" {
		usage(fs)
		if name == "" {
			return 2
		}
		return 0
	}

	for _, cmd := range commands {
		if cmd.name != name {
			continue
		}
		c := &cli{
			api:    client.New(*baseURL, client.WithToken(*token)),
			stdout: stdout,
			stderr: stderr,
		}
		if err := cmd.run(ctx, c, fs.Args()[1:]); err != nil {
			fmt.Fprintf(stderr, "vacationctl %s: %v\n", name, err)
			if errors.Is(err, errUsage) {
				fmt.Fprintf(stderr, "usage: vacationctl %s %s\n", cmd.name, cmd.args)
				return 2
			}
			return 1
		}
		return 0
	}

	fmt.Fprintf(stderr, "vacationctl: unknown command %q\n", name)
	usage(fs)
	return 2
}

func usage(fs *flag.FlagSet) {
	out := fs.Output()
	fmt.Fprintln(out, "usage: vacationctl [flags] <command> [args]")
	fmt.Fprintln(out, "\ncommands:")
	for _, cmd := range commands {
		fmt.Fprintf(out, "  %-9s %s\n", cmd.name, cmd.summary)
	}
	fmt.Fprintln(out, "\nflags:")
	fs.PrintDefaults()
}

func envOr(getenv func(string) string, key, fallback string) string {
	if v := getenv(key); v != "" {
		return v
	}
	return fallback
}

// printJSON writes v as indented JSON.
func (c *cli) printJSON(v any) error {
	enc := json.NewEncoder(c.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
