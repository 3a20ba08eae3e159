package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"library-service/library"
)

// RootOptions holds global flags shared by all commands.
type RootOptions struct {
	ConfigPath string
	Database   string
	Verbose    bool
}

// NewRootCommand creates the root command for the library CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "library",
		Short:         "Operate the library lending service",
		Long:          "Command-line operator tool for the lending domain core: manage books and members, borrow and return books.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to config.yaml (optional)")
	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "path to SQLite database (overrides config)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(newAddBookCommand(opts))
	cmd.AddCommand(newUpdateBookCommand(opts))
	cmd.AddCommand(newDeleteBookCommand(opts))
	cmd.AddCommand(newGetBookCommand(opts))
	cmd.AddCommand(newListBooksCommand(opts))
	cmd.AddCommand(newAddMemberCommand(opts))
	cmd.AddCommand(newUpdateMemberCommand(opts))
	cmd.AddCommand(newDeleteMemberCommand(opts))
	cmd.AddCommand(newGetMemberCommand(opts))
	cmd.AddCommand(newListMembersCommand(opts))
	cmd.AddCommand(newBorrowCommand(opts))
	cmd.AddCommand(newReturnCommand(opts))
	cmd.AddCommand(newBorrowedCommand(opts))
	cmd.AddCommand(newAvailableCommand(opts))

	return cmd
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	if err := NewRootCommand().Execute(); err != nil {
		os.Stderr.WriteString("Error: " + err.Error() + "\n")
		return 1
	}
	return 0
}

// openService resolves config, opens the store, and builds the façade. The
// returned closer releases the database.
func openService(opts *RootOptions) (*library.Service, func(), error) {
	cfg, err := LoadConfig(opts.ConfigPath)
	if err != nil {
		return nil, nil, err
	}
	if opts.Database != "" {
		cfg.DBPath = opts.Database
	}

	level := cfg.SlogLevel()
	if opts.Verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	logger := library.NewSlogLogger(slog.New(handler))

	store, err := library.OpenStore(cfg.DBPath)
	if err != nil {
		return nil, nil, err
	}
	engine := library.NewEngine(store, library.WithLogger(logger))
	svc := library.NewService(engine, logger)
	return svc, func() { store.Close() }, nil
}
