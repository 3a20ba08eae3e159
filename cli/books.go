package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"library-service/library"
)

type bookFlags struct {
	Title     string
	Author    string
	ISBN      string
	Publisher string
	Published string // YYYY-MM-DD
}

func (f *bookFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.Title, "title", "", "book title (required)")
	cmd.Flags().StringVar(&f.Author, "author", "", "book author")
	cmd.Flags().StringVar(&f.ISBN, "isbn", "", "ISBN, unique when set")
	cmd.Flags().StringVar(&f.Publisher, "publisher", "", "publisher")
	cmd.Flags().StringVar(&f.Published, "published", "", "publication date (YYYY-MM-DD)")
}

func (f *bookFlags) params() (library.BookParams, error) {
	p := library.BookParams{
		Title:     f.Title,
		Author:    f.Author,
		ISBN:      f.ISBN,
		Publisher: f.Publisher,
	}
	if f.Published != "" {
		d, err := time.Parse("2006-01-02", f.Published)
		if err != nil {
			return p, fmt.Errorf("invalid --published date %q: want YYYY-MM-DD", f.Published)
		}
		p.PublishedDate = &d
	}
	return p, nil
}

func newAddBookCommand(rootOpts *RootOptions) *cobra.Command {
	flags := &bookFlags{}
	cmd := &cobra.Command{
		Use:   "add-book",
		Short: "Add a book to the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := flags.params()
			if err != nil {
				return err
			}
			svc, closeFn, err := openService(rootOpts)
			if err != nil {
				return err
			}
			defer closeFn()

			resp, err := svc.CreateBook(library.CreateBookRequest{Book: p})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added book %d: %s\n", resp.Book.ID, resp.Book.Title)
			return nil
		},
	}
	flags.register(cmd)
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newUpdateBookCommand(rootOpts *RootOptions) *cobra.Command {
	flags := &bookFlags{}
	cmd := &cobra.Command{
		Use:   "update-book <id>",
		Short: "Replace a book's fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			p, err := flags.params()
			if err != nil {
				return err
			}
			svc, closeFn, err := openService(rootOpts)
			if err != nil {
				return err
			}
			defer closeFn()

			resp, err := svc.UpdateBook(library.UpdateBookRequest{ID: id, Book: p})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated book %d: %s\n", resp.Book.ID, resp.Book.Title)
			return nil
		},
	}
	flags.register(cmd)
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newDeleteBookCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete-book <id>",
		Short: "Remove a book (fails while it is borrowed)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			svc, closeFn, err := openService(rootOpts)
			if err != nil {
				return err
			}
			defer closeFn()

			if err := svc.DeleteBook(library.DeleteBookRequest{ID: id}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted book %d\n", id)
			return nil
		},
	}
}

func newGetBookCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get-book <id>",
		Short: "Show one book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			svc, closeFn, err := openService(rootOpts)
			if err != nil {
				return err
			}
			defer closeFn()

			resp, err := svc.GetBook(library.GetBookRequest{ID: id})
			if err != nil {
				return err
			}
			printBookHeader(cmd)
			printBook(cmd, resp.Book)
			return nil
		},
	}
}

func newListBooksCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list-books",
		Short: "List all books",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := openService(rootOpts)
			if err != nil {
				return err
			}
			defer closeFn()

			resp, err := svc.ListBooks()
			if err != nil {
				return err
			}
			printBookHeader(cmd)
			for i := range resp.Books {
				printBook(cmd, &resp.Books[i])
			}
			return nil
		},
	}
}

func printBookHeader(cmd *cobra.Command) {
	fmt.Fprintf(cmd.OutOrStdout(), "%-5s %-30s %-25s %-15s %s\n", "ID", "TITLE", "AUTHOR", "ISBN", "PUBLISHER")
}

func printBook(cmd *cobra.Command, b *library.Book) {
	fmt.Fprintf(cmd.OutOrStdout(), "%-5d %-30s %-25s %-15s %s\n", b.ID, b.Title, b.Author, b.ISBN, b.Publisher)
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return id, nil
}
