package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"library-service/library"
)

func newBorrowCommand(rootOpts *RootOptions) *cobra.Command {
	var due string
	cmd := &cobra.Command{
		Use:   "borrow <book-id> <member-id>",
		Short: "Borrow a book for a member",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			bookID, err := parseID(args[0])
			if err != nil {
				return err
			}
			memberID, err := parseID(args[1])
			if err != nil {
				return err
			}
			req := library.BorrowBookRequest{BookID: bookID, MemberID: memberID}
			if due != "" {
				d, err := time.Parse("2006-01-02", due)
				if err != nil {
					return fmt.Errorf("invalid --due date %q: want YYYY-MM-DD", due)
				}
				req.DueAt = &d
			}

			svc, closeFn, err := openService(rootOpts)
			if err != nil {
				return err
			}
			defer closeFn()

			resp, err := svc.BorrowBook(req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Borrowing %d: book %d -> member %d\n",
				resp.Borrowing.ID, resp.Borrowing.BookID, resp.Borrowing.MemberID)
			return nil
		},
	}
	cmd.Flags().StringVar(&due, "due", "", "due date (YYYY-MM-DD)")
	return cmd
}

func newReturnCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "return <borrowing-id>",
		Short: "Return a borrowed book",
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

			resp, err := svc.ReturnBook(library.ReturnBookRequest{BorrowingID: id})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Returned borrowing %d (book %d)\n",
				resp.Borrowing.ID, resp.Borrowing.BookID)
			return nil
		},
	}
}

func newBorrowedCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "borrowed <member-id>",
		Short: "List a member's borrowings, oldest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			memberID, err := parseID(args[0])
			if err != nil {
				return err
			}
			svc, closeFn, err := openService(rootOpts)
			if err != nil {
				return err
			}
			defer closeFn()

			resp, err := svc.ListBorrowedByMember(library.ListBorrowedByMemberRequest{MemberID: memberID})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-5s %-8s %-10s %-20s %s\n", "ID", "BOOK", "STATUS", "BORROWED", "RETURNED")
			for _, b := range resp.Borrowings {
				returned := "-"
				if b.ReturnedAt != nil {
					returned = b.ReturnedAt.Format("2006-01-02 15:04")
				}
				fmt.Fprintf(out, "%-5d %-8d %-10s %-20s %s\n",
					b.ID, b.BookID, b.Status, b.BorrowedAt.Format("2006-01-02 15:04"), returned)
			}
			return nil
		},
	}
}

func newAvailableCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "available <book-id>",
		Short: "Check whether a book can be borrowed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bookID, err := parseID(args[0])
			if err != nil {
				return err
			}
			svc, closeFn, err := openService(rootOpts)
			if err != nil {
				return err
			}
			defer closeFn()

			avail, err := svc.IsAvailable(library.IsAvailableRequest{BookID: bookID})
			if err != nil {
				return err
			}
			if avail.Available {
				fmt.Fprintf(cmd.OutOrStdout(), "Book %d is available\n", bookID)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Book %d is currently borrowed\n", bookID)
			}
			return nil
		},
	}
}
