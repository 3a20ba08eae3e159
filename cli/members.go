package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"library-service/library"
)

type memberFlags struct {
	Name    string
	Email   string
	Phone   string
	Address string
}

func (f *memberFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.Name, "name", "", "member name (required)")
	cmd.Flags().StringVar(&f.Email, "email", "", "email, unique when set")
	cmd.Flags().StringVar(&f.Phone, "phone", "", "phone number")
	cmd.Flags().StringVar(&f.Address, "address", "", "postal address")
}

func (f *memberFlags) params() library.MemberParams {
	return library.MemberParams{
		Name:    f.Name,
		Email:   f.Email,
		Phone:   f.Phone,
		Address: f.Address,
	}
}

func newAddMemberCommand(rootOpts *RootOptions) *cobra.Command {
	flags := &memberFlags{}
	cmd := &cobra.Command{
		Use:   "add-member",
		Short: "Register a member",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := openService(rootOpts)
			if err != nil {
				return err
			}
			defer closeFn()

			resp, err := svc.CreateMember(library.CreateMemberRequest{Member: flags.params()})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added member %d: %s\n", resp.Member.ID, resp.Member.Name)
			return nil
		},
	}
	flags.register(cmd)
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newUpdateMemberCommand(rootOpts *RootOptions) *cobra.Command {
	flags := &memberFlags{}
	cmd := &cobra.Command{
		Use:   "update-member <id>",
		Short: "Replace a member's fields",
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

			resp, err := svc.UpdateMember(library.UpdateMemberRequest{ID: id, Member: flags.params()})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated member %d: %s\n", resp.Member.ID, resp.Member.Name)
			return nil
		},
	}
	flags.register(cmd)
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newDeleteMemberCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete-member <id>",
		Short: "Remove a member (fails while they have borrowed books)",
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

			if err := svc.DeleteMember(library.DeleteMemberRequest{ID: id}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted member %d\n", id)
			return nil
		},
	}
}

func newGetMemberCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get-member <id>",
		Short: "Show one member",
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

			resp, err := svc.GetMember(library.GetMemberRequest{ID: id})
			if err != nil {
				return err
			}
			printMemberHeader(cmd)
			printMember(cmd, resp.Member)
			return nil
		},
	}
}

func newListMembersCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list-members",
		Short: "List all members",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := openService(rootOpts)
			if err != nil {
				return err
			}
			defer closeFn()

			resp, err := svc.ListMembers()
			if err != nil {
				return err
			}
			printMemberHeader(cmd)
			for i := range resp.Members {
				printMember(cmd, &resp.Members[i])
			}
			return nil
		},
	}
}

func printMemberHeader(cmd *cobra.Command) {
	fmt.Fprintf(cmd.OutOrStdout(), "%-5s %-25s %-30s %-15s %s\n", "ID", "NAME", "EMAIL", "PHONE", "ADDRESS")
}

func printMember(cmd *cobra.Command, m *library.Member) {
	fmt.Fprintf(cmd.OutOrStdout(), "%-5d %-25s %-30s %-15s %s\n", m.ID, m.Name, m.Email, m.Phone, m.Address)
}
