package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Manage super-admin accounts",
}

var adminAddCmd = &cobra.Command{
	Use:   "add [username]",
	Short: "Create a super-admin account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		password, _ := cmd.Flags().GetString("password")
		if password == "" {
			return fmt.Errorf("--password is required")
		}
		id, err := store.RegisterSuperAdmin(context.Background(), args[0], password)
		if err != nil {
			return err
		}
		opLog("registered super admin %d (%s)", id, args[0])
		if jsonOutput {
			return printJSON(map[string]interface{}{"id": id, "username": args[0]})
		}
		green.Printf("Created super admin %d (%s)\n", id, args[0])
		return nil
	},
}

var managerCmd = &cobra.Command{
	Use:   "manager",
	Short: "Manage project-manager accounts",
}

var managerAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Create a project-manager account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		username, _ := cmd.Flags().GetString("username")
		password, _ := cmd.Flags().GetString("password")
		if username == "" || password == "" {
			return fmt.Errorf("--username and --password are required")
		}
		id, err := store.RegisterManager(context.Background(), args[0], username, password)
		if err != nil {
			return err
		}
		opLog("registered manager %d (%s)", id, username)
		if jsonOutput {
			return printJSON(map[string]interface{}{"id": id, "name": args[0], "username": username})
		}
		green.Printf("Created manager %d (%s)\n", id, args[0])
		return nil
	},
}

var managerListCmd = &cobra.Command{
	Use:   "list",
	Short: "List project managers",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		managers, err := store.ListManagers(context.Background())
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(managers)
		}
		for _, m := range managers {
			fmt.Printf("  [%d] %s (%s)\n", m.ID, bold.Sprint(m.Name), m.Username)
		}
		return nil
	},
}

var memberCmd = &cobra.Command{
	Use:   "member",
	Short: "Manage team-member accounts",
}

var memberAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Create a team-member account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")
		if email == "" || password == "" {
			return fmt.Errorf("--email and --password are required")
		}
		id, err := store.RegisterMember(context.Background(), args[0], email, password)
		if err != nil {
			return err
		}
		opLog("registered member %d (%s)", id, email)
		if jsonOutput {
			return printJSON(map[string]interface{}{"id": id, "name": args[0], "email": email})
		}
		green.Printf("Created member %d (%s)\n", id, args[0])
		return nil
	},
}

var memberListCmd = &cobra.Command{
	Use:   "list",
	Short: "List team members",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		members, err := store.ListMembers(context.Background())
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(members)
		}
		for _, m := range members {
			fmt.Printf("  [%d] %s (%s)\n", m.ID, bold.Sprint(m.Name), m.Email)
		}
		return nil
	},
}

var loginCmd = &cobra.Command{
	Use:   "login [identifier]",
	Short: "Verify credentials and print an identity handle",
	Long: `Verifies credentials against one of the three role tables and prints the
resulting identity handle. --role selects the table: admin and manager
accounts log in by username, members by email.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		role, _ := cmd.Flags().GetString("role")
		password, _ := cmd.Flags().GetString("password")
		if password == "" {
			return fmt.Errorf("--password is required")
		}

		ctx := context.Background()
		var (
			identity interface{}
			err      error
		)
		switch role {
		case "admin":
			identity, err = store.AuthenticateSuperAdmin(ctx, args[0], password)
		case "manager":
			identity, err = store.AuthenticateManager(ctx, args[0], password)
		case "member":
			identity, err = store.AuthenticateMember(ctx, args[0], password)
		default:
			return fmt.Errorf("invalid role %q (expected admin, manager, or member)", role)
		}
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(identity)
		}
		green.Println("Login successful.")
		return printJSON(identity)
	},
}

func init() {
	adminAddCmd.Flags().String("password", "", "Password for the new account")
	adminCmd.AddCommand(adminAddCmd)

	managerAddCmd.Flags().String("username", "", "Login username")
	managerAddCmd.Flags().String("password", "", "Password for the new account")
	managerCmd.AddCommand(managerAddCmd)
	managerCmd.AddCommand(managerListCmd)

	memberAddCmd.Flags().String("email", "", "Login email")
	memberAddCmd.Flags().String("password", "", "Password for the new account")
	memberCmd.AddCommand(memberAddCmd)
	memberCmd.AddCommand(memberListCmd)

	loginCmd.Flags().String("role", "member", "Role table to authenticate against: admin, manager, member")
	loginCmd.Flags().String("password", "", "Password")

	rootCmd.AddCommand(adminCmd)
	rootCmd.AddCommand(managerCmd)
	rootCmd.AddCommand(memberCmd)
	rootCmd.AddCommand(loginCmd)
}
