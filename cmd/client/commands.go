package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/atinyakov/TodoKeeper/internal/models"
)

type runWithApp func(run func(cmd *cobra.Command, a *app, args []string) error) func(*cobra.Command, []string) error

func newTodoCmd(withApp runWithApp) *cobra.Command {
	cmd := &cobra.Command{Use: "todo", Short: "Inspect the todos kept on this device"}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List the device collection",
			RunE: withApp(func(cmd *cobra.Command, a *app, _ []string) error {
				todos, err := a.todos.List(cmd.Context())
				if err != nil {
					return err
				}
				printTodos(cmd, todos)
				return nil
			}),
		},
		&cobra.Command{
			Use:   "pending",
			Short: "List todos not yet sent to the server",
			RunE: withApp(func(cmd *cobra.Command, a *app, _ []string) error {
				todos, err := a.todos.Pending(cmd.Context())
				if err != nil {
					return err
				}
				printTodos(cmd, todos)
				return nil
			}),
		},
	)
	return cmd
}

func printTodos(cmd *cobra.Command, todos []models.Todo) {
	out := cmd.OutOrStdout()
	if len(todos) == 0 {
		fmt.Fprintln(out, "No todos.")
		return
	}
	for _, t := range todos {
		fmt.Fprintf(out, "%s  [%s] %s  %s\n", t.CreatedAt.Format("2006-01-02 15:04"), t.Priority, t.Title, t.Description)
	}
}

func newProfileCmd(withApp runWithApp) *cobra.Command {
	cmd := &cobra.Command{Use: "profile", Short: "Show or reset the device profile"}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the saved profile",
			RunE: withApp(func(cmd *cobra.Command, a *app, _ []string) error {
				p, err := a.profiles.Load(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Name:     %s\nEmail:    %s\nPhone:    %s\nLocation: %s\nBio:      %s\n",
					p.Name, p.Email, p.Phone, p.Location, p.Bio)
				return nil
			}),
		},
		&cobra.Command{
			Use:   "reset",
			Short: "Erase every value stored on this device",
			RunE: withApp(func(cmd *cobra.Command, a *app, _ []string) error {
				if err := a.profiles.Reset(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "App data cleared.")
				return nil
			}),
		},
	)
	return cmd
}

func newResetCmd(withApp runWithApp) *cobra.Command {
	var token, password string
	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Set a new password with the token from the reset email",
		RunE: withApp(func(cmd *cobra.Command, a *app, _ []string) error {
			if err := a.api.ConfirmPasswordReset(cmd.Context(), token, password); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Password updated. You can sign in now.")
			return nil
		}),
	}
	cmd.Flags().StringVar(&token, "token", "", "reset token")
	cmd.Flags().StringVar(&password, "password", "", "new password")
	_ = cmd.MarkFlagRequired("token")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
