package cli

import (
	"github.com/spf13/cobra"
)

func newRoomCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "room",
		Short: "Room management commands",
	}

	cmd.AddCommand(newRoomCreateCmd())
	cmd.AddCommand(newRoomGetCmd())
	cmd.AddCommand(newRoomJoinCmd())
	cmd.AddCommand(newRoomLeaveCmd())
	cmd.AddCommand(newRoomKickCmd())
	cmd.AddCommand(newRoomAddBotCmd())

	return cmd
}

func newRoomCreateCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new room hosted by you",
		RunE: func(cmd *cobra.Command, args []string) error {
			player, err := cfg.RequirePlayer()
			if err != nil {
				return err
			}

			var result Room
			req := map[string]string{"name": name, "player": player}
			if err := client.Post("/api/v1/rooms", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Room display name")

	return cmd
}

func newRoomGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <code>",
		Short: "Get room details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Room
			if err := client.Get(roomPath(args[0]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newRoomJoinCmd() *cobra.Command {
	return newRoomIntentCmd("join <code>", "Join a room", "join")
}

func newRoomLeaveCmd() *cobra.Command {
	return newRoomIntentCmd("leave <code>", "Leave a room (and its game)", "leave")
}

// newRoomIntentCmd builds a command that posts only the player's name
func newRoomIntentCmd(use, short, action string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			player, err := cfg.RequirePlayer()
			if err != nil {
				return err
			}

			var result Room
			if err := client.Post(roomPath(args[0], action), map[string]string{"player": player}, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newRoomKickCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "kick <code> <target>",
		Short: "Remove a member from the room (host only)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			player, err := cfg.RequirePlayer()
			if err != nil {
				return err
			}

			var result Room
			req := map[string]string{"player": player, "target": args[1]}
			if err := client.Post(roomPath(args[0], "kick"), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newRoomAddBotCmd() *cobra.Command {
	var strategy string

	cmd := &cobra.Command{
		Use:   "add-bot <code>",
		Short: "Seat a bot in the room (host only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			player, err := cfg.RequirePlayer()
			if err != nil {
				return err
			}

			var result Room
			req := map[string]string{"player": player, "strategy": strategy}
			if err := client.Post(roomPath(args[0], "bots"), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&strategy, "strategy", "", "Bot strategy: random, greedy (default: random)")

	return cmd
}
