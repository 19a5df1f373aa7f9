package cli

import (
	"github.com/spf13/cobra"
)

func newGameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "game",
		Short: "Game commands",
	}

	cmd.AddCommand(newGameStartCmd())
	cmd.AddCommand(newGameGetCmd())
	cmd.AddCommand(newGameIntentCmd("draw <code>", "Draw a card (only when nothing in hand is playable)", "draw"))
	cmd.AddCommand(newGameIntentCmd("skip <code>", "Pass the turn (only when nothing in hand is playable)", "skip"))
	cmd.AddCommand(newGameIntentCmd("leave <code>", "Leave the game but stay in the room", "leave"))
	cmd.AddCommand(newGamePlayCmd())
	cmd.AddCommand(newGameColorCmd())

	return cmd
}

func newGameStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start <code>",
		Short: "Start a game with the room's members",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result GameResult
			if err := client.Post(withPlayer(roomPath(args[0], "game"), cfg.Player), nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newGameGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <code>",
		Short: "Get current game state (your hand is shown when --player is set)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result GameResult
			if err := client.Get(withPlayer(roomPath(args[0], "game"), cfg.Player), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

// newGameIntentCmd builds a command for intents that only name the player
func newGameIntentCmd(use, short, action string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			player, err := cfg.RequirePlayer()
			if err != nil {
				return err
			}
			return postIntent(args[0], action, map[string]any{"player": player})
		},
	}
}

func newGamePlayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "play <code> <color> <rank>",
		Short: "Play a card from your hand",
		Long: `Play a card from your hand. Wild cards are played with the color black,
for example "play ROOM01 black wild" or "play ROOM01 black +4", and are
followed by the color command.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			player, err := cfg.RequirePlayer()
			if err != nil {
				return err
			}
			return postIntent(args[0], "play", map[string]any{
				"player": player,
				"card":   map[string]string{"color": args[1], "rank": args[2]},
			})
		},
	}
}

func newGameColorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "color <code> <color>",
		Short: "Choose the color for the wild you just played",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			player, err := cfg.RequirePlayer()
			if err != nil {
				return err
			}
			return postIntent(args[0], "color", map[string]any{"player": player, "color": args[1]})
		},
	}
}

func postIntent(code, action string, body map[string]any) error {
	var result GameResult
	if err := client.Post(roomPath(code, "game", action), body, &result); err != nil {
		return err
	}

	out := NewOutput(cfg.Output)
	out.Print(result)
	return nil
}
