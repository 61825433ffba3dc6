package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kmorse/paddlebot/replay"
)

var (
	replayFPS   float64
	replayFrame int
	replayCols  int
	replayRows  int
)

var replayCmd = &cobra.Command{
	Use:   "replay <match-id>",
	Short: "Play back a finished match in the terminal",
	Long: `Downloads the game log of a completed match and plays it back
frame by frame. Use --frame to print a single frame instead of animating,
and --fps to change the playback speed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		matchID, err := parseID(args[0], "match")
		if err != nil {
			return err
		}
		client, closeStore, err := newClient()
		if err != nil {
			return err
		}
		defer closeStore()

		ctx, cancel := requestContext(cmd)
		defer cancel()
		match, err := client.Match(ctx, matchID)
		if err != nil {
			return err
		}
		text, err := client.GameLog(ctx, match.GameLogURL)
		if errors.Is(err, replay.ErrLogUnavailable) {
			return fmt.Errorf("no game log available for this match (status: %s)", match.StatusDisplay)
		}
		if err != nil {
			return err
		}
		log, err := replay.ParseLog(text)
		if err != nil {
			return fmt.Errorf("parsing game log: %w", err)
		}

		scale := replay.ScaleFor(float64(replayCols), float64(replayRows))

		if replayFrame >= 0 {
			if replayFrame > log.Len()-1 {
				return fmt.Errorf("frame %d out of range, log has %d frames", replayFrame, log.Len())
			}
			scene := replay.Render(log.Frames[replayFrame], scale)
			fmt.Println(strings.Join(sceneLines(scene, replayCols, replayRows), "\n"))
			return nil
		}

		return runPlayback(log, scale)
	},
}

// runPlayback animates the log in place, redrawing from the top of the
// screen on every frame, until the last frame is shown or the user
// interrupts.
func runPlayback(log *replay.Log, scale replay.Scale) error {
	player := replay.NewPlayer(replay.WithLogger(
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	))
	player.OnFrame(func(f replay.Frame, c replay.Cursor) {
		scene := replay.Render(f, scale)
		fmt.Print("\x1b[H")
		fmt.Println(strings.Join(sceneLines(scene, replayCols, replayRows), "\n"))
		fmt.Printf("frame %d/%d\n", c.Index+1, log.Len())
	})

	fmt.Print("\x1b[2J")
	player.Load(log)
	player.SetRate(replayFPS)
	player.Play()
	defer player.Close()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	poll := time.NewTicker(50 * time.Millisecond)
	defer poll.Stop()
	for {
		select {
		case <-quit:
			fmt.Println("\nPlayback interrupted")
			return nil
		case <-poll.C:
			if !player.Cursor().Playing {
				fmt.Println("\nPlayback finished")
				return nil
			}
		}
	}
}

func init() {
	rootCmd.AddCommand(replayCmd)
	replayCmd.Flags().Float64Var(&replayFPS, "fps", replay.DefaultRate, "Playback speed in frames per second")
	replayCmd.Flags().IntVar(&replayFrame, "frame", -1, "Print this single frame and exit")
	replayCmd.Flags().IntVar(&replayCols, "width", 60, "Court width in terminal columns")
	replayCmd.Flags().IntVar(&replayRows, "height", 30, "Court height in terminal rows")
}
