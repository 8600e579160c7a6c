package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/agentwatch/agentwatch/pkg/activity"
	"github.com/agentwatch/agentwatch/pkg/events"
	"github.com/agentwatch/agentwatch/pkg/helpers"
)

// replaySnapshot is the renderable end state of a replayed stream.
type replaySnapshot struct {
	Phase activity.Phase  `json:"phase" yaml:"phase"`
	Turns []activity.Turn `json:"turns" yaml:"turns"`
}

func newReplayCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay [file|-]",
		Short: "Replay a JSONL event stream through the tracker and print the final activity log",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runReplay,
	}
	cmd.Flags().StringP("output", "o", "text", "output format (text, yaml, json)")
	return cmd
}

func runReplay(cmd *cobra.Command, args []string) error {
	in, err := openInput(args)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	output, _ := cmd.Flags().GetString("output")
	topic := viper.GetString("topic")

	routerOptions := []events.EventRouterOption{}
	if viper.GetBool("verbose") {
		routerOptions = append(routerOptions, events.WithVerbose(true))
	}
	router, err := events.NewEventRouter(routerOptions...)
	if err != nil {
		return errors.Wrap(err, "failed to create event router")
	}
	defer func() { _ = router.Close() }()

	tracker := activity.NewTracker(
		activity.WithLogger(log.Logger),
		activity.WithLinger(viper.GetDuration("linger")),
	)
	defer tracker.Stop()

	router.AddHandler("tracker", topic, events.TrackerForwardFunc(tracker))
	if viper.GetBool("verbose") {
		router.AddHandler("dump", topic, router.DumpRawEvents)
	}

	manager := events.NewPublisherManager()
	manager.SubscribePublisher(topic, helpers.CorrelationPublisherDecorator{Publisher: router.Publisher})

	eg := errgroup.Group{}
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	eg.Go(func() error {
		defer cancel()
		return router.Run(ctx)
	})

	eg.Go(func() error {
		defer cancel()
		<-router.Running()

		scanner := bufio.NewScanner(in)
		scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
		for scanner.Scan() {
			line := scanner.Bytes()
			if len(line) == 0 {
				continue
			}
			frame := make(json.RawMessage, len(line))
			copy(frame, line)
			if err := manager.Publish(frame); err != nil {
				return errors.Wrap(err, "failed to publish frame")
			}
		}
		return scanner.Err()
	})

	if err := eg.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	snapshot := replaySnapshot{
		Phase: tracker.Phase(),
		Turns: tracker.Turns(),
	}
	return printSnapshot(output, snapshot)
}

func printSnapshot(format string, snapshot replaySnapshot) error {
	switch format {
	case "text":
		fmt.Printf("phase: %s\n", snapshot.Phase)
		activity.FprintTurns(os.Stdout, snapshot.Turns)
		return nil
	case "yaml":
		b, err := yaml.Marshal(snapshot)
		if err != nil {
			return err
		}
		fmt.Print(string(b))
		return nil
	case "json":
		b, err := json.MarshalIndent(snapshot, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(b))
		return nil
	}
	return errors.Errorf("unknown output format %q", format)
}
