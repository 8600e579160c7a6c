package main

import (
	"bufio"
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill/message"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/agentwatch/agentwatch/pkg/activity"
	"github.com/agentwatch/agentwatch/pkg/events"
	"github.com/agentwatch/agentwatch/pkg/helpers"
)

func newWatchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "watch [file|-]",
		Short: "Render the live activity log while a JSONL event stream arrives",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runWatch,
	}
}

// watchForwardFunc feeds the tracker and nudges the TUI after every frame.
func watchForwardFunc(t *activity.Tracker, p *tea.Program) func(msg *message.Message) error {
	forward := events.TrackerForwardFunc(t)
	return func(msg *message.Message) error {
		if err := forward(msg); err != nil {
			return err
		}
		p.Send(frameMsg{})
		return nil
	}
}

func runWatch(cmd *cobra.Command, args []string) error {
	in, err := openInput(args)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	topic := viper.GetString("topic")

	router, err := events.NewEventRouter()
	if err != nil {
		return errors.Wrap(err, "failed to create event router")
	}
	defer func() { _ = router.Close() }()

	tracker := activity.NewTracker(activity.WithLinger(viper.GetDuration("linger")))
	defer tracker.Stop()

	p := tea.NewProgram(initialModel(tracker), tea.WithAltScreen())
	router.AddHandler("tracker", topic, watchForwardFunc(tracker, p))

	manager := events.NewPublisherManager()
	manager.SubscribePublisher(topic, helpers.CorrelationPublisherDecorator{Publisher: router.Publisher})

	eg := errgroup.Group{}
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	eg.Go(func() error {
		return router.Run(ctx)
	})

	eg.Go(func() error {
		<-router.Running()

		scanner := bufio.NewScanner(in)
		scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
		for scanner.Scan() {
			if ctx.Err() != nil {
				return nil
			}
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
		p.Send(streamDoneMsg{})
		return scanner.Err()
	})

	_, runErr := p.Run()
	cancel()

	if err := eg.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return runErr
}
